package svg

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/netgraph/pkg/render"
	"github.com/matzehuels/netgraph/pkg/viewport"
)

func testFrame() *render.Frame {
	return &render.Frame{
		Transform:  viewport.Transform{X: 10, Y: 20, K: 2},
		Width:      400,
		Height:     300,
		Background: "#111111",
		Edges:      []render.EdgeItem{{X1: 0, Y1: 0, X2: 50, Y2: 0, Color: "#999999", Width: 1, Opacity: 0.6}},
		Nodes: []render.NodeItem{
			{Key: "a", X: 0, Y: 0, Radius: 14.4, Fill: "#ffff00", Stroke: "#ffffff", StrokeWidth: 1, Glow: 15, GlowColor: "#ffff00", Opacity: 1},
			{Key: "b&c", X: 50, Y: 0, Radius: 8, Fill: "#ffa500", Opacity: 0.35},
		},
		Labels: []render.LabelItem{{Key: "a", Text: "Ana <Souza>", X: 0, Y: -20, FontSize: 15, Fill: "#ffff00", Stroke: "#000000", StrokeWidth: 3}},
	}
}

func TestRender(t *testing.T) {
	out := string(Render(testFrame(), WithNodeKeys(), WithTitle("net")))

	for _, want := range []string{
		`viewBox="0 0 400.0 300.0"`,
		`<title>net</title>`,
		`transform="translate(10.00,20.00) scale(2.0000)"`,
		`<filter id="glow-0"`,
		`filter="url(#glow-0)"`,
		`data-key="b&amp;c"`,
		`opacity="0.35"`,
		`Ana &lt;Souza&gt;`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// Paint order: edges, then nodes, then labels.
	line, circle, text := strings.Index(out, "<line"), strings.Index(out, "<circle"), strings.Index(out, "<text")
	if !(line < circle && circle < text) {
		t.Errorf("item order = line %d, circle %d, text %d, want ascending", line, circle, text)
	}
}

func TestRender_Fit(t *testing.T) {
	f := &render.Frame{Nodes: []render.NodeItem{
		{X: 0, Y: 0, Radius: 10, Fill: "#fff", Opacity: 1},
		{X: 100, Y: 50, Radius: 10, Fill: "#fff", Opacity: 1},
	}}
	out := string(Render(f, WithFit(5)))

	if !strings.Contains(out, `viewBox="0 0 130.0 80.0"`) {
		t.Errorf("viewBox not fitted to items:\n%s", out)
	}
	if !strings.Contains(out, `translate(15.00,15.00)`) {
		t.Error("fitted output not translated by padding")
	}
}

func TestRender_EmptyFrame(t *testing.T) {
	out := string(Render(&render.Frame{}))
	if !strings.Contains(out, `width="800" height="600"`) {
		t.Errorf("empty frame did not use default size:\n%s", out)
	}
	if strings.Contains(out, "<defs>") {
		t.Error("empty frame wrote defs")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestSurface(t *testing.T) {
	var buf bytes.Buffer
	var s render.Surface = NewSurface(&buf)
	if err := s.Draw(testFrame()); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<svg") {
		t.Error("Draw() did not write an SVG document")
	}

	if err := NewSurface(failWriter{}).Draw(testFrame()); err == nil {
		t.Error("Draw() error = nil, want write error")
	}
}
