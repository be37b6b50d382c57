package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/netgraph/pkg/graph"
)

func TestToDOT(t *testing.T) {
	g, _ := graph.Load(
		[]graph.NodeSpec{
			{Key: "a", Label: "Ana", Category: graph.CategoryPerson, X: 10, Y: 20, HasPosition: true},
			{Key: "b", Label: "Acme \"Ltda\"", Category: graph.CategoryCompany},
		},
		[]graph.EdgeSpec{{Source: "a", Target: "b", Qualifier: 49, HasQualifier: true}},
	)

	out := ToDOT(g, Options{Qualifiers: func(code int) string {
		if code == 49 {
			return "Administrador"
		}
		return ""
	}})

	for _, want := range []string{
		"layout=neato;",
		`"a" [label="Ana", fillcolor="#800080", width=0.222, pos="10.00,-20.00!"];`,
		`label="Acme \"Ltda\""`,
		`"a" -- "b" [label="Administrador", fontsize=8];`,
		`bgcolor="transparent";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"b" [label="Acme \"Ltda\"", fillcolor="#ffa500", width=0.222, pos=`) {
		t.Error("unplaced node was pinned")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}

	if got := string(normalizeViewBox([]byte("<svg/>"))); got != "<svg/>" {
		t.Errorf("normalizeViewBox() without viewBox = %s, want unchanged", got)
	}
}
