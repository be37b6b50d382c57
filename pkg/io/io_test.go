package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/netgraph/pkg/graph"
)

func TestReadJSON(t *testing.T) {
	in := `{
	  "nodes": [
	    {"key": "a", "label": "Acme", "category": "company", "importance": 3, "x": 1.5, "y": -2},
	    {"key": 7, "label": "REAG Trust"},
	    {"key": "a"}
	  ],
	  "edges": [
	    {"source": "a", "target": 7, "qualifier": "49"},
	    {"source": "a", "target": "ghost"}
	  ]
	}`

	g, report, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("got %d nodes %d edges, want 2 and 1", g.NodeCount(), g.EdgeCount())
	}
	if report.DuplicateNodes != 1 || report.DroppedEdges != 1 {
		t.Errorf("report = %+v, want 1 duplicate and 1 dropped edge", report)
	}

	a := g.Node("a")
	if a.Category != graph.CategoryCompany || !a.HasPosition() || a.X != 1.5 || a.Y != -2 {
		t.Errorf("node a = %+v", a)
	}
	if c := g.Node("7").Category; c != graph.CategoryREAG {
		t.Errorf("node 7 category = %v, want reag", c)
	}
	if e := g.Edges()[0]; !e.HasQualifier || e.Qualifier != 49 {
		t.Errorf("edge = %+v, want qualifier 49", e)
	}
}

func TestReadJSON_Malformed(t *testing.T) {
	if _, _, err := ReadJSON(strings.NewReader(`{"nodes": [`)); err == nil {
		t.Error("ReadJSON() error = nil, want decode error")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	g, _ := graph.Load(
		[]graph.NodeSpec{{Key: "a", Label: "A", Category: graph.CategoryPerson}, {Key: "b"}},
		[]graph.EdgeSpec{{Source: "a", Target: "b", Qualifier: 22, HasQualifier: true}},
	)
	g.Node("a").SetPosition(10, 20)

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	back, report, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if report.Err() != nil {
		t.Errorf("report = %+v, want clean", report)
	}
	a := back.Node("a")
	if a.X != 10 || a.Y != 20 || a.Category != graph.CategoryPerson {
		t.Errorf("node a = %+v", a)
	}
	if back.Node("b").HasPosition() {
		t.Error("node b gained a position")
	}
	if e := back.Edges()[0]; e.Qualifier != 22 {
		t.Errorf("qualifier = %d, want 22", e.Qualifier)
	}
}

func TestReadCosmograph(t *testing.T) {
	in := `{
	  "nodes": [
	    {"id": 1, "label": "Ana", "color": "#800080", "size": 12},
	    {"id": 2, "label": "Acme", "color": "#ffa500", "size": 8},
	    {"id": 3, "label": "REAG Fundo", "size": 18}
	  ],
	  "links": [
	    {"source": 1, "target": 2, "qualificacao_socio": 22},
	    {"source": 2, "target": 3},
	    {"source": 3, "target": 99}
	  ]
	}`

	g, report, err := ReadCosmograph(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCosmograph() error = %v", err)
	}
	if report.DroppedEdges != 1 {
		t.Errorf("DroppedEdges = %d, want 1", report.DroppedEdges)
	}

	tests := []struct {
		key  string
		want graph.Category
	}{
		{"1", graph.CategoryPerson},
		{"2", graph.CategoryCompany},
		{"3", graph.CategoryREAG},
	}
	for _, tt := range tests {
		if got := g.Node(tt.key).Category; got != tt.want {
			t.Errorf("Category(%s) = %v, want %v", tt.key, got, tt.want)
		}
	}
	if imp := g.Node("3").Importance; imp != 18 {
		t.Errorf("Importance = %v, want 18", imp)
	}
	if e := g.Edges()[1]; e.HasQualifier {
		t.Errorf("edge 2-3 HasQualifier = true, want false")
	}
}

func TestReadCSV(t *testing.T) {
	in := "target,source,qualificacao_socio\n" +
		"REAG CAPITAL,ANA SOUZA,49\n" +
		"ACME,ANA SOUZA,n/a\n" +
		"lonely\n" +
		" ,ACME,22\n"

	g, report, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("got %d nodes %d edges, want 3 and 2", g.NodeCount(), g.EdgeCount())
	}
	if report.DroppedEdges != 2 {
		t.Errorf("DroppedEdges = %d, want 2", report.DroppedEdges)
	}
	if n := g.Nodes()[0]; n.Key != "ANA SOUZA" {
		t.Errorf("first node = %q, want ANA SOUZA", n.Key)
	}
	if g.Node("REAG CAPITAL").Category != graph.CategoryREAG {
		t.Error("REAG CAPITAL not classified as REAG")
	}
	e0, e1 := g.Edges()[0], g.Edges()[1]
	if !e0.HasQualifier || e0.Qualifier != 49 {
		t.Errorf("edge 0 = %+v, want qualifier 49", e0)
	}
	if e1.HasQualifier {
		t.Errorf("edge 1 = %+v, want no qualifier", e1)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		data string
		want Format
	}{
		{"net.csv", `{"links": []}`, FormatCSV},
		{"net.json", `{"nodes": [], "links": []}`, FormatCosmograph},
		{"net.json", `{"nodes": [], "edges": []}`, FormatJSON},
		{"", "source,target\na,b\n", FormatCSV},
	}
	for _, tt := range tests {
		if got := Detect(tt.path, []byte(tt.data)); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReadUnsupportedFormat(t *testing.T) {
	if _, _, err := Read(strings.NewReader(""), "xml"); err == nil {
		t.Error("Read(xml) error = nil, want error")
	}
}

func TestQualifierText(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, ""},
		{49, "Sócio-Administrador"},
		{22, "Sócio"},
		{1000, ""},
	}
	for _, tt := range tests {
		if got := QualifierText(tt.code); got != tt.want {
			t.Errorf("QualifierText(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
