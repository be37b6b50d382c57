package graph

import "strings"

// Category classifies a node for styling and statistics. The set is closed:
// every node belongs to exactly one category.
type Category int

const (
	// CategoryOther is used for nodes that carry no recognised signal.
	CategoryOther Category = iota
	// CategoryPerson marks natural persons (partners, administrators).
	CategoryPerson
	// CategoryCompany marks legal entities.
	CategoryCompany
	// CategoryREAG marks entities belonging to the REAG group.
	CategoryREAG
)

// Categories lists every category in display order.
var Categories = []Category{CategoryPerson, CategoryCompany, CategoryREAG, CategoryOther}

// String returns the lowercase name of the category.
func (c Category) String() string {
	switch c {
	case CategoryPerson:
		return "person"
	case CategoryCompany:
		return "company"
	case CategoryREAG:
		return "reag"
	default:
		return "other"
	}
}

// ParseCategory maps a category name back to its value. Unknown names map to
// [CategoryOther].
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "person", "pessoa", "pf":
		return CategoryPerson
	case "company", "empresa", "pj":
		return CategoryCompany
	case "reag":
		return CategoryREAG
	default:
		return CategoryOther
	}
}

// Colour signals used by exported network datasets.
const (
	ColorPerson  = "#800080"
	ColorCompany = "#ffa500"
	ColorREAG    = "#ff0000"
)

// CategoryFromColor maps a dataset colour to its category. Matching is
// case-insensitive and tolerates a missing leading '#'.
func CategoryFromColor(hex string) Category {
	h := strings.ToLower(strings.TrimSpace(hex))
	if h != "" && h[0] != '#' {
		h = "#" + h
	}
	switch h {
	case ColorPerson:
		return CategoryPerson
	case ColorCompany:
		return CategoryCompany
	case ColorREAG:
		return CategoryREAG
	default:
		return CategoryOther
	}
}

// Color returns the dataset colour of the category, or a neutral grey for
// [CategoryOther].
func (c Category) Color() string {
	switch c {
	case CategoryPerson:
		return ColorPerson
	case CategoryCompany:
		return ColorCompany
	case CategoryREAG:
		return ColorREAG
	default:
		return "#999999"
	}
}

// IsREAG reports whether a key or label follows the REAG naming convention.
func IsREAG(key, label string) bool {
	return strings.Contains(strings.ToUpper(key), "REAG") ||
		strings.Contains(strings.ToUpper(label), "REAG")
}

// ClassifyREAG returns [CategoryREAG] for REAG-named nodes and
// [CategoryOther] otherwise. It is used when input carries no category.
func ClassifyREAG(key, label string) Category {
	if IsREAG(key, label) {
		return CategoryREAG
	}
	return CategoryOther
}

// REAGNeighbors returns the keys of nodes directly connected to a REAG node
// that are not REAG nodes themselves, in node order. The graph is not
// modified.
func REAGNeighbors(g *Graph) []string {
	tier := make(map[string]bool)
	for _, e := range g.edges {
		src, dst := g.Node(e.Source), g.Node(e.Target)
		if src == nil || dst == nil {
			continue
		}
		if src.Category == CategoryREAG && dst.Category != CategoryREAG {
			tier[dst.Key] = true
		}
		if dst.Category == CategoryREAG && src.Category != CategoryREAG {
			tier[src.Key] = true
		}
	}
	out := make([]string, 0, len(tier))
	for _, n := range g.nodes {
		if tier[n.Key] {
			out = append(out, n.Key)
		}
	}
	return out
}
