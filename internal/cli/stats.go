package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netgraph/pkg/graph"
)

// statsCommand prints counts for a network without settling it.
func (c *CLI) statsCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "stats [network]",
		Short: "Show node, edge and category counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadOptions(flags.sets)
			if err != nil {
				return err
			}
			h, err := c.openEngine(args[0], opts, nil)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			defer h.Close()

			orig, view := h.Original(), h.Graph()
			fmt.Println(StyleTitle.Render(args[0]))
			printKeyValue("nodes", shown(view.NodeCount(), orig.NodeCount()))
			printKeyValue("edges", shown(view.EdgeCount(), orig.EdgeCount()))
			printKeyValue("min connections", strconv.Itoa(view.Threshold()))
			if key, deg := busiest(orig); deg > 0 {
				printKeyValue("most connected", fmt.Sprintf("%s (%d)", orig.Node(key).Label, deg))
			}
			if tier := graph.REAGNeighbors(view); len(tier) > 0 {
				printKeyValue("REAG neighbours", strconv.Itoa(len(tier)))
			}
			if r := h.report; r.DroppedEdges+r.DuplicateNodes+r.InvalidNodes > 0 {
				printKeyValue("dropped", fmt.Sprintf("%d edges, %d duplicate, %d invalid nodes", r.DroppedEdges, r.DuplicateNodes, r.InvalidNodes))
			}
			fmt.Println(categoryTable(h.Stats()))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func shown(n, total int) string {
	if n == total {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%d of %d", n, total)
}

// busiest returns the node with the highest degree, first in node order on
// ties.
func busiest(g *graph.Graph) (string, int) {
	key, best := "", 0
	for _, n := range g.Nodes() {
		if d := g.Degree(n.Key); d > best {
			key, best = n.Key, d
		}
	}
	return key, best
}
