package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	netio "github.com/matzehuels/netgraph/pkg/io"
)

// layoutFlags are shared by every command that settles a layout.
type layoutFlags struct {
	sets     []string
	maxTicks int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "override an option, e.g. --set charge_strength=-400 (repeatable)")
	cmd.Flags().IntVar(&f.maxTicks, "max-ticks", defaultMaxTicks, "stop settling after this many ticks")
}

// layoutCommand settles a network and writes it back with positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [network]",
		Short: "Settle a network and write node positions",
		Long: `Settle a network with the force-directed layout and write it as native
JSON with x/y positions. The input may be native JSON, cosmograph JSON or an
edge-list CSV.

Settled positions are cached, so a second run over the same network and
options starts warm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.loadOptions(flags.sets)
			if err != nil {
				return err
			}
			store, err := c.newCache(ctx)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			h, err := c.openEngine(args[0], opts, nil)
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			defer h.Close()

			warm, err := c.settle(ctx, h, store, flags.maxTicks)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = outputBase(args[0]) + ".layout.json"
			}
			if err := netio.ExportJSON(h.Graph(), path); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			printSuccess("Layout complete")
			printFile(path)
			printLayoutStats(h.Stats(), warm)
			printNewline()
			printNextStep("Render", appName+" render "+path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)
	c.addBackendFlags(cmd)
	return cmd
}
