package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netgraph/internal/live"
	"github.com/matzehuels/netgraph/internal/watch"
	netio "github.com/matzehuels/netgraph/pkg/io"
)

// serveCommand opens the live view.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		sets     []string
		watchIt  bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve [network]",
		Short: "Explore a network live in the browser",
		Long: `Serve a live, zoomable view of a network. Every browser tab connected to
the server shares one layout: selections, searches and drags made in one tab
show in all of them.

With --watch the network is reloaded whenever the file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			opts, err := c.loadOptions(sets)
			if err != nil {
				return err
			}
			srv, err := live.New(opts, live.WithLogger(c.Logger), live.WithInterval(interval))
			if err != nil {
				return err
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe(ctx, addr) }()

			if err := loadInto(ctx, srv, args[0]); err != nil {
				return err
			}
			printSuccess("Serving %s", args[0])
			printFile("http://" + displayAddr(addr))

			if watchIt {
				w, err := watch.New(args[0], watch.WithLogger(c.Logger))
				if err != nil {
					return fmt.Errorf("watch %s: %w", args[0], err)
				}
				go w.Run(ctx, func(path string) {
					if err := loadInto(ctx, srv, path); err != nil {
						loggerFromContext(ctx).Error("reload failed", "path", path, "error", err)
					}
				})
			}
			return <-errc
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override an option (repeatable)")
	cmd.Flags().BoolVar(&watchIt, "watch", false, "reload the network when the file changes")
	cmd.Flags().DurationVar(&interval, "interval", live.DefaultInterval, "engine frame interval")
	return cmd
}

func loadInto(ctx context.Context, srv *live.Server, path string) error {
	g, report, err := netio.Import(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if err := report.Err(); err != nil {
		loggerFromContext(ctx).Warn("dropped records", "path", path, "error", err)
	}
	return srv.Load(ctx, g)
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
