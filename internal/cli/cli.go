// Package cli implements the netgraph command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netgraph/pkg/buildinfo"
	"github.com/matzehuels/netgraph/pkg/cache"
	"github.com/matzehuels/netgraph/pkg/config"
	"github.com/matzehuels/netgraph/pkg/engine"
	"github.com/matzehuels/netgraph/pkg/graph"
	netio "github.com/matzehuels/netgraph/pkg/io"
	"github.com/matzehuels/netgraph/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	appName = "netgraph"

	// defaultMaxTicks bounds headless settling. At the default alpha decay a
	// layout settles in a few hundred ticks.
	defaultMaxTicks = 3000

	// layoutTTL is how long settled positions stay in shared caches.
	layoutTTL = 7 * 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	backend    backendFlags
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "netgraph lays out and explores company ownership networks",
		Long: `netgraph loads a network of companies and people, settles it with a
force-directed layout and renders it as SVG, PDF, PNG or DOT. The serve
command opens a live, zoomable view in the browser.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+filepath.Join("$XDG_CONFIG_HOME", appName, "config.toml")+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Options and Engine
// =============================================================================

// loadOptions reads the --config file, or the default config file when it
// exists, and applies --set overrides in order.
func (c *CLI) loadOptions(sets []string) (config.Options, error) {
	opts := config.Default()
	path := c.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return opts, err
		}
		opts = loaded
		c.Logger.Debug("config loaded", "path", path)
	}
	for _, s := range sets {
		name, value, _ := strings.Cut(s, "=")
		if err := opts.Set(name, value); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// headless is an engine without a display plus the dataset it was loaded
// from.
type headless struct {
	*engine.Engine
	input  string
	report graph.LoadReport
}

// openEngine imports input and loads it into a fresh engine drawing to
// surface. A nil surface discards frames.
func (c *CLI) openEngine(input string, opts config.Options, surface render.Surface) (*headless, error) {
	g, report, err := netio.Import(input)
	if err != nil {
		return nil, err
	}
	if surface == nil {
		surface = render.SurfaceFunc(func(*render.Frame) error { return nil })
	}
	e, err := engine.New(surface, opts, engine.WithLogger(c.Logger), engine.WithQualifiers(netio.QualifierText))
	if err != nil {
		return nil, err
	}
	if err := report.Err(); err != nil {
		printWarning("%v", err)
	}
	e.SetGraph(g)
	return &headless{Engine: e, input: input, report: report}, nil
}

// settle runs h to rest, starting from cached positions when there are any,
// and stores the result. It reports whether the start was warm.
func (c *CLI) settle(ctx context.Context, h *headless, store cache.Cache, maxTicks int) (bool, error) {
	key := layoutKey(h.Original(), h.Options())
	warm := false
	if p, err := cache.LoadLayout(ctx, store, key); err == nil {
		if n := p.Apply(h.Original()); n > 0 {
			// Rebind so the simulator starts from the cached positions.
			h.SetThreshold(h.Options().MinConnections)
			warm = true
			c.Logger.Debug("warm start", "nodes", n)
		}
	}

	spinner := newSpinnerWithContext(ctx, "Settling layout...")
	spinner.Start()
	prog := newProgress(c.Logger)
	ticks, err := h.RunUntilSettled(ctx, maxTicks)
	spinner.Stop()
	if err != nil {
		return warm, err
	}
	prog.done(fmt.Sprintf("Layout settled after %d ticks", ticks))

	if err := cache.SaveLayout(ctx, store, key, cache.Capture(h.Original()), layoutTTL); err != nil {
		c.Logger.Warn("cache layout", "error", err)
	}
	return warm, nil
}

func layoutKey(g *graph.Graph, o config.Options) string {
	return cache.NewDefaultKeyer().LayoutKey(cache.GraphHash(g), cache.LayoutKeyOpts{
		Preset:         o.Preset,
		MinConnections: o.MinConnections,
		ChargeStrength: o.ChargeStrength,
		LinkDistance:   o.LinkDistance,
		LinkStrength:   o.LinkStrength,
		SizeMultiplier: o.SizeMultiplier,
	})
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/netgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputBase strips the extension from input.
func outputBase(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input))
}
