package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	netio "github.com/matzehuels/netgraph/pkg/io"
	"github.com/matzehuels/netgraph/pkg/render"
	"github.com/matzehuels/netgraph/pkg/render/dot"
	"github.com/matzehuels/netgraph/pkg/render/svg"
)

// Output formats.
const (
	formatSVG      = "svg"
	formatPDF      = "pdf"
	formatPNG      = "png"
	formatDOT      = "dot"
	formatGraphviz = "graphviz" // SVG drawn by Graphviz from the DOT export
)

var validFormats = map[string]bool{
	formatSVG: true, formatPDF: true, formatPNG: true, formatDOT: true, formatGraphviz: true,
}

type renderOpts struct {
	output  string
	formats []string
	padding float64
	scale   float64
	title   string
	selectK string
	search  string
}

// renderCommand settles a network and writes static drawings of it.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats string
		flags   layoutFlags
	)
	opts := renderOpts{padding: 40, scale: 2}

	cmd := &cobra.Command{
		Use:   "render [network]",
		Short: "Render a network to SVG, PDF, PNG or DOT",
		Long: `Render a settled network. SVG, PDF and PNG share the label placement
of the live view; PDF and PNG need rsvg-convert on the PATH. The dot format
writes Graphviz source with positions pinned and graphviz draws it with
Graphviz itself.

--select and --search draw the network as it looks with that node selected
or that term highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.formats, err = parseFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], flags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&formats, "format", "f", formatSVG, "output format(s): svg, pdf, png, dot, graphviz (comma-separated)")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "space around the drawing")
	cmd.Flags().Float64Var(&opts.scale, "png-scale", opts.scale, "PNG zoom factor")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title (default: input name)")
	cmd.Flags().StringVar(&opts.selectK, "select", "", "draw with this node key selected")
	cmd.Flags().StringVar(&opts.search, "search", "", "draw with this label term highlighted")
	flags.register(cmd)
	c.addBackendFlags(cmd)
	return cmd
}

func parseFormats(s string) ([]string, error) {
	if s == "" {
		return []string{formatSVG}, nil
	}
	formats := strings.Split(s, ",")
	for i, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !validFormats[f] {
			return nil, fmt.Errorf("invalid format: %s (must be svg, pdf, png, dot or graphviz)", f)
		}
		formats[i] = f
	}
	return formats, nil
}

func (c *CLI) runRender(ctx context.Context, input string, flags layoutFlags, opts renderOpts) error {
	cfg, err := c.loadOptions(flags.sets)
	if err != nil {
		return err
	}
	store, err := c.newCache(ctx)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	var frame *render.Frame
	capture := render.SurfaceFunc(func(f *render.Frame) error { frame = f; return nil })
	h, err := c.openEngine(input, cfg, capture)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	defer h.Close()

	warm, err := c.settle(ctx, h, store, flags.maxTicks)
	if err != nil {
		return err
	}
	now := time.Now()
	if opts.selectK != "" {
		if err := h.Select(opts.selectK); err != nil {
			return err
		}
	}
	if opts.search != "" {
		if _, err := h.Search(opts.search, now); err != nil {
			return err
		}
	}
	if _, err := h.Frame(now); err != nil {
		return err
	}

	title := opts.title
	if title == "" {
		title = filepath.Base(outputBase(input))
	}
	var page []byte
	if frame != nil {
		page = svg.Render(frame, svg.WithFit(opts.padding), svg.WithTitle(title), svg.WithNodeKeys())
	}

	var written []string
	for _, format := range opts.formats {
		path := outputPath(input, opts.output, format, len(opts.formats) > 1)
		data, err := c.encode(ctx, h, format, page, opts.scale)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Rendered %s", title)
	for _, p := range written {
		printFile(p)
	}
	printLayoutStats(h.Stats(), warm)
	return nil
}

func (c *CLI) encode(ctx context.Context, h *headless, format string, page []byte, scale float64) ([]byte, error) {
	switch format {
	case formatPDF:
		return svg.ToPDF(page)
	case formatPNG:
		return svg.ToPNG(page, scale)
	case formatDOT, formatGraphviz:
		o := h.Options()
		src := dot.ToDOT(h.Graph(), dot.Options{
			SizeMultiplier: o.SizeMultiplier,
			Qualifiers:     netio.QualifierText,
			Background:     o.RenderOptions().Palette.Background,
		})
		if format == formatDOT {
			return []byte(src), nil
		}
		return dot.RenderSVG(ctx, src)
	default:
		return page, nil
	}
}

// outputPath names the file for format. With several formats, or no
// --output, the extension is derived from the format.
func outputPath(input, output, format string, multi bool) string {
	ext := "." + format
	if format == formatGraphviz {
		ext = ".graphviz.svg"
	}
	switch {
	case output == "":
		return outputBase(input) + ext
	case multi:
		return outputBase(output) + ext
	default:
		return output
	}
}
