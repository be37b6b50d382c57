package render

import (
	"time"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/graph"
	"github.com/matzehuels/netgraph/pkg/observability"
	"github.com/matzehuels/netgraph/pkg/selection"
	"github.com/matzehuels/netgraph/pkg/viewport"
)

// Scheduler coalesces redraw requests into at most one frame per call to
// [Scheduler.Frame]. It is not safe for concurrent use.
type Scheduler struct {
	surface Surface
	opts    Options

	g   *graph.Graph
	sel *selection.Controller
	vp  *viewport.Viewport

	radii []float64
	tier  map[string]bool

	dirty Reason
	seq   uint64
	last  *Frame
}

// NewScheduler returns a scheduler drawing to surface. A nil surface is a
// construction error with code NO_SURFACE.
func NewScheduler(surface Surface, opts Options) (*Scheduler, error) {
	if surface == nil {
		return nil, errors.New(errors.ErrCodeNoSurface, "render surface is not available")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{surface: surface, opts: opts}, nil
}

// SetScene binds the graph, selection and viewport that frames are built
// from. Any of them may be nil; a nil graph draws an empty frame. The scene
// is invalidated with ReasonData.
func (s *Scheduler) SetScene(g *graph.Graph, sel *selection.Controller, vp *viewport.Viewport) {
	s.g, s.sel, s.vp = g, sel, vp
	s.refreshRadii()
	s.Invalidate(ReasonData)
}

func (s *Scheduler) refreshRadii() {
	s.radii, s.tier = nil, nil
	if s.g == nil {
		return
	}
	s.radii = s.g.Radii(s.opts.SizeMultiplier)
	if s.opts.MarkREAGTier {
		s.tier = make(map[string]bool)
		for _, k := range graph.REAGNeighbors(s.g) {
			s.tier[k] = true
		}
	}
}

// SetOptions replaces the visual options and invalidates with ReasonStyle.
// Invalid options are rejected and the current ones kept.
func (s *Scheduler) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	s.opts = opts
	s.refreshRadii()
	s.Invalidate(ReasonStyle)
	return nil
}

// Options returns the current visual options.
func (s *Scheduler) Options() Options { return s.opts }

// Invalidate marks the scene dirty for reason r.
func (s *Scheduler) Invalidate(r Reason) { s.dirty |= r }

// Dirty returns the reasons accumulated since the last drawn frame.
func (s *Scheduler) Dirty() Reason { return s.dirty }

// Frame advances any viewport animation to now and, if anything was
// invalidated, builds one frame and draws it. It reports whether a frame was
// drawn.
//
// When the surface fails the error is returned and the scene stays dirty so
// the next call retries.
func (s *Scheduler) Frame(now time.Time) (bool, error) {
	if s.vp != nil && s.vp.Advance(now) {
		s.dirty |= ReasonViewport
	}
	hooks := observability.Render()
	if s.dirty == 0 {
		hooks.OnFrameSkipped()
		return false, nil
	}

	start := time.Now()
	f := s.Build(now)
	err := s.surface.Draw(f)
	hooks.OnFrame(len(f.Nodes), len(f.Labels), time.Since(start), err)
	if err != nil {
		return false, err
	}
	s.dirty = 0
	s.last = f
	return true, nil
}

// Last returns the most recently drawn frame, or nil.
func (s *Scheduler) Last() *Frame { return s.last }

// Build constructs a frame from the current scene without drawing it or
// clearing the dirty set.
func (s *Scheduler) Build(now time.Time) *Frame {
	s.seq++
	f := &Frame{
		Seq:        s.seq,
		Time:       now,
		Reasons:    s.dirty,
		Transform:  viewport.Identity,
		Background: s.opts.Palette.Background,
	}
	if s.vp != nil {
		f.Transform = s.vp.Transform()
		f.Width, f.Height = s.vp.Size()
	}
	if s.g == nil {
		return f
	}
	if len(s.radii) != s.g.NodeCount() {
		s.refreshRadii()
	}

	k := f.Transform.K
	if k <= 0 {
		k = 1
	}
	_, selected := s.selection().Primary()

	f.Edges = make([]EdgeItem, 0, s.g.EdgeCount())
	edges := s.g.Edges()
	for _, e := range edges {
		src, dst := s.g.Node(e.Source), s.g.Node(e.Target)
		f.Edges = append(f.Edges, s.opts.styleEdge(e, src, dst, s.sel))
	}

	nodes := s.g.Nodes()
	f.Nodes = make([]NodeItem, len(nodes))
	cs := make([]labelCandidate, 0, len(nodes))
	for i, n := range nodes {
		base := s.radii[i]
		it := s.opts.styleNode(n, base, s.tier[n.Key], s.sel, k)
		f.Nodes[i] = it
		if eligible(it, base, k, s.opts.ShowAllLabels, selected) {
			cs = append(cs, labelCandidate{index: i, node: it, base: it.Radius, imp: n.Importance, label: n.Label})
		}
	}

	if s.opts.ShowEdgeLabels {
		for i, e := range edges {
			if !e.HasQualifier || (selected && !f.Edges[i].Highlighted) {
				continue
			}
			if l, ok := s.opts.edgeLabel(f.Edges[i], e.Qualifier, k); ok {
				f.EdgeLabels = append(f.EdgeLabels, l)
			}
		}
	}
	f.Labels = s.opts.placeLabels(cs, k)
	return f
}

// selection returns the bound controller or an empty one.
func (s *Scheduler) selection() *selection.Controller {
	if s.sel == nil {
		return selection.New(s.g)
	}
	return s.sel
}
