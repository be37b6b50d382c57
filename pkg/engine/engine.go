package engine

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netgraph/pkg/config"
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/graph"
	"github.com/matzehuels/netgraph/pkg/layout/force"
	"github.com/matzehuels/netgraph/pkg/render"
	"github.com/matzehuels/netgraph/pkg/selection"
	"github.com/matzehuels/netgraph/pkg/spatial"
	"github.com/matzehuels/netgraph/pkg/viewport"
)

// Focus animation constants.
const (
	SearchFocusScale    = 1.5
	SearchFocusDuration = 750 * time.Millisecond
	SelectFocusDuration = 500 * time.Millisecond

	// DragAlphaTarget keeps the layout live while a node is dragged.
	DragAlphaTarget = 0.3
)

// =============================================================================
// Callbacks and Options
// =============================================================================

// Callbacks notify the host of state changes. Nil fields are skipped.
type Callbacks struct {
	OnNodeSelected     func(key string)
	OnSelectionCleared func()
	OnStatsChanged     func(graph.Stats)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithQualifiers sets the lookup used for edge labels.
func WithQualifiers(fn func(code int) string) Option {
	return func(e *Engine) { e.qualifiers = fn }
}

// WithCallbacks sets the host callbacks.
func WithCallbacks(cb Callbacks) Option { return func(e *Engine) { e.cb = cb } }

// =============================================================================
// Engine
// =============================================================================

// Engine owns one network view. It is not safe for concurrent use.
type Engine struct {
	opts       config.Options
	cb         Callbacks
	logger     *log.Logger
	qualifiers func(int) string

	orig *graph.Graph
	view *graph.Graph

	sim    *force.Simulator
	sel    *selection.Controller
	vp     *viewport.Viewport
	sched  *render.Scheduler
	picker *spatial.Picker

	dragging int // Index into view of the dragged node, or -1
}

// New returns an engine drawing to surface with an empty graph. A nil
// surface fails with code NO_SURFACE and invalid options with
// INVALID_CONFIG.
func New(surface render.Surface, opts config.Options, options ...Option) (*Engine, error) {
	e := &Engine{opts: opts, dragging: -1}
	for _, o := range options {
		o(e)
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sched, err := render.NewScheduler(surface, e.renderOptions(opts))
	if err != nil {
		return nil, err
	}
	e.sched = sched

	e.vp = viewport.New(opts.Width, opts.Height)
	if err := e.vp.SetScaleExtent(opts.MinScale, opts.MaxScale); err != nil {
		return nil, err
	}
	e.vp.CenterOn(r2.Vec{}, opts.InitialScale)

	empty, _ := graph.Load(nil, nil)
	e.orig = empty
	e.sel = selection.New(empty)
	if err := e.bind(empty); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) renderOptions(opts config.Options) render.Options {
	r := opts.RenderOptions()
	r.QualifierText = e.qualifiers
	return r
}

// Load replaces the network with nodes and edges, applies the configured
// connection threshold and restarts the layout. Dropped records are counted
// in the report and logged; they never fail the load.
func (e *Engine) Load(nodes []graph.NodeSpec, edges []graph.EdgeSpec) graph.LoadReport {
	g, report := graph.Load(nodes, edges)
	e.logReport(report)
	e.SetGraph(g)
	return report
}

// SetGraph replaces the network with an already loaded graph.
func (e *Engine) SetGraph(g *graph.Graph) {
	e.orig = g.Original()
	had := e.sel.Clear()
	e.sel.ClearHighlight()
	if had {
		e.selectionCleared()
	}
	view := e.orig.ApplyConnectionFilter(e.opts.MinConnections)
	// bind only fails on invalid params, which were validated on the way in.
	_ = e.bind(view)
	e.logger.Info("network loaded", "nodes", view.NodeCount(), "edges", view.EdgeCount(), "threshold", e.opts.MinConnections)
}

func (e *Engine) logReport(r graph.LoadReport) {
	if err := r.Err(); err != nil {
		e.logger.Warn("dropped records", "edges", r.DroppedEdges, "duplicates", r.DuplicateNodes, "invalid", r.InvalidNodes)
	}
}

// bind makes view the displayed graph and builds a simulator for it. Nodes
// that already have positions keep them.
func (e *Engine) bind(view *graph.Graph) error {
	dragged := e.draggedNode()
	radii := view.Radii(e.opts.SizeMultiplier)
	nodes := make([]force.Node, view.NodeCount())
	for i, n := range view.Nodes() {
		nodes[i] = force.Node{X: n.X, Y: n.Y, Placed: n.HasPosition(), Radius: radii[i], Pinned: n.Pinned}
		if n == dragged {
			nodes[i].Pinned = false
		}
		if nodes[i].Pinned {
			nodes[i].X, nodes[i].Y, nodes[i].Placed = n.PinX, n.PinY, true
		}
	}
	links := make([]force.Link, 0, view.EdgeCount())
	for _, ed := range view.Edges() {
		links = append(links, force.Link{Source: view.Index(ed.Source), Target: view.Index(ed.Target)})
	}

	sim, err := force.New(nodes, links, e.opts.Params())
	if err != nil {
		return err
	}
	if e.sim != nil {
		e.sim.Teardown()
	}
	if dragged != nil {
		dragged.Unpin()
	}
	e.sim = sim
	e.view = view
	e.dragging = -1
	e.syncPositions()

	if e.sel.Rebind(view) {
		e.selectionCleared()
	}
	e.sched.SetScene(view, e.sel, e.vp)
	e.statsChanged()
	return nil
}

// draggedNode returns the node under an active drag, or nil.
func (e *Engine) draggedNode() *graph.Node {
	if e.view == nil || e.dragging < 0 {
		return nil
	}
	return e.view.Nodes()[e.dragging]
}

// syncPositions copies simulator positions onto the graph nodes.
func (e *Engine) syncPositions() {
	for i, n := range e.view.Nodes() {
		p := e.sim.Position(i)
		n.SetPosition(p.X, p.Y)
	}
	e.picker = nil
}

// =============================================================================
// Simulation
// =============================================================================

// Tick advances the layout one step and schedules a redraw. It reports
// whether the layout is still moving.
func (e *Engine) Tick() bool {
	if e.sim.State() != force.Running {
		return false
	}
	running := e.sim.Tick()
	e.syncPositions()
	e.sched.Invalidate(render.ReasonTick)
	if !running {
		e.logger.Debug("layout settled", "ticks", e.sim.Ticks())
	}
	return running
}

// RunUntilSettled ticks until the layout settles, maxTicks is reached or
// ctx is done. It returns the number of ticks run.
func (e *Engine) RunUntilSettled(ctx context.Context, maxTicks int) (int, error) {
	n := 0
	for (maxTicks <= 0 || n < maxTicks) && e.sim.State() == force.Running {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		e.Tick()
		n++
	}
	return n, nil
}

// Settled reports whether the layout has come to rest.
func (e *Engine) Settled() bool { return e.sim.State() != force.Running }

// Alpha returns the current simulation temperature.
func (e *Engine) Alpha() float64 { return e.sim.Alpha() }

// Energy returns the mean squared node velocity.
func (e *Engine) Energy() float64 { return e.sim.Energy() }

// Ticks returns the ticks since the last restart.
func (e *Engine) Ticks() int { return e.sim.Ticks() }

// Reheat restarts the layout from its current positions.
func (e *Engine) Reheat() {
	e.sim.Restart(force.ReheatAlpha)
}

// =============================================================================
// Frames
// =============================================================================

// Frame draws at most one frame for time now. See render.Scheduler.Frame.
func (e *Engine) Frame(now time.Time) (bool, error) { return e.sched.Frame(now) }

// LastFrame returns the most recently drawn frame, or nil.
func (e *Engine) LastFrame() *render.Frame { return e.sched.Last() }

// =============================================================================
// Picking and Selection
// =============================================================================

// Pick returns the key of the node under screen point p.
func (e *Engine) Pick(p r2.Vec) (string, bool) {
	if e.picker == nil {
		pts := make([]r2.Vec, e.view.NodeCount())
		for i, n := range e.view.Nodes() {
			pts[i] = r2.Vec{X: n.X, Y: n.Y}
		}
		e.picker = spatial.Build(pts)
		e.picker.HitRadius = e.opts.HitRadius
	}
	w := e.vp.ToWorld(p)
	i, ok := e.picker.Pick(w.X, w.Y)
	if !ok {
		return "", false
	}
	return e.view.Nodes()[i].Key, true
}

// Click selects the node under screen point p, or clears the selection when
// the point hits nothing. It returns the selected key.
func (e *Engine) Click(p r2.Vec) (string, bool) {
	key, ok := e.Pick(p)
	if !ok {
		e.Clear()
		return "", false
	}
	// The key came from the view, so Select cannot fail.
	_ = e.Select(key)
	return key, true
}

// Select makes key the primary selection without moving the view. Unknown
// keys fail with NOT_FOUND and leave the selection unchanged.
func (e *Engine) Select(key string) error {
	if err := e.sel.Select(key); err != nil {
		return err
	}
	e.sched.Invalidate(render.ReasonSelection)
	primary, _ := e.sel.Primary()
	if e.cb.OnNodeSelected != nil {
		e.cb.OnNodeSelected(primary)
	}
	return nil
}

// SelectByKey selects key and animates the view onto it at the current
// scale or 1, whichever is larger.
func (e *Engine) SelectByKey(key string, now time.Time) error {
	if err := e.Select(key); err != nil {
		return err
	}
	primary, _ := e.sel.Primary()
	n := e.view.Node(primary)
	e.vp.Focus(r2.Vec{X: n.X, Y: n.Y}, math.Max(1, e.vp.Scale()), SelectFocusDuration, now)
	return nil
}

// Focus animates the view onto the node with key at scale k over d. The
// selection is left alone. Unknown keys fail with NOT_FOUND and a scale
// that is not a positive number with INVALID_CONFIG, both leaving the
// viewport unchanged. A later focus replaces one still running.
func (e *Engine) Focus(key string, k float64, d time.Duration, now time.Time) error {
	nk, err := errors.NormalizeKey(key)
	if err != nil || !e.view.Has(nk) {
		return errors.NotFound(key)
	}
	if !(k > 0) || math.IsInf(k, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "focus scale must be positive, got %v", k)
	}
	n := e.view.Node(nk)
	e.vp.Focus(r2.Vec{X: n.X, Y: n.Y}, k, d, now)
	e.sched.Invalidate(render.ReasonViewport)
	return nil
}

// Search highlights nodes whose label contains term, and their neighbours,
// and animates the view onto the first match. An empty term clears the
// highlight. No match fails with NOT_FOUND and clears the highlight.
func (e *Engine) Search(term string, now time.Time) ([]string, error) {
	matches, err := e.sel.Highlight(term)
	e.sched.Invalidate(render.ReasonSelection)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	n := e.view.Node(matches[0])
	e.vp.Focus(r2.Vec{X: n.X, Y: n.Y}, SearchFocusScale, SearchFocusDuration, now)
	return matches, nil
}

// Clear drops the selection and any search highlight.
func (e *Engine) Clear() {
	had := e.sel.Clear()
	e.sel.ClearHighlight()
	e.sched.Invalidate(render.ReasonSelection)
	if had {
		e.selectionCleared()
	}
}

func (e *Engine) selectionCleared() {
	if e.cb.OnSelectionCleared != nil {
		e.cb.OnSelectionCleared()
	}
}

func (e *Engine) statsChanged() {
	if e.cb.OnStatsChanged != nil {
		e.cb.OnStatsChanged(e.view.Stats())
	}
}

// =============================================================================
// Dragging
// =============================================================================

// DragStart pins the node with key at its current position and keeps the
// layout running until DragEnd. A drag already in progress is ended first.
func (e *Engine) DragStart(key string) error {
	i := e.view.Index(key)
	if i < 0 {
		return errors.NotFound(key)
	}
	e.DragEnd()
	n := e.view.Nodes()[i]
	e.dragging = i
	n.Pin(n.X, n.Y)
	_ = e.sim.Pin(i, n.X, n.Y)
	e.sim.SetAlphaTarget(DragAlphaTarget)
	return nil
}

// DragTo moves the dragged node to screen point p.
func (e *Engine) DragTo(p r2.Vec) {
	if e.dragging < 0 {
		return
	}
	w := e.vp.ToWorld(p)
	e.view.Nodes()[e.dragging].Pin(w.X, w.Y)
	_ = e.sim.Pin(e.dragging, w.X, w.Y)
	e.picker = nil
	e.sched.Invalidate(render.ReasonTick)
}

// DragEnd releases the dragged node and lets the layout settle.
func (e *Engine) DragEnd() {
	if e.dragging < 0 {
		return
	}
	e.view.Nodes()[e.dragging].Unpin()
	_ = e.sim.Unpin(e.dragging)
	e.sim.SetAlphaTarget(0)
	e.dragging = -1
}

// =============================================================================
// Data and Configuration
// =============================================================================

// SetThreshold shows only nodes with at least minDegree connections in the
// loaded network. Positions carry over; the selection survives when its
// primary is still shown.
func (e *Engine) SetThreshold(minDegree int) error {
	if minDegree < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_connections must be >= 0, got %d", minDegree)
	}
	e.opts.MinConnections = minDegree
	if err := e.bind(e.orig.ApplyConnectionFilter(minDegree)); err != nil {
		return err
	}
	e.sim.Restart(force.ReheatAlpha)
	e.logger.Info("filter applied", "threshold", minDegree, "nodes", e.view.NodeCount(), "edges", e.view.EdgeCount())
	return nil
}

// Reconfigure applies opts live. The layout reheats to alpha 0.5 with the
// new parameters; a changed threshold refilters.
func (e *Engine) Reconfigure(opts config.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := e.sched.SetOptions(e.renderOptions(opts)); err != nil {
		return err
	}
	if err := e.vp.SetScaleExtent(opts.MinScale, opts.MaxScale); err != nil {
		return err
	}
	if w, h := e.vp.Size(); w != opts.Width || h != opts.Height {
		e.vp.Resize(opts.Width, opts.Height)
	}

	prev := e.opts
	e.opts = opts
	e.picker = nil
	if opts.MinConnections != prev.MinConnections {
		return e.SetThreshold(opts.MinConnections)
	}
	if err := e.sim.SetParams(opts.Params()); err != nil {
		return err
	}
	e.sim.SetRadii(e.view.Radii(opts.SizeMultiplier))
	e.sim.Restart(force.ReheatAlpha)
	e.sched.Invalidate(render.ReasonStyle)
	return nil
}

// Set changes one named option. See config.Options.Set.
func (e *Engine) Set(name, value string) error {
	next := e.opts
	if err := next.Set(name, value); err != nil {
		return err
	}
	return e.Reconfigure(next)
}

// =============================================================================
// Viewport
// =============================================================================

// ZoomAt scales the view by factor around screen point p.
func (e *Engine) ZoomAt(p r2.Vec, factor float64) {
	if e.vp.ZoomAt(p, factor) {
		e.sched.Invalidate(render.ReasonViewport)
	}
}

// PanBy moves the view by (dx, dy) screen units.
func (e *Engine) PanBy(dx, dy float64) {
	e.vp.PanBy(dx, dy)
	e.sched.Invalidate(render.ReasonViewport)
}

// Resize changes the drawing surface size.
func (e *Engine) Resize(width, height float64) {
	e.vp.Resize(width, height)
	e.opts.Width, e.opts.Height = width, height
	e.sched.Invalidate(render.ReasonViewport)
}

// Fit frames every node with padding screen units on each side.
func (e *Engine) Fit(padding float64) {
	minX, minY, maxX, maxY, ok := e.view.Bounds()
	if !ok {
		return
	}
	e.vp.Fit(r2.Box{Min: r2.Vec{X: minX, Y: minY}, Max: r2.Vec{X: maxX, Y: maxY}}, padding)
	e.sched.Invalidate(render.ReasonViewport)
}

// =============================================================================
// Accessors
// =============================================================================

// Graph returns the displayed, filtered graph.
func (e *Engine) Graph() *graph.Graph { return e.view }

// Original returns the loaded, unfiltered graph.
func (e *Engine) Original() *graph.Graph { return e.orig }

// Stats returns counts for the displayed graph.
func (e *Engine) Stats() graph.Stats { return e.view.Stats() }

// Selection returns the selection controller.
func (e *Engine) Selection() *selection.Controller { return e.sel }

// Viewport returns the view transform.
func (e *Engine) Viewport() *viewport.Viewport { return e.vp }

// Options returns the options in effect.
func (e *Engine) Options() config.Options { return e.opts }

// Close stops the simulation. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.sim.Teardown()
}
