package live

import (
	"encoding/json"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netgraph/pkg/engine"
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/graph"
)

// Event kinds sent by viewers. Coordinates are screen pixels.
const (
	EventClick     = "click"
	EventZoom      = "zoom"
	EventPan       = "pan"
	EventResize    = "resize"
	EventFit       = "fit"
	EventSelect    = "select"
	EventSearch    = "search"
	EventClear     = "clear"
	EventDragStart = "drag_start"
	EventDrag      = "drag"
	EventDragEnd   = "drag_end"
	EventThreshold = "threshold"
	EventSet       = "set"
	EventReheat    = "reheat"
)

// Event is one viewer input.
type Event struct {
	Type      string  `json:"type"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	DX        float64 `json:"dx,omitempty"`
	DY        float64 `json:"dy,omitempty"`
	Factor    float64 `json:"factor,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Padding   float64 `json:"padding,omitempty"`
	Key       string  `json:"key,omitempty"`
	Term      string  `json:"term,omitempty"`
	Name      string  `json:"name,omitempty"`
	Value     string  `json:"value,omitempty"`
	Threshold int     `json:"threshold,omitempty"`
}

func (ev Event) point() r2.Vec { return r2.Vec{X: ev.X, Y: ev.Y} }

// Server message kinds.
const (
	msgHello    = "hello"
	msgFrame    = "frame"
	msgStats    = "stats"
	msgSelected = "selected"
	msgCleared  = "cleared"
	msgMatches  = "matches"
	msgError    = "error"
)

type message struct {
	Type    string     `json:"type"`
	Session string     `json:"session,omitempty"`
	Version string     `json:"version,omitempty"`
	Seq     uint64     `json:"seq,omitempty"`
	SVG     string     `json:"svg,omitempty"`
	Key     string     `json:"key,omitempty"`
	Keys    []string   `json:"keys,omitempty"`
	Stats   *statsBody `json:"stats,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type statsBody struct {
	Nodes      int            `json:"nodes"`
	Edges      int            `json:"edges"`
	Categories map[string]int `json:"categories"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newStats(s graph.Stats) *statsBody {
	b := &statsBody{Nodes: s.NodeCount, Edges: s.EdgeCount, Categories: make(map[string]int, len(s.CategoryCounts))}
	for c, n := range s.CategoryCounts {
		b.Categories[c.String()] = n
	}
	return b
}

func newError(err error) *errorBody {
	return &errorBody{Code: string(errors.GetCode(err)), Message: errors.UserMessage(err)}
}

func encode(m message) []byte {
	// message only holds strings, numbers and maps of them.
	data, _ := json.Marshal(m)
	return data
}

// apply performs ev on e. Replies carry search matches; everything else is
// reported through the engine callbacks and the next frame.
func apply(e *engine.Engine, ev Event, now time.Time) (*message, error) {
	switch ev.Type {
	case EventClick:
		e.Click(ev.point())
	case EventZoom:
		if ev.Factor <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidData, "zoom factor must be positive, got %g", ev.Factor)
		}
		e.ZoomAt(ev.point(), ev.Factor)
	case EventPan:
		e.PanBy(ev.DX, ev.DY)
	case EventResize:
		if ev.Width <= 0 || ev.Height <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidData, "invalid size %gx%g", ev.Width, ev.Height)
		}
		e.Resize(ev.Width, ev.Height)
	case EventFit:
		e.Fit(ev.Padding)
	case EventSelect:
		return nil, e.SelectByKey(ev.Key, now)
	case EventSearch:
		keys, err := e.Search(ev.Term, now)
		if err != nil {
			return nil, err
		}
		return &message{Type: msgMatches, Keys: keys}, nil
	case EventClear:
		e.Clear()
	case EventDragStart:
		key := ev.Key
		if key == "" {
			var ok bool
			if key, ok = e.Pick(ev.point()); !ok {
				return nil, nil
			}
		}
		return nil, e.DragStart(key)
	case EventDrag:
		e.DragTo(ev.point())
	case EventDragEnd:
		e.DragEnd()
	case EventThreshold:
		return nil, e.SetThreshold(ev.Threshold)
	case EventSet:
		return nil, e.Set(ev.Name, ev.Value)
	case EventReheat:
		e.Reheat()
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown event %q", ev.Type)
	}
	return nil, nil
}
