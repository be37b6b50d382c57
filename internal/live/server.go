// Package live serves an interactive view of a network to browsers.
//
// One goroutine owns the engine: [Server.Run] ticks the layout, applies
// queued viewer events and draws frames. Each drawn frame is rendered to SVG
// and pushed to every websocket session through the [Hub]; sessions that
// fall behind skip straight to the newest frame.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/netgraph/pkg/buildinfo"
	"github.com/matzehuels/netgraph/pkg/config"
	"github.com/matzehuels/netgraph/pkg/engine"
	neterrors "github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/graph"
	netio "github.com/matzehuels/netgraph/pkg/io"
	"github.com/matzehuels/netgraph/pkg/observability"
	"github.com/matzehuels/netgraph/pkg/render"
	"github.com/matzehuels/netgraph/pkg/render/svg"
)

const (
	// DefaultInterval is the frame interval of the engine loop.
	DefaultInterval = 16 * time.Millisecond

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	commandBuffer = 256
)

// ErrStopped is returned by Do once Run has returned.
var ErrStopped = errors.New("live server stopped")

// command runs on the engine goroutine.
type command func(e *engine.Engine, now time.Time)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithInterval sets the engine loop interval.
func WithInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithOriginCheck sets the websocket origin policy. The default accepts
// same-host origins only.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// Server hosts one engine and any number of viewers.
type Server struct {
	eng      *engine.Engine
	hub      *Hub
	logger   *log.Logger
	interval time.Duration
	upgrader websocket.Upgrader
	router   chi.Router

	cmds     chan command
	stopped  chan struct{}
	stopOnce sync.Once
	lastSVG  atomic.Pointer[[]byte]
}

// New builds a server around a fresh engine configured with opts.
func New(opts config.Options, options ...Option) (*Server, error) {
	s := &Server{
		hub:      NewHub(),
		interval: DefaultInterval,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 16 * 1024},
		cmds:     make(chan command, commandBuffer),
		stopped:  make(chan struct{}),
	}
	for _, o := range options {
		o(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	eng, err := engine.New(render.SurfaceFunc(s.publish), opts,
		engine.WithLogger(s.logger),
		engine.WithQualifiers(netio.QualifierText),
		engine.WithCallbacks(engine.Callbacks{
			OnNodeSelected: func(key string) {
				s.hub.broadcast(encode(message{Type: msgSelected, Key: key}))
			},
			OnSelectionCleared: func() {
				s.hub.broadcast(encode(message{Type: msgCleared}))
			},
			OnStatsChanged: func(st graph.Stats) {
				s.hub.broadcast(encode(message{Type: msgStats, Stats: newStats(st)}))
			},
		}))
	if err != nil {
		return nil, err
	}
	s.eng = eng
	s.routes()
	return s, nil
}

// Hub returns the session hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP handler serving the viewer page, the websocket
// endpoint and the JSON API.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWS)
	r.Get("/frame.svg", s.handleFrame)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Post("/events", s.handleEvent)
	})
	s.router = r
}

// =============================================================================
// Engine Loop
// =============================================================================

// Run drives the engine until ctx is done. It must be called once.
func (s *Server) Run(ctx context.Context) error {
	defer s.stopOnce.Do(func() { close(s.stopped) })
	defer s.hub.closeAll()
	defer s.eng.Close()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-s.cmds:
			cmd(s.eng, time.Now())
		case now := <-ticker.C:
			s.eng.Tick()
			if _, err := s.eng.Frame(now); err != nil {
				s.logger.Warn("frame failed", "error", err)
			}
		}
	}
}

// Do runs fn on the engine goroutine and waits for it.
func (s *Server) Do(ctx context.Context, fn func(e *engine.Engine)) error {
	done := make(chan struct{})
	cmd := func(e *engine.Engine, _ time.Time) {
		fn(e)
		close(done)
	}
	select {
	case s.cmds <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
}

// Load replaces the network shown to every viewer.
func (s *Server) Load(ctx context.Context, g *graph.Graph) error {
	return s.Do(ctx, func(e *engine.Engine) { e.SetGraph(g) })
}

// publish is the engine's render surface.
func (s *Server) publish(f *render.Frame) error {
	page := svg.Render(f, svg.WithNodeKeys())
	s.lastSVG.Store(&page)
	s.hub.publishFrame(encode(message{Type: msgFrame, Seq: f.Seq, SVG: string(page)}))
	return nil
}

// =============================================================================
// HTTP Handlers
// =============================================================================

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleFrame(w http.ResponseWriter, _ *http.Request) {
	page := s.lastSVG.Load()
	if page == nil {
		http.Error(w, "no frame drawn yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(*page)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var st graph.Stats
	if err := s.Do(r.Context(), func(e *engine.Engine) { st = e.Stats() }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, newStats(st))
}

// handleEvent applies one event posted as JSON and replies with the result.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, message{Type: msgError, Error: &errorBody{Code: string(neterrors.ErrCodeInvalidFormat), Message: err.Error()}})
		return
	}
	var (
		reply  *message
		actErr error
	)
	err := s.Do(r.Context(), func(e *engine.Engine) { reply, actErr = apply(e, ev, time.Now()) })
	switch {
	case err != nil:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case actErr != nil:
		writeJSON(w, statusFor(actErr), message{Type: msgError, Error: newError(actErr)})
	case reply != nil:
		writeJSON(w, http.StatusOK, reply)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func statusFor(err error) int {
	if neterrors.Is(err, neterrors.ErrCodeNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Websocket Sessions
// =============================================================================

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	hooks := observability.Live()
	sess := newSession(uuid.NewString())
	start := time.Now()
	sess.push(encode(message{Type: msgHello, Session: sess.id, Version: buildinfo.Version}))
	s.hub.add(sess)
	hooks.OnSessionOpen(ctx, sess.id)
	s.logger.Info("viewer connected", "session", sess.id, "viewers", s.hub.Len())
	defer func() {
		s.hub.remove(sess.id)
		hooks.OnSessionClose(ctx, sess.id, time.Since(start))
		s.logger.Info("viewer disconnected", "session", sess.id)
	}()

	go s.writeLoop(conn, sess)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read", "session", sess.id, "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		hooks.OnEvent(ctx, sess.id, ev.Type)
		if !s.submit(sess, ev) {
			return
		}
	}
}

// submit queues ev for the engine goroutine. Replies and errors go back to
// the session that sent it.
func (s *Server) submit(sess *session, ev Event) bool {
	cmd := func(e *engine.Engine, now time.Time) {
		reply, err := apply(e, ev, now)
		switch {
		case err != nil:
			s.hub.sendTo(sess.id, encode(message{Type: msgError, Error: newError(err)}))
		case reply != nil:
			s.hub.sendTo(sess.id, encode(*reply))
		}
	}
	select {
	case s.cmds <- cmd:
		return true
	case <-sess.done:
		return false
	case <-s.stopped:
		return false
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, sess *session) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	write := func(data []byte) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, data) == nil
	}
	for {
		// Queued messages go before frames so a hello precedes the first
		// frame.
		select {
		case data := <-sess.send:
			if !write(data) {
				return
			}
			continue
		default:
		}

		select {
		case <-sess.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case data := <-sess.send:
			if !write(data) {
				return
			}
		case data := <-sess.frame:
			if !write(data) {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// =============================================================================
// Serving
// =============================================================================

// ListenAndServe runs the engine loop and an HTTP server on addr until ctx
// is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx) }()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr)

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-runErr
}
