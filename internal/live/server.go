package live

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vbind/internal/metrics"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vm"
)

// DefaultAttachTimeout is how long a rendered page may wait before its
// websocket connects.
const DefaultAttachTimeout = time.Minute

// Binder parses the template and binds a fresh view for one session.
type Binder func(ctx context.Context) (*dom.Document, *vm.VM, error)

// Server serves bound pages and applies browser events to them over a
// websocket, streaming the resulting view changes back.
type Server struct {
	bind          Binder
	title         string
	prefix        string
	logger        *slog.Logger
	metrics       *metrics.Metrics
	gatherer      prometheus.Gatherer
	attachTimeout time.Duration

	renderer *render.Renderer
	upgrader websocket.Upgrader
	router   chi.Router

	mu       sync.RWMutex
	sessions map[string]*Session

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records session activity and serves /metrics from gatherer.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithStripPrefix removes directive attributes from served markup.
func WithStripPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = prefix
	}
}

// WithAttachTimeout sets how long an unattached session is kept.
func WithAttachTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.attachTimeout = d
		}
	}
}

// New creates a live server.
func New(bind Binder, opts ...Option) *Server {
	s := &Server{
		bind:          bind,
		title:         "vbind",
		logger:        slog.Default(),
		attachTimeout: DefaultAttachTimeout,
		sessions:      make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Playground: allow all origins
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.renderer = render.NewRenderer(render.RendererConfig{
		IncludeIDs:  true,
		StripPrefix: s.prefix,
	})
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/sessions/{id}/data", s.handleData)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Session returns a session by id.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// NewSession binds a fresh view and registers it. Sessions that are not
// attached to a websocket within the attach timeout are dropped.
func (s *Server) NewSession(ctx context.Context) (*Session, error) {
	doc, v, err := s.bind(ctx)
	if err != nil {
		return nil, err
	}
	sess := newSession(uuid.NewString(), doc, v, s.renderer, s.logger, s.metrics)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SessionOpened()
	}
	s.logger.Info("live: session created", "session", sess.ID)

	time.AfterFunc(s.attachTimeout, func() {
		sess.mu.Lock()
		attached := sess.attached
		sess.mu.Unlock()
		if !attached {
			s.remove(sess)
		}
	})
	return sess, nil
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	_, ok := s.sessions[sess.ID]
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	if !ok {
		return
	}
	sess.close()
	if s.metrics != nil {
		s.metrics.SessionClosed()
	}
	s.logger.Info("live: session closed", "session", sess.ID)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
<script>window.__vbindSession = {{.Session}};</script>
<script>{{.Client}}</script>
</body>
</html>
`))

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.NewSession(r.Context())
	if err != nil {
		s.logger.Error("live: bind failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	body, err := s.renderer.RenderToString(sess.doc.Root)
	if err != nil {
		s.remove(sess)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, map[string]any{
		"Title":   s.title,
		"Body":    template.HTML(body),
		"Session": sess.ID,
		"Client":  template.JS(ClientScript),
	})
	if err != nil {
		s.remove(sess)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	sess, ok := s.Session(id)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	if !sess.attach() {
		http.Error(w, "session already connected", http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.metrics != nil {
			s.metrics.WebSocketError("upgrade")
		}
		s.remove(sess)
		return
	}
	defer func() {
		conn.Close()
		s.remove(sess)
	}()

	sess.logger.Debug("live: connected")
	sess.serve(s.ctx, conn)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.Session(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	sess.mu.Lock()
	data := sess.vm.Data()
	sess.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("live: encode data", "error", err)
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("live: listening", "addr", addr)

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("live: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Close()
	return srv.Shutdown(shutdownCtx)
}

// Close drops every session and closes open connections.
func (s *Server) Close() {
	s.cancel()
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()
	for _, sess := range sessions {
		s.remove(sess)
	}
}
