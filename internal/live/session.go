package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/metrics"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vm"
)

// Session is one browser's bound view. Events are applied on the session's
// read loop, one at a time.
type Session struct {
	ID      string
	Created time.Time

	doc      *dom.Document
	vm       *vm.VM
	renderer *render.Renderer
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu        sync.Mutex
	pending   []dom.Mutation
	unobserve func()
	attached  bool
}

func newSession(id string, doc *dom.Document, v *vm.VM, r *render.Renderer, logger *slog.Logger, m *metrics.Metrics) *Session {
	s := &Session{
		ID:       id,
		Created:  time.Now(),
		doc:      doc,
		vm:       v,
		renderer: r,
		logger:   logger.With("session", id),
		metrics:  m,
	}
	s.unobserve = doc.Observe(func(m dom.Mutation) {
		s.pending = append(s.pending, m)
	})
	return s
}

// VM returns the session's view model.
func (s *Session) VM() *vm.VM {
	return s.vm
}

// Document returns the session's document.
func (s *Session) Document() *dom.Document {
	return s.doc
}

// attach marks the session as owned by a connection. It fails if another
// connection already owns it.
func (s *Session) attach() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached {
		return false
	}
	s.attached = true
	return true
}

// Apply dispatches a client event and returns the resulting patches. The
// value patch echoing an input back to its own target is dropped.
func (s *Session) Apply(ev ClientEvent) ([]Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.doc.NodeByID(ev.ID)
	if node == nil || !node.IsElement() {
		return nil, errors.New(errors.CodeProtocol).
			WithDetail(fmt.Sprintf("no element with id %d", ev.ID))
	}
	if ev.Type == "" {
		return nil, errors.New(errors.CodeProtocol).WithDetail("event type is empty")
	}

	s.pending = s.pending[:0]
	start := time.Now()
	if ev.Type == "input" || ev.Type == "change" {
		node.SetValue(ev.Value)
	}
	err := node.Dispatch(&dom.Event{Type: ev.Type, Target: node, Value: ev.Value})
	if s.metrics != nil {
		s.metrics.ObserveEvent(ev.Type, time.Since(start), err)
	}

	patches := make([]Patch, 0, len(s.pending))
	for _, m := range s.pending {
		if m.Node == node && m.Facet == dom.FacetValue && m.Value == ev.Value {
			continue
		}
		p, ok, perr := patchFor(s.renderer, m)
		if perr != nil {
			return nil, perr
		}
		if ok {
			patches = append(patches, p)
		}
	}
	s.pending = s.pending[:0]
	patches = coalesce(patches)
	if s.metrics != nil {
		for _, p := range patches {
			s.metrics.RecordMutation(string(p.Facet))
		}
	}
	return patches, err
}

// serve runs the read loop until the connection closes or ctx is done.
func (s *Session) serve(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("live: read failed", "error", err)
				if s.metrics != nil {
					s.metrics.WebSocketError("read")
				}
			}
			return
		}

		var ev ClientEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.reject(conn, errors.New(errors.CodeProtocol).Wrap(err))
			continue
		}

		patches, err := s.Apply(ev)
		for _, p := range patches {
			if werr := conn.WriteJSON(p); werr != nil {
				s.logger.Debug("live: write failed", "error", werr)
				if s.metrics != nil {
					s.metrics.WebSocketError("write")
				}
				return
			}
		}
		if err != nil {
			s.logger.Warn("live: event failed", "type", ev.Type, "id", ev.ID, "error", err)
			s.reject(conn, err)
		}
	}
}

func (s *Session) reject(conn *websocket.Conn, err error) {
	ve := errors.Classify(err)
	msg := ErrorMessage{Error: ve.FormatCompact(), Code: ve.Code}
	if werr := conn.WriteJSON(msg); werr != nil && s.metrics != nil {
		s.metrics.WebSocketError("write")
	}
}

func (s *Session) close() {
	if s.unobserve != nil {
		s.unobserve()
	}
}
