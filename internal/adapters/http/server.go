// Package http exposes a session server over REST for hosts that drive the
// engine remotely. It is a collaborator-side adapter: the wire format lives
// here, never in the core.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"

	"github.com/arborui/arbor"
	"github.com/arborui/arbor/internal/dto"
	"github.com/arborui/arbor/internal/logging"
	"github.com/arborui/arbor/pkg/domain"
	"github.com/arborui/arbor/pkg/ports"
)

// Server hosts live sessions and persists their snapshots to a StateStore
// after every successful mutation, so sessions survive restarts.
type Server struct {
	store      ports.StateStore
	dispatcher ports.MessageDispatcher
	logger     *slog.Logger

	mu   sync.Mutex
	live map[string]*arbor.Session
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDispatcher routes allowed messages into the host framework.
func WithDispatcher(d ports.MessageDispatcher) Option {
	return func(s *Server) {
		s.dispatcher = d
	}
}

// NewServer creates a session server backed by the given store.
func NewServer(store ports.StateStore, opts ...Option) *Server {
	s := &Server{
		store:  store,
		logger: logging.NewNop(),
		live:   make(map[string]*arbor.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler for the session API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.health)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/", s.listSessions)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)

			r.Post("/nodes", s.addNode)
			r.Post("/nodes/{nodeID}/attach", s.attachNode)
			r.Post("/nodes/{nodeID}/detach", s.detachNode)
			r.Delete("/nodes/{nodeID}", s.removeNode)
			r.Put("/nodes/{nodeID}/enabled", s.setEnabled)
			r.Get("/nodes/{nodeID}/enabled", s.getEnabled)
			r.Post("/nodes/{nodeID}/channels", s.registerChannel)

			r.Post("/messages", s.postMessage)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": arbor.Version,
	})
}

// decode reads the body as a loose JSON map and maps it onto the DTO.
func decode(r *http.Request, out any) error {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := mapstructure.Decode(raw, out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrChannelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateNode),
		errors.Is(err, domain.ErrDuplicateChannel),
		errors.Is(err, domain.ErrAlreadyAttached):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotAttached),
		errors.Is(err, domain.ErrCyclicAttach),
		errors.Is(err, domain.ErrUnknownChannelKind),
		errors.Is(err, domain.ErrUnknownOverrideMode):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// session resolves a live session, restoring it from the store if needed.
func (s *Server) session(r *http.Request) (*arbor.Session, error) {
	id := chi.URLParam(r, "sessionID")

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.live[id]; ok {
		return sess, nil
	}
	snap, err := s.store.Load(r.Context(), id)
	if err != nil {
		return nil, err
	}
	sess, err := arbor.Restore(snap,
		arbor.WithLogger(s.logger),
		arbor.WithDispatcher(s.dispatcher),
	)
	if err != nil {
		return nil, err
	}
	s.live[id] = sess
	return sess, nil
}

// persist writes the session snapshot back to the store.
func (s *Server) persist(r *http.Request, sess *arbor.Session) {
	if err := s.store.Save(r.Context(), sess.ID(), sess.Snapshot()); err != nil {
		s.logger.Error("failed to persist session", "session", sess.ID(), "err", err)
	}
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateSession
	if err := decode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if body.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing session id"})
		return
	}

	s.mu.Lock()
	if _, exists := s.live[body.ID]; exists {
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session already exists"})
		return
	}
	sess := arbor.New(body.ID,
		arbor.WithLogger(s.logger),
		arbor.WithDispatcher(s.dispatcher),
	)
	s.live[body.ID] = sess
	s.mu.Unlock()

	s.persist(r, sess)
	writeJSON(w, http.StatusCreated, map[string]string{"id": body.ID})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()

	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body dto.AddNode
	if err := decode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := sess.AddNode(body.ID, body.Kind); err != nil {
		writeError(w, err)
		return
	}
	s.persist(r, sess)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) attachNode(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body dto.AttachNode
	if err := decode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := sess.Attach(r.Context(), chi.URLParam(r, "nodeID"), body.Parent); err != nil {
		writeError(w, err)
		return
	}
	s.persist(r, sess)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) detachNode(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := sess.Detach(r.Context(), chi.URLParam(r, "nodeID")); err != nil {
		writeError(w, err)
		return
	}
	s.persist(r, sess)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeNode(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := sess.Remove(r.Context(), chi.URLParam(r, "nodeID")); err != nil {
		writeError(w, err)
		return
	}
	s.persist(r, sess)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setEnabled(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body dto.SetEnabled
	if err := decode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := sess.SetEnabled(r.Context(), chi.URLParam(r, "nodeID"), body.Enabled); err != nil {
		writeError(w, err)
		return
	}
	s.persist(r, sess)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getEnabled(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	enabled, err := sess.IsEnabled(chi.URLParam(r, "nodeID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": enabled})
}

func (s *Server) registerChannel(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body dto.RegisterChannel
	if err := decode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	ch, err := sess.RegisterChannel(chi.URLParam(r, "nodeID"), body.Name, body.Kind, body.Mode, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	s.persist(r, sess)
	writeJSON(w, http.StatusCreated, ch)
}

// postMessage runs an inbound message through the gate. The response is 202
// whether the message was dispatched or dropped: a gated drop must stay
// invisible to the remote client. Only unknown targets and malformed bodies
// produce errors.
func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body dto.InboundMessage
	if err := decode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	_, err = sess.Deliver(r.Context(), arbor.Message{
		NodeID:  body.NodeID,
		Channel: body.Channel,
		Payload: body.Payload,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
