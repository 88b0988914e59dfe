// Package httpapi serves the operational surface: health, metrics, ledger
// inspection and a live event feed.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/starkproject/stark/internal/config"
	"github.com/starkproject/stark/internal/events"
	"github.com/starkproject/stark/internal/history"
	"github.com/starkproject/stark/internal/memory"
	"github.com/starkproject/stark/internal/observability"
	"github.com/starkproject/stark/internal/session"
	"github.com/starkproject/stark/internal/todo"
)

type Server struct {
	cfg      config.Config
	todos    *todo.Ledger
	facts    *memory.Ledger
	hist     *history.Ledger
	sess     *session.Session
	bus      *events.Bus
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func New(cfg config.Config, todos *todo.Ledger, facts *memory.Ledger, hist *history.Ledger, sess *session.Session, bus *events.Bus, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		todos:   todos,
		facts:   facts,
		hist:    hist,
		sess:    sess,
		bus:     bus,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Browsers may only connect from the same origin unless the
				// deployment explicitly opens it up. Non-browser clients
				// omit Origin and are allowed.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Get("/v1/conversations/{id}/todos", s.handleListTodos)
	r.Get("/v1/conversations/{id}/memory", s.handleListMemory)
	r.Get("/v1/conversations/{id}/history", s.handleListHistory)
	r.Post("/v1/conversations/{id}/reset", s.handleReset)
	r.Get("/v1/events/ws", s.handleEventsWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"conversations": s.hist.ConversationCount(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"conversation_id": id,
		"todos":           s.todos.Items(id),
	})
}

func (s *Server) handleListMemory(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"conversation_id": id,
		"facts":           s.facts.Facts(id),
	})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"conversation_id": id,
		"turns":           s.hist.Turns(id),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	s.sess.Reset(r.Context(), id)
	respondJSON(w, http.StatusOK, map[string]any{
		"conversation_id": id,
		"status":          "reset",
	})
}

func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	feed, unsubscribe := s.bus.Subscribe()
	defer unsubscribe()

	// Drain reads so peer close is noticed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-feed:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

func conversationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_conversation_id", "missing conversation id")
		return "", false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
