// Package web exposes the selector's read surface over HTTP: record fetches
// by id and bulk record-access lookups, authenticated by JWT bearer tokens.
// Mutation dispatch has no HTTP surface; events reach the dispatcher from
// the embedding application.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/recordkit/recordkit/internal/engine"
	"github.com/recordkit/recordkit/internal/schema"
	"github.com/recordkit/recordkit/internal/security"
	"github.com/recordkit/recordkit/internal/selector"
	"go.uber.org/zap"
)

// Config carries the server's collaborators and settings.
type Config struct {
	Metadata schema.Provider
	Engine   engine.Engine
	Access   security.AccessProvider
	Logger   *zap.Logger

	JWTSecret      string
	ObjectSecurity bool
	FieldSecurity  bool
}

// Server serves the read API.
type Server struct {
	cfg    Config
	log    *zap.Logger
	router chi.Router
}

// NewServer builds the router and its middleware chain.
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{cfg: cfg, log: log}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging(log))
	r.Use(RequireActor(cfg.JWTSecret))
	r.Get("/entities/{entity}/records", s.handleRecords)
	r.Get("/entities/{entity}/access", s.handleAccess)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// newSelector builds a per-request selector over the full field set of the
// requested entity.
func (s *Server) newSelector(r *http.Request, entity string) (*selector.Selector, error) {
	sel, err := selector.New(r.Context(), entity, nil, selector.Config{
		Metadata: s.cfg.Metadata,
		Engine:   s.cfg.Engine,
		Access:   s.cfg.Access,
		Logger:   s.log,
	},
		selector.WithObjectSecurity(s.cfg.ObjectSecurity),
		selector.WithFieldSecurity(s.cfg.FieldSecurity),
	)
	if err != nil {
		return nil, err
	}
	if err := sel.AddAllFields(); err != nil {
		return nil, err
	}
	return sel, nil
}

// handleRecords serves GET /entities/{entity}/records?ids=a,b
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	ids := splitIDs(r.URL.Query().Get("ids"))

	sel, err := s.newSelector(r, entity)
	if err != nil {
		s.writeSelectorError(w, err)
		return
	}

	records, err := sel.SelectByID(r.Context(), ids)
	if err != nil {
		s.writeSelectorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entity":  entity,
		"records": records,
	})
}

// handleAccess serves GET /entities/{entity}/access?ids=a,b
func (s *Server) handleAccess(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	ids := splitIDs(r.URL.Query().Get("ids"))

	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no actor in context")
		return
	}

	sel, err := s.newSelector(r, entity)
	if err != nil {
		s.writeSelectorError(w, err)
		return
	}

	access, err := sel.RecordAccess(r.Context(), ids, actor)
	if err != nil {
		s.writeSelectorError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entity": entity,
		"actor":  actor,
		"access": access,
	})
}

// writeSelectorError maps selector and engine failures to status codes.
func (s *Server) writeSelectorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, selector.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, selector.ErrEmptyIDSet):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, selector.ErrNotInitialized), errors.Is(err, schema.ErrEntityNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("query failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "query failed")
	}
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
