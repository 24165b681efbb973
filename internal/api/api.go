// Package api serves the multiplexed data route consumed by the portfolio
// front end and the admin/client dashboard.
//
//	GET  {path}?type={projects|testimonials|inquiries|notifications|analytics}
//	POST {path} with body {"type": <operation>, "data": <payload>}
//
// Every response uses the {success, data, error} envelope.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amoran/portfolio/internal/auth"
	"github.com/amoran/portfolio/internal/db"
)

type Server struct {
	db        *db.DB
	log       zerolog.Logger
	jwtSecret string
}

func New(database *db.DB, logger zerolog.Logger, jwtSecret string) *Server {
	return &Server{db: database, log: logger, jwtSecret: jwtSecret}
}

// Register mounts the data route at path. The original front end calls the
// route /api/graphql (it is not GraphQL); that path is kept as an alias.
func (s *Server) Register(mux *http.ServeMux, path string) {
	paths := []string{path}
	if path != "/api/graphql" {
		paths = append(paths, "/api/graphql")
	}
	for _, p := range paths {
		mux.Handle("GET "+p, s.wrap(s.handleGet))
		mux.Handle("POST "+p, s.wrap(s.handlePost))
	}
}

func (s *Server) wrap(h http.HandlerFunc) http.Handler {
	return s.logRequests(auth.Middleware(s.jwtSecret)(h))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	claims := auth.FromContext(r.Context())

	switch typ {
	case "projects":
		projects, err := s.db.ListProjects()
		if err != nil {
			s.internalError(w, err)
			return
		}
		if projects == nil {
			projects = []db.Project{}
		}
		writeData(w, http.StatusOK, projects)

	case "testimonials":
		var testimonials []db.Testimonial
		var err error
		if claims.IsAdmin() {
			testimonials, err = s.db.ListTestimonials()
		} else {
			testimonials, err = s.db.ListApprovedTestimonials()
		}
		if err != nil {
			s.internalError(w, err)
			return
		}
		if testimonials == nil {
			testimonials = []db.Testimonial{}
		}
		writeData(w, http.StatusOK, testimonials)

	case "inquiries":
		// Scoped server-side: clients only ever see their own inquiries.
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		var inquiries []db.Inquiry
		var err error
		if claims.IsAdmin() {
			inquiries, err = s.db.ListInquiries()
		} else {
			inquiries, err = s.db.ListInquiriesByEmail(claims.Email)
		}
		if err != nil {
			s.internalError(w, err)
			return
		}
		if inquiries == nil {
			inquiries = []db.Inquiry{}
		}
		writeData(w, http.StatusOK, inquiries)

	case "notifications":
		if !claims.IsAdmin() {
			s.denied(w, claims)
			return
		}
		notifications, err := s.db.ListNotifications()
		if err != nil {
			s.internalError(w, err)
			return
		}
		if notifications == nil {
			notifications = []db.Notification{}
		}
		writeData(w, http.StatusOK, notifications)

	case "analytics":
		if !claims.IsAdmin() {
			s.denied(w, claims)
			return
		}
		analytics, err := s.db.Analytics()
		if err != nil {
			s.internalError(w, err)
			return
		}
		writeData(w, http.StatusOK, analytics)

	default:
		writeError(w, http.StatusBadRequest, "unknown type: "+typ)
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	m, ok := mutations[req.Type]
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown operation: "+req.Type)
		return
	}

	data, err := m(s, auth.FromContext(r.Context()), req.Data)
	if err != nil {
		s.writeMutationError(w, req.Type, err)
		return
	}
	writeData(w, http.StatusOK, data)
}

// Error sentinels for mutation handlers; mapped onto HTTP statuses below.
var (
	errBadRequest      = errors.New("bad request")
	errUnauthenticated = errors.New("authentication required")
	errForbidden       = errors.New("forbidden")
)

func (s *Server) writeMutationError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errUnauthenticated):
		writeError(w, http.StatusUnauthorized, errUnauthenticated.Error())
	case errors.Is(err, errForbidden):
		writeError(w, http.StatusForbidden, errForbidden.Error())
	default:
		s.log.Error().Err(err).Str("operation", op).Msg("mutation failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("query failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) denied(w http.ResponseWriter, claims *auth.Claims) {
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeError(w, http.StatusForbidden, "forbidden")
}

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: false, Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("request_id", uuid.NewString()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("type", r.URL.Query().Get("type")).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
