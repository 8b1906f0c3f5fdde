// Package httpapi serves the tracker over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"jobtrack/internal/analytics"
	"jobtrack/internal/metrics"
	"jobtrack/internal/query"
	"jobtrack/internal/tracker"
)

// maxBodyBytes bounds request bodies. Notes are the largest legitimate
// payload and stay well below it.
const maxBodyBytes = 1 << 20

// Server exposes a single owner's applications.
type Server struct {
	svc     *tracker.Service
	metrics *metrics.Metrics
	logger  tracker.Logger
}

// NewServer creates a Server. m may be nil, in which case no metrics are
// recorded and /metrics is not mounted.
func NewServer(svc *tracker.Service, m *metrics.Metrics, logger tracker.Logger) *Server {
	return &Server{svc: svc, metrics: m, logger: logger}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.InstrumentHandler)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)
		r.Get("/analytics", s.handleAnalytics)
		r.Route("/applications", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Put("/", s.handleUpdate)
				r.Delete("/", s.handleDelete)
				r.Post("/status", s.handleStatus)
				r.Post("/notes", s.handleNote)
				r.Post("/interview", s.handleInterview)
			})
		})
	})
	return r
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   s.svc.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	apps, err := s.svc.ListApplications(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Compute(apps, s.svc.Now()))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	req, err := query.Params{
		Query:        v.Get("q"),
		Status:       v.Get("status"),
		Company:      v.Get("company"),
		Role:         v.Get("role"),
		From:         v.Get("from"),
		To:           v.Get("to"),
		HasInterview: v.Get("hasInterview"),
		HasNotes:     v.Get("hasNotes"),
		MinSalary:    v.Get("minSalary"),
		MaxSalary:    v.Get("maxSalary"),
		Filter:       v.Get("filter"),
		Sort:         v.Get("sort"),
		Page:         v.Get("page"),
	}.Request()
	if err != nil {
		s.writeError(w, err)
		return
	}

	apps, err := s.svc.ListApplications(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.Apply(apps, req))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	app, err := s.svc.GetApplication(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body applicationBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := body.input()
	if err != nil {
		s.writeError(w, err)
		return
	}

	app, err := s.svc.CreateApplication(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ApplicationCreated()
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var body patchBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	patch, err := body.patch()
	if err != nil {
		s.writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	before, err := s.svc.GetApplication(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	app, err := s.svc.UpdateDetails(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.observeTransition(before.Status, app.Status)
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteApplication(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ApplicationDeleted()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	status, err := tracker.ParseStatus(body.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	before, err := s.svc.GetApplication(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	app, err := s.svc.ChangeStatus(r.Context(), id, status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.observeTransition(before.Status, app.Status)
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	typ, err := tracker.ParseNoteType(body.Type)
	if err != nil {
		s.writeError(w, err)
		return
	}

	app, err := s.svc.AddNote(r.Context(), chi.URLParam(r, "id"), body.Content, typ)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.NoteAdded(typ)
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleInterview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	if body.Date == "" {
		s.writeError(w, &tracker.ValidationError{Field: "interviewDate", Message: "is required"})
		return
	}
	at, err := query.ParseDate("interviewDate", body.Date)
	if err != nil {
		s.writeError(w, err)
		return
	}

	app, err := s.svc.ScheduleInterview(r.Context(), chi.URLParam(r, "id"), at)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) observeTransition(from, to tracker.Status) {
	if s.metrics != nil && from != to {
		s.metrics.StatusChanged(from, to)
	}
}

// writeError maps tracker errors onto status codes. Storage failures are
// reported as temporarily unavailable since the request may be retried.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var verr *tracker.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp.Field = verr.Field
	case tracker.IsNotFound(err):
		status = http.StatusNotFound
	case tracker.IsStorage(err):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &tracker.ValidationError{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}
