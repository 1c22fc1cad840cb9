// Package api exposes the read-only report queries over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/report"
)

// Querier runs a named report query.
type Querier interface {
	Dispatch(ctx context.Context, name string, p report.Params) (any, error)
}

type server struct {
	queries Querier
	logger  logging.Logger
}

// NewRouter builds the API router. gatherer may be nil, in which case no
// /metrics route is registered.
func NewRouter(queries Querier, gatherer prometheus.Gatherer, logger logging.Logger) *mux.Router {
	s := &server{queries: queries, logger: logger}

	router := mux.NewRouter()
	router.Use(s.logRequests)
	router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	router.HandleFunc("/api/queries", s.listQueries).Methods(http.MethodGet)
	router.HandleFunc("/api/query/{name}", s.runQuery).Methods(http.MethodGet)
	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return router
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) listQueries(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, report.QueryNames())
}

func (s *server) runQuery(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	q := r.URL.Query()

	params, err := report.NewParams(q.Get("month"), q.Get("type"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.queries.Dispatch(r.Context(), name, params)
	switch {
	case errors.Is(err, report.ErrUnknownQuery):
		s.writeError(w, http.StatusNotFound, err)
		return
	case errors.Is(err, report.ErrInvalidParams):
		s.writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		s.logger.WithError(err).Error("Query failed", logging.F(logging.FieldQuery, name))
		s.writeError(w, http.StatusInternalServerError, errors.New("query failed"))
		return
	}

	if q.Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if err := report.Render(w, result, "csv"); err != nil {
			s.logger.WithError(err).Warn("Failed to write CSV response", logging.F(logging.FieldQuery, name))
		}
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Warn("Failed to write response")
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("HTTP request",
			logging.F("method", r.Method),
			logging.F("path", r.URL.Path),
			logging.F(logging.FieldStatus, rec.status),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	})
}
