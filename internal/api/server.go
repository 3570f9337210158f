// Package api serves stored analysis runs over HTTP: run listings and
// per-fixation summaries as JSON, plus the interactive scatter page. It
// only reads the results store; the aggregation core has no network
// surface.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/WeiFangping/pupil-tutorials/internal/store"
	"github.com/WeiFangping/pupil-tutorials/internal/viz"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	store *store.Store
}

func NewServer(s *store.Store) *Server {
	return &Server{store: s}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/fixations", s.listFixations)
	mux.HandleFunc("/chart", s.showChart)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// resolveRunID returns the run_id query parameter, falling back to the most
// recently stored run.
func (s *Server) resolveRunID(r *http.Request) (string, error) {
	if runID := r.URL.Query().Get("run_id"); runID != "" {
		return runID, nil
	}
	return s.store.LatestRunID()
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	runs, err := s.store.RecentRuns(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve runs: %v", err))
		return
	}
	if runs == nil {
		runs = []store.AnalysisRun{}
	}

	if err := json.NewEncoder(w).Encode(runs); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write runs")
		return
	}
}

func (s *Server) listFixations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	runID, err := s.resolveRunID(r)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("No run available: %v", err))
		return
	}

	summaries, err := s.store.RunSummaries(runID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve fixations: %v", err))
		return
	}

	// Undefined means serialise as JSON null via the nil pointer; the
	// response shape keeps missing data distinguishable from zero.
	response := map[string]interface{}{
		"run_id":    runID,
		"fixations": summaries,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write fixations")
		return
	}
}

func (s *Server) showChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runID, err := s.resolveRunID(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("No run available: %v", err), http.StatusNotFound)
		return
	}

	run, err := s.store.Run(runID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load run: %v", err), http.StatusNotFound)
		return
	}
	summaries, err := s.store.RunSummaries(runID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load fixations: %v", err), http.StatusInternalServerError)
		return
	}

	subtitle := fmt.Sprintf("recording=%s surface=%s fixations=%d undefined=%d min_confidence=%.2f",
		run.Recording, run.Surface, len(summaries), run.UndefinedMeans, run.MinConfidence)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := viz.RenderScatterHTML(w, summaries, run.DiameterUnits, subtitle); err != nil {
		log.Printf("failed to render chart for run %s: %v", runID, err)
	}
}
