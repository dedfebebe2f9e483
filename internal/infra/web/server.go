package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"sales-practice-api/internal/usecase"
)

// Server wires the practice API routes to the practice use case.
type Server struct {
	practiceUC usecase.PracticeUseCase
	log        *zerolog.Logger
}

func NewServer(practiceUC usecase.PracticeUseCase, logger *zerolog.Logger) *Server {
	return &Server{practiceUC: practiceUC, log: logger}
}

// Router builds the chi router with the full API surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/session/start", startSessionHandler(s.practiceUC))
		r.Post("/chat", chatHandler(s.practiceUC))
		r.Post("/session/update-context", updateContextHandler(s.practiceUC))
		r.Post("/session/analyze", analyzeHandler(s.practiceUC))
		r.Get("/session/{sessionID}/history", historyHandler(s.practiceUC))
		r.Delete("/session/{sessionID}", deleteSessionHandler(s.practiceUC))
		r.Get("/sessions", listSessionsHandler(s.practiceUC))
	})

	r.NotFound(notFoundHandler)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// corsMiddleware allows any origin; the browser UI is served from a
// different origin during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Sales Practice API is running",
	})
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error": "Endpoint not found",
		"availableEndpoints": []string{
			"POST /api/session/start",
			"POST /api/chat",
			"POST /api/session/update-context",
			"POST /api/session/analyze",
			"GET /api/session/{sessionId}/history",
			"DELETE /api/session/{sessionId}",
			"GET /api/sessions",
			"GET /health",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
