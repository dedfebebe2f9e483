package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sales-practice-api/internal/domain"
	"sales-practice-api/internal/domain/model"
	"sales-practice-api/internal/usecase"
)

type startSessionRequest struct {
	Product         string `json:"product"`
	CustomerProfile string `json:"customerProfile"`
	Scenario        string `json:"scenario"`
}

type chatRequest struct {
	SessionID   string `json:"sessionId"`
	UserMessage string `json:"userMessage"`
}

type updateContextRequest struct {
	SessionID       string `json:"sessionId"`
	Product         string `json:"product"`
	CustomerProfile string `json:"customerProfile"`
	Scenario        string `json:"scenario"`
}

type analyzeRequest struct {
	SessionID string `json:"sessionId"`
}

// startSessionHandler creates a session and returns its identifier plus a
// snapshot of the context record.
func startSessionHandler(uc usecase.PracticeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		s, err := uc.StartSession(r.Context(), req.Product, req.CustomerProfile, req.Scenario)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				writeError(w, http.StatusBadRequest, "Product and customer profile are required")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to start session")
			return
		}

		writeJSON(w, http.StatusOK, struct {
			SessionID string               `json:"sessionId"`
			Message   string               `json:"message"`
			Context   model.SessionContext `json:"context"`
		}{
			SessionID: s.ID,
			Message:   "Session started successfully. You can now begin the sales conversation.",
			Context:   s.Context,
		})
	}
}

func chatHandler(uc usecase.PracticeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.SessionID == "" || req.UserMessage == "" {
			writeError(w, http.StatusBadRequest, "Session ID and user message are required")
			return
		}

		res, err := uc.SendMessage(r.Context(), req.SessionID, req.UserMessage)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Reply       string `json:"reply"`
			SessionInfo struct {
				MessageCount    int   `json:"messageCount"`
				SessionDuration int64 `json:"sessionDuration"`
			} `json:"sessionInfo"`
		}{
			Reply: res.Reply,
			SessionInfo: struct {
				MessageCount    int   `json:"messageCount"`
				SessionDuration int64 `json:"sessionDuration"`
			}{
				MessageCount:    res.MessageCount,
				SessionDuration: res.SessionDuration.Milliseconds(),
			},
		})
	}
}

func updateContextHandler(uc usecase.PracticeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateContextRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.SessionID == "" {
			writeError(w, http.StatusBadRequest, "Session ID is required")
			return
		}

		sctx, err := uc.UpdateContext(r.Context(), req.SessionID, req.Product, req.CustomerProfile, req.Scenario)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Message string               `json:"message"`
			Context model.SessionContext `json:"context"`
		}{
			Message: "Context updated successfully",
			Context: sctx,
		})
	}
}

func analyzeHandler(uc usecase.PracticeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.SessionID == "" {
			writeError(w, http.StatusBadRequest, "Session ID is required")
			return
		}

		res, err := uc.Analyze(r.Context(), req.SessionID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Analysis     string `json:"analysis"`
			SessionStats struct {
				Duration     int64                `json:"duration"`
				MessageCount int                  `json:"messageCount"`
				Context      model.SessionContext `json:"context"`
			} `json:"sessionStats"`
		}{
			Analysis: res.Analysis,
			SessionStats: struct {
				Duration     int64                `json:"duration"`
				MessageCount int                  `json:"messageCount"`
				Context      model.SessionContext `json:"context"`
			}{
				Duration:     res.Duration.Milliseconds(),
				MessageCount: res.MessageCount,
				Context:      res.Context,
			},
		})
	}
}

type historyEntry struct {
	ID            int       `json:"id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
	ReadTimestamp time.Time `json:"readTimestamp"`
}

func historyHandler(uc usecase.PracticeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		entries, err := uc.GetHistory(r.Context(), sessionID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		history := make([]historyEntry, 0, len(entries))
		for i, e := range entries {
			history = append(history, historyEntry{
				ID:            i,
				Role:          e.Role,
				Content:       e.Content,
				Timestamp:     e.Timestamp,
				ReadTimestamp: e.ReadAt,
			})
		}

		writeJSON(w, http.StatusOK, struct {
			History []historyEntry `json:"history"`
		}{History: history})
	}
}

func deleteSessionHandler(uc usecase.PracticeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		if err := uc.DeleteSession(r.Context(), sessionID); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Session deleted successfully",
		})
	}
}

type sessionListEntry struct {
	SessionID    string               `json:"sessionId"`
	Context      model.SessionContext `json:"context"`
	MessageCount int                  `json:"messageCount"`
}

func listSessionsHandler(uc usecase.PracticeUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := uc.ListSessions(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list sessions")
			return
		}

		out := make([]sessionListEntry, 0, len(sessions))
		for _, s := range sessions {
			out = append(out, sessionListEntry{
				SessionID:    s.SessionID,
				Context:      s.Context,
				MessageCount: s.TurnCount,
			})
		}
		writeJSON(w, http.StatusOK, struct {
			ActiveSessions []sessionListEntry `json:"activeSessions"`
		}{ActiveSessions: out})
	}
}

// writeDomainError is the single place the typed failure taxonomy becomes
// HTTP statuses. Client-input failures (validation, unknown session) map to
// 4xx; gateway failures map to 5xx with the service-unreachable case called
// out explicitly.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "Session ID and user message are required")
		return
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Session not found. Please start a new session.")
		return
	}

	var gerr *domain.GatewayError
	if errors.As(err, &gerr) {
		switch gerr.Kind {
		case domain.GatewayServiceUnavailable:
			writeError(w, http.StatusServiceUnavailable,
				"The model server is not running. Please start it and load a model.")
		case domain.GatewayUpstream:
			status := gerr.Status
			if status < 400 {
				status = http.StatusBadGateway
			}
			writeError(w, status, "LLM API Error: "+gerr.Message)
		default:
			writeError(w, http.StatusBadGateway,
				"Failed to communicate with LLM. Please check your connection.")
		}
		return
	}

	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
