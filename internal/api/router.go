package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/message", s.handleMessage)
		r.Delete("/history", s.handleResetHistory)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// messageRequest is the body of POST /api/v1/message.
type messageRequest struct {
	Message string `json:"message"`
}

// handleMessage runs one conversation turn and returns the outcome.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeBadRequest(w, "message is required")
		return
	}

	out, err := s.pipeline.Run(r.Context(), req.Message)
	if err != nil {
		s.logger.Error("pipeline run failed", "error", err,
			"request_id", r.Context().Value(ctxKeyRequestID))
		writeError(w, http.StatusBadGateway, ErrCodeUpstream, "conversation turn failed")
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// handleResetHistory clears the conversation thread.
func (s *Server) handleResetHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.pipeline.ResetHistory(r.Context()); err != nil {
		s.logger.Error("history reset failed", "error", err)
		writeInternalError(w, "failed to reset history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
