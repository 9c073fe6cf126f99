package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/showrunner-ai/orchestrator-platform/internal/middleware"
	"github.com/showrunner-ai/orchestrator-platform/internal/model"
	natsclient "github.com/showrunner-ai/orchestrator-platform/internal/nats"
	"github.com/showrunner-ai/orchestrator-platform/pkg/logger"
)

// TurnsHandler replays conversation turns from the event stream.
type TurnsHandler struct {
	stream *natsclient.TurnStream
	logger *logger.Logger
}

// NewTurnsHandler creates a new turns handler. stream may be nil when
// the event stream is disabled.
func NewTurnsHandler(stream *natsclient.TurnStream, log *logger.Logger) *TurnsHandler {
	return &TurnsHandler{
		stream: stream,
		logger: log,
	}
}

// TurnsResponse is the turn replay response.
type TurnsResponse struct {
	Turns        []model.TurnEvent `json:"turns"`
	LastSequence uint64            `json:"last_sequence"`
}

// List handles GET /api/v1/sessions/:id/turns
// Supports ?after_sequence=N for resuming from a specific point.
func (h *TurnsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.stream == nil {
		writeError(w, http.StatusServiceUnavailable, "event stream disabled")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var afterSequence uint64
	if seqStr := r.URL.Query().Get("after_sequence"); seqStr != "" {
		if seq, err := strconv.ParseUint(seqStr, 10, 64); err == nil {
			afterSequence = seq
		}
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	turns, lastSequence, err := h.stream.GetTurns(r.Context(), sessionID, afterSequence, limit)
	if err != nil {
		h.logger.Error("failed to replay turns",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to replay turns")
		return
	}

	writeJSON(w, http.StatusOK, TurnsResponse{
		Turns:        turns,
		LastSequence: lastSequence,
	})
}
