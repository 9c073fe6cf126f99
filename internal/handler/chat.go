// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/showrunner-ai/orchestrator-platform/internal/middleware"
	"github.com/showrunner-ai/orchestrator-platform/internal/model"
	"github.com/showrunner-ai/orchestrator-platform/internal/service"
	"github.com/showrunner-ai/orchestrator-platform/pkg/logger"
)

// ChatHandler handles the orchestrator chat endpoint.
type ChatHandler struct {
	orchestrator *service.Orchestrator
	logger       *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(orc *service.Orchestrator, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		orchestrator: orc,
		logger:       log,
	}
}

// Respond handles POST /api/v1/chat
func (h *ChatHandler) Respond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SessionID != "" {
		if err := middleware.ValidateSessionID(req.SessionID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	resp, err := h.orchestrator.Respond(ctx, &req)
	if err != nil {
		var pe *service.PersistenceError
		if errors.As(err, &pe) {
			h.logger.Error("chat turn failed on persistence",
				zap.String("op", pe.Op),
				zap.Error(pe.Err),
			)
			writeError(w, http.StatusInternalServerError, "session storage temporarily unavailable")
			return
		}
		h.logger.Error("chat turn failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
