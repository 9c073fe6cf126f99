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

// ProductionHandler handles production seeding endpoints.
type ProductionHandler struct {
	production *service.Production
	logger     *logger.Logger
}

// NewProductionHandler creates a new production handler.
func NewProductionHandler(svc *service.Production, log *logger.Logger) *ProductionHandler {
	return &ProductionHandler{
		production: svc,
		logger:     log,
	}
}

// Setup handles POST /api/v1/production/setup
func (h *ProductionHandler) Setup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req model.SetupProductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateTitle(req.Project.Title); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.production.Setup(ctx, userID, &req)
	if errors.Is(err, service.ErrInvalidProduction) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to seed production", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to set up production")
		return
	}

	writeJSON(w, http.StatusCreated, model.SetupProductionResponse{
		Success: true,
		Project: *project,
	})
}
