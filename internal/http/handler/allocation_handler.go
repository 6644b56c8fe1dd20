package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/service"
)

// AllocationHandler handles the PCP worker allocation endpoints
type AllocationHandler struct {
	allocationService *service.AllocationService
	logger            *zap.Logger
}

// NewAllocationHandler creates a new AllocationHandler instance
func NewAllocationHandler(allocationService *service.AllocationService, logger *zap.Logger) *AllocationHandler {
	return &AllocationHandler{
		allocationService: allocationService,
		logger:            logger,
	}
}

// Suggest godoc
// @Summary Suggest a worker for a process
// @Description Returns the least-loaded active worker qualified for the process, plus the remaining qualified alternatives in load order. An empty suggestion means nobody is qualified.
// @Tags Alocação
// @Accept json
// @Produce json
// @Param request body domain.SuggestAllocationRequest true "Process name"
// @Success 200 {object} domain.SuggestAllocationResponse
// @Failure 400 {object} domain.APIError "Invalid request body"
// @Security BearerAuth
// @Router /alocacao/sugerir [post]
func (h *AllocationHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req domain.SuggestAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	response, err := h.allocationService.Suggest(r.Context(), req.Processo)
	if err != nil {
		h.logger.Error("failed to suggest allocation", zap.Error(err), zap.String("processo", req.Processo))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// ListFuncionarios godoc
// @Summary List active shop-floor workers
// @Description Returns every active worker with their processes and current load, for the PCP screens.
// @Tags Alocação
// @Produce json
// @Success 200 {array} domain.FuncionarioDTO
// @Security BearerAuth
// @Router /alocacao/funcionarios [get]
func (h *AllocationHandler) ListFuncionarios(w http.ResponseWriter, r *http.Request) {
	funcionarios, err := h.allocationService.ListFuncionarios(r.Context())
	if err != nil {
		h.logger.Error("failed to list funcionarios", zap.Error(err))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, funcionarios)
}
