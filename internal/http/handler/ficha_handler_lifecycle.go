package handler

// This file contains the workflow transition handlers for the FichaHandler.
// Includes:
// - Advance (guard-evaluated forward transition)
// - Revert (manual rollback with justification)
// - Client quote response (approval / rejection)
// - Explicit operational steps (purchasing, production, finish)

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/service"
)

// FichaLifecycleHandler handles workflow transition requests
type FichaLifecycleHandler struct {
	lifecycleService *service.FichaLifecycleService
	logger           *zap.Logger
}

// NewFichaLifecycleHandler creates a new FichaLifecycleHandler instance
func NewFichaLifecycleHandler(lifecycleService *service.FichaLifecycleService, logger *zap.Logger) *FichaLifecycleHandler {
	return &FichaLifecycleHandler{
		lifecycleService: lifecycleService,
		logger:           logger,
	}
}

// Advance godoc
// @Summary Advance ficha to the next workflow stage
// @Description Evaluates the transition guard for the ficha's current stage and advances it when the guard passes. A refused guard is not an error: the response carries the unchanged ficha and the refusal reason.
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Ficha ID"
// @Param request body domain.AdvanceFichaRequest true "Transition choice and version"
// @Success 200 {object} domain.AdvanceFichaResponse "Ficha and transition decision"
// @Failure 400 {object} domain.APIError "Invalid request"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Failure 409 {object} domain.APIError "Version conflict"
// @Failure 422 {object} domain.APIError "Ficha failed field validation"
// @Security BearerAuth
// @Router /fichas/{id}/advance [post]
func (h *FichaLifecycleHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	var req domain.AdvanceFichaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Choice == "" {
		req.Choice = domain.TransitionContinue
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	response, err := h.lifecycleService.Advance(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to advance ficha", zap.Error(err), zap.String("ficha_id", id.String()))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// Revert godoc
// @Summary Revert ficha to the previous workflow stage
// @Description Moves the ficha one stage back. Requires a justification of at least 10 characters; the response describes the operational impact of the rollback.
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Ficha ID"
// @Param request body domain.RevertFichaRequest true "Justification and version"
// @Success 200 {object} domain.RevertFichaResponse "Reverted ficha and impact description"
// @Failure 400 {object} domain.APIError "Invalid request, missing justification or ficha already at the first stage"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Failure 409 {object} domain.APIError "Version conflict"
// @Security BearerAuth
// @Router /fichas/{id}/revert [post]
func (h *FichaLifecycleHandler) Revert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	var req domain.RevertFichaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	response, err := h.lifecycleService.Revert(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to revert ficha", zap.Error(err), zap.String("ficha_id", id.String()))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// ClientResponse godoc
// @Summary Record the client's quote response
// @Description Records the client's answer to a sent quote. Approval moves the ficha to orcamento_aprovado_cliente and stamps the approver; rejection returns it to aguardando_orcamento_comercial for revision.
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Ficha ID"
// @Param request body domain.ClientResponseRequest true "Client response"
// @Success 200 {object} domain.FichaDTO "Updated ficha"
// @Failure 400 {object} domain.APIError "Invalid request or quote not sent"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Failure 409 {object} domain.APIError "Version conflict"
// @Security BearerAuth
// @Router /fichas/{id}/client-response [post]
func (h *FichaLifecycleHandler) ClientResponse(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	var req domain.ClientResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	ficha, err := h.lifecycleService.RespondAsClient(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to record client response", zap.Error(err), zap.String("ficha_id", id.String()))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ficha)
}

// StartPurchasing godoc
// @Summary Move an approved ficha into purchasing
// @Description Transitions the ficha from orcamento_aprovado_cliente to em_compras. Taken by an explicit user action, never automatically.
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Ficha ID"
// @Param request body domain.WorkflowStepRequest true "Version"
// @Success 200 {object} domain.FichaDTO "Updated ficha"
// @Failure 400 {object} domain.APIError "Ficha is not in the approved stage"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Failure 409 {object} domain.APIError "Version conflict"
// @Security BearerAuth
// @Router /fichas/{id}/start-purchasing [post]
func (h *FichaLifecycleHandler) StartPurchasing(w http.ResponseWriter, r *http.Request) {
	h.explicitStep(w, r, h.lifecycleService.StartPurchasing)
}

// StartProduction godoc
// @Summary Move a ficha from purchasing into production
// @Description Transitions the ficha from em_compras to em_producao once the materials arrive.
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Ficha ID"
// @Param request body domain.WorkflowStepRequest true "Version"
// @Success 200 {object} domain.FichaDTO "Updated ficha"
// @Failure 400 {object} domain.APIError "Ficha is not in purchasing"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Failure 409 {object} domain.APIError "Version conflict"
// @Security BearerAuth
// @Router /fichas/{id}/start-production [post]
func (h *FichaLifecycleHandler) StartProduction(w http.ResponseWriter, r *http.Request) {
	h.explicitStep(w, r, h.lifecycleService.StartProduction)
}

// Finish godoc
// @Summary Finish a ficha
// @Description Transitions the ficha from em_producao to finalizada when the part ships.
// @Tags Workflow
// @Accept json
// @Produce json
// @Param id path string true "Ficha ID"
// @Param request body domain.WorkflowStepRequest true "Version"
// @Success 200 {object} domain.FichaDTO "Updated ficha"
// @Failure 400 {object} domain.APIError "Ficha is not in production"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Failure 409 {object} domain.APIError "Version conflict"
// @Security BearerAuth
// @Router /fichas/{id}/finish [post]
func (h *FichaLifecycleHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.explicitStep(w, r, h.lifecycleService.Finish)
}

func (h *FichaLifecycleHandler) explicitStep(
	w http.ResponseWriter,
	r *http.Request,
	step func(ctx context.Context, id uuid.UUID, version int) (*domain.FichaDTO, error),
) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	var req domain.WorkflowStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	ficha, err := step(r.Context(), id, req.Version)
	if err != nil {
		h.logger.Error("failed workflow step", zap.Error(err), zap.String("ficha_id", id.String()))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ficha)
}
