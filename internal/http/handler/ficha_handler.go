package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/service"
)

// FichaHandler handles ficha técnica CRUD requests
type FichaHandler struct {
	fichaService *service.FichaService
	logger       *zap.Logger
}

// NewFichaHandler creates a new FichaHandler instance
func NewFichaHandler(fichaService *service.FichaService, logger *zap.Logger) *FichaHandler {
	return &FichaHandler{
		fichaService: fichaService,
		logger:       logger,
	}
}

// Create godoc
// @Summary Create ficha técnica
// @Description Creates a new ficha técnica in rascunho status. Only the client name is mandatory at this stage.
// @Tags Fichas
// @Accept json
// @Produce json
// @Param request body domain.CreateFichaRequest true "Ficha data"
// @Success 201 {object} domain.FichaDTO "Created ficha"
// @Failure 400 {object} domain.APIError "Invalid request body"
// @Failure 500 {object} domain.APIError "Internal server error"
// @Security BearerAuth
// @Router /fichas [post]
func (h *FichaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFichaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	ficha, err := h.fichaService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create ficha", zap.Error(err))
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/fichas/"+ficha.ID.String())
	respondJSON(w, http.StatusCreated, ficha)
}

// Get godoc
// @Summary Get ficha técnica
// @Description Returns a ficha with its materials, photos count and current workflow position.
// @Tags Fichas
// @Produce json
// @Param id path string true "Ficha ID"
// @Success 200 {object} domain.FichaDTO
// @Failure 400 {object} domain.APIError "Invalid ficha ID"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Security BearerAuth
// @Router /fichas/{id} [get]
func (h *FichaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	ficha, err := h.fichaService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ficha)
}

// Update godoc
// @Summary Update ficha técnica
// @Description Updates an editable ficha. The request must carry the version last seen by the client; a stale version is rejected with 409.
// @Tags Fichas
// @Accept json
// @Produce json
// @Param id path string true "Ficha ID"
// @Param request body domain.UpdateFichaRequest true "Ficha data with version"
// @Success 200 {object} domain.FichaDTO "Updated ficha"
// @Failure 400 {object} domain.APIError "Invalid request"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Failure 409 {object} domain.APIError "Version conflict"
// @Security BearerAuth
// @Router /fichas/{id} [put]
func (h *FichaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	var req domain.UpdateFichaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	ficha, err := h.fichaService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update ficha", zap.Error(err), zap.String("ficha_id", id.String()))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ficha)
}

// Delete godoc
// @Summary Delete ficha técnica
// @Description Deletes a ficha. Only drafts can be deleted.
// @Tags Fichas
// @Param id path string true "Ficha ID"
// @Success 204 "Deleted"
// @Failure 400 {object} domain.APIError "Ficha is not a draft"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Security BearerAuth
// @Router /fichas/{id} [delete]
func (h *FichaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	if err := h.fichaService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete ficha", zap.Error(err), zap.String("ficha_id", id.String()))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// List godoc
// @Summary List fichas técnicas
// @Description Returns a paginated list of fichas, optionally filtered by status and client name.
// @Tags Fichas
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Param status query string false "Filter by workflow status"
// @Param cliente query string false "Filter by client name (partial match)"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError "Invalid status filter"
// @Security BearerAuth
// @Router /fichas [get]
func (h *FichaHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	cliente := r.URL.Query().Get("cliente")

	var status *domain.StatusFicha
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.StatusFicha(s)
		if !st.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter: "+s)
			return
		}
		status = &st
	}

	result, err := h.fichaService.List(r.Context(), page, pageSize, status, cliente)
	if err != nil {
		h.logger.Error("failed to list fichas", zap.Error(err))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Search godoc
// @Summary Search fichas técnicas
// @Description Searches fichas by client, part name or quote number.
// @Tags Fichas
// @Produce json
// @Param q query string true "Search term"
// @Param limit query int false "Max results (default 20)"
// @Success 200 {array} domain.FichaDTO
// @Failure 400 {object} domain.APIError "Missing search term"
// @Security BearerAuth
// @Router /fichas/search [get]
func (h *FichaHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	fichas, err := h.fichaService.Search(r.Context(), query, limit)
	if err != nil {
		h.logger.Error("failed to search fichas", zap.Error(err), zap.String("query", query))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, fichas)
}

// Validate godoc
// @Summary Validate ficha técnica
// @Description Runs the field validation for the ficha's current status and returns the findings grouped by form section. Does not change the ficha.
// @Tags Fichas
// @Produce json
// @Param id path string true "Ficha ID"
// @Success 200 {object} domain.ValidateFichaResponse
// @Failure 400 {object} domain.APIError "Invalid ficha ID"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Security BearerAuth
// @Router /fichas/{id}/validate [get]
func (h *FichaHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	result, err := h.fichaService.Validate(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetHistory godoc
// @Summary Get ficha status history
// @Description Returns the ficha's status transitions, newest first, with who moved it and any justification.
// @Tags Fichas
// @Produce json
// @Param id path string true "Ficha ID"
// @Success 200 {array} domain.FichaStatusHistoryDTO
// @Failure 400 {object} domain.APIError "Invalid ficha ID"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Security BearerAuth
// @Router /fichas/{id}/history [get]
func (h *FichaHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	history, err := h.fichaService.GetHistory(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// WhatsAppLink godoc
// @Summary Get WhatsApp follow-up link
// @Description Returns a wa.me link with a prefilled follow-up message for the ficha's contact phone. The link is empty when the ficha has no phone on record.
// @Tags Fichas
// @Produce json
// @Param id path string true "Ficha ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} domain.APIError "Invalid ficha ID"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Security BearerAuth
// @Router /fichas/{id}/whatsapp-link [get]
func (h *FichaHandler) WhatsAppLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	link, err := h.fichaService.WhatsAppLink(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"link": link})
}

// CountByStatus godoc
// @Summary Count fichas by status
// @Description Returns how many fichas sit in each workflow stage, for the dashboard cards.
// @Tags Fichas
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /fichas/stats/status [get]
func (h *FichaHandler) CountByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.fichaService.CountByStatus(r.Context())
	if err != nil {
		h.logger.Error("failed to count fichas by status", zap.Error(err))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, counts)
}
