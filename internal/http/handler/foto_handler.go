package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/service"
)

// FotoHandler handles the part photos attached to a ficha
type FotoHandler struct {
	fotoService *service.FotoService
	maxUploadMB int64
	logger      *zap.Logger
}

// NewFotoHandler creates a new FotoHandler instance
func NewFotoHandler(fotoService *service.FotoService, maxUploadMB int64, logger *zap.Logger) *FotoHandler {
	return &FotoHandler{
		fotoService: fotoService,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// Upload godoc
// @Summary Upload a part photo
// @Tags Fotos
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Ficha ID"
// @Param file formData file true "Photo to upload"
// @Success 201 {object} domain.Foto
// @Failure 400 {object} domain.APIError "Invalid request"
// @Failure 404 {object} domain.APIError "Ficha not found"
// @Failure 413 {object} domain.APIError "File too large"
// @Security BearerAuth
// @Router /fichas/{id}/fotos [post]
func (h *FotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	fichaID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	// Limit request size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	foto, err := h.fotoService.Upload(r.Context(), fichaID, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.logger.Error("failed to upload foto", zap.Error(err), zap.String("ficha_id", fichaID.String()))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, foto)
}

// List godoc
// @Summary List a ficha's photos
// @Tags Fotos
// @Produce json
// @Param id path string true "Ficha ID"
// @Success 200 {array} domain.Foto
// @Failure 400 {object} domain.APIError "Invalid ficha ID"
// @Security BearerAuth
// @Router /fichas/{id}/fotos [get]
func (h *FotoHandler) List(w http.ResponseWriter, r *http.Request) {
	fichaID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ficha ID")
		return
	}

	fotos, err := h.fotoService.ListByFicha(r.Context(), fichaID)
	if err != nil {
		h.logger.Error("failed to list fotos", zap.Error(err), zap.String("ficha_id", fichaID.String()))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, fotos)
}

// Download godoc
// @Summary Download a part photo
// @Tags Fotos
// @Produce application/octet-stream
// @Param fotoId path string true "Foto ID"
// @Success 200
// @Failure 400 {object} domain.APIError "Invalid foto ID"
// @Failure 404 {object} domain.APIError "Foto not found"
// @Security BearerAuth
// @Router /fotos/{fotoId} [get]
func (h *FotoHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "fotoId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid foto ID")
		return
	}

	foto, reader, err := h.fotoService.Download(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to download foto", zap.Error(err), zap.String("foto_id", id.String()))
		handleServiceError(w, err)
		return
	}
	defer reader.Close()

	contentType := foto.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+foto.Filename+"\"")
	w.Header().Set("Content-Type", contentType)

	_, _ = io.Copy(w, reader)
}

// Delete godoc
// @Summary Delete a part photo
// @Tags Fotos
// @Param fotoId path string true "Foto ID"
// @Success 204 "Deleted"
// @Failure 400 {object} domain.APIError "Invalid foto ID"
// @Failure 404 {object} domain.APIError "Foto not found"
// @Security BearerAuth
// @Router /fotos/{fotoId} [delete]
func (h *FotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "fotoId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid foto ID")
		return
	}

	if err := h.fotoService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete foto", zap.Error(err), zap.String("foto_id", id.String()))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
