package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/erp"
)

// MaterialHandler serves the purchasing lookups against the legacy ERP.
// The materials grid itself travels inside the ficha payload; these
// endpoints only help purchasing fill it in.
type MaterialHandler struct {
	erpClient *erp.Client
	logger    *zap.Logger
}

// NewMaterialHandler creates a new MaterialHandler instance
func NewMaterialHandler(erpClient *erp.Client, logger *zap.Logger) *MaterialHandler {
	return &MaterialHandler{
		erpClient: erpClient,
		logger:    logger,
	}
}

// SearchFornecedores godoc
// @Summary Search suppliers in the legacy ERP
// @Description Searches the legacy ERP's supplier registry by name. Returns 503 when the ERP connection is not configured.
// @Tags Materiais
// @Produce json
// @Param nome query string true "Supplier name (partial match)"
// @Param limit query int false "Max results (default 20)"
// @Success 200 {array} erp.Fornecedor
// @Failure 400 {object} domain.APIError "Missing search term"
// @Failure 503 {object} domain.APIError "ERP connection not configured"
// @Security BearerAuth
// @Router /materiais/fornecedores [get]
func (h *MaterialHandler) SearchFornecedores(w http.ResponseWriter, r *http.Request) {
	if h.erpClient == nil || !h.erpClient.IsEnabled() {
		respondWithError(w, http.StatusServiceUnavailable, "Consulta ao ERP não está habilitada nesta instalação")
		return
	}

	nome := r.URL.Query().Get("nome")
	if nome == "" {
		respondWithError(w, http.StatusBadRequest, "nome query parameter is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	fornecedores, err := h.erpClient.SearchFornecedores(r.Context(), nome, limit)
	if err != nil {
		h.logger.Error("ERP supplier search failed", zap.Error(err), zap.String("nome", nome))
		respondWithError(w, http.StatusInternalServerError, "Falha na consulta de fornecedores no ERP")
		return
	}

	respondJSON(w, http.StatusOK, fornecedores)
}

// PrecoHistorico godoc
// @Summary Look up recent purchase prices in the legacy ERP
// @Description Returns the most recent purchase prices recorded in the legacy ERP for items matching the description.
// @Tags Materiais
// @Produce json
// @Param descricao query string true "Item description (partial match)"
// @Param limit query int false "Max results (default 10)"
// @Success 200 {array} erp.PrecoHistorico
// @Failure 400 {object} domain.APIError "Missing description"
// @Failure 503 {object} domain.APIError "ERP connection not configured"
// @Security BearerAuth
// @Router /materiais/precos [get]
func (h *MaterialHandler) PrecoHistorico(w http.ResponseWriter, r *http.Request) {
	if h.erpClient == nil || !h.erpClient.IsEnabled() {
		respondWithError(w, http.StatusServiceUnavailable, "Consulta ao ERP não está habilitada nesta instalação")
		return
	}

	descricao := r.URL.Query().Get("descricao")
	if descricao == "" {
		respondWithError(w, http.StatusBadRequest, "descricao query parameter is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	precos, err := h.erpClient.LatestPreco(r.Context(), descricao, limit)
	if err != nil {
		h.logger.Error("ERP price lookup failed", zap.Error(err), zap.String("descricao", descricao))
		respondWithError(w, http.StatusInternalServerError, "Falha na consulta de preços no ERP")
		return
	}

	respondJSON(w, http.StatusOK, precos)
}
