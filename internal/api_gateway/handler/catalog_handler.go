package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/inventory-ledger/internal/api_gateway/service"
	"github.com/inventory-ledger/internal/domain/normalize"
)

// CatalogHandler serves categories and weight units
type CatalogHandler struct {
	catalogService service.CatalogService
	paging         Paging
	logger         *slog.Logger
}

func NewCatalogHandler(logger *slog.Logger, catalogService service.CatalogService, paging Paging) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		paging:         paging,
		logger:         logger,
	}
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CreateNamedRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapCategoryToResponse(category))
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapCategoryToResponse(category))
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	offset, limit, err := normalize.Page(c.Query("offset"), c.Query("limit"), h.paging.DefaultLimit, h.paging.MaxLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	categories, err := h.catalogService.ListCategories(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := make([]NamedResponse, len(categories))
	for i, category := range categories {
		out[i] = mapCategoryToResponse(category)
	}
	RespondWithList(c, out, offset, limit, len(out))
}

func (h *CatalogHandler) CreateWeight(c *gin.Context) {
	var req CreateNamedRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	weight, err := h.catalogService.CreateWeight(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapWeightToResponse(weight))
}

func (h *CatalogHandler) GetWeight(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	weight, err := h.catalogService.GetWeight(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapWeightToResponse(weight))
}

func (h *CatalogHandler) ListWeights(c *gin.Context) {
	offset, limit, err := normalize.Page(c.Query("offset"), c.Query("limit"), h.paging.DefaultLimit, h.paging.MaxLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	weights, err := h.catalogService.ListWeights(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := make([]NamedResponse, len(weights))
	for i, weight := range weights {
		out[i] = mapWeightToResponse(weight)
	}
	RespondWithList(c, out, offset, limit, len(out))
}
