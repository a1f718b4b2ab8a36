package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/inventory-ledger/internal/api_gateway/service"
	"github.com/inventory-ledger/internal/domain/normalize"
)

// InventoryHandler handles HTTP requests for stocked items
type InventoryHandler struct {
	inventoryService service.InventoryService
	paging           Paging
	logger           *slog.Logger
}

func NewInventoryHandler(logger *slog.Logger, inventoryService service.InventoryService, paging Paging) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		paging:           paging,
		logger:           logger,
	}
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var in normalize.InventoryInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapItemToResponse(item))
}

func (h *InventoryHandler) List(c *gin.Context) {
	offset, limit, err := normalize.Page(c.Query("offset"), c.Query("limit"), h.paging.DefaultLimit, h.paging.MaxLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	items, err := h.inventoryService.ListItems(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := make([]InventoryResponse, len(items))
	for i, item := range items {
		out[i] = mapItemToResponse(item)
	}
	RespondWithList(c, out, offset, limit, len(out))
}

func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapItemToResponse(item))
}

// Delete removes an item; transactions pointing at it keep existing unlinked
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	item, err := h.inventoryService.DeleteItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapItemToResponse(item))
}
