package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/inventory-ledger/internal/api_gateway/service"
	"github.com/inventory-ledger/internal/domain/normalize"
)

// TransactionHandler handles HTTP requests for ledger transactions
type TransactionHandler struct {
	transactionService service.TransactionService
	paging             Paging
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService, paging Paging) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		paging:             paging,
		logger:             logger,
	}
}

// Create stores a new transaction and returns it with its derived total
func (h *TransactionHandler) Create(c *gin.Context) {
	var in normalize.CreateInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	created, err := h.transactionService.CreateTransaction(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(created))
}

// List returns a page of transactions ordered by id
func (h *TransactionHandler) List(c *gin.Context) {
	offset, limit, err := normalize.Page(c.Query("offset"), c.Query("limit"), h.paging.DefaultLimit, h.paging.MaxLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	list, err := h.transactionService.ListTransactions(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondWithList(c, mapTransactionsToResponse(list), offset, limit, len(list))
}

// Search filters transactions by owner, type, date range, inventory item,
// free text and total amount. Omitted parameters do not filter.
func (h *TransactionHandler) Search(c *gin.Context) {
	filter, err := normalize.Search(normalize.SearchParams{
		OwnerID:         c.Query("owner_id"),
		TransactionType: c.Query("transaction_type"),
		DateFrom:        c.Query("date_from"),
		DateTo:          c.Query("date_to"),
		InventoryID:     c.Query("inventory_id"),
		Q:               c.Query("q"),
		MinTotal:        c.Query("min_total"),
		MaxTotal:        c.Query("max_total"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	offset, limit, err := normalize.Page(c.Query("offset"), c.Query("limit"), h.paging.DefaultLimit, h.paging.MaxLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	list, err := h.transactionService.SearchTransactions(c.Request.Context(), filter, offset, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondWithList(c, mapTransactionsToResponse(list), offset, limit, len(list))
}

// GetByID retrieves a transaction, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	t, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(t))
}

// Update applies the keys present in the body. Serves both PUT and PATCH.
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var in normalize.PatchInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}

	updated, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(updated))
}

// Delete removes a transaction and returns its last value
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	removed, err := h.transactionService.DeleteTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(removed))
}
