package handler

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/inventory-ledger/internal/api_gateway/middleware"
	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/normalize"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/domain/user"
)

// respondError maps a service error onto the response envelope. Storage
// failures and unknown errors are logged and answered with a generic 500.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		validationErr shared.ValidationError
		referenceErr  shared.ReferenceError
		categoryErr   catalog.ErrCategoryNotFound
		weightErr     catalog.ErrWeightNotFound
		duplicateName catalog.ErrDuplicateName
		duplicateMail user.ErrDuplicateEmail
	)

	switch {
	case errors.As(err, &validationErr):
		RespondValidationError(c, validationErr.Error())
	case errors.As(err, &referenceErr):
		RespondReferenceNotFound(c, referenceErr.Error())
	case errors.Is(err, transaction.ErrTransactionNotFound{}),
		errors.Is(err, user.ErrUserNotFound{}),
		errors.Is(err, inventory.ErrItemNotFound{}),
		errors.As(err, &categoryErr),
		errors.As(err, &weightErr):
		RespondNotFound(c, err.Error())
	case errors.As(err, &duplicateName), errors.As(err, &duplicateMail):
		RespondConflict(c, err.Error())
	default:
		logger.Error("Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		RespondInternalError(c)
	}
}

// bindJSON decodes the request body into dst. A value of the wrong JSON type
// becomes a ValidationError naming its field.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return shared.NewValidationError(typeErr.Field, "must be of type %s", typeErr.Type.String())
		}
		return shared.NewValidationError("body", "must be a valid JSON object")
	}
	return nil
}

// pathID reads the positive integer id path parameter
func pathID(c *gin.Context) (int64, error) {
	return normalize.ID("id", c.Param("id"))
}
