package normalize

import (
	"strconv"
	"strings"

	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/money"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/domain/transaction"
)

// SearchParams are the raw query-string values of a search request.
// Empty strings mean the filter was not supplied.
type SearchParams struct {
	OwnerID         string
	TransactionType string
	DateFrom        string
	DateTo          string
	InventoryID     string
	Q               string
	MinTotal        string
	MaxTotal        string
}

// Search builds a transaction filter. A date-only date_to covers the whole day.
func Search(p SearchParams) (transaction.SearchFilter, error) {
	var f transaction.SearchFilter

	if p.OwnerID != "" {
		id, err := ID("owner_id", p.OwnerID)
		if err != nil {
			return f, err
		}
		f.OwnerID = &id
	}
	if p.InventoryID != "" {
		id, err := ID("inventory_id", p.InventoryID)
		if err != nil {
			return f, err
		}
		f.InventoryID = &id
	}
	if p.TransactionType != "" {
		t, err := transaction.ParseType(p.TransactionType)
		if err != nil {
			return f, err
		}
		f.Type = &t
	}
	if p.DateFrom != "" {
		from, _, err := ParseDateTime(p.DateFrom)
		if err != nil {
			return f, shared.NewValidationError("date_from", "must be an ISO-8601 date or datetime")
		}
		f.DateFrom = &from
	}
	if p.DateTo != "" {
		to, dateOnly, err := ParseDateTime(p.DateTo)
		if err != nil {
			return f, shared.NewValidationError("date_to", "must be an ISO-8601 date or datetime")
		}
		if dateOnly {
			to = localtime.EndOfDay(to)
		}
		f.DateTo = &to
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return f, shared.NewValidationError("date_from", "must not be after date_to")
	}

	f.Query = strings.TrimSpace(p.Q)

	if p.MinTotal != "" {
		m, err := money.ParseMoney(p.MinTotal)
		if err != nil {
			return f, decimalError("min_total", err, money.MaxMoney.String())
		}
		f.MinTotal = &m
	}
	if p.MaxTotal != "" {
		m, err := money.ParseMoney(p.MaxTotal)
		if err != nil {
			return f, decimalError("max_total", err, money.MaxMoney.String())
		}
		f.MaxTotal = &m
	}
	if f.MinTotal != nil && f.MaxTotal != nil && f.MinTotal.Cmp(*f.MaxTotal) > 0 {
		return f, shared.NewValidationError("min_total", "must not exceed max_total")
	}

	return f, nil
}

// Page reads offset and limit. An empty limit takes defaultLimit.
func Page(offset, limit string, defaultLimit, maxLimit int) (int, int, error) {
	o := 0
	if offset != "" {
		v, err := strconv.Atoi(strings.TrimSpace(offset))
		if err != nil || v < 0 {
			return 0, 0, shared.NewValidationError("offset", "must be a non-negative integer")
		}
		o = v
	}

	l := defaultLimit
	if limit != "" {
		v, err := strconv.Atoi(strings.TrimSpace(limit))
		if err != nil || v < 1 || v > maxLimit {
			return 0, 0, shared.NewValidationError("limit", "must be between 1 and %d", maxLimit)
		}
		l = v
	}

	return o, l, nil
}
