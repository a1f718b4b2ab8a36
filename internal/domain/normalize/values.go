// Package normalize coerces raw boundary input into canonical ledger values:
// fixed-scale money and quantities, naive wall-clock datetimes, transaction
// types and ids. Every failure is a shared.ValidationError naming the field.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/money"
	"github.com/inventory-ledger/internal/domain/shared"
)

var zoneSuffix = regexp.MustCompile(`(?:[Zz]|[+-]\d{2}(?::?\d{2})?)$`)

// isAbsent reports whether a raw JSON value was omitted or explicitly null.
func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Money reads an optional monetary value. Absent and null yield nil.
func Money(field string, raw json.RawMessage) (*money.Money, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	m, err := money.MoneyFromJSON(raw)
	if err != nil {
		return nil, decimalError(field, err, money.MaxMoney.String())
	}
	if !m.Fits() {
		return nil, shared.NewValidationError(field, "must not exceed %s in magnitude", money.MaxMoney)
	}
	return &m, nil
}

// Quantity reads an optional quantity. Absent and null yield nil.
func Quantity(field string, raw json.RawMessage) (*money.Quantity, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	q, err := money.QuantityFromJSON(raw)
	if err != nil {
		return nil, decimalError(field, err, money.MaxQuantity.String())
	}
	if !q.Fits() {
		return nil, shared.NewValidationError(field, "must not exceed %s in magnitude", money.MaxQuantity)
	}
	return &q, nil
}

// decimalError names field in a ValidationError for a decimal that could
// not be read.
func decimalError(field string, err error, max string) error {
	var outOfRange money.ErrDecimalOutOfRange
	if errors.As(err, &outOfRange) {
		return shared.NewValidationError(field, "must not exceed %s in magnitude", max)
	}
	return shared.NewValidationError(field, "must be a decimal number")
}

// DateTime reads an optional ISO-8601 string. Absent and null yield nil.
func DateTime(field string, raw json.RawMessage) (*time.Time, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, shared.NewValidationError(field, "must be an ISO-8601 string")
	}
	t, _, err := ParseDateTime(s)
	if err != nil {
		return nil, shared.NewValidationError(field, "must be an ISO-8601 datetime")
	}
	return &t, nil
}

// ParseDateTime reads "YYYY-MM-DD", "YYYY-MM-DDTHH:MM[:SS[.ffffff]]" (a space
// may replace the T) with an optional Z or ±hh[:mm] suffix. A zone suffix is
// dropped and the clock-face digits are kept as naive wall-clock time. The
// second return value reports a date-only input.
func ParseDateTime(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(localtime.DateLayout) {
		t, err := time.Parse(localtime.DateLayout, s)
		if err != nil {
			return time.Time{}, false, err
		}
		return t, true, nil
	}

	if len(s) < len("2006-01-02T15:04") {
		return time.Time{}, false, &time.ParseError{Layout: localtime.Layout, Value: s}
	}
	switch s[10] {
	case 'T', 't', ' ':
	default:
		return time.Time{}, false, &time.ParseError{Layout: localtime.Layout, Value: s}
	}

	clock := zoneSuffix.ReplaceAllString(s[11:], "")
	value := s[:10] + "T" + clock

	var lastErr error
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return localtime.Naive(t), false, nil
		}
		lastErr = err
	}
	return time.Time{}, false, lastErr
}

// ID reads a positive integer identifier from text.
func ID(field, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.NewValidationError(field, "must be a positive integer")
	}
	return id, nil
}
