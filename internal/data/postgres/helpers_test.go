package postgres

import (
	"fmt"
	"io"
	"log/slog"
)

func newQuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// decimalArg matches a Money or Quantity argument by its fixed-scale text
type decimalArg string

func (d decimalArg) Match(v interface{}) bool {
	return fmt.Sprint(v) == string(d)
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(i int64) *int64 {
	return &i
}
