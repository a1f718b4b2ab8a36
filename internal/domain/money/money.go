// Package money provides the fixed-scale decimal types used for prices and
// quantities. Values are rounded half away from zero when they are created and
// stay at their scale for every later operation.
package money

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of fractional digits kept by Money.
	MoneyScale int32 = 2
	// QuantityScale is the number of fractional digits kept by Quantity.
	QuantityScale int32 = 3

	// maxExponent bounds the decimal exponent accepted from input. Rounding
	// rescales the coefficient by 10^exponent, so it is checked before rounding.
	maxExponent int32 = 32
	// maxDecimalLength bounds the length of a numeric string.
	maxDecimalLength = 64
)

// ErrInvalidDecimal is returned when an input cannot be read as a decimal number
type ErrInvalidDecimal struct {
	Input string
}

func (e ErrInvalidDecimal) Error() string {
	return "invalid decimal value: " + strconv.Quote(e.Input)
}

// ErrDecimalOutOfRange is returned for well-formed numbers whose exponent or
// length is beyond anything a ledger column can hold
type ErrDecimalOutOfRange struct {
	Input string
}

func (e ErrDecimalOutOfRange) Error() string {
	return "decimal value out of range: " + strconv.Quote(e.Input)
}

// Money is a monetary amount held at two decimal places.
type Money struct {
	value decimal.Decimal
}

// NewMoney rounds d half-up to two places.
func NewMoney(d decimal.Decimal) Money {
	return Money{value: d.Round(MoneyScale)}
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return NewMoney(decimal.Zero)
}

// MoneyFromInt returns a whole amount.
func MoneyFromInt(i int64) Money {
	return NewMoney(decimal.NewFromInt(i))
}

// ParseMoney parses a numeric string such as "12.345" or "1e3".
func ParseMoney(s string) (Money, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(d), nil
}

// MustParseMoney is ParseMoney for literals; it panics on bad input.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal exposes the underlying value.
func (m Money) Decimal() decimal.Decimal {
	return m.value.Round(MoneyScale)
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.value.StringFixed(MoneyScale)
}

func (m Money) IsZero() bool {
	return m.value.IsZero()
}

// Equal compares at the stored scale.
func (m Money) Equal(other Money) bool {
	return m.Cmp(other) == 0
}

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(other Money) int {
	return m.Decimal().Cmp(other.Decimal())
}

// Mul prices a quantity: the exact product rounded half-up to two places.
func (m Money) Mul(q Quantity) Money {
	return NewMoney(m.value.Mul(q.value))
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	d, err := decimalFromJSON(data)
	if err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}

// Scan reads a NUMERIC column.
func (m *Money) Scan(src interface{}) error {
	d, err := scanDecimal(src)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = NewMoney(d)
	return nil
}

// Value writes the amount as a fixed-scale string, which Postgres casts to NUMERIC.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

func decimalFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, ErrInvalidDecimal{Input: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	d := decimal.NewFromFloat(f)
	return d, checkRange(d, strconv.FormatFloat(f, 'g', -1, 64))
}

func parseDecimal(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Decimal{}, ErrInvalidDecimal{Input: s}
	}
	if len(trimmed) > maxDecimalLength {
		return decimal.Decimal{}, ErrDecimalOutOfRange{Input: trimmed[:maxDecimalLength] + "..."}
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidDecimal{Input: s}
	}
	return d, checkRange(d, trimmed)
}

// checkRange rejects exponents that would make rounding rescale into a huge
// coefficient.
func checkRange(d decimal.Decimal, input string) error {
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return ErrDecimalOutOfRange{Input: input}
	}
	return nil
}

// decimalFromJSON reads a number token or a quoted numeric string.
func decimalFromJSON(data []byte) (decimal.Decimal, error) {
	token := strings.TrimSpace(string(data))
	if strings.HasPrefix(token, `"`) {
		unquoted, err := strconv.Unquote(token)
		if err != nil {
			return decimal.Decimal{}, ErrInvalidDecimal{Input: token}
		}
		return parseDecimal(unquoted)
	}
	if token == "" || !isNumberToken(token) {
		return decimal.Decimal{}, ErrInvalidDecimal{Input: token}
	}
	return parseDecimal(token)
}

func isNumberToken(token string) bool {
	c := token[0]
	return c == '-' || (c >= '0' && c <= '9')
}

func scanDecimal(src interface{}) (decimal.Decimal, error) {
	switch v := src.(type) {
	case nil:
		return decimal.Decimal{}, fmt.Errorf("cannot scan NULL")
	case string:
		return parseDecimal(v)
	case []byte:
		return parseDecimal(string(v))
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case float64:
		return decimalFromFloat(v)
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("cannot scan %T", src)
	}
}
