package money

import (
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Quantity is a count of units held at three decimal places.
type Quantity struct {
	value decimal.Decimal
}

// NewQuantity rounds d half-up to three places.
func NewQuantity(d decimal.Decimal) Quantity {
	return Quantity{value: d.Round(QuantityScale)}
}

// QuantityFromInt returns a whole quantity; 10 becomes 10.000.
func QuantityFromInt(i int64) Quantity {
	return NewQuantity(decimal.NewFromInt(i))
}

// OneQuantity is the default transaction quantity, 1.000.
func OneQuantity() Quantity {
	return QuantityFromInt(1)
}

// ZeroQuantity is the default inventory stock level, 0.000.
func ZeroQuantity() Quantity {
	return QuantityFromInt(0)
}

func ParseQuantity(s string) (Quantity, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return Quantity{}, err
	}
	return NewQuantity(d), nil
}

// MustParseQuantity is ParseQuantity for literals; it panics on bad input.
func MustParseQuantity(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Decimal() decimal.Decimal {
	return q.value.Round(QuantityScale)
}

// String renders the quantity with exactly three fractional digits.
func (q Quantity) String() string {
	return q.value.StringFixed(QuantityScale)
}

func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

func (q Quantity) Equal(other Quantity) bool {
	return q.Cmp(other) == 0
}

func (q Quantity) Cmp(other Quantity) int {
	return q.Decimal().Cmp(other.Decimal())
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(q.String())), nil
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	d, err := decimalFromJSON(data)
	if err != nil {
		return err
	}
	*q = NewQuantity(d)
	return nil
}

func (q *Quantity) Scan(src interface{}) error {
	d, err := scanDecimal(src)
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	*q = NewQuantity(d)
	return nil
}

func (q Quantity) Value() (driver.Value, error) {
	return q.String(), nil
}
