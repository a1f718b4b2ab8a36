package money

// MaxMoney is the largest magnitude a NUMERIC(10,2) column can hold.
var MaxMoney = MustParseMoney("99999999.99")

// MaxQuantity is the largest magnitude a NUMERIC(10,3) column can hold.
var MaxQuantity = MustParseQuantity("9999999.999")

// MoneyFromJSON reads a raw JSON number or numeric string as Money.
func MoneyFromJSON(data []byte) (Money, error) {
	d, err := decimalFromJSON(data)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(d), nil
}

// QuantityFromJSON reads a raw JSON number or numeric string as a Quantity.
// Integer tokens from older snapshots become whole quantities at scale 3.
func QuantityFromJSON(data []byte) (Quantity, error) {
	d, err := decimalFromJSON(data)
	if err != nil {
		return Quantity{}, err
	}
	return NewQuantity(d), nil
}

// Fits reports whether m fits its column without overflow.
func (m Money) Fits() bool {
	return m.Decimal().Abs().Cmp(MaxMoney.Decimal()) <= 0
}

// Fits reports whether q fits its column without overflow.
func (q Quantity) Fits() bool {
	return q.Decimal().Abs().Cmp(MaxQuantity.Decimal()) <= 0
}
