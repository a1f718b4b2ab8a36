package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = localtime.ClockFunc(func() time.Time {
	return time.Date(2025, 11, 7, 16, 45, 0, 0, time.UTC)
})

func TestParseDateTime(t *testing.T) {
	testCases := []struct {
		input    string
		expected time.Time
		dateOnly bool
	}{
		{"2025-11-07T10:30:00", time.Date(2025, 11, 7, 10, 30, 0, 0, time.UTC), false},
		{"2025-11-07 10:30:00", time.Date(2025, 11, 7, 10, 30, 0, 0, time.UTC), false},
		{"2025-11-07T10:30", time.Date(2025, 11, 7, 10, 30, 0, 0, time.UTC), false},
		{"2025-11-07T10:30:00.123456", time.Date(2025, 11, 7, 10, 30, 0, 123456000, time.UTC), false},
		{"2025-11-07T10:30:00.1234567", time.Date(2025, 11, 7, 10, 30, 0, 123456000, time.UTC), false},
		// zone suffixes are stripped, not converted
		{"2025-11-07T10:30:00Z", time.Date(2025, 11, 7, 10, 30, 0, 0, time.UTC), false},
		{"2025-11-07T10:30:00+00:00", time.Date(2025, 11, 7, 10, 30, 0, 0, time.UTC), false},
		{"2025-11-07T10:30:00-05:00", time.Date(2025, 11, 7, 10, 30, 0, 0, time.UTC), false},
		{"2025-11-07T10:30:00+0800", time.Date(2025, 11, 7, 10, 30, 0, 0, time.UTC), false},
		{"2025-11-07T10:30:00.5+08", time.Date(2025, 11, 7, 10, 30, 0, 500000000, time.UTC), false},
		{"2025-10-24", time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, dateOnly, err := ParseDateTime(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.dateOnly, dateOnly)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDateTime_Invalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2025-13-01", "2025-11-07X10:30", "2025-11-07T25:00:00", "11/07/2025"} {
		_, _, err := ParseDateTime(input)
		assert.Error(t, err, input)
	}
}

func TestMoneyAndQuantity(t *testing.T) {
	m, err := Money("purchase_price", json.RawMessage(`12.345`))
	require.NoError(t, err)
	assert.Equal(t, "12.35", m.String())

	m, err = Money("purchase_price", json.RawMessage(`"45.6789"`))
	require.NoError(t, err)
	assert.Equal(t, "45.68", m.String())

	m, err = Money("purchase_price", json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = Money("purchase_price", nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = Money("purchase_price", json.RawMessage(`"abc"`))
	assert.ErrorIs(t, err, shared.ValidationError{Field: "purchase_price"})

	_, err = Money("amount_per_unit", json.RawMessage(`1000000000`))
	assert.ErrorIs(t, err, shared.ValidationError{Field: "amount_per_unit"})

	q, err := Quantity("quantity", json.RawMessage(`2.5`))
	require.NoError(t, err)
	assert.Equal(t, "2.500", q.String())

	_, err = Quantity("quantity", json.RawMessage(`[1]`))
	assert.ErrorIs(t, err, shared.ValidationError{Field: "quantity"})
}

func TestMoneyAndQuantity_HugeExponent(t *testing.T) {
	start := time.Now()

	_, err := Money("amount_per_unit", json.RawMessage(`"1e99999999"`))
	assert.ErrorIs(t, err, shared.ValidationError{Field: "amount_per_unit"})
	assert.ErrorContains(t, err, "must not exceed 99999999.99")

	_, err = Money("purchase_price", json.RawMessage(`1e99999999`))
	assert.ErrorIs(t, err, shared.ValidationError{Field: "purchase_price"})

	_, err = Quantity("quantity", json.RawMessage(`"1e-99999999"`))
	assert.ErrorIs(t, err, shared.ValidationError{Field: "quantity"})

	_, err = Search(SearchParams{MaxTotal: "1e99999999"})
	assert.ErrorIs(t, err, shared.ValidationError{Field: "max_total"})

	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestCreate(t *testing.T) {
	t.Run("CoffeeWithoutDate", func(t *testing.T) {
		var in CreateInput
		require.NoError(t, json.Unmarshal([]byte(`{
			"title": "Coffee",
			"owner_id": 1,
			"transaction_type": "expense",
			"amount_per_unit": "5.00",
			"quantity": "1.000"
		}`), &in))

		tx, err := Create(in, testClock)
		require.NoError(t, err)

		assert.Equal(t, "5.00", tx.ComputeTotal().String())
		assert.Equal(t, time.Date(2025, 11, 8, 0, 45, 0, 0, time.UTC), tx.Date)
	})

	t.Run("FloatInputs", func(t *testing.T) {
		var in CreateInput
		require.NoError(t, json.Unmarshal([]byte(`{
			"title": "LPG",
			"owner_id": 2,
			"amount_per_unit": "100.00",
			"quantity": 2.5,
			"purchase_price": 12.345,
			"date": "2025-11-15T10:30:00Z",
			"inventory_id": 4
		}`), &in))

		tx, err := Create(in, testClock)
		require.NoError(t, err)

		assert.Equal(t, "250.00", tx.ComputeTotal().String())
		assert.Equal(t, "12.35", tx.PurchasePrice.String())
		assert.Equal(t, time.Date(2025, 11, 15, 10, 30, 0, 0, time.UTC), tx.Date)
		require.NotNil(t, tx.InventoryID)
		assert.Equal(t, int64(4), *tx.InventoryID)
		assert.Equal(t, transaction.TypeExpense, tx.Type)
	})

	t.Run("NamesOffendingField", func(t *testing.T) {
		testCases := []struct {
			body  string
			field string
		}{
			{`{"title": "x", "owner_id": 1, "quantity": "lots"}`, "quantity"},
			{`{"title": "x", "owner_id": 1, "date": "soon"}`, "date"},
			{`{"title": "x", "owner_id": 1, "date": 12}`, "date"},
			{`{"title": "x", "owner_id": 1, "transaction_type": "gift"}`, "transaction_type"},
			{`{"title": "", "owner_id": 1}`, "title"},
			{`{"title": "x"}`, "owner_id"},
		}
		for _, tc := range testCases {
			var in CreateInput
			require.NoError(t, json.Unmarshal([]byte(tc.body), &in))
			_, err := Create(in, testClock)
			assert.ErrorIs(t, err, shared.ValidationError{Field: tc.field}, tc.body)
		}
	})
}

func TestPatch(t *testing.T) {
	t.Run("TitleOnly", func(t *testing.T) {
		var in PatchInput
		require.NoError(t, json.Unmarshal([]byte(`{"title": "x"}`), &in))

		p, err := Patch(in)
		require.NoError(t, err)
		assert.Equal(t, []transaction.Field{transaction.FieldTitle}, p.Fields())
		assert.Nil(t, p.Date)
	})

	t.Run("NullClearsNullables", func(t *testing.T) {
		var in PatchInput
		require.NoError(t, json.Unmarshal([]byte(`{"description": null, "inventory_id": null}`), &in))

		p, err := Patch(in)
		require.NoError(t, err)
		assert.True(t, p.ClearDescription)
		assert.True(t, p.ClearInventory)
	})

	t.Run("NullOnRequiredField", func(t *testing.T) {
		for _, body := range []string{`{"title": null}`, `{"owner_id": null}`, `{"transaction_type": null}`} {
			var in PatchInput
			require.NoError(t, json.Unmarshal([]byte(body), &in))
			_, err := Patch(in)
			assert.ErrorIs(t, err, shared.ValidationError{}, body)
		}
	})

	t.Run("AllFields", func(t *testing.T) {
		var in PatchInput
		require.NoError(t, json.Unmarshal([]byte(`{
			"title": "Salary",
			"description": "november",
			"owner_id": 3,
			"transaction_type": "earning",
			"amount_per_unit": 1000,
			"quantity": "1",
			"purchase_price": "0",
			"inventory_id": 8,
			"date": "2025-11-30 18:00:00+08:00"
		}`), &in))

		p, err := Patch(in)
		require.NoError(t, err)
		assert.Len(t, p.Fields(), 9)
		assert.Equal(t, "1000.00", p.AmountPerUnit.String())
		assert.Equal(t, time.Date(2025, 11, 30, 18, 0, 0, 0, time.UTC), *p.Date)
		assert.Equal(t, transaction.TypeEarning, *p.Type)
	})

	t.Run("BadInventory", func(t *testing.T) {
		var in PatchInput
		require.NoError(t, json.Unmarshal([]byte(`{"inventory_id": "seven"}`), &in))
		_, err := Patch(in)
		assert.ErrorIs(t, err, shared.ValidationError{Field: "inventory_id"})
	})
}

func TestSearch(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		f, err := Search(SearchParams{})
		require.NoError(t, err)
		assert.True(t, f.IsEmpty())
	})

	t.Run("AllFilters", func(t *testing.T) {
		f, err := Search(SearchParams{
			OwnerID:         "1",
			TransactionType: "earning",
			DateFrom:        "2025-10-01",
			DateTo:          "2025-10-31",
			InventoryID:     "12",
			Q:               "  Coffee ",
			MinTotal:        "10",
			MaxTotal:        "99.999",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1), *f.OwnerID)
		assert.Equal(t, transaction.TypeEarning, *f.Type)
		assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), *f.DateFrom)
		assert.Equal(t, time.Date(2025, 10, 31, 23, 59, 59, 999999000, time.UTC), *f.DateTo)
		assert.Equal(t, int64(12), *f.InventoryID)
		assert.Equal(t, "Coffee", f.Query)
		assert.Equal(t, "10.00", f.MinTotal.String())
		assert.Equal(t, "100.00", f.MaxTotal.String())
	})

	t.Run("DateTimeUpperBoundKept", func(t *testing.T) {
		f, err := Search(SearchParams{DateTo: "2025-10-31T12:00:00"})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC), *f.DateTo)
	})

	t.Run("Rejections", func(t *testing.T) {
		testCases := []struct {
			params SearchParams
			field  string
		}{
			{SearchParams{OwnerID: "abc"}, "owner_id"},
			{SearchParams{OwnerID: "0"}, "owner_id"},
			{SearchParams{InventoryID: "-4"}, "inventory_id"},
			{SearchParams{TransactionType: "gift"}, "transaction_type"},
			{SearchParams{DateFrom: "not-a-date"}, "date_from"},
			{SearchParams{DateTo: "31/10/2025"}, "date_to"},
			{SearchParams{DateFrom: "2025-11-02", DateTo: "2025-11-01"}, "date_from"},
			{SearchParams{MinTotal: "x"}, "min_total"},
			{SearchParams{MinTotal: "-1e99999999"}, "min_total"},
			{SearchParams{MinTotal: "50", MaxTotal: "10"}, "min_total"},
		}
		for _, tc := range testCases {
			_, err := Search(tc.params)
			assert.ErrorIs(t, err, shared.ValidationError{Field: tc.field}, tc.field)
		}
	})
}

func TestPage(t *testing.T) {
	offset, limit, err := Page("", "", 100, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 100, limit)

	offset, limit, err = Page("20", "5", 100, 1000)
	require.NoError(t, err)
	assert.Equal(t, 20, offset)
	assert.Equal(t, 5, limit)

	_, _, err = Page("-1", "", 100, 1000)
	assert.ErrorIs(t, err, shared.ValidationError{Field: "offset"})
	_, _, err = Page("", "0", 100, 1000)
	assert.ErrorIs(t, err, shared.ValidationError{Field: "limit"})
	_, _, err = Page("", "1001", 100, 1000)
	assert.ErrorIs(t, err, shared.ValidationError{Field: "limit"})
}

func TestID(t *testing.T) {
	id, err := ID("id", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ID("id", "4x")
	assert.ErrorIs(t, err, shared.ValidationError{Field: "id"})
}
