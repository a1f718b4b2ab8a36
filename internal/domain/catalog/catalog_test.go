package catalog

import (
	"strings"
	"testing"

	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("  Coca-cola ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Coca-cola", c.Name)

	_, err = NewCategory(" ", nil)
	assert.ErrorIs(t, err, shared.ValidationError{Field: "name"})
}

func TestNewWeight(t *testing.T) {
	desc := "12 ounce can"
	w, err := NewWeight("355ml (12oz)", &desc)
	require.NoError(t, err)
	assert.Equal(t, "355ml (12oz)", w.Name)
	assert.Equal(t, &desc, w.Description)

	_, err = NewWeight(strings.Repeat("g", MaxNameLength+1), nil)
	assert.ErrorIs(t, err, shared.ValidationError{Field: "name"})
}

func TestErrors(t *testing.T) {
	assert.Equal(t, "category not found: 4", ErrCategoryNotFound{ID: 4}.Error())
	assert.Equal(t, "weight not found: 2", ErrWeightNotFound{ID: 2}.Error())
	assert.Equal(t, "category already exists: Beer", ErrDuplicateName{Kind: "category", Name: "Beer"}.Error())
}
