// Package catalog holds the reference data inventory items are classified
// by: product categories and weight or volume units.
package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/inventory-ledger/internal/domain/shared"
)

const MaxNameLength = 255

// Category groups inventory items, e.g. "LPG" or "Beer"
type Category struct {
	ID          int64
	Name        string
	Description *string
}

// Weight is a unit of weight or volume, e.g. "11kg" or "355ml (12oz)"
type Weight struct {
	ID          int64
	Name        string
	Description *string
}

// NewCategory validates the name and returns an unsaved category
func NewCategory(name string, description *string) (*Category, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}
	return &Category{Name: name, Description: description}, nil
}

// NewWeight validates the name and returns an unsaved unit
func NewWeight(name string, description *string) (*Weight, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}
	return &Weight{Name: name, Description: description}, nil
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewValidationError("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", shared.NewValidationError("name", "must be at most %d characters", MaxNameLength)
	}
	return name, nil
}
