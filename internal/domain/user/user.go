package user

import (
	"net/mail"
	"strings"

	"github.com/inventory-ledger/internal/domain/shared"
)

// User owns ledger transactions
type User struct {
	ID       int64
	Email    string
	FullName *string
	IsActive bool
}

// New validates the email address and returns an active user
func New(email string, fullName *string) (*User, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, shared.NewValidationError("email", "must be a valid email address")
	}
	return &User{
		Email:    email,
		FullName: fullName,
		IsActive: true,
	}, nil
}
