package service

import (
	"context"
	"log/slog"

	"github.com/inventory-ledger/internal/domain/user"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userRepo user.Repository
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(logger *slog.Logger, userRepo user.Repository) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateUser creates an active user, checking for a taken email address first
func (s *UserServiceImpl) CreateUser(ctx context.Context, email string, fullName *string) (*user.User, error) {
	u, err := user.New(email, fullName)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, user.ErrDuplicateEmail{Email: u.Email}
	}

	return s.userRepo.Create(ctx, u)
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (*user.User, error) {
	return s.userRepo.Get(ctx, id)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, offset, limit int) ([]*user.User, error) {
	return s.userRepo.List(ctx, offset, limit)
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User deleted with their transactions", "id", id)
	return u, nil
}
