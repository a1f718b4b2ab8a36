package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inventory-ledger/internal/domain/user"
	"github.com/inventory-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
	timeout time.Duration
}

func NewUserRepository(logger *slog.Logger, db *persistence.PostgresDB) user.Repository {
	return &UserRepository{
		querier: db.Pool(),
		logger:  logger,
		timeout: db.OperationTimeout(),
	}
}

func (r *UserRepository) WithTx(tx pgx.Tx) user.Repository {
	return &UserRepository{
		querier: tx,
		logger:  r.logger,
		timeout: r.timeout,
	}
}

// Create stores a new user. A taken email yields ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO users (email, full_name, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, email, full_name, is_active
	`

	created, err := scanUser(r.querier.QueryRow(ctx, query, u.Email, u.FullName, u.IsActive))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, user.ErrDuplicateEmail{Email: u.Email}
		}
		r.logger.Error("Failed to create user", "error", err)
		return nil, storageError("create user", fmt.Errorf("failed to create user: %w", err))
	}
	return created, nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, email, full_name, is_active
		FROM users
		WHERE id = $1
	`

	u, err := scanUser(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound{ID: id}
		}
		r.logger.Error("Failed to get user", "id", id, "error", err)
		return nil, storageError("get user", fmt.Errorf("failed to get user: %w", err))
	}
	return u, nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, email, full_name, is_active
		FROM users
		WHERE email = $1
	`

	u, err := scanUser(r.querier.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get user by email", "email", email, "error", err)
		return nil, storageError("get user by email", fmt.Errorf("failed to get user by email: %w", err))
	}
	return u, nil
}

// List returns a page of users in identity order
func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]*user.User, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, email, full_name, is_active
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list users", "error", err)
		return nil, storageError("list users", fmt.Errorf("failed to list users: %w", err))
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storageError("list users", fmt.Errorf("failed to scan user: %w", err))
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list users", fmt.Errorf("error iterating users: %w", err))
	}
	return users, nil
}

// Count returns the number of users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	if err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		r.logger.Error("Failed to count users", "error", err)
		return 0, storageError("count users", fmt.Errorf("failed to count users: %w", err))
	}
	return count, nil
}

// Delete removes a user; their transactions go with them
func (r *UserRepository) Delete(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		DELETE FROM users
		WHERE id = $1
		RETURNING id, email, full_name, is_active
	`

	u, err := scanUser(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound{ID: id}
		}
		r.logger.Error("Failed to delete user", "id", id, "error", err)
		return nil, storageError("delete user", fmt.Errorf("failed to delete user: %w", err))
	}
	return u, nil
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.IsActive); err != nil {
		return nil, err
	}
	return &u, nil
}
