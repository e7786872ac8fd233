package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

// Create inserts a new user.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("email", user.Email).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug().Str("user_id", user.ID.String()).Msg("user created")
	return nil
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`
	return r.get(ctx, query, email)
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`
	return r.get(ctx, query, id)
}
