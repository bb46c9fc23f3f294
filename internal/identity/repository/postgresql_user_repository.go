// Package repository provides data persistence implementations for identity entities.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/datavault/internal/database"
	apperrors "github.com/allisson/datavault/internal/errors"
	"github.com/allisson/datavault/internal/identity/domain"
)

// PostgreSQLUserRepository handles user persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// Create inserts a new user. The encryption salt is written exactly once
// here and is never part of any UPDATE statement in this repository.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	preferences, err := json.Marshal(user.Preferences)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal preferences")
	}

	query := `INSERT INTO users (id, google_id, email, name, picture_url, encryption_salt, preferences, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err = querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.GoogleID,
		user.Email,
		user.Name,
		user.PictureURL,
		user.EncryptionSalt,
		preferences,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, google_id, email, name, picture_url, encryption_salt, preferences, created_at, updated_at
			  FROM users WHERE id = $1`

	return r.scanUser(querier.QueryRowContext(ctx, query, id))
}

// GetByGoogleID retrieves a user by their OAuth subject identifier.
func (r *PostgreSQLUserRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, google_id, email, name, picture_url, encryption_salt, preferences, created_at, updated_at
			  FROM users WHERE google_id = $1`

	return r.scanUser(querier.QueryRowContext(ctx, query, googleID))
}

// UpdateProfile updates the mutable profile fields of a user. The encryption
// salt and google_id are immutable and deliberately excluded.
func (r *PostgreSQLUserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	preferences, err := json.Marshal(user.Preferences)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal preferences")
	}

	query := `UPDATE users SET email = $1, name = $2, picture_url = $3, preferences = $4, updated_at = NOW()
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.Email,
		user.Name,
		user.PictureURL,
		preferences,
		user.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// scanUser scans a single user row.
func (r *PostgreSQLUserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var preferences []byte

	err := row.Scan(
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&user.Name,
		&user.PictureURL,
		&user.EncryptionSalt,
		&preferences,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if len(preferences) > 0 {
		if err := json.Unmarshal(preferences, &user.Preferences); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal preferences")
		}
	}

	return &user, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
