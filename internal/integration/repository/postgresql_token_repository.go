package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/datavault/internal/database"
	apperrors "github.com/allisson/datavault/internal/errors"
	integrationDomain "github.com/allisson/datavault/internal/integration/domain"
)

// PostgreSQLTokenRepository implements integration token persistence for
// PostgreSQL. Token values arrive already encrypted.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Upsert stores a token, replacing any existing token of the same type for
// the integration. A provider rotating its tokens on every refresh lands
// here as one row per type.
func (p *PostgreSQLTokenRepository) Upsert(
	ctx context.Context,
	token *integrationDomain.IntegrationToken,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO integration_tokens (id, integration_id, token_type, token_encrypted, expires_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (integration_id, token_type)
			  DO UPDATE SET token_encrypted = EXCLUDED.token_encrypted,
							expires_at = EXCLUDED.expires_at,
							updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.IntegrationID,
		token.TokenType,
		token.EncryptedToken,
		token.ExpiresAt,
		now,
		now,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert integration token")
	}
	return nil
}

// GetByType retrieves the stored token of one type for an integration.
func (p *PostgreSQLTokenRepository) GetByType(
	ctx context.Context,
	integrationID uuid.UUID,
	tokenType integrationDomain.TokenType,
) (*integrationDomain.IntegrationToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, integration_id, token_type, token_encrypted, expires_at, created_at, updated_at
			  FROM integration_tokens WHERE integration_id = $1 AND token_type = $2`

	var (
		token     integrationDomain.IntegrationToken
		expiresAt sql.NullTime
	)
	err := querier.QueryRowContext(ctx, query, integrationID, tokenType).Scan(
		&token.ID,
		&token.IntegrationID,
		&token.TokenType,
		&token.EncryptedToken,
		&expiresAt,
		&token.CreatedAt,
		&token.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, integrationDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get integration token")
	}

	if expiresAt.Valid {
		token.ExpiresAt = &expiresAt.Time
	}
	return &token, nil
}

// DeleteByIntegration removes every token of an integration.
func (p *PostgreSQLTokenRepository) DeleteByIntegration(
	ctx context.Context,
	integrationID uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM integration_tokens WHERE integration_id = $1`

	if _, err := querier.ExecContext(ctx, query, integrationID); err != nil {
		return apperrors.Wrap(err, "failed to delete integration tokens")
	}
	return nil
}
