// Package repository implements PostgreSQL persistence for integrations and
// their encrypted OAuth tokens.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/datavault/internal/database"
	apperrors "github.com/allisson/datavault/internal/errors"
	integrationDomain "github.com/allisson/datavault/internal/integration/domain"
)

const integrationColumns = `id, user_id, provider, status, provider_metadata, last_sync_at, last_sync_error, created_at, updated_at`

// PostgreSQLIntegrationRepository implements integration persistence for
// PostgreSQL.
type PostgreSQLIntegrationRepository struct {
	db *sql.DB
}

// NewPostgreSQLIntegrationRepository creates a new PostgreSQL integration
// repository.
func NewPostgreSQLIntegrationRepository(db *sql.DB) *PostgreSQLIntegrationRepository {
	return &PostgreSQLIntegrationRepository{db: db}
}

// Create inserts a new integration. The (user_id, provider) pair is unique.
func (p *PostgreSQLIntegrationRepository) Create(
	ctx context.Context,
	integration *integrationDomain.Integration,
) error {
	querier := database.GetTx(ctx, p.db)

	metadata, err := marshalMetadata(integration.ProviderMetadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO integrations (id, user_id, provider, status, provider_metadata, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(
		ctx,
		query,
		integration.ID,
		integration.UserID,
		integration.Provider,
		integration.Status,
		metadata,
		integration.CreatedAt,
		integration.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return integrationDomain.ErrIntegrationAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create integration")
	}
	return nil
}

// GetByID retrieves an integration owned by the given user.
func (p *PostgreSQLIntegrationRepository) GetByID(
	ctx context.Context,
	userID uuid.UUID,
	integrationID uuid.UUID,
) (*integrationDomain.Integration, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + integrationColumns + ` FROM integrations
			  WHERE id = $1 AND user_id = $2`

	return scanIntegration(querier.QueryRowContext(ctx, query, integrationID, userID))
}

// GetByProvider retrieves the user's integration for a provider.
func (p *PostgreSQLIntegrationRepository) GetByProvider(
	ctx context.Context,
	userID uuid.UUID,
	provider integrationDomain.Provider,
) (*integrationDomain.Integration, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + integrationColumns + ` FROM integrations
			  WHERE user_id = $1 AND provider = $2`

	return scanIntegration(querier.QueryRowContext(ctx, query, userID, provider))
}

// ListByUser retrieves all integrations of a user, sorted by provider.
func (p *PostgreSQLIntegrationRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*integrationDomain.Integration, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + integrationColumns + ` FROM integrations
			  WHERE user_id = $1 ORDER BY provider`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list integrations")
	}
	defer rows.Close()

	var integrations []*integrationDomain.Integration
	for rows.Next() {
		integration, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}
		integrations = append(integrations, integration)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate integrations")
	}
	return integrations, nil
}

// UpdateStatus sets the connection state and sync tracking fields.
func (p *PostgreSQLIntegrationRepository) UpdateStatus(
	ctx context.Context,
	integration *integrationDomain.Integration,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE integrations
			  SET status = $1, last_sync_at = $2, last_sync_error = $3, updated_at = $4
			  WHERE id = $5 AND user_id = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		integration.Status,
		integration.LastSyncAt,
		nullableString(integration.LastSyncError),
		time.Now().UTC(),
		integration.ID,
		integration.UserID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update integration")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return integrationDomain.ErrIntegrationNotFound
	}
	return nil
}

// Delete removes an integration. Tokens go with it via the foreign key
// cascade.
func (p *PostgreSQLIntegrationRepository) Delete(
	ctx context.Context,
	userID uuid.UUID,
	integrationID uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM integrations WHERE id = $1 AND user_id = $2`

	result, err := querier.ExecContext(ctx, query, integrationID, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete integration")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return integrationDomain.ErrIntegrationNotFound
	}
	return nil
}

// rowScanner lets scanIntegration work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanIntegration(row rowScanner) (*integrationDomain.Integration, error) {
	var (
		integration   integrationDomain.Integration
		metadata      []byte
		lastSyncAt    sql.NullTime
		lastSyncError sql.NullString
	)
	err := row.Scan(
		&integration.ID,
		&integration.UserID,
		&integration.Provider,
		&integration.Status,
		&metadata,
		&lastSyncAt,
		&lastSyncError,
		&integration.CreatedAt,
		&integration.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, integrationDomain.ErrIntegrationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan integration")
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &integration.ProviderMetadata); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode provider metadata")
		}
	}
	if lastSyncAt.Valid {
		integration.LastSyncAt = &lastSyncAt.Time
	}
	integration.LastSyncError = lastSyncError.String

	return &integration, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode provider metadata")
	}
	return encoded, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
