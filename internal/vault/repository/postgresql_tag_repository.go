package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/datavault/internal/database"
	apperrors "github.com/allisson/datavault/internal/errors"
	vaultDomain "github.com/allisson/datavault/internal/vault/domain"
)

// PostgreSQLTagRepository implements tag persistence for PostgreSQL.
type PostgreSQLTagRepository struct {
	db *sql.DB
}

// NewPostgreSQLTagRepository creates a new PostgreSQL tag repository.
func NewPostgreSQLTagRepository(db *sql.DB) *PostgreSQLTagRepository {
	return &PostgreSQLTagRepository{db: db}
}

// Create inserts a new tag.
func (p *PostgreSQLTagRepository) Create(ctx context.Context, tag *vaultDomain.Tag) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tags (id, user_id, name, color, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		tag.ID,
		tag.UserID,
		tag.Name,
		nullableString(tag.Color),
		tag.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return vaultDomain.ErrTagAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create tag")
	}
	return nil
}

// GetByID retrieves a tag owned by the given user.
func (p *PostgreSQLTagRepository) GetByID(
	ctx context.Context,
	userID uuid.UUID,
	tagID uuid.UUID,
) (*vaultDomain.Tag, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, name, color, created_at FROM tags
			  WHERE id = $1 AND user_id = $2`

	return scanTag(querier.QueryRowContext(ctx, query, tagID, userID))
}

// GetByName retrieves a tag by its user-scoped unique name.
func (p *PostgreSQLTagRepository) GetByName(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*vaultDomain.Tag, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, name, color, created_at FROM tags
			  WHERE user_id = $1 AND name = $2`

	return scanTag(querier.QueryRowContext(ctx, query, userID, name))
}

// ListByUser retrieves all tags for a user, sorted by name.
func (p *PostgreSQLTagRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*vaultDomain.Tag, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, name, color, created_at FROM tags
			  WHERE user_id = $1
			  ORDER BY name`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tags")
	}
	defer func() { _ = rows.Close() }()

	var tags []*vaultDomain.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tags")
	}
	return tags, nil
}

// Update rewrites a tag's name and color.
func (p *PostgreSQLTagRepository) Update(ctx context.Context, tag *vaultDomain.Tag) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tags SET name = $1, color = $2
			  WHERE id = $3 AND user_id = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		tag.Name,
		nullableString(tag.Color),
		tag.ID,
		tag.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return vaultDomain.ErrTagAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update tag")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return vaultDomain.ErrTagNotFound
	}
	return nil
}

// Delete removes a tag. Item associations go with it via ON DELETE CASCADE.
func (p *PostgreSQLTagRepository) Delete(
	ctx context.Context,
	userID uuid.UUID,
	tagID uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM tags WHERE id = $1 AND user_id = $2`

	result, err := querier.ExecContext(ctx, query, tagID, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete tag")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return vaultDomain.ErrTagNotFound
	}
	return nil
}

// GetOrCreateByNames resolves tag names to tags, creating missing ones.
func (p *PostgreSQLTagRepository) GetOrCreateByNames(
	ctx context.Context,
	userID uuid.UUID,
	names []string,
) ([]*vaultDomain.Tag, error) {
	var tags []*vaultDomain.Tag
	for _, name := range names {
		tag, err := p.GetByName(ctx, userID, name)
		if err == nil {
			tags = append(tags, tag)
			continue
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		tag = &vaultDomain.Tag{
			ID:        uuid.Must(uuid.NewV7()),
			UserID:    userID,
			Name:      name,
			CreatedAt: time.Now().UTC(),
		}
		if err := p.Create(ctx, tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func scanTag(row rowScanner) (*vaultDomain.Tag, error) {
	var (
		tag   vaultDomain.Tag
		color sql.NullString
	)

	err := row.Scan(&tag.ID, &tag.UserID, &tag.Name, &color, &tag.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vaultDomain.ErrTagNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan tag")
	}

	tag.Color = color.String
	return &tag, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
