// Package repository implements PostgreSQL persistence for vault items and
// tags. Every query is scoped by the owning user and excludes soft-deleted
// rows.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/datavault/internal/database"
	apperrors "github.com/allisson/datavault/internal/errors"
	vaultDomain "github.com/allisson/datavault/internal/vault/domain"
)

const itemColumns = `id, user_id, type, source, source_id, title, content_encrypted,
			  metadata_encrypted, file_path, created_at, updated_at, deleted_at`

// PostgreSQLItemRepository implements vault item persistence for PostgreSQL.
type PostgreSQLItemRepository struct {
	db *sql.DB
}

// NewPostgreSQLItemRepository creates a new PostgreSQL vault item repository.
func NewPostgreSQLItemRepository(db *sql.DB) *PostgreSQLItemRepository {
	return &PostgreSQLItemRepository{db: db}
}

// Create inserts a new vault item.
func (p *PostgreSQLItemRepository) Create(ctx context.Context, item *vaultDomain.VaultItem) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vault_items (id, user_id, type, source, source_id, title, content_encrypted,
			  metadata_encrypted, file_path, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		item.ID,
		item.UserID,
		item.Type,
		item.Source,
		nullableString(item.SourceID),
		nullableString(item.Title),
		item.EncryptedContent,
		nullableString(item.EncryptedMetadata),
		nullableString(item.FilePath),
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create vault item")
	}
	return nil
}

// GetByID retrieves a non-deleted vault item owned by the given user.
func (p *PostgreSQLItemRepository) GetByID(
	ctx context.Context,
	userID uuid.UUID,
	itemID uuid.UUID,
) (*vaultDomain.VaultItem, error) {
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(`SELECT %s FROM vault_items
			  WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, itemColumns)

	item, err := scanItem(querier.QueryRowContext(ctx, query, itemID, userID))
	if err != nil {
		return nil, err
	}

	tags, err := p.itemTagNames(ctx, querier, item.ID)
	if err != nil {
		return nil, err
	}
	item.Tags = tags

	return item, nil
}

// List retrieves the user's vault items matching the filter, newest first.
// It returns the page of items plus the total match count for pagination.
func (p *PostgreSQLItemRepository) List(
	ctx context.Context,
	userID uuid.UUID,
	filter vaultDomain.ItemFilter,
	offset, limit int,
) ([]*vaultDomain.VaultItem, int, error) {
	querier := database.GetTx(ctx, p.db)

	where, args := buildItemFilter(userID, filter)

	countQuery := "SELECT COUNT(*) FROM vault_items WHERE " + where
	var total int
	if err := querier.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count vault items")
	}

	query := fmt.Sprintf(`SELECT %s FROM vault_items WHERE %s
			  ORDER BY created_at DESC
			  OFFSET $%d LIMIT $%d`, itemColumns, where, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to list vault items")
	}
	defer func() { _ = rows.Close() }()

	var items []*vaultDomain.VaultItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to iterate vault items")
	}

	for _, item := range items {
		tags, err := p.itemTagNames(ctx, querier, item.ID)
		if err != nil {
			return nil, 0, err
		}
		item.Tags = tags
	}

	return items, total, nil
}

// Update rewrites the mutable fields of a vault item.
func (p *PostgreSQLItemRepository) Update(ctx context.Context, item *vaultDomain.VaultItem) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vault_items
			  SET type = $1, title = $2, content_encrypted = $3, metadata_encrypted = $4, updated_at = $5
			  WHERE id = $6 AND user_id = $7 AND deleted_at IS NULL`

	result, err := querier.ExecContext(
		ctx,
		query,
		item.Type,
		nullableString(item.Title),
		item.EncryptedContent,
		nullableString(item.EncryptedMetadata),
		time.Now().UTC(),
		item.ID,
		item.UserID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update vault item")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return vaultDomain.ErrItemNotFound
	}
	return nil
}

// SoftDelete marks a vault item as deleted and returns the deletion time.
func (p *PostgreSQLItemRepository) SoftDelete(
	ctx context.Context,
	userID uuid.UUID,
	itemID uuid.UUID,
) (time.Time, error) {
	querier := database.GetTx(ctx, p.db)

	deletedAt := time.Now().UTC()
	query := `UPDATE vault_items SET deleted_at = $1
			  WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`

	result, err := querier.ExecContext(ctx, query, deletedAt, itemID, userID)
	if err != nil {
		return time.Time{}, apperrors.Wrap(err, "failed to delete vault item")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return time.Time{}, apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return time.Time{}, vaultDomain.ErrItemNotFound
	}
	return deletedAt, nil
}

// ReplaceTags rewrites the tag associations of a vault item.
func (p *PostgreSQLItemRepository) ReplaceTags(
	ctx context.Context,
	itemID uuid.UUID,
	tagIDs []uuid.UUID,
) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(
		ctx,
		`DELETE FROM vault_item_tags WHERE vault_item_id = $1`,
		itemID,
	); err != nil {
		return apperrors.Wrap(err, "failed to clear vault item tags")
	}

	for _, tagID := range tagIDs {
		if _, err := querier.ExecContext(
			ctx,
			`INSERT INTO vault_item_tags (vault_item_id, tag_id, created_at) VALUES ($1, $2, $3)`,
			itemID,
			tagID,
			time.Now().UTC(),
		); err != nil {
			return apperrors.Wrap(err, "failed to attach tag to vault item")
		}
	}
	return nil
}

// itemTagNames returns the tag names attached to an item, sorted by name.
func (p *PostgreSQLItemRepository) itemTagNames(
	ctx context.Context,
	querier database.Querier,
	itemID uuid.UUID,
) ([]string, error) {
	query := `SELECT t.name FROM tags t
			  JOIN vault_item_tags vit ON vit.tag_id = t.id
			  WHERE vit.vault_item_id = $1
			  ORDER BY t.name`

	rows, err := querier.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get vault item tags")
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan tag name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate vault item tags")
	}
	return names, nil
}

// buildItemFilter assembles the WHERE clause and args shared by List and its
// count query.
func buildItemFilter(userID uuid.UUID, filter vaultDomain.ItemFilter) (string, []any) {
	conditions := []string{"user_id = $1", "deleted_at IS NULL"}
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		conditions = append(conditions, fmt.Sprintf("source = $%d", len(args)))
	}
	if filter.SearchTitle != "" {
		args = append(args, "%"+filter.SearchTitle+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if len(filter.TagNames) > 0 {
		args = append(args, pq.Array(filter.TagNames))
		conditions = append(conditions, fmt.Sprintf(
			`id IN (SELECT vit.vault_item_id FROM vault_item_tags vit
			 JOIN tags t ON t.id = vit.tag_id
			 WHERE t.name = ANY($%d))`, len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*vaultDomain.VaultItem, error) {
	var (
		item              vaultDomain.VaultItem
		sourceID          sql.NullString
		title             sql.NullString
		encryptedMetadata sql.NullString
		filePath          sql.NullString
	)

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Type,
		&item.Source,
		&sourceID,
		&title,
		&item.EncryptedContent,
		&encryptedMetadata,
		&filePath,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.DeletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vaultDomain.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan vault item")
	}

	item.SourceID = sourceID.String
	item.Title = title.String
	item.EncryptedMetadata = encryptedMetadata.String
	item.FilePath = filePath.String

	return &item, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
