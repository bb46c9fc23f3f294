package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/datavault/internal/identity/domain"
	"github.com/allisson/datavault/internal/metrics"
	vaultDomain "github.com/allisson/datavault/internal/vault/domain"
)

// itemUseCaseWithMetrics decorates ItemUseCase with metrics instrumentation.
type itemUseCaseWithMetrics struct {
	next    ItemUseCase
	metrics metrics.BusinessMetrics
}

// NewItemUseCaseWithMetrics wraps an ItemUseCase with metrics recording.
func NewItemUseCaseWithMetrics(useCase ItemUseCase, m metrics.BusinessMetrics) ItemUseCase {
	return &itemUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *itemUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	u.metrics.RecordOperation(ctx, "vault", operation, status)
	u.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

// CreateItem records metrics for item creation operations.
func (u *itemUseCaseWithMetrics) CreateItem(
	ctx context.Context,
	user *identityDomain.User,
	input CreateItemInput,
) (*vaultDomain.VaultItem, error) {
	start := time.Now()
	item, err := u.next.CreateItem(ctx, user, input)
	u.record(ctx, "item_create", start, err)
	return item, err
}

// GetItem records metrics for item retrieval operations.
func (u *itemUseCaseWithMetrics) GetItem(
	ctx context.Context,
	user *identityDomain.User,
	itemID uuid.UUID,
) (*vaultDomain.VaultItem, error) {
	start := time.Now()
	item, err := u.next.GetItem(ctx, user, itemID)
	u.record(ctx, "item_get", start, err)
	return item, err
}

// ListItems records metrics for item listing operations.
func (u *itemUseCaseWithMetrics) ListItems(
	ctx context.Context,
	user *identityDomain.User,
	filter vaultDomain.ItemFilter,
	page, pageSize int,
) (*ItemPage, error) {
	start := time.Now()
	result, err := u.next.ListItems(ctx, user, filter, page, pageSize)
	u.record(ctx, "item_list", start, err)
	return result, err
}

// UpdateItem records metrics for item update operations.
func (u *itemUseCaseWithMetrics) UpdateItem(
	ctx context.Context,
	user *identityDomain.User,
	itemID uuid.UUID,
	input UpdateItemInput,
) (*vaultDomain.VaultItem, error) {
	start := time.Now()
	item, err := u.next.UpdateItem(ctx, user, itemID, input)
	u.record(ctx, "item_update", start, err)
	return item, err
}

// DeleteItem records metrics for item deletion operations.
func (u *itemUseCaseWithMetrics) DeleteItem(
	ctx context.Context,
	user *identityDomain.User,
	itemID uuid.UUID,
) (time.Time, error) {
	start := time.Now()
	deletedAt, err := u.next.DeleteItem(ctx, user, itemID)
	u.record(ctx, "item_delete", start, err)
	return deletedAt, err
}
