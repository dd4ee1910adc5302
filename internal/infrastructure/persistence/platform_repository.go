package persistence

import (
	"context"
	"errors"

	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var subscriptionSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"plan":               true,
	"status":             true,
	"current_period_end": true,
}

var supportThreadSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"subject":    true,
	"status":     true,
}

// GormSubscriptionRepository implements platform.SubscriptionRepository
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new subscription repository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

var _ platform.SubscriptionRepository = (*GormSubscriptionRepository)(nil)

// FindByTenant finds the subscription for a tenant. Each tenant has at
// most one subscription row.
func (r *GormSubscriptionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*platform.Subscription, error) {
	var sub platform.Subscription
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByProviderRef finds a subscription by the payment provider's reference
func (r *GormSubscriptionRepository) FindByProviderRef(ctx context.Context, providerRef string) (*platform.Subscription, error) {
	var sub platform.Subscription
	err := r.db.WithContext(ctx).
		Where("provider_ref = ?", providerRef).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindAll finds subscriptions with filtering. Platform admin only.
func (r *GormSubscriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]platform.Subscription, error) {
	var subs []platform.Subscription
	query := applyFilter(r.db.WithContext(ctx).Model(&platform.Subscription{}), filter, subscriptionSortFields)
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// FindByStatus finds subscriptions in a given status
func (r *GormSubscriptionRepository) FindByStatus(ctx context.Context, status platform.SubscriptionStatus, filter shared.Filter) ([]platform.Subscription, error) {
	var subs []platform.Subscription
	query := r.db.WithContext(ctx).Model(&platform.Subscription{}).
		Where("status = ?", status)
	query = applyFilter(query, filter, subscriptionSortFields)
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Save creates or updates a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, subscription *platform.Subscription) error {
	return r.db.WithContext(ctx).Save(subscription).Error
}

// Count counts subscriptions matching the filter
func (r *GormSubscriptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&platform.Subscription{}), filter, subscriptionSortFields)
	err := query.Count(&count).Error
	return count, err
}

// GormSupportThreadRepository implements platform.SupportThreadRepository
type GormSupportThreadRepository struct {
	db *gorm.DB
}

// NewGormSupportThreadRepository creates a new support thread repository
func NewGormSupportThreadRepository(db *gorm.DB) *GormSupportThreadRepository {
	return &GormSupportThreadRepository{db: db}
}

var _ platform.SupportThreadRepository = (*GormSupportThreadRepository)(nil)

// FindByID finds a thread by ID with its messages ordered oldest first
func (r *GormSupportThreadRepository) FindByID(ctx context.Context, id uuid.UUID) (*platform.SupportThread, error) {
	var thread platform.SupportThread
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &thread, nil
}

// FindByIDForTenant finds a thread by ID within a tenant
func (r *GormSupportThreadRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*platform.SupportThread, error) {
	var thread platform.SupportThread
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &thread, nil
}

// FindAllForTenant finds threads for a tenant with filtering
func (r *GormSupportThreadRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]platform.SupportThread, error) {
	var threads []platform.SupportThread
	query := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, supportThreadSortFields, "subject")
	if err := query.Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

// FindAll finds threads across all tenants. Platform admin only.
func (r *GormSupportThreadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]platform.SupportThread, error) {
	var threads []platform.SupportThread
	query := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Model(&platform.SupportThread{})
	query = applyFilter(query, filter, supportThreadSortFields, "subject")
	if err := query.Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

// Save creates or updates a thread together with its messages. Messages
// are append-only so no reconcile delete is needed.
func (r *GormSupportThreadRepository) Save(ctx context.Context, thread *platform.SupportThread) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Messages").Save(thread).Error; err != nil {
			return err
		}
		for i := range thread.Messages {
			if err := tx.Save(&thread.Messages[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountForTenant counts threads for a tenant matching the filter
func (r *GormSupportThreadRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&platform.SupportThread{}).
		Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, supportThreadSortFields, "subject")
	err := query.Count(&count).Error
	return count, err
}

// Count counts threads across all tenants matching the filter
func (r *GormSupportThreadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&platform.SupportThread{}), filter, supportThreadSortFields, "subject")
	err := query.Count(&count).Error
	return count, err
}
