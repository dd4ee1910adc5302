package persistence

import (
	"context"
	"errors"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuoteRepository implements billing.QuoteRepository
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new quote repository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

var _ billing.QuoteRepository = (*GormQuoteRepository)(nil)

// FindByIDForTenant finds a quote by ID within a tenant
func (r *GormQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Quote, error) {
	var quote billing.Quote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindByDocumentNumber finds a quote by its document number
func (r *GormQuoteRepository) FindByDocumentNumber(ctx context.Context, tenantID uuid.UUID, documentNumber string) (*billing.Quote, error) {
	var quote billing.Quote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND document_number = ?", tenantID, documentNumber).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindAllForTenant finds quotes for a tenant with filtering and pagination
func (r *GormQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Quote, error) {
	var quotes []billing.Quote
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, DocumentSortFields, "document_number", "customer_name", "title")
	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// FindByCustomer finds quotes for a customer
func (r *GormQuoteRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]billing.Quote, error) {
	var quotes []billing.Quote
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = applyFilter(query, filter, DocumentSortFields, "document_number", "title")
	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Save creates or updates a quote together with its line items. Items
// missing from the aggregate are deleted so the row set always mirrors
// the in-memory document.
func (r *GormQuoteRepository) Save(ctx context.Context, quote *billing.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(quote).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(quote.Items))
		for i := range quote.Items {
			keep = append(keep, quote.Items[i].ID)
		}
		del := tx.Where("document_id = ?", quote.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&billing.LineItem{}).Error; err != nil {
			return err
		}

		for i := range quote.Items {
			if err := tx.Save(&quote.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForTenant deletes a quote and its line items
func (r *GormQuoteRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&billing.Quote{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("document_id = ?", id).Delete(&billing.LineItem{}).Error
	})
}

// CountForTenant counts quotes matching the filter
func (r *GormQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&billing.Quote{}).
		Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, DocumentSortFields, "document_number", "customer_name", "title")
	err := query.Count(&count).Error
	return count, err
}

// CountByStatus counts quotes in a given status
func (r *GormQuoteRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status billing.QuoteStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&billing.Quote{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error
	return count, err
}

// CountOpenByCustomer counts non-terminal quotes referencing a customer
func (r *GormQuoteRepository) CountOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&billing.Quote{}).
		Where("tenant_id = ? AND customer_id = ? AND status IN ?",
			tenantID, customerID, []billing.QuoteStatus{billing.QuoteStatusDraft, billing.QuoteStatusSent}).
		Count(&count).Error
	return count, err
}
