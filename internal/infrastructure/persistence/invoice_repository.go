package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByDocumentNumber finds an invoice by its document number
func (r *GormInvoiceRepository) FindByDocumentNumber(ctx context.Context, tenantID uuid.UUID, documentNumber string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND document_number = ?", tenantID, documentNumber).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForTenant finds invoices for a tenant with filtering and pagination
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, DocumentSortFields, "document_number", "customer_name", "title")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByCustomer finds invoices for a customer
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = applyFilter(query, filter, DocumentSortFields, "document_number", "title")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByJob finds invoices linked to a job
func (r *GormInvoiceRepository) FindByJob(ctx context.Context, tenantID, jobID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND job_id = ?", tenantID, jobID)
	query = applyFilter(query, filter, DocumentSortFields, "document_number", "title")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOverdueCandidates finds sent invoices whose due date has passed.
// Used by the overdue sweep to mark invoices overdue.
func (r *GormInvoiceRepository) FindOverdueCandidates(ctx context.Context, asOf time.Time, limit int) ([]billing.Invoice, error) {
	if limit <= 0 {
		limit = 100
	}
	var invoices []billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", billing.InvoiceStatusSent, asOf).
		Order("due_date ASC").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice together with its line items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(invoice).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(invoice.Items))
		for i := range invoice.Items {
			keep = append(keep, invoice.Items[i].ID)
		}
		del := tx.Where("document_id = ?", invoice.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&billing.LineItem{}).Error; err != nil {
			return err
		}

		for i := range invoice.Items {
			if err := tx.Save(&invoice.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForTenant deletes an invoice and its line items
func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&billing.Invoice{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("document_id = ?", id).Delete(&billing.LineItem{}).Error
	})
}

// CountForTenant counts invoices matching the filter
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, DocumentSortFields, "document_number", "customer_name", "title")
	err := query.Count(&count).Error
	return count, err
}

// CountByStatus counts invoices in a given status
func (r *GormInvoiceRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status billing.InvoiceStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error
	return count, err
}

// CountOpenByCustomer counts non-terminal invoices referencing a customer
func (r *GormInvoiceRepository) CountOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Where("tenant_id = ? AND customer_id = ? AND status IN ?",
			tenantID, customerID, []billing.InvoiceStatus{
				billing.InvoiceStatusDraft,
				billing.InvoiceStatusSent,
				billing.InvoiceStatusOverdue,
			}).
		Count(&count).Error
	return count, err
}
