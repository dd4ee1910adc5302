package persistence

import (
	"context"
	"errors"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAttachmentRepository implements billing.AttachmentRepository
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new attachment repository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

var _ billing.AttachmentRepository = (*GormAttachmentRepository)(nil)

// FindByIDForTenant finds an attachment by ID within a tenant
func (r *GormAttachmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Attachment, error) {
	var attachment billing.Attachment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// FindByDocument finds attachments for a document, oldest first
func (r *GormAttachmentRepository) FindByDocument(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind, documentID uuid.UUID) ([]billing.Attachment, error) {
	var attachments []billing.Attachment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND document_kind = ? AND document_id = ?", tenantID, kind, documentID).
		Order("created_at ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// Save creates or updates an attachment
func (r *GormAttachmentRepository) Save(ctx context.Context, attachment *billing.Attachment) error {
	return r.db.WithContext(ctx).Save(attachment).Error
}

// DeleteForTenant deletes an attachment row for a tenant
func (r *GormAttachmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&billing.Attachment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
