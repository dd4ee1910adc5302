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

// GormDocumentSequenceRepository implements billing.DocumentSequenceRepository
type GormDocumentSequenceRepository struct {
	db *gorm.DB
}

// NewGormDocumentSequenceRepository creates a new document sequence repository
func NewGormDocumentSequenceRepository(db *gorm.DB) *GormDocumentSequenceRepository {
	return &GormDocumentSequenceRepository{db: db}
}

var _ billing.DocumentSequenceRepository = (*GormDocumentSequenceRepository)(nil)

// Reserve claims the next number for the tenant and kind in a single
// statement. The row is created on first use and the increment happens
// inside the UPDATE, so concurrent callers can never be handed the same
// number and a row is never read between its fetch and its advance.
func (r *GormDocumentSequenceRepository) Reserve(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind) (string, error) {
	if tenantID == uuid.Nil {
		return "", shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !kind.IsValid() {
		return "", shared.NewDomainError("INVALID_KIND", "Unknown document kind")
	}

	var row struct {
		Prefix  string
		Counter int64
	}
	now := time.Now()
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (tenant_id, kind, prefix, next_number, created_at, updated_at)
		VALUES (?, ?, ?, 2, ?, ?)
		ON CONFLICT (tenant_id, kind)
		DO UPDATE SET next_number = document_sequences.next_number + 1, updated_at = EXCLUDED.updated_at
		RETURNING prefix, next_number - 1 AS counter`,
		tenantID, kind, kind.DefaultPrefix(), now, now,
	).Scan(&row).Error
	if err != nil {
		return "", err
	}
	return billing.FormatDocumentNumber(row.Prefix, row.Counter), nil
}

// Get returns the sequence state without advancing it
func (r *GormDocumentSequenceRepository) Get(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind) (*billing.DocumentSequence, error) {
	var seq billing.DocumentSequence
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND kind = ?", tenantID, kind).
		First(&seq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &seq, nil
}

// UpdatePrefix changes the prefix used for future numbers. The sequence
// is created if it does not exist yet so a tenant can set a prefix
// before issuing its first document.
func (r *GormDocumentSequenceRepository) UpdatePrefix(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind, prefix string) error {
	seq, err := billing.NewDocumentSequence(tenantID, kind)
	if err != nil {
		return err
	}
	if err := seq.SetPrefix(prefix); err != nil {
		return err
	}

	now := time.Now()
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO document_sequences (tenant_id, kind, prefix, next_number, created_at, updated_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (tenant_id, kind)
		DO UPDATE SET prefix = EXCLUDED.prefix, updated_at = EXCLUDED.updated_at`,
		tenantID, kind, seq.Prefix, now, now,
	).Error
}
