package billing

import (
	"context"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// FindByIDForTenant finds a quote by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)

	// FindByDocumentNumber finds a quote by document number for a tenant
	FindByDocumentNumber(ctx context.Context, tenantID uuid.UUID, documentNumber string) (*Quote, error)

	// FindAllForTenant finds all quotes for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quote, error)

	// FindByCustomer finds quotes for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]Quote, error)

	// Save creates or updates a quote together with its line items
	Save(ctx context.Context, quote *Quote) error

	// DeleteForTenant deletes a quote and its line items for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts quotes for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts quotes by status for a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status QuoteStatus) (int64, error)

	// CountOpenByCustomer counts non-terminal quotes referencing a customer
	CountOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForTenant finds an invoice by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByDocumentNumber finds an invoice by document number for a tenant
	FindByDocumentNumber(ctx context.Context, tenantID uuid.UUID, documentNumber string) (*Invoice, error)

	// FindAllForTenant finds all invoices for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindByCustomer finds invoices for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindByJob finds invoices for a job
	FindByJob(ctx context.Context, tenantID, jobID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindOverdueCandidates finds sent invoices across all tenants whose
	// due date has passed, oldest first
	FindOverdueCandidates(ctx context.Context, asOf time.Time, limit int) ([]Invoice, error)

	// Save creates or updates an invoice together with its line items
	Save(ctx context.Context, invoice *Invoice) error

	// DeleteForTenant deletes an invoice and its line items for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts invoices for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts invoices by status for a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status InvoiceStatus) (int64, error)

	// CountOpenByCustomer counts non-terminal invoices referencing a customer
	CountOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)
}

// AttachmentRepository defines the interface for attachment metadata
type AttachmentRepository interface {
	// FindByIDForTenant finds an attachment by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Attachment, error)

	// FindByDocument finds attachments for a document, oldest first
	FindByDocument(ctx context.Context, tenantID uuid.UUID, kind DocumentKind, documentID uuid.UUID) ([]Attachment, error)

	// Save creates or updates an attachment
	Save(ctx context.Context, attachment *Attachment) error

	// DeleteForTenant deletes an attachment row for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// DocumentSequenceRepository manages per-tenant numbering state.
//
// Reserve must be a single atomic fetch-and-increment at the database:
// two concurrent creations for the same tenant and kind must never be
// handed the same number, and sequential calls must be gapless.
type DocumentSequenceRepository interface {
	// Reserve atomically claims the next document number for the tenant
	// and kind, creating the sequence with the kind's default prefix on
	// first use, and returns the formatted number.
	Reserve(ctx context.Context, tenantID uuid.UUID, kind DocumentKind) (string, error)

	// Get returns the current sequence state without advancing it
	Get(ctx context.Context, tenantID uuid.UUID, kind DocumentKind) (*DocumentSequence, error)

	// UpdatePrefix changes the prefix used for future numbers
	UpdatePrefix(ctx context.Context, tenantID uuid.UUID, kind DocumentKind, prefix string) error
}
