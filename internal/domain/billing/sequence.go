package billing

import (
	"fmt"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentKind distinguishes the two billing document kinds.
// Each kind has its own numbering sequence per tenant.
type DocumentKind string

const (
	KindQuote   DocumentKind = "QUOTE"
	KindInvoice DocumentKind = "INVOICE"
)

// IsValid checks if the kind is a known DocumentKind
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindQuote, KindInvoice:
		return true
	}
	return false
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// DefaultPrefix returns the default document-number prefix for the kind
func (k DocumentKind) DefaultPrefix() string {
	switch k {
	case KindQuote:
		return "QTE"
	case KindInvoice:
		return "INV"
	}
	return ""
}

// FormatDocumentNumber builds the human-facing document number from a
// prefix and counter value, e.g. ("INV", 1000) -> "INV-1000".
func FormatDocumentNumber(prefix string, counter int64) string {
	return fmt.Sprintf("%s-%d", prefix, counter)
}

// DocumentSequence holds the numbering state for one tenant and one
// document kind. The counter is a shared mutable resource across all
// concurrent document creations for the tenant; persistence must reserve
// numbers with a single atomic fetch-and-increment statement, never a
// separate read followed by a write.
type DocumentSequence struct {
	TenantID   uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Kind       DocumentKind `gorm:"primaryKey;size:16"`
	Prefix     string       `gorm:"size:16;not null"`
	NextNumber int64        `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewDocumentSequence creates a sequence starting at 1 with the kind's
// default prefix
func NewDocumentSequence(tenantID uuid.UUID, kind DocumentKind) (*DocumentSequence, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown document kind")
	}
	now := time.Now()
	return &DocumentSequence{
		TenantID:   tenantID,
		Kind:       kind,
		Prefix:     kind.DefaultPrefix(),
		NextNumber: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Next returns the next document number and advances the counter.
// Monotonic and gapless under sequential use; concurrent use must go
// through DocumentSequenceRepository.Reserve instead.
func (s *DocumentSequence) Next() string {
	number := FormatDocumentNumber(s.Prefix, s.NextNumber)
	s.NextNumber++
	s.UpdatedAt = time.Now()
	return number
}

// SetPrefix changes the prefix used for future numbers.
// Already-assigned document numbers are unaffected.
func (s *DocumentSequence) SetPrefix(prefix string) error {
	if prefix == "" {
		return shared.NewDomainError("INVALID_PREFIX", "Prefix cannot be empty")
	}
	if len(prefix) > 16 {
		return shared.NewDomainError("INVALID_PREFIX", "Prefix cannot exceed 16 characters")
	}
	s.Prefix = prefix
	s.UpdatedAt = time.Now()
	return nil
}
