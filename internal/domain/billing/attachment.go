package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxAttachmentFileSize is the maximum allowed file size (25MB)
const MaxAttachmentFileSize = 25 * 1024 * 1024

// AttachmentStatus represents the upload state of a document attachment
type AttachmentStatus string

const (
	AttachmentStatusPending   AttachmentStatus = "pending"
	AttachmentStatusConfirmed AttachmentStatus = "confirmed"
)

// IsValid checks if the status is a known AttachmentStatus
func (s AttachmentStatus) IsValid() bool {
	switch s {
	case AttachmentStatusPending, AttachmentStatusConfirmed:
		return true
	default:
		return false
	}
}

// Attachment is a file attached to a quote or invoice: site photos,
// signed copies, supplier receipts. The file body lives in object
// storage; this row holds the metadata and the storage key.
//
// An attachment is created pending, the client uploads against a
// presigned URL, then confirms. Unconfirmed rows can be swept.
type Attachment struct {
	shared.TenantEntity
	DocumentKind DocumentKind     `gorm:"size:16;not null;index:idx_attachment_document"`
	DocumentID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_attachment_document"`
	FileName     string           `gorm:"type:varchar(255);not null"`
	ContentType  string           `gorm:"type:varchar(100);not null"`
	SizeBytes    int64            `gorm:"not null"`
	StorageKey   string           `gorm:"type:varchar(512);not null;uniqueIndex"`
	Status       AttachmentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	UploadedBy   *uuid.UUID       `gorm:"type:uuid"`
	ConfirmedAt  *time.Time
}

// TableName returns the table name for GORM
func (Attachment) TableName() string {
	return "document_attachments"
}

// NewAttachment creates a pending attachment and derives its storage key
func NewAttachment(tenantID uuid.UUID, kind DocumentKind, documentID uuid.UUID, fileName, contentType string, sizeBytes int64, uploadedBy *uuid.UUID) (*Attachment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown document kind")
	}
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	if err := validateAttachmentFileName(fileName); err != nil {
		return nil, err
	}
	if strings.TrimSpace(contentType) == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot be empty")
	}
	if sizeBytes <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size must be positive")
	}
	if sizeBytes > MaxAttachmentFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the maximum attachment size")
	}

	entity := shared.NewTenantEntity(tenantID)
	key := fmt.Sprintf("tenants/%s/%s/%s/%s_%s",
		tenantID, strings.ToLower(string(kind)), documentID, entity.ID, sanitizeFileName(fileName))

	return &Attachment{
		TenantEntity: entity,
		DocumentKind: kind,
		DocumentID:   documentID,
		FileName:     fileName,
		ContentType:  contentType,
		SizeBytes:    sizeBytes,
		StorageKey:   key,
		Status:       AttachmentStatusPending,
		UploadedBy:   uploadedBy,
	}, nil
}

// Confirm marks the upload as completed in object storage
func (a *Attachment) Confirm() error {
	if a.Status == AttachmentStatusConfirmed {
		return shared.NewDomainError("ALREADY_CONFIRMED", "Attachment is already confirmed")
	}
	now := time.Now()
	a.Status = AttachmentStatusConfirmed
	a.ConfirmedAt = &now
	a.UpdatedAt = now
	return nil
}

// IsPending returns true if the upload has not been confirmed yet
func (a *Attachment) IsPending() bool {
	return a.Status == AttachmentStatusPending
}

func validateAttachmentFileName(fileName string) error {
	trimmed := strings.TrimSpace(fileName)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(trimmed) > 255 {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	if strings.ContainsAny(trimmed, "/\\") {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot contain path separators")
	}
	return nil
}

// sanitizeFileName keeps storage keys free of characters that need URL
// escaping in presigned requests
func sanitizeFileName(fileName string) string {
	var b strings.Builder
	for _, r := range fileName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
