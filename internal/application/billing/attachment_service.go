package billing

import (
	"context"
	"time"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AttachmentService manages document attachments. Metadata lives in the
// database; file bodies go straight to object storage via presigned URLs.
type AttachmentService struct {
	attachmentRepo billing.AttachmentRepository
	quoteRepo      billing.QuoteRepository
	invoiceRepo    billing.InvoiceRepository
	storage        ObjectStorage
	presignTTL     time.Duration
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachmentRepo billing.AttachmentRepository,
	quoteRepo billing.QuoteRepository,
	invoiceRepo billing.InvoiceRepository,
	storage ObjectStorage,
	presignTTL time.Duration,
) *AttachmentService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		quoteRepo:      quoteRepo,
		invoiceRepo:    invoiceRepo,
		storage:        storage,
		presignTTL:     presignTTL,
	}
}

// InitiateUpload registers a pending attachment for a document and
// returns a presigned upload URL. The upload is not visible on the
// document until confirmed.
func (s *AttachmentService) InitiateUpload(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind, documentID uuid.UUID, uploadedBy *uuid.UUID, req InitiateUploadRequest) (*UploadTicketResponse, error) {
	if err := s.checkDocumentExists(ctx, tenantID, kind, documentID); err != nil {
		return nil, err
	}

	attachment, err := billing.NewAttachment(tenantID, kind, documentID, req.FileName, req.ContentType, req.SizeBytes, uploadedBy)
	if err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, attachment.StorageKey, attachment.ContentType, s.presignTTL)
	if err != nil {
		return nil, err
	}

	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return nil, err
	}

	return &UploadTicketResponse{
		Attachment: ToAttachmentResponse(attachment),
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload marks a pending attachment as confirmed after verifying
// the object actually landed in storage.
func (s *AttachmentService) ConfirmUpload(ctx context.Context, tenantID, attachmentID uuid.UUID) (*AttachmentResponse, error) {
	attachment, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, attachmentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, attachment.StorageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "No object has been uploaded for this attachment")
	}

	if err := attachment.Confirm(); err != nil {
		return nil, err
	}

	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return nil, err
	}

	response := ToAttachmentResponse(attachment)
	return &response, nil
}

// GetDownloadURL returns a presigned download URL for a confirmed attachment
func (s *AttachmentService) GetDownloadURL(ctx context.Context, tenantID, attachmentID uuid.UUID) (*DownloadTicketResponse, error) {
	attachment, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, attachmentID)
	if err != nil {
		return nil, err
	}

	if attachment.IsPending() {
		return nil, shared.NewDomainError("NOT_CONFIRMED", "Attachment upload has not been confirmed")
	}

	downloadURL, expiresAt, err := s.storage.GenerateDownloadURL(ctx, attachment.StorageKey, s.presignTTL)
	if err != nil {
		return nil, err
	}

	return &DownloadTicketResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// ListByDocument lists attachments for a document, oldest first
func (s *AttachmentService) ListByDocument(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind, documentID uuid.UUID) ([]AttachmentResponse, error) {
	if err := s.checkDocumentExists(ctx, tenantID, kind, documentID); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.FindByDocument(ctx, tenantID, kind, documentID)
	if err != nil {
		return nil, err
	}

	return ToAttachmentResponses(attachments), nil
}

// Delete removes an attachment and its stored object
func (s *AttachmentService) Delete(ctx context.Context, tenantID, attachmentID uuid.UUID) error {
	attachment, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, attachmentID)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, attachment.StorageKey); err != nil {
		return err
	}

	return s.attachmentRepo.DeleteForTenant(ctx, tenantID, attachmentID)
}

func (s *AttachmentService) checkDocumentExists(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind, documentID uuid.UUID) error {
	switch kind {
	case billing.KindQuote:
		_, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, documentID)
		return err
	case billing.KindInvoice:
		_, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, documentID)
		return err
	}
	return shared.NewDomainError("INVALID_KIND", "Unknown document kind")
}
