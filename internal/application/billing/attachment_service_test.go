package billing

import (
	"context"
	"testing"
	"time"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAttachmentServiceForTest() (*AttachmentService, *MockAttachmentRepository, *MockQuoteRepository, *MockInvoiceRepository, *MockObjectStorage) {
	attachmentRepo := new(MockAttachmentRepository)
	quoteRepo := new(MockQuoteRepository)
	invoiceRepo := new(MockInvoiceRepository)
	storage := new(MockObjectStorage)
	svc := NewAttachmentService(attachmentRepo, quoteRepo, invoiceRepo, storage, 15*time.Minute)
	return svc, attachmentRepo, quoteRepo, invoiceRepo, storage
}

func TestAttachmentService_InitiateUpload(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("returns upload ticket for existing invoice", func(t *testing.T) {
		svc, attachmentRepo, _, invoiceRepo, storage := newAttachmentServiceForTest()
		invoice, err := billing.NewInvoice(tenantID, "INV-1", uuid.New(), "Harbourview Builders", "Deck repair")
		require.NoError(t, err)

		expiresAt := time.Now().Add(15 * time.Minute)
		invoiceRepo.On("FindByIDForTenant", ctx, tenantID, invoice.ID).Return(invoice, nil)
		storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "application/pdf", 15*time.Minute).
			Return("https://storage.invalid/upload", expiresAt, nil)
		attachmentRepo.On("Save", ctx, mock.AnythingOfType("*billing.Attachment")).Return(nil)

		ticket, err := svc.InitiateUpload(ctx, tenantID, billing.KindInvoice, invoice.ID, nil, InitiateUploadRequest{
			FileName:    "site-photo.pdf",
			ContentType: "application/pdf",
			SizeBytes:   1024,
		})

		require.NoError(t, err)
		assert.Equal(t, "https://storage.invalid/upload", ticket.UploadURL)
		assert.Equal(t, "pending", ticket.Attachment.Status)
		assert.Equal(t, invoice.ID, ticket.Attachment.DocumentID)
		attachmentRepo.AssertExpectations(t)
	})

	t.Run("document must exist", func(t *testing.T) {
		svc, _, quoteRepo, _, _ := newAttachmentServiceForTest()
		documentID := uuid.New()

		quoteRepo.On("FindByIDForTenant", ctx, tenantID, documentID).Return(nil, shared.ErrNotFound)

		_, err := svc.InitiateUpload(ctx, tenantID, billing.KindQuote, documentID, nil, InitiateUploadRequest{
			FileName:    "a.pdf",
			ContentType: "application/pdf",
			SizeBytes:   10,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("oversized file rejected", func(t *testing.T) {
		svc, _, _, invoiceRepo, _ := newAttachmentServiceForTest()
		invoice, err := billing.NewInvoice(tenantID, "INV-2", uuid.New(), "Harbourview Builders", "Deck repair")
		require.NoError(t, err)

		invoiceRepo.On("FindByIDForTenant", ctx, tenantID, invoice.ID).Return(invoice, nil)

		_, err = svc.InitiateUpload(ctx, tenantID, billing.KindInvoice, invoice.ID, nil, InitiateUploadRequest{
			FileName:    "huge.bin",
			ContentType: "application/octet-stream",
			SizeBytes:   billing.MaxAttachmentFileSize + 1,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FILE_TOO_LARGE", domainErr.Code)
	})
}

func TestAttachmentService_ConfirmUpload(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	newPendingAttachment := func(t *testing.T) *billing.Attachment {
		t.Helper()
		a, err := billing.NewAttachment(tenantID, billing.KindQuote, uuid.New(), "plan.pdf", "application/pdf", 2048, nil)
		require.NoError(t, err)
		return a
	}

	t.Run("confirms when object exists", func(t *testing.T) {
		svc, attachmentRepo, _, _, storage := newAttachmentServiceForTest()
		attachment := newPendingAttachment(t)

		attachmentRepo.On("FindByIDForTenant", ctx, tenantID, attachment.ID).Return(attachment, nil)
		storage.On("ObjectExists", ctx, attachment.StorageKey).Return(true, nil)
		attachmentRepo.On("Save", ctx, attachment).Return(nil)

		resp, err := svc.ConfirmUpload(ctx, tenantID, attachment.ID)
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		assert.NotNil(t, resp.ConfirmedAt)
	})

	t.Run("rejects when nothing was uploaded", func(t *testing.T) {
		svc, attachmentRepo, _, _, storage := newAttachmentServiceForTest()
		attachment := newPendingAttachment(t)

		attachmentRepo.On("FindByIDForTenant", ctx, tenantID, attachment.ID).Return(attachment, nil)
		storage.On("ObjectExists", ctx, attachment.StorageKey).Return(false, nil)

		_, err := svc.ConfirmUpload(ctx, tenantID, attachment.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UPLOAD_NOT_FOUND", domainErr.Code)
	})
}

func TestAttachmentService_GetDownloadURL(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("pending attachment has no download", func(t *testing.T) {
		svc, attachmentRepo, _, _, _ := newAttachmentServiceForTest()
		attachment, err := billing.NewAttachment(tenantID, billing.KindInvoice, uuid.New(), "receipt.jpg", "image/jpeg", 512, nil)
		require.NoError(t, err)

		attachmentRepo.On("FindByIDForTenant", ctx, tenantID, attachment.ID).Return(attachment, nil)

		_, err = svc.GetDownloadURL(ctx, tenantID, attachment.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_CONFIRMED", domainErr.Code)
	})

	t.Run("confirmed attachment", func(t *testing.T) {
		svc, attachmentRepo, _, _, storage := newAttachmentServiceForTest()
		attachment, err := billing.NewAttachment(tenantID, billing.KindInvoice, uuid.New(), "receipt.jpg", "image/jpeg", 512, nil)
		require.NoError(t, err)
		require.NoError(t, attachment.Confirm())

		expiresAt := time.Now().Add(15 * time.Minute)
		attachmentRepo.On("FindByIDForTenant", ctx, tenantID, attachment.ID).Return(attachment, nil)
		storage.On("GenerateDownloadURL", ctx, attachment.StorageKey, 15*time.Minute).
			Return("https://storage.invalid/download", expiresAt, nil)

		ticket, err := svc.GetDownloadURL(ctx, tenantID, attachment.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://storage.invalid/download", ticket.DownloadURL)
	})
}

func TestAttachmentService_Delete(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()
	svc, attachmentRepo, _, _, storage := newAttachmentServiceForTest()

	attachment, err := billing.NewAttachment(tenantID, billing.KindQuote, uuid.New(), "old.pdf", "application/pdf", 256, nil)
	require.NoError(t, err)

	attachmentRepo.On("FindByIDForTenant", ctx, tenantID, attachment.ID).Return(attachment, nil)
	storage.On("DeleteObject", ctx, attachment.StorageKey).Return(nil)
	attachmentRepo.On("DeleteForTenant", ctx, tenantID, attachment.ID).Return(nil)

	require.NoError(t, svc.Delete(ctx, tenantID, attachment.ID))
	attachmentRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestAttachmentService_ListByDocument(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()
	svc, attachmentRepo, quoteRepo, _, _ := newAttachmentServiceForTest()

	quote, err := billing.NewQuote(tenantID, "QTE-3", uuid.New(), "Harbourview Builders", "Deck repair")
	require.NoError(t, err)
	_, err = quote.AddItem("Work", decimal.NewFromInt(1), testMoney(10))
	require.NoError(t, err)

	a, err := billing.NewAttachment(tenantID, billing.KindQuote, quote.ID, "plan.pdf", "application/pdf", 2048, nil)
	require.NoError(t, err)

	quoteRepo.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)
	attachmentRepo.On("FindByDocument", ctx, tenantID, billing.KindQuote, quote.ID).Return([]billing.Attachment{*a}, nil)

	responses, err := svc.ListByDocument(ctx, tenantID, billing.KindQuote, quote.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "plan.pdf", responses[0].FileName)
}
