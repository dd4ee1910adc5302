package billing

import (
	"strings"
	"testing"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttachment(t *testing.T) {
	tenantID := uuid.New()
	documentID := uuid.New()

	t.Run("creates pending attachment with derived storage key", func(t *testing.T) {
		a, err := NewAttachment(tenantID, KindInvoice, documentID, "signed copy.pdf", "application/pdf", 1024, nil)

		require.NoError(t, err)
		assert.Equal(t, AttachmentStatusPending, a.Status)
		assert.True(t, a.IsPending())
		assert.Nil(t, a.ConfirmedAt)
		assert.Contains(t, a.StorageKey, "tenants/"+tenantID.String()+"/invoice/")
		assert.Contains(t, a.StorageKey, documentID.String())
		assert.Contains(t, a.StorageKey, "signed_copy.pdf")
		assert.NotContains(t, a.StorageKey, " ")
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name        string
			tenantID    uuid.UUID
			kind        DocumentKind
			documentID  uuid.UUID
			fileName    string
			contentType string
			sizeBytes   int64
			wantCode    string
		}{
			{"nil tenant", uuid.Nil, KindQuote, documentID, "a.jpg", "image/jpeg", 10, "INVALID_TENANT"},
			{"unknown kind", tenantID, DocumentKind("RECEIPT"), documentID, "a.jpg", "image/jpeg", 10, "INVALID_KIND"},
			{"nil document", tenantID, KindQuote, uuid.Nil, "a.jpg", "image/jpeg", 10, "INVALID_DOCUMENT"},
			{"empty file name", tenantID, KindQuote, documentID, "  ", "image/jpeg", 10, "INVALID_FILE_NAME"},
			{"path separator in name", tenantID, KindQuote, documentID, "../../etc/passwd", "image/jpeg", 10, "INVALID_FILE_NAME"},
			{"over-long name", tenantID, KindQuote, documentID, strings.Repeat("x", 256), "image/jpeg", 10, "INVALID_FILE_NAME"},
			{"empty content type", tenantID, KindQuote, documentID, "a.jpg", "", 10, "INVALID_CONTENT_TYPE"},
			{"zero size", tenantID, KindQuote, documentID, "a.jpg", "image/jpeg", 0, "INVALID_FILE_SIZE"},
			{"negative size", tenantID, KindQuote, documentID, "a.jpg", "image/jpeg", -1, "INVALID_FILE_SIZE"},
			{"too large", tenantID, KindQuote, documentID, "a.jpg", "image/jpeg", MaxAttachmentFileSize + 1, "FILE_TOO_LARGE"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewAttachment(tt.tenantID, tt.kind, tt.documentID, tt.fileName, tt.contentType, tt.sizeBytes, nil)

				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.wantCode, domainErr.Code)
			})
		}
	})
}

func TestAttachment_Confirm(t *testing.T) {
	a, err := NewAttachment(uuid.New(), KindQuote, uuid.New(), "photo.jpg", "image/jpeg", 2048, nil)
	require.NoError(t, err)

	require.NoError(t, a.Confirm())
	assert.Equal(t, AttachmentStatusConfirmed, a.Status)
	require.NotNil(t, a.ConfirmedAt)
	assert.False(t, a.IsPending())

	err = a.Confirm()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_CONFIRMED", domainErr.Code)
}
