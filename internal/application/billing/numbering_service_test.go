package billing

import (
	"context"
	"testing"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberingService_Get(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("existing sequence", func(t *testing.T) {
		sequenceRepo := new(MockSequenceRepository)
		svc := NewNumberingService(sequenceRepo)

		seq, err := billing.NewDocumentSequence(tenantID, billing.KindInvoice)
		require.NoError(t, err)
		seq.NextNumber = 42

		sequenceRepo.On("Get", ctx, tenantID, billing.KindInvoice).Return(seq, nil)

		resp, err := svc.Get(ctx, tenantID, billing.KindInvoice)
		require.NoError(t, err)
		assert.Equal(t, "INV", resp.Prefix)
		assert.Equal(t, int64(42), resp.NextNumber)
	})

	t.Run("unissued sequence reports defaults", func(t *testing.T) {
		sequenceRepo := new(MockSequenceRepository)
		svc := NewNumberingService(sequenceRepo)

		sequenceRepo.On("Get", ctx, tenantID, billing.KindQuote).Return(nil, shared.ErrNotFound)

		resp, err := svc.Get(ctx, tenantID, billing.KindQuote)
		require.NoError(t, err)
		assert.Equal(t, "QTE", resp.Prefix)
		assert.Equal(t, int64(1), resp.NextNumber)
	})
}

func TestNumberingService_UpdatePrefix(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	sequenceRepo := new(MockSequenceRepository)
	svc := NewNumberingService(sequenceRepo)

	seq, err := billing.NewDocumentSequence(tenantID, billing.KindQuote)
	require.NoError(t, err)
	require.NoError(t, seq.SetPrefix("EST"))

	sequenceRepo.On("UpdatePrefix", ctx, tenantID, billing.KindQuote, "EST").Return(nil)
	sequenceRepo.On("Get", ctx, tenantID, billing.KindQuote).Return(seq, nil)

	resp, err := svc.UpdatePrefix(ctx, tenantID, billing.KindQuote, UpdatePrefixRequest{Prefix: "EST"})
	require.NoError(t, err)
	assert.Equal(t, "EST", resp.Prefix)
	sequenceRepo.AssertExpectations(t)
}
