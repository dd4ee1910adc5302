package payment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubProvider_CreateCheckout(t *testing.T) {
	provider := NewStubProvider("test-secret")

	t.Run("returns session for paid plan", func(t *testing.T) {
		session, err := provider.CreateCheckout(context.Background(), &platform.CheckoutRequest{
			TenantID: uuid.New(),
			Plan:     platform.PlanCrew,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, session.ProviderRef)
		assert.Contains(t, session.CheckoutURL, session.ProviderRef)
		assert.True(t, session.ExpiresAt.After(time.Now()))
	})

	t.Run("rejects trial plan", func(t *testing.T) {
		_, err := provider.CreateCheckout(context.Background(), &platform.CheckoutRequest{
			TenantID: uuid.New(),
			Plan:     platform.PlanTrial,
		})

		assert.Error(t, err)
	})

	t.Run("rejects nil tenant", func(t *testing.T) {
		_, err := provider.CreateCheckout(context.Background(), &platform.CheckoutRequest{
			Plan: platform.PlanSolo,
		})

		assert.Error(t, err)
	})
}

func TestStubProvider_VerifyWebhook(t *testing.T) {
	provider := NewStubProvider("test-secret")

	makePayload := func(t *testing.T, eventType, ref string) []byte {
		t.Helper()
		payload, err := json.Marshal(map[string]interface{}{
			"type":         eventType,
			"provider_ref": ref,
			"amount":       decimal.NewFromInt(49),
			"occurred_at":  time.Now().UTC(),
			"period_end":   time.Now().UTC().AddDate(0, 1, 0),
		})
		require.NoError(t, err)
		return payload
	}

	t.Run("accepts correctly signed payload", func(t *testing.T) {
		payload := makePayload(t, "payment_succeeded", "stub_sub_abc")

		event, err := provider.VerifyWebhook(payload, provider.SignPayload(payload))

		require.NoError(t, err)
		assert.Equal(t, platform.PaymentEventSucceeded, event.Type)
		assert.Equal(t, "stub_sub_abc", event.ProviderRef)
		assert.True(t, decimal.NewFromInt(49).Equal(event.Amount))
	})

	t.Run("rejects tampered payload", func(t *testing.T) {
		payload := makePayload(t, "payment_succeeded", "stub_sub_abc")
		signature := provider.SignPayload(payload)
		payload[0] ^= 0xff

		_, err := provider.VerifyWebhook(payload, signature)

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects signature from different secret", func(t *testing.T) {
		other := NewStubProvider("other-secret")
		payload := makePayload(t, "payment_failed", "stub_sub_abc")

		_, err := provider.VerifyWebhook(payload, other.SignPayload(payload))

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects empty signature", func(t *testing.T) {
		payload := makePayload(t, "payment_succeeded", "stub_sub_abc")

		_, err := provider.VerifyWebhook(payload, "")

		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects unknown event type", func(t *testing.T) {
		payload := makePayload(t, "invoice_finalized", "stub_sub_abc")

		_, err := provider.VerifyWebhook(payload, provider.SignPayload(payload))

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects missing provider ref", func(t *testing.T) {
		payload := makePayload(t, "subscription_cancelled", "")

		_, err := provider.VerifyWebhook(payload, provider.SignPayload(payload))

		assert.Error(t, err)
	})
}
