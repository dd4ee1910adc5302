package platform

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/infrastructure/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "test-webhook-secret"

func newSubscriptionServiceForTest() (*SubscriptionService, *MockSubscriptionRepository, *payment.StubProvider) {
	repo := new(MockSubscriptionRepository)
	provider := payment.NewStubProvider(webhookSecret)
	svc := NewSubscriptionService(repo, provider)
	return svc, repo, provider
}

func newTrial(t *testing.T, tenantID uuid.UUID) *platform.Subscription {
	t.Helper()
	subscription, err := platform.NewTrialSubscription(tenantID, 14)
	require.NoError(t, err)
	return subscription
}

func signedEvent(t *testing.T, provider *payment.StubProvider, eventType, providerRef, plan string, amount decimal.Decimal) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"type":         eventType,
		"provider_ref": providerRef,
		"plan":         plan,
		"amount":       amount,
		"occurred_at":  time.Now(),
		"period_end":   time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	return payload, provider.SignPayload(payload)
}

func TestSubscriptionService_StartCheckout(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("records provider ref", func(t *testing.T) {
		svc, repo, _ := newSubscriptionServiceForTest()
		subscription := newTrial(t, tenantID)

		repo.On("FindByTenant", ctx, tenantID).Return(subscription, nil)
		repo.On("Save", ctx, subscription).Return(nil)

		resp, err := svc.StartCheckout(ctx, tenantID, StartCheckoutRequest{
			Plan:       "crew",
			SuccessURL: "https://app.example.test/billing/done",
			CancelURL:  "https://app.example.test/billing",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.CheckoutURL)
		assert.Equal(t, resp.ProviderRef, subscription.ProviderRef)
		// Checkout alone does not change the plan
		assert.Equal(t, platform.PlanTrial, subscription.Plan)
	})

	t.Run("cancelled subscription cannot check out", func(t *testing.T) {
		svc, repo, _ := newSubscriptionServiceForTest()
		subscription := newTrial(t, tenantID)
		require.NoError(t, subscription.Cancel())

		repo.On("FindByTenant", ctx, tenantID).Return(subscription, nil)

		_, err := svc.StartCheckout(ctx, tenantID, StartCheckoutRequest{
			Plan:       "solo",
			SuccessURL: "https://app.example.test/billing/done",
			CancelURL:  "https://app.example.test/billing",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SUBSCRIPTION_CANCELLED", domainErr.Code)
	})
}

func TestSubscriptionService_HandleWebhook(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("first payment activates the plan", func(t *testing.T) {
		svc, repo, provider := newSubscriptionServiceForTest()
		subscription := newTrial(t, tenantID)
		require.NoError(t, subscription.AttachProviderRef("stub_sub_abc"))

		repo.On("FindByProviderRef", ctx, "stub_sub_abc").Return(subscription, nil)
		repo.On("Save", ctx, subscription).Return(nil)

		payload, signature := signedEvent(t, provider, "payment_succeeded", "stub_sub_abc", "crew", decimal.NewFromInt(99))
		require.NoError(t, svc.HandleWebhook(ctx, payload, signature))

		assert.Equal(t, platform.PlanCrew, subscription.Plan)
		assert.Equal(t, platform.SubscriptionStatusActive, subscription.Status)
		assert.True(t, subscription.LastPaymentAmount.Equal(decimal.NewFromInt(99)))
		assert.NotNil(t, subscription.CurrentPeriodEnd)
	})

	t.Run("failed renewal marks past due", func(t *testing.T) {
		svc, repo, provider := newSubscriptionServiceForTest()
		subscription := newTrial(t, tenantID)
		require.NoError(t, subscription.ActivatePlan(platform.PlanSolo, "stub_sub_def", time.Now().AddDate(0, 1, 0)))

		repo.On("FindByProviderRef", ctx, "stub_sub_def").Return(subscription, nil)
		repo.On("Save", ctx, subscription).Return(nil)

		payload, signature := signedEvent(t, provider, "payment_failed", "stub_sub_def", "", decimal.Zero)
		require.NoError(t, svc.HandleWebhook(ctx, payload, signature))

		assert.Equal(t, platform.SubscriptionStatusPastDue, subscription.Status)

		// A later successful charge recovers the subscription
		payload, signature = signedEvent(t, provider, "payment_succeeded", "stub_sub_def", "solo", decimal.NewFromInt(29))
		require.NoError(t, svc.HandleWebhook(ctx, payload, signature))
		assert.Equal(t, platform.SubscriptionStatusActive, subscription.Status)
	})

	t.Run("provider-side cancellation", func(t *testing.T) {
		svc, repo, provider := newSubscriptionServiceForTest()
		subscription := newTrial(t, tenantID)
		require.NoError(t, subscription.ActivatePlan(platform.PlanSolo, "stub_sub_ghi", time.Now().AddDate(0, 1, 0)))

		repo.On("FindByProviderRef", ctx, "stub_sub_ghi").Return(subscription, nil)
		repo.On("Save", ctx, subscription).Return(nil)

		payload, signature := signedEvent(t, provider, "subscription_cancelled", "stub_sub_ghi", "", decimal.Zero)
		require.NoError(t, svc.HandleWebhook(ctx, payload, signature))

		assert.Equal(t, platform.SubscriptionStatusCancelled, subscription.Status)
		assert.NotNil(t, subscription.CancelledAt)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		svc, repo, provider := newSubscriptionServiceForTest()

		payload, _ := signedEvent(t, provider, "payment_succeeded", "stub_sub_abc", "crew", decimal.NewFromInt(99))
		err := svc.HandleWebhook(ctx, payload, "deadbeef")

		assert.ErrorIs(t, err, payment.ErrInvalidSignature)
		repo.AssertNotCalled(t, "FindByProviderRef")
	})
}

func TestSubscriptionService_Cancel(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()
	svc, repo, _ := newSubscriptionServiceForTest()

	subscription := newTrial(t, tenantID)
	require.NoError(t, subscription.ActivatePlan(platform.PlanCrew, "stub_sub_xyz", time.Now().AddDate(0, 1, 0)))

	repo.On("FindByTenant", ctx, tenantID).Return(subscription, nil)
	repo.On("Save", ctx, subscription).Return(nil)

	resp, err := svc.Cancel(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}
