// Package payment provides PaymentProvider implementations for
// subscription billing.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ platform.PaymentProvider = (*StubProvider)(nil)

// ErrInvalidSignature is returned when a webhook signature does not match
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// StubProvider is a PaymentProvider for development and tests. It
// issues fake checkout URLs and verifies webhooks with an HMAC-SHA256
// signature over the raw payload, the same scheme the webhook endpoint
// would use against a real provider.
type StubProvider struct {
	webhookSecret []byte
	baseURL       string
}

// NewStubProvider creates a StubProvider with the given webhook secret
func NewStubProvider(webhookSecret string) *StubProvider {
	return &StubProvider{
		webhookSecret: []byte(webhookSecret),
		baseURL:       "https://pay.invalid",
	}
}

// Name identifies the provider
func (p *StubProvider) Name() string {
	return "stub"
}

// CreateCheckout starts a fake checkout session
func (p *StubProvider) CreateCheckout(ctx context.Context, req *platform.CheckoutRequest) (*platform.CheckoutSession, error) {
	if req == nil {
		return nil, errors.New("checkout request is required")
	}
	if req.TenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !req.Plan.IsValid() || req.Plan == platform.PlanTrial {
		return nil, shared.NewDomainError("INVALID_PLAN", "Checkout requires a paid plan")
	}

	ref := "stub_sub_" + uuid.NewString()
	return &platform.CheckoutSession{
		ProviderRef: ref,
		CheckoutURL: fmt.Sprintf("%s/checkout/%s?plan=%s", p.baseURL, ref, req.Plan),
		ExpiresAt:   time.Now().Add(30 * time.Minute),
	}, nil
}

// CancelSubscription cancels the fake provider-side subscription
func (p *StubProvider) CancelSubscription(ctx context.Context, providerRef string) error {
	if providerRef == "" {
		return errors.New("provider reference is required")
	}
	return nil
}

// webhookPayload is the stub's wire format for webhook events
type webhookPayload struct {
	Type        string          `json:"type"`
	ProviderRef string          `json:"provider_ref"`
	Plan        string          `json:"plan,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
	PeriodEnd   time.Time       `json:"period_end"`
}

// VerifyWebhook authenticates the payload with HMAC-SHA256 and parses it
func (p *StubProvider) VerifyWebhook(payload []byte, signature string) (*platform.PaymentEvent, error) {
	if !p.validSignature(payload, signature) {
		return nil, ErrInvalidSignature
	}

	var body webhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	eventType := platform.PaymentEventType(body.Type)
	if !eventType.IsValid() {
		return nil, fmt.Errorf("unknown webhook event type %q", body.Type)
	}
	if body.ProviderRef == "" {
		return nil, errors.New("webhook payload missing provider reference")
	}

	return &platform.PaymentEvent{
		Type:        eventType,
		ProviderRef: body.ProviderRef,
		Plan:        platform.SubscriptionPlan(body.Plan),
		Amount:      body.Amount,
		OccurredAt:  body.OccurredAt,
		PeriodEnd:   body.PeriodEnd,
	}, nil
}

// SignPayload computes the signature a webhook sender would attach.
// Exposed for tests and local tooling.
func (p *StubProvider) SignPayload(payload []byte) string {
	mac := hmac.New(sha256.New, p.webhookSecret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *StubProvider) validSignature(payload []byte, signature string) bool {
	if len(p.webhookSecret) == 0 || signature == "" {
		return false
	}
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, p.webhookSecret)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}
