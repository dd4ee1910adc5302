package platform

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentEventType classifies webhook notifications from the provider
type PaymentEventType string

const (
	PaymentEventSucceeded PaymentEventType = "payment_succeeded"
	PaymentEventFailed    PaymentEventType = "payment_failed"
	PaymentEventCancelled PaymentEventType = "subscription_cancelled"
)

// IsValid checks if the event type is known
func (t PaymentEventType) IsValid() bool {
	switch t {
	case PaymentEventSucceeded, PaymentEventFailed, PaymentEventCancelled:
		return true
	default:
		return false
	}
}

// CheckoutRequest asks the provider to start a checkout for a plan
type CheckoutRequest struct {
	TenantID   uuid.UUID
	Plan       SubscriptionPlan
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the provider's handle for an in-flight checkout
type CheckoutSession struct {
	ProviderRef string // Stable reference the provider uses in later webhooks
	CheckoutURL string
	ExpiresAt   time.Time
}

// PaymentEvent is a verified webhook notification. Plan is set on
// payment_succeeded events and names the plan the charge was for.
type PaymentEvent struct {
	Type        PaymentEventType
	ProviderRef string
	Plan        SubscriptionPlan
	Amount      decimal.Decimal
	OccurredAt  time.Time
	PeriodEnd   time.Time
}

// PaymentProvider is the opaque billing gateway for tenant
// subscriptions. Protocol details stay behind this interface; the
// application only sees checkout sessions and verified events.
type PaymentProvider interface {
	// Name identifies the provider in logs and config
	Name() string

	// CreateCheckout starts a checkout session for a plan
	CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)

	// CancelSubscription cancels the provider-side subscription
	CancelSubscription(ctx context.Context, providerRef string) error

	// VerifyWebhook authenticates a webhook payload and parses it.
	// Returns an error for payloads that fail signature verification.
	VerifyWebhook(payload []byte, signature string) (*PaymentEvent, error)
}
