package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/subscription"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/fieldworks/backend/internal/domain/shared"
)

var _ platform.PaymentProvider = (*StripeProvider)(nil)

// StripeConfig holds the Stripe keys and the price ids for the paid plans.
type StripeConfig struct {
	APIKey        string
	WebhookSecret string
	// PriceIDs maps plans to Stripe recurring price ids.
	PriceIDs map[platform.SubscriptionPlan]string
}

// Validate checks that the config can be used.
func (c *StripeConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("stripe api key is required")
	}
	if c.WebhookSecret == "" {
		return errors.New("stripe webhook secret is required")
	}
	for _, plan := range []platform.SubscriptionPlan{platform.PlanSolo, platform.PlanCrew} {
		if c.PriceIDs[plan] == "" {
			return fmt.Errorf("stripe price id missing for plan %s", plan)
		}
	}
	return nil
}

// StripeProvider bills tenant subscriptions through Stripe Checkout.
type StripeProvider struct {
	config *StripeConfig
	logger *zap.Logger
	// planByPrice is the inverse of config.PriceIDs, used to resolve the
	// purchased plan from webhook line items.
	planByPrice map[string]platform.SubscriptionPlan
}

// NewStripeProvider creates a StripeProvider and sets the global API key.
func NewStripeProvider(config *StripeConfig, logger *zap.Logger) (*StripeProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	stripe.Key = config.APIKey

	planByPrice := make(map[string]platform.SubscriptionPlan, len(config.PriceIDs))
	for plan, priceID := range config.PriceIDs {
		planByPrice[priceID] = plan
	}
	return &StripeProvider{
		config:      config,
		logger:      logger,
		planByPrice: planByPrice,
	}, nil
}

// Name identifies the provider.
func (p *StripeProvider) Name() string {
	return "stripe"
}

// CreateCheckout opens a Stripe Checkout session in subscription mode.
// The tenant id travels as the client reference so webhooks can be
// correlated even before the subscription id is known.
func (p *StripeProvider) CreateCheckout(ctx context.Context, req *platform.CheckoutRequest) (*platform.CheckoutSession, error) {
	if req == nil {
		return nil, errors.New("checkout request is required")
	}
	if !req.Plan.IsValid() || req.Plan == platform.PlanTrial {
		return nil, shared.NewDomainError("INVALID_PLAN", "Checkout requires a paid plan")
	}
	priceID := p.config.PriceIDs[req.Plan]

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(priceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.TenantID.String()),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		p.logger.Error("stripe checkout session failed",
			zap.String("tenant_id", req.TenantID.String()),
			zap.String("plan", string(req.Plan)),
			zap.Error(err))
		return nil, fmt.Errorf("create stripe checkout: %w", err)
	}

	p.logger.Info("stripe checkout session created",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("session_id", sess.ID))

	return &platform.CheckoutSession{
		ProviderRef: sess.ID,
		CheckoutURL: sess.URL,
		ExpiresAt:   time.Unix(sess.ExpiresAt, 0),
	}, nil
}

// CancelSubscription cancels the Stripe subscription immediately.
func (p *StripeProvider) CancelSubscription(ctx context.Context, providerRef string) error {
	if providerRef == "" {
		return errors.New("provider reference is required")
	}
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	if _, err := subscription.Cancel(providerRef, params); err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			// Already gone on the provider side. Local cancellation proceeds.
			p.logger.Warn("stripe subscription already cancelled",
				zap.String("provider_ref", providerRef))
			return nil
		}
		return fmt.Errorf("cancel stripe subscription: %w", err)
	}
	return nil
}

// VerifyWebhook checks the Stripe-Signature header and maps Stripe events
// onto the provider-neutral payment events the application consumes.
func (p *StripeProvider) VerifyWebhook(payload []byte, signature string) (*platform.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.config.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "invoice.payment_succeeded":
		return p.paymentSucceeded(event)
	case "invoice.payment_failed":
		return p.paymentEvent(event, platform.PaymentEventFailed)
	case "customer.subscription.deleted":
		return p.subscriptionDeleted(event)
	default:
		return nil, fmt.Errorf("unhandled stripe event type %q", event.Type)
	}
}

func (p *StripeProvider) paymentSucceeded(event stripe.Event) (*platform.PaymentEvent, error) {
	var inv stripe.Invoice
	if err := inv.UnmarshalJSON(event.Data.Raw); err != nil {
		return nil, fmt.Errorf("parse stripe invoice: %w", err)
	}
	out := &platform.PaymentEvent{
		Type:       platform.PaymentEventSucceeded,
		Amount:     decimal.New(inv.AmountPaid, -2),
		OccurredAt: time.Unix(event.Created, 0),
	}
	if inv.Subscription != nil {
		out.ProviderRef = inv.Subscription.ID
	}
	for _, line := range invLines(&inv) {
		if line.Price == nil {
			continue
		}
		if plan, ok := p.planByPrice[line.Price.ID]; ok {
			out.Plan = plan
		}
		if line.Period != nil {
			out.PeriodEnd = time.Unix(line.Period.End, 0)
		}
	}
	if out.ProviderRef == "" {
		return nil, errors.New("stripe invoice has no subscription reference")
	}
	return out, nil
}

func (p *StripeProvider) paymentEvent(event stripe.Event, kind platform.PaymentEventType) (*platform.PaymentEvent, error) {
	var inv stripe.Invoice
	if err := inv.UnmarshalJSON(event.Data.Raw); err != nil {
		return nil, fmt.Errorf("parse stripe invoice: %w", err)
	}
	if inv.Subscription == nil {
		return nil, errors.New("stripe invoice has no subscription reference")
	}
	return &platform.PaymentEvent{
		Type:        kind,
		ProviderRef: inv.Subscription.ID,
		OccurredAt:  time.Unix(event.Created, 0),
	}, nil
}

func (p *StripeProvider) subscriptionDeleted(event stripe.Event) (*platform.PaymentEvent, error) {
	var sub stripe.Subscription
	if err := sub.UnmarshalJSON(event.Data.Raw); err != nil {
		return nil, fmt.Errorf("parse stripe subscription: %w", err)
	}
	return &platform.PaymentEvent{
		Type:        platform.PaymentEventCancelled,
		ProviderRef: sub.ID,
		OccurredAt:  time.Unix(event.Created, 0),
	}, nil
}

func invLines(inv *stripe.Invoice) []*stripe.InvoiceLineItem {
	if inv.Lines == nil {
		return nil
	}
	return inv.Lines.Data
}
