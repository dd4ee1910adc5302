package platform

import (
	"context"
	"fmt"

	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SubscriptionService handles tenant subscription billing
type SubscriptionService struct {
	subscriptionRepo platform.SubscriptionRepository
	provider         platform.PaymentProvider
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subscriptionRepo platform.SubscriptionRepository, provider platform.PaymentProvider) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		provider:         provider,
	}
}

// GetForTenant retrieves a tenant's subscription
func (s *SubscriptionService) GetForTenant(ctx context.Context, tenantID uuid.UUID) (*SubscriptionResponse, error) {
	subscription, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := ToSubscriptionResponse(subscription)
	return &response, nil
}

// StartCheckout opens a provider checkout session for a paid plan and
// records the provider reference so later webhooks can be matched back
func (s *SubscriptionService) StartCheckout(ctx context.Context, tenantID uuid.UUID, req StartCheckoutRequest) (*CheckoutSessionResponse, error) {
	subscription, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if subscription.Status == platform.SubscriptionStatusCancelled {
		return nil, shared.NewDomainError("SUBSCRIPTION_CANCELLED", "Subscription has been cancelled")
	}

	plan := platform.SubscriptionPlan(req.Plan)
	session, err := s.provider.CreateCheckout(ctx, &platform.CheckoutRequest{
		TenantID:   tenantID,
		Plan:       plan,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		return nil, err
	}

	if err := subscription.AttachProviderRef(session.ProviderRef); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, err
	}

	return &CheckoutSessionResponse{
		ProviderRef: session.ProviderRef,
		CheckoutURL: session.CheckoutURL,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// HandleWebhook verifies and applies a provider notification. The first
// successful payment activates the purchased plan; later ones extend
// the billing period.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	subscription, err := s.subscriptionRepo.FindByProviderRef(ctx, event.ProviderRef)
	if err != nil {
		return err
	}

	switch event.Type {
	case platform.PaymentEventSucceeded:
		if subscription.Plan == platform.PlanTrial {
			if err := subscription.ActivatePlan(event.Plan, event.ProviderRef, event.PeriodEnd); err != nil {
				return err
			}
		}
		if err := subscription.RecordPayment(valueobject.NewMoneyUSD(event.Amount), event.OccurredAt, event.PeriodEnd); err != nil {
			return err
		}
	case platform.PaymentEventFailed:
		if err := subscription.MarkPastDue(); err != nil {
			return err
		}
	case platform.PaymentEventCancelled:
		if err := subscription.Cancel(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unhandled payment event type %q", event.Type)
	}

	return s.subscriptionRepo.Save(ctx, subscription)
}

// Cancel cancels a tenant's subscription with the provider and locally
func (s *SubscriptionService) Cancel(ctx context.Context, tenantID uuid.UUID) (*SubscriptionResponse, error) {
	subscription, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if subscription.ProviderRef != "" {
		if err := s.provider.CancelSubscription(ctx, subscription.ProviderRef); err != nil {
			return nil, err
		}
	}
	if err := subscription.Cancel(); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, err
	}

	response := ToSubscriptionResponse(subscription)
	return &response, nil
}

// List retrieves subscriptions across tenants, for platform administration
func (s *SubscriptionService) List(ctx context.Context, filter SubscriptionListFilter) ([]SubscriptionResponse, int64, error) {
	domainFilter := buildSubscriptionFilter(filter)

	subscriptions, err := s.subscriptionRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.subscriptionRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSubscriptionResponses(subscriptions), total, nil
}

func buildSubscriptionFilter(filter SubscriptionListFilter) shared.Filter {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "desc"
	}

	filters := make(map[string]interface{})
	if filter.Status != "" {
		filters["status"] = filter.Status
	}

	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Filters:  filters,
	}
}
