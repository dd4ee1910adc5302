package platform

import (
	"context"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubscriptionRepository defines the persistence interface for subscriptions
type SubscriptionRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)
	FindByProviderRef(ctx context.Context, providerRef string) (*Subscription, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Subscription, error)
	FindByStatus(ctx context.Context, status SubscriptionStatus, filter shared.Filter) ([]Subscription, error)
	Save(ctx context.Context, subscription *Subscription) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// SupportThreadRepository defines the persistence interface for support threads
type SupportThreadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SupportThread, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SupportThread, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SupportThread, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SupportThread, error)
	Save(ctx context.Context, thread *SupportThread) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
