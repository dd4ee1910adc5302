package platform

import (
	"context"

	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSubscriptionRepository is a mock implementation of platform.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*platform.Subscription, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByProviderRef(ctx context.Context, providerRef string) (*platform.Subscription, error) {
	args := m.Called(ctx, providerRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]platform.Subscription, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]platform.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByStatus(ctx context.Context, status platform.SubscriptionStatus, filter shared.Filter) ([]platform.Subscription, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]platform.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, subscription *platform.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSupportThreadRepository is a mock implementation of platform.SupportThreadRepository
type MockSupportThreadRepository struct {
	mock.Mock
}

func (m *MockSupportThreadRepository) FindByID(ctx context.Context, id uuid.UUID) (*platform.SupportThread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.SupportThread), args.Error(1)
}

func (m *MockSupportThreadRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*platform.SupportThread, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.SupportThread), args.Error(1)
}

func (m *MockSupportThreadRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]platform.SupportThread, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]platform.SupportThread), args.Error(1)
}

func (m *MockSupportThreadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]platform.SupportThread, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]platform.SupportThread), args.Error(1)
}

func (m *MockSupportThreadRepository) Save(ctx context.Context, thread *platform.SupportThread) error {
	args := m.Called(ctx, thread)
	return args.Error(0)
}

func (m *MockSupportThreadRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupportThreadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
