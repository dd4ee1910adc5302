package identity

import (
	"context"
	"errors"

	"github.com/fieldworks/backend/internal/domain/identity"
	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserService handles team member account management within a tenant
type UserService struct {
	userRepo         identity.UserRepository
	subscriptionRepo platform.SubscriptionRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, subscriptionRepo platform.SubscriptionRepository) *UserService {
	return &UserService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// Create creates a new account. The tenant's subscription plan caps how
// many active accounts it may hold.
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	if err := s.checkSeatLimit(ctx, tenantID); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, tenantID, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	user, err := identity.NewUser(tenantID, req.Email, req.Password, identity.UserRole(req.Role))
	if err != nil {
		return nil, err
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves an account scoped to a tenant
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves accounts for a tenant with pagination
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := buildUserFilter(filter)

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Update updates display name and role
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := user.SetRole(identity.UserRole(*req.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes a user's own password after verifying the old one
func (s *UserService) ChangePassword(ctx context.Context, tenantID, id uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}

// Activate reinstates a deactivated account. Reactivation counts
// against the plan's seat limit.
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	if err := s.checkSeatLimit(ctx, tenantID); err != nil {
		return nil, err
	}
	return s.transition(ctx, tenantID, id, (*identity.User).Activate)
}

// Deactivate deactivates an account, freeing its seat
func (s *UserService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, tenantID, id, (*identity.User).Deactivate)
}

// Unlock clears a lockout before its timer expires
func (s *UserService) Unlock(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, tenantID, id, (*identity.User).Unlock)
}

// Delete removes an account permanently
func (s *UserService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.userRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *UserService) transition(ctx context.Context, tenantID, id uuid.UUID, fn func(*identity.User) error) (*UserResponse, error) {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := fn(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

func (s *UserService) findForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *UserService) checkSeatLimit(ctx context.Context, tenantID uuid.UUID) error {
	subscription, err := s.subscriptionRepo.FindByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if !subscription.IsUsable() {
		return shared.NewDomainError("SUBSCRIPTION_INACTIVE", "Subscription is not active")
	}

	active, err := s.userRepo.CountActiveForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if active >= int64(subscription.Plan.SeatLimit()) {
		return shared.NewDomainError("SEAT_LIMIT_REACHED", "Subscription plan seat limit reached")
	}
	return nil
}

func buildUserFilter(filter UserListFilter) shared.Filter {
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
		orderDir = "asc"
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
