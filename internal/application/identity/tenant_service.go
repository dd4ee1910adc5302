package identity

import (
	"context"
	"errors"

	"github.com/fieldworks/backend/internal/domain/identity"
	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultTrialDays is the trial length granted to newly registered tenants
const DefaultTrialDays = 14

// TenantService handles tenant lifecycle
type TenantService struct {
	tenantRepo       identity.TenantRepository
	userRepo         identity.UserRepository
	subscriptionRepo platform.SubscriptionRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	subscriptionRepo platform.SubscriptionRepository,
) *TenantService {
	return &TenantService{
		tenantRepo:       tenantRepo,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// RegisterResult is returned after tenant signup
type RegisterResult struct {
	Tenant TenantResponse `json:"tenant"`
	Owner  UserResponse   `json:"owner"`
}

// Register creates a tenant, its owner account, and a trial subscription
func (s *TenantService) Register(ctx context.Context, req RegisterTenantRequest) (*RegisterResult, error) {
	existing, err := s.tenantRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("CODE_TAKEN", "Tenant code is already in use")
	}

	tenant, err := identity.NewTenant(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.ContactEmail != "" || req.Phone != "" {
		if err := tenant.SetContact(req.ContactEmail, req.Phone, ""); err != nil {
			return nil, err
		}
	}

	owner, err := identity.NewUser(tenant.ID, req.OwnerEmail, req.OwnerPassword, identity.RoleOwner)
	if err != nil {
		return nil, err
	}
	if req.OwnerName != "" {
		if err := owner.SetDisplayName(req.OwnerName); err != nil {
			return nil, err
		}
	}

	subscription, err := platform.NewTrialSubscription(tenant.ID, DefaultTrialDays)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, owner); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Save(ctx, subscription); err != nil {
		return nil, err
	}

	return &RegisterResult{
		Tenant: ToTenantResponse(tenant),
		Owner:  ToUserResponse(owner),
	}, nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// List retrieves tenants with pagination, for platform administration
func (s *TenantService) List(ctx context.Context, filter TenantListFilter) ([]TenantResponse, int64, error) {
	domainFilter := buildTenantFilter(filter)

	tenants, err := s.tenantRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.tenantRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTenantResponses(tenants), total, nil
}

// Update updates tenant profile settings
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := tenant.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.ContactEmail != nil || req.Phone != nil || req.Address != nil {
		email := tenant.ContactEmail
		if req.ContactEmail != nil {
			email = *req.ContactEmail
		}
		phone := tenant.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		address := tenant.Address
		if req.Address != nil {
			address = *req.Address
		}
		if err := tenant.SetContact(email, phone, address); err != nil {
			return nil, err
		}
	}

	if req.DefaultTaxRate != nil {
		if err := tenant.SetDefaultTaxRate(*req.DefaultTaxRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		tenant.Notes = *req.Notes
		tenant.Touch()
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Suspend suspends a tenant, blocking all of its logins
func (s *TenantService) Suspend(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	return s.transition(ctx, id, (*identity.Tenant).Suspend)
}

// Activate reinstates a suspended tenant
func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	return s.transition(ctx, id, (*identity.Tenant).Activate)
}

func (s *TenantService) transition(ctx context.Context, id uuid.UUID, fn func(*identity.Tenant) error) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(tenant); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

func buildTenantFilter(filter TenantListFilter) shared.Filter {
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
		Search:   filter.Search,
		Filters:  filters,
	}
}
