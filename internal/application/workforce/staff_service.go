package workforce

import (
	"context"
	"errors"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/workforce"
	"github.com/google/uuid"
)

// StaffService handles staff member business logic
type StaffService struct {
	staffRepo     workforce.StaffRepository
	timeEntryRepo workforce.TimeEntryRepository
}

// NewStaffService creates a new staff service
func NewStaffService(staffRepo workforce.StaffRepository, timeEntryRepo workforce.TimeEntryRepository) *StaffService {
	return &StaffService{
		staffRepo:     staffRepo,
		timeEntryRepo: timeEntryRepo,
	}
}

// Create creates a new staff member
func (s *StaffService) Create(ctx context.Context, tenantID uuid.UUID, req CreateStaffRequest) (*StaffResponse, error) {
	member, err := workforce.NewStaffMember(tenantID, req.Name, req.Trade)
	if err != nil {
		return nil, err
	}

	if req.Email != "" || req.Phone != "" {
		member.UpdateContact(req.Email, req.Phone)
	}
	if req.HourlyRate != nil {
		if err := member.SetHourlyRate(*req.HourlyRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		member.Notes = req.Notes
	}

	if err := s.staffRepo.Save(ctx, member); err != nil {
		return nil, err
	}

	response := ToStaffResponse(member)
	return &response, nil
}

// GetByID retrieves a staff member by ID
func (s *StaffService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StaffResponse, error) {
	member, err := s.staffRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToStaffResponse(member)
	return &response, nil
}

// List retrieves staff members for a tenant with pagination
func (s *StaffService) List(ctx context.Context, tenantID uuid.UUID, filter StaffListFilter) ([]StaffListResponse, int64, error) {
	domainFilter := buildStaffFilter(filter)

	members, err := s.staffRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.staffRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStaffListResponses(members), total, nil
}

// Update updates a staff member's details
func (s *StaffService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateStaffRequest) (*StaffResponse, error) {
	member, err := s.staffRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name := member.Name
	if req.Name != nil {
		name = *req.Name
	}
	trade := member.Trade
	if req.Trade != nil {
		trade = *req.Trade
	}
	if err := member.Update(name, trade); err != nil {
		return nil, err
	}

	email := member.Email
	if req.Email != nil {
		email = *req.Email
	}
	phone := member.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	member.UpdateContact(email, phone)

	if req.HourlyRate != nil {
		if err := member.SetHourlyRate(*req.HourlyRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		member.Notes = *req.Notes
		member.Touch()
	}

	if err := s.staffRepo.Save(ctx, member); err != nil {
		return nil, err
	}

	response := ToStaffResponse(member)
	return &response, nil
}

// LinkUser links a staff member to a login account
func (s *StaffService) LinkUser(ctx context.Context, tenantID, id, userID uuid.UUID) (*StaffResponse, error) {
	member, err := s.staffRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := member.LinkUser(userID); err != nil {
		return nil, err
	}

	if err := s.staffRepo.Save(ctx, member); err != nil {
		return nil, err
	}

	response := ToStaffResponse(member)
	return &response, nil
}

// Activate reactivates an inactive staff member
func (s *StaffService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*StaffResponse, error) {
	return s.transition(ctx, tenantID, id, (*workforce.StaffMember).Activate)
}

// Deactivate deactivates a staff member. Any running time entry must be
// stopped first.
func (s *StaffService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*StaffResponse, error) {
	running, err := s.timeEntryRepo.FindRunningByStaff(ctx, tenantID, id)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if running != nil {
		return nil, shared.NewDomainError("TIMER_RUNNING", "Staff member has a running time entry")
	}

	return s.transition(ctx, tenantID, id, (*workforce.StaffMember).Deactivate)
}

// Delete deletes a staff member. Members with recorded time entries must
// be deactivated instead.
func (s *StaffService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.staffRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	count, err := s.timeEntryRepo.CountByStaff(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("STAFF_HAS_TIME_ENTRIES", "Staff member has recorded time entries")
	}

	return s.staffRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *StaffService) transition(ctx context.Context, tenantID, id uuid.UUID, fn func(*workforce.StaffMember) error) (*StaffResponse, error) {
	member, err := s.staffRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := fn(member); err != nil {
		return nil, err
	}

	if err := s.staffRepo.Save(ctx, member); err != nil {
		return nil, err
	}

	response := ToStaffResponse(member)
	return &response, nil
}

func buildStaffFilter(filter StaffListFilter) shared.Filter {
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
		orderBy = "name"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "asc"
	}

	filters := make(map[string]interface{})
	if filter.Status != "" {
		filters["status"] = filter.Status
	}
	if filter.Trade != "" {
		filters["trade"] = filter.Trade
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
