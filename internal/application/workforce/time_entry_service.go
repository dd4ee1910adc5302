package workforce

import (
	"context"
	"errors"
	"time"

	jobdomain "github.com/fieldworks/backend/internal/domain/job"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeEntryService handles time tracking business logic
type TimeEntryService struct {
	timeEntryRepo workforce.TimeEntryRepository
	staffRepo     workforce.StaffRepository
	jobRepo       jobdomain.JobRepository
}

// NewTimeEntryService creates a new time entry service
func NewTimeEntryService(
	timeEntryRepo workforce.TimeEntryRepository,
	staffRepo workforce.StaffRepository,
	jobRepo jobdomain.JobRepository,
) *TimeEntryService {
	return &TimeEntryService{
		timeEntryRepo: timeEntryRepo,
		staffRepo:     staffRepo,
		jobRepo:       jobRepo,
	}
}

// ClockIn starts a running time entry for a staff member on a job.
// A staff member can have at most one running entry.
func (s *TimeEntryService) ClockIn(ctx context.Context, tenantID uuid.UUID, req ClockInRequest) (*TimeEntryResponse, error) {
	member, err := s.staffRepo.FindByIDForTenant(ctx, tenantID, req.StaffID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive() {
		return nil, shared.NewDomainError("STAFF_INACTIVE", "Inactive staff members cannot clock in")
	}

	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, req.JobID)
	if err != nil {
		return nil, err
	}
	if !j.IsOpen() {
		return nil, shared.NewDomainError("JOB_NOT_OPEN", "Cannot record time against a closed job")
	}

	running, err := s.timeEntryRepo.FindRunningByStaff(ctx, tenantID, req.StaffID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if running != nil {
		return nil, shared.NewDomainError("TIMER_ALREADY_RUNNING", "Staff member already has a running time entry")
	}

	startedAt := time.Now()
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	entry, err := workforce.NewTimeEntry(tenantID, req.StaffID, req.JobID, startedAt)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		entry.SetNotes(req.Notes)
	}

	if err := s.timeEntryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToTimeEntryResponse(entry, time.Now())
	return &response, nil
}

// ClockOut stops the staff member's running time entry
func (s *TimeEntryService) ClockOut(ctx context.Context, tenantID uuid.UUID, req ClockOutRequest) (*TimeEntryResponse, error) {
	entry, err := s.timeEntryRepo.FindRunningByStaff(ctx, tenantID, req.StaffID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_RUNNING_TIMER", "Staff member has no running time entry")
		}
		return nil, err
	}

	endedAt := time.Now()
	if req.EndedAt != nil {
		endedAt = *req.EndedAt
	}
	if err := entry.Stop(endedAt); err != nil {
		return nil, err
	}

	if err := s.timeEntryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToTimeEntryResponse(entry, endedAt)
	return &response, nil
}

// GetByID retrieves a time entry by ID
func (s *TimeEntryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TimeEntryResponse, error) {
	entry, err := s.timeEntryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToTimeEntryResponse(entry, time.Now())
	return &response, nil
}

// Adjust corrects the recorded window of a stopped entry
func (s *TimeEntryService) Adjust(ctx context.Context, tenantID, id uuid.UUID, req AdjustTimeEntryRequest) (*TimeEntryResponse, error) {
	entry, err := s.timeEntryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := entry.Adjust(req.StartedAt, req.EndedAt); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		entry.SetNotes(*req.Notes)
	}

	if err := s.timeEntryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToTimeEntryResponse(entry, time.Now())
	return &response, nil
}

// ListByJob retrieves time entries recorded against a job
func (s *TimeEntryService) ListByJob(ctx context.Context, tenantID, jobID uuid.UUID, filter TimeEntryListFilter) ([]TimeEntryResponse, error) {
	entries, err := s.timeEntryRepo.FindByJob(ctx, tenantID, jobID, buildTimeEntryFilter(filter))
	if err != nil {
		return nil, err
	}

	return ToTimeEntryResponses(entries, time.Now()), nil
}

// ListByStaff retrieves time entries recorded by a staff member
func (s *TimeEntryService) ListByStaff(ctx context.Context, tenantID, staffID uuid.UUID, filter TimeEntryListFilter) ([]TimeEntryResponse, error) {
	entries, err := s.timeEntryRepo.FindByStaff(ctx, tenantID, staffID, buildTimeEntryFilter(filter))
	if err != nil {
		return nil, err
	}

	return ToTimeEntryResponses(entries, time.Now()), nil
}

// ListBetween retrieves all time entries started within a window
func (s *TimeEntryService) ListBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]TimeEntryResponse, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "End of window must be after start")
	}

	entries, err := s.timeEntryRepo.FindBetween(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	return ToTimeEntryResponses(entries, time.Now()), nil
}

// JobTimeSummary aggregates hours and labor cost for a job. Running
// entries count up to now.
func (s *TimeEntryService) JobTimeSummary(ctx context.Context, tenantID, jobID uuid.UUID) (*JobTimeSummaryResponse, error) {
	if _, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID); err != nil {
		return nil, err
	}

	entries, err := s.timeEntryRepo.FindByJob(ctx, tenantID, jobID, shared.Filter{Page: 1, PageSize: 1000, OrderBy: "started_at", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rates := make(map[uuid.UUID]decimal.Decimal)
	totalHours := decimal.Zero
	laborCost := decimal.Zero

	for i := range entries {
		entry := &entries[i]
		hours := entry.Hours(now)
		totalHours = totalHours.Add(hours)

		rate, ok := rates[entry.StaffID]
		if !ok {
			member, err := s.staffRepo.FindByIDForTenant(ctx, tenantID, entry.StaffID)
			if err != nil {
				return nil, err
			}
			rate = member.HourlyRate
			rates[entry.StaffID] = rate
		}
		laborCost = laborCost.Add(hours.Mul(rate))
	}

	return &JobTimeSummaryResponse{
		JobID:      jobID,
		EntryCount: len(entries),
		TotalHours: totalHours,
		LaborCost:  laborCost.Round(2),
	}, nil
}

// Delete removes a time entry
func (s *TimeEntryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.timeEntryRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.timeEntryRepo.DeleteForTenant(ctx, tenantID, id)
}

func buildTimeEntryFilter(filter TimeEntryListFilter) shared.Filter {
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
		orderBy = "started_at"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "desc"
	}

	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Filters:  make(map[string]interface{}),
	}
}
