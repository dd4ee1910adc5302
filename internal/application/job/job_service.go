package job

import (
	"context"
	"time"

	jobdomain "github.com/fieldworks/backend/internal/domain/job"
	"github.com/fieldworks/backend/internal/domain/partner"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/workforce"
	"github.com/google/uuid"
)

// JobService handles job-related business operations
type JobService struct {
	jobRepo       jobdomain.JobRepository
	customerRepo  partner.CustomerRepository
	staffRepo     workforce.StaffRepository
	timeEntryRepo workforce.TimeEntryRepository
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo jobdomain.JobRepository,
	customerRepo partner.CustomerRepository,
	staffRepo workforce.StaffRepository,
	timeEntryRepo workforce.TimeEntryRepository,
) *JobService {
	return &JobService{
		jobRepo:       jobRepo,
		customerRepo:  customerRepo,
		staffRepo:     staffRepo,
		timeEntryRepo: timeEntryRepo,
	}
}

// Create creates a new scheduled job
func (s *JobService) Create(ctx context.Context, tenantID uuid.UUID, req CreateJobRequest) (*JobResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_ARCHIVED", "Cannot create jobs for an archived customer")
	}

	j, err := jobdomain.NewJob(tenantID, customer.ID, customer.Name, req.Title)
	if err != nil {
		return nil, err
	}

	if req.ScheduledStart != nil || req.ScheduledEnd != nil {
		if err := j.Reschedule(req.ScheduledStart, req.ScheduledEnd); err != nil {
			return nil, err
		}
	}
	if req.Description != "" {
		j.SetDescription(req.Description)
	}
	if req.Address != "" {
		j.SetAddress(req.Address)
	}
	if req.Notes != "" {
		j.SetNotes(req.Notes)
	}

	for _, staffID := range req.StaffIDs {
		if err := s.assignStaff(ctx, tenantID, j, staffID); err != nil {
			return nil, err
		}
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// GetByID retrieves a job by ID
func (s *JobService) GetByID(ctx context.Context, tenantID, jobID uuid.UUID) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// List retrieves jobs with filtering and pagination
func (s *JobService) List(ctx context.Context, tenantID uuid.UUID, filter JobListFilter) ([]JobListResponse, int64, error) {
	domainFilter := buildJobFilter(filter)

	jobs, err := s.jobRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.jobRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToJobListResponses(jobs), total, nil
}

// ListByCustomer retrieves jobs for a customer
func (s *JobService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter JobListFilter) ([]JobListResponse, int64, error) {
	domainFilter := buildJobFilter(filter)

	jobs, err := s.jobRepo.FindByCustomer(ctx, tenantID, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	domainFilter.Filters["customer_id"] = customerID
	total, err := s.jobRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToJobListResponses(jobs), total, nil
}

// ListByStaff retrieves jobs a staff member is assigned to
func (s *JobService) ListByStaff(ctx context.Context, tenantID, staffID uuid.UUID, filter JobListFilter) ([]JobListResponse, error) {
	domainFilter := buildJobFilter(filter)

	jobs, err := s.jobRepo.FindByStaff(ctx, tenantID, staffID, domainFilter)
	if err != nil {
		return nil, err
	}

	return ToJobListResponses(jobs), nil
}

// Schedule returns jobs whose scheduled start falls within the window,
// earliest first. Used for the dispatch calendar.
func (s *JobService) Schedule(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]JobListResponse, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Window end must be after start")
	}

	jobs, err := s.jobRepo.FindScheduledBetween(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	return ToJobListResponses(jobs), nil
}

// Update updates a job's descriptive fields
func (s *JobService) Update(ctx context.Context, tenantID, jobID uuid.UUID, req UpdateJobRequest) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	if j.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot modify a completed or cancelled job")
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, shared.NewDomainError("INVALID_TITLE", "Job title cannot be empty")
		}
		j.Title = *req.Title
		j.Touch()
	}
	if req.Description != nil {
		j.SetDescription(*req.Description)
	}
	if req.Address != nil {
		j.SetAddress(*req.Address)
	}
	if req.Notes != nil {
		j.SetNotes(*req.Notes)
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// Reschedule changes a job's scheduled window
func (s *JobService) Reschedule(ctx context.Context, tenantID, jobID uuid.UUID, req RescheduleJobRequest) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	if err := j.Reschedule(req.ScheduledStart, req.ScheduledEnd); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// AssignStaff adds a staff member to a job's crew
func (s *JobService) AssignStaff(ctx context.Context, tenantID, jobID, staffID uuid.UUID) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	if err := s.assignStaff(ctx, tenantID, j, staffID); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// UnassignStaff removes a staff member from a job's crew
func (s *JobService) UnassignStaff(ctx context.Context, tenantID, jobID, staffID uuid.UUID) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	if err := j.UnassignStaff(staffID); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// Start moves a scheduled job into progress
func (s *JobService) Start(ctx context.Context, tenantID, jobID uuid.UUID) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	if err := j.Start(); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// Complete marks an in-progress job as completed. Running time entries
// against the job must be stopped first.
func (s *JobService) Complete(ctx context.Context, tenantID, jobID uuid.UUID) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	if err := j.Complete(); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// Cancel cancels a job that has not completed
func (s *JobService) Cancel(ctx context.Context, tenantID, jobID uuid.UUID, reason string) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	if err := j.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// Delete removes a job with no recorded time. Jobs with time entries
// are business records and can only be cancelled.
func (s *JobService) Delete(ctx context.Context, tenantID, jobID uuid.UUID) error {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return err
	}

	if j.Status == jobdomain.JobStatusInProgress {
		return shared.NewDomainError("CANNOT_DELETE", "Cannot delete a job in progress")
	}

	entries, err := s.timeEntryRepo.CountByJob(ctx, tenantID, jobID)
	if err != nil {
		return err
	}
	if entries > 0 {
		return shared.NewDomainError("JOB_HAS_TIME_ENTRIES", "Cannot delete a job with recorded time")
	}

	return s.jobRepo.DeleteForTenant(ctx, tenantID, jobID)
}

// assignStaff validates the staff member before adding them to the crew
func (s *JobService) assignStaff(ctx context.Context, tenantID uuid.UUID, j *jobdomain.Job, staffID uuid.UUID) error {
	member, err := s.staffRepo.FindByIDForTenant(ctx, tenantID, staffID)
	if err != nil {
		return err
	}
	if !member.IsActive() {
		return shared.NewDomainError("STAFF_INACTIVE", "Cannot assign an inactive staff member")
	}
	return j.AssignStaff(staffID)
}

// buildJobFilter converts an API-level job filter into a domain filter
// with defaults applied
func buildJobFilter(filter JobListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	return domainFilter
}
