package job

import (
	"context"
	"testing"
	"time"

	jobdomain "github.com/fieldworks/backend/internal/domain/job"
	"github.com/fieldworks/backend/internal/domain/partner"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockJobRepository is a mock implementation of job.JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*jobdomain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobdomain.Job), args.Error(1)
}

func (m *MockJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*jobdomain.Job, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobdomain.Job), args.Error(1)
}

func (m *MockJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]jobdomain.Job, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]jobdomain.Job), args.Error(1)
}

func (m *MockJobRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]jobdomain.Job, error) {
	args := m.Called(ctx, tenantID, customerID, filter)
	return args.Get(0).([]jobdomain.Job), args.Error(1)
}

func (m *MockJobRepository) FindByStaff(ctx context.Context, tenantID, staffID uuid.UUID, filter shared.Filter) ([]jobdomain.Job, error) {
	args := m.Called(ctx, tenantID, staffID, filter)
	return args.Get(0).([]jobdomain.Job), args.Error(1)
}

func (m *MockJobRepository) FindScheduledBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]jobdomain.Job, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).([]jobdomain.Job), args.Error(1)
}

func (m *MockJobRepository) Save(ctx context.Context, j *jobdomain.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJobRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockJobRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) CountOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByStatusForTenant(ctx context.Context, tenantID uuid.UUID, status partner.CustomerStatus, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, status, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockStaffRepository is a mock implementation of workforce.StaffRepository
type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.StaffMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workforce.StaffMember, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*workforce.StaffMember, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]workforce.StaffMember, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]workforce.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) Save(ctx context.Context, member *workforce.StaffMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockStaffRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockStaffRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockTimeEntryRepository is a mock implementation of workforce.TimeEntryRepository
type MockTimeEntryRepository struct {
	mock.Mock
}

func (m *MockTimeEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.TimeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workforce.TimeEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) FindByJob(ctx context.Context, tenantID, jobID uuid.UUID, filter shared.Filter) ([]workforce.TimeEntry, error) {
	args := m.Called(ctx, tenantID, jobID, filter)
	return args.Get(0).([]workforce.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) FindByStaff(ctx context.Context, tenantID, staffID uuid.UUID, filter shared.Filter) ([]workforce.TimeEntry, error) {
	args := m.Called(ctx, tenantID, staffID, filter)
	return args.Get(0).([]workforce.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) FindRunningByStaff(ctx context.Context, tenantID, staffID uuid.UUID) (*workforce.TimeEntry, error) {
	args := m.Called(ctx, tenantID, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) FindBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]workforce.TimeEntry, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).([]workforce.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) Save(ctx context.Context, entry *workforce.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) CountByJob(ctx context.Context, tenantID, jobID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTimeEntryRepository) CountByStaff(ctx context.Context, tenantID, staffID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, staffID)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Tests
// =============================================================================

func newJobServiceForTest() (*JobService, *MockJobRepository, *MockCustomerRepository, *MockStaffRepository, *MockTimeEntryRepository) {
	jobRepo := new(MockJobRepository)
	customerRepo := new(MockCustomerRepository)
	staffRepo := new(MockStaffRepository)
	timeEntryRepo := new(MockTimeEntryRepository)
	svc := NewJobService(jobRepo, customerRepo, staffRepo, timeEntryRepo)
	return svc, jobRepo, customerRepo, staffRepo, timeEntryRepo
}

func newTestCustomer(t *testing.T, tenantID uuid.UUID) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(tenantID, "Harbourview Builders")
	require.NoError(t, err)
	return customer
}

func newTestStaff(t *testing.T, tenantID uuid.UUID) *workforce.StaffMember {
	t.Helper()
	member, err := workforce.NewStaffMember(tenantID, "Dana Mills", "carpenter")
	require.NoError(t, err)
	return member
}

func TestJobService_Create(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("creates scheduled job with crew", func(t *testing.T) {
		svc, jobRepo, customerRepo, staffRepo, _ := newJobServiceForTest()
		customer := newTestCustomer(t, tenantID)
		member := newTestStaff(t, tenantID)

		customerRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		staffRepo.On("FindByIDForTenant", ctx, tenantID, member.ID).Return(member, nil)
		jobRepo.On("Save", ctx, mock.AnythingOfType("*job.Job")).Return(nil)

		start := time.Now().AddDate(0, 0, 7)
		end := start.Add(6 * time.Hour)
		resp, err := svc.Create(ctx, tenantID, CreateJobRequest{
			CustomerID:     customer.ID,
			Title:          "Kitchen remodel",
			Address:        "12 Water St",
			ScheduledStart: &start,
			ScheduledEnd:   &end,
			StaffIDs:       []uuid.UUID{member.ID},
		})

		require.NoError(t, err)
		assert.Equal(t, "scheduled", resp.Status)
		assert.Equal(t, customer.Name, resp.CustomerName)
		require.Len(t, resp.StaffIDs, 1)
		assert.Equal(t, member.ID, resp.StaffIDs[0])
	})

	t.Run("rejects inactive staff", func(t *testing.T) {
		svc, _, customerRepo, staffRepo, _ := newJobServiceForTest()
		customer := newTestCustomer(t, tenantID)
		member := newTestStaff(t, tenantID)
		require.NoError(t, member.Deactivate())

		customerRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		staffRepo.On("FindByIDForTenant", ctx, tenantID, member.ID).Return(member, nil)

		_, err := svc.Create(ctx, tenantID, CreateJobRequest{
			CustomerID: customer.ID,
			Title:      "Kitchen remodel",
			StaffIDs:   []uuid.UUID{member.ID},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STAFF_INACTIVE", domainErr.Code)
	})

	t.Run("rejects archived customer", func(t *testing.T) {
		svc, _, customerRepo, _, _ := newJobServiceForTest()
		customer := newTestCustomer(t, tenantID)
		require.NoError(t, customer.Archive())

		customerRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)

		_, err := svc.Create(ctx, tenantID, CreateJobRequest{CustomerID: customer.ID, Title: "Anything"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CUSTOMER_ARCHIVED", domainErr.Code)
	})
}

func TestJobService_Lifecycle(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	newScheduledJob := func(t *testing.T) *jobdomain.Job {
		t.Helper()
		j, err := jobdomain.NewJob(tenantID, uuid.New(), "Harbourview Builders", "Fence repair")
		require.NoError(t, err)
		return j
	}

	t.Run("start then complete", func(t *testing.T) {
		svc, jobRepo, _, _, _ := newJobServiceForTest()
		j := newScheduledJob(t)

		jobRepo.On("FindByIDForTenant", ctx, tenantID, j.ID).Return(j, nil)
		jobRepo.On("Save", ctx, j).Return(nil)

		resp, err := svc.Start(ctx, tenantID, j.ID)
		require.NoError(t, err)
		assert.Equal(t, "in_progress", resp.Status)
		assert.NotNil(t, resp.StartedAt)

		resp, err = svc.Complete(ctx, tenantID, j.ID)
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		assert.NotNil(t, resp.CompletedAt)
	})

	t.Run("cannot complete a scheduled job", func(t *testing.T) {
		svc, jobRepo, _, _, _ := newJobServiceForTest()
		j := newScheduledJob(t)

		jobRepo.On("FindByIDForTenant", ctx, tenantID, j.ID).Return(j, nil)

		_, err := svc.Complete(ctx, tenantID, j.ID)
		assert.Error(t, err)
	})

	t.Run("cancel with reason", func(t *testing.T) {
		svc, jobRepo, _, _, _ := newJobServiceForTest()
		j := newScheduledJob(t)

		jobRepo.On("FindByIDForTenant", ctx, tenantID, j.ID).Return(j, nil)
		jobRepo.On("Save", ctx, j).Return(nil)

		resp, err := svc.Cancel(ctx, tenantID, j.ID, "customer postponed")
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, "customer postponed", resp.CancelReason)
	})

	t.Run("update refused on completed job", func(t *testing.T) {
		svc, jobRepo, _, _, _ := newJobServiceForTest()
		j := newScheduledJob(t)
		require.NoError(t, j.Start())
		require.NoError(t, j.Complete())

		jobRepo.On("FindByIDForTenant", ctx, tenantID, j.ID).Return(j, nil)

		title := "Too late"
		_, err := svc.Update(ctx, tenantID, j.ID, UpdateJobRequest{Title: &title})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestJobService_Delete(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("deletes job without time entries", func(t *testing.T) {
		svc, jobRepo, _, _, timeEntryRepo := newJobServiceForTest()
		j, err := jobdomain.NewJob(tenantID, uuid.New(), "Harbourview Builders", "Small fix")
		require.NoError(t, err)

		jobRepo.On("FindByIDForTenant", ctx, tenantID, j.ID).Return(j, nil)
		timeEntryRepo.On("CountByJob", ctx, tenantID, j.ID).Return(int64(0), nil)
		jobRepo.On("DeleteForTenant", ctx, tenantID, j.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, j.ID))
		jobRepo.AssertExpectations(t)
	})

	t.Run("refuses job with recorded time", func(t *testing.T) {
		svc, jobRepo, _, _, timeEntryRepo := newJobServiceForTest()
		j, err := jobdomain.NewJob(tenantID, uuid.New(), "Harbourview Builders", "Big job")
		require.NoError(t, err)

		jobRepo.On("FindByIDForTenant", ctx, tenantID, j.ID).Return(j, nil)
		timeEntryRepo.On("CountByJob", ctx, tenantID, j.ID).Return(int64(4), nil)

		err = svc.Delete(ctx, tenantID, j.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "JOB_HAS_TIME_ENTRIES", domainErr.Code)
	})
}

func TestJobService_Schedule(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()
	svc, jobRepo, _, _, _ := newJobServiceForTest()

	from := time.Now()
	to := from.AddDate(0, 0, 7)

	j, err := jobdomain.NewJob(tenantID, uuid.New(), "Harbourview Builders", "Deck")
	require.NoError(t, err)

	jobRepo.On("FindScheduledBetween", ctx, tenantID, from, to).Return([]jobdomain.Job{*j}, nil)

	responses, err := svc.Schedule(ctx, tenantID, from, to)
	require.NoError(t, err)
	assert.Len(t, responses, 1)

	// Inverted window is rejected before hitting the repository
	_, err = svc.Schedule(ctx, tenantID, to, from)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_RANGE", domainErr.Code)
}
