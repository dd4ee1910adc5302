package workforce

import (
	"context"
	"time"

	jobdomain "github.com/fieldworks/backend/internal/domain/job"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

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
