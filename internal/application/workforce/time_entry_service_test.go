package workforce

import (
	"context"
	"testing"
	"time"

	jobdomain "github.com/fieldworks/backend/internal/domain/job"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type timeEntryServiceMocks struct {
	timeEntryRepo *MockTimeEntryRepository
	staffRepo     *MockStaffRepository
	jobRepo       *MockJobRepository
}

func newTimeEntryServiceForTest() (*TimeEntryService, timeEntryServiceMocks) {
	mocks := timeEntryServiceMocks{
		timeEntryRepo: new(MockTimeEntryRepository),
		staffRepo:     new(MockStaffRepository),
		jobRepo:       new(MockJobRepository),
	}
	svc := NewTimeEntryService(mocks.timeEntryRepo, mocks.staffRepo, mocks.jobRepo)
	return svc, mocks
}

func newOpenJob(t *testing.T, tenantID uuid.UUID) *jobdomain.Job {
	t.Helper()
	j, err := jobdomain.NewJob(tenantID, uuid.New(), "Harbourview Builders", "Deck rebuild")
	require.NoError(t, err)
	require.NoError(t, j.Start())
	return j
}

func newActiveStaff(t *testing.T, tenantID uuid.UUID) *workforce.StaffMember {
	t.Helper()
	member, err := workforce.NewStaffMember(tenantID, "Dana Mills", "carpenter")
	require.NoError(t, err)
	return member
}

func TestTimeEntryService_ClockIn(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("starts running entry", func(t *testing.T) {
		svc, mocks := newTimeEntryServiceForTest()
		member := newActiveStaff(t, tenantID)
		j := newOpenJob(t, tenantID)

		mocks.staffRepo.On("FindByIDForTenant", ctx, tenantID, member.ID).Return(member, nil)
		mocks.jobRepo.On("FindByIDForTenant", ctx, tenantID, j.ID).Return(j, nil)
		mocks.timeEntryRepo.On("FindRunningByStaff", ctx, tenantID, member.ID).Return(nil, shared.ErrNotFound)
		mocks.timeEntryRepo.On("Save", ctx, mock.AnythingOfType("*workforce.TimeEntry")).Return(nil)

		resp, err := svc.ClockIn(ctx, tenantID, ClockInRequest{StaffID: member.ID, JobID: j.ID})
		require.NoError(t, err)
		assert.True(t, resp.Running)
		assert.Nil(t, resp.EndedAt)
	})

	t.Run("one running entry per member", func(t *testing.T) {
		svc, mocks := newTimeEntryServiceForTest()
		member := newActiveStaff(t, tenantID)
		j := newOpenJob(t, tenantID)
		running, err := workforce.NewTimeEntry(tenantID, member.ID, j.ID, time.Now().Add(-time.Hour))
		require.NoError(t, err)

		mocks.staffRepo.On("FindByIDForTenant", ctx, tenantID, member.ID).Return(member, nil)
		mocks.jobRepo.On("FindByIDForTenant", ctx, tenantID, j.ID).Return(j, nil)
		mocks.timeEntryRepo.On("FindRunningByStaff", ctx, tenantID, member.ID).Return(running, nil)

		_, err = svc.ClockIn(ctx, tenantID, ClockInRequest{StaffID: member.ID, JobID: j.ID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TIMER_ALREADY_RUNNING", domainErr.Code)
	})

	t.Run("rejects closed job", func(t *testing.T) {
		svc, mocks := newTimeEntryServiceForTest()
		member := newActiveStaff(t, tenantID)
		j := newOpenJob(t, tenantID)
		require.NoError(t, j.Complete())

		mocks.staffRepo.On("FindByIDForTenant", ctx, tenantID, member.ID).Return(member, nil)
		mocks.jobRepo.On("FindByIDForTenant", ctx, tenantID, j.ID).Return(j, nil)

		_, err := svc.ClockIn(ctx, tenantID, ClockInRequest{StaffID: member.ID, JobID: j.ID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "JOB_NOT_OPEN", domainErr.Code)
	})

	t.Run("rejects inactive member", func(t *testing.T) {
		svc, mocks := newTimeEntryServiceForTest()
		member := newActiveStaff(t, tenantID)
		require.NoError(t, member.Deactivate())

		mocks.staffRepo.On("FindByIDForTenant", ctx, tenantID, member.ID).Return(member, nil)

		_, err := svc.ClockIn(ctx, tenantID, ClockInRequest{StaffID: member.ID, JobID: uuid.New()})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STAFF_INACTIVE", domainErr.Code)
	})
}

func TestTimeEntryService_ClockOut(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("stops the running entry", func(t *testing.T) {
		svc, mocks := newTimeEntryServiceForTest()
		staffID := uuid.New()
		started := time.Now().Add(-2 * time.Hour)
		entry, err := workforce.NewTimeEntry(tenantID, staffID, uuid.New(), started)
		require.NoError(t, err)

		mocks.timeEntryRepo.On("FindRunningByStaff", ctx, tenantID, staffID).Return(entry, nil)
		mocks.timeEntryRepo.On("Save", ctx, entry).Return(nil)

		ended := started.Add(90 * time.Minute)
		resp, err := svc.ClockOut(ctx, tenantID, ClockOutRequest{StaffID: staffID, EndedAt: &ended})
		require.NoError(t, err)
		assert.False(t, resp.Running)
		require.NotNil(t, resp.EndedAt)
		assert.True(t, resp.Hours.Equal(decimal.NewFromFloat(1.5)))
	})

	t.Run("no running entry", func(t *testing.T) {
		svc, mocks := newTimeEntryServiceForTest()
		staffID := uuid.New()

		mocks.timeEntryRepo.On("FindRunningByStaff", ctx, tenantID, staffID).Return(nil, shared.ErrNotFound)

		_, err := svc.ClockOut(ctx, tenantID, ClockOutRequest{StaffID: staffID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_RUNNING_TIMER", domainErr.Code)
	})
}

func TestTimeEntryService_Adjust(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()
	svc, mocks := newTimeEntryServiceForTest()

	started := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	entry, err := workforce.NewTimeEntry(tenantID, uuid.New(), uuid.New(), started)
	require.NoError(t, err)
	require.NoError(t, entry.Stop(started.Add(4*time.Hour)))

	mocks.timeEntryRepo.On("FindByIDForTenant", ctx, tenantID, entry.ID).Return(entry, nil)
	mocks.timeEntryRepo.On("Save", ctx, entry).Return(nil)

	resp, err := svc.Adjust(ctx, tenantID, entry.ID, AdjustTimeEntryRequest{
		StartedAt: started,
		EndedAt:   started.Add(6 * time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, resp.Hours.Equal(decimal.NewFromInt(6)))
}

func TestTimeEntryService_JobTimeSummary(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()
	svc, mocks := newTimeEntryServiceForTest()

	j := newOpenJob(t, tenantID)
	member := newActiveStaff(t, tenantID)
	require.NoError(t, member.SetHourlyRate(decimal.NewFromInt(80)))

	started := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	first, err := workforce.NewTimeEntry(tenantID, member.ID, j.ID, started)
	require.NoError(t, err)
	require.NoError(t, first.Stop(started.Add(3*time.Hour)))
	second, err := workforce.NewTimeEntry(tenantID, member.ID, j.ID, started.Add(24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, second.Stop(started.Add(24*time.Hour+90*time.Minute)))

	mocks.jobRepo.On("FindByIDForTenant", ctx, tenantID, j.ID).Return(j, nil)
	mocks.timeEntryRepo.On("FindByJob", ctx, tenantID, j.ID, mock.AnythingOfType("shared.Filter")).
		Return([]workforce.TimeEntry{*first, *second}, nil)
	mocks.staffRepo.On("FindByIDForTenant", ctx, tenantID, member.ID).Return(member, nil).Once()

	summary, err := svc.JobTimeSummary(ctx, tenantID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.EntryCount)
	assert.True(t, summary.TotalHours.Equal(decimal.NewFromFloat(4.5)))
	assert.True(t, summary.LaborCost.Equal(decimal.NewFromInt(360)))
	mocks.staffRepo.AssertExpectations(t)
}
