package workforce

import (
	"testing"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaffMember(t *testing.T) {
	tenantID := uuid.New()

	member, err := NewStaffMember(tenantID, "  Jordan Reyes ", "plumber")
	require.NoError(t, err)

	assert.Equal(t, tenantID, member.TenantID)
	assert.Equal(t, "Jordan Reyes", member.Name)
	assert.Equal(t, "plumber", member.Trade)
	assert.Equal(t, StaffStatusActive, member.Status)
	assert.Nil(t, member.UserID)
	assert.True(t, member.HourlyRate.IsZero())
}

func TestNewStaffMember_Validation(t *testing.T) {
	_, err := NewStaffMember(uuid.New(), "", "plumber")
	assert.Error(t, err)

	_, err = NewStaffMember(uuid.New(), "   ", "plumber")
	assert.Error(t, err)
}

func TestStaffMember_SetHourlyRate(t *testing.T) {
	member, err := NewStaffMember(uuid.New(), "Jordan Reyes", "plumber")
	require.NoError(t, err)

	require.NoError(t, member.SetHourlyRate(decimal.NewFromFloat(62.50)))
	assert.Equal(t, "62.50", member.HourlyRate.StringFixed(2))

	assert.Error(t, member.SetHourlyRate(decimal.NewFromInt(-1)))
}

func TestStaffMember_ActivateDeactivate(t *testing.T) {
	member, err := NewStaffMember(uuid.New(), "Jordan Reyes", "plumber")
	require.NoError(t, err)

	require.NoError(t, member.Deactivate())
	assert.False(t, member.IsActive())
	assert.Error(t, member.Deactivate())

	require.NoError(t, member.Activate())
	assert.True(t, member.IsActive())
	assert.Error(t, member.Activate())
}

func TestStaffMember_LinkUser(t *testing.T) {
	member, err := NewStaffMember(uuid.New(), "Jordan Reyes", "plumber")
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, member.LinkUser(userID))
	require.NotNil(t, member.UserID)
	assert.Equal(t, userID, *member.UserID)

	assert.Error(t, member.LinkUser(uuid.Nil))
}

func TestNewTimeEntry(t *testing.T) {
	tenantID := uuid.New()
	staffID := uuid.New()
	jobID := uuid.New()
	start := time.Now()

	entry, err := NewTimeEntry(tenantID, staffID, jobID, start)
	require.NoError(t, err)

	assert.Equal(t, staffID, entry.StaffID)
	assert.Equal(t, jobID, entry.JobID)
	assert.True(t, entry.IsRunning())
	assert.Nil(t, entry.EndedAt)
}

func TestNewTimeEntry_Validation(t *testing.T) {
	_, err := NewTimeEntry(uuid.New(), uuid.Nil, uuid.New(), time.Now())
	assert.Error(t, err)

	_, err = NewTimeEntry(uuid.New(), uuid.New(), uuid.Nil, time.Now())
	assert.Error(t, err)

	_, err = NewTimeEntry(uuid.New(), uuid.New(), uuid.New(), time.Time{})
	assert.Error(t, err)
}

func TestTimeEntry_Stop(t *testing.T) {
	start := time.Now()
	entry, err := NewTimeEntry(uuid.New(), uuid.New(), uuid.New(), start)
	require.NoError(t, err)

	// End before start is rejected
	assert.Error(t, entry.Stop(start.Add(-time.Minute)))
	assert.True(t, entry.IsRunning())

	end := start.Add(2 * time.Hour)
	require.NoError(t, entry.Stop(end))
	assert.False(t, entry.IsRunning())
	assert.Equal(t, 2*time.Hour, entry.Duration(time.Now()))

	err = entry.Stop(end.Add(time.Hour))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_STOPPED", domainErr.Code)
}

func TestTimeEntry_Adjust(t *testing.T) {
	start := time.Now()
	entry, err := NewTimeEntry(uuid.New(), uuid.New(), uuid.New(), start)
	require.NoError(t, err)

	err = entry.Adjust(start, start.Add(time.Hour))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STILL_RUNNING", domainErr.Code)

	require.NoError(t, entry.Stop(start.Add(time.Hour)))

	newStart := start.Add(-time.Hour)
	require.NoError(t, entry.Adjust(newStart, start.Add(30*time.Minute)))
	assert.Equal(t, 90*time.Minute, entry.Duration(time.Now()))

	assert.Error(t, entry.Adjust(start, start))
}

func TestTimeEntry_Hours(t *testing.T) {
	start := time.Now()
	entry, err := NewTimeEntry(uuid.New(), uuid.New(), uuid.New(), start)
	require.NoError(t, err)
	require.NoError(t, entry.Stop(start.Add(90*time.Minute)))

	assert.Equal(t, "1.50", entry.Hours(time.Now()).StringFixed(2))
}
