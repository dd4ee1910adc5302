package workforce

import (
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeEntry records time a staff member spent on a job.
// An entry with a nil EndedAt is a running clock; a staff member has at
// most one running entry at a time, enforced at the service layer.
type TimeEntry struct {
	shared.TenantEntity
	StaffID   uuid.UUID `gorm:"type:uuid;not null;index"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;index"`
	StartedAt time.Time `gorm:"not null"`
	EndedAt   *time.Time
	Notes     string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TimeEntry) TableName() string {
	return "time_entries"
}

// NewTimeEntry starts a new running time entry
func NewTimeEntry(tenantID, staffID, jobID uuid.UUID, startedAt time.Time) (*TimeEntry, error) {
	if staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STAFF", "Staff ID cannot be empty")
	}
	if jobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB", "Job ID cannot be empty")
	}
	if startedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_START", "Start time cannot be zero")
	}

	return &TimeEntry{
		TenantEntity: shared.NewTenantEntity(tenantID),
		StaffID:      staffID,
		JobID:        jobID,
		StartedAt:    startedAt,
	}, nil
}

// Stop closes the running entry at the given time
func (e *TimeEntry) Stop(endedAt time.Time) error {
	if e.EndedAt != nil {
		return shared.NewDomainError("ALREADY_STOPPED", "Time entry is already stopped")
	}
	if !endedAt.After(e.StartedAt) {
		return shared.NewDomainError("INVALID_END", "End time must be after start time")
	}
	e.EndedAt = &endedAt
	e.Touch()
	return nil
}

// Adjust corrects the recorded window of a stopped entry
func (e *TimeEntry) Adjust(startedAt, endedAt time.Time) error {
	if e.EndedAt == nil {
		return shared.NewDomainError("STILL_RUNNING", "Cannot adjust a running time entry")
	}
	if !endedAt.After(startedAt) {
		return shared.NewDomainError("INVALID_END", "End time must be after start time")
	}
	e.StartedAt = startedAt
	e.EndedAt = &endedAt
	e.Touch()
	return nil
}

// SetNotes sets free-form notes on the entry
func (e *TimeEntry) SetNotes(notes string) {
	e.Notes = notes
	e.Touch()
}

// IsRunning returns true if the entry has not been stopped
func (e *TimeEntry) IsRunning() bool {
	return e.EndedAt == nil
}

// Duration returns the elapsed time of a stopped entry, or the elapsed
// time so far for a running one
func (e *TimeEntry) Duration(now time.Time) time.Duration {
	if e.EndedAt != nil {
		return e.EndedAt.Sub(e.StartedAt)
	}
	return now.Sub(e.StartedAt)
}

// Hours returns the entry duration in decimal hours, for billing
func (e *TimeEntry) Hours(now time.Time) decimal.Decimal {
	return decimal.NewFromFloat(e.Duration(now).Hours())
}
