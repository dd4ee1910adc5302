package job

import (
	"fmt"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobStatus represents the status of a job
type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// IsValid checks if the status is a valid JobStatus
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusScheduled, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusScheduled:
		return target == JobStatusInProgress || target == JobStatusCancelled
	case JobStatusInProgress:
		return target == JobStatusCompleted || target == JobStatusCancelled
	case JobStatusCompleted, JobStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if the status admits no further transitions
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// JobAssignment links a staff member to a job
type JobAssignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_staff,priority:1"`
	StaffID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_staff,priority:2"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (JobAssignment) TableName() string {
	return "job_assignments"
}

// Job represents a scheduled unit of field work for a customer.
// It is the aggregate root for scheduling, crew assignment and the work
// lifecycle.
type Job struct {
	shared.TenantEntity
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerName   string    `gorm:"type:varchar(200);not null"`
	Title          string    `gorm:"type:varchar(200);not null"`
	Description    string    `gorm:"type:text"`
	Address        string    `gorm:"type:text"`
	Status         JobStatus `gorm:"type:varchar(20);not null;default:'scheduled'"`
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	Assignments    []JobAssignment `gorm:"foreignKey:JobID"`
	Notes          string          `gorm:"type:text"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Job) TableName() string {
	return "jobs"
}

// NewJob creates a new job in scheduled status
func NewJob(tenantID, customerID uuid.UUID, customerName, title string) (*Job, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}

	return &Job{
		TenantEntity: shared.NewTenantEntity(tenantID),
		CustomerID:   customerID,
		CustomerName: customerName,
		Title:        title,
		Status:       JobStatusScheduled,
		Assignments:  make([]JobAssignment, 0),
	}, nil
}

// Reschedule sets the planned time window.
// Only allowed before the work starts.
func (j *Job) Reschedule(start, end *time.Time) error {
	if j.Status != JobStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Cannot reschedule a job that has started")
	}
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_WINDOW", "Scheduled end cannot precede scheduled start")
	}
	j.ScheduledStart = start
	j.ScheduledEnd = end
	j.Touch()
	return nil
}

// AssignStaff adds a staff member to the job crew.
// Assigning the same member twice is a no-op error.
func (j *Job) AssignStaff(staffID uuid.UUID) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign staff to a closed job")
	}
	if staffID == uuid.Nil {
		return shared.NewDomainError("INVALID_STAFF", "Staff ID cannot be empty")
	}
	for _, a := range j.Assignments {
		if a.StaffID == staffID {
			return shared.NewDomainError("ALREADY_ASSIGNED", "Staff member is already assigned to this job")
		}
	}
	j.Assignments = append(j.Assignments, JobAssignment{
		ID:        uuid.New(),
		JobID:     j.ID,
		StaffID:   staffID,
		CreatedAt: time.Now(),
	})
	j.Touch()
	return nil
}

// UnassignStaff removes a staff member from the job crew
func (j *Job) UnassignStaff(staffID uuid.UUID) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot unassign staff from a closed job")
	}
	for idx, a := range j.Assignments {
		if a.StaffID == staffID {
			j.Assignments = append(j.Assignments[:idx], j.Assignments[idx+1:]...)
			j.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_ASSIGNED", "Staff member is not assigned to this job")
}

// IsAssigned returns true if the staff member is on the job crew
func (j *Job) IsAssigned(staffID uuid.UUID) bool {
	for _, a := range j.Assignments {
		if a.StaffID == staffID {
			return true
		}
	}
	return false
}

// SetDescription sets the job description
func (j *Job) SetDescription(description string) {
	j.Description = description
	j.Touch()
}

// SetAddress sets the job site address
func (j *Job) SetAddress(address string) {
	j.Address = address
	j.Touch()
}

// SetNotes sets free-form notes
func (j *Job) SetNotes(notes string) {
	j.Notes = notes
	j.Touch()
}

// Start moves the job into in_progress
func (j *Job) Start() error {
	if !j.Status.CanTransitionTo(JobStatusInProgress) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot start job in %s status", j.Status))
	}
	now := time.Now()
	j.Status = JobStatusInProgress
	j.StartedAt = &now
	j.UpdatedAt = now
	return nil
}

// Complete marks the job as finished
func (j *Job) Complete() error {
	if !j.Status.CanTransitionTo(JobStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot complete job in %s status", j.Status))
	}
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
	return nil
}

// Cancel cancels the job
func (j *Job) Cancel(reason string) error {
	if !j.Status.CanTransitionTo(JobStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel job in %s status", j.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	now := time.Now()
	j.Status = JobStatusCancelled
	j.CancelledAt = &now
	j.CancelReason = reason
	j.UpdatedAt = now
	return nil
}

// IsOpen returns true if the job is neither completed nor cancelled
func (j *Job) IsOpen() bool {
	return !j.Status.IsTerminal()
}
