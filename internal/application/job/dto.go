package job

import (
	"time"

	jobdomain "github.com/fieldworks/backend/internal/domain/job"
	"github.com/google/uuid"
)

// CreateJobRequest represents a request to create a new job
type CreateJobRequest struct {
	CustomerID     uuid.UUID   `json:"customer_id" binding:"required"`
	Title          string      `json:"title" binding:"required,min=1,max=200"`
	Description    string      `json:"description" binding:"max=2000"`
	Address        string      `json:"address" binding:"max=500"`
	ScheduledStart *time.Time  `json:"scheduled_start"`
	ScheduledEnd   *time.Time  `json:"scheduled_end"`
	StaffIDs       []uuid.UUID `json:"staff_ids"`
	Notes          string      `json:"notes" binding:"max=2000"`
}

// UpdateJobRequest represents a request to update a job
type UpdateJobRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Notes       *string `json:"notes" binding:"omitempty,max=2000"`
}

// RescheduleJobRequest represents a request to change a job's schedule
type RescheduleJobRequest struct {
	ScheduledStart *time.Time `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
}

// CancelJobRequest carries the reason for cancelling a job
type CancelJobRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// JobListFilter represents filter options for job lists
type JobListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// JobResponse represents a job in API responses
type JobResponse struct {
	ID             uuid.UUID   `json:"id"`
	TenantID       uuid.UUID   `json:"tenant_id"`
	CustomerID     uuid.UUID   `json:"customer_id"`
	CustomerName   string      `json:"customer_name"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Address        string      `json:"address"`
	Status         string      `json:"status"`
	ScheduledStart *time.Time  `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time  `json:"scheduled_end,omitempty"`
	StaffIDs       []uuid.UUID `json:"staff_ids"`
	Notes          string      `json:"notes"`
	StartedAt      *time.Time  `json:"started_at,omitempty"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
	CancelledAt    *time.Time  `json:"cancelled_at,omitempty"`
	CancelReason   string      `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// JobListResponse represents a job list item
type JobListResponse struct {
	ID             uuid.UUID  `json:"id"`
	CustomerID     uuid.UUID  `json:"customer_id"`
	CustomerName   string     `json:"customer_name"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToJobResponse converts a domain Job to JobResponse
func ToJobResponse(j *jobdomain.Job) JobResponse {
	staffIDs := make([]uuid.UUID, 0, len(j.Assignments))
	for _, a := range j.Assignments {
		staffIDs = append(staffIDs, a.StaffID)
	}
	return JobResponse{
		ID:             j.ID,
		TenantID:       j.TenantID,
		CustomerID:     j.CustomerID,
		CustomerName:   j.CustomerName,
		Title:          j.Title,
		Description:    j.Description,
		Address:        j.Address,
		Status:         j.Status.String(),
		ScheduledStart: j.ScheduledStart,
		ScheduledEnd:   j.ScheduledEnd,
		StaffIDs:       staffIDs,
		Notes:          j.Notes,
		StartedAt:      j.StartedAt,
		CompletedAt:    j.CompletedAt,
		CancelledAt:    j.CancelledAt,
		CancelReason:   j.CancelReason,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

// ToJobListResponses converts domain jobs to list responses
func ToJobListResponses(jobs []jobdomain.Job) []JobListResponse {
	responses := make([]JobListResponse, 0, len(jobs))
	for i := range jobs {
		j := &jobs[i]
		responses = append(responses, JobListResponse{
			ID:             j.ID,
			CustomerID:     j.CustomerID,
			CustomerName:   j.CustomerName,
			Title:          j.Title,
			Status:         j.Status.String(),
			ScheduledStart: j.ScheduledStart,
			ScheduledEnd:   j.ScheduledEnd,
			CreatedAt:      j.CreatedAt,
		})
	}
	return responses
}
