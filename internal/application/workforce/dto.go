package workforce

import (
	"time"

	"github.com/fieldworks/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateStaffRequest represents the request to create a staff member
type CreateStaffRequest struct {
	Name       string           `json:"name" binding:"required,min=1,max=200"`
	Trade      string           `json:"trade" binding:"max=100"`
	Email      string           `json:"email" binding:"omitempty,email,max=200"`
	Phone      string           `json:"phone" binding:"max=50"`
	HourlyRate *decimal.Decimal `json:"hourly_rate"`
	Notes      string           `json:"notes"`
}

// UpdateStaffRequest represents the request to update a staff member
type UpdateStaffRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Trade      *string          `json:"trade" binding:"omitempty,max=100"`
	Email      *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone      *string          `json:"phone" binding:"omitempty,max=50"`
	HourlyRate *decimal.Decimal `json:"hourly_rate"`
	Notes      *string          `json:"notes"`
}

// StaffListFilter captures query parameters for listing staff
type StaffListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Trade    string `form:"trade"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// StaffResponse represents a staff member in API responses
type StaffResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     *uuid.UUID      `json:"user_id,omitempty"`
	Name       string          `json:"name"`
	Trade      string          `json:"trade"`
	Email      string          `json:"email,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Status     string          `json:"status"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// StaffListResponse is the compact staff representation for listings
type StaffListResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Trade      string          `json:"trade"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Status     string          `json:"status"`
}

// ToStaffResponse converts a domain staff member to a response DTO
func ToStaffResponse(m *workforce.StaffMember) StaffResponse {
	return StaffResponse{
		ID:         m.ID,
		UserID:     m.UserID,
		Name:       m.Name,
		Trade:      m.Trade,
		Email:      m.Email,
		Phone:      m.Phone,
		HourlyRate: m.HourlyRate,
		Status:     m.Status.String(),
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ToStaffListResponses converts domain staff members to list response DTOs
func ToStaffListResponses(members []workforce.StaffMember) []StaffListResponse {
	responses := make([]StaffListResponse, len(members))
	for i := range members {
		m := &members[i]
		responses[i] = StaffListResponse{
			ID:         m.ID,
			Name:       m.Name,
			Trade:      m.Trade,
			HourlyRate: m.HourlyRate,
			Status:     m.Status.String(),
		}
	}
	return responses
}

// ClockInRequest represents the request to start a running time entry
type ClockInRequest struct {
	StaffID   uuid.UUID  `json:"staff_id" binding:"required"`
	JobID     uuid.UUID  `json:"job_id" binding:"required"`
	StartedAt *time.Time `json:"started_at"`
	Notes     string     `json:"notes"`
}

// ClockOutRequest represents the request to stop a running time entry
type ClockOutRequest struct {
	StaffID uuid.UUID  `json:"staff_id" binding:"required"`
	EndedAt *time.Time `json:"ended_at"`
}

// AdjustTimeEntryRequest corrects the window of a stopped entry
type AdjustTimeEntryRequest struct {
	StartedAt time.Time `json:"started_at" binding:"required"`
	EndedAt   time.Time `json:"ended_at" binding:"required"`
	Notes     *string   `json:"notes"`
}

// TimeEntryListFilter captures query parameters for listing time entries
type TimeEntryListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// TimeEntryResponse represents a time entry in API responses
type TimeEntryResponse struct {
	ID        uuid.UUID       `json:"id"`
	StaffID   uuid.UUID       `json:"staff_id"`
	JobID     uuid.UUID       `json:"job_id"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   *time.Time      `json:"ended_at,omitempty"`
	Running   bool            `json:"running"`
	Hours     decimal.Decimal `json:"hours"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToTimeEntryResponse converts a domain time entry to a response DTO.
// Hours for a running entry are computed against now.
func ToTimeEntryResponse(e *workforce.TimeEntry, now time.Time) TimeEntryResponse {
	return TimeEntryResponse{
		ID:        e.ID,
		StaffID:   e.StaffID,
		JobID:     e.JobID,
		StartedAt: e.StartedAt,
		EndedAt:   e.EndedAt,
		Running:   e.IsRunning(),
		Hours:     e.Hours(now),
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ToTimeEntryResponses converts domain time entries to response DTOs
func ToTimeEntryResponses(entries []workforce.TimeEntry, now time.Time) []TimeEntryResponse {
	responses := make([]TimeEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToTimeEntryResponse(&entries[i], now)
	}
	return responses
}

// JobTimeSummaryResponse aggregates recorded time for one job
type JobTimeSummaryResponse struct {
	JobID      uuid.UUID       `json:"job_id"`
	EntryCount int             `json:"entry_count"`
	TotalHours decimal.Decimal `json:"total_hours"`
	LaborCost  decimal.Decimal `json:"labor_cost"`
}
