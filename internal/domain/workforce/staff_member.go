package workforce

import (
	"strings"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaffStatus represents the employment status of a staff member
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusInactive StaffStatus = "inactive" // No longer dispatchable
)

// IsValid checks if the status is a valid StaffStatus
func (s StaffStatus) IsValid() bool {
	switch s {
	case StaffStatusActive, StaffStatusInactive:
		return true
	}
	return false
}

// String returns the string representation of StaffStatus
func (s StaffStatus) String() string {
	return string(s)
}

// StaffMember represents a field worker or office employee of the tenant.
// Distinct from identity.User: a staff member may or may not have a login.
type StaffMember struct {
	shared.TenantEntity
	UserID     *uuid.UUID      `gorm:"type:uuid;index"` // Linked login account, if any
	Name       string          `gorm:"type:varchar(200);not null"`
	Email      string          `gorm:"type:varchar(200);index"`
	Phone      string          `gorm:"type:varchar(50)"`
	Trade      string          `gorm:"type:varchar(100)"` // e.g. plumber, electrician
	HourlyRate decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status     StaffStatus     `gorm:"type:varchar(20);not null;default:'active'"`
	Notes      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StaffMember) TableName() string {
	return "staff_members"
}

// NewStaffMember creates a new active staff member
func NewStaffMember(tenantID uuid.UUID, name, trade string) (*StaffMember, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Staff name cannot be empty")
	}
	if len(trimmed) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Staff name cannot exceed 200 characters")
	}

	return &StaffMember{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         trimmed,
		Trade:        strings.TrimSpace(trade),
		HourlyRate:   decimal.Zero,
		Status:       StaffStatusActive,
	}, nil
}

// Update updates the staff member's basic information
func (m *StaffMember) Update(name, trade string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Staff name cannot be empty")
	}
	m.Name = trimmed
	m.Trade = strings.TrimSpace(trade)
	m.Touch()
	return nil
}

// UpdateContact updates the staff member's contact details
func (m *StaffMember) UpdateContact(email, phone string) {
	m.Email = strings.ToLower(strings.TrimSpace(email))
	m.Phone = strings.TrimSpace(phone)
	m.Touch()
}

// SetHourlyRate sets the billable hourly rate
func (m *StaffMember) SetHourlyRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}
	m.HourlyRate = rate
	m.Touch()
	return nil
}

// LinkUser associates a login account with this staff member
func (m *StaffMember) LinkUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	m.UserID = &userID
	m.Touch()
	return nil
}

// Deactivate removes the staff member from dispatch without deleting history
func (m *StaffMember) Deactivate() error {
	if m.Status == StaffStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Staff member is already inactive")
	}
	m.Status = StaffStatusInactive
	m.Touch()
	return nil
}

// Activate returns the staff member to active status
func (m *StaffMember) Activate() error {
	if m.Status == StaffStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Staff member is already active")
	}
	m.Status = StaffStatusActive
	m.Touch()
	return nil
}

// IsActive returns true if the staff member is dispatchable
func (m *StaffMember) IsActive() bool {
	return m.Status == StaffStatusActive
}
