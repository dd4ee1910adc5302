package identity

import (
	"regexp"
	"strings"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended" // Billing or abuse hold
)

// IsValid checks if the status is a valid TenantStatus
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended:
		return true
	}
	return false
}

// String returns the string representation of TenantStatus
func (s TenantStatus) String() string {
	return string(s)
}

var tenantCodePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,48}[a-z0-9]$`)

// Tenant represents one contracting business on the platform.
// All tenant-scoped aggregates reference its ID.
type Tenant struct {
	shared.BaseEntity
	Code           string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string       `gorm:"type:varchar(200);not null"`
	ContactEmail   string       `gorm:"type:varchar(200)"`
	Phone          string       `gorm:"type:varchar(50)"`
	Address        string       `gorm:"type:text"`
	DefaultTaxRate decimal.Decimal `gorm:"type:decimal(8,6);not null;default:0"`
	Status         TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes          string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new active tenant
func NewTenant(code, name string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	return &Tenant{
		BaseEntity:     shared.NewBaseEntity(),
		Code:           strings.ToLower(strings.TrimSpace(code)),
		Name:           strings.TrimSpace(name),
		DefaultTaxRate: decimal.Zero,
		Status:         TenantStatusActive,
	}, nil
}

// Update updates the tenant's display name
func (t *Tenant) Update(name string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(name)
	t.Touch()
	return nil
}

// SetContact updates the tenant's contact details
func (t *Tenant) SetContact(email, phone, address string) error {
	if email != "" && !userEmailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	t.ContactEmail = strings.ToLower(strings.TrimSpace(email))
	t.Phone = strings.TrimSpace(phone)
	t.Address = address
	t.Touch()
	return nil
}

// SetDefaultTaxRate sets the tax rate applied to new billing documents
func (t *Tenant) SetDefaultTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot exceed 1")
	}
	t.DefaultTaxRate = rate
	t.Touch()
	return nil
}

// Suspend puts the tenant on hold; logins remain possible, mutations are
// rejected at the middleware layer
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	t.Status = TenantStatusSuspended
	t.Touch()
	return nil
}

// Activate lifts a suspension
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.Status = TenantStatusActive
	t.Touch()
	return nil
}

// IsActive returns true if the tenant is in good standing
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

func validateTenantCode(code string) error {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if trimmed == "" {
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot be empty")
	}
	if !tenantCodePattern.MatchString(trimmed) {
		return shared.NewDomainError("INVALID_CODE", "Tenant code must be 3-50 lowercase letters, digits or hyphens")
	}
	return nil
}

func validateTenantName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
