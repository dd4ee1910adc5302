package partner

import (
	"regexp"
	"strings"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusArchived CustomerStatus = "archived" // Hidden from pickers, history preserved
)

// IsValid checks if the status is a valid CustomerStatus
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of CustomerStatus
func (s CustomerStatus) String() string {
	return string(s)
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Customer represents a customer of the contracting business.
// It is the aggregate root for customer-related operations.
type Customer struct {
	shared.TenantEntity
	Name       string         `gorm:"type:varchar(200);not null;index"`
	Email      string         `gorm:"type:varchar(200);index"`
	Phone      string         `gorm:"type:varchar(50)"`
	Address    string         `gorm:"type:text"`
	City       string         `gorm:"type:varchar(100)"`
	Province   string         `gorm:"type:varchar(100)"`
	PostalCode string         `gorm:"type:varchar(20)"`
	Notes      string         `gorm:"type:text"`
	Status     CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new active customer
func NewCustomer(tenantID uuid.UUID, name string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	return &Customer{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         strings.TrimSpace(name),
		Status:       CustomerStatusActive,
	}, nil
}

// Update updates the customer's name
func (c *Customer) Update(name string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Touch()
	return nil
}

// UpdateContact updates the customer's contact details
func (c *Customer) UpdateContact(email, phone string) error {
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Phone = strings.TrimSpace(phone)
	c.Touch()
	return nil
}

// UpdateAddress updates the customer's service address
func (c *Customer) UpdateAddress(address, city, province, postalCode string) {
	c.Address = address
	c.City = city
	c.Province = province
	c.PostalCode = postalCode
	c.Touch()
}

// SetNotes sets free-form notes about the customer
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.Touch()
}

// Archive hides the customer from active use while preserving history
func (c *Customer) Archive() error {
	if c.Status == CustomerStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Customer is already archived")
	}
	c.Status = CustomerStatusArchived
	c.Touch()
	return nil
}

// Restore returns an archived customer to active status
func (c *Customer) Restore() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Customer is already active")
	}
	c.Status = CustomerStatusActive
	c.Touch()
	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

func validateCustomerName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}
