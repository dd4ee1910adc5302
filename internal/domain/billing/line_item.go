package billing

import (
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem represents a single billable row within a quote or invoice.
// Amount is always derived from Quantity * UnitPrice and is never set
// independently; it is kept unrounded until the display boundary.
type LineItem struct {
	ID          uuid.UUID
	DocumentID  uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewLineItem creates a new line item for the given parent document
func NewLineItem(documentID uuid.UUID, description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*LineItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Line item description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &LineItem{
		ID:          uuid.New(),
		DocumentID:  documentID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      ComputeLineTotal(quantity, unitPrice.Amount()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateDescription updates the item description
func (i *LineItem) UpdateDescription(description string) error {
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Line item description cannot be empty")
	}
	i.Description = description
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateQuantity updates the quantity and recalculates the amount
func (i *LineItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.Amount = ComputeLineTotal(i.Quantity, i.UnitPrice)
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateUnitPrice updates the unit price and recalculates the amount
func (i *LineItem) UpdateUnitPrice(unitPrice valueobject.Money) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.UnitPrice = unitPrice.Amount()
	i.Amount = ComputeLineTotal(i.Quantity, i.UnitPrice)
	i.UpdatedAt = time.Now()
	return nil
}

// GetAmountMoney returns the line amount as Money
func (i *LineItem) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Amount)
}

// GetUnitPriceMoney returns the unit price as Money
func (i *LineItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.UnitPrice)
}

// defaultQuantity is the fallback for unparseable quantity input
var defaultQuantity = decimal.NewFromInt(1)

// ParseQuantity parses raw user input into a quantity.
// Non-numeric or non-positive input falls back to 1 rather than
// propagating a parse failure into totals.
func ParseQuantity(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil || d.LessThanOrEqual(decimal.Zero) {
		return defaultQuantity
	}
	return d
}

// ParseUnitPrice parses raw user input into a unit price.
// Non-numeric or negative input falls back to 0.
func ParseUnitPrice(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
