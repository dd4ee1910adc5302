package billing

import (
	"fmt"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusSent
	case QuoteStatusSent:
		return target == QuoteStatusAccepted || target == QuoteStatusRejected
	case QuoteStatusAccepted, QuoteStatusRejected:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if the status admits no further transitions
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusAccepted || s == QuoteStatusRejected
}

// Quote represents a quote aggregate root.
// Line items, tax rate and the derived totals form a single consistency
// unit: every mutation recomputes subtotal, tax amount and total together.
type Quote struct {
	shared.TenantEntity
	DocumentNumber string // Assigned once at creation, immutable thereafter
	CustomerID     uuid.UUID
	CustomerName   string
	Title          string
	Description    string
	Items          []LineItem `gorm:"foreignKey:DocumentID"`
	TaxRate        decimal.Decimal
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	Status         QuoteStatus
	ValidUntil     *time.Time // Advisory only, not enforced
	Notes          string
	SentAt         *time.Time
	AcceptedAt     *time.Time
	RejectedAt     *time.Time
}

// NewQuote creates a new quote in draft status
func NewQuote(tenantID uuid.UUID, documentNumber string, customerID uuid.UUID, customerName, title string) (*Quote, error) {
	if documentNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot be empty")
	}
	if len(documentNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}

	return &Quote{
		TenantEntity:   shared.NewTenantEntity(tenantID),
		DocumentNumber: documentNumber,
		CustomerID:     customerID,
		CustomerName:   customerName,
		Title:          title,
		Items:          make([]LineItem, 0),
		TaxRate:        decimal.Zero,
		Subtotal:       decimal.Zero,
		TaxAmount:      decimal.Zero,
		Total:          decimal.Zero,
		Status:         QuoteStatusDraft,
	}, nil
}

// AddItem adds a new line item to the quote.
// Only allowed in draft status.
func (q *Quote) AddItem(description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*LineItem, error) {
	if q.Status != QuoteStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft quote")
	}

	item, err := NewLineItem(q.ID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	q.Items = append(q.Items, *item)
	q.recalculateTotals()
	q.Touch()

	return item, nil
}

// UpdateItem updates an existing line item. Nil fields are left unchanged.
// Only allowed in draft status.
func (q *Quote) UpdateItem(itemID uuid.UUID, description *string, quantity *decimal.Decimal, unitPrice *valueobject.Money) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft quote")
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			if description != nil {
				if err := q.Items[idx].UpdateDescription(*description); err != nil {
					return err
				}
			}
			if quantity != nil {
				if err := q.Items[idx].UpdateQuantity(*quantity); err != nil {
					return err
				}
			}
			if unitPrice != nil {
				if err := q.Items[idx].UpdateUnitPrice(*unitPrice); err != nil {
					return err
				}
			}
			q.recalculateTotals()
			q.Touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// RemoveItem removes a line item from the quote.
// The last remaining item cannot be removed; a document keeps at least
// one line item once it has any.
func (q *Quote) RemoveItem(itemID uuid.UUID) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft quote")
	}
	if len(q.Items) == 1 && q.Items[0].ID == itemID {
		return shared.NewDomainError("LAST_LINE_ITEM", "A quote must retain at least one line item")
	}

	for idx, item := range q.Items {
		if item.ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			q.recalculateTotals()
			q.Touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// SetTaxRate sets the tax rate as a fraction (0.13 = 13%) and recomputes
// totals. The rate must be within [0, 1].
func (q *Quote) SetTaxRate(rate decimal.Decimal) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tax rate of a non-draft quote")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}

	q.TaxRate = rate
	q.recalculateTotals()
	q.Touch()
	return nil
}

// SetValidUntil sets the advisory validity bound
func (q *Quote) SetValidUntil(validUntil *time.Time) {
	q.ValidUntil = validUntil
	q.Touch()
}

// SetDescription sets the quote description
func (q *Quote) SetDescription(description string) {
	q.Description = description
	q.Touch()
}

// SetNotes sets the quote notes
func (q *Quote) SetNotes(notes string) {
	q.Notes = notes
	q.Touch()
}

// Send marks the quote as sent to the customer.
// Requires at least one line item.
func (q *Quote) Send() error {
	if !q.Status.CanTransitionTo(QuoteStatusSent) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot send quote in %s status", q.Status))
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send a quote without line items")
	}

	now := time.Now()
	q.Status = QuoteStatusSent
	q.SentAt = &now
	q.UpdatedAt = now
	return nil
}

// Accept marks the quote as accepted by the customer
func (q *Quote) Accept() error {
	if !q.Status.CanTransitionTo(QuoteStatusAccepted) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot accept quote in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuoteStatusAccepted
	q.AcceptedAt = &now
	q.UpdatedAt = now
	return nil
}

// Reject marks the quote as rejected by the customer
func (q *Quote) Reject() error {
	if !q.Status.CanTransitionTo(QuoteStatusRejected) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot reject quote in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuoteStatusRejected
	q.RejectedAt = &now
	q.UpdatedAt = now
	return nil
}

// recalculateTotals recomputes the derived financial fields from the
// line items and tax rate
func (q *Quote) recalculateTotals() {
	totals := ComputeTotals(q.Items, q.TaxRate)
	q.Subtotal = totals.Subtotal
	q.TaxAmount = totals.TaxAmount
	q.Total = totals.Total
}

// CanModify returns true if line items and tax rate can still change
func (q *Quote) CanModify() bool {
	return q.Status == QuoteStatusDraft
}

// IsAccepted returns true if the quote was accepted
func (q *Quote) IsAccepted() bool {
	return q.Status == QuoteStatusAccepted
}

// ItemCount returns the number of line items
func (q *Quote) ItemCount() int {
	return len(q.Items)
}

// GetItem returns a line item by its ID
func (q *Quote) GetItem(itemID uuid.UUID) *LineItem {
	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			return &q.Items[idx]
		}
	}
	return nil
}

// GetTotalMoney returns the grand total as Money
func (q *Quote) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(q.Total)
}
