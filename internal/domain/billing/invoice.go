package billing

import (
	"fmt"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice.
// Its vocabulary is distinct from QuoteStatus; the two are not
// interchangeable.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// An overdue invoice can still be paid or cancelled.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent
	case InvoiceStatusSent:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue || target == InvoiceStatusCancelled
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if the status admits no further transitions
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// Invoice represents an invoice aggregate root.
// It shares the totals and numbering machinery with Quote but carries its
// own status lifecycle, an optional job association and a due date.
type Invoice struct {
	shared.TenantEntity
	DocumentNumber string // Assigned once at creation, immutable thereafter
	CustomerID     uuid.UUID
	CustomerName   string
	JobID          *uuid.UUID `gorm:"type:uuid;index"`
	Title          string
	Description    string
	Items          []LineItem `gorm:"foreignKey:DocumentID"`
	TaxRate        decimal.Decimal
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	Status         InvoiceStatus
	DueDate        *time.Time // Advisory only, not enforced
	Notes          string
	SentAt         *time.Time
	PaidAt         *time.Time // Non-null exactly when status is paid
	CancelledAt    *time.Time
	CancelReason   string
}

// NewInvoice creates a new invoice in draft status
func NewInvoice(tenantID uuid.UUID, documentNumber string, customerID uuid.UUID, customerName, title string) (*Invoice, error) {
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

	return &Invoice{
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
		Status:         InvoiceStatusDraft,
	}, nil
}

// NewInvoiceFromQuote creates a draft invoice from an accepted quote,
// copying its line items, tax rate and descriptive fields. The invoice
// gets its own document number from the invoice sequence.
func NewInvoiceFromQuote(quote *Quote, documentNumber string) (*Invoice, error) {
	if quote == nil {
		return nil, shared.NewDomainError("INVALID_QUOTE", "Quote cannot be nil")
	}
	if !quote.IsAccepted() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only an accepted quote can be converted to an invoice")
	}

	inv, err := NewInvoice(quote.TenantID, documentNumber, quote.CustomerID, quote.CustomerName, quote.Title)
	if err != nil {
		return nil, err
	}
	inv.Description = quote.Description
	inv.Notes = quote.Notes
	inv.TaxRate = quote.TaxRate

	for _, item := range quote.Items {
		if _, err := inv.AddItem(item.Description, item.Quantity, item.GetUnitPriceMoney()); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// AddItem adds a new line item to the invoice.
// Only allowed in draft status.
func (i *Invoice) AddItem(description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*LineItem, error) {
	if i.Status != InvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft invoice")
	}

	item, err := NewLineItem(i.ID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	i.Items = append(i.Items, *item)
	i.recalculateTotals()
	i.Touch()

	return item, nil
}

// UpdateItem updates an existing line item. Nil fields are left unchanged.
// Only allowed in draft status.
func (i *Invoice) UpdateItem(itemID uuid.UUID, description *string, quantity *decimal.Decimal, unitPrice *valueobject.Money) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft invoice")
	}

	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			if description != nil {
				if err := i.Items[idx].UpdateDescription(*description); err != nil {
					return err
				}
			}
			if quantity != nil {
				if err := i.Items[idx].UpdateQuantity(*quantity); err != nil {
					return err
				}
			}
			if unitPrice != nil {
				if err := i.Items[idx].UpdateUnitPrice(*unitPrice); err != nil {
					return err
				}
			}
			i.recalculateTotals()
			i.Touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// RemoveItem removes a line item from the invoice.
// The last remaining item cannot be removed.
func (i *Invoice) RemoveItem(itemID uuid.UUID) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft invoice")
	}
	if len(i.Items) == 1 && i.Items[0].ID == itemID {
		return shared.NewDomainError("LAST_LINE_ITEM", "An invoice must retain at least one line item")
	}

	for idx, item := range i.Items {
		if item.ID == itemID {
			i.Items = append(i.Items[:idx], i.Items[idx+1:]...)
			i.recalculateTotals()
			i.Touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// SetTaxRate sets the tax rate as a fraction in [0, 1] and recomputes totals
func (i *Invoice) SetTaxRate(rate decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tax rate of a non-draft invoice")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}

	i.TaxRate = rate
	i.recalculateTotals()
	i.Touch()
	return nil
}

// AssignJob associates the invoice with a job.
// Only allowed in draft status.
func (i *Invoice) AssignJob(jobID uuid.UUID) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign a job to a non-draft invoice")
	}
	if jobID == uuid.Nil {
		return shared.NewDomainError("INVALID_JOB", "Job ID cannot be empty")
	}
	i.JobID = &jobID
	i.Touch()
	return nil
}

// SetDueDate sets the advisory due date
func (i *Invoice) SetDueDate(dueDate *time.Time) {
	i.DueDate = dueDate
	i.Touch()
}

// SetDescription sets the invoice description
func (i *Invoice) SetDescription(description string) {
	i.Description = description
	i.Touch()
}

// SetNotes sets the invoice notes
func (i *Invoice) SetNotes(notes string) {
	i.Notes = notes
	i.Touch()
}

// Send marks the invoice as sent to the customer.
// Requires at least one line item.
func (i *Invoice) Send() error {
	if !i.Status.CanTransitionTo(InvoiceStatusSent) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot send invoice in %s status", i.Status))
	}
	if len(i.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send an invoice without line items")
	}

	now := time.Now()
	i.Status = InvoiceStatusSent
	i.SentAt = &now
	i.UpdatedAt = now
	return nil
}

// MarkPaid marks the invoice as paid and records the payment time.
// This is the only path that sets PaidAt.
func (i *Invoice) MarkPaid() error {
	if !i.Status.CanTransitionTo(InvoiceStatusPaid) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot mark invoice paid in %s status", i.Status))
	}

	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	i.UpdatedAt = now
	return nil
}

// MarkOverdue marks the invoice as overdue.
// Requires a due date in the past.
func (i *Invoice) MarkOverdue(now time.Time) error {
	if !i.Status.CanTransitionTo(InvoiceStatusOverdue) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot mark invoice overdue in %s status", i.Status))
	}
	if i.DueDate == nil {
		return shared.NewDomainError("NO_DUE_DATE", "Cannot mark an invoice without a due date as overdue")
	}
	if !now.After(*i.DueDate) {
		return shared.NewDomainError("NOT_PAST_DUE", "Invoice due date has not passed")
	}

	i.Status = InvoiceStatusOverdue
	i.UpdatedAt = now
	return nil
}

// Cancel cancels the invoice
func (i *Invoice) Cancel(reason string) error {
	if !i.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel invoice in %s status", i.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	i.Status = InvoiceStatusCancelled
	i.CancelledAt = &now
	i.CancelReason = reason
	i.UpdatedAt = now
	return nil
}

// recalculateTotals recomputes the derived financial fields from the
// line items and tax rate
func (i *Invoice) recalculateTotals() {
	totals := ComputeTotals(i.Items, i.TaxRate)
	i.Subtotal = totals.Subtotal
	i.TaxAmount = totals.TaxAmount
	i.Total = totals.Total
}

// CanModify returns true if line items and tax rate can still change
func (i *Invoice) CanModify() bool {
	return i.Status == InvoiceStatusDraft
}

// IsPaid returns true if the invoice has been paid
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsOpen returns true if the invoice is neither paid nor cancelled
func (i *Invoice) IsOpen() bool {
	return !i.Status.IsTerminal()
}

// ItemCount returns the number of line items
func (i *Invoice) ItemCount() int {
	return len(i.Items)
}

// GetItem returns a line item by its ID
func (i *Invoice) GetItem(itemID uuid.UUID) *LineItem {
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			return &i.Items[idx]
		}
	}
	return nil
}

// GetTotalMoney returns the grand total as Money
func (i *Invoice) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Total)
}
