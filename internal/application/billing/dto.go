package billing

import (
	"time"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Line item DTOs
// =============================================================================

// LineItemRequest represents a line item in create/update requests
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateLineItemRequest represents a partial line item update
type UpdateLineItemRequest struct {
	Description *string          `json:"description" binding:"omitempty,min=1,max=500"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// ToLineItemResponses converts domain line items to responses
func ToLineItemResponses(items []billing.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, LineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	return responses
}

// =============================================================================
// Quote DTOs
// =============================================================================

// CreateQuoteRequest represents a request to create a new quote
type CreateQuoteRequest struct {
	CustomerID  uuid.UUID         `json:"customer_id" binding:"required"`
	Title       string            `json:"title" binding:"required,max=200"`
	Description string            `json:"description" binding:"max=2000"`
	Items       []LineItemRequest `json:"items" binding:"omitempty,dive"`
	TaxRate     *decimal.Decimal  `json:"tax_rate" binding:"omitempty"`
	ValidUntil  *time.Time        `json:"valid_until"`
	Notes       string            `json:"notes" binding:"max=2000"`
}

// UpdateQuoteRequest represents a request to update a draft quote
type UpdateQuoteRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	ValidUntil  *time.Time       `json:"valid_until"`
	Notes       *string          `json:"notes" binding:"omitempty,max=2000"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID             uuid.UUID          `json:"id"`
	TenantID       uuid.UUID          `json:"tenant_id"`
	DocumentNumber string             `json:"document_number"`
	CustomerID     uuid.UUID          `json:"customer_id"`
	CustomerName   string             `json:"customer_name"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Items          []LineItemResponse `json:"items"`
	TaxRate        decimal.Decimal    `json:"tax_rate"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	Total          decimal.Decimal    `json:"total"`
	Status         string             `json:"status"`
	ValidUntil     *time.Time         `json:"valid_until,omitempty"`
	Notes          string             `json:"notes"`
	SentAt         *time.Time         `json:"sent_at,omitempty"`
	AcceptedAt     *time.Time         `json:"accepted_at,omitempty"`
	RejectedAt     *time.Time         `json:"rejected_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// QuoteListResponse represents a quote list item
type QuoteListResponse struct {
	ID             uuid.UUID       `json:"id"`
	DocumentNumber string          `json:"document_number"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	Title          string          `json:"title"`
	Total          decimal.Decimal `json:"total"`
	Status         string          `json:"status"`
	ValidUntil     *time.Time      `json:"valid_until,omitempty"`
	SentAt         *time.Time      `json:"sent_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// DocumentListFilter represents filter options for quote and invoice lists
type DocumentListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToQuoteResponse converts a domain Quote to QuoteResponse
func ToQuoteResponse(q *billing.Quote) QuoteResponse {
	return QuoteResponse{
		ID:             q.ID,
		TenantID:       q.TenantID,
		DocumentNumber: q.DocumentNumber,
		CustomerID:     q.CustomerID,
		CustomerName:   q.CustomerName,
		Title:          q.Title,
		Description:    q.Description,
		Items:          ToLineItemResponses(q.Items),
		TaxRate:        q.TaxRate,
		Subtotal:       q.Subtotal,
		TaxAmount:      q.TaxAmount,
		Total:          q.Total,
		Status:         q.Status.String(),
		ValidUntil:     q.ValidUntil,
		Notes:          q.Notes,
		SentAt:         q.SentAt,
		AcceptedAt:     q.AcceptedAt,
		RejectedAt:     q.RejectedAt,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

// ToQuoteListResponses converts domain quotes to list responses
func ToQuoteListResponses(quotes []billing.Quote) []QuoteListResponse {
	responses := make([]QuoteListResponse, 0, len(quotes))
	for i := range quotes {
		q := &quotes[i]
		responses = append(responses, QuoteListResponse{
			ID:             q.ID,
			DocumentNumber: q.DocumentNumber,
			CustomerID:     q.CustomerID,
			CustomerName:   q.CustomerName,
			Title:          q.Title,
			Total:          q.Total,
			Status:         q.Status.String(),
			ValidUntil:     q.ValidUntil,
			SentAt:         q.SentAt,
			CreatedAt:      q.CreatedAt,
		})
	}
	return responses
}

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to create a new invoice
type CreateInvoiceRequest struct {
	CustomerID  uuid.UUID         `json:"customer_id" binding:"required"`
	JobID       *uuid.UUID        `json:"job_id"`
	Title       string            `json:"title" binding:"required,max=200"`
	Description string            `json:"description" binding:"max=2000"`
	Items       []LineItemRequest `json:"items" binding:"omitempty,dive"`
	TaxRate     *decimal.Decimal  `json:"tax_rate" binding:"omitempty"`
	DueDate     *time.Time        `json:"due_date"`
	Notes       string            `json:"notes" binding:"max=2000"`
}

// UpdateInvoiceRequest represents a request to update a draft invoice
type UpdateInvoiceRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	DueDate     *time.Time       `json:"due_date"`
	Notes       *string          `json:"notes" binding:"omitempty,max=2000"`
}

// CancelInvoiceRequest carries the reason for cancelling an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID          `json:"id"`
	TenantID       uuid.UUID          `json:"tenant_id"`
	DocumentNumber string             `json:"document_number"`
	CustomerID     uuid.UUID          `json:"customer_id"`
	CustomerName   string             `json:"customer_name"`
	JobID          *uuid.UUID         `json:"job_id,omitempty"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Items          []LineItemResponse `json:"items"`
	TaxRate        decimal.Decimal    `json:"tax_rate"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	Total          decimal.Decimal    `json:"total"`
	Status         string             `json:"status"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	Notes          string             `json:"notes"`
	SentAt         *time.Time         `json:"sent_at,omitempty"`
	PaidAt         *time.Time         `json:"paid_at,omitempty"`
	CancelledAt    *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason   string             `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// InvoiceListResponse represents an invoice list item
type InvoiceListResponse struct {
	ID             uuid.UUID       `json:"id"`
	DocumentNumber string          `json:"document_number"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	JobID          *uuid.UUID      `json:"job_id,omitempty"`
	Title          string          `json:"title"`
	Total          decimal.Decimal `json:"total"`
	Status         string          `json:"status"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	SentAt         *time.Time      `json:"sent_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:             inv.ID,
		TenantID:       inv.TenantID,
		DocumentNumber: inv.DocumentNumber,
		CustomerID:     inv.CustomerID,
		CustomerName:   inv.CustomerName,
		JobID:          inv.JobID,
		Title:          inv.Title,
		Description:    inv.Description,
		Items:          ToLineItemResponses(inv.Items),
		TaxRate:        inv.TaxRate,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		Total:          inv.Total,
		Status:         inv.Status.String(),
		DueDate:        inv.DueDate,
		Notes:          inv.Notes,
		SentAt:         inv.SentAt,
		PaidAt:         inv.PaidAt,
		CancelledAt:    inv.CancelledAt,
		CancelReason:   inv.CancelReason,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

// ToInvoiceListResponses converts domain invoices to list responses
func ToInvoiceListResponses(invoices []billing.Invoice) []InvoiceListResponse {
	responses := make([]InvoiceListResponse, 0, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		responses = append(responses, InvoiceListResponse{
			ID:             inv.ID,
			DocumentNumber: inv.DocumentNumber,
			CustomerID:     inv.CustomerID,
			CustomerName:   inv.CustomerName,
			JobID:          inv.JobID,
			Title:          inv.Title,
			Total:          inv.Total,
			Status:         inv.Status.String(),
			DueDate:        inv.DueDate,
			SentAt:         inv.SentAt,
			CreatedAt:      inv.CreatedAt,
		})
	}
	return responses
}

// =============================================================================
// Numbering DTOs
// =============================================================================

// UpdatePrefixRequest represents a request to change a numbering prefix
type UpdatePrefixRequest struct {
	Prefix string `json:"prefix" binding:"required,min=1,max=16"`
}

// SequenceResponse represents numbering state in API responses
type SequenceResponse struct {
	Kind       string `json:"kind"`
	Prefix     string `json:"prefix"`
	NextNumber int64  `json:"next_number"`
}

// ToSequenceResponse converts a domain DocumentSequence to SequenceResponse
func ToSequenceResponse(seq *billing.DocumentSequence) SequenceResponse {
	return SequenceResponse{
		Kind:       seq.Kind.String(),
		Prefix:     seq.Prefix,
		NextNumber: seq.NextNumber,
	}
}

// =============================================================================
// Attachment DTOs
// =============================================================================

// InitiateUploadRequest represents a request to start an attachment upload
type InitiateUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required,min=1,max=100"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,min=1"`
}

// AttachmentResponse represents attachment metadata in API responses
type AttachmentResponse struct {
	ID           uuid.UUID  `json:"id"`
	DocumentKind string     `json:"document_kind"`
	DocumentID   uuid.UUID  `json:"document_id"`
	FileName     string     `json:"file_name"`
	ContentType  string     `json:"content_type"`
	SizeBytes    int64      `json:"size_bytes"`
	Status       string     `json:"status"`
	UploadedBy   *uuid.UUID `json:"uploaded_by,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UploadTicketResponse carries a presigned upload URL for a pending attachment
type UploadTicketResponse struct {
	Attachment AttachmentResponse `json:"attachment"`
	UploadURL  string             `json:"upload_url"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

// DownloadTicketResponse carries a presigned download URL
type DownloadTicketResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ToAttachmentResponse converts a domain Attachment to AttachmentResponse
func ToAttachmentResponse(a *billing.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:           a.ID,
		DocumentKind: a.DocumentKind.String(),
		DocumentID:   a.DocumentID,
		FileName:     a.FileName,
		ContentType:  a.ContentType,
		SizeBytes:    a.SizeBytes,
		Status:       string(a.Status),
		UploadedBy:   a.UploadedBy,
		ConfirmedAt:  a.ConfirmedAt,
		CreatedAt:    a.CreatedAt,
	}
}

// ToAttachmentResponses converts domain attachments to responses
func ToAttachmentResponses(attachments []billing.Attachment) []AttachmentResponse {
	responses := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		responses = append(responses, ToAttachmentResponse(&attachments[i]))
	}
	return responses
}
