package billing

import (
	"context"
	"time"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/identity"
	jobdomain "github.com/fieldworks/backend/internal/domain/job"
	"github.com/fieldworks/backend/internal/domain/partner"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice-related business operations
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	quoteRepo    billing.QuoteRepository
	sequenceRepo billing.DocumentSequenceRepository
	customerRepo partner.CustomerRepository
	jobRepo      jobdomain.JobRepository
	tenantRepo   identity.TenantRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	quoteRepo billing.QuoteRepository,
	sequenceRepo billing.DocumentSequenceRepository,
	customerRepo partner.CustomerRepository,
	jobRepo jobdomain.JobRepository,
	tenantRepo identity.TenantRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		quoteRepo:    quoteRepo,
		sequenceRepo: sequenceRepo,
		customerRepo: customerRepo,
		jobRepo:      jobRepo,
		tenantRepo:   tenantRepo,
	}
}

// Create creates a new draft invoice with a freshly reserved document number
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_ARCHIVED", "Cannot create documents for an archived customer")
	}

	documentNumber, err := s.sequenceRepo.Reserve(ctx, tenantID, billing.KindInvoice)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(tenantID, documentNumber, customer.ID, customer.Name, req.Title)
	if err != nil {
		return nil, err
	}

	taxRate, err := s.resolveTaxRate(ctx, tenantID, req.TaxRate)
	if err != nil {
		return nil, err
	}
	if err := invoice.SetTaxRate(taxRate); err != nil {
		return nil, err
	}

	if req.JobID != nil {
		if err := s.attachJob(ctx, tenantID, invoice, *req.JobID); err != nil {
			return nil, err
		}
	}

	if req.Description != "" {
		invoice.SetDescription(req.Description)
	}
	if req.Notes != "" {
		invoice.SetNotes(req.Notes)
	}
	invoice.SetDueDate(req.DueDate)

	for _, item := range req.Items {
		unitPrice := valueobject.NewMoneyUSD(item.UnitPrice)
		if _, err := invoice.AddItem(item.Description, item.Quantity, unitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// CreateFromQuote creates a draft invoice carrying over the line items,
// tax rate and customer of an accepted quote.
func (s *InvoiceService) CreateFromQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*InvoiceResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	documentNumber, err := s.sequenceRepo.Reserve(ctx, tenantID, billing.KindInvoice)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoiceFromQuote(quote, documentNumber)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByDocumentNumber retrieves an invoice by its document number
func (s *InvoiceService) GetByDocumentNumber(ctx context.Context, tenantID uuid.UUID, documentNumber string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByDocumentNumber(ctx, tenantID, documentNumber)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter DocumentListFilter) ([]InvoiceListResponse, int64, error) {
	domainFilter := buildDocumentFilter(filter)

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceListResponses(invoices), total, nil
}

// ListByCustomer retrieves invoices for a customer
func (s *InvoiceService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter DocumentListFilter) ([]InvoiceListResponse, int64, error) {
	domainFilter := buildDocumentFilter(filter)

	invoices, err := s.invoiceRepo.FindByCustomer(ctx, tenantID, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	domainFilter.Filters["customer_id"] = customerID
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceListResponses(invoices), total, nil
}

// ListByJob retrieves invoices attached to a job
func (s *InvoiceService) ListByJob(ctx context.Context, tenantID, jobID uuid.UUID, filter DocumentListFilter) ([]InvoiceListResponse, int64, error) {
	domainFilter := buildDocumentFilter(filter)

	invoices, err := s.invoiceRepo.FindByJob(ctx, tenantID, jobID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	domainFilter.Filters["job_id"] = jobID
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceListResponses(invoices), total, nil
}

// Update updates the header fields of a draft invoice
func (s *InvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if !invoice.CanModify() {
		return nil, shared.NewDomainError("NOT_MODIFIABLE", "Only draft invoices can be modified")
	}

	if req.Title != nil {
		invoice.Title = *req.Title
		invoice.Touch()
	}
	if req.Description != nil {
		invoice.SetDescription(*req.Description)
	}
	if req.Notes != nil {
		invoice.SetNotes(*req.Notes)
	}
	if req.TaxRate != nil {
		if err := invoice.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		invoice.SetDueDate(req.DueDate)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// AssignJob attaches a job to a draft invoice
func (s *InvoiceService) AssignJob(ctx context.Context, tenantID, invoiceID, jobID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.attachJob(ctx, tenantID, invoice, jobID); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// AddItem adds a line item to a draft invoice
func (s *InvoiceService) AddItem(ctx context.Context, tenantID, invoiceID uuid.UUID, req LineItemRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	unitPrice := valueobject.NewMoneyUSD(req.UnitPrice)
	if _, err := invoice.AddItem(req.Description, req.Quantity, unitPrice); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// UpdateItem updates a line item on a draft invoice
func (s *InvoiceService) UpdateItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID, req UpdateLineItemRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	var unitPrice *valueobject.Money
	if req.UnitPrice != nil {
		m := valueobject.NewMoneyUSD(*req.UnitPrice)
		unitPrice = &m
	}
	if err := invoice.UpdateItem(itemID, req.Description, req.Quantity, unitPrice); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// RemoveItem removes a line item from a draft invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Send transitions an invoice from draft to sent
func (s *InvoiceService) Send(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Send(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkPaid records payment of a sent or overdue invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.MarkPaid(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkOverdue flags a sent invoice whose due date has passed
func (s *InvoiceService) MarkOverdue(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.MarkOverdue(time.Now()); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// SweepOverdue marks every sent invoice past its due date as overdue,
// across all tenants, and returns the number updated. Invoices that
// fail the transition individually are skipped.
func (s *InvoiceService) SweepOverdue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	candidates, err := s.invoiceRepo.FindOverdueCandidates(ctx, asOf, limit)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range candidates {
		invoice := &candidates[i]
		if err := invoice.MarkOverdue(asOf); err != nil {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}

// Cancel voids an invoice that has not been paid
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID, reason string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete deletes a draft invoice. Issued invoices are retained as
// business records and can only be cancelled.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}

	if invoice.Status != billing.InvoiceStatusDraft {
		return shared.NewDomainError("CANNOT_DELETE", "Only draft invoices can be deleted")
	}

	return s.invoiceRepo.DeleteForTenant(ctx, tenantID, invoiceID)
}

// CountByStatus returns invoice counts by status for a tenant
func (s *InvoiceService) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	counts := make(map[string]int64)

	statuses := []billing.InvoiceStatus{
		billing.InvoiceStatusDraft,
		billing.InvoiceStatusSent,
		billing.InvoiceStatusPaid,
		billing.InvoiceStatusOverdue,
		billing.InvoiceStatusCancelled,
	}

	var total int64
	for _, status := range statuses {
		count, err := s.invoiceRepo.CountByStatus(ctx, tenantID, status)
		if err != nil {
			return nil, err
		}
		counts[status.String()] = count
		total += count
	}
	counts["total"] = total

	return counts, nil
}

// attachJob validates that the job belongs to the tenant and the
// invoice's customer before linking it.
func (s *InvoiceService) attachJob(ctx context.Context, tenantID uuid.UUID, invoice *billing.Invoice, jobID uuid.UUID) error {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return err
	}
	if j.CustomerID != invoice.CustomerID {
		return shared.NewDomainError("JOB_CUSTOMER_MISMATCH", "Job belongs to a different customer")
	}
	return invoice.AssignJob(jobID)
}

// resolveTaxRate returns the explicit rate when given, otherwise the
// tenant's configured default.
func (s *InvoiceService) resolveTaxRate(ctx context.Context, tenantID uuid.UUID, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if explicit != nil {
		return *explicit, nil
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return tenant.DefaultTaxRate, nil
}
