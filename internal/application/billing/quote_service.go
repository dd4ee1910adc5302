package billing

import (
	"context"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/identity"
	"github.com/fieldworks/backend/internal/domain/partner"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteService handles quote-related business operations
type QuoteService struct {
	quoteRepo    billing.QuoteRepository
	sequenceRepo billing.DocumentSequenceRepository
	customerRepo partner.CustomerRepository
	tenantRepo   identity.TenantRepository
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	quoteRepo billing.QuoteRepository,
	sequenceRepo billing.DocumentSequenceRepository,
	customerRepo partner.CustomerRepository,
	tenantRepo identity.TenantRepository,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		sequenceRepo: sequenceRepo,
		customerRepo: customerRepo,
		tenantRepo:   tenantRepo,
	}
}

// Create creates a new draft quote with a freshly reserved document number
func (s *QuoteService) Create(ctx context.Context, tenantID uuid.UUID, req CreateQuoteRequest) (*QuoteResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_ARCHIVED", "Cannot create documents for an archived customer")
	}

	documentNumber, err := s.sequenceRepo.Reserve(ctx, tenantID, billing.KindQuote)
	if err != nil {
		return nil, err
	}

	quote, err := billing.NewQuote(tenantID, documentNumber, customer.ID, customer.Name, req.Title)
	if err != nil {
		return nil, err
	}

	taxRate, err := s.resolveTaxRate(ctx, tenantID, req.TaxRate)
	if err != nil {
		return nil, err
	}
	if err := quote.SetTaxRate(taxRate); err != nil {
		return nil, err
	}

	if req.Description != "" {
		quote.SetDescription(req.Description)
	}
	if req.Notes != "" {
		quote.SetNotes(req.Notes)
	}
	quote.SetValidUntil(req.ValidUntil)

	for _, item := range req.Items {
		unitPrice := valueobject.NewMoneyUSD(item.UnitPrice)
		if _, err := quote.AddItem(item.Description, item.Quantity, unitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByID retrieves a quote by ID
func (s *QuoteService) GetByID(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// GetByDocumentNumber retrieves a quote by its document number
func (s *QuoteService) GetByDocumentNumber(ctx context.Context, tenantID uuid.UUID, documentNumber string) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByDocumentNumber(ctx, tenantID, documentNumber)
	if err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *QuoteService) List(ctx context.Context, tenantID uuid.UUID, filter DocumentListFilter) ([]QuoteListResponse, int64, error) {
	domainFilter := buildDocumentFilter(filter)

	quotes, err := s.quoteRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.quoteRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToQuoteListResponses(quotes), total, nil
}

// ListByCustomer retrieves quotes for a customer
func (s *QuoteService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter DocumentListFilter) ([]QuoteListResponse, int64, error) {
	domainFilter := buildDocumentFilter(filter)

	quotes, err := s.quoteRepo.FindByCustomer(ctx, tenantID, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	domainFilter.Filters["customer_id"] = customerID
	total, err := s.quoteRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToQuoteListResponses(quotes), total, nil
}

// Update updates the header fields of a draft quote
func (s *QuoteService) Update(ctx context.Context, tenantID, quoteID uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	if !quote.CanModify() {
		return nil, shared.NewDomainError("NOT_MODIFIABLE", "Only draft quotes can be modified")
	}

	if req.Title != nil {
		quote.Title = *req.Title
		quote.Touch()
	}
	if req.Description != nil {
		quote.SetDescription(*req.Description)
	}
	if req.Notes != nil {
		quote.SetNotes(*req.Notes)
	}
	if req.TaxRate != nil {
		if err := quote.SetTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
	}
	if req.ValidUntil != nil {
		quote.SetValidUntil(req.ValidUntil)
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// AddItem adds a line item to a draft quote
func (s *QuoteService) AddItem(ctx context.Context, tenantID, quoteID uuid.UUID, req LineItemRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	unitPrice := valueobject.NewMoneyUSD(req.UnitPrice)
	if _, err := quote.AddItem(req.Description, req.Quantity, unitPrice); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// UpdateItem updates a line item on a draft quote
func (s *QuoteService) UpdateItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID, req UpdateLineItemRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	var unitPrice *valueobject.Money
	if req.UnitPrice != nil {
		m := valueobject.NewMoneyUSD(*req.UnitPrice)
		unitPrice = &m
	}
	if err := quote.UpdateItem(itemID, req.Description, req.Quantity, unitPrice); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// RemoveItem removes a line item from a draft quote
func (s *QuoteService) RemoveItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	if err := quote.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// Send transitions a quote from draft to sent
func (s *QuoteService) Send(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	if err := quote.Send(); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// Accept marks a sent quote as accepted
func (s *QuoteService) Accept(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	if err := quote.Accept(); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// Reject marks a sent quote as rejected
func (s *QuoteService) Reject(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}

	if err := quote.Reject(); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// Delete deletes a draft quote. Sent and decided quotes are retained
// as business records.
func (s *QuoteService) Delete(ctx context.Context, tenantID, quoteID uuid.UUID) error {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return err
	}

	if quote.Status != billing.QuoteStatusDraft {
		return shared.NewDomainError("CANNOT_DELETE", "Only draft quotes can be deleted")
	}

	return s.quoteRepo.DeleteForTenant(ctx, tenantID, quoteID)
}

// CountByStatus returns quote counts by status for a tenant
func (s *QuoteService) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	counts := make(map[string]int64)

	statuses := []billing.QuoteStatus{
		billing.QuoteStatusDraft,
		billing.QuoteStatusSent,
		billing.QuoteStatusAccepted,
		billing.QuoteStatusRejected,
	}

	var total int64
	for _, status := range statuses {
		count, err := s.quoteRepo.CountByStatus(ctx, tenantID, status)
		if err != nil {
			return nil, err
		}
		counts[status.String()] = count
		total += count
	}
	counts["total"] = total

	return counts, nil
}

// resolveTaxRate returns the explicit rate when given, otherwise the
// tenant's configured default.
func (s *QuoteService) resolveTaxRate(ctx context.Context, tenantID uuid.UUID, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if explicit != nil {
		return *explicit, nil
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return tenant.DefaultTaxRate, nil
}
