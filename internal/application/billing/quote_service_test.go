package billing

import (
	"context"
	"testing"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/partner"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newQuoteServiceForTest() (*QuoteService, *MockQuoteRepository, *MockSequenceRepository, *MockCustomerRepository, *MockTenantRepository) {
	quoteRepo := new(MockQuoteRepository)
	sequenceRepo := new(MockSequenceRepository)
	customerRepo := new(MockCustomerRepository)
	tenantRepo := new(MockTenantRepository)
	svc := NewQuoteService(quoteRepo, sequenceRepo, customerRepo, tenantRepo)
	return svc, quoteRepo, sequenceRepo, customerRepo, tenantRepo
}

func testCustomer(t *testing.T, tenantID uuid.UUID) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(tenantID, "Harbourview Builders")
	require.NoError(t, err)
	return customer
}

func TestQuoteService_Create(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("creates draft quote with reserved number and totals", func(t *testing.T) {
		svc, quoteRepo, sequenceRepo, customerRepo, _ := newQuoteServiceForTest()
		customer := testCustomer(t, tenantID)

		customerRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		sequenceRepo.On("Reserve", ctx, tenantID, billing.KindQuote).Return("QTE-1", nil)
		quoteRepo.On("Save", ctx, mock.AnythingOfType("*billing.Quote")).Return(nil)

		taxRate := decimal.NewFromFloat(0.13)
		resp, err := svc.Create(ctx, tenantID, CreateQuoteRequest{
			CustomerID: customer.ID,
			Title:      "Deck rebuild",
			TaxRate:    &taxRate,
			Items: []LineItemRequest{
				{Description: "Lumber", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(40)},
				{Description: "Labour", Quantity: decimal.NewFromInt(8), UnitPrice: decimal.NewFromInt(95)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "QTE-1", resp.DocumentNumber)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, customer.Name, resp.CustomerName)
		assert.Len(t, resp.Items, 2)
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(1160)))
		assert.True(t, resp.Total.Equal(decimal.NewFromFloat(1310.80)))
		quoteRepo.AssertExpectations(t)
		sequenceRepo.AssertExpectations(t)
	})

	t.Run("rejects archived customer", func(t *testing.T) {
		svc, _, _, customerRepo, _ := newQuoteServiceForTest()
		customer := testCustomer(t, tenantID)
		require.NoError(t, customer.Archive())

		customerRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)

		_, err := svc.Create(ctx, tenantID, CreateQuoteRequest{CustomerID: customer.ID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CUSTOMER_ARCHIVED", domainErr.Code)
	})

	t.Run("falls back to tenant default tax rate", func(t *testing.T) {
		svc, quoteRepo, sequenceRepo, customerRepo, tenantRepo := newQuoteServiceForTest()
		customer := testCustomer(t, tenantID)

		tenant := newTestTenant(t)
		require.NoError(t, tenant.SetDefaultTaxRate(decimal.NewFromFloat(0.05)))

		customerRepo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		sequenceRepo.On("Reserve", ctx, tenantID, billing.KindQuote).Return("QTE-2", nil)
		tenantRepo.On("FindByID", ctx, tenantID).Return(tenant, nil)
		quoteRepo.On("Save", ctx, mock.AnythingOfType("*billing.Quote")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, CreateQuoteRequest{
			CustomerID: customer.ID,
			Items: []LineItemRequest{
				{Description: "Service call", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
			},
		})

		require.NoError(t, err)
		assert.True(t, resp.TaxRate.Equal(decimal.NewFromFloat(0.05)))
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(105)))
	})

	t.Run("customer not found", func(t *testing.T) {
		svc, _, _, customerRepo, _ := newQuoteServiceForTest()
		customerID := uuid.New()

		customerRepo.On("FindByIDForTenant", ctx, tenantID, customerID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, CreateQuoteRequest{CustomerID: customerID})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestQuoteService_Lifecycle(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	newDraftQuote := func(t *testing.T) *billing.Quote {
		t.Helper()
		quote, err := billing.NewQuote(tenantID, "QTE-7", uuid.New(), "Harbourview Builders", "Fence repair")
		require.NoError(t, err)
		_, err = quote.AddItem("Posts", decimal.NewFromInt(12), testMoney(35))
		require.NoError(t, err)
		return quote
	}

	t.Run("send then accept", func(t *testing.T) {
		svc, quoteRepo, _, _, _ := newQuoteServiceForTest()
		quote := newDraftQuote(t)

		quoteRepo.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)
		quoteRepo.On("Save", ctx, quote).Return(nil)

		resp, err := svc.Send(ctx, tenantID, quote.ID)
		require.NoError(t, err)
		assert.Equal(t, "sent", resp.Status)
		assert.NotNil(t, resp.SentAt)

		resp, err = svc.Accept(ctx, tenantID, quote.ID)
		require.NoError(t, err)
		assert.Equal(t, "accepted", resp.Status)
		assert.NotNil(t, resp.AcceptedAt)
	})

	t.Run("cannot send quote without items", func(t *testing.T) {
		svc, quoteRepo, _, _, _ := newQuoteServiceForTest()
		quote, err := billing.NewQuote(tenantID, "QTE-8", uuid.New(), "Harbourview Builders", "Deck repair")
		require.NoError(t, err)

		quoteRepo.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)

		_, err = svc.Send(ctx, tenantID, quote.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_ITEMS", domainErr.Code)
	})

	t.Run("reject after send", func(t *testing.T) {
		svc, quoteRepo, _, _, _ := newQuoteServiceForTest()
		quote := newDraftQuote(t)
		require.NoError(t, quote.Send())

		quoteRepo.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)
		quoteRepo.On("Save", ctx, quote).Return(nil)

		resp, err := svc.Reject(ctx, tenantID, quote.ID)
		require.NoError(t, err)
		assert.Equal(t, "rejected", resp.Status)
	})

	t.Run("update rejected on sent quote", func(t *testing.T) {
		svc, quoteRepo, _, _, _ := newQuoteServiceForTest()
		quote := newDraftQuote(t)
		require.NoError(t, quote.Send())

		quoteRepo.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)

		title := "New title"
		_, err := svc.Update(ctx, tenantID, quote.ID, UpdateQuoteRequest{Title: &title})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_MODIFIABLE", domainErr.Code)
	})
}

func TestQuoteService_Items(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	svc, quoteRepo, _, _, _ := newQuoteServiceForTest()
	quote, err := billing.NewQuote(tenantID, "QTE-9", uuid.New(), "Harbourview Builders", "Deck repair")
	require.NoError(t, err)

	quoteRepo.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)
	quoteRepo.On("Save", ctx, quote).Return(nil)

	resp, err := svc.AddItem(ctx, tenantID, quote.ID, LineItemRequest{
		Description: "Gravel",
		Quantity:    decimal.NewFromInt(3),
		UnitPrice:   decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(240)))

	itemID := resp.Items[0].ID
	qty := decimal.NewFromInt(5)
	resp, err = svc.UpdateItem(ctx, tenantID, quote.ID, itemID, UpdateLineItemRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(400)))

	// Removing the only item is rejected
	_, err = svc.RemoveItem(ctx, tenantID, quote.ID, itemID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LAST_LINE_ITEM", domainErr.Code)
}

func TestQuoteService_Delete(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()

	t.Run("deletes draft", func(t *testing.T) {
		svc, quoteRepo, _, _, _ := newQuoteServiceForTest()
		quote, err := billing.NewQuote(tenantID, "QTE-10", uuid.New(), "Harbourview Builders", "Deck repair")
		require.NoError(t, err)

		quoteRepo.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)
		quoteRepo.On("DeleteForTenant", ctx, tenantID, quote.ID).Return(nil)

		assert.NoError(t, svc.Delete(ctx, tenantID, quote.ID))
		quoteRepo.AssertExpectations(t)
	})

	t.Run("refuses sent quote", func(t *testing.T) {
		svc, quoteRepo, _, _, _ := newQuoteServiceForTest()
		quote, err := billing.NewQuote(tenantID, "QTE-11", uuid.New(), "Harbourview Builders", "Deck repair")
		require.NoError(t, err)
		_, err = quote.AddItem("Work", decimal.NewFromInt(1), testMoney(50))
		require.NoError(t, err)
		require.NoError(t, quote.Send())

		quoteRepo.On("FindByIDForTenant", ctx, tenantID, quote.ID).Return(quote, nil)

		err = svc.Delete(ctx, tenantID, quote.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CANNOT_DELETE", domainErr.Code)
	})
}

func TestQuoteService_CountByStatus(t *testing.T) {
	tenantID := uuid.New()
	ctx := context.Background()
	svc, quoteRepo, _, _, _ := newQuoteServiceForTest()

	quoteRepo.On("CountByStatus", ctx, tenantID, billing.QuoteStatusDraft).Return(int64(3), nil)
	quoteRepo.On("CountByStatus", ctx, tenantID, billing.QuoteStatusSent).Return(int64(2), nil)
	quoteRepo.On("CountByStatus", ctx, tenantID, billing.QuoteStatusAccepted).Return(int64(4), nil)
	quoteRepo.On("CountByStatus", ctx, tenantID, billing.QuoteStatusRejected).Return(int64(1), nil)

	counts, err := svc.CountByStatus(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts["draft"])
	assert.Equal(t, int64(10), counts["total"])
}
