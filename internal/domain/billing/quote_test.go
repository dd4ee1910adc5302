package billing

import (
	"testing"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQuote(t *testing.T) *Quote {
	t.Helper()
	quote, err := NewQuote(uuid.New(), "QTE-1000", uuid.New(), "Acme Plumbing", "Bathroom renovation")
	require.NoError(t, err)
	return quote
}

func TestNewQuote(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()

	quote, err := NewQuote(tenantID, "QTE-1000", customerID, "Acme Plumbing", "Bathroom renovation")
	require.NoError(t, err)

	assert.Equal(t, tenantID, quote.TenantID)
	assert.Equal(t, "QTE-1000", quote.DocumentNumber)
	assert.Equal(t, customerID, quote.CustomerID)
	assert.Equal(t, QuoteStatusDraft, quote.Status)
	assert.Empty(t, quote.Items)
	assert.True(t, quote.Subtotal.IsZero())
	assert.True(t, quote.Total.IsZero())
}

func TestNewQuote_Validation(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()

	tests := []struct {
		name           string
		documentNumber string
		customerID     uuid.UUID
		customerName   string
		title          string
	}{
		{"empty document number", "", customerID, "Acme", "Job"},
		{"nil customer", "QTE-1", uuid.Nil, "Acme", "Job"},
		{"empty customer name", "QTE-1", customerID, "", "Job"},
		{"empty title", "QTE-1", customerID, "Acme", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuote(tenantID, tt.documentNumber, tt.customerID, tt.customerName, tt.title)
			assert.Error(t, err)
		})
	}
}

func TestQuoteStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from QuoteStatus
		to   QuoteStatus
		want bool
	}{
		{QuoteStatusDraft, QuoteStatusSent, true},
		{QuoteStatusDraft, QuoteStatusAccepted, false},
		{QuoteStatusDraft, QuoteStatusRejected, false},
		{QuoteStatusSent, QuoteStatusAccepted, true},
		{QuoteStatusSent, QuoteStatusRejected, true},
		{QuoteStatusSent, QuoteStatusDraft, false},
		{QuoteStatusAccepted, QuoteStatusSent, false},
		{QuoteStatusAccepted, QuoteStatusRejected, false},
		{QuoteStatusRejected, QuoteStatusSent, false},
		{QuoteStatusRejected, QuoteStatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestQuote_AddItemRecomputesTotals(t *testing.T) {
	quote := newTestQuote(t)
	require.NoError(t, quote.SetTaxRate(decimal.NewFromFloat(0.13)))

	_, err := quote.AddItem("Labor", decimal.NewFromInt(10), valueobject.NewMoneyUSDFromFloat(50))
	require.NoError(t, err)
	_, err = quote.AddItem("Materials", decimal.NewFromInt(5), valueobject.NewMoneyUSDFromFloat(75))
	require.NoError(t, err)

	assert.Equal(t, 2, quote.ItemCount())
	assert.Equal(t, "875.00", quote.Subtotal.StringFixed(2))
	assert.Equal(t, "113.75", quote.TaxAmount.StringFixed(2))
	assert.Equal(t, "988.75", quote.Total.StringFixed(2))
}

func TestQuote_UpdateItemRecomputesTotals(t *testing.T) {
	quote := newTestQuote(t)
	item, err := quote.AddItem("Labor", decimal.NewFromInt(10), valueobject.NewMoneyUSDFromFloat(50))
	require.NoError(t, err)

	quantity := decimal.NewFromInt(12)
	require.NoError(t, quote.UpdateItem(item.ID, nil, &quantity, nil))

	assert.Equal(t, "600.00", quote.Subtotal.StringFixed(2))
	assert.Equal(t, "600.00", quote.Total.StringFixed(2))
}

func TestQuote_UpdateItem_NotFound(t *testing.T) {
	quote := newTestQuote(t)
	_, err := quote.AddItem("Labor", decimal.NewFromInt(1), valueobject.ZeroUSD())
	require.NoError(t, err)

	description := "Other"
	err = quote.UpdateItem(uuid.New(), &description, nil, nil)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ITEM_NOT_FOUND", domainErr.Code)
}

func TestQuote_RemoveItem(t *testing.T) {
	quote := newTestQuote(t)
	first, err := quote.AddItem("Labor", decimal.NewFromInt(10), valueobject.NewMoneyUSDFromFloat(50))
	require.NoError(t, err)
	_, err = quote.AddItem("Materials", decimal.NewFromInt(5), valueobject.NewMoneyUSDFromFloat(75))
	require.NoError(t, err)

	require.NoError(t, quote.RemoveItem(first.ID))

	assert.Equal(t, 1, quote.ItemCount())
	assert.Equal(t, "375.00", quote.Subtotal.StringFixed(2))
}

func TestQuote_RemoveLastItemRejected(t *testing.T) {
	quote := newTestQuote(t)
	item, err := quote.AddItem("Labor", decimal.NewFromInt(1), valueobject.NewMoneyUSDFromFloat(100))
	require.NoError(t, err)

	err = quote.RemoveItem(item.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LAST_LINE_ITEM", domainErr.Code)
	assert.Equal(t, 1, quote.ItemCount())
}

func TestQuote_SetTaxRate(t *testing.T) {
	quote := newTestQuote(t)
	_, err := quote.AddItem("Labor", decimal.NewFromInt(4), valueobject.NewMoneyUSDFromFloat(25))
	require.NoError(t, err)

	require.NoError(t, quote.SetTaxRate(decimal.NewFromFloat(0.05)))
	assert.Equal(t, "5.00", quote.TaxAmount.StringFixed(2))
	assert.Equal(t, "105.00", quote.Total.StringFixed(2))

	err = quote.SetTaxRate(decimal.NewFromFloat(-0.1))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TAX_RATE", domainErr.Code)

	err = quote.SetTaxRate(decimal.NewFromInt(5))
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TAX_RATE", domainErr.Code)
	assert.Equal(t, "105.00", quote.Total.StringFixed(2))
}

func TestQuote_Send(t *testing.T) {
	quote := newTestQuote(t)
	_, err := quote.AddItem("Labor", decimal.NewFromInt(1), valueobject.NewMoneyUSDFromFloat(100))
	require.NoError(t, err)

	require.NoError(t, quote.Send())

	assert.Equal(t, QuoteStatusSent, quote.Status)
	assert.NotNil(t, quote.SentAt)
	assert.False(t, quote.CanModify())
}

func TestQuote_SendWithoutItems(t *testing.T) {
	quote := newTestQuote(t)

	err := quote.Send()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_ITEMS", domainErr.Code)
	assert.Equal(t, QuoteStatusDraft, quote.Status)
}

func TestQuote_AcceptAndReject(t *testing.T) {
	quote := newTestQuote(t)
	_, err := quote.AddItem("Labor", decimal.NewFromInt(1), valueobject.NewMoneyUSDFromFloat(100))
	require.NoError(t, err)

	// Cannot accept a draft
	require.Error(t, quote.Accept())

	require.NoError(t, quote.Send())
	require.NoError(t, quote.Accept())
	assert.Equal(t, QuoteStatusAccepted, quote.Status)
	assert.NotNil(t, quote.AcceptedAt)
	assert.True(t, quote.IsAccepted())

	// Accepted is terminal
	require.Error(t, quote.Reject())
	require.Error(t, quote.Send())
}

func TestQuote_ModifyAfterSendRejected(t *testing.T) {
	quote := newTestQuote(t)
	item, err := quote.AddItem("Labor", decimal.NewFromInt(1), valueobject.NewMoneyUSDFromFloat(100))
	require.NoError(t, err)
	require.NoError(t, quote.Send())

	_, err = quote.AddItem("Extra", decimal.NewFromInt(1), valueobject.ZeroUSD())
	assert.Error(t, err)
	assert.Error(t, quote.RemoveItem(item.ID))
	assert.Error(t, quote.SetTaxRate(decimal.Zero))

	quantity := decimal.NewFromInt(99)
	assert.Error(t, quote.UpdateItem(item.ID, nil, &quantity, nil))
}
