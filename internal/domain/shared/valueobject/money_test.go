package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(99.99), USD)
	require.NoError(t, err)
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
}

func TestNewMoney_EmptyCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(1), "")
	assert.Error(t, err)
}

func TestNewMoneyUSDFromString(t *testing.T) {
	m, err := NewMoneyUSDFromString("123.45")
	require.NoError(t, err)
	assert.Equal(t, "123.45", m.StringFixed(2))

	_, err = NewMoneyUSDFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyUSDFromFloat(10.50)
	b := NewMoneyUSDFromFloat(5.25)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "15.75", sum.StringFixed(2))
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b, err := NewMoney(decimal.NewFromInt(10), EUR)
	require.NoError(t, err)

	_, err = a.Add(b)
	assert.Error(t, err)
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b := NewMoneyUSDFromFloat(3.5)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "6.50", diff.StringFixed(2))
}

func TestMoney_Multiply(t *testing.T) {
	price := NewMoneyUSDFromFloat(50)
	total := price.Multiply(decimal.NewFromInt(10))
	assert.Equal(t, "500.00", total.StringFixed(2))
}

func TestMoney_Round(t *testing.T) {
	m := NewMoneyUSDFromFloat(10.005)
	assert.Equal(t, "10.01", m.Round(2).StringFixed(2))
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroUSD().IsZero())
	assert.True(t, NewMoneyUSDFromFloat(1).IsPositive())
	assert.True(t, NewMoneyUSDFromFloat(-1).IsNegative())
}

func TestMoney_Equals(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b, err := NewMoneyUSDFromString("10.00")
	require.NoError(t, err)
	assert.True(t, a.Equals(b))

	c, err := NewMoney(decimal.NewFromInt(10), EUR)
	require.NoError(t, err)
	assert.False(t, a.Equals(c))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyUSDFromFloat(988.75)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("42.50"))
	assert.Equal(t, "42.50", m.StringFixed(2))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(12345))
}
