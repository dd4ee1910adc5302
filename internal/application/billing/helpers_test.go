package billing

import (
	"testing"

	"github.com/fieldworks/backend/internal/domain/identity"
	"github.com/fieldworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testMoney(amount int64) valueobject.Money {
	return valueobject.NewMoneyUSD(decimal.NewFromInt(amount))
}

func newTestTenant(t *testing.T) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("harbourview", "Harbourview Contracting")
	require.NoError(t, err)
	return tenant
}
