package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockSequenceRepository creates a GormDocumentSequenceRepository with a mocked SQL connection
func newMockSequenceRepository(t *testing.T) (*GormDocumentSequenceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormDocumentSequenceRepository(gormDB), mock, mockDB
}

func TestGormDocumentSequenceRepository_Reserve(t *testing.T) {
	t.Run("reserves first number on fresh sequence", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"prefix", "counter"}).
			AddRow("INV", int64(1))

		mock.ExpectQuery(`(?s)INSERT INTO document_sequences .*ON CONFLICT \(tenant_id, kind\).*RETURNING prefix, next_number - 1`).
			WithArgs(tenantID, billing.KindInvoice, "INV", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(rows)

		number, err := repo.Reserve(context.Background(), tenantID, billing.KindInvoice)

		assert.NoError(t, err)
		assert.Equal(t, "INV-1", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reserves next number on existing sequence", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"prefix", "counter"}).
			AddRow("QTE", int64(1042))

		mock.ExpectQuery(`(?s)INSERT INTO document_sequences .*ON CONFLICT \(tenant_id, kind\).*RETURNING prefix, next_number - 1`).
			WithArgs(tenantID, billing.KindQuote, "QTE", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(rows)

		number, err := repo.Reserve(context.Background(), tenantID, billing.KindQuote)

		assert.NoError(t, err)
		assert.Equal(t, "QTE-1042", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("uses custom prefix stored on the sequence", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"prefix", "counter"}).
			AddRow("ACME", int64(7))

		mock.ExpectQuery(`INSERT INTO document_sequences`).
			WithArgs(tenantID, billing.KindInvoice, "INV", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(rows)

		number, err := repo.Reserve(context.Background(), tenantID, billing.KindInvoice)

		assert.NoError(t, err)
		assert.Equal(t, "ACME-7", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects nil tenant", func(t *testing.T) {
		repo, _, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		_, err := repo.Reserve(context.Background(), uuid.Nil, billing.KindInvoice)

		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TENANT", domainErr.Code)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		repo, _, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		_, err := repo.Reserve(context.Background(), uuid.New(), billing.DocumentKind("RECEIPT"))

		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_KIND", domainErr.Code)
	})
}

func TestGormDocumentSequenceRepository_Get(t *testing.T) {
	t.Run("returns sequence state", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"tenant_id", "kind", "prefix", "next_number"}).
			AddRow(tenantID, "INV", "INV", int64(14))

		mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE tenant_id = \$1 AND kind = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, billing.KindInvoice, 1).
			WillReturnRows(rows)

		seq, err := repo.Get(context.Background(), tenantID, billing.KindInvoice)

		assert.NoError(t, err)
		require.NotNil(t, seq)
		assert.Equal(t, "INV", seq.Prefix)
		assert.Equal(t, int64(14), seq.NextNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing sequence", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "document_sequences"`).
			WithArgs(tenantID, billing.KindQuote, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		seq, err := repo.Get(context.Background(), tenantID, billing.KindQuote)

		assert.Nil(t, seq)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDocumentSequenceRepository_UpdatePrefix(t *testing.T) {
	t.Run("upserts prefix", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectExec(`(?s)INSERT INTO document_sequences .*ON CONFLICT \(tenant_id, kind\).*DO UPDATE SET prefix = EXCLUDED.prefix`).
			WithArgs(tenantID, billing.KindQuote, "ACME", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdatePrefix(context.Background(), tenantID, billing.KindQuote, "ACME")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty prefix", func(t *testing.T) {
		repo, _, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		err := repo.UpdatePrefix(context.Background(), uuid.New(), billing.KindQuote, "")

		assert.Error(t, err)
	})

	t.Run("rejects over-long prefix", func(t *testing.T) {
		repo, _, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		err := repo.UpdatePrefix(context.Background(), uuid.New(), billing.KindQuote, "THISPREFIXISWAYTOOLONG")

		assert.Error(t, err)
	})
}
