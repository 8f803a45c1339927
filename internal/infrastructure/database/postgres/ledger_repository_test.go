package postgres

import (
	"consultancy-ledger/internal/domain/ledger"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedgerRepo(t *testing.T) (context.Context, *LedgerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewLedgerRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func TestLedgerRepository_ListCharges(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "customer_id", "label", "amount", "created_at"}).
		AddRow(int64(1), int64(7), "Xerox", decimal.NewFromInt(100), now).
		AddRow(int64(2), int64(7), "Agreement", decimal.NewFromInt(200), now)

	mockPool.ExpectQuery("SELECT .+ FROM service_charges").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	charges, err := repo.ListCharges(ctx, 7)
	assert.NoError(t, err)
	require.Len(t, charges, 2)
	assert.Equal(t, "Xerox", charges[0].Label)
	assert.True(t, decimal.NewFromInt(200).Equal(charges[1].Amount))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_ListChargesQueryError(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT .+ FROM service_charges").
		WithArgs(int64(7)).
		WillReturnError(errors.New("query failed"))

	charges, err := repo.ListCharges(ctx, 7)
	assert.Nil(t, charges)
	assert.Error(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_InsertCharge(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	charge := &ledger.ServiceCharge{
		CustomerID: 7,
		Label:      "Xerox",
		Amount:     decimal.NewFromInt(100),
		CreatedAt:  time.Now(),
	}

	query := `
        INSERT INTO service_charges (customer_id, label, amount, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(
		charge.CustomerID,
		charge.Label,
		charge.Amount,
		charge.CreatedAt,
	).WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	err := repo.InsertCharge(ctx, charge)
	assert.NoError(t, err)
	assert.Equal(t, int64(11), charge.ChargeID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_DeleteCharge(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta(`DELETE FROM service_charges WHERE id = $1`)).
		WithArgs(int64(11)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.DeleteCharge(ctx, 11)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_DeleteChargeNotFound(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta(`DELETE FROM service_charges WHERE id = $1`)).
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteCharge(ctx, 99)
	assert.ErrorIs(t, err, ledger.ErrChargeNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_DeleteChargesBatch(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	query := regexp.QuoteMeta(`DELETE FROM service_charges WHERE id = $1 AND customer_id = $2`)

	batch := mockPool.ExpectBatch()
	batch.ExpectExec(query).WithArgs(int64(1), int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	batch.ExpectExec(query).WithArgs(int64(2), int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	batch.ExpectExec(query).WithArgs(int64(3), int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := repo.DeleteCharges(ctx, 7, []int64{1, 2, 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_DeleteChargesEmpty(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	deleted, err := repo.DeleteCharges(ctx, 7, nil)
	assert.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestLedgerRepository_ListPayments(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "customer_id", "date", "amount", "created_at"}).
		AddRow(int64(1), int64(7), now, decimal.NewFromInt(150), now)

	mockPool.ExpectQuery("SELECT .+ FROM payments").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	payments, err := repo.ListPayments(ctx, 7)
	assert.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, decimal.NewFromInt(150).Equal(payments[0].Amount))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_InsertPayment(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	payment := &ledger.Payment{
		CustomerID: 7,
		Date:       time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Amount:     decimal.NewFromInt(150),
		CreatedAt:  time.Now(),
	}

	query := `
        INSERT INTO payments (customer_id, date, amount, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(
		payment.CustomerID,
		payment.Date,
		payment.Amount,
		payment.CreatedAt,
	).WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))

	err := repo.InsertPayment(ctx, payment)
	assert.NoError(t, err)
	assert.Equal(t, int64(21), payment.PaymentID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_ListCatalog(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	now := time.Now()

	t.Run("all entries", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "name", "default_charge", "active", "created_at"}).
			AddRow(int64(1), "Agreement", decimal.NewFromInt(1200), true, now).
			AddRow(int64(2), "Xerox", decimal.NewFromInt(100), false, now)

		mockPool.ExpectQuery("SELECT .+ FROM service_catalog ORDER BY name ASC").WillReturnRows(rows)

		entries, err := repo.ListCatalog(ctx, false)
		assert.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("active only", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "name", "default_charge", "active", "created_at"}).
			AddRow(int64(1), "Agreement", decimal.NewFromInt(1200), true, now)

		mockPool.ExpectQuery("SELECT .+ FROM service_catalog WHERE active = \\$1 ORDER BY name ASC").
			WithArgs(true).
			WillReturnRows(rows)

		entries, err := repo.ListCatalog(ctx, true)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.True(t, entries[0].Active)
	})

	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_FindCatalogEntry(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "name", "default_charge", "active", "created_at"}).
		AddRow(int64(3), "Agreement", decimal.NewFromInt(1200), true, now)

	mockPool.ExpectQuery("SELECT .+ FROM service_catalog").
		WithArgs(int64(3)).
		WillReturnRows(rows)

	entry, err := repo.FindCatalogEntry(ctx, 3)
	assert.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Agreement", entry.Name)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_FindCatalogEntryNotFound(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT .+ FROM service_catalog").
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	entry, err := repo.FindCatalogEntry(ctx, 99)
	assert.Nil(t, entry)
	assert.ErrorIs(t, err, ledger.ErrCatalogEntryNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_InsertCatalogEntry(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	entry := &ledger.CatalogEntry{
		Name:          "Stamp Duty",
		DefaultCharge: decimal.NewFromInt(500),
		Active:        true,
		CreatedAt:     time.Now(),
	}

	mockPool.ExpectQuery("INSERT INTO service_catalog").WithArgs(
		entry.Name,
		entry.DefaultCharge,
		entry.Active,
		entry.CreatedAt,
	).WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))

	err := repo.InsertCatalogEntry(ctx, entry)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), entry.EntryID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_InsertCatalogEntryDuplicate(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	entry := &ledger.CatalogEntry{
		Name:          "Agreement",
		DefaultCharge: decimal.NewFromInt(1200),
		Active:        true,
		CreatedAt:     time.Now(),
	}

	mockPool.ExpectQuery("INSERT INTO service_catalog").WithArgs(
		entry.Name,
		entry.DefaultCharge,
		entry.Active,
		entry.CreatedAt,
	).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "service_catalog_name_key"})

	err := repo.InsertCatalogEntry(ctx, entry)
	assert.ErrorIs(t, err, ledger.ErrDuplicateCatalogName)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_UpdateCatalogEntry(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	entry := &ledger.CatalogEntry{
		EntryID:       4,
		Name:          "Stamp Duty",
		DefaultCharge: decimal.NewFromInt(750),
		Active:        false,
	}

	mockPool.ExpectExec("UPDATE service_catalog").WithArgs(
		entry.DefaultCharge,
		entry.Active,
		entry.EntryID,
	).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateCatalogEntry(ctx, entry)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLedgerRepository_UpdateCatalogEntryNotFound(t *testing.T) {
	ctx, repo, mockPool := setupLedgerRepo(t)
	defer mockPool.Close()

	entry := &ledger.CatalogEntry{EntryID: 99, DefaultCharge: decimal.Zero, Active: true}

	mockPool.ExpectExec("UPDATE service_catalog").WithArgs(
		entry.DefaultCharge,
		entry.Active,
		entry.EntryID,
	).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateCatalogEntry(ctx, entry)
	assert.ErrorIs(t, err, ledger.ErrCatalogEntryNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
