package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"consultancy-ledger/internal/domain/ledger"
	"consultancy-ledger/internal/infrastructure/monitoring"
	"consultancy-ledger/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, batch *pgx.Batch) pgx.BatchResults
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

type LedgerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ ledger.LedgerRepository = (*LedgerRepository)(nil)

func NewLedgerRepository(db DBPool, logger *slog.Logger) *LedgerRepository {
	if db == nil {
		panic("DBPool cannot be nil for LedgerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewLedgerRepository, using default stderr handler")
	}
	return &LedgerRepository{
		db:     db,
		logger: logger.With("component", "LedgerRepository"),
	}
}

func observe(queryName string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery(queryName, status, time.Since(start))
}

func (r *LedgerRepository) ListCharges(ctx context.Context, customerID int64) ([]ledger.ServiceCharge, error) {
	logCtx := r.logger.With(slog.Int64("customerID", customerID))
	logCtx.DebugContext(ctx, "Listing service charges")

	query := `
        SELECT id, customer_id, label, amount, created_at
        FROM service_charges
        WHERE customer_id = $1
        ORDER BY created_at ASC, id ASC`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, customerID)
	observe("list_charges", start, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query service charges", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query service charges: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	charges := make([]ledger.ServiceCharge, 0)
	for rows.Next() {
		var charge ledger.ServiceCharge
		if err := rows.Scan(
			&charge.ChargeID,
			&charge.CustomerID,
			&charge.Label,
			&charge.Amount,
			&charge.CreatedAt,
		); err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan service charge row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan service charge row: %w", apperrors.ErrDatabase, err)
		}
		charges = append(charges, charge)
	}

	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating service charge rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating service charge rows: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Finished listing service charges", slog.Int("count", len(charges)))
	return charges, nil
}

func (r *LedgerRepository) InsertCharge(ctx context.Context, charge *ledger.ServiceCharge) error {
	if charge == nil {
		return fmt.Errorf("%w: charge cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.Int64("customerID", charge.CustomerID))
	logCtx.InfoContext(ctx, "Inserting service charge", slog.String("label", charge.Label))

	query := `
        INSERT INTO service_charges (customer_id, label, amount, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		charge.CustomerID,
		charge.Label,
		charge.Amount,
		charge.CreatedAt,
	).Scan(&charge.ChargeID)
	observe("insert_charge", start, err)

	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to insert service charge", slog.Any("error", err))
		return translateDBError(err, logCtx)
	}

	logCtx.InfoContext(ctx, "Service charge inserted successfully", slog.Int64("chargeID", charge.ChargeID))
	return nil
}

func (r *LedgerRepository) DeleteCharge(ctx context.Context, chargeID int64) error {
	logCtx := r.logger.With(slog.Int64("chargeID", chargeID))
	logCtx.InfoContext(ctx, "Deleting service charge")

	query := `DELETE FROM service_charges WHERE id = $1`

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, query, chargeID)
	observe("delete_charge", start, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to delete service charge", slog.Any("error", err))
		return fmt.Errorf("%w: failed to delete service charge: %w", apperrors.ErrDatabase, err)
	}

	if cmdTag.RowsAffected() == 0 {
		logCtx.WarnContext(ctx, "Delete affected zero rows, charge likely not found")
		return ledger.ErrChargeNotFound
	}

	logCtx.InfoContext(ctx, "Service charge deleted successfully")
	return nil
}

func (r *LedgerRepository) DeleteCharges(ctx context.Context, customerID int64, chargeIDs []int64) (int64, error) {
	logCtx := r.logger.With(slog.Int64("customerID", customerID), slog.Int("requested", len(chargeIDs)))
	logCtx.InfoContext(ctx, "Bulk deleting service charges")

	if len(chargeIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM service_charges WHERE id = $1 AND customer_id = $2`

	batch := &pgx.Batch{}
	for _, chargeID := range chargeIDs {
		batch.Queue(query, chargeID, customerID)
	}

	start := time.Now()
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var deleted int64
	var batchErr error
	for range chargeIDs {
		cmdTag, err := results.Exec()
		if err != nil {
			batchErr = err
			break
		}
		deleted += cmdTag.RowsAffected()
	}
	observe("delete_charges_batch", start, batchErr)

	if batchErr != nil {
		logCtx.ErrorContext(ctx, "Failed to bulk delete service charges", slog.Any("error", batchErr))
		return deleted, fmt.Errorf("%w: failed to bulk delete service charges: %w", apperrors.ErrDatabase, batchErr)
	}

	logCtx.InfoContext(ctx, "Bulk delete finished", slog.Int64("deleted", deleted))
	return deleted, nil
}

func (r *LedgerRepository) ListPayments(ctx context.Context, customerID int64) ([]ledger.Payment, error) {
	logCtx := r.logger.With(slog.Int64("customerID", customerID))
	logCtx.DebugContext(ctx, "Listing payments")

	query := `
        SELECT id, customer_id, date, amount, created_at
        FROM payments
        WHERE customer_id = $1
        ORDER BY date ASC, id ASC`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, customerID)
	observe("list_payments", start, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query payments", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query payments: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	payments := make([]ledger.Payment, 0)
	for rows.Next() {
		var payment ledger.Payment
		if err := rows.Scan(
			&payment.PaymentID,
			&payment.CustomerID,
			&payment.Date,
			&payment.Amount,
			&payment.CreatedAt,
		); err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan payment row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan payment row: %w", apperrors.ErrDatabase, err)
		}
		payments = append(payments, payment)
	}

	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating payment rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating payment rows: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Finished listing payments", slog.Int("count", len(payments)))
	return payments, nil
}

func (r *LedgerRepository) InsertPayment(ctx context.Context, payment *ledger.Payment) error {
	if payment == nil {
		return fmt.Errorf("%w: payment cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.Int64("customerID", payment.CustomerID))
	logCtx.InfoContext(ctx, "Inserting payment")

	query := `
        INSERT INTO payments (customer_id, date, amount, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		payment.CustomerID,
		payment.Date,
		payment.Amount,
		payment.CreatedAt,
	).Scan(&payment.PaymentID)
	observe("insert_payment", start, err)

	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to insert payment", slog.Any("error", err))
		return translateDBError(err, logCtx)
	}

	logCtx.InfoContext(ctx, "Payment inserted successfully", slog.Int64("paymentID", payment.PaymentID))
	return nil
}

func (r *LedgerRepository) ListCatalog(ctx context.Context, activeOnly bool) ([]ledger.CatalogEntry, error) {
	r.logger.DebugContext(ctx, "Listing service catalog", slog.Bool("activeOnly", activeOnly))

	baseQuery := `
        SELECT id, name, default_charge, active, created_at
        FROM service_catalog`
	args := []any{}
	query := baseQuery
	if activeOnly {
		query += " WHERE active = $1"
		args = append(args, true)
	}
	query += " ORDER BY name ASC"

	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	observe("list_catalog", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query service catalog", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query service catalog: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	entries := make([]ledger.CatalogEntry, 0)
	for rows.Next() {
		var entry ledger.CatalogEntry
		if err := rows.Scan(
			&entry.EntryID,
			&entry.Name,
			&entry.DefaultCharge,
			&entry.Active,
			&entry.CreatedAt,
		); err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan catalog row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan catalog row: %w", apperrors.ErrDatabase, err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating catalog rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating catalog rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.DebugContext(ctx, "Finished listing catalog", slog.Int("count", len(entries)))
	return entries, nil
}

func (r *LedgerRepository) FindCatalogEntry(ctx context.Context, entryID int64) (*ledger.CatalogEntry, error) {
	logCtx := r.logger.With(slog.Int64("entryID", entryID))
	logCtx.DebugContext(ctx, "Finding catalog entry")

	query := `
        SELECT id, name, default_charge, active, created_at
        FROM service_catalog
        WHERE id = $1`

	var entry ledger.CatalogEntry
	start := time.Now()
	err := r.db.QueryRow(ctx, query, entryID).Scan(
		&entry.EntryID,
		&entry.Name,
		&entry.DefaultCharge,
		&entry.Active,
		&entry.CreatedAt,
	)
	observe("find_catalog_entry", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.WarnContext(ctx, "Catalog entry not found")
			return nil, ledger.ErrCatalogEntryNotFound
		}
		logCtx.ErrorContext(ctx, "Failed to query/scan catalog entry", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get catalog entry: %w", apperrors.ErrDatabase, err)
	}

	return &entry, nil
}

func (r *LedgerRepository) InsertCatalogEntry(ctx context.Context, entry *ledger.CatalogEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: catalog entry cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.String("name", entry.Name))
	logCtx.InfoContext(ctx, "Inserting catalog entry")

	query := `
        INSERT INTO service_catalog (name, default_charge, active, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	start := time.Now()
	err := r.db.QueryRow(ctx, query,
		entry.Name,
		entry.DefaultCharge,
		entry.Active,
		entry.CreatedAt,
	).Scan(&entry.EntryID)
	observe("insert_catalog_entry", start, err)

	if err != nil {
		translatedErr := translateDBError(err, logCtx)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Catalog entry name already exists")
			return ledger.ErrDuplicateCatalogName
		}
		logCtx.ErrorContext(ctx, "Failed to insert catalog entry", slog.Any("error", err))
		return translatedErr
	}

	logCtx.InfoContext(ctx, "Catalog entry inserted successfully", slog.Int64("entryID", entry.EntryID))
	return nil
}

func (r *LedgerRepository) UpdateCatalogEntry(ctx context.Context, entry *ledger.CatalogEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: catalog entry cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.Int64("entryID", entry.EntryID))
	logCtx.InfoContext(ctx, "Updating catalog entry")

	query := `
        UPDATE service_catalog
        SET default_charge = $1,
            active = $2
        WHERE id = $3`

	start := time.Now()
	cmdTag, err := r.db.Exec(ctx, query,
		entry.DefaultCharge,
		entry.Active,
		entry.EntryID,
	)
	observe("update_catalog_entry", start, err)

	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to update catalog entry", slog.Any("error", err))
		return translateDBError(err, logCtx)
	}

	if cmdTag.RowsAffected() == 0 {
		logCtx.WarnContext(ctx, "Update affected zero rows, catalog entry likely not found")
		return ledger.ErrCatalogEntryNotFound
	}

	logCtx.InfoContext(ctx, "Catalog entry updated successfully")
	return nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
