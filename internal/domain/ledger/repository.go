package ledger

import (
	"context"
	"errors"
)

var (
	ErrChargeNotFound = errors.New("service charge not found")

	ErrCatalogEntryNotFound = errors.New("catalog entry not found")

	ErrDuplicateCatalogName = errors.New("catalog entry name already exists")
)

type LedgerRepository interface {
	ListCharges(ctx context.Context, customerID int64) ([]ServiceCharge, error)

	InsertCharge(ctx context.Context, charge *ServiceCharge) error

	DeleteCharge(ctx context.Context, chargeID int64) error

	// DeleteCharges removes the given charge ids scoped to one customer
	// and reports how many rows were actually deleted.
	DeleteCharges(ctx context.Context, customerID int64, chargeIDs []int64) (int64, error)

	ListPayments(ctx context.Context, customerID int64) ([]Payment, error)

	InsertPayment(ctx context.Context, payment *Payment) error

	ListCatalog(ctx context.Context, activeOnly bool) ([]CatalogEntry, error)

	FindCatalogEntry(ctx context.Context, entryID int64) (*CatalogEntry, error)

	InsertCatalogEntry(ctx context.Context, entry *CatalogEntry) error

	UpdateCatalogEntry(ctx context.Context, entry *CatalogEntry) error
}
