package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceCharge is a billable line item on one customer's ledger. Charges
// are immutable once created; the only mutation is deletion.
type ServiceCharge struct {
	ChargeID   int64           `json:"chargeId"`
	CustomerID int64           `json:"customerId"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Payment is money received against one customer's ledger. The date is
// user-supplied and may be backdated, which is why display ordering keys
// on Date rather than CreatedAt.
type Payment struct {
	PaymentID  int64           `json:"paymentId"`
	CustomerID int64           `json:"customerId"`
	Date       time.Time       `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// CatalogEntry is a reusable service definition. Creating a charge from an
// entry snapshots its name and default amount; later catalog edits never
// touch existing charges.
type CatalogEntry struct {
	EntryID       int64           `json:"entryId"`
	Name          string          `json:"name"`
	DefaultCharge decimal.Decimal `json:"defaultCharge"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
}
