package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type RowRole string

const (
	RoleCharge         RowRole = "charge"
	RoleChargeSubtotal RowRole = "charge-subtotal"
	RolePayment        RowRole = "payment"
	RoleBalanceFinal   RowRole = "balance-final"
)

// Row is one entry of the computed ledger sequence. Credit is set on
// charge rows, Received on payment rows; subtotal and final rows carry
// the relevant total in Credit / Running only.
type Row struct {
	Role     RowRole          `json:"role"`
	Date     *time.Time       `json:"date,omitempty"`
	Label    string           `json:"label,omitempty"`
	Credit   *decimal.Decimal `json:"credit,omitempty"`
	Received *decimal.Decimal `json:"received,omitempty"`
	Running  decimal.Decimal  `json:"running"`
}

type Ledger struct {
	TotalCharges  decimal.Decimal `json:"totalCharges"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	Balance       decimal.Decimal `json:"balance"`
	Rows          []Row           `json:"rows"`
}

// Calculate folds one customer's charge and payment snapshots into totals
// and a chronological running-balance sequence. Charges come first sorted
// by creation time, each running value being the cumulative charge sum;
// then a subtotal row (only when at least one charge exists); then
// payments sorted by payment date, each running value being total charges
// minus cumulative payments; then the final balance row. Ties on either
// sort key break by record id so the output is deterministic.
//
// Pure computation: no I/O, no errors. Amounts are assumed validated
// non-negative by the boundary layer.
func Calculate(charges []ServiceCharge, payments []Payment) Ledger {
	sortedCharges := make([]ServiceCharge, len(charges))
	copy(sortedCharges, charges)
	sort.Slice(sortedCharges, func(i, j int) bool {
		if sortedCharges[i].CreatedAt.Equal(sortedCharges[j].CreatedAt) {
			return sortedCharges[i].ChargeID < sortedCharges[j].ChargeID
		}
		return sortedCharges[i].CreatedAt.Before(sortedCharges[j].CreatedAt)
	})

	sortedPayments := make([]Payment, len(payments))
	copy(sortedPayments, payments)
	sort.Slice(sortedPayments, func(i, j int) bool {
		if sortedPayments[i].Date.Equal(sortedPayments[j].Date) {
			return sortedPayments[i].PaymentID < sortedPayments[j].PaymentID
		}
		return sortedPayments[i].Date.Before(sortedPayments[j].Date)
	})

	rows := make([]Row, 0, len(sortedCharges)+len(sortedPayments)+2)

	totalCharges := decimal.Zero
	for _, charge := range sortedCharges {
		totalCharges = totalCharges.Add(charge.Amount)
		amount := charge.Amount
		date := charge.CreatedAt
		rows = append(rows, Row{
			Role:    RoleCharge,
			Date:    &date,
			Label:   charge.Label,
			Credit:  &amount,
			Running: totalCharges,
		})
	}

	if len(sortedCharges) > 0 {
		subtotal := totalCharges
		rows = append(rows, Row{
			Role:    RoleChargeSubtotal,
			Credit:  &subtotal,
			Running: totalCharges,
		})
	}

	totalReceived := decimal.Zero
	running := totalCharges
	for _, payment := range sortedPayments {
		totalReceived = totalReceived.Add(payment.Amount)
		running = running.Sub(payment.Amount)
		amount := payment.Amount
		date := payment.Date
		rows = append(rows, Row{
			Role:     RolePayment,
			Date:     &date,
			Received: &amount,
			Running:  running,
		})
	}

	balance := totalCharges.Sub(totalReceived)
	rows = append(rows, Row{
		Role:    RoleBalanceFinal,
		Running: balance,
	})

	return Ledger{
		TotalCharges:  totalCharges,
		TotalReceived: totalReceived,
		Balance:       balance,
		Rows:          rows,
	}
}
