package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"consultancy-ledger/internal/domain/ledger"

	"github.com/shopspring/decimal"
)

type AddChargeRequest struct {
	Label          string `json:"label"`
	Amount         string `json:"amount"`
	CatalogEntryID *int64 `json:"catalogEntryId,omitempty"`
}

func (r *AddChargeRequest) Validate() error {
	if r.CatalogEntryID == nil && strings.TrimSpace(r.Label) == "" {
		return fmt.Errorf("label cannot be empty unless catalogEntryId is given")
	}
	if r.CatalogEntryID != nil && *r.CatalogEntryID <= 0 {
		return fmt.Errorf("catalogEntryId must be positive")
	}
	if r.Amount != "" {
		if _, err := decimal.NewFromString(r.Amount); err != nil {
			return fmt.Errorf("invalid amount format: %w", err)
		}
	}
	return nil
}

// ParsedAmount returns the charge amount, zero when absent so the service
// can fall back to the catalog default. Validate must have passed first.
func (r *AddChargeRequest) ParsedAmount() decimal.Decimal {
	if r.Amount == "" {
		return decimal.Zero
	}
	amount, _ := decimal.NewFromString(r.Amount)
	return amount
}

type BulkDeleteChargesRequest struct {
	ChargeIDs []int64 `json:"chargeIds"`
}

func (r *BulkDeleteChargesRequest) Validate() error {
	if len(r.ChargeIDs) == 0 {
		return fmt.Errorf("chargeIds cannot be empty")
	}
	for _, id := range r.ChargeIDs {
		if id <= 0 {
			return fmt.Errorf("chargeIds must all be positive")
		}
	}
	return nil
}

type RecordPaymentRequest struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

func (r *RecordPaymentRequest) Validate() error {
	if r.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if _, err := decimal.NewFromString(r.Amount); err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}
	if r.Date != "" {
		if _, err := time.Parse(time.RFC3339[:10], r.Date); err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
	}
	return nil
}

// ParsedAmount returns the payment amount. Validate must have passed first.
func (r *RecordPaymentRequest) ParsedAmount() decimal.Decimal {
	amount, _ := decimal.NewFromString(r.Amount)
	return amount
}

// ParsedDate returns the payment date, zero time when absent so the
// service can default it. Validate must have passed first.
func (r *RecordPaymentRequest) ParsedDate() time.Time {
	if r.Date == "" {
		return time.Time{}
	}
	date, _ := time.Parse(time.RFC3339[:10], r.Date)
	return date
}

type CreateCatalogEntryRequest struct {
	Name          string `json:"name"`
	DefaultCharge string `json:"defaultCharge"`
}

func (r *CreateCatalogEntryRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if r.DefaultCharge == "" {
		return fmt.Errorf("defaultCharge is required")
	}
	charge, err := decimal.NewFromString(r.DefaultCharge)
	if err != nil {
		return fmt.Errorf("invalid defaultCharge format: %w", err)
	}
	if charge.IsNegative() {
		return fmt.Errorf("defaultCharge cannot be negative")
	}
	return nil
}

// ParsedDefaultCharge returns the default charge. Validate must have
// passed first.
func (r *CreateCatalogEntryRequest) ParsedDefaultCharge() decimal.Decimal {
	charge, _ := decimal.NewFromString(r.DefaultCharge)
	return charge
}

type UpdateCatalogEntryRequest struct {
	DefaultCharge *string `json:"defaultCharge,omitempty"`
	Active        *bool   `json:"active,omitempty"`
}

func (r *UpdateCatalogEntryRequest) Validate() error {
	if r.DefaultCharge == nil && r.Active == nil {
		return fmt.Errorf("at least one of defaultCharge or active must be provided")
	}
	if r.DefaultCharge != nil {
		charge, err := decimal.NewFromString(*r.DefaultCharge)
		if err != nil {
			return fmt.Errorf("invalid defaultCharge format: %w", err)
		}
		if charge.IsNegative() {
			return fmt.Errorf("defaultCharge cannot be negative")
		}
	}
	return nil
}

// ParsedDefaultCharge returns the new default charge or nil when the field
// was omitted. Validate must have passed first.
func (r *UpdateCatalogEntryRequest) ParsedDefaultCharge() *decimal.Decimal {
	if r.DefaultCharge == nil {
		return nil
	}
	charge, _ := decimal.NewFromString(*r.DefaultCharge)
	return &charge
}

type ChargeResponse struct {
	ChargeID   string    `json:"chargeId"`
	CustomerID string    `json:"customerId"`
	Label      string    `json:"label"`
	Amount     string    `json:"amount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewChargeResponse(charge *ledger.ServiceCharge) ChargeResponse {
	return ChargeResponse{
		ChargeID:   strconv.FormatInt(charge.ChargeID, 10),
		CustomerID: strconv.FormatInt(charge.CustomerID, 10),
		Label:      charge.Label,
		Amount:     charge.Amount.StringFixed(2),
		CreatedAt:  charge.CreatedAt,
	}
}

type PaymentResponse struct {
	PaymentID  string    `json:"paymentId"`
	CustomerID string    `json:"customerId"`
	Date       string    `json:"date"`
	Amount     string    `json:"amount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewPaymentResponse(payment *ledger.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:  strconv.FormatInt(payment.PaymentID, 10),
		CustomerID: strconv.FormatInt(payment.CustomerID, 10),
		Date:       payment.Date.Format(time.RFC3339[:10]),
		Amount:     payment.Amount.StringFixed(2),
		CreatedAt:  payment.CreatedAt,
	}
}

type CatalogEntryResponse struct {
	EntryID       string    `json:"entryId"`
	Name          string    `json:"name"`
	DefaultCharge string    `json:"defaultCharge"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewCatalogEntryResponse(entry *ledger.CatalogEntry) CatalogEntryResponse {
	return CatalogEntryResponse{
		EntryID:       strconv.FormatInt(entry.EntryID, 10),
		Name:          entry.Name,
		DefaultCharge: entry.DefaultCharge.StringFixed(2),
		Active:        entry.Active,
		CreatedAt:     entry.CreatedAt,
	}
}

type BulkDeleteChargesResponse struct {
	Deleted int64 `json:"deleted"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
