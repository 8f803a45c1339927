package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"consultancy-ledger/internal/domain/customer"

	"github.com/shopspring/decimal"
)

type CreateCustomerRequest struct {
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	Village      string `json:"village"`
	BankName     string `json:"bankName"`
	LoanAmount   string `json:"loanAmount"`
	CustomerDate string `json:"customerDate"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Mobile) == "" {
		return fmt.Errorf("mobile cannot be empty")
	}
	if r.LoanAmount != "" {
		amount, err := decimal.NewFromString(r.LoanAmount)
		if err != nil {
			return fmt.Errorf("invalid loanAmount format: %w", err)
		}
		if amount.IsNegative() {
			return fmt.Errorf("loanAmount cannot be negative")
		}
	}
	if r.CustomerDate != "" {
		if _, err := time.Parse(time.RFC3339[:10], r.CustomerDate); err != nil {
			return fmt.Errorf("invalid customerDate format (use YYYY-MM-DD): %w", err)
		}
	}
	return nil
}

// ParsedLoanAmount returns the loan amount as a decimal, zero when absent.
// Validate must have passed first.
func (r *CreateCustomerRequest) ParsedLoanAmount() decimal.Decimal {
	if r.LoanAmount == "" {
		return decimal.Zero
	}
	amount, _ := decimal.NewFromString(r.LoanAmount)
	return amount
}

// ParsedCustomerDate returns the customer date, zero time when absent.
// Validate must have passed first.
func (r *CreateCustomerRequest) ParsedCustomerDate() time.Time {
	if r.CustomerDate == "" {
		return time.Time{}
	}
	date, _ := time.Parse(time.RFC3339[:10], r.CustomerDate)
	return date
}

type UpdateContactRequest struct {
	Mobile   string `json:"mobile"`
	Village  string `json:"village"`
	BankName string `json:"bankName"`
}

func (r *UpdateContactRequest) Validate() error {
	if strings.TrimSpace(r.Mobile) == "" &&
		strings.TrimSpace(r.Village) == "" &&
		strings.TrimSpace(r.BankName) == "" {
		return fmt.Errorf("at least one of mobile, village or bankName must be provided")
	}
	return nil
}

type CustomerResponse struct {
	CustomerID   string    `json:"customerId"`
	Name         string    `json:"name"`
	Mobile       string    `json:"mobile"`
	Village      string    `json:"village"`
	BankName     string    `json:"bankName"`
	LoanAmount   string    `json:"loanAmount"`
	CustomerDate string    `json:"customerDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		CustomerID:   strconv.FormatInt(cust.CustomerID, 10),
		Name:         cust.Name,
		Mobile:       cust.Mobile,
		Village:      cust.Village,
		BankName:     cust.BankName,
		LoanAmount:   cust.LoanAmount.StringFixed(2),
		CustomerDate: cust.CustomerDate.Format(time.RFC3339[:10]),
		CreatedAt:    cust.CreatedAt,
		UpdatedAt:    cust.UpdatedAt,
	}
}
