package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	CustomerID   int64           `json:"customerId"`
	Name         string          `json:"name"`
	Mobile       string          `json:"mobile"`
	Village      string          `json:"village"`
	BankName     string          `json:"bankName"`
	LoanAmount   decimal.Decimal `json:"loanAmount"`
	CustomerDate time.Time       `json:"customerDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func NewCustomer(name, mobile, village, bankName string, loanAmount decimal.Decimal, customerDate time.Time) *Customer {
	now := time.Now()
	return &Customer{
		Name:         name,
		Mobile:       mobile,
		Village:      village,
		BankName:     bankName,
		LoanAmount:   loanAmount,
		CustomerDate: customerDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (c *Customer) UpdateContact(mobile, village, bankName string) bool {
	changed := false
	if mobile != "" && c.Mobile != mobile {
		c.Mobile = mobile
		changed = true
	}
	if village != "" && c.Village != village {
		c.Village = village
		changed = true
	}
	if bankName != "" && c.BankName != bankName {
		c.BankName = bankName
		changed = true
	}
	if changed {
		c.UpdatedAt = time.Now()
	}
	return changed
}
