package event

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerEventPayload struct {
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

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type PaymentEventPayload struct {
	PaymentID  int64           `json:"paymentId"`
	CustomerID int64           `json:"customerId"`
	Date       time.Time       `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"`
}

type PaymentRecordedEvent struct {
	Timestamp time.Time           `json:"timestamp"`
	Payload   PaymentEventPayload `json:"payload"`
}

type DuesReminderPayload struct {
	CustomerID int64           `json:"customerId"`
	Name       string          `json:"name"`
	Mobile     string          `json:"mobile"`
	Balance    decimal.Decimal `json:"balance"`
}

type DuesReminderEvent struct {
	Timestamp time.Time           `json:"timestamp"`
	Payload   DuesReminderPayload `json:"payload"`
}
