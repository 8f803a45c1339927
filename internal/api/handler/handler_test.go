package handler

import (
	"context"
	"time"

	"consultancy-ledger/internal/domain/customer"
	"consultancy-ledger/internal/domain/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCustomerService struct {
	mock.Mock
}

var _ customer.CustomerService = (*MockCustomerService)(nil)

func (m *MockCustomerService) CreateNewCustomer(ctx context.Context, name, mobile, village, bankName string, loanAmount decimal.Decimal, customerDate time.Time) (*customer.Customer, error) {
	args := m.Called(ctx, name, mobile, village, bankName, loanAmount, customerDate)
	cust, _ := args.Get(0).(*customer.Customer)
	return cust, args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	cust, _ := args.Get(0).(*customer.Customer)
	return cust, args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	args := m.Called(ctx)
	customers, _ := args.Get(0).([]*customer.Customer)
	return customers, args.Error(1)
}

func (m *MockCustomerService) UpdateContactDetails(ctx context.Context, customerID int64, mobile, village, bankName string) error {
	args := m.Called(ctx, customerID, mobile, village, bankName)
	return args.Error(0)
}

type MockLedgerService struct {
	mock.Mock
}

var _ ledger.LedgerService = (*MockLedgerService)(nil)

func (m *MockLedgerService) AddCharge(ctx context.Context, customerID int64, label string, amount decimal.Decimal, catalogEntryID *int64) (*ledger.ServiceCharge, error) {
	args := m.Called(ctx, customerID, label, amount, catalogEntryID)
	charge, _ := args.Get(0).(*ledger.ServiceCharge)
	return charge, args.Error(1)
}

func (m *MockLedgerService) ListCharges(ctx context.Context, customerID int64) ([]ledger.ServiceCharge, error) {
	args := m.Called(ctx, customerID)
	charges, _ := args.Get(0).([]ledger.ServiceCharge)
	return charges, args.Error(1)
}

func (m *MockLedgerService) DeleteCharge(ctx context.Context, chargeID int64) error {
	args := m.Called(ctx, chargeID)
	return args.Error(0)
}

func (m *MockLedgerService) DeleteCharges(ctx context.Context, customerID int64, chargeIDs []int64) (int64, error) {
	args := m.Called(ctx, customerID, chargeIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) RecordPayment(ctx context.Context, customerID int64, date time.Time, amount decimal.Decimal) (*ledger.Payment, error) {
	args := m.Called(ctx, customerID, date, amount)
	payment, _ := args.Get(0).(*ledger.Payment)
	return payment, args.Error(1)
}

func (m *MockLedgerService) ListPayments(ctx context.Context, customerID int64) ([]ledger.Payment, error) {
	args := m.Called(ctx, customerID)
	payments, _ := args.Get(0).([]ledger.Payment)
	return payments, args.Error(1)
}

func (m *MockLedgerService) GetLedger(ctx context.Context, customerID int64) (*ledger.Ledger, error) {
	args := m.Called(ctx, customerID)
	led, _ := args.Get(0).(*ledger.Ledger)
	return led, args.Error(1)
}

func (m *MockLedgerService) GetStatement(ctx context.Context, customerID int64) (*ledger.Statement, error) {
	args := m.Called(ctx, customerID)
	statement, _ := args.Get(0).(*ledger.Statement)
	return statement, args.Error(1)
}

func (m *MockLedgerService) StatementFileName(customerName string) string {
	args := m.Called(customerName)
	return args.String(0)
}

func (m *MockLedgerService) ListCatalog(ctx context.Context, activeOnly bool) ([]ledger.CatalogEntry, error) {
	args := m.Called(ctx, activeOnly)
	entries, _ := args.Get(0).([]ledger.CatalogEntry)
	return entries, args.Error(1)
}

func (m *MockLedgerService) AddCatalogEntry(ctx context.Context, name string, defaultCharge decimal.Decimal) (*ledger.CatalogEntry, error) {
	args := m.Called(ctx, name, defaultCharge)
	entry, _ := args.Get(0).(*ledger.CatalogEntry)
	return entry, args.Error(1)
}

func (m *MockLedgerService) UpdateCatalogEntry(ctx context.Context, entryID int64, defaultCharge *decimal.Decimal, active *bool) (*ledger.CatalogEntry, error) {
	args := m.Called(ctx, entryID, defaultCharge, active)
	entry, _ := args.Get(0).(*ledger.CatalogEntry)
	return entry, args.Error(1)
}
