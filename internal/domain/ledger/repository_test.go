package ledger

import (
	"consultancy-ledger/internal/domain/customer"
	"consultancy-ledger/internal/event"
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLedgerRepository struct {
	mock.Mock
}

func (_m *MockLedgerRepository) ListCharges(ctx context.Context, customerID int64) ([]ServiceCharge, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []ServiceCharge
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]ServiceCharge)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerRepository) InsertCharge(ctx context.Context, charge *ServiceCharge) error {
	ret := _m.Called(ctx, charge)
	return ret.Error(0)
}

func (_m *MockLedgerRepository) DeleteCharge(ctx context.Context, chargeID int64) error {
	ret := _m.Called(ctx, chargeID)
	return ret.Error(0)
}

func (_m *MockLedgerRepository) DeleteCharges(ctx context.Context, customerID int64, chargeIDs []int64) (int64, error) {
	ret := _m.Called(ctx, customerID, chargeIDs)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockLedgerRepository) ListPayments(ctx context.Context, customerID int64) ([]Payment, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []Payment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Payment)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerRepository) InsertPayment(ctx context.Context, payment *Payment) error {
	ret := _m.Called(ctx, payment)
	return ret.Error(0)
}

func (_m *MockLedgerRepository) ListCatalog(ctx context.Context, activeOnly bool) ([]CatalogEntry, error) {
	ret := _m.Called(ctx, activeOnly)

	var r0 []CatalogEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]CatalogEntry)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerRepository) FindCatalogEntry(ctx context.Context, entryID int64) (*CatalogEntry, error) {
	ret := _m.Called(ctx, entryID)

	var r0 *CatalogEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*CatalogEntry)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerRepository) InsertCatalogEntry(ctx context.Context, entry *CatalogEntry) error {
	ret := _m.Called(ctx, entry)
	return ret.Error(0)
}

func (_m *MockLedgerRepository) UpdateCatalogEntry(ctx context.Context, entry *CatalogEntry) error {
	ret := _m.Called(ctx, entry)
	return ret.Error(0)
}

var _ LedgerRepository = (*MockLedgerRepository)(nil)

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) CreateNewCustomer(ctx context.Context, name, mobile, village, bankName string, loanAmount decimal.Decimal, customerDate time.Time) (*customer.Customer, error) {
	ret := _m.Called(ctx, name, mobile, village, bankName, loanAmount, customerDate)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) UpdateContactDetails(ctx context.Context, customerID int64, mobile, village, bankName string) error {
	ret := _m.Called(ctx, customerID, mobile, village, bankName)
	return ret.Error(0)
}

var _ customer.CustomerService = (*MockCustomerService)(nil)

type MockEventPublisher struct {
	mock.Mock
}

func (_m *MockEventPublisher) PublishCustomerCreated(ctx context.Context, e event.CustomerCreatedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockEventPublisher) PublishPaymentRecorded(ctx context.Context, e event.PaymentRecordedEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

func (_m *MockEventPublisher) PublishDuesReminder(ctx context.Context, e event.DuesReminderEvent) error {
	ret := _m.Called(ctx, e)
	return ret.Error(0)
}

var _ event.EventPublisher = (*MockEventPublisher)(nil)
