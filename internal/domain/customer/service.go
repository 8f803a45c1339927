package customer

import (
	"consultancy-ledger/internal/event"
	"consultancy-ledger/internal/infrastructure/monitoring"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	inputValidationPassed = "Input validation passed"
	customerNotFound      = "Customer not found by repository"
)

type CustomerService interface {
	CreateNewCustomer(ctx context.Context, name, mobile, village, bankName string, loanAmount decimal.Decimal, customerDate time.Time) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	UpdateContactDetails(ctx context.Context, customerID int64, mobile, village, bankName string) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, eventPublisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID:   cust.CustomerID,
		Name:         cust.Name,
		Mobile:       cust.Mobile,
		Village:      cust.Village,
		BankName:     cust.BankName,
		LoanAmount:   cust.LoanAmount,
		CustomerDate: cust.CustomerDate,
		CreatedAt:    cust.CreatedAt,
		UpdatedAt:    cust.UpdatedAt,
	}
}

func (s *customerService) CreateNewCustomer(ctx context.Context, name, mobile, village, bankName string, loanAmount decimal.Decimal, customerDate time.Time) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)
	village = strings.TrimSpace(village)
	bankName = strings.TrimSpace(bankName)
	if name == "" {
		s.logger.WarnContext(ctx, "Validation failed: name is empty")
		return nil, errors.New("customer name cannot be empty")
	}
	if mobile == "" {
		s.logger.WarnContext(ctx, "Validation failed: mobile is empty", slog.String("name", name))
		return nil, errors.New("customer mobile cannot be empty")
	}
	if loanAmount.IsNegative() {
		s.logger.WarnContext(ctx, "Validation failed: loan amount is negative", slog.String("name", name))
		return nil, errors.New("loan amount cannot be negative")
	}
	if customerDate.IsZero() {
		customerDate = time.Now()
	}
	s.logger.InfoContext(ctx, inputValidationPassed, slog.String("name", name))

	customer := NewCustomer(name, mobile, village, bankName, loanAmount, customerDate)

	s.logger.InfoContext(ctx, "Calling repository Save")
	err := s.repo.Save(ctx, customer)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}
	monitoring.RecordCustomerCreated()

	logCtx := s.logger.With(slog.Int64("customerID", customer.CustomerID))
	logCtx.InfoContext(ctx, "Successfully saved new customer, publishing creation event")
	if s.pub != nil {
		createdEvent := event.CustomerCreatedEvent{
			Timestamp: time.Now(),
			Payload:   NewCustomerEventPayload(customer),
		}
		if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
			logCtx.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
		} else {
			logCtx.InfoContext(ctx, "Successfully published customer creation event")
		}
	}

	logCtx.InfoContext(ctx, "Successfully created new customer")
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer by ID", slog.Int64("customerID", customerID))

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, ErrNotFound
		}

		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customer", slog.Int64("customerID", customerID))
	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list all customers")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) UpdateContactDetails(ctx context.Context, customerID int64, mobile, village, bankName string) error {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to update customer contact details")

	mobile = strings.TrimSpace(mobile)
	village = strings.TrimSpace(village)
	bankName = strings.TrimSpace(bankName)
	if mobile == "" && village == "" && bankName == "" {
		logCtx.WarnContext(ctx, "Validation failed: no contact fields provided")
		return errors.New("at least one contact field must be provided")
	}
	logCtx.InfoContext(ctx, inputValidationPassed)

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found by repository for update")
			return ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error finding customer for update", slog.Any("error", err))
		return fmt.Errorf("cannot find customer %d to update contact details: %w", customerID, err)
	}

	if !customer.UpdateContact(mobile, village, bankName) {
		logCtx.InfoContext(ctx, "No contact change needed, skipping save")
		return nil
	}

	logCtx.InfoContext(ctx, "Calling repository Save to persist contact change")
	err = s.repo.Save(ctx, customer)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to save updated contact details", slog.Any("error", err))

		if errors.Is(err, ErrNotFound) {
			logCtx.ErrorContext(ctx, "Customer disappeared before save completed")
			return ErrNotFound
		}

		return fmt.Errorf("failed to save updated contact details for customer %d: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully updated customer contact details")
	return nil
}
