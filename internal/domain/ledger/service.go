package ledger

import (
	"consultancy-ledger/internal/domain/customer"
	"consultancy-ledger/internal/event"
	"consultancy-ledger/internal/infrastructure/monitoring"
	"consultancy-ledger/internal/pkg/apperrors"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type LedgerService interface {
	AddCharge(ctx context.Context, customerID int64, label string, amount decimal.Decimal, catalogEntryID *int64) (*ServiceCharge, error)
	ListCharges(ctx context.Context, customerID int64) ([]ServiceCharge, error)
	DeleteCharge(ctx context.Context, chargeID int64) error
	DeleteCharges(ctx context.Context, customerID int64, chargeIDs []int64) (int64, error)

	RecordPayment(ctx context.Context, customerID int64, date time.Time, amount decimal.Decimal) (*Payment, error)
	ListPayments(ctx context.Context, customerID int64) ([]Payment, error)

	GetLedger(ctx context.Context, customerID int64) (*Ledger, error)
	GetStatement(ctx context.Context, customerID int64) (*Statement, error)
	StatementFileName(customerName string) string

	ListCatalog(ctx context.Context, activeOnly bool) ([]CatalogEntry, error)
	AddCatalogEntry(ctx context.Context, name string, defaultCharge decimal.Decimal) (*CatalogEntry, error)
	UpdateCatalogEntry(ctx context.Context, entryID int64, defaultCharge *decimal.Decimal, active *bool) (*CatalogEntry, error)
}

var _ LedgerService = (*ledgerService)(nil)

type ledgerService struct {
	repo      LedgerRepository
	customers customer.CustomerService
	pub       event.EventPublisher
	branding  Branding
	now       func() time.Time
	logger    *slog.Logger
}

func NewLedgerService(repo LedgerRepository, customers customer.CustomerService, eventPublisher event.EventPublisher, branding Branding, logger *slog.Logger) LedgerService {
	if repo == nil {
		panic("ledger repository cannot be nil")
	}
	if customers == nil {
		panic("customer service cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewLedgerService, using default stderr handler")
	}

	return &ledgerService{
		repo:      repo,
		customers: customers,
		pub:       eventPublisher,
		branding:  branding,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "ledgerService")),
	}
}

func (s *ledgerService) AddCharge(ctx context.Context, customerID int64, label string, amount decimal.Decimal, catalogEntryID *int64) (*ServiceCharge, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to add service charge")

	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	label = strings.TrimSpace(label)
	if catalogEntryID != nil {
		entry, err := s.repo.FindCatalogEntry(ctx, *catalogEntryID)
		if err != nil {
			if errors.Is(err, ErrCatalogEntryNotFound) {
				logCtx.WarnContext(ctx, "Catalog entry not found", slog.Int64("entryID", *catalogEntryID))
				return nil, ErrCatalogEntryNotFound
			}
			logCtx.ErrorContext(ctx, "Repository error finding catalog entry", slog.Any("error", err))
			return nil, fmt.Errorf("failed to load catalog entry %d: %w", *catalogEntryID, err)
		}
		// Snapshot copy: the charge keeps these values even if the
		// catalog entry is edited later.
		if label == "" {
			label = entry.Name
		}
		if amount.IsZero() {
			amount = entry.DefaultCharge
		}
	}

	if label == "" {
		logCtx.WarnContext(ctx, "Validation failed: charge label is empty")
		return nil, apperrors.NewValidationError("label", "charge label cannot be empty")
	}
	if amount.IsNegative() {
		logCtx.WarnContext(ctx, "Validation failed: charge amount is negative")
		return nil, fmt.Errorf("%w: charge amount cannot be negative", apperrors.ErrInvalidAmount)
	}

	charge := &ServiceCharge{
		CustomerID: customerID,
		Label:      label,
		Amount:     amount,
		CreatedAt:  s.now(),
	}

	if err := s.repo.InsertCharge(ctx, charge); err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to insert charge", slog.Any("error", err))
		return nil, fmt.Errorf("failed to add charge for customer %d: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully added service charge", slog.Int64("chargeID", charge.ChargeID))
	return charge, nil
}

func (s *ledgerService) ListCharges(ctx context.Context, customerID int64) ([]ServiceCharge, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Listing service charges")

	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	charges, err := s.repo.ListCharges(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error listing charges", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list charges for customer %d: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully listed charges", slog.Int("count", len(charges)))
	return charges, nil
}

func (s *ledgerService) DeleteCharge(ctx context.Context, chargeID int64) error {
	logCtx := s.logger.With(slog.Int64("chargeID", chargeID))
	logCtx.InfoContext(ctx, "Attempting to delete service charge")

	err := s.repo.DeleteCharge(ctx, chargeID)
	if err != nil {
		if errors.Is(err, ErrChargeNotFound) {
			logCtx.WarnContext(ctx, "Charge not found by repository")
			return ErrChargeNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error deleting charge", slog.Any("error", err))
		return fmt.Errorf("failed to delete charge %d: %w", chargeID, err)
	}

	logCtx.InfoContext(ctx, "Successfully deleted service charge")
	return nil
}

func (s *ledgerService) DeleteCharges(ctx context.Context, customerID int64, chargeIDs []int64) (int64, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID), slog.Int("requested", len(chargeIDs)))
	logCtx.InfoContext(ctx, "Attempting to bulk delete service charges")

	if len(chargeIDs) == 0 {
		logCtx.WarnContext(ctx, "Validation failed: no charge ids provided")
		return 0, apperrors.NewValidationError("chargeIds", "at least one charge id must be provided")
	}

	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return 0, err
	}

	deleted, err := s.repo.DeleteCharges(ctx, customerID, chargeIDs)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error bulk deleting charges", slog.Any("error", err))
		return 0, fmt.Errorf("failed to delete charges for customer %d: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully bulk deleted service charges", slog.Int64("deleted", deleted))
	return deleted, nil
}

func (s *ledgerService) RecordPayment(ctx context.Context, customerID int64, date time.Time, amount decimal.Decimal) (*Payment, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to record payment")

	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	if amount.IsNegative() {
		logCtx.WarnContext(ctx, "Validation failed: payment amount is negative")
		return nil, fmt.Errorf("%w: payment amount cannot be negative", apperrors.ErrInvalidAmount)
	}
	if date.IsZero() {
		date = s.now()
	}

	payment := &Payment{
		CustomerID: customerID,
		Date:       date,
		Amount:     amount,
		CreatedAt:  s.now(),
	}

	if err := s.repo.InsertPayment(ctx, payment); err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to insert payment", slog.Any("error", err))
		return nil, fmt.Errorf("failed to record payment for customer %d: %w", customerID, err)
	}
	monitoring.RecordPaymentRecorded()

	logCtx = logCtx.With(slog.Int64("paymentID", payment.PaymentID))
	logCtx.InfoContext(ctx, "Successfully recorded payment, publishing event")

	balance := decimal.Zero
	if led, ledErr := s.computeLedger(ctx, customerID); ledErr != nil {
		logCtx.ErrorContext(ctx, "Payment recorded, but failed to recompute balance for event", slog.Any("error", ledErr))
	} else {
		balance = led.Balance
	}

	if s.pub != nil {
		recordedEvent := event.PaymentRecordedEvent{
			Timestamp: s.now(),
			Payload: event.PaymentEventPayload{
				PaymentID:  payment.PaymentID,
				CustomerID: customerID,
				Date:       payment.Date,
				Amount:     payment.Amount,
				Balance:    balance,
			},
		}
		if pubErr := s.pub.PublishPaymentRecorded(ctx, recordedEvent); pubErr != nil {
			logCtx.ErrorContext(ctx, "Payment recorded, but FAILED to publish event", slog.Any("error", pubErr))
		} else {
			logCtx.InfoContext(ctx, "Successfully published payment recorded event")
		}
	}

	return payment, nil
}

func (s *ledgerService) ListPayments(ctx context.Context, customerID int64) ([]Payment, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Listing payments")

	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	payments, err := s.repo.ListPayments(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error listing payments", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list payments for customer %d: %w", customerID, err)
	}

	// Listings show the most recent payment first; the ledger document
	// orders its own rows chronologically.
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].Date.Equal(payments[j].Date) {
			return payments[i].PaymentID > payments[j].PaymentID
		}
		return payments[i].Date.After(payments[j].Date)
	})

	logCtx.InfoContext(ctx, "Successfully listed payments", slog.Int("count", len(payments)))
	return payments, nil
}

func (s *ledgerService) computeLedger(ctx context.Context, customerID int64) (*Ledger, error) {
	charges, err := s.repo.ListCharges(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list charges for customer %d: %w", customerID, err)
	}
	payments, err := s.repo.ListPayments(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for customer %d: %w", customerID, err)
	}
	led := Calculate(charges, payments)
	return &led, nil
}

func (s *ledgerService) GetLedger(ctx context.Context, customerID int64) (*Ledger, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Computing ledger")

	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	led, err := s.computeLedger(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to compute ledger", slog.Any("error", err))
		return nil, err
	}

	logCtx.InfoContext(ctx, "Successfully computed ledger", slog.String("balance", led.Balance.String()))
	return led, nil
}

func (s *ledgerService) GetStatement(ctx context.Context, customerID int64) (*Statement, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Generating statement")

	cust, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	led, err := s.computeLedger(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to compute ledger for statement", slog.Any("error", err))
		return nil, err
	}

	statement := FormatStatement(cust, *led, s.branding, s.now())
	logCtx.InfoContext(ctx, "Successfully generated statement", slog.Bool("fullySettled", statement.FullySettled))
	return statement, nil
}

func (s *ledgerService) StatementFileName(customerName string) string {
	return ExportFileName(customerName, s.now())
}

func (s *ledgerService) ListCatalog(ctx context.Context, activeOnly bool) ([]CatalogEntry, error) {
	s.logger.InfoContext(ctx, "Listing service catalog", slog.Bool("activeOnly", activeOnly))

	entries, err := s.repo.ListCatalog(ctx, activeOnly)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing catalog", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list service catalog: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully listed catalog", slog.Int("count", len(entries)))
	return entries, nil
}

func (s *ledgerService) AddCatalogEntry(ctx context.Context, name string, defaultCharge decimal.Decimal) (*CatalogEntry, error) {
	s.logger.InfoContext(ctx, "Attempting to add catalog entry")

	name = strings.TrimSpace(name)
	if name == "" {
		s.logger.WarnContext(ctx, "Validation failed: catalog entry name is empty")
		return nil, apperrors.NewValidationError("name", "catalog entry name cannot be empty")
	}
	if defaultCharge.IsNegative() {
		s.logger.WarnContext(ctx, "Validation failed: default charge is negative", slog.String("name", name))
		return nil, fmt.Errorf("%w: default charge cannot be negative", apperrors.ErrInvalidAmount)
	}

	entry := &CatalogEntry{
		Name:          name,
		DefaultCharge: defaultCharge,
		Active:        true,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertCatalogEntry(ctx, entry); err != nil {
		if errors.Is(err, ErrDuplicateCatalogName) {
			s.logger.WarnContext(ctx, "Duplicate catalog entry name", slog.String("name", name))
			return nil, ErrDuplicateCatalogName
		}
		s.logger.ErrorContext(ctx, "Repository failed to insert catalog entry", slog.Any("error", err))
		return nil, fmt.Errorf("failed to add catalog entry '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Successfully added catalog entry", slog.Int64("entryID", entry.EntryID))
	return entry, nil
}

func (s *ledgerService) UpdateCatalogEntry(ctx context.Context, entryID int64, defaultCharge *decimal.Decimal, active *bool) (*CatalogEntry, error) {
	logCtx := s.logger.With(slog.Int64("entryID", entryID))
	logCtx.InfoContext(ctx, "Attempting to update catalog entry")

	if defaultCharge == nil && active == nil {
		logCtx.WarnContext(ctx, "Validation failed: no catalog fields provided")
		return nil, apperrors.NewValidationError("", "at least one of defaultCharge or active must be provided")
	}
	if defaultCharge != nil && defaultCharge.IsNegative() {
		logCtx.WarnContext(ctx, "Validation failed: default charge is negative")
		return nil, fmt.Errorf("%w: default charge cannot be negative", apperrors.ErrInvalidAmount)
	}

	entry, err := s.repo.FindCatalogEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, ErrCatalogEntryNotFound) {
			logCtx.WarnContext(ctx, "Catalog entry not found by repository")
			return nil, ErrCatalogEntryNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error finding catalog entry", slog.Any("error", err))
		return nil, fmt.Errorf("cannot find catalog entry %d to update: %w", entryID, err)
	}

	if defaultCharge != nil {
		entry.DefaultCharge = *defaultCharge
	}
	if active != nil {
		entry.Active = *active
	}

	if err := s.repo.UpdateCatalogEntry(ctx, entry); err != nil {
		if errors.Is(err, ErrCatalogEntryNotFound) {
			logCtx.ErrorContext(ctx, "Catalog entry disappeared before update completed")
			return nil, ErrCatalogEntryNotFound
		}
		logCtx.ErrorContext(ctx, "Repository failed to update catalog entry", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update catalog entry %d: %w", entryID, err)
	}

	logCtx.InfoContext(ctx, "Successfully updated catalog entry")
	return entry, nil
}
