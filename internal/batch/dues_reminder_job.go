package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"consultancy-ledger/internal/domain/customer"
	"consultancy-ledger/internal/domain/ledger"
	"consultancy-ledger/internal/event"
	"consultancy-ledger/internal/infrastructure/monitoring"
)

// DuesReminderJob walks all customers, recomputes each ledger and publishes
// a reminder event for every account that still carries an outstanding
// balance. Downstream consumers turn these into SMS or WhatsApp nudges.
type DuesReminderJob struct {
	customerService customer.CustomerService
	ledgerService   ledger.LedgerService
	publisher       event.EventPublisher
	logger          *slog.Logger
}

func NewDuesReminderJob(
	customerSvc customer.CustomerService,
	ledgerSvc ledger.LedgerService,
	publisher event.EventPublisher,
	logger *slog.Logger,
) *DuesReminderJob {
	if customerSvc == nil || ledgerSvc == nil || logger == nil {
		panic("DuesReminderJob dependencies cannot be nil")
	}
	return &DuesReminderJob{
		customerService: customerSvc,
		ledgerService:   ledgerSvc,
		publisher:       publisher,
		logger:          logger.With("job", "DuesReminder"),
	}
}

func (j *DuesReminderJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily dues reminder job.")

	j.logger.DebugContext(ctx, "Fetching customers from service.")
	customers, err := j.customerService.ListCustomers(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list customers, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to list customers: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched customers.", slog.Int("count", len(customers)))

	if len(customers) == 0 {
		j.logger.InfoContext(ctx, "No customers found to process.")
		j.logger.InfoContext(ctx, "Dues reminder job finished.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var processedCount, dueCount, publishedCount, errorCount atomic.Int32

	for _, cust := range customers {
		wg.Add(1)
		go func(cust *customer.Customer) {
			defer wg.Done()

			logCtx := j.logger.With(slog.Int64("customerID", cust.CustomerID))

			logCtx.DebugContext(ctx, "Computing ledger balance.")
			led, ledErr := j.ledgerService.GetLedger(ctx, cust.CustomerID)
			if ledErr != nil {
				if errors.Is(ledErr, customer.ErrNotFound) {
					logCtx.WarnContext(ctx, "Customer disappeared during dues check (deleted recently?)", slog.Any("error", ledErr))
				} else {
					logCtx.ErrorContext(ctx, "Failed to compute ledger", slog.Any("error", ledErr))
					errorCount.Add(1)
				}
				return
			}
			processedCount.Add(1)

			if !led.Balance.IsPositive() {
				logCtx.DebugContext(ctx, "Account settled, no reminder needed.")
				return
			}
			dueCount.Add(1)

			if j.publisher == nil {
				logCtx.DebugContext(ctx, "No event publisher configured, skipping reminder.")
				return
			}

			reminder := event.DuesReminderEvent{
				Timestamp: time.Now(),
				Payload: event.DuesReminderPayload{
					CustomerID: cust.CustomerID,
					Name:       cust.Name,
					Mobile:     cust.Mobile,
					Balance:    led.Balance,
				},
			}
			if pubErr := j.publisher.PublishDuesReminder(ctx, reminder); pubErr != nil {
				logCtx.ErrorContext(ctx, "Failed to publish dues reminder", slog.Any("error", pubErr))
				errorCount.Add(1)
				return
			}
			monitoring.RecordDuesReminderPublished()
			publishedCount.Add(1)
			logCtx.InfoContext(ctx, "Dues reminder published.", slog.String("balance", led.Balance.String()))
		}(cust)
	}

	wg.Wait()
	duration := time.Since(startTime)
	summaryLog := j.logger.With(
		slog.Duration("duration", duration),
		slog.Int("total_customers", len(customers)),
		slog.Int("customers_processed", int(processedCount.Load())),
		slog.Int("customers_with_dues", int(dueCount.Load())),
		slog.Int("reminders_published", int(publishedCount.Load())),
		slog.Int("errors_encountered", int(errorCount.Load())),
	)
	if errorCount.Load() > 0 {
		summaryLog.WarnContext(ctx, "Dues reminder job finished with errors.")
	} else {
		summaryLog.InfoContext(ctx, "Dues reminder job finished successfully.")
	}

	if n := errorCount.Load(); n > 0 {
		return fmt.Errorf("job completed with %d errors", n)
	}
	return nil
}
