package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersCreatedTotal       prometheus.Counter
	PaymentsRecordedTotal       prometheus.Counter
	StatementsGeneratedTotal    *prometheus.CounterVec
	DuesRemindersPublishedTotal prometheus.Counter
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "consultancy_ledger_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "consultancy_ledger_customers_created_total",
				Help: "Total number of customers successfully created.",
			},
		),
		PaymentsRecordedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "consultancy_ledger_payments_recorded_total",
				Help: "Total number of payments recorded against customer ledgers.",
			},
		),
		StatementsGeneratedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "consultancy_ledger_statements_generated_total",
				Help: "Total number of statements generated, by output target.",
			},
			[]string{"target"},
		),
		DuesRemindersPublishedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "consultancy_ledger_dues_reminders_published_total",
				Help: "Total number of dues reminder events published by the batch job.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordCustomerCreated() {
	Business.CustomersCreatedTotal.Inc()
}

func RecordPaymentRecorded() {
	Business.PaymentsRecordedTotal.Inc()
}

func RecordStatementGenerated(target string) {
	Business.StatementsGeneratedTotal.WithLabelValues(target).Inc()
}

func RecordDuesReminderPublished() {
	Business.DuesRemindersPublishedTotal.Inc()
}
