package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the receipts module.
// Tracks issued receipts, rejected submissions and the payment step.
type Metrics struct {
	ReceiptsIssued        *prometheus.CounterVec
	FeesCollected         prometheus.Counter
	SubmissionsRejected   *prometheus.CounterVec
	LedgerPersistFailures prometheus.Counter
	LedgerSize            prometheus.Gauge
	PaymentDuration       prometheus.Histogram
}

// New creates a new Metrics instance registered with the default registerer.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReceiptsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cooliehub_receipts_issued_total",
			Help: "Total receipts issued by kind",
		}, []string{"kind"}),
		FeesCollected: factory.NewCounter(prometheus.CounterOpts{
			Name: "cooliehub_fees_collected_rupees_total",
			Help: "Sum of fees on issued receipts, in rupees",
		}),
		SubmissionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cooliehub_submissions_rejected_total",
			Help: "Submissions that did not produce a receipt, by kind and reason",
		}, []string{"kind", "reason"}),
		LedgerPersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "cooliehub_ledger_persist_failures_total",
			Help: "Ledger snapshot writes that failed",
		}),
		LedgerSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cooliehub_ledger_receipts",
			Help: "Receipts currently held in the ledger",
		}),
		PaymentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cooliehub_payment_duration_seconds",
			Help:    "Duration of the payment authorization step",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5},
		}),
	}
}

// IncrementIssued records one issued receipt and its fee.
func (m *Metrics) IncrementIssued(kind string, amount int) {
	m.ReceiptsIssued.WithLabelValues(kind).Inc()
	m.FeesCollected.Add(float64(amount))
}

func (m *Metrics) IncrementRejected(kind, reason string) {
	m.SubmissionsRejected.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) IncrementPersistFailure() {
	m.LedgerPersistFailures.Inc()
}

func (m *Metrics) SetLedgerSize(n int) {
	m.LedgerSize.Set(float64(n))
}

// ObservePayment records the duration of the payment step.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObservePayment(start time.Time) {
	m.PaymentDuration.Observe(time.Since(start).Seconds())
}
