package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cooliehub/internal/audit"
	"cooliehub/internal/receipts/ledger"
	"cooliehub/internal/receipts/metrics"
	"cooliehub/internal/receipts/models"
	"cooliehub/internal/receipts/payment"
	dErrors "cooliehub/pkg/domain-errors"
	"cooliehub/pkg/requestcontext"
)

// PersistWarning is attached to submissions whose receipt is issued but not
// yet in durable storage.
const PersistWarning = "receipt issued but not yet saved to storage; it will be saved again before shutdown"

// DefaultEffectTimeout bounds each audit emit and confirmation send.
const DefaultEffectTimeout = 5 * time.Second

type Ledger interface {
	Append(ctx context.Context, rec models.Record) ([]models.Record, error)
	Contains(receiptNo string) bool
	Len() int
}

// Viewer receives the record to show after a successful submission.
type Viewer interface {
	Show(rec models.Record)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

type Notifier interface {
	ReceiptIssued(ctx context.Context, rec models.Record) error
}

// Submission is the outcome of a successful workflow run: the new record,
// the blank form the client should reset to, and a warning when the ledger
// could not be saved.
type Submission struct {
	Record  models.Record
	Form    any
	Warning string
}

// Service runs the submission workflow for both form kinds.
type Service struct {
	ledger         Ledger
	gateway        payment.Gateway
	viewer         Viewer
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	notifier       Notifier
	tracer         trace.Tracer
	numbers        func() int
	effectTimeout  time.Duration
	inflight       *inflight
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithNumberSource replaces the random receipt number draw.
func WithNumberSource(next func() int) Option {
	return func(s *Service) {
		s.numbers = next
	}
}

// WithEffectTimeout bounds the audit and confirmation steps that follow a
// committed receipt.
func WithEffectTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.effectTimeout = d
		}
	}
}

// New constructs a Service.
func New(l Ledger, gateway payment.Gateway, viewer Viewer, opts ...Option) *Service {
	s := &Service{
		ledger:        l,
		gateway:       gateway,
		viewer:        viewer,
		logger:        slog.New(slog.DiscardHandler),
		tracer:        otel.Tracer("cooliehub/receipts"),
		numbers:       randomReceiptNumber,
		effectTimeout: DefaultEffectTimeout,
		inflight:      newInflight(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil {
		s.metrics.SetLedgerSize(l.Len())
	}
	return s
}

// applicant is the part of a form that lands on the receipt.
type applicant struct {
	name    string
	mobile  string
	village string
	extra   *models.Extra
}

// SubmitWorker collects the registration fee and issues a receipt.
func (s *Service) SubmitWorker(ctx context.Context, form models.WorkerForm) (*Submission, error) {
	form, err := ValidateWorker(form)
	if err != nil {
		s.reject(ctx, models.KindWorker, form.Mobile, "validation", err)
		return nil, err
	}
	rec, warning, err := s.submit(ctx, models.KindWorker, applicant{
		name:    form.Name,
		mobile:  form.Mobile,
		village: form.Village,
	})
	if err != nil {
		return nil, err
	}
	return &Submission{Record: rec, Form: models.BlankWorkerForm(), Warning: warning}, nil
}

// SubmitFarmer logs a free labour request and issues a receipt for it.
func (s *Service) SubmitFarmer(ctx context.Context, form models.FarmerForm) (*Submission, error) {
	form, err := ValidateFarmer(form)
	if err != nil {
		s.reject(ctx, models.KindFarmer, form.Mobile, "validation", err)
		return nil, err
	}
	rec, warning, err := s.submit(ctx, models.KindFarmer, applicant{
		name:    form.Name,
		mobile:  form.Mobile,
		village: form.Village,
		extra:   &models.Extra{Farmer: form.Need},
	})
	if err != nil {
		return nil, err
	}
	return &Submission{Record: rec, Form: models.BlankFarmerForm(), Warning: warning}, nil
}

func (s *Service) submit(ctx context.Context, kind models.Kind, a applicant) (models.Record, string, error) {
	ctx, span := s.tracer.Start(ctx, "receipts.submit", trace.WithAttributes(
		attribute.String("receipt.kind", string(kind)),
		attribute.Int("receipt.amount", kind.Amount()),
	))
	defer span.End()

	rec, warning, err := s.run(ctx, kind, a)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.Record{}, "", err
	}
	span.SetAttributes(attribute.String("receipt.no", rec.ReceiptNo))
	return rec, warning, nil
}

func (s *Service) run(ctx context.Context, kind models.Kind, a applicant) (models.Record, string, error) {
	release, ok := s.inflight.acquire(kind, a.mobile)
	if !ok {
		err := dErrors.New(dErrors.CodeConflict, "submission_in_progress")
		s.reject(ctx, kind, a.mobile, "in_flight", err)
		return models.Record{}, "", err
	}
	defer release()

	if err := s.authorize(ctx, kind, a.mobile); err != nil {
		return models.Record{}, "", err
	}
	// Payment has been taken; the rest must finish even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	receiptNo, ok := s.nextReceiptNumber()
	if !ok {
		err := dErrors.New(dErrors.CodeInternal, "could not allocate a unique receipt number")
		s.reject(ctx, kind, a.mobile, "receipt_number", err)
		return models.Record{}, "", err
	}

	rec := models.Record{
		Type:      kind.ServiceType(),
		Name:      a.name,
		Mobile:    a.mobile,
		Village:   a.village,
		Amount:    kind.Amount(),
		Date:      models.FormatDate(requestcontext.Now(ctx)),
		ReceiptNo: receiptNo,
		Extra:     a.extra,
	}

	warning := ""
	records, err := s.ledger.Append(ctx, rec)
	if err != nil {
		if !errors.Is(err, ledger.ErrNotPersisted) {
			return models.Record{}, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to record receipt")
		}
		warning = PersistWarning
		s.logger.WarnContext(ctx, "receipt issued without durable copy",
			"receipt_no", rec.ReceiptNo,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		s.emit(ctx, audit.Event{
			Action:  audit.ActionLedgerPersistFailed,
			Subject: rec.ReceiptNo,
			Kind:    string(kind),
			Amount:  rec.Amount,
			Reason:  err.Error(),
		})
		if s.metrics != nil {
			s.metrics.IncrementPersistFailure()
		}
	}

	s.issued(ctx, kind, rec, len(records))
	return rec, warning, nil
}

func (s *Service) authorize(ctx context.Context, kind models.Kind, mobile string) error {
	start := time.Now()
	result, err := s.gateway.Authorize(ctx, payment.Charge{
		Amount:    kind.Amount(),
		Reference: string(kind) + ":" + mobile,
		Kind:      kind,
	})
	if s.metrics != nil {
		s.metrics.ObservePayment(start)
	}

	switch {
	case err != nil:
		derr := dErrors.Wrap(err, dErrors.CodePaymentFailed, "payment could not be completed")
		s.reject(ctx, kind, mobile, "payment_error", derr)
		return derr
	case result.Status == payment.StatusDecline:
		derr := dErrors.New(dErrors.CodePaymentDeclined, "payment was declined")
		s.emit(ctx, audit.Event{
			Action:  audit.ActionPaymentDeclined,
			Subject: mobile,
			Kind:    string(kind),
			Amount:  kind.Amount(),
		})
		if s.metrics != nil {
			s.metrics.IncrementRejected(string(kind), "payment_declined")
		}
		return derr
	case result.Status != payment.StatusSuccess:
		derr := dErrors.New(dErrors.CodePaymentFailed, "payment could not be completed")
		s.reject(ctx, kind, mobile, "payment_error", derr)
		return derr
	}
	if result.ProviderRef != "" {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("payment.provider_ref", result.ProviderRef))
	}
	s.logger.DebugContext(ctx, "payment authorized",
		"kind", string(kind),
		"amount", kind.Amount(),
		"provider_ref", result.ProviderRef,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// issued runs the post-append steps: show, audit, metrics, confirmation.
func (s *Service) issued(ctx context.Context, kind models.Kind, rec models.Record, ledgerSize int) {
	if s.viewer != nil {
		s.viewer.Show(rec)
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionReceiptIssued,
		Subject: rec.ReceiptNo,
		Kind:    string(kind),
		Amount:  rec.Amount,
	})
	if s.metrics != nil {
		s.metrics.IncrementIssued(string(kind), rec.Amount)
		s.metrics.SetLedgerSize(ledgerSize)
	}
	s.logger.InfoContext(ctx, "receipt issued",
		"receipt_no", rec.ReceiptNo,
		"kind", string(kind),
		"amount", rec.Amount,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.notifier != nil {
		sendCtx, cancel := context.WithTimeout(ctx, s.effectTimeout)
		defer cancel()
		if err := s.notifier.ReceiptIssued(sendCtx, rec); err != nil {
			s.logger.WarnContext(ctx, "receipt confirmation not sent",
				"receipt_no", rec.ReceiptNo,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}
}

func (s *Service) reject(ctx context.Context, kind models.Kind, mobile, reason string, err error) {
	s.logger.InfoContext(ctx, "submission rejected",
		"kind", string(kind),
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	s.emit(ctx, audit.Event{
		Action:  audit.ActionSubmissionRejected,
		Subject: mobile,
		Kind:    string(kind),
		Amount:  kind.Amount(),
		Reason:  reason,
	})
	if s.metrics != nil {
		s.metrics.IncrementRejected(string(kind), reason)
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	emitCtx, cancel := context.WithTimeout(ctx, s.effectTimeout)
	defer cancel()
	if err := s.auditPublisher.Emit(emitCtx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}
