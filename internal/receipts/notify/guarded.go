package notify

import (
	"context"
	"errors"
	"log/slog"

	"cooliehub/internal/receipts/models"
	"cooliehub/pkg/platform/circuit"
)

// Guarded stops calling next while it keeps failing, so a dead SMS provider
// does not add latency to every submission.
type Guarded struct {
	next    Notifier
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuarded(next Notifier, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Guarded{next: next, breaker: breaker, logger: logger}
}

// ErrSkipped is returned while the breaker is open.
var ErrSkipped = errors.New("sms notifier circuit open")

func (g *Guarded) ReceiptIssued(ctx context.Context, rec models.Record) error {
	if !g.breaker.Allow() {
		return ErrSkipped
	}
	if err := g.next.ReceiptIssued(ctx, rec); err != nil {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "sms notifier circuit opened", "breaker", g.breaker.Name(), "error", err)
		}
		return err
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "sms notifier circuit closed", "breaker", g.breaker.Name())
	}
	return nil
}
