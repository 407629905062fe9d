// Package payment is the seam between the submission workflow and whatever
// collects the fee. Only a simulated gateway ships today.
package payment

import (
	"context"
	"fmt"
	"time"

	"cooliehub/internal/receipts/models"
)

// Status is the outcome of an authorization attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusDecline Status = "decline"
	StatusError   Status = "error"
)

// Charge describes one fee to collect.
type Charge struct {
	Amount    int
	Reference string
	Kind      models.Kind
}

type Result struct {
	Status      Status
	ProviderRef string
}

// Gateway authorizes a charge. A returned error means the gateway could not
// be reached; declines are reported through Result.Status.
type Gateway interface {
	Authorize(ctx context.Context, charge Charge) (Result, error)
}

// DefaultDelay matches the pause the counter staff are used to.
const DefaultDelay = 600 * time.Millisecond

// Simulated always succeeds after a fixed delay. Zero-amount charges skip the
// delay. Once the wait starts it runs to completion.
type Simulated struct {
	delay time.Duration
	sleep func(time.Duration)
	seq   func() int64
}

// Option configures a Simulated gateway.
type Option func(*Simulated)

func WithDelay(d time.Duration) Option {
	return func(s *Simulated) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithSleep replaces the wait, for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Simulated) {
		s.sleep = sleep
	}
}

func NewSimulated(opts ...Option) *Simulated {
	s := &Simulated{
		delay: DefaultDelay,
		sleep: time.Sleep,
		seq:   func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulated) Authorize(ctx context.Context, charge Charge) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if charge.Amount <= 0 {
		return Result{Status: StatusSuccess}, nil
	}
	s.sleep(s.delay)
	return Result{Status: StatusSuccess, ProviderRef: fmt.Sprintf("sim-%d", s.seq())}, nil
}
