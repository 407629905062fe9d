package audit

import (
	"context"
	"errors"
	"time"
)

// ErrSinkFull is returned when the worker does not take an event in time.
var ErrSinkFull = errors.New("audit sink full")

// DefaultSendTimeout bounds how long ChannelSink waits for buffer space.
const DefaultSendTimeout = 2 * time.Second

// Store is an append-only sink for events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
	now   func() time.Time
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store, now: time.Now}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = p.now()
	}
	return p.store.Append(ctx, base)
}

// ChannelSink hands events to a Worker. Append waits for buffer space until
// the send timeout elapses or ctx is done, then drops the event.
type ChannelSink struct {
	out     chan<- Event
	timeout time.Duration
}

type SinkOption func(*ChannelSink)

func WithSendTimeout(d time.Duration) SinkOption {
	return func(c *ChannelSink) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewChannelSink(out chan<- Event, opts ...SinkOption) *ChannelSink {
	c := &ChannelSink{out: out, timeout: DefaultSendTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ChannelSink) Append(ctx context.Context, event Event) error {
	select {
	case c.out <- event:
		return nil
	default:
	}
	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case c.out <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrSinkFull
	}
}
