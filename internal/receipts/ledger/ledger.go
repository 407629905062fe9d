// Package ledger holds the ordered sequence of issued receipts and mirrors it
// to a single durable snapshot slot after every change.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cooliehub/internal/receipts/models"
	"cooliehub/pkg/platform/sentinel"
)

// ErrNotPersisted is returned (wrapped) by Append and Flush when the snapshot
// could not be written. The in-memory ledger already holds the record.
var ErrNotPersisted = errors.New("ledger snapshot not persisted")

// Snapshot is the durable slot the whole ledger is written to. Read returns
// sentinel.ErrNotFound when nothing has been stored yet.
type Snapshot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
}

// Ledger is newest-first and append-only. Safe for concurrent use.
type Ledger struct {
	mu       sync.RWMutex
	records  []models.Record
	snapshot Snapshot
	logger   *slog.Logger
	dirty    bool
}

// Load reads the snapshot slot once and builds the ledger from it. A missing,
// unreadable or malformed snapshot yields an empty ledger; Load never fails.
func Load(ctx context.Context, snapshot Snapshot, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Ledger{snapshot: snapshot, logger: logger}

	raw, err := snapshot.Read(ctx)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		logger.InfoContext(ctx, "ledger snapshot empty, starting fresh")
		return l
	case err != nil:
		logger.WarnContext(ctx, "ledger snapshot unreadable, starting empty", "error", err)
		return l
	}

	records, err := Decode(raw)
	if err != nil {
		logger.WarnContext(ctx, "ledger snapshot invalid, starting empty", "error", err)
		return l
	}
	l.records = records
	logger.InfoContext(ctx, "ledger loaded", "receipts", len(records))
	return l
}

// Append prepends rec and writes the whole ledger to the snapshot slot. The
// returned slice is a copy of the new sequence, newest first. If the write
// fails the record stays in memory, the ledger is marked dirty and the error
// wraps ErrNotPersisted.
func (l *Ledger) Append(ctx context.Context, rec models.Record) ([]models.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]models.Record, 0, len(l.records)+1)
	next = append(next, rec.Clone())
	next = append(next, l.records...)
	l.records = next

	out := l.copyLocked()
	if err := l.persistLocked(ctx); err != nil {
		return out, err
	}
	return out, nil
}

// Flush rewrites the snapshot if the previous write failed.
func (l *Ledger) Flush(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.dirty {
		return nil
	}
	return l.persistLocked(ctx)
}

// Dirty reports whether the snapshot is behind the in-memory ledger.
func (l *Ledger) Dirty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dirty
}

// Records returns a copy of the ledger, newest first.
func (l *Ledger) Records() []models.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.copyLocked()
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Find returns the newest record with the given receipt number.
func (l *Ledger) Find(receiptNo string) (models.Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.ReceiptNo == receiptNo {
			return r.Clone(), true
		}
	}
	return models.Record{}, false
}

func (l *Ledger) Contains(receiptNo string) bool {
	_, ok := l.Find(receiptNo)
	return ok
}

func (l *Ledger) copyLocked() []models.Record {
	out := make([]models.Record, len(l.records))
	for i, r := range l.records {
		out[i] = r.Clone()
	}
	return out
}

func (l *Ledger) persistLocked(ctx context.Context) error {
	payload, err := Encode(l.records)
	if err != nil {
		l.dirty = true
		return fmt.Errorf("%w: encode: %w", ErrNotPersisted, err)
	}
	if err := l.snapshot.Write(ctx, payload); err != nil {
		l.dirty = true
		l.logger.WarnContext(ctx, "ledger snapshot write failed", "error", err, "receipts", len(l.records))
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	l.dirty = false
	return nil
}
