package service

import (
	"sync"

	"cooliehub/internal/receipts/models"
)

// inflight tracks submissions that are between validation and ledger append,
// keyed by kind and mobile.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{})}
}

// acquire claims the key. The returned release must be called once the
// submission finishes, whatever its outcome.
func (f *inflight) acquire(kind models.Kind, mobile string) (func(), bool) {
	key := string(kind) + ":" + mobile
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return nil, false
	}
	f.keys[key] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.keys, key)
		f.mu.Unlock()
	}, true
}
