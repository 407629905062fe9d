// Package view tracks which receipt is currently open in the detail view.
package view

import (
	"sync"

	"cooliehub/internal/receipts/models"
)

// State holds at most one record. It never reads or writes the ledger.
type State struct {
	mu      sync.RWMutex
	current *models.Record
}

func NewState() *State {
	return &State{}
}

// Show makes rec the current record, replacing any previous one.
func (s *State) Show(rec models.Record) {
	cp := rec.Clone()
	s.mu.Lock()
	s.current = &cp
	s.mu.Unlock()
}

func (s *State) Current() (models.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Record{}, false
	}
	return s.current.Clone(), true
}

// Dismiss clears the current record. Dismissing an empty view is a no-op.
func (s *State) Dismiss() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
