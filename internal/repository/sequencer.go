package repository

import (
	"fmt"
	"sync"

	"github.com/nextup/campus-queue/internal/model"
)

// numberWidth is the zero-padded width of the sequence part of a queue
// number. Four digits is the canonical format: cashier ticket 1 renders
// as "C0001".
const numberWidth = 4

// Sequencer issues the monotonically increasing, gap-free ticket number
// of each service. Two concurrent calls for the same service never
// return the same sequence value. Numbering restarts at 1 only through
// an explicit Reset.
//
// Callers that must keep numbering gap-free across failures should
// invoke NextNumber only after every other precondition has passed,
// inside the store's transaction slot for the same service.
type Sequencer struct {
	mu      sync.Mutex
	catalog map[string]model.Service
	next    map[string]int
}

// NewSequencer builds a sequencer for the configured catalog. Every
// service starts at sequence 1.
func NewSequencer(catalog map[string]model.Service) *Sequencer {
	next := make(map[string]int, len(catalog))
	for id := range catalog {
		next[id] = 1
	}
	return &Sequencer{catalog: catalog, next: next}
}

// NextNumber atomically claims the next sequence value for the service
// and returns it together with its formatted queue number.
func (s *Sequencer) NextNumber(serviceID string) (int, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.catalog[serviceID]
	if !ok {
		return 0, "", ErrUnknownService
	}
	seq := s.next[serviceID]
	s.next[serviceID] = seq + 1
	return seq, Format(svc.CodePrefix, seq), nil
}

// Peek reports the sequence value the next ticket would receive without
// claiming it. Used by the admin all-queues overview.
func (s *Sequencer) Peek(serviceID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.catalog[serviceID]; !ok {
		return 0, ErrUnknownService
	}
	return s.next[serviceID], nil
}

// Reset restarts the service's numbering at 1. Only an admin reset of
// the queue may call this.
func (s *Sequencer) Reset(serviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.catalog[serviceID]; !ok {
		return ErrUnknownService
	}
	s.next[serviceID] = 1
	return nil
}

// Format renders a queue number from a service code prefix and a
// sequence value, e.g. Format("C", 1) == "C0001".
func Format(codePrefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", codePrefix, numberWidth, seq)
}
