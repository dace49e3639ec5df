package repository

import (
	"context"
	"sort"
	"time"

	"github.com/nextup/campus-queue/internal/model"
)

// QueueStore holds every service's ordered ticket collection and is the
// single point of truth for queue state. All reads and writes go through
// Transact, which serializes callers per service: a transaction observes
// the ticket collection, optionally mutates it, and is guaranteed to
// happen entirely before or entirely after any other transaction on the
// same service. Operations on different services never block each other.
//
// Tickets are retained as history; they are never removed from the
// collection, only transitioned between statuses.
type QueueStore struct {
	waitTimeout time.Duration
	queues      map[string]*serviceQueue
}

// serviceQueue is the per-service state. The slot channel has capacity
// one and acts as the transaction slot: holding the token grants
// exclusive access to tickets.
type serviceQueue struct {
	slot    chan struct{}
	tickets []*model.Ticket
}

// NewQueueStore builds a store with one queue per configured service.
// waitTimeout bounds how long Transact blocks waiting for the
// per-service slot before giving up with ErrBusy; a non-positive value
// falls back to 2 seconds.
func NewQueueStore(catalog map[string]model.Service, waitTimeout time.Duration) *QueueStore {
	if waitTimeout <= 0 {
		waitTimeout = 2 * time.Second
	}
	queues := make(map[string]*serviceQueue, len(catalog))
	for id := range catalog {
		queues[id] = &serviceQueue{slot: make(chan struct{}, 1)}
	}
	return &QueueStore{waitTimeout: waitTimeout, queues: queues}
}

// Txn is the view of one service's tickets handed to a transaction
// function. References obtained from it must not be retained or
// dereferenced after the transaction returns.
type Txn struct {
	sq *serviceQueue
}

// Tickets returns the full ticket history of the service in insertion
// order, including completed and cancelled tickets.
func (t *Txn) Tickets() []*model.Ticket { return t.sq.tickets }

// Append inserts a new ticket at the end of the collection.
func (t *Txn) Append(ticket *model.Ticket) {
	t.sq.tickets = append(t.sq.tickets, ticket)
}

// Serving returns the ticket currently in the serving state, or nil.
// The store never holds more than one.
func (t *Txn) Serving() *model.Ticket {
	for _, tk := range t.sq.tickets {
		if tk.Status == model.StatusServing {
			return tk
		}
	}
	return nil
}

// WaitingFIFO returns the waiting tickets ordered by timestamp
// ascending, ties broken by sequence number. This ordering defines the
// serving order.
func (t *Txn) WaitingFIFO() []*model.Ticket {
	var waiting []*model.Ticket
	for _, tk := range t.sq.tickets {
		if tk.Status == model.StatusWaiting {
			waiting = append(waiting, tk)
		}
	}
	sort.SliceStable(waiting, func(i, j int) bool {
		if waiting[i].Timestamp.Equal(waiting[j].Timestamp) {
			return waiting[i].Sequence < waiting[j].Sequence
		}
		return waiting[i].Timestamp.Before(waiting[j].Timestamp)
	})
	return waiting
}

// Transact runs fn with exclusive access to the named service's tickets.
// When fn returns an error the error is surfaced verbatim; fn is
// expected to abort before mutating in that case, so a failed
// transaction leaves no partial application. Acquisition blocks up to
// the store's wait bound and then fails with ErrBusy; cancellation of
// ctx surfaces ctx.Err().
func (s *QueueStore) Transact(ctx context.Context, serviceID string, fn func(txn *Txn) error) error {
	sq, ok := s.queues[serviceID]
	if !ok {
		return ErrUnknownService
	}
	timer := time.NewTimer(s.waitTimeout)
	defer timer.Stop()
	select {
	case sq.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrBusy
	}
	defer func() { <-sq.slot }()
	return fn(&Txn{sq: sq})
}

// View runs fn with read access to the named service's tickets, using
// the same serialization as Transact so a reader always observes the
// latest committed state. fn must not mutate the tickets.
func (s *QueueStore) View(ctx context.Context, serviceID string, fn func(txn *Txn)) error {
	return s.Transact(ctx, serviceID, func(txn *Txn) error {
		fn(txn)
		return nil
	})
}
