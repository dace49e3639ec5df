// Package engine implements the queue state machine: join, serve-next,
// complete-serving and reset, each executed as a single atomic unit
// against the per-service queue store.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nextup/campus-queue/internal/model"
	"github.com/nextup/campus-queue/internal/repository"
)

// Engine orchestrates the sequencer and the queue store and recomputes
// the status projection before any mutating call returns. All errors it
// returns are (or wrap) the sentinel values in the repository package,
// so callers can map them to precise responses.
type Engine struct {
	catalog map[string]model.Service
	ids     []string // catalog keys, sorted for deterministic iteration
	store   *repository.QueueStore
	seq     *repository.Sequencer
	proj    *Projector
}

// New wires an engine from its collaborators. The catalog must be the
// same one the store, sequencer and projector were built from.
func New(catalog map[string]model.Service, store *repository.QueueStore, seq *repository.Sequencer, proj *Projector) *Engine {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &Engine{catalog: catalog, ids: ids, store: store, seq: seq, proj: proj}
}

// QueueState is the full, unsanitized state of one service queue as
// returned by GetState. Tickets are copies; mutating them has no effect
// on the store.
type QueueState struct {
	NowServing   *model.Ticket  `json:"now_serving"`
	Waiting      []model.Ticket `json:"waiting"`
	TotalWaiting int            `json:"total_waiting"`
}

// AdminQueueInfo is one row of the admin all-queues overview.
type AdminQueueInfo struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	NextSequence int                  `json:"next_sequence"`
	Waiting      int                  `json:"waiting"`
	Serving      *model.TicketSummary `json:"serving"`
}

// Join validates the request, allocates the next ticket number and
// appends a waiting ticket stamped with the current time. It returns the
// assigned ticket together with its position, the count of waiting
// tickets ordered before it. Position and the estimated wait derived
// from it are computed synchronously inside the transaction so the
// response is deterministic.
func (e *Engine) Join(ctx context.Context, serviceID, studentID, studentName string) (*model.Ticket, int, error) {
	studentID = strings.TrimSpace(studentID)
	studentName = strings.TrimSpace(studentName)
	if studentID == "" {
		return nil, 0, fmt.Errorf("%w: student id is required", repository.ErrInvalidInput)
	}
	if studentName == "" {
		return nil, 0, fmt.Errorf("%w: student name is required", repository.ErrInvalidInput)
	}
	if _, ok := e.catalog[serviceID]; !ok {
		return nil, 0, repository.ErrUnknownService
	}

	var out model.Ticket
	var position int
	err := e.store.Transact(ctx, serviceID, func(txn *repository.Txn) error {
		seq, number, err := e.seq.NextNumber(serviceID)
		if err != nil {
			return err
		}
		position = len(txn.WaitingFIFO())
		ticket := &model.Ticket{
			UID:         uuid.NewString(),
			QueueNumber: number,
			Sequence:    seq,
			StudentID:   studentID,
			StudentName: studentName,
			Service:     serviceID,
			Status:      model.StatusWaiting,
			Timestamp:   time.Now().UTC(),
		}
		txn.Append(ticket)
		out = *ticket
		e.proj.Recompute(serviceID, txn.Serving(), txn.WaitingFIFO())
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	joinsTotal.WithLabelValues(serviceID).Inc()
	return &out, position, nil
}

// ServeNext transitions the earliest waiting ticket to serving. It fails
// with ErrAlreadyServing when a ticket is being served and with
// ErrEmptyQueue when no one is waiting; in both cases nothing is
// mutated.
func (e *Engine) ServeNext(ctx context.Context, serviceID string) (*model.Ticket, error) {
	var out model.Ticket
	err := e.store.Transact(ctx, serviceID, func(txn *repository.Txn) error {
		if txn.Serving() != nil {
			return repository.ErrAlreadyServing
		}
		waiting := txn.WaitingFIFO()
		if len(waiting) == 0 {
			return repository.ErrEmptyQueue
		}
		next := waiting[0]
		now := time.Now().UTC()
		next.Status = model.StatusServing
		next.ServingTime = &now
		out = *next
		e.proj.Recompute(serviceID, next, waiting[1:])
		return nil
	})
	if err != nil {
		return nil, err
	}
	servesTotal.WithLabelValues(serviceID).Inc()
	return &out, nil
}

// CompleteServing transitions the serving ticket to completed. It fails
// with ErrNothingServing when no ticket is being served and mutates
// nothing in that case.
func (e *Engine) CompleteServing(ctx context.Context, serviceID string) (*model.Ticket, error) {
	var out model.Ticket
	err := e.store.Transact(ctx, serviceID, func(txn *repository.Txn) error {
		serving := txn.Serving()
		if serving == nil {
			return repository.ErrNothingServing
		}
		now := time.Now().UTC()
		serving.Status = model.StatusCompleted
		serving.CompletionTime = &now
		out = *serving
		e.proj.Recompute(serviceID, nil, txn.WaitingFIFO())
		return nil
	})
	if err != nil {
		return nil, err
	}
	completionsTotal.WithLabelValues(serviceID).Inc()
	return &out, nil
}

// Reset cancels every waiting and serving ticket, marks them as reset by
// an admin and restarts numbering at 1. It returns the number of tickets
// cancelled. Irreversible; the HTTP layer requires an explicit
// confirmation flag before calling it.
func (e *Engine) Reset(ctx context.Context, serviceID string) (int, error) {
	var cancelled int
	err := e.store.Transact(ctx, serviceID, func(txn *repository.Txn) error {
		for _, t := range txn.Tickets() {
			if t.Status == model.StatusWaiting || t.Status == model.StatusServing {
				t.Status = model.StatusCancelled
				t.ResetByAdmin = true
				cancelled++
			}
		}
		if err := e.seq.Reset(serviceID); err != nil {
			return err
		}
		e.proj.Recompute(serviceID, nil, nil)
		return nil
	})
	if err != nil {
		return 0, err
	}
	resetsTotal.WithLabelValues(serviceID).Inc()
	return cancelled, nil
}

// GetState is a pure read of one service queue: the serving ticket (or
// nil), the waiting list in serving order and its count. It never
// mutates state.
func (e *Engine) GetState(ctx context.Context, serviceID string) (*QueueState, error) {
	state := &QueueState{Waiting: []model.Ticket{}}
	err := e.store.View(ctx, serviceID, func(txn *repository.Txn) {
		if serving := txn.Serving(); serving != nil {
			s := *serving
			state.NowServing = &s
		}
		for _, t := range txn.WaitingFIFO() {
			state.Waiting = append(state.Waiting, *t)
		}
		state.TotalWaiting = len(state.Waiting)
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Snapshot returns the latest public projection of one service queue.
func (e *Engine) Snapshot(serviceID string) (model.StatusSnapshot, error) {
	snap, ok := e.proj.Latest(serviceID)
	if !ok {
		return model.StatusSnapshot{}, repository.ErrUnknownService
	}
	return snap, nil
}

// Subscribe exposes the projector's change feed for one service.
func (e *Engine) Subscribe(serviceID string) (<-chan model.StatusSnapshot, func(), error) {
	ch, cancel, ok := e.proj.Subscribe(serviceID)
	if !ok {
		return nil, nil, repository.ErrUnknownService
	}
	return ch, cancel, nil
}

// Dashboard aggregates the latest snapshot of every service into the
// overview consumed by the dashboard page. Consistency is per service:
// each row is at least as fresh as that service's last committed
// mutation, with no cross-service ordering guarantee.
func (e *Engine) Dashboard() model.DashboardStats {
	stats := model.DashboardStats{Services: make([]model.DashboardService, 0, len(e.ids))}
	for _, id := range e.ids {
		snap, ok := e.proj.Latest(id)
		if !ok {
			continue
		}
		row := model.DashboardService{
			ID:      id,
			Name:    e.catalog[id].DisplayName,
			Waiting: snap.TotalWaiting,
			Serving: snap.NowServing,
		}
		row.QueueLength = snap.TotalWaiting
		if snap.NowServing != nil {
			row.QueueLength++
			stats.TotalServing++
		}
		stats.TotalWaiting += snap.TotalWaiting
		stats.Services = append(stats.Services, row)
	}
	return stats
}

// AllQueues returns the admin overview of every service, including the
// sequence value the next ticket would receive.
func (e *Engine) AllQueues() []AdminQueueInfo {
	infos := make([]AdminQueueInfo, 0, len(e.ids))
	for _, id := range e.ids {
		snap, ok := e.proj.Latest(id)
		if !ok {
			continue
		}
		next, err := e.seq.Peek(id)
		if err != nil {
			continue
		}
		infos = append(infos, AdminQueueInfo{
			ID:           id,
			Name:         e.catalog[id].DisplayName,
			NextSequence: next,
			Waiting:      snap.TotalWaiting,
			Serving:      snap.NowServing,
		})
	}
	return infos
}

// Service looks up one catalog entry by id.
func (e *Engine) Service(id string) (model.Service, bool) {
	svc, ok := e.catalog[id]
	return svc, ok
}

// Services lists the configured catalog in stable order, for clients
// that render the join page.
func (e *Engine) Services() []model.Service {
	out := make([]model.Service, 0, len(e.ids))
	for _, id := range e.ids {
		out = append(out, e.catalog[id])
	}
	return out
}
