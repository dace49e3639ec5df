package engine

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nextup/campus-queue/internal/model"
	"github.com/nextup/campus-queue/internal/queue"
	queue_publisher "github.com/nextup/campus-queue/internal/service"
)

// statusKeyPrefix namespaces the per-service snapshot mirror in Redis.
const statusKeyPrefix = "queue:status:"

// waitingListLimit caps how many waiting tickets a snapshot lists.
const waitingListLimit = 5

// Projector maintains the read-optimized snapshot of every service
// queue. The engine recomputes a service's snapshot inside the same
// store transaction that mutates it, so a reader of Latest never
// observes a projection older than the latest committed mutation.
//
// Beyond the in-process cache the projector fans each new snapshot out
// to three optional sinks: subscriber channels (for in-process change
// feeds), a Redis mirror of the public status document, and a RabbitMQ
// queue.updated event. The external sinks are fed through a per-service
// coalescing channel so a slow broker never blocks the mutation path;
// snapshots carry a revision so consumers can discard stale updates.
type Projector struct {
	catalog map[string]model.Service
	rdb     *redis.Client // nil disables the Redis mirror
	publish bool          // emit queue.updated events when true

	mu      sync.RWMutex
	latest  map[string]model.StatusSnapshot
	subs    map[string]map[int]chan model.StatusSnapshot
	nextSub int

	feeds map[string]chan model.StatusSnapshot
}

// NewProjector builds a projector for the configured catalog. rdb may be
// nil, in which case the Redis mirror is disabled and the service runs
// on in-memory snapshots alone. When either external sink is active a
// background writer per service drains the coalescing feed.
func NewProjector(catalog map[string]model.Service, rdb *redis.Client, publishEvents bool) *Projector {
	p := &Projector{
		catalog: catalog,
		rdb:     rdb,
		publish: publishEvents,
		latest:  make(map[string]model.StatusSnapshot, len(catalog)),
		subs:    make(map[string]map[int]chan model.StatusSnapshot, len(catalog)),
		feeds:   make(map[string]chan model.StatusSnapshot, len(catalog)),
	}
	for id := range catalog {
		p.latest[id] = model.StatusSnapshot{
			Service:     id,
			WaitingList: []model.TicketSummary{},
		}
		p.subs[id] = make(map[int]chan model.StatusSnapshot)
		if rdb != nil || publishEvents {
			feed := make(chan model.StatusSnapshot, 1)
			p.feeds[id] = feed
			go p.sinkLoop(id, feed)
		}
	}
	return p
}

// Recompute derives a fresh snapshot from the given queue state and
// installs it as the latest projection for the service. It must be
// called while holding the service's store transaction slot so that
// snapshot revisions track commit order exactly.
func (p *Projector) Recompute(serviceID string, nowServing *model.Ticket, waiting []*model.Ticket) model.StatusSnapshot {
	svc := p.catalog[serviceID]

	list := make([]model.TicketSummary, 0, waitingListLimit)
	for i, t := range waiting {
		if i == waitingListLimit {
			break
		}
		list = append(list, t.Summarize())
	}
	var serving *model.TicketSummary
	if nowServing != nil {
		s := nowServing.Summarize()
		serving = &s
	}

	p.mu.Lock()
	snap := model.StatusSnapshot{
		Service:              serviceID,
		Revision:             p.latest[serviceID].Revision + 1,
		NowServing:           serving,
		WaitingList:          list,
		TotalWaiting:         len(waiting),
		EstimatedWaitMinutes: len(waiting) * svc.EstimatedMinutes,
		LastUpdated:          time.Now().UTC(),
	}
	p.latest[serviceID] = snap
	for _, ch := range p.subs[serviceID] {
		sendLatest(ch, snap)
	}
	p.mu.Unlock()

	if feed, ok := p.feeds[serviceID]; ok {
		sendLatest(feed, snap)
	}
	return snap
}

// Latest returns the most recent snapshot for the service.
func (p *Projector) Latest(serviceID string) (model.StatusSnapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap, ok := p.latest[serviceID]
	return snap, ok
}

// Subscribe registers a change-feed channel for the service. The channel
// has capacity one and always holds the newest snapshot: when the
// subscriber lags, intermediate snapshots are dropped in favor of the
// latest. The returned cancel function must be called to release the
// subscription.
func (p *Projector) Subscribe(serviceID string) (<-chan model.StatusSnapshot, func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	subs, ok := p.subs[serviceID]
	if !ok {
		return nil, nil, false
	}
	id := p.nextSub
	p.nextSub++
	ch := make(chan model.StatusSnapshot, 1)
	subs[id] = ch
	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(subs, id)
	}
	return ch, cancel, true
}

// sendLatest delivers snap on a capacity-one channel, evicting an
// undelivered older snapshot if necessary.
func sendLatest(ch chan model.StatusSnapshot, snap model.StatusSnapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// sinkLoop drains a service's coalescing feed and pushes each snapshot
// to the external sinks. Failures are logged and skipped; the next
// snapshot supersedes anything lost.
func (p *Projector) sinkLoop(serviceID string, feed chan model.StatusSnapshot) {
	for snap := range feed {
		if p.rdb != nil {
			p.mirror(serviceID, snap)
		}
		if p.publish {
			ev := queue.QueueUpdatedEvent{
				Service:      snap.Service,
				Revision:     snap.Revision,
				NowServing:   snap.NowServing,
				TotalWaiting: snap.TotalWaiting,
				UpdatedAt:    snap.LastUpdated.Format(time.RFC3339),
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = queue_publisher.PublishQueueUpdated(ctx, ev)
			cancel()
		}
	}
}

// mirror writes the snapshot JSON to the public status key in Redis,
// the analogue of a pre-computed status document that cheap pollers can
// read without touching the core.
func (p *Projector) mirror(serviceID string, snap model.StatusSnapshot) {
	body, err := json.Marshal(snap)
	if err != nil {
		log.Printf("projector: marshal snapshot for %s: %v", serviceID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.rdb.Set(ctx, statusKeyPrefix+serviceID, body, 0).Err(); err != nil {
		log.Printf("projector: redis mirror for %s: %v", serviceID, err)
	}
}
