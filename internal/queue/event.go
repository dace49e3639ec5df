// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/nextup/campus-queue/internal/model"

// QueueUpdatedEvent is published after every committed queue mutation.
// It carries the same sanitized snapshot served to pollers, so
// downstream consumers can display, log or notify without querying the
// core. Revision is per service and strictly increasing; consumers that
// receive events out of order should keep the highest revision seen and
// drop the rest.
type QueueUpdatedEvent struct {
	Service      string               `json:"service"`
	Revision     int64                `json:"revision"`
	NowServing   *model.TicketSummary `json:"now_serving"`
	TotalWaiting int                  `json:"total_waiting"`
	UpdatedAt    string               `json:"updated_at"`
}
