package model

import "time"

// StatusSnapshot is the denormalized, read-optimized projection of a
// single service queue. It is recomputed synchronously on every mutation
// and is the only shape exposed to unauthenticated pollers.
//
// Revision increases by one per committed mutation of the service, so
// downstream consumers of the change feed can discard stale updates.
type StatusSnapshot struct {
	Service              string          `json:"service"`
	Revision             int64           `json:"revision"`
	NowServing           *TicketSummary  `json:"now_serving"`
	WaitingList          []TicketSummary `json:"waiting_list"`
	TotalWaiting         int             `json:"total_waiting"`
	EstimatedWaitMinutes int             `json:"estimated_wait_minutes"`
	LastUpdated          time.Time       `json:"last_updated"`
}

// DashboardService is the per-service row of the dashboard aggregate.
type DashboardService struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	QueueLength int            `json:"queue_length"`
	Waiting     int            `json:"waiting"`
	Serving     *TicketSummary `json:"serving"`
}

// DashboardStats aggregates every service queue for the overview page.
type DashboardStats struct {
	TotalWaiting int                `json:"total_waiting"`
	TotalServing int                `json:"total_serving"`
	Services     []DashboardService `json:"services"`
}
