package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/nextup/campus-queue/internal/handler"    // import the handlers that implement business logic
	"github.com/nextup/campus-queue/internal/middleware" // import middleware for admin gating and rate limiting
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterQueue registers the public queue endpoints. The limiter
// middleware is applied only to the join endpoint; polling the status
// snapshot and the dashboard stays unthrottled since both are cheap
// reads of a precomputed projection.
func RegisterQueue(e *echo.Echo, q *handler.QueueHandler, limiter echo.MiddlewareFunc) {
	// Issue a ticket and report the caller's position in the queue.
	e.POST("/v1/join-queue", q.JoinQueue, limiter)
	// Poll the sanitized snapshot of one service queue.
	e.GET("/v1/queue-status/:service", q.QueueStatus)
	// Cross-service dashboard aggregate.
	e.GET("/v1/dashboard", q.Dashboard)
	// The static service catalog, for rendering the join page.
	e.GET("/v1/services", q.Services)
}

// RegisterAdmin registers the privileged queue operations under
// /v1/admin and wraps the whole group with the admin gate, so every
// endpoint requires valid admin credentials.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, gate middleware.AdminGate) {
	g := e.Group("/v1/admin")
	g.Use(middleware.RequireAdmin(gate))
	// Move the earliest waiting ticket to serving.
	g.POST("/serve-next/:service", a.ServeNext)
	// Complete the ticket currently being served.
	g.POST("/complete-serving/:service", a.CompleteServing)
	// Cancel all active tickets and restart numbering; requires an
	// explicit confirmation flag in the body.
	g.POST("/reset/:service", a.Reset)
	// Overview of every queue including next sequence values.
	g.GET("/queues", a.AllQueues)
}
