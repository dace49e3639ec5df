package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nextup/campus-queue/internal/engine"
)

// QueueHandler exposes the public queue endpoints: joining a queue,
// polling a service's status snapshot and the dashboard aggregate.
type QueueHandler struct {
	engine *engine.Engine
}

// NewQueueHandler returns a handler bound to the given engine.
func NewQueueHandler(e *engine.Engine) *QueueHandler {
	return &QueueHandler{engine: e}
}

// joinRequest is the body of POST /v1/join-queue.
type joinRequest struct {
	Service     string `json:"service"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
}

// JoinQueue issues a new ticket. On success it responds with the
// assigned queue number, the caller's zero-based position among waiting
// tickets and the estimated wait derived from it.
func (h *QueueHandler) JoinQueue(c echo.Context) error {
	var req joinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "invalid_input",
			"message": "Invalid request body.",
		})
	}
	ticket, position, err := h.engine.Join(c.Request().Context(), req.Service, req.StudentID, req.StudentName)
	if err != nil {
		return writeError(c, err)
	}
	svc, _ := h.engine.Service(req.Service)
	return c.JSON(http.StatusOK, echo.Map{
		"message":                fmt.Sprintf("Successfully joined %s.", svc.DisplayName),
		"queue_number":           ticket.QueueNumber,
		"position":               position,
		"estimated_wait_minutes": position * svc.EstimatedMinutes,
	})
}

// QueueStatus returns the latest public snapshot for one service. The
// snapshot is recomputed before every mutating call returns, so a poller
// never sees state older than the last committed mutation.
func (h *QueueHandler) QueueStatus(c echo.Context) error {
	snap, err := h.engine.Snapshot(c.Param("service"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Dashboard returns the cross-service overview: total waiting, total
// serving and a row per service.
func (h *QueueHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.Dashboard())
}

// Services lists the configured service catalog so clients can render
// the join page without hardcoding office names.
func (h *QueueHandler) Services(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.Services())
}
