package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nextup/campus-queue/internal/engine"
)

// AdminHandler exposes the privileged queue operations. Routes using it
// must be wrapped with middleware.RequireAdmin; the handler itself does
// not authorize.
type AdminHandler struct {
	engine *engine.Engine
}

// NewAdminHandler returns a handler bound to the given engine.
func NewAdminHandler(e *engine.Engine) *AdminHandler {
	return &AdminHandler{engine: e}
}

// ServeNext moves the earliest waiting ticket to serving. Precondition
// failures (someone already serving, nobody waiting) come back as 409
// with a message saying exactly which condition failed.
func (h *AdminHandler) ServeNext(c echo.Context) error {
	serviceID := c.Param("service")
	ticket, err := h.engine.ServeNext(c.Request().Context(), serviceID)
	if err != nil {
		return writeError(c, err)
	}
	svc, _ := h.engine.Service(serviceID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Now serving: %s (%s) at %s.", ticket.StudentName, ticket.QueueNumber, svc.DisplayName),
		"ticket":  ticket,
	})
}

// CompleteServing moves the serving ticket to completed.
func (h *AdminHandler) CompleteServing(c echo.Context) error {
	serviceID := c.Param("service")
	ticket, err := h.engine.CompleteServing(c.Request().Context(), serviceID)
	if err != nil {
		return writeError(c, err)
	}
	svc, _ := h.engine.Service(serviceID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Completed serving: %s (%s) at %s.", ticket.StudentName, ticket.QueueNumber, svc.DisplayName),
		"ticket":  ticket,
	})
}

// resetRequest is the body of POST /v1/admin/reset/:service. The
// confirm flag must be set; resetting a queue cancels every active
// ticket and restarts numbering, and cannot be undone.
type resetRequest struct {
	Confirm bool `json:"confirm"`
}

// Reset cancels all active tickets for the service and restarts its
// numbering at 1.
func (h *AdminHandler) Reset(c echo.Context) error {
	serviceID := c.Param("service")
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "invalid_input",
			"message": "Invalid request body.",
		})
	}
	if !req.Confirm {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "confirmation_required",
			"message": "Resetting a queue cannot be undone. Set \"confirm\": true to proceed.",
		})
	}
	cancelled, err := h.engine.Reset(c.Request().Context(), serviceID)
	if err != nil {
		return writeError(c, err)
	}
	svc, _ := h.engine.Service(serviceID)
	return c.JSON(http.StatusOK, echo.Map{
		"message":   fmt.Sprintf("Queue for %s has been reset.", svc.DisplayName),
		"cancelled": cancelled,
	})
}

// AllQueues returns the overview of every service queue, including each
// service's next sequence value.
func (h *AdminHandler) AllQueues(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"queues": h.engine.AllQueues()})
}
