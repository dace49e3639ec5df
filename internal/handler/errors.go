package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nextup/campus-queue/internal/repository"
)

// writeError translates an engine error into an HTTP response. Every
// sentinel maps to a distinct status and a human-readable message, so
// clients can tell a "nothing to do" condition (empty queue, nothing
// serving) apart from a genuine fault.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "invalid_input",
			"message": err.Error(),
		})
	case errors.Is(err, repository.ErrUnknownService):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":   "unknown_service",
			"message": "Service not found.",
		})
	case errors.Is(err, repository.ErrAlreadyServing):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "already_serving",
			"message": "Someone is already being served for this service. Please complete them first.",
		})
	case errors.Is(err, repository.ErrEmptyQueue):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "empty_queue",
			"message": "No one is currently waiting.",
		})
	case errors.Is(err, repository.ErrNothingServing):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   "nothing_serving",
			"message": "No one is currently being served.",
		})
	case errors.Is(err, repository.ErrBusy):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error":   "busy",
			"message": "The queue is busy right now. Please try again.",
		})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "internal",
			"message": "Server error. Please try again later.",
		})
	}
}
