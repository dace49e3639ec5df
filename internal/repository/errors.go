// Package repository holds the in-memory queue store, the ticket
// sequencer and the sentinel error values shared across layers. Handlers
// use errors.Is against these values to translate failures into precise
// HTTP responses instead of a generic 500.
package repository

import "errors"

// ErrInvalidInput is returned when a required field is missing or empty.
// Handlers should translate this into an HTTP 400 response.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnknownService is returned when a service identifier is not part of
// the configured catalog. Handlers should translate this into an HTTP
// 404 response.
var ErrUnknownService = errors.New("unknown service")

// ErrAlreadyServing is returned by serve-next when a ticket is already
// in the serving state. At most one ticket per service may be serving,
// so the current one must be completed first. 409-equivalent.
var ErrAlreadyServing = errors.New("already serving")

// ErrEmptyQueue is returned by serve-next when no ticket is waiting.
// This is a "nothing to do" condition rather than a fault. 409-equivalent.
var ErrEmptyQueue = errors.New("empty queue")

// ErrNothingServing is returned by complete-serving when no ticket is in
// the serving state. Also a "nothing to do" condition. 409-equivalent.
var ErrNothingServing = errors.New("nothing serving")

// ErrBusy is returned when a transaction could not acquire the
// per-service slot within the configured wait bound. Callers may retry
// with backoff. 503-equivalent.
var ErrBusy = errors.New("queue busy")
