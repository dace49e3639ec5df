// Package middleware provides shared request processing for handlers:
// the admin authorization gate and the join rate limiter.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AdminGate authorizes privileged queue operations (serve-next,
// complete-serving, reset). The interface is deliberately small so a
// stronger scheme can be substituted without touching the engine or the
// handlers; SharedCodeGate is the demonstration-grade default and
// TokenGate the issued-token alternative.
type AdminGate interface {
	// Authorize reports whether the supplied credential and caller
	// identity grant admin access.
	Authorize(credential, callerIdentity string) bool
}

// SharedCodeGate compares the supplied credential against a single
// shared admin code, optionally cross-checking the caller identity
// against an allow-list. It carries no session and no per-admin
// secrets; deployments that need those use TokenGate instead.
type SharedCodeGate struct {
	code  string
	hash  []byte          // bcrypt hash of the code; takes precedence when set
	allow map[string]bool // empty means any identity
}

// NewSharedCodeGate builds a gate from a plain code or a bcrypt hash of
// it (the hash wins when both are set) and an optional identity
// allow-list. A gate with neither code nor hash authorizes nobody.
func NewSharedCodeGate(code, bcryptHash string, allowList []string) *SharedCodeGate {
	g := &SharedCodeGate{code: code}
	if bcryptHash != "" {
		g.hash = []byte(bcryptHash)
	}
	if len(allowList) > 0 {
		g.allow = make(map[string]bool, len(allowList))
		for _, id := range allowList {
			id = strings.TrimSpace(id)
			if id != "" {
				g.allow[id] = true
			}
		}
	}
	return g
}

// Authorize checks the code (constant-time for the plain variant) and
// then the allow-list when one is configured.
func (g *SharedCodeGate) Authorize(credential, callerIdentity string) bool {
	switch {
	case len(g.hash) > 0:
		if bcrypt.CompareHashAndPassword(g.hash, []byte(credential)) != nil {
			return false
		}
	case g.code != "":
		if subtle.ConstantTimeCompare([]byte(g.code), []byte(credential)) != 1 {
			return false
		}
	default:
		return false
	}
	if len(g.allow) > 0 && !g.allow[callerIdentity] {
		return false
	}
	return true
}

// RequireAdmin returns an Echo middleware that guards admin routes with
// the given gate. The credential is read from the X-Admin-Code header or
// a Bearer Authorization header; the caller identity from X-Admin-Id.
// Failures produce a 403 with a machine-readable error field.
func RequireAdmin(gate AdminGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential := c.Request().Header.Get("X-Admin-Code")
			if credential == "" {
				if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					credential = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			identity := c.Request().Header.Get("X-Admin-Id")
			if !gate.Authorize(credential, identity) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":   "unauthorized",
					"message": "Invalid admin credentials.",
				})
			}
			return next(c)
		}
	}
}
