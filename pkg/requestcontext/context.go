// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// This package defines context keys and getter/setter functions for values that
// are typically set by middleware but consumed by services. By keeping this
// package free of net/http dependencies, services can import only what they
// need without pulling in HTTP-related code.
//
// Usage in services (read values):
//
//	user := requestcontext.User(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithUser(ctx, user)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"strings"
	"time"

	dErrors "sgprep/pkg/domain-errors"
)

// Context key types (unexported for encapsulation).
type (
	userKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyUser        = userKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// UserContext is the acting user's identity as resolved by the auth layer.
// Both fields must be non-blank for any state-changing request.
type UserContext struct {
	Name string
	UUID string
}

// Validate fails when either identity field is blank. A blank field means the
// surrounding authentication layer misbehaved, so this is a context_invalid
// (5xx) condition rather than a client error, and must abort the request
// before any state is read or written.
func (u UserContext) Validate() error {
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.UUID) == "" {
		return dErrors.New(dErrors.CodeContextInvalid, "could not determine user context information for the request")
	}
	return nil
}

// User retrieves the acting user from the context. Returns the zero value if
// not set; callers enforce presence via Validate.
func User(ctx context.Context) UserContext {
	if u, ok := ctx.Value(ContextKeyUser).(UserContext); ok {
		return u
	}
	return UserContext{}
}

// WithUser injects the acting user into the context.
func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like workers and
// tests that don't care about the clock).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. The aggregate records this
// time on its events, so tests pin it for deterministic assertions.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
