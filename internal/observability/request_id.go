package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// RequestIDKey holds the request ID in a request context.
const RequestIDKey contextKey = "request_id"

func NewRequestID() string {
	return uuid.New().String()
}

// ResolveRequestID returns the canonical form of a caller-supplied ID, or a
// fresh ID when the candidate is empty or not a UUID.
func ResolveRequestID(candidate string) string {
	if candidate == "" {
		return NewRequestID()
	}
	id, err := uuid.Parse(candidate)
	if err != nil {
		return NewRequestID()
	}
	return id.String()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
