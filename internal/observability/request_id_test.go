package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDReturnsUUID(t *testing.T) {
	id := NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected valid UUID, got %q: %v", id, err)
	}
}

func TestResolveRequestID(t *testing.T) {
	const known = "0b6f5d1e-8f3c-4a57-9a3e-2f1d6c7b8a90"

	t.Run("keeps a UUID", func(t *testing.T) {
		if got := ResolveRequestID(known); got != known {
			t.Fatalf("expected %q, got %q", known, got)
		}
	})

	t.Run("canonicalizes", func(t *testing.T) {
		if got := ResolveRequestID("urn:uuid:" + known); got != known {
			t.Fatalf("expected %q, got %q", known, got)
		}
	})

	for _, candidate := range []string{"", "abc-123", "; drop table"} {
		t.Run("replaces "+candidate, func(t *testing.T) {
			got := ResolveRequestID(candidate)
			if got == candidate {
				t.Fatalf("expected %q to be replaced", candidate)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected generated UUID, got %q", got)
			}
		})
	}
}

func TestRequestIDContextRoundTrip(t *testing.T) {
	want := NewRequestID()
	ctx := ContextWithRequestID(context.Background(), want)

	if got := RequestIDFromContext(ctx); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRequestIDFromContextWhenMissingOrWrongType(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		if got := RequestIDFromContext(context.Background()); got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), RequestIDKey, 42)
		if got := RequestIDFromContext(ctx); got != "" {
			t.Fatalf("expected empty string, got %q", got)
		}
	})
}
