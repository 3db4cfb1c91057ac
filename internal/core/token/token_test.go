package token

import (
	"testing"
	"time"
)

func TestNew_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok := New()
		if tok == "" {
			t.Fatalf("expected non-empty token")
		}
		if _, ok := seen[tok]; ok {
			t.Fatalf("duplicate token generated: %s", tok)
		}
		seen[tok] = struct{}{}
	}
}

func TestNew_URLSafe(t *testing.T) {
	t.Parallel()

	tok := New()
	for _, r := range tok {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			t.Fatalf("token contains non URL-safe character %q", r)
		}
	}
}

func TestExpiryAfter(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	got := ExpiryAfter(now, 72)
	want := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
