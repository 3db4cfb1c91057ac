package audit

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeStore struct {
	entries []*Entry
	err     error
}

func (s *fakeStore) Create(_ context.Context, entry *Entry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeStore) ListBySession(_ context.Context, sessionID string) ([]*Entry, error) {
	var out []*Entry
	for _, e := range s.entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestRecorder_Record_FillsDefaults(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	rec := NewRecorder(store, zap.NewNop())

	rec.Record(context.Background(), Entry{SessionID: "sess-1", Action: "approved", UserID: "hr-1"})

	if len(store.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(store.entries))
	}
	entry := store.entries[0]
	if entry.ID == "" {
		t.Fatalf("expected generated id")
	}
	if entry.CreatedAt.IsZero() {
		t.Fatalf("expected generated timestamp")
	}
}

func TestRecorder_Record_FailureIsLoggedNotPropagated(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	store := &fakeStore{err: errors.New("store down")}
	rec := NewRecorder(store, zap.New(core))

	// 失敗しても panic せず、エラーも返さないこと。
	rec.Record(context.Background(), Entry{SessionID: "sess-1", Action: "step_completed"})

	if logs.Len() != 1 {
		t.Fatalf("expected 1 error log, got %d", logs.Len())
	}
	if logs.All()[0].Message != "audit entry write failed" {
		t.Fatalf("unexpected log message: %s", logs.All()[0].Message)
	}
}

func TestRecorder_NilSafe(t *testing.T) {
	t.Parallel()

	var rec *Recorder
	rec.Record(context.Background(), Entry{SessionID: "sess-1"})
}
