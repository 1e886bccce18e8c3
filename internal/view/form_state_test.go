package view

import (
	"errors"
	"testing"
)

func TestFormState_DirtyTracking(t *testing.T) {
	s := NewFormState(MessageFields{MessageText: "hola"})
	if s.Dirty() || s.CanSave() {
		t.Fatalf("fresh state must be clean")
	}

	s.Edit(MessageFields{MessageText: "hola!"})
	if !s.Dirty() || !s.CanSave() {
		t.Fatalf("expected dirty state to allow save")
	}
	if diff := s.Diff(); len(diff) != 1 || diff[0] != "messageText" {
		t.Fatalf("unexpected diff %v", diff)
	}

	s.Edit(MessageFields{MessageText: "hola"})
	if s.Dirty() {
		t.Fatalf("reverting the edit must make the state clean again")
	}
}

func TestFormState_InFlightExclusion(t *testing.T) {
	s := NewFormState(MessageFields{MessageText: "a"})
	s.Edit(MessageFields{MessageText: "b"})

	if err := s.Begin(PendingSave); err != nil {
		t.Fatalf("begin save: %v", err)
	}
	if s.CanSave() || s.CanDelete(true) {
		t.Fatalf("no action may start while a save is pending")
	}
	if err := s.Begin(PendingDelete); !errors.Is(err, ErrActionInFlight) {
		t.Fatalf("expected ErrActionInFlight, got %v", err)
	}

	s.Commit()
	if s.Dirty() || s.Pending != PendingNone {
		t.Fatalf("commit must clear dirty and pending")
	}
	if !s.CanDelete(true) {
		t.Fatalf("expected delete available after commit")
	}
	if s.CanDelete(false) {
		t.Fatalf("drafts cannot be deleted")
	}

	_ = s.Begin(PendingDelete)
	s.Abort()
	if s.Pending != PendingNone {
		t.Fatalf("abort must clear pending")
	}
}
