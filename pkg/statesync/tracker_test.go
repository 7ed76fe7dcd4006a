package statesync

import (
	"testing"

	"github.com/graphlens/graphlens/pkg/model"
)

func TestTrackerHappyPath(t *testing.T) {
	tr := NewTracker()

	if tr.State() != model.StateQueued {
		t.Fatalf("new tracker state = %s", tr.State())
	}
	if err := tr.Start(); err != nil {
		t.Fatal(err)
	}
	if err := tr.Complete(); err != nil {
		t.Fatal(err)
	}
	if tr.State() != model.StateCompleted {
		t.Errorf("state = %s, want completed", tr.State())
	}
}

func TestTrackerFailAndRetry(t *testing.T) {
	tr := NewTracker()
	mustDo(t, tr.Start)
	mustDo(t, tr.Fail)

	if tr.State() != model.StateErrored {
		t.Fatalf("state = %s, want error", tr.State())
	}

	// Errored only exits through Retry.
	if err := tr.Complete(); err == nil {
		t.Error("complete from errored must be rejected")
	}
	if err := tr.CancelAcknowledged(); err == nil {
		t.Error("cancel from errored must be rejected")
	}

	mustDo(t, tr.Retry)
	if tr.State() != model.StateQueued {
		t.Errorf("retry should requeue, state = %s", tr.State())
	}

	// A retried run goes around the loop again.
	mustDo(t, tr.Start)
	mustDo(t, tr.Complete)
}

func TestTrackerCancelOnlyWhileIndexing(t *testing.T) {
	tr := NewTracker()
	if err := tr.CancelAcknowledged(); err == nil {
		t.Error("cancel from queued must be rejected")
	}

	mustDo(t, tr.Start)
	mustDo(t, tr.CancelAcknowledged)
	if tr.State() != model.StateCancelled {
		t.Fatalf("state = %s, want cancelled", tr.State())
	}

	// Cancelled is terminal for the run.
	for name, fn := range map[string]func() error{
		"start":    tr.Start,
		"complete": tr.Complete,
		"fail":     tr.Fail,
		"retry":    tr.Retry,
	} {
		if err := fn(); err == nil {
			t.Errorf("%s from cancelled must be rejected", name)
		}
	}
}

func TestTrackerObserveForwardJumps(t *testing.T) {
	// The backend may finish between two polls; the tracker passes through
	// the intermediate state.
	tr := NewTracker()
	if err := tr.Observe(model.StateCompleted); err != nil {
		t.Fatalf("queued → completed jump: %v", err)
	}
	if tr.State() != model.StateCompleted {
		t.Errorf("state = %s", tr.State())
	}

	tr = NewTracker()
	if err := tr.Observe(model.StateErrored); err != nil {
		t.Fatalf("queued → errored jump: %v", err)
	}

	tr = NewTracker()
	mustDo(t, tr.Start)
	mustDo(t, tr.Complete)
	if err := tr.Observe(model.StateQueued); err == nil {
		t.Error("observing a requeue on a finished run must be rejected")
	}

	// Observing the current state is a no-op.
	tr = NewTracker()
	if err := tr.Observe(model.StateQueued); err != nil {
		t.Errorf("observing the same state should succeed: %v", err)
	}
}

func mustDo(t *testing.T, fn func() error) {
	t.Helper()
	if err := fn(); err != nil {
		t.Fatal(err)
	}
}
