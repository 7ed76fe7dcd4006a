// Package statesync provides the asynchronous state-sync primitives shared
// by the indexing-progress display and the chat stream: a per-target
// lifecycle tracker, a fixed-interval poller, and a stream consumer.
package statesync

import (
	"fmt"

	"github.com/graphlens/graphlens/pkg/model"
)

// Tracker is the per-target lifecycle state machine:
//
//	Queued → Indexing → Completed | Errored | Cancelled
//
// Errored is recoverable only through Retry, which moves back to Queued.
// Cancelled is terminal for the run; the target may be resubmitted as a
// fresh tracker.
type Tracker struct {
	state model.IndexingState
}

// NewTracker returns a tracker in the Queued state.
func NewTracker() *Tracker {
	return &Tracker{state: model.StateQueued}
}

// State returns the current lifecycle state.
func (t *Tracker) State() model.IndexingState {
	return t.state
}

func (t *Tracker) invalid(event string) error {
	return fmt.Errorf("invalid transition: %s from %s", event, t.state)
}

// Start moves Queued → Indexing.
func (t *Tracker) Start() error {
	if t.state != model.StateQueued {
		return t.invalid("start")
	}
	t.state = model.StateIndexing
	return nil
}

// Complete moves Indexing → Completed.
func (t *Tracker) Complete() error {
	if t.state != model.StateIndexing {
		return t.invalid("complete")
	}
	t.state = model.StateCompleted
	return nil
}

// Fail moves Indexing → Errored.
func (t *Tracker) Fail() error {
	if t.state != model.StateIndexing {
		return t.invalid("fail")
	}
	t.state = model.StateErrored
	return nil
}

// Retry moves Errored → Queued. It is the only transition out of Errored.
func (t *Tracker) Retry() error {
	if t.state != model.StateErrored {
		return t.invalid("retry")
	}
	t.state = model.StateQueued
	return nil
}

// CancelAcknowledged moves Indexing → Cancelled. Cancellation is a one-way
// request to the service; this is called only once the service acknowledges,
// not on request submission.
func (t *Tracker) CancelAcknowledged() error {
	if t.state != model.StateIndexing {
		return t.invalid("cancel")
	}
	t.state = model.StateCancelled
	return nil
}

// Observe merges a remotely reported state into the tracker. The backend may
// have advanced several steps between polls, so any forward transition is
// accepted; transitions that would resurrect a terminal run are rejected.
func (t *Tracker) Observe(remote model.IndexingState) error {
	if remote == t.state {
		return nil
	}
	switch remote {
	case model.StateIndexing:
		return t.Start()
	case model.StateCompleted:
		if t.state == model.StateQueued {
			// Completed between two polls; pass through Indexing.
			t.state = model.StateIndexing
		}
		return t.Complete()
	case model.StateErrored:
		if t.state == model.StateQueued {
			t.state = model.StateIndexing
		}
		return t.Fail()
	case model.StateCancelled:
		return t.CancelAcknowledged()
	case model.StateQueued:
		return t.invalid("requeue")
	default:
		return fmt.Errorf("unknown remote state: %s", remote)
	}
}
