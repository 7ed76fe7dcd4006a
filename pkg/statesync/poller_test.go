package statesync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func recvUpdate(t *testing.T, p *Poller[int]) Update[int] {
	t.Helper()
	select {
	case u, ok := <-p.Updates():
		if !ok {
			t.Fatal("updates channel closed unexpectedly")
		}
		return u
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for poll update")
		return Update[int]{}
	}
}

func TestPollerFetchesImmediately(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}, time.Hour, nil)
	defer p.Close()

	// The first tick fires before the first full interval elapses.
	u := recvUpdate(t, p)
	if u.Err != nil || u.Value != 1 {
		t.Fatalf("first update = %+v", u)
	}
	if u.At.IsZero() {
		t.Error("update should carry its timestamp")
	}
}

func TestPollerDeliversErrorsAndRecovers(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(func(context.Context) (int, error) {
		n := calls.Add(1)
		if n == 1 {
			return 0, errors.New("connection refused")
		}
		return int(n), nil
	}, 20*time.Millisecond, nil)
	defer p.Close()

	u := recvUpdate(t, p)
	if u.Err == nil {
		t.Fatal("first update should carry the fetch error")
	}

	// The interval keeps running: a later tick succeeds.
	deadline := time.After(3 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("poller never recovered after a failed tick")
		case u = <-p.Updates():
			if u.Err == nil {
				return
			}
		}
	}
}

func TestPollerPauseSkipsTicks(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}, 10*time.Millisecond, nil)
	defer p.Close()

	recvUpdate(t, p)

	p.Pause()
	if !p.Paused() {
		t.Fatal("Paused() should report true")
	}
	// Drain anything in flight, then verify nothing more arrives.
	time.Sleep(30 * time.Millisecond)
	for {
		select {
		case <-p.Updates():
			continue
		default:
		}
		break
	}
	before := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() != before {
		t.Errorf("fetch ran while paused: %d → %d", before, calls.Load())
	}

	p.Resume()
	u := recvUpdate(t, p)
	if u.Err != nil {
		t.Fatalf("post-resume update = %+v", u)
	}
}

func TestPollerLastWriteWins(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}, 5*time.Millisecond, nil)
	defer p.Close()

	// Let several ticks pile up against a slow consumer.
	time.Sleep(60 * time.Millisecond)

	u := recvUpdate(t, p)
	if u.Value < 2 {
		t.Skipf("scheduler only ran %d ticks", u.Value)
	}
	// The buffered update is the freshest one, not the first.
	if int32(u.Value) < calls.Load()-1 {
		t.Errorf("delivered value %d is stale (fetches so far: %d)", u.Value, calls.Load())
	}
}

func TestPollerClose(t *testing.T) {
	p := NewPoller(func(context.Context) (int, error) {
		return 1, nil
	}, 10*time.Millisecond, nil)

	recvUpdate(t, p)
	p.Close()
	p.Close() // idempotent

	// The channel drains then closes.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-p.Updates():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("updates channel never closed")
		}
	}
}
