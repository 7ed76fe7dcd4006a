package statesync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/graphlens/graphlens/pkg/logging"
	"github.com/graphlens/graphlens/pkg/metrics"
)

// Update carries one poll outcome. A transport failure is delivered as an
// Update with Err set; the interval keeps running and the next tick retries.
type Update[T any] struct {
	Value T
	Err   error
	At    time.Time
}

// Poller issues a fetch on a fixed interval and delivers outcomes on its
// Updates channel. Whether a tick actually fetches is decided at execution
// time (paused pollers skip), never from submission order. Close tears the
// interval down so no stale update ever reaches a discarded view.
type Poller[T any] struct {
	fetch    func(context.Context) (T, error)
	interval time.Duration
	updates  chan Update[T]
	paused   atomic.Bool
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
	logger   logging.Logger
	metrics  *metrics.Registry
}

// NewPoller starts polling immediately. The fetch function is invoked once
// per tick with a context that is cancelled on Close.
func NewPoller[T any](fetch func(context.Context) (T, error), interval time.Duration, logger logging.Logger) *Poller[T] {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller[T]{
		fetch:    fetch,
		interval: interval,
		updates:  make(chan Update[T], 1),
		cancel:   cancel,
		done:     make(chan struct{}),
		logger:   logger.With(logging.Component("poller")),
		metrics:  metrics.DefaultRegistry(),
	}
	go p.run(ctx)
	return p
}

// Updates delivers poll outcomes. The channel is closed by Close.
func (p *Poller[T]) Updates() <-chan Update[T] {
	return p.updates
}

// Pause suspends fetching without stopping the interval.
func (p *Poller[T]) Pause() {
	p.paused.Store(true)
}

// Resume re-enables fetching on the next tick.
func (p *Poller[T]) Resume() {
	p.paused.Store(false)
}

// Paused reports whether ticks are currently skipped.
func (p *Poller[T]) Paused() bool {
	return p.paused.Load()
}

// Close stops the interval and closes the Updates channel. Safe to call more
// than once.
func (p *Poller[T]) Close() {
	p.once.Do(func() {
		p.cancel()
		<-p.done
		close(p.updates)
	})
}

func (p *Poller[T]) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// First fetch happens immediately so the view is not blank for a full
	// interval.
	p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller[T]) tick(ctx context.Context) {
	if p.paused.Load() || ctx.Err() != nil {
		return
	}

	value, err := p.fetch(ctx)
	if ctx.Err() != nil {
		// Torn down mid-fetch; the view is gone, drop the result.
		return
	}
	if err != nil {
		p.logger.Warn("poll tick failed", logging.Error(err))
		p.metrics.RecordPollTick("error")
	} else {
		p.metrics.RecordPollTick("ok")
	}

	p.deliver(Update[T]{Value: value, Err: err, At: time.Now()})
}

// deliver pushes an update, replacing an undrained older one: last write
// wins, a slow consumer only ever sees the freshest state.
func (p *Poller[T]) deliver(u Update[T]) {
	for {
		select {
		case p.updates <- u:
			return
		default:
			select {
			case <-p.updates:
			default:
			}
		}
	}
}
