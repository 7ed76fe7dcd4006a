package layout

import (
	"context"
	"sync"
	"time"

	"github.com/graphlens/graphlens/pkg/logging"
	"github.com/graphlens/graphlens/pkg/metrics"
	"github.com/graphlens/graphlens/pkg/model"
	"github.com/graphlens/graphlens/pkg/render"
)

// State is the lifecycle state of the layout engine.
type State int

const (
	// Idle means no layout has been requested yet.
	Idle State = iota
	// Computing means a run is in flight.
	Computing
	// Settled means positions are final until the next Start.
	Settled
)

// String returns the string representation of an engine state
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Computing:
		return "computing"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Result is the outcome of one layout run, delivered asynchronously on the
// engine's Results channel. Cancelled runs deliver nothing: a restart
// supersedes them.
type Result struct {
	Algorithm model.LayoutAlgorithm
	Positions map[string]Position
	Err       error
}

// Engine owns the positioning algorithm and its lifecycle. Layout runs are
// cancellable background tasks; interaction-state changes (selection,
// highlight) never touch the engine, so settled positions survive them.
type Engine struct {
	mu        sync.Mutex
	config    Config
	state     State
	algorithm model.LayoutAlgorithm
	positions map[string]Position
	cancel    context.CancelFunc
	gen       uint64
	results   chan Result
	logger    logging.Logger
	metrics   *metrics.Registry
}

// NewEngine creates an idle engine. Results must be drained by exactly one
// consumer; completions for superseded runs are discarded internally.
func NewEngine(config Config, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	config.applyDefaults()
	return &Engine{
		config:  config,
		state:   Idle,
		results: make(chan Result, 1),
		logger:  logger.With(logging.Component("layout")),
		metrics: metrics.DefaultRegistry(),
	}
}

// Results delivers the outcome of completed runs.
func (e *Engine) Results() <-chan Result {
	return e.results
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Positions returns a copy of the most recently settled positions.
func (e *Engine) Positions() map[string]Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]Position, len(e.positions))
	for id, p := range e.positions {
		out[id] = p
	}
	return out
}

// Start begins a layout run for the given model and algorithm. A run already
// in flight is cancelled and superseded; a settled engine restarts fresh.
// A model with zero nodes settles immediately with no positions to assign.
func (e *Engine) Start(m *render.Model, algorithm model.LayoutAlgorithm) {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gen++
	gen := e.gen
	e.algorithm = algorithm

	if len(m.Nodes) == 0 {
		e.state = Settled
		e.positions = make(map[string]Position)
		e.mu.Unlock()
		e.metrics.RecordLayoutRun(string(algorithm), "ok", 0)
		e.deliver(Result{Algorithm: algorithm, Positions: map[string]Position{}})
		return
	}

	algo, err := New(algorithm, &Config{
		Width:      e.config.Width,
		Height:     e.config.Height,
		Iterations: e.config.Iterations,
		Padding:    e.config.Padding,
		Seed:       e.config.Seed,
	})
	if err != nil {
		e.state = Idle
		e.mu.Unlock()
		e.metrics.RecordLayoutRun(string(algorithm), "error", 0)
		e.deliver(Result{Algorithm: algorithm, Err: err})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.state = Computing
	e.mu.Unlock()

	e.logger.Debug("layout run started",
		logging.String("algorithm", string(algorithm)),
		logging.Count(len(m.Nodes)))

	go func() {
		started := time.Now()
		positions, err := algo.ComputeLayout(ctx, m)
		elapsed := time.Since(started)

		e.mu.Lock()
		if gen != e.gen {
			// Superseded by a newer Start; drop silently.
			e.mu.Unlock()
			e.metrics.RecordLayoutRun(string(algorithm), "superseded", elapsed)
			return
		}
		if err != nil {
			// Cancelled or failed; back to idle so a restart is clean.
			e.state = Idle
			e.cancel = nil
			e.mu.Unlock()
			e.metrics.RecordLayoutRun(string(algorithm), "cancelled", elapsed)
			return
		}
		e.state = Settled
		e.positions = positions
		e.cancel = nil
		e.mu.Unlock()

		e.metrics.RecordLayoutRun(string(algorithm), "ok", elapsed)
		e.deliver(Result{Algorithm: algorithm, Positions: positions})
	}()
}

// Cancel aborts any in-flight run and returns the engine to Idle.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.state == Computing {
		e.state = Idle
	}
	e.gen++
}

// deliver pushes a result, replacing an undrained older one. The latest
// completed run always wins.
func (e *Engine) deliver(r Result) {
	for {
		select {
		case e.results <- r:
			return
		default:
			select {
			case <-e.results:
			default:
			}
		}
	}
}
