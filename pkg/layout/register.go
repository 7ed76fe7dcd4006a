package layout

import (
	"sync"

	"github.com/graphlens/graphlens/pkg/model"
)

// The algorithm registry is process-wide mutable state, so it is installed
// exactly once. Repeated Register calls are no-ops.
var (
	registerOnce sync.Once
	registry     map[model.LayoutAlgorithm]func(*Config) Algorithm
)

// Register installs the built-in layout algorithms into the process-wide
// registry. It is invoked implicitly by New and may also be called during
// process start; it is idempotent.
func Register() {
	registerOnce.Do(func() {
		registry = map[model.LayoutAlgorithm]func(*Config) Algorithm{
			model.LayoutForceDirected: func(c *Config) Algorithm { return NewForceDirected(c) },
			model.LayoutConstraint:    func(c *Config) Algorithm { return NewConstraint(c) },
			model.LayoutCircular:      func(c *Config) Algorithm { return NewCircular(c) },
			model.LayoutGrid:          func(c *Config) Algorithm { return NewGrid(c) },
		}
	})
}
