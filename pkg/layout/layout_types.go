package layout

import (
	"context"
	"fmt"

	"github.com/graphlens/graphlens/pkg/model"
	"github.com/graphlens/graphlens/pkg/render"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config configures layout parameters
type Config struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // RNG seed for initial placement (0 means fixed default)
}

func (c *Config) applyDefaults() {
	if c.Iterations == 0 {
		c.Iterations = 50
	}
	if c.Padding == 0 {
		c.Padding = 50
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
}

// Algorithm computes positions for every node of a render model. Long-running
// implementations must observe ctx and return early when it is cancelled.
type Algorithm interface {
	ComputeLayout(ctx context.Context, m *render.Model) (map[string]Position, error)
}

// New returns the algorithm for the given settings choice.
func New(algo model.LayoutAlgorithm, config *Config) (Algorithm, error) {
	Register()
	construct, ok := registry[algo]
	if !ok {
		return nil, fmt.Errorf("unknown layout algorithm: %s", algo)
	}
	return construct(config), nil
}
