package layout

import (
	"context"
	"math"

	"github.com/graphlens/graphlens/pkg/render"
)

// Grid arranges nodes in a near-square grid. Fast, deterministic fallback.
type Grid struct {
	config *Config
}

// NewGrid creates a new grid layout
func NewGrid(config *Config) *Grid {
	config.applyDefaults()
	return &Grid{config: config}
}

// ComputeLayout arranges nodes row by row in a square-ish grid
func (gl *Grid) ComputeLayout(_ context.Context, m *render.Model) (map[string]Position, error) {
	positions := make(map[string]Position, len(m.Nodes))

	if len(m.Nodes) == 0 {
		return positions, nil
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(m.Nodes)))))
	rows := int(math.Ceil(float64(len(m.Nodes)) / float64(cols)))

	cellW := (gl.config.Width - 2*gl.config.Padding) / float64(cols)
	cellH := (gl.config.Height - 2*gl.config.Padding) / float64(rows)

	for i, n := range m.Nodes {
		col := i % cols
		row := i / cols
		positions[n.ID] = Position{
			X: gl.config.Padding + cellW*float64(col) + cellW/2,
			Y: gl.config.Padding + cellH*float64(row) + cellH/2,
		}
	}

	return positions, nil
}
