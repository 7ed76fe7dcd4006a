package layout

import (
	"context"
	"math"

	"github.com/graphlens/graphlens/pkg/render"
)

// Circular arranges nodes in a circle. Fast, deterministic fallback.
type Circular struct {
	config *Config
}

// NewCircular creates a new circular layout
func NewCircular(config *Config) *Circular {
	config.applyDefaults()
	return &Circular{config: config}
}

// ComputeLayout arranges nodes in a circle
func (cl *Circular) ComputeLayout(_ context.Context, m *render.Model) (map[string]Position, error) {
	positions := make(map[string]Position, len(m.Nodes))

	if len(m.Nodes) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding

	angleStep := 2 * math.Pi / float64(len(m.Nodes))

	for i, n := range m.Nodes {
		angle := float64(i) * angleStep
		positions[n.ID] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
