package layout

import (
	"context"
	"math"
	"time"

	"github.com/graphlens/graphlens/pkg/render"
)

// Constraint implements an iterative constraint-relaxation layout: every
// edge is treated as a spring with a target length and every iteration moves
// both endpoints toward satisfying it. The simulation runs until the
// iteration budget or the wall-clock budget is exhausted, whichever comes
// first.
type Constraint struct {
	config  *Config
	maxWall time.Duration
}

// NewConstraint creates a new constraint-relaxation layout
func NewConstraint(config *Config) *Constraint {
	config.applyDefaults()
	if config.Iterations < 100 {
		config.Iterations = 100
	}
	return &Constraint{config: config, maxWall: 3 * time.Second}
}

// ComputeLayout relaxes edge-length constraints until the time budget runs
// out. Cancelling ctx stops the iteration and returns ctx's error.
func (cl *Constraint) ComputeLayout(ctx context.Context, m *render.Model) (map[string]Position, error) {
	if len(m.Nodes) == 0 {
		return make(map[string]Position), nil
	}

	positions := initialPositions(m, cl.config)
	target := math.Sqrt((cl.config.Width * cl.config.Height) / float64(len(m.Nodes)))
	deadline := time.Now().Add(cl.maxWall)

	for iter := 0; iter < cl.config.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if time.Now().After(deadline) {
			break
		}

		for _, e := range m.Edges {
			a := positions[e.SourceID]
			b := positions[e.TargetID]
			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist < 0.01 {
				dist = 0.01
			}

			// Move both endpoints halfway toward the constraint, damped.
			diff := (dist - target) / dist * 0.5 * 0.2
			shiftX := dx * diff
			shiftY := dy * diff
			positions[e.SourceID] = Position{X: a.X + shiftX, Y: a.Y + shiftY}
			positions[e.TargetID] = Position{X: b.X - shiftX, Y: b.Y - shiftY}
		}

		// Mild pairwise separation pass to keep disconnected nodes apart.
		for i := 0; i < len(m.Nodes); i++ {
			for j := i + 1; j < len(m.Nodes); j++ {
				idA, idB := m.Nodes[i].ID, m.Nodes[j].ID
				a, b := positions[idA], positions[idB]
				dx := b.X - a.X
				dy := b.Y - a.Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist >= minSeparation {
					continue
				}
				if dist < 0.01 {
					dist = 0.01
					dx = 1
				}
				push := (minSeparation - dist) / dist * 0.5
				positions[idA] = Position{X: a.X - dx*push, Y: a.Y - dy*push}
				positions[idB] = Position{X: b.X + dx*push, Y: b.Y + dy*push}
			}
		}
	}

	return normalizePositions(positions, cl.config.Width, cl.config.Height, cl.config.Padding), nil
}
