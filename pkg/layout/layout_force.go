package layout

import (
	"context"
	"math"

	"github.com/graphlens/graphlens/pkg/render"
)

// ForceDirected implements force-directed graph layout with node-overlap
// avoidance: repulsion is boosted whenever two nodes come closer than the
// minimum separation.
type ForceDirected struct {
	config *Config
}

// NewForceDirected creates a new force-directed layout
func NewForceDirected(config *Config) *ForceDirected {
	config.applyDefaults()
	return &ForceDirected{config: config}
}

// minSeparation is the distance below which the overlap-avoidance boost
// kicks in.
const minSeparation = 24.0

// ComputeLayout computes positions using a force-directed algorithm with
// cooling. Cancelling ctx stops the iteration and returns ctx's error.
func (fd *ForceDirected) ComputeLayout(ctx context.Context, m *render.Model) (map[string]Position, error) {
	if len(m.Nodes) == 0 {
		return make(map[string]Position), nil
	}

	// Single node - center it
	if len(m.Nodes) == 1 {
		return map[string]Position{
			m.Nodes[0].ID: {
				X: fd.config.Width / 2,
				Y: fd.config.Height / 2,
			},
		}, nil
	}

	positions := initialPositions(m, fd.config)
	adjacency := m.Adjacency()

	nodeIDs := make([]string, 0, len(m.Nodes))
	for _, n := range m.Nodes {
		nodeIDs = append(nodeIDs, n.ID)
	}

	k := math.Sqrt((fd.config.Width * fd.config.Height) / float64(len(nodeIDs))) // Optimal distance
	temperature := fd.config.Width / 10.0

	for iter := 0; iter < fd.config.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		forces := make(map[string]Position, len(nodeIDs))
		for _, id := range nodeIDs {
			forces[id] = Position{}
		}

		// Repulsion between all pairs
		for i, id1 := range nodeIDs {
			for j := i + 1; j < len(nodeIDs); j++ {
				id2 := nodeIDs[j]
				dx := positions[id1].X - positions[id2].X
				dy := positions[id1].Y - positions[id2].Y
				dist := math.Sqrt(dx*dx + dy*dy)

				if dist < 0.01 {
					dist = 0.01
				}

				force := (k * k) / dist
				if dist < minSeparation {
					// Overlap avoidance: push apart much harder
					force *= minSeparation / dist
				}
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[id1] = Position{X: forces[id1].X + fx, Y: forces[id1].Y + fy}
				forces[id2] = Position{X: forces[id2].X - fx, Y: forces[id2].Y - fy}
			}
		}

		// Attraction between connected nodes
		for _, id1 := range nodeIDs {
			for id2 := range adjacency[id1] {
				dx := positions[id1].X - positions[id2].X
				dy := positions[id1].Y - positions[id2].Y
				dist := math.Sqrt(dx*dx + dy*dy)

				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[id1] = Position{X: forces[id1].X - fx, Y: forces[id1].Y - fy}
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(fd.config.Iterations)
		for _, id := range nodeIDs {
			fx := forces[id].X
			fy := forces[id].Y
			force := math.Sqrt(fx*fx + fy*fy)

			if force > 0 {
				dx := (fx / force) * math.Min(force, temperature) * cool
				dy := (fy / force) * math.Min(force, temperature) * cool
				positions[id] = Position{X: positions[id].X + dx, Y: positions[id].Y + dy}
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, fd.config.Width, fd.config.Height, fd.config.Padding), nil
}
