package layout

import (
	"math"
	"math/rand"

	"github.com/graphlens/graphlens/pkg/render"
)

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[string]Position, width, height, padding float64) map[string]Position {
	if len(positions) == 0 {
		return positions
	}

	// Find bounds
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	// Scale to fit bounds with padding
	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[string]Position, len(positions))
	for id, pos := range positions {
		normalized[id] = Position{
			X: padding + ((pos.X-minX)/rangeX)*targetWidth,
			Y: padding + ((pos.Y-minY)/rangeY)*targetHeight,
		}
	}

	return normalized
}

// initialPositions places every node either at its persisted seed position
// (reduces visual churn across repeated loads of the same document set) or at
// a seeded-random spot inside the padded canvas.
func initialPositions(m *render.Model, config *Config) map[string]Position {
	rng := rand.New(rand.NewSource(config.Seed))
	positions := make(map[string]Position, len(m.Nodes))
	for _, n := range m.Nodes {
		if n.SeedX != nil && n.SeedY != nil {
			positions[n.ID] = Position{X: *n.SeedX, Y: *n.SeedY}
			continue
		}
		positions[n.ID] = Position{
			X: rng.Float64()*(config.Width-2*config.Padding) + config.Padding,
			Y: rng.Float64()*(config.Height-2*config.Padding) + config.Padding,
		}
	}
	return positions
}
