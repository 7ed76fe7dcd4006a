package layout

import "math"

// Viewport is a translate-then-scale transform from layout space into a
// target canvas.
type Viewport struct {
	OffsetX float64
	OffsetY float64
	Scale   float64
}

// Apply maps a layout-space position into canvas space.
func (v Viewport) Apply(p Position) Position {
	return Position{
		X: (p.X - v.OffsetX) * v.Scale,
		Y: (p.Y - v.OffsetY) * v.Scale,
	}
}

// FitViewport computes the transform that fits the given subset of node ids
// into a width×height canvas with the given padding. Search uses it to zoom
// onto matched nodes only. Ids with no position are ignored; an empty subset
// yields the identity transform.
func FitViewport(positions map[string]Position, ids []string, width, height, padding float64) Viewport {
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	found := 0

	for _, id := range ids {
		p, ok := positions[id]
		if !ok {
			continue
		}
		found++
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	if found == 0 {
		return Viewport{Scale: 1}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	scale := math.Min((width-2*padding)/rangeX, (height-2*padding)/rangeY)
	if scale <= 0 {
		scale = 1
	}

	return Viewport{
		OffsetX: minX - padding/scale,
		OffsetY: minY - padding/scale,
		Scale:   scale,
	}
}
