// Package encoding maps entity and relationship attributes to visual
// attributes (color, node size, edge width) under the current view settings.
// All functions are pure: identical inputs always produce identical output.
package encoding

import "github.com/graphlens/graphlens/pkg/model"

// Node sizing bounds. Degree-based sizing grows 3 units per incident
// relationship from the floor and clamps at the ceiling.
const (
	MinNodeSize   = 20.0
	MaxNodeSize   = 80.0
	FixedNodeSize = 30.0
	sizePerDegree = 3.0
)

// Edge width constants. Weighted width scales with the relationship weight
// and never drops below the minimum.
const (
	MinEdgeWidth      = 1.0
	ConstantEdgeWidth = 2.0
	widthPerWeight    = 3.0
)

// communityShade is how far a shaded node color moves toward its community
// color. Half-way keeps both the base scheme and the community grouping
// readable.
const communityShade = 0.5

// ColorOf resolves the color of an entity under the current settings. With
// community shading on, type- and degree-based colors are blended toward the
// entity's community color; nodes without a community keep the base color,
// and the community scheme itself is never double-shaded.
func ColorOf(e model.Entity, settings model.ViewSettings) string {
	var base string
	switch settings.ColorBy {
	case model.ColorByCommunity:
		return CommunityColor(e.CommunityID)
	case model.ColorByDegree:
		base = DegreeColor(e.Degree)
	default:
		base = TypeColor(e.Type)
	}
	if settings.ShadeCommunity && e.CommunityID != "" {
		return BlendColors(base, CommunityColor(e.CommunityID), communityShade)
	}
	return base
}

// SizeOf resolves the rendered size of an entity under the current settings.
func SizeOf(e model.Entity, settings model.ViewSettings) float64 {
	if settings.NodeSize == model.SizeFixed {
		return FixedNodeSize
	}
	size := MinNodeSize + float64(e.Degree)*sizePerDegree
	if size < MinNodeSize {
		size = MinNodeSize
	}
	if size > MaxNodeSize {
		size = MaxNodeSize
	}
	return size
}

// WidthOf resolves the rendered width of a relationship under the current
// settings.
func WidthOf(r model.Relationship, settings model.ViewSettings) float64 {
	if !settings.EdgeWeightWidth {
		return ConstantEdgeWidth
	}
	w := r.Weight * widthPerWeight
	if w < MinEdgeWidth {
		w = MinEdgeWidth
	}
	return w
}
