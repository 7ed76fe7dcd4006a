package model

// LayoutAlgorithm selects the positioning algorithm for the graph view.
type LayoutAlgorithm string

const (
	LayoutForceDirected LayoutAlgorithm = "force_directed"
	LayoutConstraint    LayoutAlgorithm = "constraint"
	LayoutCircular      LayoutAlgorithm = "circular"
	LayoutGrid          LayoutAlgorithm = "grid"
)

// ColorMode selects the node coloring scheme.
type ColorMode string

const (
	ColorByType      ColorMode = "type"
	ColorByCommunity ColorMode = "community"
	ColorByDegree    ColorMode = "degree"
)

// NodeSizeMode selects fixed or degree-proportional node sizing.
type NodeSizeMode string

const (
	SizeFixed    NodeSizeMode = "fixed"
	SizeByDegree NodeSizeMode = "by_degree"
)

// ViewSettings is the user-owned value type driving the render model.
// Changing any field except Layout requires a model rebuild; Layout changes
// only re-run the layout engine.
type ViewSettings struct {
	Layout          LayoutAlgorithm
	ShowLabels      bool
	ShadeCommunity  bool
	NodeSize        NodeSizeMode
	EdgeWeightWidth bool
	MinDegree       int
	ColorBy         ColorMode
}

// DefaultViewSettings returns the settings a fresh graph view starts with.
func DefaultViewSettings() ViewSettings {
	return ViewSettings{
		Layout:          LayoutForceDirected,
		ShowLabels:      true,
		ShadeCommunity:  false,
		NodeSize:        SizeByDegree,
		EdgeWeightWidth: true,
		MinDegree:       0,
		ColorBy:         ColorByType,
	}
}

// RebuildRequired reports whether switching from old to new settings requires
// rebuilding the render model, as opposed to only re-running the layout.
func RebuildRequired(old, new ViewSettings) bool {
	old.Layout = ""
	new.Layout = ""
	return old != new
}
