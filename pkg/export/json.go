// Package export serializes the rendered graph: JSON and GraphML documents,
// an interactive HTML chart, and a one-shot static PNG snapshot. All exports
// read the current render model and settled layout positions; none touch the
// service.
package export

import (
	"encoding/json"

	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/render"
)

type nodeJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Degree      int     `json:"degree"`
	CommunityID string  `json:"community_id,omitempty"`
	Color       string  `json:"color"`
	Size        float64 `json:"size"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

type edgeJSON struct {
	ID     string  `json:"id"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
	Width  float64 `json:"width"`
}

type graphJSON struct {
	Nodes []nodeJSON `json:"nodes"`
	Edges []edgeJSON `json:"edges"`
}

// JSON serializes the render model with its settled positions.
func JSON(m *render.Model, positions map[string]layout.Position) ([]byte, error) {
	data := graphJSON{
		Nodes: make([]nodeJSON, 0, len(m.Nodes)),
		Edges: make([]edgeJSON, 0, len(m.Edges)),
	}

	for _, n := range m.Nodes {
		pos := positions[n.ID]
		data.Nodes = append(data.Nodes, nodeJSON{
			ID:          n.ID,
			Name:        n.Name,
			Type:        string(n.Type),
			Description: n.Description,
			Degree:      n.Degree,
			CommunityID: n.CommunityID,
			Color:       n.Color,
			Size:        n.Size,
			X:           pos.X,
			Y:           pos.Y,
		})
	}

	for _, e := range m.Edges {
		data.Edges = append(data.Edges, edgeJSON{
			ID:     e.ID,
			From:   e.SourceID,
			To:     e.TargetID,
			Type:   e.Type,
			Weight: e.Weight,
			Width:  e.Width,
		})
	}

	return json.MarshalIndent(data, "", "  ")
}
