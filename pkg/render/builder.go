// Package render turns a raw graph payload into the filtered,
// visually-encoded projection handed to the drawing layer.
package render

import (
	"sort"

	"github.com/graphlens/graphlens/pkg/encoding"
	"github.com/graphlens/graphlens/pkg/model"
)

// Node is the ephemeral render projection of an entity. It carries resolved
// visual attributes plus a volatile position owned by the layout engine.
type Node struct {
	ID          string
	Name        string
	Type        model.EntityType
	Description string
	Degree      int
	CommunityID string
	Color       string
	Size        float64
	ShowLabel   bool

	// Seed position carried over from the payload, if the indexer persisted
	// one. The layout engine uses it for initial placement.
	SeedX, SeedY *float64
}

// Edge is the ephemeral render projection of a relationship. Both endpoints
// are guaranteed to exist in the Model's node set.
type Edge struct {
	ID       string
	SourceID string
	TargetID string
	Type     string
	Weight   float64
	Width    float64
}

// Model is the complete render model. It is always replaced as a whole,
// never partially mutated, so no inconsistent intermediate state is
// observable.
type Model struct {
	Nodes []Node
	Edges []Edge

	byID map[string]int
}

// Node returns the render node with the given id, if present.
func (m *Model) Node(id string) (Node, bool) {
	i, ok := m.byID[id]
	if !ok {
		return Node{}, false
	}
	return m.Nodes[i], true
}

// HasNode reports whether id is part of the rendered node set.
func (m *Model) HasNode(id string) bool {
	_, ok := m.byID[id]
	return ok
}

// Edge returns the render edge with the given id, if present.
func (m *Model) Edge(id string) (Edge, bool) {
	for _, e := range m.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// Build converts a raw payload into a render model under the given settings.
//
// Entities below the minimum-degree threshold are filtered out; relationships
// whose source or target was filtered (or never existed) are silently dropped
// rather than rendered dangling. An empty payload yields an empty model,
// which is a valid terminal state and not an error.
//
// Build is a pure function: identical inputs produce identical outputs,
// including ordering (nodes and edges are sorted by id).
func Build(payload *model.GraphPayload, settings model.ViewSettings) *Model {
	m := &Model{byID: make(map[string]int)}
	if payload.Empty() {
		return m
	}

	for _, e := range payload.Entities {
		if e.Degree < settings.MinDegree {
			continue
		}
		m.Nodes = append(m.Nodes, Node{
			ID:          e.ID,
			Name:        e.Name,
			Type:        model.NormalizeEntityType(e.Type),
			Description: e.Description,
			Degree:      e.Degree,
			CommunityID: e.CommunityID,
			Color:       encoding.ColorOf(e, settings),
			Size:        encoding.SizeOf(e, settings),
			ShowLabel:   settings.ShowLabels,
			SeedX:       e.X,
			SeedY:       e.Y,
		})
	}
	sort.Slice(m.Nodes, func(i, j int) bool { return m.Nodes[i].ID < m.Nodes[j].ID })
	for i, n := range m.Nodes {
		m.byID[n.ID] = i
	}

	for _, r := range payload.Relationships {
		if !m.HasNode(r.SourceID) || !m.HasNode(r.TargetID) {
			continue
		}
		m.Edges = append(m.Edges, Edge{
			ID:       r.ID,
			SourceID: r.SourceID,
			TargetID: r.TargetID,
			Type:     r.Type,
			Weight:   r.Weight,
			Width:    encoding.WidthOf(r, settings),
		})
	}
	sort.Slice(m.Edges, func(i, j int) bool { return m.Edges[i].ID < m.Edges[j].ID })

	return m
}

// Adjacency returns an undirected adjacency set over the model's edges,
// used by layout algorithms for attraction forces.
func (m *Model) Adjacency() map[string]map[string]bool {
	adj := make(map[string]map[string]bool, len(m.Nodes))
	for _, n := range m.Nodes {
		adj[n.ID] = make(map[string]bool)
	}
	for _, e := range m.Edges {
		adj[e.SourceID][e.TargetID] = true
		adj[e.TargetID][e.SourceID] = true
	}
	return adj
}
