// Package interaction owns selection, search-highlight, and filter state for
// the graph view. It overlays onto the render model without refetching data.
package interaction

import (
	"sort"
	"strings"

	"github.com/graphlens/graphlens/pkg/render"
)

// Manager mediates between user input and the render model. At most one node
// XOR one edge is selected at a time; the type system of the setters enforces
// the exclusivity rather than leaving it to convention.
type Manager struct {
	selectedNode string
	selectedEdge string
	highlights   map[string]bool
	lastQuery    string
}

// NewManager returns a manager with nothing selected or highlighted.
func NewManager() *Manager {
	return &Manager{highlights: make(map[string]bool)}
}

// SelectNode marks a node as selected and clears any edge selection.
func (m *Manager) SelectNode(id string) {
	m.selectedNode = id
	m.selectedEdge = ""
}

// SelectEdge marks an edge as selected and clears any node selection.
func (m *Manager) SelectEdge(id string) {
	m.selectedEdge = id
	m.selectedNode = ""
}

// ClearSelection clears both selections, as tapping empty canvas does.
func (m *Manager) ClearSelection() {
	m.selectedNode = ""
	m.selectedEdge = ""
}

// SelectedNode returns the selected node id, if any.
func (m *Manager) SelectedNode() (string, bool) {
	return m.selectedNode, m.selectedNode != ""
}

// SelectedEdge returns the selected edge id, if any.
func (m *Manager) SelectedEdge() (string, bool) {
	return m.selectedEdge, m.selectedEdge != ""
}

// Highlighted reports whether the node is part of the current search
// highlight set.
func (m *Manager) Highlighted(id string) bool {
	return m.highlights[id]
}

// HighlightedIDs returns the current highlight set, sorted.
func (m *Manager) HighlightedIDs() []string {
	ids := make([]string, 0, len(m.highlights))
	for id := range m.highlights {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearHighlights drops the highlight set and the remembered query.
func (m *Manager) ClearHighlights() {
	m.highlights = make(map[string]bool)
	m.lastQuery = ""
}

// SearchResult is the outcome of one search pass.
type SearchResult struct {
	Query    string
	MatchIDs []string // sorted; the caller fits the viewport to these
	Count    int
}

// NoMatches reports the distinct empty-result outcome.
func (r SearchResult) NoMatches() bool {
	return r.Count == 0
}

// Search runs a case-insensitive substring match against name, type, and
// description of the currently rendered nodes. Filtered-out nodes are not
// searchable. A successful search replaces the highlight set; a failed one
// retains the previous highlights.
func (m *Manager) Search(rm *render.Model, query string) SearchResult {
	result := SearchResult{Query: query}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return result
	}

	for _, n := range rm.Nodes {
		if strings.Contains(strings.ToLower(n.Name), needle) ||
			strings.Contains(strings.ToLower(string(n.Type)), needle) ||
			strings.Contains(strings.ToLower(n.Description), needle) {
			result.MatchIDs = append(result.MatchIDs, n.ID)
		}
	}
	sort.Strings(result.MatchIDs)
	result.Count = len(result.MatchIDs)

	if result.Count > 0 {
		m.highlights = make(map[string]bool, result.Count)
		for _, id := range result.MatchIDs {
			m.highlights[id] = true
		}
		m.lastQuery = query
	}

	return result
}

// FilterChanged resets state predicated on node identities: a new degree
// threshold means a rebuilt model whose ids may no longer exist, so both
// selection and highlights are dropped.
func (m *Manager) FilterChanged() {
	m.ClearSelection()
	m.ClearHighlights()
}
