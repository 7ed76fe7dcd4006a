package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/graphlens/graphlens/pkg/layout"
)

const (
	graphCanvasWidth  = 96
	graphCanvasHeight = 28
)

func (m appModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("graphlens — knowledge graph explorer"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case filesView:
		s.WriteString(m.renderFiles())
	case indexingView:
		s.WriteString(m.renderIndexing())
	case graphView:
		s.WriteString(m.renderGraph())
	case chatView:
		s.WriteString(m.renderChat())
	case statsView:
		s.WriteString(m.renderStats())
	}

	if m.searching {
		s.WriteString("\n\n")
		s.WriteString(contentStyle.Render("Search: " + m.searchInput.View()))
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(contentStyle.Render(errorStyle.Render("✗ " + m.message)))
		} else {
			s.WriteString(contentStyle.Render(successStyle.Render("✓ " + m.message)))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m appModel) renderTabs() string {
	tabs := []string{"Files", "Indexing", "Graph", "Chat", "Stats"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return contentStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...))
}

func (m appModel) renderFiles() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Documents"))
	s.WriteString("\n\n")

	if m.loading {
		s.WriteString(m.spin.View() + " loading...")
		return contentStyle.Render(s.String())
	}
	if len(m.files) == 0 {
		s.WriteString("No documents uploaded yet.")
		return contentStyle.Render(s.String())
	}

	s.WriteString(m.fileTable.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("space toggle • enter load graph • R refresh"))

	return contentStyle.Render(s.String())
}

func (m appModel) renderIndexing() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Indexing"))
	s.WriteString("\n\n")

	pollState := "live"
	if m.poller.Paused() {
		pollState = "paused"
	}
	s.WriteString(fmt.Sprintf("Polling: %s", pollState))
	if !m.lastPoll.IsZero() {
		s.WriteString(fmt.Sprintf(" • last tick %s ago", time.Since(m.lastPoll).Round(time.Second)))
	}
	if m.pollErr != nil {
		s.WriteString("  " + errorStyle.Render(fmt.Sprintf("(%v)", m.pollErr)))
	}
	s.WriteString("\n\n")

	if len(m.fleet.Statuses) == 0 {
		s.WriteString("Nothing is indexing.")
	} else {
		s.WriteString(fmt.Sprintf("Active: %d • Completed: %d • Errors: %d\n\n",
			m.fleet.ActiveIndexing, m.fleet.Completed, m.fleet.Errors))
		s.WriteString(m.indexTable.View())
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("x cancel • r retry • p pause polling"))

	return contentStyle.Render(s.String())
}

func (m appModel) renderGraph() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Graph"))
	s.WriteString("\n\n")

	if m.renderModel == nil {
		s.WriteString("No graph loaded. Select files and press enter on the Files tab.")
		return contentStyle.Render(s.String())
	}

	state := m.engine.State()
	status := fmt.Sprintf("%d nodes • %d edges • layout %s (%s)",
		len(m.renderModel.Nodes), len(m.renderModel.Edges), m.settings.Layout, state)
	if m.fromCache {
		status += " • cached snapshot"
	}
	if m.settings.MinDegree > 0 {
		status += fmt.Sprintf(" • min degree %d", m.settings.MinDegree)
	}
	s.WriteString(status)
	s.WriteString("\n\n")

	if state == layout.Computing {
		s.WriteString(m.spin.View() + " computing layout...\n\n")
	}

	s.WriteString(canvasStyle.Render(m.drawCanvas()))
	s.WriteString("\n")

	if id, ok := m.interact.SelectedNode(); ok {
		if n, found := m.renderModel.Node(id); found {
			detail := fmt.Sprintf("Selected: %s  [%s]  degree %d", n.Name, n.Type, n.Degree)
			if n.CommunityID != "" {
				detail += "  community " + n.CommunityID
			}
			if n.Description != "" {
				detail += "\n" + truncate(n.Description, 100)
			}
			s.WriteString(selectedStyle.Render(detail))
			s.WriteString("\n")
		}
	}
	if !m.lastSearch.NoMatches() {
		s.WriteString(fmt.Sprintf("Highlighting %d matches for %q\n", m.lastSearch.Count, m.lastSearch.Query))
	}

	s.WriteString(helpStyle.Render("/ search • l layout • c colors • s size • w width • S shade • n/N select • +/- degree filter • e export"))

	return contentStyle.Render(s.String())
}

// drawCanvas plots the positioned nodes on a character grid through the
// current viewport. Selection and highlight markers take precedence over
// plain nodes; labels are drawn to the right of the marker when they fit.
func (m appModel) drawCanvas() string {
	grid := make([][]rune, graphCanvasHeight)
	for i := range grid {
		grid[i] = make([]rune, graphCanvasWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	selectedID, _ := m.interact.SelectedNode()

	// Plain nodes first so markers overwrite them.
	type plotted struct {
		id   string
		x, y int
	}
	var marked []plotted

	for _, n := range m.renderModel.Nodes {
		pos, ok := m.positions[n.ID]
		if !ok {
			continue
		}
		p := m.viewport.Apply(pos)
		x, y := int(p.X), int(p.Y)
		if x < 0 || x >= graphCanvasWidth || y < 0 || y >= graphCanvasHeight {
			continue
		}
		switch {
		case n.ID == selectedID:
			marked = append(marked, plotted{n.ID, x, y})
			grid[y][x] = '◉'
		case m.interact.Highlighted(n.ID):
			marked = append(marked, plotted{n.ID, x, y})
			grid[y][x] = '◎'
		default:
			grid[y][x] = '●'
		}
	}

	if m.settings.ShowLabels {
		for _, p := range marked {
			n, ok := m.renderModel.Node(p.id)
			if !ok {
				continue
			}
			label := []rune(" " + truncate(n.Name, 18))
			for i, r := range label {
				cx := p.x + 1 + i
				if cx >= graphCanvasWidth {
					break
				}
				grid[p.y][cx] = r
			}
		}
	}

	lines := make([]string, graphCanvasHeight)
	for i, row := range grid {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderChat() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Chat"))
	s.WriteString("\n\n")

	if len(m.selectedFileIDs()) == 0 {
		s.WriteString(helpStyle.Render("Select documents on the Files tab to scope the conversation.\n\n"))
	}

	start := 0
	if len(m.chatLog) > 6 {
		start = len(m.chatLog) - 6
	}
	for _, entry := range m.chatLog[start:] {
		if entry.Role == "user" {
			s.WriteString(selectedStyle.Render("you: "))
			s.WriteString(entry.Text)
		} else {
			s.WriteString(successStyle.Render("assistant: "))
			s.WriteString(entry.Text)
			if len(entry.Sources) > 0 {
				names := make([]string, 0, len(entry.Sources))
				for _, src := range entry.Sources {
					names = append(names, src.Filename)
				}
				s.WriteString("\n" + helpStyle.Render("sources: "+strings.Join(names, ", ")))
			}
		}
		s.WriteString("\n\n")
	}

	if m.streaming {
		s.WriteString(successStyle.Render("assistant: "))
		s.WriteString(m.chatPartial)
		s.WriteString(" " + m.spin.View())
		s.WriteString("\n\n")
	}

	s.WriteString(m.chatInput.View())

	return contentStyle.Render(s.String())
}

func (m appModel) renderStats() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Statistics"))
	s.WriteString("\n\n")

	if m.payload == nil {
		s.WriteString("Load a graph to see its statistics.")
		return contentStyle.Render(s.String())
	}

	overview := fmt.Sprintf(`Overview
━━━━━━━━━━━━━━━
Entities:       %d
Relationships:  %d
Communities:    %d
Density:        %.4f
Avg degree:     %.2f
Max degree:     %d`,
		m.summary.Entities,
		m.summary.Relationships,
		m.summary.Communities,
		m.summary.Density,
		m.summary.AverageDegree,
		m.summary.MaxDegree,
	)

	var types strings.Builder
	types.WriteString("Entity types\n━━━━━━━━━━━━━━━\n")
	for _, line := range histogramLines(m.summary.EntityTypes) {
		types.WriteString(line + "\n")
	}

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(overview),
		statsBoxStyle.Render(strings.TrimRight(types.String(), "\n")),
	))

	return contentStyle.Render(s.String())
}

func histogramLines(hist map[string]int) []string {
	keys := make([]string, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if hist[keys[i]] != hist[keys[j]] {
			return hist[keys[i]] > hist[keys[j]]
		}
		return keys[i] < keys[j]
	})

	max := 1
	for _, k := range keys {
		if hist[k] > max {
			max = hist[k]
		}
	}

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		bar := strings.Repeat("█", hist[k]*20/max)
		lines = append(lines, fmt.Sprintf("%-13s %4d %s", k, hist[k], bar))
	}
	return lines
}

func progressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	return fmt.Sprintf("%s%s %3.0f%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		percent)
}

// truncate shortens s to at most n runes. Cutting on runes, not bytes, keeps
// multibyte entity names valid on the canvas.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
