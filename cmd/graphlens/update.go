package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/graphlens/graphlens/pkg/interaction"
	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/model"
	"github.com/graphlens/graphlens/pkg/render"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case filesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(fmt.Sprintf("loading files: %v", msg.err))
			break
		}
		m.files = msg.files
		m.refreshFileTable()
		m.setInfo(fmt.Sprintf("Loaded %d files", msg.total))

	case graphLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(fmt.Sprintf("loading graph: %v", msg.err))
			break
		}
		m.applyGraph(msg.payload, msg.fromCache)
		if msg.fromCache {
			m.setInfo("Service unreachable; showing cached snapshot")
		} else {
			m.setInfo(fmt.Sprintf("Graph loaded: %d nodes, %d edges",
				len(m.renderModel.Nodes), len(m.renderModel.Edges)))
		}
		m.currentView = graphView

	case layoutMsg:
		cmds = append(cmds, waitLayoutCmd(m.engine))
		if msg.Err != nil {
			m.setError(fmt.Sprintf("layout: %v", msg.Err))
			break
		}
		m.positions = msg.Positions
		m.viewport = layout.FitViewport(m.positions, positionIDs(m.positions), graphCanvasWidth, graphCanvasHeight, 2)
		if m.store != nil && m.payload != nil {
			cmds = append(cmds, saveSnapshotCmd(m.store, m.selectedFileIDs(), m.payload, m.positions))
		}

	case pollMsg:
		cmds = append(cmds, waitPollCmd(m.poller))
		m.lastPoll = msg.At
		m.pollErr = msg.Err
		if msg.Err == nil {
			m.observeFleet(msg.Value)
			m.refreshIndexTable()
			m.refreshFileStates()
		}

	case actionDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("%s %s: %v", msg.action, msg.fileID, msg.err))
			break
		}
		switch msg.action {
		case "cancel":
			if t, ok := m.trackers[msg.fileID]; ok {
				if err := t.CancelAcknowledged(); err == nil {
					m.setInfo("Indexing cancelled: " + msg.fileID)
				}
			}
		case "retry":
			if t, ok := m.trackers[msg.fileID]; ok {
				if err := t.Retry(); err == nil {
					m.setInfo("Indexing requeued: " + msg.fileID)
				}
			}
		}

	case exportDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("export: %v", msg.err))
		} else {
			info := "Exported " + strings.Join(msg.paths, ", ")
			if msg.note != "" {
				info += " — " + msg.note
			}
			m.setInfo(info)
		}

	case chatPartialMsg:
		m.chatPartial = string(msg)
		cmds = append(cmds, listenChatCmd(m.chat))

	case chatDoneMsg:
		m.streaming = false
		m.chatPartial = ""
		m.chat = nil
		if msg.Err != nil {
			m.setError(fmt.Sprintf("chat: %v", msg.Err))
			break
		}
		m.chatLog = append(m.chatLog, chatEntry{
			Role:    "assistant",
			Text:    msg.Message,
			Sources: msg.Sources,
		})

	case tea.KeyMsg:
		if newModel, cmd, handled := m.handleKey(msg); handled {
			return newModel, cmd
		}
	}

	m.spin, cmd = m.spin.Update(msg)
	cmds = append(cmds, cmd)

	// Update focused component
	if !m.searching {
		switch m.currentView {
		case filesView:
			m.fileTable, cmd = m.fileTable.Update(msg)
			cmds = append(cmds, cmd)
		case indexingView:
			m.indexTable, cmd = m.indexTable.Update(msg)
			cmds = append(cmds, cmd)
		case chatView:
			m.chatInput, cmd = m.chatInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	} else {
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	// Search prompt swallows everything except enter and esc.
	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			query := m.searchInput.Value()
			if m.renderModel != nil && query != "" {
				m.lastSearch = m.interact.Search(m.renderModel, query)
				if m.lastSearch.NoMatches() {
					m.setError(fmt.Sprintf("No matches for %q", query))
				} else {
					m.viewport = layout.FitViewport(m.positions, m.lastSearch.MatchIDs,
						graphCanvasWidth, graphCanvasHeight, 2)
					m.setInfo(fmt.Sprintf("%d matches for %q", m.lastSearch.Count, query))
				}
			}
			return m, nil, true
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			return m, nil, true
		}
		return m, nil, false
	}

	// Chat input owns printable keys while focused.
	if m.currentView == chatView && m.chatInput.Focused() {
		switch msg.String() {
		case "enter":
			return m.submitChat()
		case "esc":
			m.chatInput.Blur()
			return m, nil, true
		case "tab", "shift+tab", "ctrl+c":
			// fall through to global handling
		default:
			return m, nil, false
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Tab):
		m.switchView((m.currentView + 1) % viewCount)
		return m, nil, true

	case key.Matches(msg, m.keys.ShiftTab):
		if m.currentView == 0 {
			m.switchView(viewCount - 1)
		} else {
			m.switchView(m.currentView - 1)
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, loadFilesCmd(m.svc), true

	case key.Matches(msg, m.keys.Pause):
		if m.poller.Paused() {
			m.poller.Resume()
			m.setInfo("Polling resumed")
		} else {
			m.poller.Pause()
			m.setInfo("Polling paused")
		}
		return m, nil, true
	}

	switch m.currentView {
	case filesView:
		return m.handleFilesKey(msg)
	case indexingView:
		return m.handleIndexingKey(msg)
	case graphView:
		return m.handleGraphKey(msg)
	case chatView:
		if msg.String() == "i" || msg.String() == "enter" {
			m.chatInput.Focus()
			return m, nil, true
		}
	}
	return m, nil, false
}

func (m appModel) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Space):
		if f, ok := m.fileAtCursor(); ok {
			if f.State != model.StateCompleted {
				m.setError("Only completed files can join the graph selection")
				return m, nil, true
			}
			m.selected[f.ID] = !m.selected[f.ID]
			m.refreshFileTable()
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Enter):
		ids := m.selectedFileIDs()
		if len(ids) == 0 {
			m.setError("Select at least one completed file first")
			return m, nil, true
		}
		m.loading = true
		return m, loadGraphCmd(m.svc, m.store, ids), true
	}
	return m, nil, false
}

func (m appModel) handleIndexingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if p, ok := m.progressAtCursor(); ok {
			if p.State != model.StateIndexing {
				m.setError("Only a running indexing job can be cancelled")
				return m, nil, true
			}
			return m, cancelIndexingCmd(m.svc, p.FileID), true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Retry):
		if p, ok := m.progressAtCursor(); ok {
			if p.State != model.StateErrored {
				m.setError("Only a failed indexing job can be retried")
				return m, nil, true
			}
			return m, retryIndexingCmd(m.svc, p.FileID), true
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m appModel) handleGraphKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.renderModel == nil {
		return m, nil, false
	}
	old := m.settings

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, nil, true

	case key.Matches(msg, m.keys.Layout):
		m.settings.Layout = nextLayout(m.settings.Layout)
		m.setInfo("Layout: " + string(m.settings.Layout))
		cmd := m.rebuildView(old)
		return m, cmd, true

	case key.Matches(msg, m.keys.Color):
		// Visual-only change: re-encode without restarting layout.
		m.settings.ColorBy = nextColorMode(m.settings.ColorBy)
		m.renderModel = render.Build(m.payload, m.settings)
		m.setInfo("Color by: " + string(m.settings.ColorBy))
		return m, nil, true

	case key.Matches(msg, m.keys.Labels):
		m.settings.ShowLabels = !m.settings.ShowLabels
		m.renderModel = render.Build(m.payload, m.settings)
		return m, nil, true

	case key.Matches(msg, m.keys.Size):
		if m.settings.NodeSize == model.SizeByDegree {
			m.settings.NodeSize = model.SizeFixed
		} else {
			m.settings.NodeSize = model.SizeByDegree
		}
		m.renderModel = render.Build(m.payload, m.settings)
		m.setInfo("Node size: " + string(m.settings.NodeSize))
		return m, nil, true

	case key.Matches(msg, m.keys.Width):
		m.settings.EdgeWeightWidth = !m.settings.EdgeWeightWidth
		m.renderModel = render.Build(m.payload, m.settings)
		if m.settings.EdgeWeightWidth {
			m.setInfo("Edge width follows weight")
		} else {
			m.setInfo("Edge width constant")
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Shade):
		m.settings.ShadeCommunity = !m.settings.ShadeCommunity
		m.renderModel = render.Build(m.payload, m.settings)
		if m.settings.ShadeCommunity {
			m.setInfo("Community shading on")
		} else {
			m.setInfo("Community shading off")
		}
		return m, nil, true

	case key.Matches(msg, m.keys.DegreeUp):
		m.settings.MinDegree++
		cmd := m.rebuildView(old)
		return m, cmd, true

	case key.Matches(msg, m.keys.DegreeDn):
		if m.settings.MinDegree > 0 {
			m.settings.MinDegree--
			cmd := m.rebuildView(old)
			return m, cmd, true
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Export):
		return m, exportGraphCmd(m.renderModel, m.positions), true

	case key.Matches(msg, m.keys.ClearSel):
		m.interact.ClearSelection()
		m.interact.ClearHighlights()
		m.lastSearch = interaction.SearchResult{}
		m.viewport = layout.FitViewport(m.positions, positionIDs(m.positions), graphCanvasWidth, graphCanvasHeight, 2)
		return m, nil, true

	case key.Matches(msg, m.keys.NextNode):
		m.stepSelection(1)
		return m, nil, true

	case key.Matches(msg, m.keys.PrevNode):
		m.stepSelection(-1)
		return m, nil, true
	}
	return m, nil, false
}

func (m appModel) submitChat() (tea.Model, tea.Cmd, bool) {
	question := strings.TrimSpace(m.chatInput.Value())
	if question == "" {
		return m, nil, true
	}
	if m.streaming {
		m.setError("An answer is already streaming")
		return m, nil, true
	}
	ids := m.selectedFileIDs()
	if len(ids) == 0 {
		m.setError("Select documents before asking")
		return m, nil, true
	}

	m.chatLog = append(m.chatLog, chatEntry{Role: "user", Text: question})
	m.chatInput.SetValue("")
	m.streaming = true

	session, startCmd := startChatCmd(m.svc, question, ids)
	m.chat = session
	return m, tea.Batch(startCmd, listenChatCmd(session)), true
}

// stepSelection cycles node selection in render order.
func (m *appModel) stepSelection(delta int) {
	if len(m.renderModel.Nodes) == 0 {
		return
	}
	idx := 0
	if id, ok := m.interact.SelectedNode(); ok {
		for i, n := range m.renderModel.Nodes {
			if n.ID == id {
				idx = (i + delta + len(m.renderModel.Nodes)) % len(m.renderModel.Nodes)
				break
			}
		}
	}
	m.interact.SelectNode(m.renderModel.Nodes[idx].ID)
}

func (m *appModel) switchView(v view) {
	m.currentView = v
	if v == chatView {
		m.chatInput.Focus()
	} else {
		m.chatInput.Blur()
	}
}

func (m *appModel) setInfo(s string) {
	m.message = s
	m.messageErr = false
}

func (m *appModel) setError(s string) {
	m.message = s
	m.messageErr = true
}

func (m *appModel) fileAtCursor() (model.FileInfo, bool) {
	i := m.fileTable.Cursor()
	if i < 0 || i >= len(m.files) {
		return model.FileInfo{}, false
	}
	return m.files[i], true
}

func (m *appModel) progressAtCursor() (model.IndexingProgress, bool) {
	i := m.indexTable.Cursor()
	if i < 0 || i >= len(m.fleet.Statuses) {
		return model.IndexingProgress{}, false
	}
	return m.fleet.Statuses[i], true
}

func (m *appModel) refreshFileTable() {
	rows := make([]table.Row, 0, len(m.files))
	for _, f := range m.files {
		mark := " "
		if m.selected[f.ID] {
			mark = "✓"
		}
		rows = append(rows, table.Row{
			mark,
			f.Filename,
			string(f.State),
			fmt.Sprintf("%d", f.Entities),
			fmt.Sprintf("%d", f.Relations),
		})
	}
	m.fileTable.SetRows(rows)
}

func (m *appModel) refreshIndexTable() {
	rows := make([]table.Row, 0, len(m.fleet.Statuses))
	for _, p := range m.fleet.Statuses {
		rows = append(rows, table.Row{
			p.FileID,
			string(p.State),
			p.CurrentStep,
			progressBar(p.Percent, 18),
		})
	}
	m.indexTable.SetRows(rows)
}

// refreshFileStates folds polled indexing states back into the file list so
// the Files tab reflects progress without its own fetch.
func (m *appModel) refreshFileStates() {
	byID := make(map[string]model.IndexingState, len(m.fleet.Statuses))
	for _, p := range m.fleet.Statuses {
		byID[p.FileID] = p.State
	}
	changed := false
	for i, f := range m.files {
		if state, ok := byID[f.ID]; ok && state != f.State {
			m.files[i].State = state
			changed = true
		}
	}
	if changed {
		m.refreshFileTable()
	}
}

func positionIDs(positions map[string]layout.Position) []string {
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	return ids
}

func nextLayout(a model.LayoutAlgorithm) model.LayoutAlgorithm {
	switch a {
	case model.LayoutForceDirected:
		return model.LayoutConstraint
	case model.LayoutConstraint:
		return model.LayoutCircular
	case model.LayoutCircular:
		return model.LayoutGrid
	default:
		return model.LayoutForceDirected
	}
}

func nextColorMode(c model.ColorMode) model.ColorMode {
	switch c {
	case model.ColorByType:
		return model.ColorByCommunity
	case model.ColorByCommunity:
		return model.ColorByDegree
	default:
		return model.ColorByType
	}
}
