package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/graphlens/graphlens/pkg/cache"
	"github.com/graphlens/graphlens/pkg/client"
	"github.com/graphlens/graphlens/pkg/config"
	"github.com/graphlens/graphlens/pkg/interaction"
	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/logging"
	"github.com/graphlens/graphlens/pkg/metrics"
	"github.com/graphlens/graphlens/pkg/model"
	"github.com/graphlens/graphlens/pkg/render"
	"github.com/graphlens/graphlens/pkg/statesync"
	"github.com/graphlens/graphlens/pkg/stats"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	canvasStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	filesView view = iota
	indexingView
	graphView
	chatView
	statsView

	viewCount
)

type keyMap struct {
	Tab       key.Binding
	ShiftTab  key.Binding
	Enter     key.Binding
	Space     key.Binding
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Search    key.Binding
	Layout    key.Binding
	Color     key.Binding
	Labels    key.Binding
	Size      key.Binding
	Width     key.Binding
	Shade     key.Binding
	DegreeUp  key.Binding
	DegreeDn  key.Binding
	Export    key.Binding
	Pause     key.Binding
	Retry     key.Binding
	Cancel    key.Binding
	Refresh   key.Binding
	ClearSel  key.Binding
	NextNode  key.Binding
	PrevNode  key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Space: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle file"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Layout: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "cycle layout"),
	),
	Color: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "cycle colors"),
	),
	Labels: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "toggle labels"),
	),
	Size: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "toggle node sizing"),
	),
	Width: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "toggle edge width"),
	),
	Shade: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "toggle community shading"),
	),
	DegreeUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "min degree up"),
	),
	DegreeDn: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "min degree down"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause polling"),
	),
	Retry: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "retry indexing"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "cancel indexing"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "refresh"),
	),
	ClearSel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear selection"),
	),
	NextNode: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next node"),
	),
	PrevNode: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "prev node"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Search, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter, k.Space},
		{k.Search, k.Layout, k.Color, k.Labels},
		{k.Size, k.Width, k.Shade, k.Export},
		{k.DegreeUp, k.DegreeDn, k.Pause, k.Refresh},
		{k.Retry, k.Cancel, k.ClearSel, k.Quit},
	}
}

type appModel struct {
	cfg      *config.Config
	logger   logging.Logger
	svc      *client.Client
	store    *cache.Store
	engine   *layout.Engine
	interact *interaction.Manager
	poller   *statesync.Poller[client.FleetStatus]
	trackers map[string]*statesync.Tracker
	chat     *chatSession

	currentView view
	keys        keyMap
	help        help.Model
	spin        spinner.Model
	fileTable   table.Model
	indexTable  table.Model
	searchInput textinput.Model
	chatInput   textinput.Model

	files     []model.FileInfo
	selected  map[string]bool
	fleet     client.FleetStatus
	lastPoll  time.Time
	pollErr   error

	payload     *model.GraphPayload
	renderModel *render.Model
	settings    model.ViewSettings
	positions   map[string]layout.Position
	viewport    layout.Viewport
	summary     stats.Summary
	fromCache   bool

	chatLog     []chatEntry
	chatPartial string
	streaming   bool

	searching  bool
	lastSearch interaction.SearchResult

	width      int
	height     int
	message    string
	messageErr bool
	loading    bool
	startTime  time.Time
}

type chatEntry struct {
	Role    string
	Text    string
	Sources []model.ChatSource
}

func initialModel(cfg *config.Config, logger logging.Logger) appModel {
	svc := client.NewClient(cfg.ServiceURL, logger)

	store, err := cache.NewStore(cfg.CacheDir, logger)
	if err != nil {
		logger.Warn("snapshot cache disabled", logging.Error(err))
	}

	engine := layout.NewEngine(layout.Config{
		Width:      cfg.Layout.Width,
		Height:     cfg.Layout.Height,
		Iterations: cfg.Layout.Iterations,
	}, logger)

	poller := statesync.NewPoller(svc.AllIndexingStatuses, cfg.PollInterval, logger)

	si := textinput.New()
	si.Placeholder = "search nodes..."
	si.CharLimit = 120
	si.Width = 40

	ci := textinput.New()
	ci.Placeholder = "ask about the selected documents..."
	ci.CharLimit = 500
	ci.Width = 70

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	ft := table.New(
		table.WithColumns([]table.Column{
			{Title: " ", Width: 3},
			{Title: "File", Width: 32},
			{Title: "Status", Width: 12},
			{Title: "Entities", Width: 9},
			{Title: "Relations", Width: 9},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	it := table.New(
		table.WithColumns([]table.Column{
			{Title: "File", Width: 30},
			{Title: "Status", Width: 12},
			{Title: "Step", Width: 24},
			{Title: "Progress", Width: 20},
		}),
		table.WithHeight(12),
	)
	for _, t := range []*table.Model{&ft, &it} {
		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(false)
		t.SetStyles(s)
	}

	return appModel{
		cfg:         cfg,
		logger:      logger,
		svc:         svc,
		store:       store,
		engine:      engine,
		interact:    interaction.NewManager(),
		poller:      poller,
		trackers:    make(map[string]*statesync.Tracker),
		currentView: filesView,
		keys:        keys,
		help:        help.New(),
		spin:        sp,
		fileTable:   ft,
		indexTable:  it,
		searchInput: si,
		chatInput:   ci,
		selected:    make(map[string]bool),
		settings:    model.DefaultViewSettings(),
		positions:   make(map[string]layout.Position),
		startTime:   time.Now(),
		loading:     true,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		loadFilesCmd(m.svc),
		waitPollCmd(m.poller),
		waitLayoutCmd(m.engine),
	)
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewDefaultLogger()
	logger.SetLevel(logging.ParseLevel(cfg.LogLevel))

	m := initialModel(cfg, logger)
	defer m.poller.Close()
	defer m.engine.Cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}

// rebuildView recomputes the render model from the current payload and
// settings, and restarts layout when the structural projection changed.
func (m *appModel) rebuildView(old model.ViewSettings) tea.Cmd {
	if m.payload == nil {
		return nil
	}
	m.renderModel = render.Build(m.payload, m.settings)
	m.summary = stats.Summarize(m.payload)
	metrics.DefaultRegistry().SetRenderModelSize(len(m.renderModel.Nodes), len(m.renderModel.Edges))
	if model.RebuildRequired(old, m.settings) {
		m.interact.FilterChanged()
		m.lastSearch = interaction.SearchResult{}
	}
	m.engine.Start(m.renderModel, m.settings.Layout)
	return nil
}

func (m *appModel) applyGraph(payload *model.GraphPayload, fromCache bool) {
	m.payload = payload
	m.fromCache = fromCache
	m.renderModel = render.Build(payload, m.settings)
	m.summary = stats.Summarize(payload)
	metrics.DefaultRegistry().SetRenderModelSize(len(m.renderModel.Nodes), len(m.renderModel.Edges))
	m.positions = make(map[string]layout.Position)
	m.interact.ClearSelection()
	m.interact.ClearHighlights()
	m.lastSearch = interaction.SearchResult{}
	m.engine.Start(m.renderModel, m.settings.Layout)
}

func (m *appModel) selectedFileIDs() []string {
	ids := make([]string, 0, len(m.selected))
	for _, f := range m.files {
		if m.selected[f.ID] {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

func (m *appModel) observeFleet(fleet client.FleetStatus) {
	m.fleet = fleet
	for _, p := range fleet.Statuses {
		t, ok := m.trackers[p.FileID]
		if !ok {
			t = statesync.NewTracker()
			m.trackers[p.FileID] = t
		}
		if err := t.Observe(p.State); err != nil {
			m.logger.Debug("ignoring out-of-order status",
				logging.FileID(p.FileID),
				logging.String("remote", string(p.State)),
				logging.String("local", string(t.State())))
		}
	}
}
