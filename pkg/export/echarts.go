package export

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/render"
)

// HTML renders the graph as a self-contained interactive echarts page.
// Settled layout positions pin the nodes so the page shows the same
// arrangement as the viewer; when a node has no position the chart's own
// force simulation places it.
func HTML(w io.Writer, m *render.Model, positions map[string]layout.Position, title string) error {
	page := components.NewPage()
	page.AddCharts(graphChart(m, positions, title))
	return page.Render(w)
}

// HTMLFile renders the chart to the named file.
func HTMLFile(filename string, m *render.Model, positions map[string]layout.Position, title string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer f.Close()
	return HTML(f, m, positions, title)
}

func graphChart(m *render.Model, positions map[string]layout.Position, title string) *charts.Graph {
	nodes := make([]opts.GraphNode, 0, len(m.Nodes))
	for _, n := range m.Nodes {
		gn := opts.GraphNode{
			Name:       n.Name,
			Value:      float32(n.Degree),
			SymbolSize: float32(n.Size),
			ItemStyle:  &opts.ItemStyle{Color: n.Color},
		}
		if pos, ok := positions[n.ID]; ok {
			gn.X = float32(pos.X)
			gn.Y = float32(pos.Y)
		}
		nodes = append(nodes, gn)
	}

	links := make([]opts.GraphLink, 0, len(m.Edges))
	for _, e := range m.Edges {
		src, _ := m.Node(e.SourceID)
		dst, _ := m.Node(e.TargetID)
		links = append(links, opts.GraphLink{
			Source: src.Name,
			Target: dst.Name,
			Value:  float32(e.Weight),
		})
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	graph.AddSeries(
		"graph",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:    "none",
				Draggable: opts.Bool(true),
				Roam:      opts.Bool(true),
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "top",
		}),
	)
	return graph
}
