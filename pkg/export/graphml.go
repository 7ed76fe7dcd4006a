package export

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/render"
)

const graphmlNS = "http://graphml.graphdrawing.org/xmlns"

type graphmlKey struct {
	XMLName  xml.Name `xml:"key"`
	ID       string   `xml:"id,attr"`
	For      string   `xml:"for,attr"`
	AttrName string   `xml:"attr.name,attr"`
	AttrType string   `xml:"attr.type,attr"`
}

type graphmlData struct {
	XMLName xml.Name `xml:"data"`
	Key     string   `xml:"key,attr"`
	Value   string   `xml:",chardata"`
}

type graphmlNode struct {
	XMLName xml.Name      `xml:"node"`
	ID      string        `xml:"id,attr"`
	Data    []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	XMLName xml.Name      `xml:"edge"`
	ID      string        `xml:"id,attr"`
	Source  string        `xml:"source,attr"`
	Target  string        `xml:"target,attr"`
	Data    []graphmlData `xml:"data"`
}

type graphmlGraph struct {
	XMLName     xml.Name      `xml:"graph"`
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlDoc struct {
	XMLName xml.Name `xml:"graphml"`
	XMLNS   string   `xml:"xmlns,attr"`
	Keys    []graphmlKey
	Graph   graphmlGraph
}

// GraphML serializes the render model as a GraphML document. Node attributes
// cover name, type, community, degree and position; edges carry type and
// weight. Edges are emitted undirected, matching how layouts treat them.
func GraphML(m *render.Model, positions map[string]layout.Position) ([]byte, error) {
	doc := graphmlDoc{
		XMLNS: graphmlNS,
		Keys: []graphmlKey{
			{ID: "name", For: "node", AttrName: "name", AttrType: "string"},
			{ID: "type", For: "node", AttrName: "type", AttrType: "string"},
			{ID: "community", For: "node", AttrName: "community", AttrType: "string"},
			{ID: "degree", For: "node", AttrName: "degree", AttrType: "int"},
			{ID: "x", For: "node", AttrName: "x", AttrType: "double"},
			{ID: "y", For: "node", AttrName: "y", AttrType: "double"},
			{ID: "reltype", For: "edge", AttrName: "type", AttrType: "string"},
			{ID: "weight", For: "edge", AttrName: "weight", AttrType: "double"},
		},
		Graph: graphmlGraph{ID: "G", EdgeDefault: "undirected"},
	}

	for _, n := range m.Nodes {
		pos := positions[n.ID]
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID: n.ID,
			Data: []graphmlData{
				{Key: "name", Value: n.Name},
				{Key: "type", Value: string(n.Type)},
				{Key: "community", Value: n.CommunityID},
				{Key: "degree", Value: fmt.Sprintf("%d", n.Degree)},
				{Key: "x", Value: fmt.Sprintf("%g", pos.X)},
				{Key: "y", Value: fmt.Sprintf("%g", pos.Y)},
			},
		})
	}

	for _, e := range m.Edges {
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			ID:     e.ID,
			Source: e.SourceID,
			Target: e.TargetID,
			Data: []graphmlData{
				{Key: "reltype", Value: e.Type},
				{Key: "weight", Value: fmt.Sprintf("%g", e.Weight)},
			},
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding graphml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
