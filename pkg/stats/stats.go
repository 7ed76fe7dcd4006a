// Package stats computes summary statistics over a graph payload: type
// histograms, density, and average degree.
package stats

import "github.com/graphlens/graphlens/pkg/model"

// Summary describes the shape of one loaded graph.
type Summary struct {
	Entities      int
	Relationships int
	Communities   int
	EntityTypes   map[string]int
	RelationTypes map[string]int
	Density       float64
	AverageDegree float64
	MaxDegree     int
}

// Summarize computes a Summary for the payload. An empty payload yields the
// zero summary with empty histograms.
func Summarize(payload *model.GraphPayload) Summary {
	s := Summary{
		EntityTypes:   make(map[string]int),
		RelationTypes: make(map[string]int),
	}
	if payload == nil {
		return s
	}

	s.Entities = len(payload.Entities)
	s.Relationships = len(payload.Relationships)
	s.Communities = len(payload.Communities)

	for _, e := range payload.Entities {
		s.EntityTypes[string(model.NormalizeEntityType(e.Type))]++
		if e.Degree > s.MaxDegree {
			s.MaxDegree = e.Degree
		}
	}
	for _, r := range payload.Relationships {
		s.RelationTypes[r.Type]++
	}

	n := float64(s.Entities)
	e := float64(s.Relationships)
	if s.Entities > 1 {
		s.Density = 2 * e / (n * (n - 1))
	}
	if s.Entities > 0 {
		s.AverageDegree = 2 * e / n
	}
	return s
}
