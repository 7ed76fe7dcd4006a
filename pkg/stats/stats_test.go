package stats

import (
	"math"
	"testing"

	"github.com/graphlens/graphlens/pkg/model"
)

func TestSummarize(t *testing.T) {
	payload := &model.GraphPayload{
		Entities: []model.Entity{
			{ID: "e1", Type: "person", Degree: 2},
			{ID: "e2", Type: "person", Degree: 1},
			{ID: "e3", Type: "martian", Degree: 5},
			{ID: "e4", Type: "concept", Degree: 0},
		},
		Relationships: []model.Relationship{
			{ID: "r1", Type: "knows"},
			{ID: "r2", Type: "knows"},
			{ID: "r3", Type: "mentions"},
		},
		Communities: []model.Community{{ID: "c1"}},
	}

	s := Summarize(payload)

	if s.Entities != 4 || s.Relationships != 3 || s.Communities != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if s.MaxDegree != 5 {
		t.Errorf("MaxDegree = %d", s.MaxDegree)
	}
	if s.EntityTypes["person"] != 2 || s.EntityTypes["concept"] != 1 {
		t.Errorf("EntityTypes = %v", s.EntityTypes)
	}
	// Unknown types are normalized into the default bucket.
	if s.EntityTypes["default"] != 1 {
		t.Errorf("EntityTypes = %v", s.EntityTypes)
	}
	if s.RelationTypes["knows"] != 2 {
		t.Errorf("RelationTypes = %v", s.RelationTypes)
	}

	// density = 2e / (n(n-1)) = 6/12; avg degree = 2e/n = 6/4.
	if math.Abs(s.Density-0.5) > 1e-9 {
		t.Errorf("Density = %f", s.Density)
	}
	if math.Abs(s.AverageDegree-1.5) > 1e-9 {
		t.Errorf("AverageDegree = %f", s.AverageDegree)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	for _, payload := range []*model.GraphPayload{nil, {}} {
		s := Summarize(payload)
		if s.Entities != 0 || s.Density != 0 || s.AverageDegree != 0 {
			t.Errorf("empty summary = %+v", s)
		}
		if s.EntityTypes == nil {
			t.Error("histograms should be empty, not nil")
		}
	}
}

func TestSummarizeSingleEntity(t *testing.T) {
	s := Summarize(&model.GraphPayload{
		Entities: []model.Entity{{ID: "e1", Type: "person"}},
	})
	// Density is undefined for a single node and reported as zero.
	if s.Density != 0 {
		t.Errorf("Density = %f", s.Density)
	}
}
