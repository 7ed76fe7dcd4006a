package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/graphlens/graphlens/pkg/logging"
	"github.com/graphlens/graphlens/pkg/model"
)

// FetchGraph retrieves the entity/relationship/community payload for a set
// of documents. An empty document set short-circuits with ErrEmptySelection
// before any network call.
func (c *Client) FetchGraph(ctx context.Context, fileIDs []string) (*model.GraphPayload, error) {
	if len(fileIDs) == 0 {
		return nil, model.ErrEmptySelection
	}

	query := url.Values{}
	for _, id := range fileIDs {
		query.Add("file_ids", id)
	}

	var payload model.GraphPayload
	if err := c.doJSON(ctx, "FetchGraph", http.MethodGet, "/api/graph/data", query, nil, &payload); err != nil {
		return nil, err
	}

	c.logger.Debug("graph fetched",
		logging.Count(len(payload.Entities)),
		logging.Int("relationships", len(payload.Relationships)),
		logging.Int("communities", len(payload.Communities)))
	return &payload, nil
}

// GraphStats is the per-document statistics summary computed server-side.
type GraphStats struct {
	FileID        string         `json:"file_id"`
	Filename      string         `json:"filename"`
	Entities      int            `json:"entities_count"`
	Relationships int            `json:"relationships_count"`
	Communities   int            `json:"communities_count"`
	EntityTypes   map[string]int `json:"entity_types"`
	Density       float64        `json:"density"`
	AverageDegree float64        `json:"average_degree"`
}

// FetchGraphStats retrieves the statistics summary for one document.
func (c *Client) FetchGraphStats(ctx context.Context, fileID string) (*GraphStats, error) {
	if fileID == "" {
		return nil, model.ErrEmptySelection
	}
	var stats GraphStats
	if err := c.doJSON(ctx, "FetchGraphStats", http.MethodGet, "/api/graph/stats/"+fileID, nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
