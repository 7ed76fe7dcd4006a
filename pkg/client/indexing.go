package client

import (
	"context"
	"net/http"

	"github.com/graphlens/graphlens/pkg/logging"
	"github.com/graphlens/graphlens/pkg/model"
)

// IndexingStatus polls the indexing progress of one document.
func (c *Client) IndexingStatus(ctx context.Context, fileID string) (model.IndexingProgress, error) {
	var progress model.IndexingProgress
	if fileID == "" {
		return progress, model.ErrEmptySelection
	}
	err := c.doJSON(ctx, "IndexingStatus", http.MethodGet, "/api/indexing/status/"+fileID, nil, nil, &progress)
	return progress, err
}

// FleetStatus is the all-targets view of indexing progress.
type FleetStatus struct {
	Statuses       []model.IndexingProgress `json:"statuses"`
	Total          int                      `json:"total"`
	ActiveIndexing int                      `json:"active_indexing"`
	Completed      int                      `json:"completed"`
	Errors         int                      `json:"errors"`
}

// AllIndexingStatuses polls indexing progress across every known document.
func (c *Client) AllIndexingStatuses(ctx context.Context) (FleetStatus, error) {
	var fleet FleetStatus
	err := c.doJSON(ctx, "AllIndexingStatuses", http.MethodGet, "/api/indexing/status", nil, nil, &fleet)
	return fleet, err
}

// CancelIndexing asks the service to stop indexing a document. The request
// is one-way: callers transition local state to Cancelled only after this
// returns without error, not on submission.
func (c *Client) CancelIndexing(ctx context.Context, fileID string) error {
	if fileID == "" {
		return model.ErrEmptySelection
	}
	if err := c.doJSON(ctx, "CancelIndexing", http.MethodDelete, "/api/indexing/cancel/"+fileID, nil, nil, nil); err != nil {
		return err
	}
	c.logger.Info("indexing cancelled", logging.FileID(fileID))
	return nil
}

// RetryIndexing restarts indexing for a document that errored or was
// cancelled.
func (c *Client) RetryIndexing(ctx context.Context, fileID string) error {
	if fileID == "" {
		return model.ErrEmptySelection
	}
	if err := c.doJSON(ctx, "RetryIndexing", http.MethodPost, "/api/indexing/retry/"+fileID, nil, nil, nil); err != nil {
		return err
	}
	c.logger.Info("indexing retried", logging.FileID(fileID))
	return nil
}
