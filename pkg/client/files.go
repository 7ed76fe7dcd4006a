package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/graphlens/graphlens/pkg/logging"
	"github.com/graphlens/graphlens/pkg/model"
)

type fileListResponse struct {
	Files []model.FileInfo `json:"files"`
	Total int              `json:"total"`
}

// ListFiles returns the documents known to the service, newest first.
func (c *Client) ListFiles(ctx context.Context, page, perPage int) ([]model.FileInfo, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	query := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}

	var resp fileListResponse
	if err := c.doJSON(ctx, "ListFiles", http.MethodGet, "/api/files", query, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Files, resp.Total, nil
}

// UploadFile sends a document to the service and returns its metadata. The
// service queues it for indexing; progress is observed through
// IndexingStatus.
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader) (*model.FileInfo, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, model.NewServiceError("UploadFile", filename, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, model.NewServiceError("UploadFile", filename, err)
	}
	if err := writer.Close(); err != nil {
		return nil, model.NewServiceError("UploadFile", filename, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/files/upload", &buf)
	if err != nil {
		return nil, model.NewServiceError("UploadFile", filename, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.RecordServiceRequest("UploadFile", "transport_error", elapsed)
		return nil, model.NewServiceError("UploadFile", filename,
			fmt.Errorf("%w: %v", model.ErrTransport, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordServiceRequest("UploadFile", "error", elapsed)
		detail := readErrorDetail(resp.Body)
		return nil, &model.ServiceError{
			Op:     "UploadFile",
			Target: filename,
			Status: resp.StatusCode,
			Cause:  fmt.Errorf("%w: status %d: %s", model.ErrTransport, resp.StatusCode, detail),
		}
	}
	c.metrics.RecordServiceRequest("UploadFile", "ok", elapsed)

	var info model.FileInfo
	if err := decodeJSONBody(resp.Body, &info); err != nil {
		return nil, model.NewServiceError("UploadFile", filename, err)
	}

	c.logger.Info("file uploaded", logging.FileID(info.ID), logging.String("filename", filename))
	return &info, nil
}

// DeleteFile removes a document and its indexed data from the service.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return model.ErrEmptySelection
	}
	if err := c.doJSON(ctx, "DeleteFile", http.MethodDelete, "/api/files/"+fileID, nil, nil, nil); err != nil {
		return err
	}
	c.logger.Info("file deleted", logging.FileID(fileID))
	return nil
}
