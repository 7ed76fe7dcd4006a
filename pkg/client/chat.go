package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/graphlens/graphlens/pkg/logging"
	"github.com/graphlens/graphlens/pkg/model"
)

// ChatQuery is a question posed against the indexed corpus.
type ChatQuery struct {
	Message        string         `json:"message"`
	Mode           model.ChatMode `json:"mode"`
	FileIDs        []string       `json:"file_ids"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Stream         bool           `json:"stream"`
}

// ChatStream reads server-sent chat chunks. Recv returns io.EOF once the
// server closes the stream. Close must be called to release the connection.
type ChatStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	cancel  context.CancelFunc
}

// StreamChat opens a streaming chat request. Local mode requires at least
// one document id; a missing conversation id is generated client-side.
func (c *Client) StreamChat(ctx context.Context, query ChatQuery) (*ChatStream, error) {
	if query.Mode == model.ChatLocal && len(query.FileIDs) == 0 {
		return nil, model.ErrEmptySelection
	}
	if query.ConversationID == "" {
		query.ConversationID = uuid.NewString()
	}
	query.Stream = true

	data, err := json.Marshal(query)
	if err != nil {
		return nil, model.NewServiceError("StreamChat", query.ConversationID, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/stream", bytes.NewReader(data))
	if err != nil {
		cancel()
		return nil, model.NewServiceError("StreamChat", query.ConversationID, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	// Streams outlive the default request timeout.
	httpClient := &http.Client{Transport: c.http.Transport, Timeout: 0}
	resp, err := httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, model.NewServiceError("StreamChat", query.ConversationID,
			fmt.Errorf("%w: %v", model.ErrTransport, err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readErrorDetail(resp.Body)
		resp.Body.Close()
		cancel()
		return nil, &model.ServiceError{
			Op:     "StreamChat",
			Target: query.ConversationID,
			Status: resp.StatusCode,
			Cause:  fmt.Errorf("%w: status %d: %s", model.ErrTransport, resp.StatusCode, detail),
		}
	}

	c.logger.Debug("chat stream opened", logging.ConversationID(query.ConversationID))

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ChatStream{body: resp.Body, scanner: scanner, cancel: cancel}, nil
}

// Recv returns the next chunk. Frames arrive as SSE lines of the form
// "data: {json}"; blank keep-alive lines are skipped.
func (s *ChatStream) Recv() (model.StreamChunk, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}

		var chunk model.StreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return model.StreamChunk{}, fmt.Errorf("%w: malformed frame: %v", model.ErrTransport, err)
		}
		return chunk, nil
	}

	if err := s.scanner.Err(); err != nil {
		return model.StreamChunk{}, fmt.Errorf("%w: %v", model.ErrTransport, err)
	}
	return model.StreamChunk{}, io.EOF
}

// Close aborts the stream and releases the connection.
func (s *ChatStream) Close() error {
	s.cancel()
	return s.body.Close()
}

// ChatOnce performs a non-streaming chat query.
type ChatAnswer struct {
	MessageID      string             `json:"message_id"`
	Response       string             `json:"response"`
	Mode           model.ChatMode     `json:"mode"`
	Sources        []model.ChatSource `json:"sources"`
	ProcessingTime float64            `json:"processing_time"`
	ConversationID string             `json:"conversation_id"`
}

// ChatOnce asks a question and waits for the complete answer.
func (c *Client) ChatOnce(ctx context.Context, query ChatQuery) (*ChatAnswer, error) {
	if query.Mode == model.ChatLocal && len(query.FileIDs) == 0 {
		return nil, model.ErrEmptySelection
	}
	if query.ConversationID == "" {
		query.ConversationID = uuid.NewString()
	}
	query.Stream = false

	start := time.Now()
	var answer ChatAnswer
	if err := c.doJSON(ctx, "ChatOnce", http.MethodPost, "/api/chat/query", nil, query, &answer); err != nil {
		return nil, err
	}
	c.logger.Debug("chat answered",
		logging.ConversationID(answer.ConversationID),
		logging.Latency(time.Since(start)))
	return &answer, nil
}
