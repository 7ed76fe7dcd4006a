package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/graphlens/graphlens/pkg/model"
	"github.com/graphlens/graphlens/pkg/statesync"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, nil), srv
}

func TestFetchGraph(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/graph/data" {
			t.Errorf("path = %s", r.URL.Path)
		}
		ids := r.URL.Query()["file_ids"]
		if len(ids) != 2 || ids[0] != "f1" || ids[1] != "f2" {
			t.Errorf("file_ids = %v", ids)
		}
		fmt.Fprint(w, `{
			"entities": [
				{"id": "e1", "name": "Alice", "type": "person", "degree": 1},
				{"id": "e2", "name": "Acme", "type": "organization", "degree": 1}
			],
			"relationships": [
				{"id": "r1", "source_id": "e1", "target_id": "e2", "relationship_type": "works_at", "weight": 0.8}
			],
			"communities": []
		}`)
	}))

	payload, err := c.FetchGraph(context.Background(), []string{"f1", "f2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(payload.Entities) != 2 || len(payload.Relationships) != 1 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Relationships[0].Type != "works_at" {
		t.Errorf("relationship type = %q", payload.Relationships[0].Type)
	}
}

func TestFetchGraphEmptySelection(t *testing.T) {
	called := false
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := c.FetchGraph(context.Background(), nil)
	if !errors.Is(err, model.ErrEmptySelection) {
		t.Fatalf("err = %v, want ErrEmptySelection", err)
	}
	if called {
		t.Error("empty selection must short-circuit before the network")
	}
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "file not found"}`, http.StatusNotFound)
	}))

	_, err := c.IndexingStatus(context.Background(), "ghost")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	var svcErr *model.ServiceError
	if !errors.As(err, &svcErr) || svcErr.Status != http.StatusNotFound {
		t.Errorf("expected a ServiceError with status 404, got %v", err)
	}
}

func TestServerErrorIsTransport(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "index corrupted"}`, http.StatusInternalServerError)
	}))

	_, err := c.AllIndexingStatuses(context.Background())
	if !errors.Is(err, model.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
	if !model.IsRetriable(err) {
		t.Error("server errors should be retriable")
	}
}

func TestUnreachableServiceIsTransport(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil)

	_, err := c.AllIndexingStatuses(context.Background())
	if !errors.Is(err, model.ErrTransport) {
		t.Fatalf("err = %v, want ErrTransport", err)
	}
}

func TestAllIndexingStatuses(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/indexing/status" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"statuses": [
				{"file_id": "f1", "status": "indexing", "current_step": "entity extraction", "progress_percentage": 40.0},
				{"file_id": "f2", "status": "completed", "progress_percentage": 100.0}
			],
			"total": 2, "active_indexing": 1, "completed": 1, "errors": 0
		}`)
	}))

	fleet, err := c.AllIndexingStatuses(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if fleet.Total != 2 || fleet.ActiveIndexing != 1 {
		t.Errorf("fleet = %+v", fleet)
	}
	if fleet.Statuses[0].State != model.StateIndexing {
		t.Errorf("state = %s", fleet.Statuses[0].State)
	}
}

func TestCancelAndRetryIndexing(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		fmt.Fprint(w, `{"message": "ok"}`)
	}))

	if err := c.CancelIndexing(context.Background(), "f1"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/indexing/cancel/f1" {
		t.Errorf("cancel sent %s %s", gotMethod, gotPath)
	}

	if err := c.RetryIndexing(context.Background(), "f1"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/indexing/retry/f1" {
		t.Errorf("retry sent %s %s", gotMethod, gotPath)
	}
}

func TestStreamChat(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/stream" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != "text/event-stream" {
			t.Errorf("Accept = %q", accept)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"chunk_id\": \"1\", \"content\": \"Hel\", \"is_final\": false}\n\n")
		fmt.Fprint(w, "data: {\"chunk_id\": \"2\", \"content\": \"lo\", \"is_final\": false}\n\n")
		fmt.Fprint(w, "data: {\"chunk_id\": \"3\", \"content\": \"\", \"is_final\": true, \"sources\": [{\"file_id\": \"f1\", \"filename\": \"doc.pdf\"}]}\n\n")
	}))

	stream, err := c.StreamChat(context.Background(), ChatQuery{
		Message: "who is alice?",
		Mode:    model.ChatLocal,
		FileIDs: []string{"f1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	outcome := statesync.Consume(stream, nil)
	if outcome.Err != nil {
		t.Fatalf("consume: %v", outcome.Err)
	}
	if outcome.Message != "Hello" {
		t.Errorf("message = %q", outcome.Message)
	}
	if len(outcome.Sources) != 1 || outcome.Sources[0].Filename != "doc.pdf" {
		t.Errorf("sources = %+v", outcome.Sources)
	}
}

func TestStreamChatEmptySelection(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil)
	_, err := c.StreamChat(context.Background(), ChatQuery{Message: "hi", Mode: model.ChatLocal})
	if !errors.Is(err, model.ErrEmptySelection) {
		t.Fatalf("err = %v, want ErrEmptySelection", err)
	}

	// Global mode needs no selection; it fails on transport instead.
	_, err = c.StreamChat(context.Background(), ChatQuery{Message: "hi", Mode: model.ChatGlobal})
	if errors.Is(err, model.ErrEmptySelection) {
		t.Error("global mode must not require a selection")
	}
}

func TestListFiles(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %s", got)
		}
		fmt.Fprint(w, `{
			"files": [
				{"id": "f1", "filename": "notes.pdf", "status": "completed", "entities_count": 12}
			],
			"total": 41
		}`)
	}))

	files, total, err := c.ListFiles(context.Background(), 2, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 41 || len(files) != 1 || files[0].Filename != "notes.pdf" {
		t.Errorf("files = %+v total = %d", files, total)
	}
}
