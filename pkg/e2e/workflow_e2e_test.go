package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphlens/graphlens/pkg/cache"
	"github.com/graphlens/graphlens/pkg/client"
	"github.com/graphlens/graphlens/pkg/export"
	"github.com/graphlens/graphlens/pkg/interaction"
	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/model"
	"github.com/graphlens/graphlens/pkg/render"
	"github.com/graphlens/graphlens/pkg/statesync"
	"github.com/graphlens/graphlens/pkg/stats"
)

// TestCompleteExplorerWorkflow walks the full user journey against a fake
// indexing service: list files, watch indexing finish, load the graph, lay it
// out, search, ask a question over the stream, and export the result.
func TestCompleteExplorerWorkflow(t *testing.T) {
	server := startFakeService(t)
	defer server.Close()

	svc := client.NewClient(server.URL, nil)
	ctx := context.Background()

	t.Log("Step 1: Listing documents...")
	files, total, err := svc.ListFiles(ctx, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	assert.Equal(t, "notes.pdf", files[0].Filename)

	t.Log("Step 2: Observing indexing to completion...")
	tracker := statesync.NewTracker()
	fleet, err := svc.AllIndexingStatuses(ctx)
	require.NoError(t, err)
	for _, p := range fleet.Statuses {
		if p.FileID == "f1" {
			require.NoError(t, tracker.Observe(p.State))
		}
	}
	assert.Equal(t, model.StateCompleted, tracker.State())

	t.Log("Step 3: Loading the graph...")
	payload, err := svc.FetchGraph(ctx, []string{"f1", "f2"})
	require.NoError(t, err)
	require.Len(t, payload.Entities, 3)

	rm := render.Build(payload, model.DefaultViewSettings())
	require.Len(t, rm.Nodes, 3)
	require.Len(t, rm.Edges, 2)

	summary := stats.Summarize(payload)
	assert.Equal(t, 3, summary.Entities)
	assert.Equal(t, 2, summary.Relationships)

	t.Log("Step 4: Computing a layout...")
	engine := layout.NewEngine(layout.Config{Width: 800, Height: 600, Iterations: 30}, nil)
	engine.Start(rm, model.LayoutForceDirected)

	var result layout.Result
	select {
	case result = <-engine.Results():
	case <-time.After(5 * time.Second):
		t.Fatal("layout did not settle")
	}
	require.NoError(t, result.Err)
	require.Len(t, result.Positions, 3)

	t.Log("Step 5: Caching the snapshot...")
	store, err := cache.NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(&cache.Snapshot{
		FileIDs:   []string{"f1", "f2"},
		Payload:   payload,
		Positions: result.Positions,
		SavedAt:   time.Now(),
	}))
	snap, ok := store.Load([]string{"f2", "f1"}) // order must not matter
	require.True(t, ok)
	assert.Len(t, snap.Positions, 3)

	t.Log("Step 6: Searching and selecting...")
	im := interaction.NewManager()
	res := im.Search(rm, "alice")
	require.Equal(t, 1, res.Count)
	im.SelectNode(res.MatchIDs[0])
	selected, ok := im.SelectedNode()
	require.True(t, ok)
	assert.Equal(t, "e1", selected)

	t.Log("Step 7: Asking a question over the stream...")
	stream, err := svc.StreamChat(ctx, client.ChatQuery{
		Message: "who works at acme?",
		Mode:    model.ChatLocal,
		FileIDs: []string{"f1"},
	})
	require.NoError(t, err)
	defer stream.Close()

	outcome := statesync.Consume(stream, nil)
	require.NoError(t, outcome.Err)
	assert.Equal(t, "Alice works at Acme.", outcome.Message)
	require.Len(t, outcome.Sources, 1)

	t.Log("Step 8: Exporting...")
	jsonDoc, err := export.JSON(rm, result.Positions)
	require.NoError(t, err)
	assert.Contains(t, string(jsonDoc), "Alice")

	xmlDoc, err := export.GraphML(rm, result.Positions)
	require.NoError(t, err)
	assert.Contains(t, string(xmlDoc), `<node id="e1"`)
}

func startFakeService(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/files", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"files": [
			{"id": "f1", "filename": "notes.pdf", "status": "completed"},
			{"id": "f2", "filename": "paper.pdf", "status": "completed"}
		], "total": 2}`)
	})
	mux.HandleFunc("/api/indexing/status", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"statuses": [
			{"file_id": "f1", "status": "completed", "progress_percentage": 100},
			{"file_id": "f2", "status": "completed", "progress_percentage": 100}
		], "total": 2, "active_indexing": 0, "completed": 2, "errors": 0}`)
	})
	mux.HandleFunc("/api/graph/data", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"entities": [
				{"id": "e1", "name": "Alice", "type": "person", "degree": 2},
				{"id": "e2", "name": "Acme", "type": "organization", "degree": 1},
				{"id": "e3", "name": "Berlin", "type": "location", "degree": 1}
			],
			"relationships": [
				{"id": "r1", "source_id": "e1", "target_id": "e2", "relationship_type": "works_at", "weight": 1.0},
				{"id": "r2", "source_id": "e1", "target_id": "e3", "relationship_type": "lives_in", "weight": 0.6}
			],
			"communities": []
		}`)
	})
	mux.HandleFunc("/api/chat/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"chunk_id\": \"1\", \"content\": \"Alice works \", \"is_final\": false}\n\n")
		fmt.Fprint(w, "data: {\"chunk_id\": \"2\", \"content\": \"at Acme.\", \"is_final\": false}\n\n")
		fmt.Fprint(w, "data: {\"chunk_id\": \"3\", \"content\": \"\", \"is_final\": true, \"sources\": [{\"file_id\": \"f1\", \"filename\": \"notes.pdf\"}]}\n\n")
	})

	return httptest.NewServer(mux)
}
