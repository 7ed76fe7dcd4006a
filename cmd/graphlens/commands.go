package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/graphlens/graphlens/pkg/cache"
	"github.com/graphlens/graphlens/pkg/client"
	"github.com/graphlens/graphlens/pkg/export"
	"github.com/graphlens/graphlens/pkg/layout"
	"github.com/graphlens/graphlens/pkg/model"
	"github.com/graphlens/graphlens/pkg/render"
	"github.com/graphlens/graphlens/pkg/statesync"
)

const requestTimeout = 30 * time.Second

type filesLoadedMsg struct {
	files []model.FileInfo
	total int
	err   error
}

type graphLoadedMsg struct {
	payload   *model.GraphPayload
	fromCache bool
	err       error
}

type layoutMsg layout.Result

type pollMsg statesync.Update[client.FleetStatus]

type actionDoneMsg struct {
	action string
	fileID string
	err    error
}

type exportDoneMsg struct {
	paths []string
	note  string
	err   error
}

type chatPartialMsg string

type chatDoneMsg statesync.Outcome

func loadFilesCmd(svc *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		files, total, err := svc.ListFiles(ctx, 1, 100)
		return filesLoadedMsg{files: files, total: total, err: err}
	}
}

// loadGraphCmd fetches the merged graph for the selected documents, falling
// back to the local snapshot when the service is unreachable. A fresh fetch
// is seeded with cached positions when the cache holds the same selection.
func loadGraphCmd(svc *client.Client, store *cache.Store, fileIDs []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		payload, err := svc.FetchGraph(ctx, fileIDs)
		if err != nil {
			if store != nil && model.IsRetriable(err) {
				if snap, ok := store.Load(fileIDs); ok {
					cache.SeedPayload(snap.Payload, snap.Positions)
					return graphLoadedMsg{payload: snap.Payload, fromCache: true}
				}
			}
			return graphLoadedMsg{err: err}
		}

		if store != nil {
			if snap, ok := store.Load(fileIDs); ok {
				cache.SeedPayload(payload, snap.Positions)
			}
		}
		return graphLoadedMsg{payload: payload}
	}
}

func saveSnapshotCmd(store *cache.Store, fileIDs []string, payload *model.GraphPayload, positions map[string]layout.Position) tea.Cmd {
	if store == nil || payload == nil {
		return nil
	}
	return func() tea.Msg {
		_ = store.Save(&cache.Snapshot{
			FileIDs:   fileIDs,
			Payload:   payload,
			Positions: positions,
			SavedAt:   time.Now(),
		})
		return nil
	}
}

func waitLayoutCmd(engine *layout.Engine) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-engine.Results()
		if !ok {
			return nil
		}
		return layoutMsg(r)
	}
}

func waitPollCmd(poller *statesync.Poller[client.FleetStatus]) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-poller.Updates()
		if !ok {
			return nil
		}
		return pollMsg(u)
	}
}

func cancelIndexingCmd(svc *client.Client, fileID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := svc.CancelIndexing(ctx, fileID)
		return actionDoneMsg{action: "cancel", fileID: fileID, err: err}
	}
}

func retryIndexingCmd(svc *client.Client, fileID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := svc.RetryIndexing(ctx, fileID)
		return actionDoneMsg{action: "retry", fileID: fileID, err: err}
	}
}

// exportGraphCmd writes json, graphml and html exports next to each other in
// the working directory, stamped with the export time. The png snapshot is
// best-effort: it needs a Chrome binary on the host, and its absence must not
// fail the other formats.
func exportGraphCmd(m *render.Model, positions map[string]layout.Position) tea.Cmd {
	return func() tea.Msg {
		stamp := time.Now().Format("20060102-150405")
		base := filepath.Join(".", "graphlens-"+stamp)

		jsonDoc, err := export.JSON(m, positions)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := os.WriteFile(base+".json", jsonDoc, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}

		xmlDoc, err := export.GraphML(m, positions)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := os.WriteFile(base+".graphml", xmlDoc, 0o644); err != nil {
			return exportDoneMsg{err: err}
		}

		if err := export.HTMLFile(base+".html", m, positions, "graphlens export"); err != nil {
			return exportDoneMsg{err: err}
		}

		paths := []string{base + ".json", base + ".graphml", base + ".html"}
		msg := exportDoneMsg{paths: paths}
		if err := export.PNGFile(context.Background(), base+".png", m, positions, "graphlens export"); err != nil {
			msg.note = "png snapshot skipped (needs Chrome): " + err.Error()
		} else {
			msg.paths = append(msg.paths, base+".png")
		}
		return msg
	}
}

// chatSession carries one in-flight streamed answer. The consuming goroutine
// pushes accumulated partials as they arrive and the outcome once the stream
// ends; the event loop drains both through listen commands.
type chatSession struct {
	partials chan string
	done     chan statesync.Outcome
}

func startChatCmd(svc *client.Client, question string, fileIDs []string) (*chatSession, tea.Cmd) {
	session := &chatSession{
		partials: make(chan string, 8),
		done:     make(chan statesync.Outcome, 1),
	}

	cmd := func() tea.Msg {
		stream, err := svc.StreamChat(context.Background(), client.ChatQuery{
			Message: question,
			Mode:    model.ChatLocal,
			FileIDs: fileIDs,
			Stream:  true,
		})
		if err != nil {
			session.done <- statesync.Outcome{Err: err}
			close(session.partials)
			return nil
		}
		defer stream.Close()

		outcome := statesync.Consume(stream, func(partial string) {
			select {
			case session.partials <- partial:
			default:
			}
		})
		session.done <- outcome
		close(session.partials)
		return nil
	}

	return session, cmd
}

func listenChatCmd(session *chatSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case outcome := <-session.done:
			return chatDoneMsg(outcome)
		case partial, ok := <-session.partials:
			if !ok {
				return chatDoneMsg(<-session.done)
			}
			return chatPartialMsg(partial)
		}
	}
}
