package statesync

import (
	"errors"
	"io"
	"strings"

	"github.com/graphlens/graphlens/pkg/metrics"
	"github.com/graphlens/graphlens/pkg/model"
)

// ChunkStream is an ordered, finite sequence of stream chunks. Recv returns
// io.EOF after the final chunk has been delivered.
type ChunkStream interface {
	Recv() (model.StreamChunk, error)
}

// Outcome is the result of consuming a chat stream to completion. On error
// the partial accumulation is discarded: Message is empty and Err explains
// what happened. Partial assistant output is never committed.
type Outcome struct {
	Message string
	Sources []model.ChatSource
	Err     error
}

// Accumulator folds stream chunks into a single growing message.
type Accumulator struct {
	builder strings.Builder
	sources []model.ChatSource
	final   bool
}

// Apply folds one chunk. It returns true once the final marker has been
// seen; an error chunk aborts with the server-reported message.
func (a *Accumulator) Apply(c model.StreamChunk) (bool, error) {
	if c.Error != "" {
		return false, model.NewServiceError("StreamChat", c.ChunkID, errors.New(c.Error))
	}
	a.builder.WriteString(c.Content)
	if c.IsFinal {
		a.sources = c.Sources
		a.final = true
	}
	return a.final, nil
}

// Message returns the accumulated text so far. Useful for incremental
// display while the stream is still running.
func (a *Accumulator) Message() string {
	return a.builder.String()
}

// Sources returns the citations carried by the final marker.
func (a *Accumulator) Sources() []model.ChatSource {
	return a.sources
}

// Consume drains a chunk stream into an Outcome. onFragment, if non-nil, is
// invoked with the growing partial text after every content chunk so a live
// view can render it; the partial is advisory and is discarded on error.
func Consume(stream ChunkStream, onFragment func(partial string)) Outcome {
	var acc Accumulator
	reg := metrics.DefaultRegistry()
	fragments := 0

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			if acc.final {
				reg.RecordStream("ok", fragments)
				return Outcome{Message: acc.Message(), Sources: acc.Sources()}
			}
			// Stream ended without a final marker.
			reg.RecordStream("aborted", fragments)
			return Outcome{Err: model.ErrStreamAborted}
		}
		if err != nil {
			reg.RecordStream("transport_error", fragments)
			return Outcome{Err: model.NewServiceError("StreamChat", "", err)}
		}

		done, err := acc.Apply(chunk)
		if err != nil {
			reg.RecordStream("error", fragments)
			return Outcome{Err: err}
		}
		fragments++
		if onFragment != nil && chunk.Content != "" {
			onFragment(acc.Message())
		}
		if done {
			reg.RecordStream("ok", fragments)
			return Outcome{Message: acc.Message(), Sources: acc.Sources()}
		}
	}
}
