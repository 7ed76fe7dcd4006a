package statesync

import (
	"errors"
	"io"
	"testing"

	"github.com/graphlens/graphlens/pkg/model"
)

// sliceStream replays a fixed chunk sequence, then EOF.
type sliceStream struct {
	chunks []model.StreamChunk
	pos    int
}

func (s *sliceStream) Recv() (model.StreamChunk, error) {
	if s.pos >= len(s.chunks) {
		return model.StreamChunk{}, io.EOF
	}
	c := s.chunks[s.pos]
	s.pos++
	return c, nil
}

func TestConsumeAccumulates(t *testing.T) {
	stream := &sliceStream{chunks: []model.StreamChunk{
		{ChunkID: "1", Content: "Hel"},
		{ChunkID: "2", Content: "lo"},
		{ChunkID: "3", IsFinal: true, Sources: []model.ChatSource{{Filename: "doc.pdf"}}},
	}}

	var partials []string
	outcome := Consume(stream, func(partial string) {
		partials = append(partials, partial)
	})

	if outcome.Err != nil {
		t.Fatalf("unexpected error: %v", outcome.Err)
	}
	if outcome.Message != "Hello" {
		t.Errorf("message = %q, want Hello", outcome.Message)
	}
	if len(outcome.Sources) != 1 || outcome.Sources[0].Filename != "doc.pdf" {
		t.Errorf("sources = %+v", outcome.Sources)
	}
	// The fragment callback sees the prefix sequence, never the final
	// content-free marker.
	if len(partials) != 2 || partials[0] != "Hel" || partials[1] != "Hello" {
		t.Errorf("partials = %v", partials)
	}
}

func TestConsumeErrorChunkDiscardsPartial(t *testing.T) {
	stream := &sliceStream{chunks: []model.StreamChunk{
		{ChunkID: "1", Content: "partial answer"},
		{ChunkID: "2", Error: "model overloaded"},
	}}

	outcome := Consume(stream, nil)

	if outcome.Err == nil {
		t.Fatal("error chunk should abort the stream")
	}
	if outcome.Message != "" {
		t.Errorf("partial output must be discarded, got %q", outcome.Message)
	}
}

func TestConsumeTruncatedStream(t *testing.T) {
	// EOF before the final marker means the answer is incomplete.
	stream := &sliceStream{chunks: []model.StreamChunk{
		{ChunkID: "1", Content: "half an ans"},
	}}

	outcome := Consume(stream, nil)

	if !errors.Is(outcome.Err, model.ErrStreamAborted) {
		t.Fatalf("err = %v, want ErrStreamAborted", outcome.Err)
	}
	if outcome.Message != "" {
		t.Errorf("truncated stream must not commit output, got %q", outcome.Message)
	}
}

type failingStream struct{}

func (failingStream) Recv() (model.StreamChunk, error) {
	return model.StreamChunk{}, errors.New("connection reset")
}

func TestConsumeTransportFailure(t *testing.T) {
	outcome := Consume(failingStream{}, nil)
	if outcome.Err == nil {
		t.Fatal("transport failure should surface")
	}

	var svcErr *model.ServiceError
	if !errors.As(outcome.Err, &svcErr) {
		t.Errorf("expected a ServiceError, got %T", outcome.Err)
	}
}

func TestAccumulatorIncremental(t *testing.T) {
	var acc Accumulator

	done, err := acc.Apply(model.StreamChunk{Content: "a"})
	if err != nil || done {
		t.Fatalf("apply: done=%v err=%v", done, err)
	}
	if acc.Message() != "a" {
		t.Errorf("message = %q", acc.Message())
	}

	done, err = acc.Apply(model.StreamChunk{Content: "b", IsFinal: true})
	if err != nil || !done {
		t.Fatalf("final apply: done=%v err=%v", done, err)
	}
	if acc.Message() != "ab" {
		t.Errorf("message = %q", acc.Message())
	}
}
