package domain

import (
	"context"
	"errors"
	"io/fs"
	"testing"
)

type stubEmbedder struct {
	calls int
	err   error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	s.calls++
	if s.err != nil {
		return EmbeddingResult{}, s.err
	}
	return EmbeddingResult{Embedding: []float32{float32(len(text))}, PromptTokens: 1, TotalTokens: 1}, nil
}

type stubBatchEmbedder struct {
	stubEmbedder
	batchCalls int
}

func (s *stubBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	s.batchCalls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return BatchEmbeddingResult{Embeddings: out}, nil
}

func TestLoadError_IsBothSentinelAndCause(t *testing.T) {
	err := NewLoadError("./answers.json", fs.ErrNotExist)

	if !errors.Is(err, ErrLoad) {
		t.Error("expected errors.Is(err, ErrLoad)")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected errors.Is(err, fs.ErrNotExist)")
	}

	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatal("expected errors.As to *LoadError")
	}
	if le.Path != "./answers.json" {
		t.Errorf("expected path ./answers.json, got %q", le.Path)
	}
}

func TestBatchFallback_SumsUsage(t *testing.T) {
	e := &stubEmbedder{}
	res, err := BatchFallback(context.Background(), e, []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	if res.Embeddings[2][0] != 3 {
		t.Errorf("expected order preserved, got %v", res.Embeddings)
	}
	if res.TotalTokens != 3 {
		t.Errorf("expected TotalTokens=3, got %d", res.TotalTokens)
	}
}

func TestBatchFallback_StopsOnError(t *testing.T) {
	e := &stubEmbedder{err: errors.New("down")}
	if _, err := BatchFallback(context.Background(), e, []string{"a", "b"}); err == nil {
		t.Fatal("expected error")
	}
	if e.calls != 1 {
		t.Errorf("expected 1 call before stopping, got %d", e.calls)
	}
}

func TestEmbedAll_PrefersBatch(t *testing.T) {
	e := &stubBatchEmbedder{}
	if _, err := EmbedAll(context.Background(), e, []string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.batchCalls != 1 || e.calls != 0 {
		t.Errorf("expected 1 batch call and 0 single calls, got %d/%d", e.batchCalls, e.calls)
	}
}

func TestRetrievalResult_Chunks(t *testing.T) {
	r := RetrievalResult{
		{Chunk: Chunk{ID: "b"}, Score: 0.9},
		{Chunk: Chunk{ID: "a"}, Score: 0.1},
	}
	chunks := r.Chunks()
	if len(chunks) != 2 || chunks[0].ID != "b" || chunks[1].ID != "a" {
		t.Errorf("unexpected chunks: %+v", chunks)
	}
}
