package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/adverant/docintel/internal/model"
)

func TestChunkNoOpWithoutConfig(t *testing.T) {
	result := &model.ExtractionResult{Content: "hello world"}
	if err := Chunk(context.Background(), result, model.ExtractionConfig{}); err != nil {
		t.Fatalf("Chunk error = %v", err)
	}
	if result.Chunks != nil {
		t.Errorf("Chunks = %v, want nil", result.Chunks)
	}
}

func TestChunkSplitsWithOverlapAndCoversContent(t *testing.T) {
	content := strings.Repeat("abcde ", 20) // 120 bytes
	result := &model.ExtractionResult{Content: content}
	cfg := model.ExtractionConfig{
		Chunking: &model.ChunkingConfig{MaxCharacters: 30, Overlap: 5},
	}
	if err := Chunk(context.Background(), result, cfg); err != nil {
		t.Fatalf("Chunk error = %v", err)
	}
	if len(result.Chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(result.Chunks))
	}

	covered := 0
	for i, c := range result.Chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has ChunkIndex %d", i, c.ChunkIndex)
		}
		if c.TotalChunks != len(result.Chunks) {
			t.Errorf("chunk %d TotalChunks = %d, want %d", i, c.TotalChunks, len(result.Chunks))
		}
		if content[c.ByteStart:c.ByteEnd] != c.Content {
			t.Errorf("chunk %d content mismatch with byte offsets", i)
		}
		if i > 0 && c.ByteStart > result.Chunks[i-1].ByteEnd {
			t.Errorf("gap between chunk %d and %d", i-1, i)
		}
		covered = c.ByteEnd
	}
	if covered != len(content) {
		t.Errorf("last chunk ends at %d, want %d (full coverage)", covered, len(content))
	}
}

func TestChunkRespectsPageBoundaries(t *testing.T) {
	page1 := strings.Repeat("x", 10)
	page2 := strings.Repeat("y", 10)
	result := &model.ExtractionResult{
		Content: page1 + page2,
		Pages: []model.Page{
			{PageNumber: 1, Content: page1},
			{PageNumber: 2, Content: page2},
		},
	}
	cfg := model.ExtractionConfig{
		Chunking: &model.ChunkingConfig{MaxCharacters: 15, Overlap: 0},
	}
	if err := Chunk(context.Background(), result, cfg); err != nil {
		t.Fatalf("Chunk error = %v", err)
	}
	if len(result.Chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	first := result.Chunks[0]
	if first.ByteEnd != 10 {
		t.Errorf("first chunk ByteEnd = %d, want 10 (clamped to page boundary)", first.ByteEnd)
	}
	if first.FirstPage == nil || *first.FirstPage != 1 {
		t.Errorf("first chunk FirstPage = %v, want 1", first.FirstPage)
	}
}

func TestChunkEmptyContentProducesNoChunks(t *testing.T) {
	result := &model.ExtractionResult{Content: ""}
	cfg := model.ExtractionConfig{Chunking: &model.ChunkingConfig{MaxCharacters: 10}}
	if err := Chunk(context.Background(), result, cfg); err != nil {
		t.Fatalf("Chunk error = %v", err)
	}
	if result.Chunks != nil {
		t.Errorf("Chunks = %v, want nil for empty content", result.Chunks)
	}
}
