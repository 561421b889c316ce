package store

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/interviewlens/interviewlens/internal/chunker"
)

func embedded(id string, index int, text string, vec []float32) EmbeddedChunk {
	return EmbeddedChunk{
		Chunk: chunker.Chunk{
			DocumentID: id,
			Category:   "candidate",
			Path:       "candidates/" + id + ".txt",
			Index:      index,
			Text:       text,
		},
		Embedding: vec,
	}
}

func TestLocalStoreInsertAndSearch(t *testing.T) {
	s, err := OpenLocalStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	err = s.Insert([]EmbeddedChunk{
		embedded("a", 0, "go backend services", []float32{1, 0, 0}),
		embedded("a", 1, "frontend react work", []float32{0, 1, 0}),
		embedded("b", 0, "database tuning", []float32{0, 0, 1}),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	results, err := s.Search([]float32{1, 0.1, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.Text != "go backend services" {
		t.Errorf("expected closest chunk first, got %q", results[0].Chunk.Text)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not ordered by descending score")
	}
}

func TestLocalStoreSearchEmpty(t *testing.T) {
	s, err := OpenLocalStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	results, err := s.Search([]float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("expected no error on empty store, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestLocalStoreAllowsDuplicates(t *testing.T) {
	s, err := OpenLocalStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	chunk := embedded("a", 0, "same content", []float32{1, 0})
	if err := s.Insert([]EmbeddedChunk{chunk}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Insert([]EmbeddedChunk{chunk}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if n, _ := s.Count(); n != 2 {
		t.Errorf("expected duplicate entries to be kept, count = %d", n)
	}
}

func TestLocalStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenLocalStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Insert([]EmbeddedChunk{embedded("a", 0, "persisted", []float32{1})}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenLocalStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if n, _ := reopened.Count(); n != 1 {
		t.Errorf("expected 1 chunk after reopen, got %d", n)
	}
}

func TestLocalStoreRebuildsOnCorruptData(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, localStoreFile), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s, err := OpenLocalStore(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("expected destructive rebuild, got error: %v", err)
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("expected empty store after rebuild, got %d chunks", n)
	}

	// The store must be usable after the rebuild
	if err := s.Insert([]EmbeddedChunk{embedded("a", 0, "fresh", []float32{1})}); err != nil {
		t.Fatalf("insert after rebuild: %v", err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosineSimilarity(tc.a, tc.b)
			if got != tc.want {
				t.Errorf("cosineSimilarity(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
