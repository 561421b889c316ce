package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/interviewlens/interviewlens/internal/chunker"
	"github.com/interviewlens/interviewlens/internal/config"
)

// EmbeddedChunk is a document chunk together with its embedding vector
type EmbeddedChunk struct {
	Chunk     chunker.Chunk `json:"chunk"`
	Embedding []float32     `json:"embedding"`
}

// SearchResult represents a search result with similarity score
type SearchResult struct {
	Chunk chunker.Chunk `json:"chunk"`
	Score float32       `json:"score"`
}

// VectorStore is the interface for vector storage backends
type VectorStore interface {
	// Insert adds embedded chunks to the store. Repeated insertion of the
	// same content produces duplicate entries; no deduplication is done.
	Insert(chunks []EmbeddedChunk) error

	// Search finds the topK chunks most similar to the query embedding,
	// ordered by descending similarity. An empty store yields no results
	// and no error.
	Search(queryEmbedding []float32, topK int) ([]SearchResult, error)

	// Count returns the number of stored chunks. An unreachable backend
	// is an error, never a silent zero.
	Count() (int, error)

	// Clear removes all data
	Clear() error

	// Close closes the store connection
	Close() error
}

// New creates a vector store based on configuration
func New(cfg config.StoreConfig, log *zap.Logger) (VectorStore, error) {
	switch cfg.Type {
	case "local":
		return OpenLocalStore(cfg.Path, log)
	case "qdrant":
		return NewQdrantStore(cfg.Host, cfg.Collection, cfg.Dimension)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
