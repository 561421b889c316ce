package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

const localStoreFile = "chunks.json"

// LocalStore is an in-memory vector store persisted as JSON under a fixed
// directory. It plays the role an embedded vector database would: opened at
// startup, read-mostly afterwards, and rebuilt from scratch when its on-disk
// state cannot be loaded.
type LocalStore struct {
	mu     sync.RWMutex
	chunks []EmbeddedChunk
	dir    string
	log    *zap.Logger
}

// OpenLocalStore opens the store at dir, creating an empty one when the
// directory is absent. If existing data cannot be loaded the directory is
// removed and recreated empty; the previous contents are not recoverable.
func OpenLocalStore(dir string, log *zap.Logger) (*LocalStore, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &LocalStore{dir: dir, log: log}

	if err := s.load(); err != nil {
		log.Warn("vector store load failed, rebuilding empty store",
			zap.String("dir", dir),
			zap.Error(err),
		)
		if err := os.RemoveAll(dir); err != nil {
			return nil, fmt.Errorf("failed to remove corrupt store: %w", err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to recreate store directory: %w", err)
		}
		s.chunks = nil
	}

	return s, nil
}

// Insert adds embedded chunks to the store and persists the result
func (s *LocalStore) Insert(chunks []EmbeddedChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = append(s.chunks, chunks...)
	return s.save()
}

// Search finds similar chunks using cosine similarity
func (s *LocalStore) Search(queryEmbedding []float32, topK int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chunks) == 0 || topK <= 0 {
		return nil, nil
	}

	scored := make([]SearchResult, 0, len(s.chunks))
	for _, ec := range s.chunks {
		scored = append(scored, SearchResult{
			Chunk: ec.Chunk,
			Score: cosineSimilarity(queryEmbedding, ec.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK], nil
}

// Count returns the number of stored chunks
func (s *LocalStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Clear removes all data
func (s *LocalStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = nil
	return s.save()
}

// Close persists the store
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save persists the store to disk. Caller must hold the lock.
func (s *LocalStore) save() error {
	data, err := json.Marshal(s.chunks)
	if err != nil {
		return fmt.Errorf("failed to marshal store data: %w", err)
	}

	path := filepath.Join(s.dir, localStoreFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	return nil
}

// load reads the store from disk. An absent file means an empty store.
func (s *LocalStore) load() error {
	data, err := os.ReadFile(filepath.Join(s.dir, localStoreFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var chunks []EmbeddedChunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return err
	}

	s.chunks = chunks
	return nil
}

// cosineSimilarity calculates the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)))
}
