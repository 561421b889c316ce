// Package rag wires document loading, chunking, embedding and vector
// storage into the ingestion and retrieval pipeline used by the analyzer.
package rag

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/interviewlens/interviewlens/internal/chunker"
	"github.com/interviewlens/interviewlens/internal/document"
	"github.com/interviewlens/interviewlens/internal/embedding"
	"github.com/interviewlens/interviewlens/internal/store"
)

// Pipeline ingests documents into the vector store and retrieves relevant
// chunks for a query.
type Pipeline struct {
	library  *document.Library
	splitter *chunker.Chunker
	embedder embedding.Provider
	vectors  store.VectorStore
	log      *zap.Logger

	concurrency int
	maxRetries  int
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(library *document.Library, splitter *chunker.Chunker, embedder embedding.Provider, vectors store.VectorStore, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		library:     library,
		splitter:    splitter,
		embedder:    embedder,
		vectors:     vectors,
		log:         log,
		concurrency: 2,
		maxRetries:  3,
	}
}

// Ingest reads, chunks, embeds and stores the documents at the given paths.
// Missing files are skipped with a warning and do not abort the rest of the
// batch. Repeated ingestion of the same file stores duplicate chunks.
func (p *Pipeline) Ingest(ctx context.Context, paths []string) error {
	var chunks []chunker.Chunk
	loaded := 0

	for _, path := range paths {
		content, err := p.library.Read(path)
		if err != nil {
			if errors.Is(err, document.ErrNotFound) {
				p.log.Warn("document not found, skipping", zap.String("path", path))
				continue
			}
			return fmt.Errorf("reading %s: %w", path, err)
		}

		id := strings.TrimSuffix(filepath.Base(path), ".txt")
		category := string(p.library.CategoryOf(path))
		chunks = append(chunks, p.splitter.Split(id, category, path, content)...)
		loaded++
	}

	if len(chunks) == 0 {
		p.log.Warn("no documents loaded for ingestion")
		return nil
	}

	p.log.Info("ingesting chunks",
		zap.Int("documents", loaded),
		zap.Int("chunks", len(chunks)),
	)

	embedded, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	if err := p.vectors.Insert(embedded); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	return nil
}

// Retrieve returns the texts of the topK chunks most similar to the query,
// ordered by descending similarity. An empty store yields an empty result,
// not an error; an unreachable store is an error.
func (p *Pipeline) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	count, err := p.vectors.Count()
	if err != nil {
		return nil, fmt.Errorf("counting chunks: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	vec, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := p.vectors.Search(vec, topK)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.Text
	}
	return texts, nil
}

// ChunkCount returns the number of chunks currently indexed.
func (p *Pipeline) ChunkCount() (int, error) {
	return p.vectors.Count()
}

// Close releases the underlying vector store.
func (p *Pipeline) Close() error {
	return p.vectors.Close()
}

// embedChunks embeds chunks with bounded concurrency and per-chunk retry.
// Partial failures are tolerated as long as at least half the chunks embed.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []chunker.Chunk) ([]store.EmbeddedChunk, error) {
	var results []store.EmbeddedChunk
	var mu sync.Mutex
	var wg sync.WaitGroup

	sem := make(chan struct{}, p.concurrency)

	var failedCount int
	var errMu sync.Mutex

	for _, c := range chunks {
		wg.Add(1)
		go func(c chunker.Chunk) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			var vec []float32
			var err error
			for retry := 0; retry < p.maxRetries; retry++ {
				vec, err = p.embedder.Embed(ctx, c.Text)
				if err == nil {
					break
				}
				if retry < p.maxRetries-1 {
					time.Sleep(time.Duration(retry+1) * 500 * time.Millisecond)
				}
			}

			if err != nil {
				errMu.Lock()
				failedCount++
				errMu.Unlock()
				return
			}

			mu.Lock()
			results = append(results, store.EmbeddedChunk{Chunk: c, Embedding: vec})
			mu.Unlock()
		}(c)
	}

	wg.Wait()

	successRate := float64(len(results)) / float64(len(chunks))
	if successRate < 0.5 {
		return results, fmt.Errorf("too many embedding failures: only %d/%d chunks embedded", len(results), len(chunks))
	}

	if failedCount > 0 {
		p.log.Warn("some chunks failed to embed",
			zap.Int("failed", failedCount),
			zap.Int("embedded", len(results)),
		)
	}

	return results, nil
}
