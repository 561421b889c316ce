package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/interviewlens/interviewlens/internal/chunker"
)

// QdrantStore implements VectorStore using the Qdrant REST API
type QdrantStore struct {
	host       string
	collection string
	dimension  int
	httpClient *http.Client
}

// NewQdrantStore creates a new Qdrant vector store and ensures the
// collection exists
func NewQdrantStore(host string, collection string, dimension int) (*QdrantStore, error) {
	store := &QdrantStore{
		host:       host,
		collection: collection,
		dimension:  dimension,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	if err := store.ensureCollection(); err != nil {
		return nil, err
	}

	return store, nil
}

// ensureCollection creates the collection if it doesn't exist
func (q *QdrantStore) ensureCollection() error {
	resp, err := q.httpClient.Get(fmt.Sprintf("%s/collections/%s", q.host, q.collection))
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	createReq := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     q.dimension,
			"distance": "Cosine",
		},
	}

	body, _ := json.Marshal(createReq)
	req, err := http.NewRequest("PUT", fmt.Sprintf("%s/collections/%s", q.host, q.collection), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err = q.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to create collection: %s", string(bodyBytes))
	}

	return nil
}

// Insert adds embedded chunks to Qdrant
func (q *QdrantStore) Insert(chunks []EmbeddedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]map[string]interface{}, len(chunks))
	for i, ec := range chunks {
		payload := map[string]interface{}{
			"document_id": ec.Chunk.DocumentID,
			"category":    ec.Chunk.Category,
			"path":        ec.Chunk.Path,
			"index":       ec.Chunk.Index,
			"text":        ec.Chunk.Text,
		}

		points[i] = map[string]interface{}{
			"id":      uuid.New().String(), // fresh id per insert, duplicates allowed
			"vector":  ec.Embedding,
			"payload": payload,
		}
	}

	// Batch upsert (100 at a time)
	batchSize := 100
	for i := 0; i < len(points); i += batchSize {
		end := i + batchSize
		if end > len(points) {
			end = len(points)
		}

		upsertReq := map[string]interface{}{
			"points": points[i:end],
		}

		body, _ := json.Marshal(upsertReq)
		req, err := http.NewRequest("PUT", fmt.Sprintf("%s/collections/%s/points", q.host, q.collection), bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := q.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to upsert points: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("failed to upsert points: %s", string(bodyBytes))
		}
		resp.Body.Close()
	}

	return nil
}

// Search finds similar chunks in Qdrant
func (q *QdrantStore) Search(queryEmbedding []float32, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	searchReq := map[string]interface{}{
		"vector":       queryEmbedding,
		"limit":        topK,
		"with_payload": true,
	}

	body, _ := json.Marshal(searchReq)
	req, err := http.NewRequest("POST", fmt.Sprintf("%s/collections/%s/points/search", q.host, q.collection), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed: %s", string(bodyBytes))
	}

	var searchResp struct {
		Result []struct {
			Score   float32                `json:"score"`
			Payload map[string]interface{} `json:"payload"`
		} `json:"result"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]SearchResult, len(searchResp.Result))
	for i, r := range searchResp.Result {
		results[i] = SearchResult{
			Chunk: chunker.Chunk{
				DocumentID: getString(r.Payload, "document_id"),
				Category:   getString(r.Payload, "category"),
				Path:       getString(r.Payload, "path"),
				Index:      getInt(r.Payload, "index"),
				Text:       getString(r.Payload, "text"),
			},
			Score: r.Score,
		}
	}

	return results, nil
}

// Count returns the number of stored chunks
func (q *QdrantStore) Count() (int, error) {
	resp, err := q.httpClient.Get(fmt.Sprintf("%s/collections/%s", q.host, q.collection))
	if err != nil {
		return 0, fmt.Errorf("failed to get collection info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("failed to get collection info: %s", string(bodyBytes))
	}

	var collInfo struct {
		Result struct {
			PointsCount int `json:"points_count"`
		} `json:"result"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&collInfo); err != nil {
		return 0, fmt.Errorf("failed to decode collection info: %w", err)
	}

	return collInfo.Result.PointsCount, nil
}

// Clear removes all data from the collection
func (q *QdrantStore) Clear() error {
	req, err := http.NewRequest("DELETE", fmt.Sprintf("%s/collections/%s", q.host, q.collection), nil)
	if err != nil {
		return err
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Recreate collection
	return q.ensureCollection()
}

// Close closes the store (no-op for HTTP client)
func (q *QdrantStore) Close() error {
	return nil
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return 0
}
