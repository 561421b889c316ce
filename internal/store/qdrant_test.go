package store

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestQdrantCount(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{"points_count": 3},
		})
	}))
	defer srv.Close()

	q, err := NewQdrantStore(srv.URL, "interviews", 4)
	if err != nil {
		t.Fatalf("NewQdrantStore: %v", err)
	}

	n, err := q.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 points, got %d", n)
	}

	failing.Store(true)
	if _, err := q.Count(); err == nil {
		t.Error("expected error when the collection info request fails")
	}
}
