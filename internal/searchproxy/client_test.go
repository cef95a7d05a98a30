package searchproxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buzzwatch/buzzwatch/internal/ratelimit"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.Header.Get("X-API-KEY") != "test-key" {
			t.Errorf("X-API-KEY = %q, want test-key", r.Header.Get("X-API-KEY"))
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Query != "site:quora.com test" {
			t.Errorf("query = %q", req.Query)
		}
		if req.Num != 1 {
			t.Errorf("num = %d, want 1", req.Num)
		}

		json.NewEncoder(w).Encode(searchResponse{
			Organic: []Result{
				{Title: "A question", Link: "https://quora.com/q", Snippet: "12,345 views"},
			},
		})
	}))
	defer server.Close()

	client := New("test-key", ratelimit.New(0), WithEndpoint(server.URL))

	results, err := client.Search(context.Background(), "site:quora.com test", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Snippet != "12,345 views" {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
}

func TestSearch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := New("bad-key", ratelimit.New(0), WithEndpoint(server.URL))

	if _, err := client.Search(context.Background(), "anything", 1); err == nil {
		t.Error("Search() should return error on non-200 status")
	}
}

func TestSearch_NoKey(t *testing.T) {
	client := New("", ratelimit.New(0))

	if client.Configured() {
		t.Error("Configured() should be false without a key")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := client.Search(ctx, "anything", 1); err == nil {
		t.Error("Search() should return error without API key")
	}
}
