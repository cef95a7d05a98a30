package platforms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buzzwatch/buzzwatch/internal/models"
	"github.com/buzzwatch/buzzwatch/internal/ratelimit"
	"github.com/buzzwatch/buzzwatch/internal/searchproxy"
)

func newTestSearchClient(serverURL string) *searchproxy.Client {
	return searchproxy.New("test-key", ratelimit.New(0), searchproxy.WithEndpoint(serverURL))
}

func TestQuoraFetcherFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic": [{
			"title": "What is the best way to learn Go?",
			"link": "https://www.quora.com/What-is-the-best-way-to-learn-Go",
			"snippet": "12,345 views · 678 upvotes · Great answers inside"
		}]}`))
	}))
	defer server.Close()

	f := NewQuoraFetcher(newTestSearchClient(server.URL))
	url := "https://www.quora.com/What-is-the-best-way-to-learn-Go"

	rec := f.Fetch(context.Background(), url)
	if !rec.Success {
		t.Fatalf("expected success, got error %q", rec.Error)
	}
	if rec.Platform != models.PlatformQuora {
		t.Errorf("platform = %q, want %q", rec.Platform, models.PlatformQuora)
	}

	want := map[string]int{"views": 12345, "upvotes": 678, "shares": 0}
	for k, v := range want {
		if rec.Metrics[k] != v {
			t.Errorf("metrics[%q] = %d, want %d", k, rec.Metrics[k], v)
		}
	}
}

func TestQuoraFetcherNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic": []}`))
	}))
	defer server.Close()

	f := NewQuoraFetcher(newTestSearchClient(server.URL))

	rec := f.Fetch(context.Background(), "https://www.quora.com/Some-question")
	if rec.Success {
		t.Fatal("expected failure when search has no results")
	}
	if rec.Error != "Quora post not found in search results" {
		t.Errorf("error = %q", rec.Error)
	}
}

func TestQuoraFetcherSearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewQuoraFetcher(newTestSearchClient(server.URL))

	rec := f.Fetch(context.Background(), "https://www.quora.com/Some-question")
	if rec.Success {
		t.Fatal("expected failure when search proxy errors")
	}
	if rec.Error == "" {
		t.Error("expected error message to be set")
	}
}

func TestQuoraFetcherMatch(t *testing.T) {
	f := NewQuoraFetcher(nil)

	if !f.Match("https://www.quora.com/some-question") {
		t.Error("expected quora.com URL to match")
	}
	if f.Match("https://example.com/question") {
		t.Error("expected non-quora URL not to match")
	}
}
