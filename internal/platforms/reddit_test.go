package platforms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buzzwatch/buzzwatch/internal/models"
	"github.com/buzzwatch/buzzwatch/internal/ratelimit"
)

const redditListingJSON = `[
	{"data": {"children": [{"data": {
		"ups": 42,
		"downs": 3,
		"num_comments": 7,
		"total_awards_received": 1
	}}]}},
	{"data": {"children": []}}
]`

func newTestRedditFetcher(baseURL string) *RedditFetcher {
	f := NewRedditFetcher(ratelimit.New(0), DefaultConfig())
	f.baseURL = baseURL
	return f
}

func TestRedditFetcherFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/r/golang/comments/abc123.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != DefaultConfig().UserAgent {
			t.Errorf("unexpected User-Agent %q", ua)
		}
		w.Write([]byte(redditListingJSON))
	}))
	defer server.Close()

	f := newTestRedditFetcher(server.URL)
	url := "https://www.reddit.com/r/golang/comments/abc123/some_title/"

	rec := f.Fetch(context.Background(), url)
	if !rec.Success {
		t.Fatalf("expected success, got error %q", rec.Error)
	}
	if rec.Platform != models.PlatformReddit {
		t.Errorf("platform = %q, want %q", rec.Platform, models.PlatformReddit)
	}
	if rec.URL != url {
		t.Errorf("url = %q, want %q", rec.URL, url)
	}

	want := map[string]int{"upvotes": 42, "downvotes": 3, "comments": 7, "awards": 1}
	for k, v := range want {
		if rec.Metrics[k] != v {
			t.Errorf("metrics[%q] = %d, want %d", k, rec.Metrics[k], v)
		}
	}
}

func TestRedditFetcherInvalidURL(t *testing.T) {
	f := newTestRedditFetcher("http://unused.invalid")

	rec := f.Fetch(context.Background(), "https://www.reddit.com/r/golang/")
	if rec.Success {
		t.Fatal("expected failure for URL without a post ID")
	}
	if rec.Error != "Invalid Reddit URL format" {
		t.Errorf("error = %q", rec.Error)
	}
}

func TestRedditFetcherUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	f := newTestRedditFetcher(server.URL)

	rec := f.Fetch(context.Background(), "https://reddit.com/r/golang/comments/abc123")
	if rec.Success {
		t.Fatal("expected failure on 429 response")
	}
	if rec.Error != "Reddit returned status 429 Too Many Requests" {
		t.Errorf("error = %q", rec.Error)
	}
}

func TestRedditFetcherPostMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"data": {"children": []}}]`))
	}))
	defer server.Close()

	f := newTestRedditFetcher(server.URL)

	rec := f.Fetch(context.Background(), "https://reddit.com/r/golang/comments/abc123")
	if rec.Success {
		t.Fatal("expected failure when listing has no children")
	}
	if rec.Error != "Reddit post data not found" {
		t.Errorf("error = %q", rec.Error)
	}
}

func TestRedditFetcherMatch(t *testing.T) {
	f := newTestRedditFetcher("http://unused.invalid")

	if !f.Match("https://www.reddit.com/r/golang/comments/abc123") {
		t.Error("expected reddit.com URL to match")
	}
	if f.Match("https://example.com/post") {
		t.Error("expected non-reddit URL not to match")
	}
}

func TestNewRedditAPIFetcherIncompleteCredentials(t *testing.T) {
	_, err := NewRedditAPIFetcher(RedditCredentials{ID: "only-id"}, ratelimit.New(0), DefaultConfig())
	if err == nil {
		t.Fatal("expected error for incomplete credentials")
	}
}
