package platforms

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/buzzwatch/buzzwatch/internal/models"
	"github.com/buzzwatch/buzzwatch/internal/testutil"
)

// stubFetcher answers for a fixed substring and records how often it fired.
type stubFetcher struct {
	platform models.Platform
	needle   string
	calls    atomic.Int64
	fail     bool
}

func (s *stubFetcher) Platform() models.Platform { return s.platform }

func (s *stubFetcher) Match(loweredURL string) bool {
	return strings.Contains(loweredURL, s.needle)
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) models.MetricsRecord {
	s.calls.Add(1)
	if s.fail {
		return models.NewFailureRecord(s.platform, url, "upstream unavailable")
	}
	return models.NewSuccessRecord(s.platform, url, map[string]int{"views": 1})
}

func newTestDispatcher(fetchers ...Fetcher) *Dispatcher {
	return NewDispatcher(testutil.NullLogger(), fetchers...)
}

func TestDispatcherRouting(t *testing.T) {
	reddit := &stubFetcher{platform: models.PlatformReddit, needle: "reddit.com"}
	quora := &stubFetcher{platform: models.PlatformQuora, needle: "quora.com"}
	d := newTestDispatcher(reddit, quora)

	rec := d.GetMetrics(context.Background(), "https://WWW.Reddit.COM/r/golang/comments/abc123")
	if rec.Platform != models.PlatformReddit {
		t.Errorf("platform = %q, want %q", rec.Platform, models.PlatformReddit)
	}
	if reddit.calls.Load() != 1 {
		t.Errorf("reddit fetcher called %d times, want 1", reddit.calls.Load())
	}
	if quora.calls.Load() != 0 {
		t.Errorf("quora fetcher called %d times, want 0", quora.calls.Load())
	}
}

func TestDispatcherPreservesURLCase(t *testing.T) {
	var gotURL string
	f := &captureFetcher{needle: "reddit.com", capture: &gotURL}
	d := newTestDispatcher(f)

	url := "https://Reddit.com/r/Golang/comments/AbC123"
	d.GetMetrics(context.Background(), url)
	if gotURL != url {
		t.Errorf("fetcher received %q, want original %q", gotURL, url)
	}
}

type captureFetcher struct {
	needle  string
	capture *string
}

func (c *captureFetcher) Platform() models.Platform { return models.PlatformReddit }

func (c *captureFetcher) Match(loweredURL string) bool {
	return strings.Contains(loweredURL, c.needle)
}

func (c *captureFetcher) Fetch(ctx context.Context, url string) models.MetricsRecord {
	*c.capture = url
	return models.NewSuccessRecord(models.PlatformReddit, url, nil)
}

func TestDispatcherUnsupportedPlatform(t *testing.T) {
	reddit := &stubFetcher{platform: models.PlatformReddit, needle: "reddit.com"}
	d := newTestDispatcher(reddit)

	rec := d.GetMetrics(context.Background(), "https://example.com/post/1")
	if rec.Success {
		t.Fatal("expected failure for unsupported URL")
	}
	if rec.Platform != models.PlatformUnknown {
		t.Errorf("platform = %q, want %q", rec.Platform, models.PlatformUnknown)
	}
	if rec.Error != "Unsupported platform. Supported: Reddit, Quora, Twitter/X" {
		t.Errorf("error = %q", rec.Error)
	}
	if reddit.calls.Load() != 0 {
		t.Errorf("fetcher called %d times for unsupported URL, want 0", reddit.calls.Load())
	}
}

func TestDispatcherBulkOrder(t *testing.T) {
	reddit := &stubFetcher{platform: models.PlatformReddit, needle: "reddit.com"}
	quora := &stubFetcher{platform: models.PlatformQuora, needle: "quora.com", fail: true}
	d := newTestDispatcher(reddit, quora)

	urls := []string{
		"https://reddit.com/r/golang/comments/one",
		"https://example.com/unsupported",
		"https://quora.com/some-question",
		"https://reddit.com/r/golang/comments/two",
	}

	results := d.GetBulkMetrics(context.Background(), urls)
	if len(results) != len(urls) {
		t.Fatalf("got %d results, want %d", len(results), len(urls))
	}
	for i, rec := range results {
		if rec.URL != urls[i] {
			t.Errorf("results[%d].URL = %q, want %q", i, rec.URL, urls[i])
		}
	}

	if !results[0].Success || !results[3].Success {
		t.Error("expected reddit fetches to succeed")
	}
	if results[1].Success || results[1].Platform != models.PlatformUnknown {
		t.Error("expected unsupported URL to fail with unknown platform")
	}
	if results[2].Success {
		t.Error("expected quora fetch to fail")
	}
}

func TestDispatcherBulkEmpty(t *testing.T) {
	d := newTestDispatcher()

	results := d.GetBulkMetrics(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("got %d results for empty input, want 0", len(results))
	}
}
