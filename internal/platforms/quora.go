package platforms

import (
	"context"
	"fmt"
	"strings"

	"github.com/buzzwatch/buzzwatch/internal/models"
	"github.com/buzzwatch/buzzwatch/internal/searchproxy"
)

// QuoraFetcher derives engagement metrics for a Quora post from search
// results, since Quora exposes no public API. Counts are parsed out of the
// result snippet; shares is never derivable from this source.
type QuoraFetcher struct {
	proxy *searchproxy.Client
}

func NewQuoraFetcher(proxy *searchproxy.Client) *QuoraFetcher {
	return &QuoraFetcher{proxy: proxy}
}

func (f *QuoraFetcher) Platform() models.Platform {
	return models.PlatformQuora
}

func (f *QuoraFetcher) Match(loweredURL string) bool {
	return strings.Contains(loweredURL, "quora.com")
}

func (f *QuoraFetcher) Fetch(ctx context.Context, url string) models.MetricsRecord {
	query := fmt.Sprintf("site:quora.com %q", url)

	results, err := f.proxy.Search(ctx, query, 1)
	if err != nil {
		return models.NewFailureRecord(models.PlatformQuora, url, err.Error())
	}
	if len(results) == 0 {
		return models.NewFailureRecord(models.PlatformQuora, url, "Quora post not found in search results")
	}

	snippet := results[0].Snippet
	return models.NewSuccessRecord(models.PlatformQuora, url, map[string]int{
		"views":   matchCount(viewsPattern, snippet),
		"upvotes": matchCount(upvotesPattern, snippet),
		"shares":  0,
	})
}
