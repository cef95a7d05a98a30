package platforms

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/buzzwatch/buzzwatch/internal/models"
	"github.com/buzzwatch/buzzwatch/internal/searchproxy"
)

var twitterStatusPattern = regexp.MustCompile(`(?i)(?:twitter|x)\.com/[^/\s]+/status/(\d+)`)

// TwitterFetcher derives engagement metrics for a Twitter/X post from
// search results. Quotes and bookmarks are never obtainable this way.
//
// A missing organic result is reported as an explicit failure, matching
// the Quora fetcher's behavior.
type TwitterFetcher struct {
	proxy *searchproxy.Client
}

func NewTwitterFetcher(proxy *searchproxy.Client) *TwitterFetcher {
	return &TwitterFetcher{proxy: proxy}
}

func (f *TwitterFetcher) Platform() models.Platform {
	return models.PlatformTwitter
}

func (f *TwitterFetcher) Match(loweredURL string) bool {
	return strings.Contains(loweredURL, "twitter.com") || strings.Contains(loweredURL, "x.com")
}

func (f *TwitterFetcher) Fetch(ctx context.Context, url string) models.MetricsRecord {
	m := twitterStatusPattern.FindStringSubmatch(url)
	if len(m) < 2 {
		return models.NewFailureRecord(models.PlatformTwitter, url, "Invalid Twitter/X URL format")
	}
	postID := m[1]

	query := fmt.Sprintf("twitter.com/status/%s OR x.com/status/%s engagement metrics", postID, postID)

	results, err := f.proxy.Search(ctx, query, 1)
	if err != nil {
		return models.NewFailureRecord(models.PlatformTwitter, url, err.Error())
	}
	if len(results) == 0 {
		return models.NewFailureRecord(models.PlatformTwitter, url, "Twitter/X post not found in search results")
	}

	snippet := results[0].Snippet
	return models.NewSuccessRecord(models.PlatformTwitter, url, map[string]int{
		"likes":     matchCount(likesPattern, snippet),
		"retweets":  matchCount(retweetsPattern, snippet),
		"replies":   matchCount(repliesPattern, snippet),
		"quotes":    0,
		"bookmarks": 0,
	})
}
