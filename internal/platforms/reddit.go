package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/loganintech/go-reddit/v2/reddit"

	"github.com/buzzwatch/buzzwatch/internal/models"
	"github.com/buzzwatch/buzzwatch/internal/ratelimit"
)

var redditPostPattern = regexp.MustCompile(`(?i)reddit\.com/r/([^/\s]+)/comments/([a-z0-9]+)`)

// RedditFetcher reads engagement metrics for a single Reddit post. By
// default it uses the public comments JSON endpoint with a descriptive
// User-Agent; when API credentials are supplied it uses the authenticated
// Reddit API instead.
type RedditFetcher struct {
	limiter *ratelimit.Limiter
	config  Config
	client  *http.Client
	api     *reddit.Client
	baseURL string
}

// RedditCredentials holds the script-app credentials for the authenticated
// API mode. All four fields must be set to enable it.
type RedditCredentials struct {
	ID       string
	Secret   string
	Username string
	Password string
}

func (c RedditCredentials) complete() bool {
	return c.ID != "" && c.Secret != "" && c.Username != "" && c.Password != ""
}

// NewRedditFetcher creates a fetcher using the public JSON endpoint.
func NewRedditFetcher(limiter *ratelimit.Limiter, config Config) *RedditFetcher {
	return &RedditFetcher{
		limiter: limiter,
		config:  config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		baseURL: "https://www.reddit.com",
	}
}

// NewRedditAPIFetcher creates a fetcher backed by the authenticated Reddit
// API. Falls back to an error when credentials are incomplete; callers then
// use the public fetcher.
func NewRedditAPIFetcher(creds RedditCredentials, limiter *ratelimit.Limiter, config Config) (*RedditFetcher, error) {
	if !creds.complete() {
		return nil, fmt.Errorf("incomplete reddit credentials")
	}

	client, err := reddit.NewClient(reddit.Credentials{
		ID:       creds.ID,
		Secret:   creds.Secret,
		Username: creds.Username,
		Password: creds.Password,
	}, reddit.WithUserAgent(config.UserAgent))
	if err != nil {
		return nil, fmt.Errorf("failed to create reddit client: %w", err)
	}

	f := NewRedditFetcher(limiter, config)
	f.api = client
	return f, nil
}

func (f *RedditFetcher) Platform() models.Platform {
	return models.PlatformReddit
}

func (f *RedditFetcher) Match(loweredURL string) bool {
	return strings.Contains(loweredURL, "reddit.com")
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPostData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPostData struct {
	Ups         int `json:"ups"`
	Downs       int `json:"downs"`
	NumComments int `json:"num_comments"`
	TotalAwards int `json:"total_awards_received"`
}

func (f *RedditFetcher) Fetch(ctx context.Context, url string) models.MetricsRecord {
	m := redditPostPattern.FindStringSubmatch(url)
	if len(m) < 3 {
		return models.NewFailureRecord(models.PlatformReddit, url, "Invalid Reddit URL format")
	}
	subreddit, postID := m[1], m[2]

	if f.api != nil {
		return f.fetchAPI(ctx, url, postID)
	}
	return f.fetchPublic(ctx, url, subreddit, postID)
}

func (f *RedditFetcher) fetchPublic(ctx context.Context, url, subreddit, postID string) models.MetricsRecord {
	f.limiter.Wait("reddit.com")

	endpoint := fmt.Sprintf("%s/r/%s/comments/%s.json", f.baseURL, subreddit, postID)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return models.NewFailureRecord(models.PlatformReddit, url, err.Error())
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return models.NewFailureRecord(models.PlatformReddit, url, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.NewFailureRecord(models.PlatformReddit, url, "Reddit returned status "+resp.Status)
	}

	// The comments endpoint returns two listings; the first holds the post.
	var listings []redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return models.NewFailureRecord(models.PlatformReddit, url, "Reddit post data not found")
	}
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return models.NewFailureRecord(models.PlatformReddit, url, "Reddit post data not found")
	}

	post := listings[0].Data.Children[0].Data
	return models.NewSuccessRecord(models.PlatformReddit, url, map[string]int{
		"upvotes":   post.Ups,
		"downvotes": post.Downs,
		"comments":  post.NumComments,
		"awards":    post.TotalAwards,
	})
}

func (f *RedditFetcher) fetchAPI(ctx context.Context, url, postID string) models.MetricsRecord {
	f.limiter.Wait("oauth.reddit.com")

	postAndComments, _, err := f.api.Post.Get(ctx, postID)
	if err != nil {
		return models.NewFailureRecord(models.PlatformReddit, url, err.Error())
	}
	if postAndComments == nil || postAndComments.Post == nil {
		return models.NewFailureRecord(models.PlatformReddit, url, "Reddit post data not found")
	}

	post := postAndComments.Post
	// The OAuth API exposes score and comment count only; downvotes and
	// awards are not available through it.
	return models.NewSuccessRecord(models.PlatformReddit, url, map[string]int{
		"upvotes":   post.Score,
		"downvotes": 0,
		"comments":  post.NumberOfComments,
		"awards":    0,
	})
}
