// Package preview fetches OpenGraph metadata for post URLs so the client
// can render link cards.
package preview

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/buzzwatch/buzzwatch/internal/cache"
	"github.com/buzzwatch/buzzwatch/internal/ratelimit"
)

const cachePrefix = "preview:"

// PostPreview is the OpenGraph summary of a post page.
type PostPreview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SiteName    string `json:"siteName"`
}

// Fetcher retrieves and caches previews.
type Fetcher struct {
	client    *http.Client
	limiter   *ratelimit.Limiter
	cache     cache.Cache
	userAgent string
	ttl       time.Duration
}

func NewFetcher(limiter *ratelimit.Limiter, c cache.Cache, userAgent string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter:   limiter,
		cache:     c,
		userAgent: userAgent,
		ttl:       time.Hour,
	}
}

// Fetch returns the preview for rawURL, from cache when possible.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*PostPreview, error) {
	var cached PostPreview
	if f.cache.Get(cachePrefix+rawURL, &cached) {
		return &cached, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL %q", rawURL)
	}
	f.limiter.Wait(parsed.Host)

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("page returned status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	p := parseDocument(doc)
	p.URL = rawURL
	f.cache.SetWithTTL(cachePrefix+rawURL, p, f.ttl)
	return p, nil
}

func parseDocument(doc *goquery.Document) *PostPreview {
	p := &PostPreview{
		Title:       metaProperty(doc, "og:title"),
		Description: metaProperty(doc, "og:description"),
		Image:       metaProperty(doc, "og:image"),
		SiteName:    metaProperty(doc, "og:site_name"),
	}

	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if p.Description == "" {
		if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
			p.Description = strings.TrimSpace(desc)
		}
	}
	return p
}

func metaProperty(doc *goquery.Document, property string) string {
	sel := fmt.Sprintf(`meta[property=%q]`, property)
	if content, ok := doc.Find(sel).First().Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}
