// Package platforms contains the per-platform engagement metric fetchers
// and the dispatcher that routes URLs to them.
package platforms

import (
	"context"
	"time"

	"github.com/buzzwatch/buzzwatch/internal/models"
)

// Fetcher translates an upstream response for one platform into a
// normalized MetricsRecord. Fetch never returns an error: every failure is
// folded into a success=false record.
type Fetcher interface {
	Platform() models.Platform
	// Match reports whether this fetcher handles the URL. The argument is
	// lowercased by the dispatcher; matching is substring-based.
	Match(loweredURL string) bool
	Fetch(ctx context.Context, url string) models.MetricsRecord
}

// Config holds shared fetcher settings.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns the settings used in production.
func DefaultConfig() Config {
	return Config{
		Timeout:   15 * time.Second,
		UserAgent: "Buzzwatch/1.0 (engagement monitor)",
	}
}
