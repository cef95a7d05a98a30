package models

import "time"

// Platform identifies the social network a monitored URL belongs to.
type Platform string

const (
	PlatformReddit  Platform = "reddit"
	PlatformQuora   Platform = "quora"
	PlatformTwitter Platform = "twitter"
	PlatformUnknown Platform = "unknown"
)

// MetricsRecord is the normalized outcome of one fetch attempt against a
// platform. Records are immutable once created; a failed attempt carries an
// empty metrics map and a populated Error.
type MetricsRecord struct {
	Platform  Platform       `json:"platform"`
	URL       string         `json:"url"`
	Metrics   map[string]int `json:"metrics"`
	Timestamp time.Time      `json:"timestamp"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
}

// NewSuccessRecord builds a successful record with the capture time set to now.
func NewSuccessRecord(platform Platform, url string, metrics map[string]int) MetricsRecord {
	if metrics == nil {
		metrics = map[string]int{}
	}
	return MetricsRecord{
		Platform:  platform,
		URL:       url,
		Metrics:   metrics,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// NewFailureRecord builds a failure record carrying the given message.
func NewFailureRecord(platform Platform, url, message string) MetricsRecord {
	return MetricsRecord{
		Platform:  platform,
		URL:       url,
		Metrics:   map[string]int{},
		Timestamp: time.Now().UTC(),
		Success:   false,
		Error:     message,
	}
}

// StoredMetrics is a MetricsRecord after persistence: the store assigns a
// monotonically increasing ID and the creation time at insert.
type StoredMetrics struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	MetricsRecord
}

// HistoryFilter narrows a metrics history query. Zero values mean "no
// filter"; URL and Platform match exactly when set.
type HistoryFilter struct {
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
}

// MonitorEntry describes one active monitor. Entries live only for the
// process lifetime and are never persisted.
type MonitorEntry struct {
	URL       string        `json:"url"`
	Interval  time.Duration `json:"interval"`
	StartedAt time.Time     `json:"startedAt"`
}
