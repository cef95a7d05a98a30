// Package monitor runs recurring metric fetches for registered URLs.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/buzzwatch/buzzwatch/internal/logging"
	"github.com/buzzwatch/buzzwatch/internal/models"
)

// DefaultInterval is used when a monitor is started without an explicit
// interval.
const DefaultInterval = 5 * time.Minute

// FetchFunc produces a metrics record for a URL.
type FetchFunc func(ctx context.Context, url string) models.MetricsRecord

// TickFunc receives each record a monitor produces.
type TickFunc func(rec models.MetricsRecord)

type entry struct {
	url       string
	interval  time.Duration
	startedAt time.Time
	done      chan struct{}
}

// Registry keeps at most one active monitor per URL. Starting a URL that is
// already monitored replaces the previous monitor.
type Registry struct {
	mu              sync.Mutex
	fetch           FetchFunc
	entries         map[string]*entry
	defaultInterval time.Duration
	logger          *logging.Logger
}

func NewRegistry(fetch FetchFunc, logger *logging.Logger) *Registry {
	return &Registry{
		fetch:           fetch,
		entries:         make(map[string]*entry),
		defaultInterval: DefaultInterval,
		logger:          logger,
	}
}

// SetDefaultInterval overrides the interval used when Start is called
// without one. Values of zero or less are ignored.
func (r *Registry) SetDefaultInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	r.defaultInterval = d
	r.mu.Unlock()
}

// Start begins monitoring url at the given interval, fetching once
// immediately and then on every tick. An interval of zero or less selects
// DefaultInterval. Records are delivered to onTick; after Stop no further
// calls are made for that monitor, even for a fetch already in flight.
func (r *Registry) Start(url string, interval time.Duration, onTick TickFunc) {
	r.mu.Lock()
	if interval <= 0 {
		interval = r.defaultInterval
	}

	e := &entry{
		url:       url,
		interval:  interval,
		startedAt: time.Now().UTC(),
		done:      make(chan struct{}),
	}

	if prev, ok := r.entries[url]; ok {
		close(prev.done)
	}
	r.entries[url] = e
	r.mu.Unlock()

	r.logger.Info("monitor started",
		logging.WithField("url", url),
		logging.WithField("interval", interval.String()))

	go r.run(e, onTick)
}

func (r *Registry) run(e *entry, onTick TickFunc) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	r.tick(e, onTick)
	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			r.tick(e, onTick)
		}
	}
}

// tick fetches once and delivers the record unless the monitor was stopped
// while the fetch was running.
func (r *Registry) tick(e *entry, onTick TickFunc) {
	rec := r.fetch(context.Background(), e.url)

	select {
	case <-e.done:
		return
	default:
	}
	onTick(rec)
}

// Stop halts the monitor for url. Stopping a URL that is not monitored is a
// no-op.
func (r *Registry) Stop(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[url]
	if !ok {
		return
	}
	close(e.done)
	delete(r.entries, url)

	r.logger.Info("monitor stopped", logging.WithField("url", url))
}

// StopAll halts every active monitor. Used at shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for url, e := range r.entries {
		close(e.done)
		delete(r.entries, url)
	}
}

// Active lists the currently monitored URLs.
func (r *Registry) Active() []models.MonitorEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.MonitorEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, models.MonitorEntry{
			URL:       e.url,
			Interval:  e.interval,
			StartedAt: e.startedAt,
		})
	}
	return out
}
