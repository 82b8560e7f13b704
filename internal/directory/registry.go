package directory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// Registry keeps one controller per browser session.
type Registry struct {
	remote      Remote
	logger      *slog.Logger
	gauge       prometheus.Gauge
	now         func() time.Time
	mu          sync.Mutex
	controllers map[string]*Controller
	starts      singleflight.Group
}

// NewRegistry builds an empty registry. gauge may be nil.
func NewRegistry(remote Remote, logger *slog.Logger, gauge prometheus.Gauge) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		remote:      remote,
		logger:      logger,
		gauge:       gauge,
		now:         time.Now,
		controllers: make(map[string]*Controller),
	}
}

// Get returns the controller for sessionID, starting it and issuing its initial
// load on first use.
func (r *Registry) Get(ctx context.Context, sessionID string) *Controller {
	if c := r.lookup(sessionID); c != nil {
		return c
	}
	v, _, _ := r.starts.Do(sessionID, func() (interface{}, error) {
		if c := r.lookup(sessionID); c != nil {
			return c, nil
		}
		c := NewController(r.remote, r.logger.With(slog.String("session", shortID(sessionID))))
		c.initial = c.Load(ctx)
		r.mu.Lock()
		r.controllers[sessionID] = c
		r.observe()
		r.mu.Unlock()
		return c, nil
	})
	return v.(*Controller)
}

// Len reports the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// Sweep stops controllers idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	var stale []*Controller
	r.mu.Lock()
	for id, c := range r.controllers {
		if c.LastUsed().Before(cutoff) {
			stale = append(stale, c)
			delete(r.controllers, id)
		}
	}
	r.observe()
	r.mu.Unlock()

	for _, c := range stale {
		c.Stop()
	}
	if len(stale) > 0 {
		r.logger.Info("swept idle directory sessions", slog.Int("count", len(stale)))
	}
	return len(stale)
}

// Run sweeps on every tick until ctx ends.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(maxIdle)
		}
	}
}

// Close stops every controller.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Controller, 0, len(r.controllers))
	for id, c := range r.controllers {
		all = append(all, c)
		delete(r.controllers, id)
	}
	r.observe()
	r.mu.Unlock()
	for _, c := range all {
		c.Stop()
	}
}

// lookup marks the controller used while holding mu, so a concurrent Sweep
// either stops it first or sees it as fresh.
func (r *Registry) lookup(sessionID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.controllers[sessionID]
	if c != nil {
		c.touch()
	}
	return c
}

// observe must be called with mu held.
func (r *Registry) observe() {
	if r.gauge != nil {
		r.gauge.Set(float64(len(r.controllers)))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
