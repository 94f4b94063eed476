// ABOUTME: Dashboard stats store and the periodic refresher
// ABOUTME: Stats come from the backend; the refresher keeps them current
package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/models"
)

// DefaultRefreshInterval matches the dashboard's auto-refresh cadence.
const DefaultRefreshInterval = 30 * time.Second

// Store holds the latest dashboard stats.
type Store struct {
	mu      sync.RWMutex
	client  *api.Client
	stats   models.DashboardStats
	fetched bool
	loading bool
	lastErr string
}

func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// Fetch replaces the stats with the backend's current numbers.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	stats, err := s.client.DashboardStats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = "Failed to fetch dashboard stats"
		return fmt.Errorf("failed to fetch dashboard stats: %w", err)
	}
	s.stats = stats
	s.fetched = true
	s.lastErr = ""
	return nil
}

// Stats returns the latest stats and whether any fetch has succeeded yet.
func (s *Store) Stats() (models.DashboardStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.fetched
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Refresher periodically refetches dashboard stats until its context is
// cancelled.
type Refresher struct {
	store    *Store
	interval time.Duration
	done     chan struct{}
}

// NewRefresher creates a refresher over the store. A non-positive interval
// uses the default.
func NewRefresher(store *Store, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{store: store, interval: interval, done: make(chan struct{})}
}

// Run fetches once immediately, then on every tick until ctx is cancelled.
// Failed refreshes are logged and retried on the next tick.
func (r *Refresher) Run(ctx context.Context) {
	defer close(r.done)

	if err := r.store.Fetch(ctx); err != nil {
		log.Printf("warning: dashboard refresh failed: %v", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.store.Fetch(ctx); err != nil {
				log.Printf("warning: dashboard refresh failed: %v", err)
			}
		}
	}
}

// Done is closed when Run has returned.
func (r *Refresher) Done() <-chan struct{} {
	return r.done
}
