// ABOUTME: Tests for the dashboard store and refresher
// ABOUTME: Uses a fake backend and a short refresh interval
package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nordflytt/flyttcrm/api"
)

func TestFetchDecodesStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/crm/dashboard" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"total_customers": 42, "total_leads": 7, "active_jobs": 3, "conversion_rate": 12.5}`))
	}))
	defer server.Close()

	store := NewStore(api.NewClient(server.URL, nil))
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	stats, ok := store.Stats()
	if !ok {
		t.Fatal("Stats() should report fetched")
	}
	if stats.TotalCustomers != 42 || stats.TotalLeads != 7 || stats.ActiveJobs != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ConversionRate != 12.5 {
		t.Errorf("ConversionRate = %f, want 12.5", stats.ConversionRate)
	}
}

func TestFetchFailureRecordsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	store := NewStore(api.NewClient(server.URL, nil))
	if err := store.Fetch(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if store.Err() == "" {
		t.Error("Err() should record the failure")
	}
	if _, ok := store.Stats(); ok {
		t.Error("Stats() should not report fetched after a failed fetch")
	}
}

func TestRefresherFetchesUntilCancelled(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"total_customers": 1}`))
	}))
	defer server.Close()

	store := NewStore(api.NewClient(server.URL, nil))
	refresher := NewRefresher(store, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go refresher.Run(ctx)

	// Wait for the immediate fetch plus at least one tick.
	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&hits) < 2 {
		select {
		case <-deadline:
			t.Fatal("refresher never ticked")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-refresher.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("refresher did not stop after cancel")
	}

	if _, ok := store.Stats(); !ok {
		t.Error("stats should be populated by the refresher")
	}
}

func TestNewRefresherDefaultsInterval(t *testing.T) {
	r := NewRefresher(NewStore(nil), 0)
	if r.interval != DefaultRefreshInterval {
		t.Errorf("interval = %v, want %v", r.interval, DefaultRefreshInterval)
	}
}
