// ABOUTME: Tests for the store registry
// ABOUTME: Covers the auto-persist switch over the snapshot cache
package store

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/cache"
	"github.com/nordflytt/flyttcrm/models"
)

func newRegistryFixture(t *testing.T, autoPersist bool) (*Registry, *cache.Store) {
	t.Helper()
	snapshots, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { _ = snapshots.Close() })

	backend := &leadBackend{leads: []models.Lead{
		{ID: "l1", Name: "Anna Andersson", Status: models.LeadStatusNew},
	}}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, nil)
	return NewRegistry(client, snapshots, autoPersist), snapshots
}

func TestRegistryPersistsSnapshots(t *testing.T) {
	stores, snapshots := newRegistryFixture(t, true)

	if err := stores.Leads.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	keys, err := snapshots.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	found := false
	for _, k := range keys {
		if k == leadsKey {
			found = true
		}
	}
	if !found {
		t.Errorf("snapshot keys = %v, want %s", keys, leadsKey)
	}
}

func TestRegistryAutoPersistOffWritesNothing(t *testing.T) {
	stores, snapshots := newRegistryFixture(t, false)

	if err := stores.Leads.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if got := stores.Leads.Leads(); len(got) != 1 {
		t.Fatalf("got %d leads, want 1", len(got))
	}

	keys, err := snapshots.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("snapshot keys = %v, want none with auto-persist off", keys)
	}
}
