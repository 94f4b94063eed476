// ABOUTME: Lead store with optimistic updates and revert-on-failure
// ABOUTME: Falls back to demo leads when the backend cannot be reached
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/cache"
	"github.com/nordflytt/flyttcrm/models"
)

// LeadStore holds the lead list, the current selection and the last sync
// error. All methods are safe for concurrent use.
type LeadStore struct {
	mu         sync.RWMutex
	client     *api.Client
	cache      *cache.Store
	leads      []models.Lead
	selectedID string
	loading    bool
	lastErr    string
}

type leadSnapshot struct {
	Leads []models.Lead `json:"leads"`
}

func NewLeadStore(client *api.Client, c *cache.Store) *LeadStore {
	s := &LeadStore{client: client, cache: c}
	s.rehydrate()
	return s
}

func (s *LeadStore) rehydrate() {
	if s.cache == nil {
		return
	}
	var snap leadSnapshot
	switch err := s.cache.Load(leadsKey, &snap); {
	case err == nil:
		s.leads = snap.Leads
	case errors.Is(err, cache.ErrNotFound):
	case errors.Is(err, cache.ErrSnapshotVersion):
		log.Printf("warning: discarding stale %s snapshot", leadsKey)
		if err := s.cache.Delete(leadsKey); err != nil {
			log.Printf("warning: failed to delete stale snapshot %s: %v", leadsKey, err)
		}
	default:
		log.Printf("warning: failed to load %s snapshot: %v", leadsKey, err)
	}
}

func (s *LeadStore) persistLocked() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(leadsKey, leadSnapshot{Leads: s.leads}); err != nil {
		log.Printf("warning: failed to persist %s: %v", leadsKey, err)
	}
}

func (s *LeadStore) indexLocked(id string) int {
	for i := range s.leads {
		if s.leads[i].ID == id {
			return i
		}
	}
	return -1
}

// FetchAll replaces the list with the backend's leads. On failure the error
// is recorded and the demo leads are substituted so the pipeline stays
// usable, and the original error is returned.
func (s *LeadStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	leads, err := s.client.ListLeads(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = "Failed to fetch leads"
		s.leads = DemoLeads()
		s.persistLocked()
		return fmt.Errorf("failed to fetch leads: %w", err)
	}
	s.leads = leads
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// Create posts the lead to the backend and appends the returned record.
// Nothing is added locally when the request fails.
func (s *LeadStore) Create(ctx context.Context, lead models.Lead) (models.Lead, error) {
	if lead.ID == "" {
		lead.ID = models.NewID()
	}
	now := time.Now()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = now
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}

	created, err := s.client.CreateLead(ctx, lead)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = "Failed to create lead"
		return models.Lead{}, fmt.Errorf("failed to create lead: %w", err)
	}
	s.leads = append(s.leads, created)
	s.lastErr = ""
	s.persistLocked()
	return created, nil
}

// Update applies the patch locally first, then syncs. If the backend rejects
// the update the previous state is restored and the error is returned, so
// callers can refetch or retry.
func (s *LeadStore) Update(ctx context.Context, id string, patch models.LeadPatch) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("lead %s not found", id)
	}
	prev := s.leads[idx]
	patch.Apply(&s.leads[idx])
	s.leads[idx].UpdatedAt = time.Now()
	s.persistLocked()
	s.mu.Unlock()

	updated, err := s.client.UpdateLead(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if idx := s.indexLocked(id); idx >= 0 {
			s.leads[idx] = prev
		}
		s.lastErr = "Failed to update lead"
		s.persistLocked()
		return fmt.Errorf("failed to update lead %s: %w", id, err)
	}
	if idx := s.indexLocked(id); idx >= 0 {
		s.leads[idx] = updated
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// MoveStage moves a lead to another pipeline stage.
func (s *LeadStore) MoveStage(ctx context.Context, id, stage string) error {
	return s.Update(ctx, id, models.LeadPatch{Status: &stage})
}

// Delete removes the lead on the backend first, then locally. A deleted lead
// that was selected clears the selection.
func (s *LeadStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteLead(ctx, id); err != nil {
		s.mu.Lock()
		s.lastErr = "Failed to delete lead"
		s.mu.Unlock()
		return fmt.Errorf("failed to delete lead %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.leads = append(s.leads[:idx], s.leads[idx+1:]...)
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// ConvertToCustomer creates a customer from the lead's contact details and
// deletes the lead. The lead is kept if customer creation fails.
func (s *LeadStore) ConvertToCustomer(ctx context.Context, id string, customers *CustomerStore) (models.Customer, error) {
	lead, ok := s.Get(id)
	if !ok {
		return models.Customer{}, fmt.Errorf("lead %s not found", id)
	}

	created, err := customers.Create(ctx, models.Customer{
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		CustomerType: models.CustomerTypePrivate,
		Notes:        lead.Notes,
		Status:       models.CustomerStatusActive,
	})
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to convert lead %s: %w", id, err)
	}

	if err := s.Delete(ctx, id); err != nil {
		log.Printf("warning: lead %s converted but not removed: %v", id, err)
	}
	return created, nil
}

// Get returns the lead with the given ID.
func (s *LeadStore) Get(id string) (models.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.leads[idx], true
	}
	return models.Lead{}, false
}

// Leads returns a copy of the current list.
func (s *LeadStore) Leads() []models.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// Select marks a lead as the current selection.
func (s *LeadStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

// Selected returns the currently selected lead, if any.
func (s *LeadStore) Selected() (models.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return models.Lead{}, false
	}
	if idx := s.indexLocked(s.selectedID); idx >= 0 {
		return s.leads[idx], true
	}
	return models.Lead{}, false
}

func (s *LeadStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

// Loading reports whether a fetch is in flight.
func (s *LeadStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last recorded sync error message, empty when the last
// operation succeeded.
func (s *LeadStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
