// ABOUTME: Customer store with backend-first creates and optimistic updates
// ABOUTME: Mirrors the lead store's sync and revert behavior
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/cache"
	"github.com/nordflytt/flyttcrm/models"
)

type CustomerStore struct {
	mu         sync.RWMutex
	client     *api.Client
	cache      *cache.Store
	customers  []models.Customer
	selectedID string
	loading    bool
	lastErr    string
}

type customerSnapshot struct {
	Customers []models.Customer `json:"customers"`
}

func NewCustomerStore(client *api.Client, c *cache.Store) *CustomerStore {
	s := &CustomerStore{client: client, cache: c}
	s.rehydrate()
	return s
}

func (s *CustomerStore) rehydrate() {
	if s.cache == nil {
		return
	}
	var snap customerSnapshot
	switch err := s.cache.Load(customersKey, &snap); {
	case err == nil:
		s.customers = snap.Customers
	case errors.Is(err, cache.ErrNotFound):
	case errors.Is(err, cache.ErrSnapshotVersion):
		log.Printf("warning: discarding stale %s snapshot", customersKey)
		if err := s.cache.Delete(customersKey); err != nil {
			log.Printf("warning: failed to delete stale snapshot %s: %v", customersKey, err)
		}
	default:
		log.Printf("warning: failed to load %s snapshot: %v", customersKey, err)
	}
}

func (s *CustomerStore) persistLocked() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(customersKey, customerSnapshot{Customers: s.customers}); err != nil {
		log.Printf("warning: failed to persist %s: %v", customersKey, err)
	}
}

func (s *CustomerStore) indexLocked(id string) int {
	for i := range s.customers {
		if s.customers[i].ID == id {
			return i
		}
	}
	return -1
}

// FetchAll replaces the list with the backend's customers.
func (s *CustomerStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	customers, err := s.client.ListCustomers(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = "Failed to fetch customers"
		return fmt.Errorf("failed to fetch customers: %w", err)
	}
	s.customers = customers
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// Create posts the customer to the backend and appends the returned record.
func (s *CustomerStore) Create(ctx context.Context, customer models.Customer) (models.Customer, error) {
	if customer.ID == "" {
		customer.ID = models.NewID()
	}
	now := time.Now()
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	customer.UpdatedAt = now
	if customer.Status == "" {
		customer.Status = models.CustomerStatusActive
	}
	if customer.CustomerType == "" {
		customer.CustomerType = models.CustomerTypePrivate
	}

	created, err := s.client.CreateCustomer(ctx, customer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = "Failed to create customer"
		return models.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}
	s.customers = append(s.customers, created)
	s.lastErr = ""
	s.persistLocked()
	return created, nil
}

// Update applies the patch locally, syncs, and reverts on failure.
func (s *CustomerStore) Update(ctx context.Context, id string, patch models.CustomerPatch) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("customer %s not found", id)
	}
	prev := s.customers[idx]
	patch.Apply(&s.customers[idx])
	s.customers[idx].UpdatedAt = time.Now()
	s.persistLocked()
	s.mu.Unlock()

	updated, err := s.client.UpdateCustomer(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if idx := s.indexLocked(id); idx >= 0 {
			s.customers[idx] = prev
		}
		s.lastErr = "Failed to update customer"
		s.persistLocked()
		return fmt.Errorf("failed to update customer %s: %w", id, err)
	}
	if idx := s.indexLocked(id); idx >= 0 {
		s.customers[idx] = updated
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// Delete removes the customer on the backend first, then locally.
func (s *CustomerStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteCustomer(ctx, id); err != nil {
		s.mu.Lock()
		s.lastErr = "Failed to delete customer"
		s.mu.Unlock()
		return fmt.Errorf("failed to delete customer %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.customers = append(s.customers[:idx], s.customers[idx+1:]...)
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// RecordBooking bumps the customer's booking stats after a job is created.
func (s *CustomerStore) RecordBooking(ctx context.Context, id string, value int64, bookedAt time.Time) error {
	s.mu.RLock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.RUnlock()
		return fmt.Errorf("customer %s not found", id)
	}
	count := s.customers[idx].BookingCount + 1
	total := s.customers[idx].TotalValue + value
	s.mu.RUnlock()

	return s.Update(ctx, id, models.CustomerPatch{
		BookingCount: &count,
		TotalValue:   &total,
		LastBooking:  &bookedAt,
	})
}

// Get returns the customer with the given ID.
func (s *CustomerStore) Get(id string) (models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.customers[idx], true
	}
	return models.Customer{}, false
}

// Customers returns a copy of the current list.
func (s *CustomerStore) Customers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// Search returns customers whose name, email or phone contains the query,
// case-insensitively.
func (s *CustomerStore) Search(query string) []models.Customer {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Customer
	for _, c := range s.customers {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(c.Phone, q) {
			out = append(out, c)
		}
	}
	return out
}

func (s *CustomerStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

func (s *CustomerStore) Selected() (models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return models.Customer{}, false
	}
	if idx := s.indexLocked(s.selectedID); idx >= 0 {
		return s.customers[idx], true
	}
	return models.Customer{}, false
}

func (s *CustomerStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

func (s *CustomerStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *CustomerStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
