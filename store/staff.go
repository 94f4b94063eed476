// ABOUTME: Staff store with job assignment bookkeeping
// ABOUTME: Same sync and revert behavior as the other backend-synced stores
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

type StaffStore struct {
	mu         sync.RWMutex
	client     *api.Client
	cache      *cache.Store
	staff      []models.Staff
	selectedID string
	loading    bool
	lastErr    string
}

type staffSnapshot struct {
	Staff []models.Staff `json:"staff"`
}

func NewStaffStore(client *api.Client, c *cache.Store) *StaffStore {
	s := &StaffStore{client: client, cache: c}
	s.rehydrate()
	return s
}

func (s *StaffStore) rehydrate() {
	if s.cache == nil {
		return
	}
	var snap staffSnapshot
	switch err := s.cache.Load(staffKey, &snap); {
	case err == nil:
		s.staff = snap.Staff
	case errors.Is(err, cache.ErrNotFound):
	case errors.Is(err, cache.ErrSnapshotVersion):
		log.Printf("warning: discarding stale %s snapshot", staffKey)
		if err := s.cache.Delete(staffKey); err != nil {
			log.Printf("warning: failed to delete stale snapshot %s: %v", staffKey, err)
		}
	default:
		log.Printf("warning: failed to load %s snapshot: %v", staffKey, err)
	}
}

func (s *StaffStore) persistLocked() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(staffKey, staffSnapshot{Staff: s.staff}); err != nil {
		log.Printf("warning: failed to persist %s: %v", staffKey, err)
	}
}

func (s *StaffStore) indexLocked(id string) int {
	for i := range s.staff {
		if s.staff[i].ID == id {
			return i
		}
	}
	return -1
}

// FetchAll replaces the list with the backend's staff roster.
func (s *StaffStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	staff, err := s.client.ListStaff(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = "Failed to fetch staff"
		return fmt.Errorf("failed to fetch staff: %w", err)
	}
	s.staff = staff
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// Create posts the staff member to the backend and appends the result.
func (s *StaffStore) Create(ctx context.Context, member models.Staff) (models.Staff, error) {
	if member.ID == "" {
		member.ID = models.NewID()
	}
	now := time.Now()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now
	if member.Status == "" {
		member.Status = models.StaffStatusActive
	}
	if member.HireDate.IsZero() {
		member.HireDate = now
	}

	created, err := s.client.CreateStaff(ctx, member)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = "Failed to create staff member"
		return models.Staff{}, fmt.Errorf("failed to create staff member: %w", err)
	}
	s.staff = append(s.staff, created)
	s.lastErr = ""
	s.persistLocked()
	return created, nil
}

// Update applies the patch locally, syncs, and reverts on failure.
func (s *StaffStore) Update(ctx context.Context, id string, patch models.StaffPatch) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("staff member %s not found", id)
	}
	prev := s.staff[idx]
	patch.Apply(&s.staff[idx])
	s.staff[idx].UpdatedAt = time.Now()
	s.persistLocked()
	s.mu.Unlock()

	updated, err := s.client.UpdateStaff(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if idx := s.indexLocked(id); idx >= 0 {
			s.staff[idx] = prev
		}
		s.lastErr = "Failed to update staff member"
		s.persistLocked()
		return fmt.Errorf("failed to update staff member %s: %w", id, err)
	}
	if idx := s.indexLocked(id); idx >= 0 {
		s.staff[idx] = updated
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// Delete removes the staff member on the backend first, then locally.
func (s *StaffStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteStaff(ctx, id); err != nil {
		s.mu.Lock()
		s.lastErr = "Failed to delete staff member"
		s.mu.Unlock()
		return fmt.Errorf("failed to delete staff member %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.staff = append(s.staff[:idx], s.staff[idx+1:]...)
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// AssignJob adds a job to a staff member's current assignments. Assigning a
// job twice is a no-op.
func (s *StaffStore) AssignJob(ctx context.Context, staffID, jobID string) error {
	s.mu.RLock()
	idx := s.indexLocked(staffID)
	if idx < 0 {
		s.mu.RUnlock()
		return fmt.Errorf("staff member %s not found", staffID)
	}
	for _, j := range s.staff[idx].CurrentJobs {
		if j == jobID {
			s.mu.RUnlock()
			return nil
		}
	}
	jobs := append(append([]string{}, s.staff[idx].CurrentJobs...), jobID)
	s.mu.RUnlock()

	return s.Update(ctx, staffID, models.StaffPatch{CurrentJobs: &jobs})
}

// UnassignJob removes a job from a staff member's current assignments. When
// completed is set the member's completion counter is bumped as well.
func (s *StaffStore) UnassignJob(ctx context.Context, staffID, jobID string, completed bool) error {
	s.mu.RLock()
	idx := s.indexLocked(staffID)
	if idx < 0 {
		s.mu.RUnlock()
		return fmt.Errorf("staff member %s not found", staffID)
	}
	jobs := make([]string, 0, len(s.staff[idx].CurrentJobs))
	for _, j := range s.staff[idx].CurrentJobs {
		if j != jobID {
			jobs = append(jobs, j)
		}
	}
	patch := models.StaffPatch{CurrentJobs: &jobs}
	if completed {
		total := s.staff[idx].TotalJobsCompleted + 1
		patch.TotalJobsCompleted = &total
	}
	s.mu.RUnlock()

	return s.Update(ctx, staffID, patch)
}

// Available returns active staff members with no current assignments.
func (s *StaffStore) Available() []models.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Staff
	for _, m := range s.staff {
		if m.Status == models.StaffStatusActive && len(m.CurrentJobs) == 0 {
			out = append(out, m)
		}
	}
	return out
}

// Get returns the staff member with the given ID.
func (s *StaffStore) Get(id string) (models.Staff, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.staff[idx], true
	}
	return models.Staff{}, false
}

// Staff returns a copy of the current roster.
func (s *StaffStore) Staff() []models.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Staff, len(s.staff))
	copy(out, s.staff)
	return out
}

func (s *StaffStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

func (s *StaffStore) Selected() (models.Staff, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return models.Staff{}, false
	}
	if idx := s.indexLocked(s.selectedID); idx >= 0 {
		return s.staff[idx], true
	}
	return models.Staff{}, false
}

func (s *StaffStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

func (s *StaffStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *StaffStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
