// ABOUTME: Activity log store, local-first with snapshot persistence
// ABOUTME: Tracks calls, emails, meetings, notes and tasks per entity
package store

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nordflytt/flyttcrm/cache"
	"github.com/nordflytt/flyttcrm/models"
)

type ActivityStore struct {
	mu         sync.RWMutex
	cache      *cache.Store
	activities []models.Activity
}

type activitySnapshot struct {
	Activities []models.Activity `json:"activities"`
}

func NewActivityStore(c *cache.Store) *ActivityStore {
	s := &ActivityStore{cache: c}
	s.rehydrate()
	return s
}

func (s *ActivityStore) rehydrate() {
	if s.cache == nil {
		return
	}
	var snap activitySnapshot
	switch err := s.cache.Load(activitiesKey, &snap); {
	case err == nil:
		s.activities = snap.Activities
	case errors.Is(err, cache.ErrNotFound):
	case errors.Is(err, cache.ErrSnapshotVersion):
		log.Printf("warning: discarding stale %s snapshot", activitiesKey)
		if err := s.cache.Delete(activitiesKey); err != nil {
			log.Printf("warning: failed to delete stale snapshot %s: %v", activitiesKey, err)
		}
	default:
		log.Printf("warning: failed to load %s snapshot: %v", activitiesKey, err)
	}
}

func (s *ActivityStore) persistLocked() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(activitiesKey, activitySnapshot{Activities: s.activities}); err != nil {
		log.Printf("warning: failed to persist %s: %v", activitiesKey, err)
	}
}

func (s *ActivityStore) indexLocked(id string) int {
	for i := range s.activities {
		if s.activities[i].ID == id {
			return i
		}
	}
	return -1
}

// Add records an activity and returns it with ID and timestamp filled.
// Newest entries go first, matching the feed ordering.
func (s *ActivityStore) Add(activity models.Activity) models.Activity {
	if activity.ID == "" {
		activity.ID = models.NewID()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	if activity.Type == "" {
		activity.Type = models.ActivityNote
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append([]models.Activity{activity}, s.activities...)
	s.persistLocked()
	return activity
}

// Update applies the patch to a recorded activity.
func (s *ActivityStore) Update(id string, patch models.ActivityPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("activity %s not found", id)
	}
	patch.Apply(&s.activities[idx])
	s.persistLocked()
	return nil
}

// Complete marks a task activity as done.
func (s *ActivityStore) Complete(id string) error {
	done := true
	return s.Update(id, models.ActivityPatch{Completed: &done})
}

// Delete removes a recorded activity.
func (s *ActivityStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("activity %s not found", id)
	}
	s.activities = append(s.activities[:idx], s.activities[idx+1:]...)
	s.persistLocked()
	return nil
}

// ForEntity returns the activities linked to one entity, newest first.
func (s *ActivityStore) ForEntity(entityType, entityID string) []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Activity
	for _, a := range s.activities {
		if a.EntityType == entityType && a.EntityID == entityID {
			out = append(out, a)
		}
	}
	return out
}

// Activities returns a copy of the full feed, newest first.
func (s *ActivityStore) Activities() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// PendingTasks returns incomplete task activities.
func (s *ActivityStore) PendingTasks() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Activity
	for _, a := range s.activities {
		if a.Type == models.ActivityTask && !a.Completed {
			out = append(out, a)
		}
	}
	return out
}
