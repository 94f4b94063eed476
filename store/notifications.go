// ABOUTME: In-app notification store, local-first with snapshot persistence
// ABOUTME: Tracks the unread count alongside the notification list
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

type NotificationStore struct {
	mu            sync.RWMutex
	cache         *cache.Store
	notifications []models.Notification
	unread        int
}

type notificationSnapshot struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

func NewNotificationStore(c *cache.Store) *NotificationStore {
	s := &NotificationStore{cache: c}
	s.rehydrate()
	return s
}

func (s *NotificationStore) rehydrate() {
	if s.cache == nil {
		return
	}
	var snap notificationSnapshot
	switch err := s.cache.Load(notificationsKey, &snap); {
	case err == nil:
		s.notifications = snap.Notifications
		s.unread = snap.Unread
	case errors.Is(err, cache.ErrNotFound):
	case errors.Is(err, cache.ErrSnapshotVersion):
		log.Printf("warning: discarding stale %s snapshot", notificationsKey)
		if err := s.cache.Delete(notificationsKey); err != nil {
			log.Printf("warning: failed to delete stale snapshot %s: %v", notificationsKey, err)
		}
	default:
		log.Printf("warning: failed to load %s snapshot: %v", notificationsKey, err)
	}
}

func (s *NotificationStore) persistLocked() {
	if s.cache == nil {
		return
	}
	snap := notificationSnapshot{Notifications: s.notifications, Unread: s.unread}
	if err := s.cache.Save(notificationsKey, snap); err != nil {
		log.Printf("warning: failed to persist %s: %v", notificationsKey, err)
	}
}

func (s *NotificationStore) indexLocked(id string) int {
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			return i
		}
	}
	return -1
}

// Add prepends a notification and bumps the unread count.
func (s *NotificationStore) Add(n models.Notification) models.Notification {
	if n.ID == "" {
		n.ID = models.NewID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Type == "" {
		n.Type = models.NotificationInfo
	}
	n.Read = false

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append([]models.Notification{n}, s.notifications...)
	s.unread++
	s.persistLocked()
	return n
}

// MarkRead marks one notification as read. Already-read entries are a no-op.
func (s *NotificationStore) MarkRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("notification %s not found", id)
	}
	if !s.notifications[idx].Read {
		s.notifications[idx].Read = true
		s.unread--
	}
	s.persistLocked()
	return nil
}

// MarkAllRead marks every notification as read and zeroes the unread count.
func (s *NotificationStore) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
	s.unread = 0
	s.persistLocked()
}

// Delete removes a notification, adjusting the unread count if needed.
func (s *NotificationStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("notification %s not found", id)
	}
	if !s.notifications[idx].Read {
		s.unread--
	}
	s.notifications = append(s.notifications[:idx], s.notifications[idx+1:]...)
	s.persistLocked()
	return nil
}

// Notifications returns a copy of the list, newest first.
func (s *NotificationStore) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Unread returns the current unread count.
func (s *NotificationStore) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}
