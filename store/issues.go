// ABOUTME: Issue tracker store, local-first with snapshot persistence
// ABOUTME: The backend has no issue endpoints yet, so mutations stay local
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

type IssueStore struct {
	mu         sync.RWMutex
	cache      *cache.Store
	issues     []models.Issue
	selectedID string
}

type issueSnapshot struct {
	Issues []models.Issue `json:"issues"`
}

func NewIssueStore(c *cache.Store) *IssueStore {
	s := &IssueStore{cache: c}
	s.rehydrate()
	return s
}

func (s *IssueStore) rehydrate() {
	if s.cache == nil {
		return
	}
	var snap issueSnapshot
	switch err := s.cache.Load(issuesKey, &snap); {
	case err == nil:
		s.issues = snap.Issues
	case errors.Is(err, cache.ErrNotFound):
	case errors.Is(err, cache.ErrSnapshotVersion):
		log.Printf("warning: discarding stale %s snapshot", issuesKey)
		if err := s.cache.Delete(issuesKey); err != nil {
			log.Printf("warning: failed to delete stale snapshot %s: %v", issuesKey, err)
		}
	default:
		log.Printf("warning: failed to load %s snapshot: %v", issuesKey, err)
	}
}

func (s *IssueStore) persistLocked() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(issuesKey, issueSnapshot{Issues: s.issues}); err != nil {
		log.Printf("warning: failed to persist %s: %v", issuesKey, err)
	}
}

func (s *IssueStore) indexLocked(id string) int {
	for i := range s.issues {
		if s.issues[i].ID == id {
			return i
		}
	}
	return -1
}

// Create adds an issue locally and returns it with ID and timestamps filled.
func (s *IssueStore) Create(issue models.Issue) models.Issue {
	if issue.ID == "" {
		issue.ID = models.NewID()
	}
	now := time.Now()
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now
	}
	issue.UpdatedAt = now
	if issue.Status == "" {
		issue.Status = models.IssueStatusOpen
	}
	if issue.Priority == "" {
		issue.Priority = models.PriorityMedium
	}
	if issue.Type == "" {
		issue.Type = models.IssueTypeOther
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = append(s.issues, issue)
	s.persistLocked()
	return issue
}

// Update applies the patch to a local issue.
func (s *IssueStore) Update(id string, patch models.IssuePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("issue %s not found", id)
	}
	patch.Apply(&s.issues[idx])
	s.issues[idx].UpdatedAt = time.Now()
	s.persistLocked()
	return nil
}

// Delete removes a local issue, clearing the selection if it pointed there.
func (s *IssueStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("issue %s not found", id)
	}
	s.issues = append(s.issues[:idx], s.issues[idx+1:]...)
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.persistLocked()
	return nil
}

// AddComment appends a comment to an issue and returns the stored comment.
func (s *IssueStore) AddComment(issueID string, comment models.Comment) (models.Comment, error) {
	if comment.ID == "" {
		comment.ID = models.NewID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(issueID)
	if idx < 0 {
		return models.Comment{}, fmt.Errorf("issue %s not found", issueID)
	}
	s.issues[idx].Comments = append(s.issues[idx].Comments, comment)
	s.issues[idx].UpdatedAt = time.Now()
	s.persistLocked()
	return comment, nil
}

// Get returns the issue with the given ID.
func (s *IssueStore) Get(id string) (models.Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.issues[idx], true
	}
	return models.Issue{}, false
}

// Issues returns a copy of the current list.
func (s *IssueStore) Issues() []models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Issue, len(s.issues))
	copy(out, s.issues)
	return out
}

// Open returns issues that are neither resolved nor closed.
func (s *IssueStore) Open() []models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Issue
	for _, i := range s.issues {
		if i.Status == models.IssueStatusOpen || i.Status == models.IssueStatusInProgress {
			out = append(out, i)
		}
	}
	return out
}

func (s *IssueStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

func (s *IssueStore) Selected() (models.Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return models.Issue{}, false
	}
	if idx := s.indexLocked(s.selectedID); idx >= 0 {
		return s.issues[idx], true
	}
	return models.Issue{}, false
}

func (s *IssueStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}
