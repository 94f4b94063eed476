// ABOUTME: Job store with workflow-guarded status transitions
// ABOUTME: Also derives the day view: filtering, search and daily metrics
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
	"github.com/nordflytt/flyttcrm/workflow"
)

type JobStore struct {
	mu         sync.RWMutex
	client     *api.Client
	cache      *cache.Store
	jobs       []models.Job
	selectedID string
	loading    bool
	lastErr    string
}

type jobSnapshot struct {
	Jobs []models.Job `json:"jobs"`
}

func NewJobStore(client *api.Client, c *cache.Store) *JobStore {
	s := &JobStore{client: client, cache: c}
	s.rehydrate()
	return s
}

func (s *JobStore) rehydrate() {
	if s.cache == nil {
		return
	}
	var snap jobSnapshot
	switch err := s.cache.Load(jobsKey, &snap); {
	case err == nil:
		s.jobs = snap.Jobs
	case errors.Is(err, cache.ErrNotFound):
	case errors.Is(err, cache.ErrSnapshotVersion):
		log.Printf("warning: discarding stale %s snapshot", jobsKey)
		if err := s.cache.Delete(jobsKey); err != nil {
			log.Printf("warning: failed to delete stale snapshot %s: %v", jobsKey, err)
		}
	default:
		log.Printf("warning: failed to load %s snapshot: %v", jobsKey, err)
	}
}

func (s *JobStore) persistLocked() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(jobsKey, jobSnapshot{Jobs: s.jobs}); err != nil {
		log.Printf("warning: failed to persist %s: %v", jobsKey, err)
	}
}

func (s *JobStore) indexLocked(id string) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

// FetchAll replaces the list with the backend's booking feed.
func (s *JobStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	jobs, err := s.client.ListJobs(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = "Failed to fetch jobs"
		return fmt.Errorf("failed to fetch jobs: %w", err)
	}
	s.jobs = jobs
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// Create posts the job to the backend and appends the returned record. A
// missing booking number is minted client-side.
func (s *JobStore) Create(ctx context.Context, job models.Job) (models.Job, error) {
	if job.ID == "" {
		job.ID = models.NewID()
	}
	if job.BookingNumber == "" {
		job.BookingNumber = models.NewBookingNumber()
	}
	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = models.JobStatusScheduled
	}

	created, err := s.client.CreateJob(ctx, job)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = "Failed to create job"
		return models.Job{}, fmt.Errorf("failed to create job: %w", err)
	}
	s.jobs = append(s.jobs, created)
	s.lastErr = ""
	s.persistLocked()
	return created, nil
}

// Update applies the patch locally, syncs, and reverts on failure.
func (s *JobStore) Update(ctx context.Context, id string, patch models.JobPatch) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("job %s not found", id)
	}
	prev := s.jobs[idx]
	patch.Apply(&s.jobs[idx])
	s.jobs[idx].UpdatedAt = time.Now()
	s.persistLocked()
	s.mu.Unlock()

	updated, err := s.client.UpdateJob(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if idx := s.indexLocked(id); idx >= 0 {
			s.jobs[idx] = prev
		}
		s.lastErr = "Failed to update job"
		s.persistLocked()
		return fmt.Errorf("failed to update job %s: %w", id, err)
	}
	if idx := s.indexLocked(id); idx >= 0 {
		s.jobs[idx] = updated
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// AdvanceStatus moves a job along the workflow. Disallowed transitions
// return a TransitionError without touching the job or the backend. Allowed
// transitions are applied optimistically (including the started/completed
// timestamps the workflow stamps) and reverted if the sync fails.
func (s *JobStore) AdvanceStatus(ctx context.Context, id, next string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("job %s not found", id)
	}
	prev := s.jobs[idx]
	res := workflow.Apply(&s.jobs[idx], next, time.Now())
	if !res.Allowed {
		s.mu.Unlock()
		return &TransitionError{JobID: id, Reason: res.Reason}
	}
	cur := s.jobs[idx]
	s.persistLocked()
	s.mu.Unlock()

	patch := models.JobPatch{Status: &cur.Status}
	if cur.StartedAt != nil && prev.StartedAt == nil {
		patch.StartedAt = cur.StartedAt
	}
	if cur.CompletedAt != nil && prev.CompletedAt == nil {
		patch.CompletedAt = cur.CompletedAt
	}

	updated, err := s.client.UpdateJob(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if idx := s.indexLocked(id); idx >= 0 {
			s.jobs[idx] = prev
		}
		s.lastErr = "Failed to update job status"
		s.persistLocked()
		return fmt.Errorf("failed to advance job %s to %s: %w", id, next, err)
	}
	if idx := s.indexLocked(id); idx >= 0 {
		s.jobs[idx] = updated
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// Delete removes the job on the backend first, then locally.
func (s *JobStore) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteJob(ctx, id); err != nil {
		s.mu.Lock()
		s.lastErr = "Failed to delete job"
		s.mu.Unlock()
		return fmt.Errorf("failed to delete job %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.jobs = append(s.jobs[:idx], s.jobs[idx+1:]...)
	}
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.lastErr = ""
	s.persistLocked()
	return nil
}

// Get returns the job with the given ID.
func (s *JobStore) Get(id string) (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexLocked(id); idx >= 0 {
		return s.jobs[idx], true
	}
	return models.Job{}, false
}

// Jobs returns a copy of the current list.
func (s *JobStore) Jobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Filter narrows the job list for the day view. Empty fields match
// everything.
type Filter struct {
	Search   string
	Status   string
	Priority string
}

// Filter returns jobs matching the filter. Search covers booking number,
// customer name and both addresses.
func (s *JobStore) Filter(f Filter) []models.Job {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Job
	for _, j := range s.jobs {
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.Priority != "" && j.Priority != f.Priority {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(j.BookingNumber), q) &&
			!strings.Contains(strings.ToLower(j.CustomerName), q) &&
			!strings.Contains(strings.ToLower(j.FromAddress), q) &&
			!strings.Contains(strings.ToLower(j.ToAddress), q) {
			continue
		}
		out = append(out, j)
	}
	return out
}

// DayMetrics summarizes the operational day.
type DayMetrics struct {
	Total          int
	Active         int
	CompletedToday int
	AvgHours       float64
}

// Metrics computes the day view numbers relative to now. AvgHours averages
// actual hours over jobs completed today that reported them.
func (s *JobStore) Metrics(now time.Time) DayMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var m DayMetrics
	m.Total = len(s.jobs)
	var hours float64
	var withHours int
	y, mo, d := now.Date()
	for _, j := range s.jobs {
		if workflow.IsActive(j.Status) {
			m.Active++
		}
		if j.Status == models.JobStatusCompleted && j.CompletedAt != nil {
			cy, cmo, cd := j.CompletedAt.Date()
			if cy == y && cmo == mo && cd == d {
				m.CompletedToday++
				if j.ActualHours != nil {
					hours += *j.ActualHours
					withHours++
				}
			}
		}
	}
	if withHours > 0 {
		m.AvgHours = hours / float64(withHours)
	}
	return m
}

func (s *JobStore) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return false
	}
	s.selectedID = id
	return true
}

func (s *JobStore) Selected() (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedID == "" {
		return models.Job{}, false
	}
	if idx := s.indexLocked(s.selectedID); idx >= 0 {
		return s.jobs[idx], true
	}
	return models.Job{}, false
}

func (s *JobStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

func (s *JobStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *JobStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
