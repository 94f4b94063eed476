// ABOUTME: Tests for the job store
// ABOUTME: Covers workflow-guarded advancement, revert, and day metrics
package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/models"
)

type jobBackend struct {
	jobs []models.Job
	fail bool
	hits int
}

func (b *jobBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/crm/bookings", func(w http.ResponseWriter, r *http.Request) {
		b.hits++
		if b.fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"bookings": b.jobs})
	})
	mux.HandleFunc("/api/crm/jobs", func(w http.ResponseWriter, r *http.Request) {
		b.hits++
		if b.fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		var job models.Job
		_ = json.NewDecoder(r.Body).Decode(&job)
		b.jobs = append(b.jobs, job)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"job": job})
	})
	mux.HandleFunc("/api/crm/jobs/", func(w http.ResponseWriter, r *http.Request) {
		b.hits++
		if b.fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/crm/jobs/")
		switch r.Method {
		case http.MethodPut:
			var patch models.JobPatch
			_ = json.NewDecoder(r.Body).Decode(&patch)
			for i := range b.jobs {
				if b.jobs[i].ID == id {
					patch.Apply(&b.jobs[i])
					_ = json.NewEncoder(w).Encode(map[string]interface{}{"job": b.jobs[i]})
					return
				}
			}
			http.NotFound(w, r)
		case http.MethodDelete:
			for i := range b.jobs {
				if b.jobs[i].ID == id {
					b.jobs = append(b.jobs[:i], b.jobs[i+1:]...)
					break
				}
			}
			_, _ = w.Write([]byte(`{}`))
		}
	})
	return mux
}

func newJobFixture(t *testing.T, backend *jobBackend) *JobStore {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return NewJobStore(api.NewClient(server.URL, nil), nil)
}

func TestJobAdvanceStatusHappyPath(t *testing.T) {
	backend := &jobBackend{jobs: []models.Job{
		{ID: "j1", BookingNumber: "NF-001", Status: models.JobStatusConfirmed},
	}}
	jobs := newJobFixture(t, backend)
	if err := jobs.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if err := jobs.AdvanceStatus(context.Background(), "j1", models.JobStatusOnRoute); err != nil {
		t.Fatalf("AdvanceStatus: %v", err)
	}

	job, ok := jobs.Get("j1")
	if !ok {
		t.Fatal("job disappeared")
	}
	if job.Status != models.JobStatusOnRoute {
		t.Errorf("status = %s, want on_route", job.Status)
	}
	if job.StartedAt == nil {
		t.Error("StartedAt should be stamped when going on route")
	}
}

func TestJobAdvanceStatusRejectedWithoutSync(t *testing.T) {
	backend := &jobBackend{jobs: []models.Job{
		{ID: "j1", BookingNumber: "NF-001", Status: models.JobStatusScheduled},
	}}
	jobs := newJobFixture(t, backend)
	if err := jobs.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	hitsBefore := backend.hits

	err := jobs.AdvanceStatus(context.Background(), "j1", models.JobStatusCompleted)
	if err == nil {
		t.Fatal("scheduled -> completed should be rejected")
	}
	var transitionErr *TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("error = %T, want *TransitionError", err)
	}
	if transitionErr.Reason == "" {
		t.Error("rejection should carry a reason")
	}

	job, _ := jobs.Get("j1")
	if job.Status != models.JobStatusScheduled {
		t.Errorf("rejected transition must not change status, got %s", job.Status)
	}
	if backend.hits != hitsBefore {
		t.Error("rejected transition must not hit the backend")
	}
}

func TestJobAdvanceStatusRevertsOnSyncFailure(t *testing.T) {
	backend := &jobBackend{jobs: []models.Job{
		{ID: "j1", BookingNumber: "NF-001", Status: models.JobStatusConfirmed},
	}}
	jobs := newJobFixture(t, backend)
	if err := jobs.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	backend.fail = true
	err := jobs.AdvanceStatus(context.Background(), "j1", models.JobStatusOnRoute)
	if err == nil {
		t.Fatal("expected sync error")
	}

	job, _ := jobs.Get("j1")
	if job.Status != models.JobStatusConfirmed {
		t.Errorf("status = %s, want reverted to confirmed", job.Status)
	}
	if job.StartedAt != nil {
		t.Error("StartedAt should be reverted with the status")
	}
	if jobs.Err() == "" {
		t.Error("Err() should record the failure")
	}
}

func TestJobCreateMintsBookingNumber(t *testing.T) {
	backend := &jobBackend{}
	jobs := newJobFixture(t, backend)

	job, err := jobs.Create(context.Background(), models.Job{
		CustomerID:  "c1",
		FromAddress: "Storgatan 1",
		ToAddress:   "Parkvägen 5",
		MoveDate:    time.Now(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(job.BookingNumber, "NF-") {
		t.Errorf("booking number = %q, want NF- prefix", job.BookingNumber)
	}
	if job.Status != models.JobStatusScheduled {
		t.Errorf("status = %s, want scheduled", job.Status)
	}
}

func TestJobFilter(t *testing.T) {
	backend := &jobBackend{jobs: []models.Job{
		{ID: "j1", BookingNumber: "NF-001", CustomerName: "Anna Andersson", Status: models.JobStatusScheduled, Priority: models.PriorityHigh},
		{ID: "j2", BookingNumber: "NF-002", CustomerName: "Företaget AB", Status: models.JobStatusOnRoute, Priority: models.PriorityMedium},
	}}
	jobs := newJobFixture(t, backend)
	if err := jobs.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	byStatus := jobs.Filter(Filter{Status: models.JobStatusOnRoute})
	if len(byStatus) != 1 || byStatus[0].ID != "j2" {
		t.Errorf("status filter = %d results, want j2", len(byStatus))
	}

	bySearch := jobs.Filter(Filter{Search: "anna"})
	if len(bySearch) != 1 || bySearch[0].ID != "j1" {
		t.Errorf("search filter = %d results, want j1", len(bySearch))
	}

	byBoth := jobs.Filter(Filter{Search: "nf-", Priority: models.PriorityHigh})
	if len(byBoth) != 1 || byBoth[0].ID != "j1" {
		t.Errorf("combined filter = %d results, want j1", len(byBoth))
	}
}

func TestJobMetrics(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	hours := 5.0
	backend := &jobBackend{jobs: []models.Job{
		{ID: "j1", Status: models.JobStatusOnRoute},
		{ID: "j2", Status: models.JobStatusLoading},
		{ID: "j3", Status: models.JobStatusCompleted, CompletedAt: &now, ActualHours: &hours},
		{ID: "j4", Status: models.JobStatusCompleted, CompletedAt: &yesterday},
		{ID: "j5", Status: models.JobStatusScheduled},
	}}
	jobs := newJobFixture(t, backend)
	if err := jobs.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	m := jobs.Metrics(now)
	if m.Total != 5 {
		t.Errorf("Total = %d, want 5", m.Total)
	}
	if m.Active != 2 {
		t.Errorf("Active = %d, want 2", m.Active)
	}
	if m.CompletedToday != 1 {
		t.Errorf("CompletedToday = %d, want 1", m.CompletedToday)
	}
	if m.AvgHours != 5.0 {
		t.Errorf("AvgHours = %f, want 5.0", m.AvgHours)
	}
}
