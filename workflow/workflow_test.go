// ABOUTME: Tests for the job status workflow
// ABOUTME: Covers the happy path, rejections, and timestamp stamping
package workflow

import (
	"testing"
	"time"

	"github.com/nordflytt/flyttcrm/models"
)

func TestHappyPathTransitions(t *testing.T) {
	path := []string{
		models.JobStatusScheduled,
		models.JobStatusConfirmed,
		models.JobStatusOnRoute,
		models.JobStatusArrived,
		models.JobStatusLoading,
		models.JobStatusInTransit,
		models.JobStatusUnloading,
		models.JobStatusCompleted,
	}

	for i := 0; i < len(path)-1; i++ {
		res := Transition(path[i], path[i+1])
		if !res.Allowed {
			t.Errorf("Transition(%s, %s) rejected: %s", path[i], path[i+1], res.Reason)
		}
	}
}

func TestCancellationOnlyBeforeDeparture(t *testing.T) {
	if res := Transition(models.JobStatusScheduled, models.JobStatusCancelled); !res.Allowed {
		t.Errorf("scheduled jobs should be cancellable: %s", res.Reason)
	}
	if res := Transition(models.JobStatusConfirmed, models.JobStatusCancelled); !res.Allowed {
		t.Errorf("confirmed jobs should be cancellable: %s", res.Reason)
	}
	for _, status := range ActiveStatuses() {
		if res := Transition(status, models.JobStatusCancelled); res.Allowed {
			t.Errorf("jobs in %s should not be cancellable", status)
		}
	}
}

func TestRejectedTransitionsCarryReason(t *testing.T) {
	res := Transition(models.JobStatusScheduled, models.JobStatusLoading)
	if res.Allowed {
		t.Fatal("scheduled -> loading should be rejected")
	}
	if res.Reason == "" {
		t.Error("rejection should carry a reason")
	}

	res = Transition(models.JobStatusScheduled, "bogus")
	if res.Allowed {
		t.Fatal("unknown target status should be rejected")
	}
	if res.Reason == "" {
		t.Error("rejection should carry a reason")
	}
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	if !IsTerminal(models.JobStatusCompleted) {
		t.Error("completed should be terminal")
	}
	if !IsTerminal(models.JobStatusCancelled) {
		t.Error("cancelled should be terminal")
	}
	if IsTerminal(models.JobStatusScheduled) {
		t.Error("scheduled should not be terminal")
	}
	if len(Next(models.JobStatusCompleted)) != 0 {
		t.Error("completed should have no successors")
	}
}

func TestApplyStampsStartedAt(t *testing.T) {
	now := time.Now()
	job := models.Job{Status: models.JobStatusConfirmed}

	res := Apply(&job, models.JobStatusOnRoute, now)
	if !res.Allowed {
		t.Fatalf("confirmed -> on_route rejected: %s", res.Reason)
	}
	if job.Status != models.JobStatusOnRoute {
		t.Errorf("status = %s, want on_route", job.Status)
	}
	if job.StartedAt == nil || !job.StartedAt.Equal(now) {
		t.Errorf("StartedAt = %v, want %v", job.StartedAt, now)
	}
	if !job.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", job.UpdatedAt, now)
	}
}

func TestApplyStampsCompletedAt(t *testing.T) {
	now := time.Now()
	job := models.Job{Status: models.JobStatusUnloading}

	res := Apply(&job, models.JobStatusCompleted, now)
	if !res.Allowed {
		t.Fatalf("unloading -> completed rejected: %s", res.Reason)
	}
	if job.CompletedAt == nil || !job.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", job.CompletedAt, now)
	}
}

func TestApplyPreservesExistingTimestamps(t *testing.T) {
	earlier := time.Now().Add(-time.Hour)
	job := models.Job{Status: models.JobStatusConfirmed, StartedAt: &earlier}

	res := Apply(&job, models.JobStatusOnRoute, time.Now())
	if !res.Allowed {
		t.Fatalf("confirmed -> on_route rejected: %s", res.Reason)
	}
	if !job.StartedAt.Equal(earlier) {
		t.Errorf("existing StartedAt should not be overwritten")
	}
}

func TestApplyRejectedLeavesJobUntouched(t *testing.T) {
	job := models.Job{Status: models.JobStatusScheduled}

	res := Apply(&job, models.JobStatusCompleted, time.Now())
	if res.Allowed {
		t.Fatal("scheduled -> completed should be rejected")
	}
	if job.Status != models.JobStatusScheduled {
		t.Errorf("status = %s, want scheduled", job.Status)
	}
	if job.CompletedAt != nil {
		t.Error("CompletedAt should not be stamped on rejection")
	}
}

func TestLabels(t *testing.T) {
	if got := Label(models.JobStatusOnRoute); got != "På väg" {
		t.Errorf("Label(on_route) = %q, want På väg", got)
	}
	if got := Label("bogus"); got != "bogus" {
		t.Errorf("Label(bogus) = %q, want raw value", got)
	}
}

func TestIsActive(t *testing.T) {
	if !IsActive(models.JobStatusLoading) {
		t.Error("loading should be active")
	}
	if IsActive(models.JobStatusScheduled) {
		t.Error("scheduled should not be active")
	}
	if IsActive(models.JobStatusCompleted) {
		t.Error("completed should not be active")
	}
}
