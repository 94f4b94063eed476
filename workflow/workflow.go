// ABOUTME: Job status workflow state machine
// ABOUTME: Validates transitions against a static adjacency table and stamps timestamps
package workflow

import (
	"fmt"
	"time"

	"github.com/nordflytt/flyttcrm/models"
)

// Result reports whether a transition is allowed. Rejections carry a reason
// for the caller to surface; no dialog or alert happens at this layer.
type Result struct {
	Allowed bool
	Reason  string
}

// transitions is the allowed-next table for the moving-job workflow.
// The main path is linear; cancellation is only reachable before the
// crew is on the road.
var transitions = map[string][]string{
	models.JobStatusScheduled: {models.JobStatusConfirmed, models.JobStatusCancelled},
	models.JobStatusConfirmed: {models.JobStatusOnRoute, models.JobStatusCancelled},
	models.JobStatusOnRoute:   {models.JobStatusArrived},
	models.JobStatusArrived:   {models.JobStatusLoading},
	models.JobStatusLoading:   {models.JobStatusInTransit},
	models.JobStatusInTransit: {models.JobStatusUnloading},
	models.JobStatusUnloading: {models.JobStatusCompleted},
	models.JobStatusCompleted: {},
	models.JobStatusCancelled: {},
}

// labels are the Swedish display names used across the CRM.
var labels = map[string]string{
	models.JobStatusScheduled: "Planerad",
	models.JobStatusConfirmed: "Bekräftad",
	models.JobStatusOnRoute:   "På väg",
	models.JobStatusArrived:   "Framme",
	models.JobStatusLoading:   "Lastar",
	models.JobStatusInTransit: "Transport",
	models.JobStatusUnloading: "Lastar av",
	models.JobStatusCompleted: "Slutförd",
	models.JobStatusCancelled: "Avbokad",
}

// IsStatus reports whether s is a known job status.
func IsStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// Next returns the statuses reachable from current. Unknown statuses have no
// successors.
func Next(current string) []string {
	next := transitions[current]
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// IsTerminal reports whether a job in this status can never move again.
func IsTerminal(status string) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

// Label returns the display label for a status, falling back to the raw value.
func Label(status string) string {
	if l, ok := labels[status]; ok {
		return l
	}
	return status
}

// Transition checks whether moving from current to next is allowed.
func Transition(current, next string) Result {
	if !IsStatus(next) {
		return Result{Reason: fmt.Sprintf("unknown status %q", next)}
	}
	allowed, ok := transitions[current]
	if !ok {
		return Result{Reason: fmt.Sprintf("unknown status %q", current)}
	}
	for _, s := range allowed {
		if s == next {
			return Result{Allowed: true}
		}
	}
	return Result{Reason: fmt.Sprintf("cannot move job from %s to %s", Label(current), Label(next))}
}

// Apply validates the transition and, when allowed, mutates the job in place:
// status, UpdatedAt, and the workflow side effects. Entering on_route stamps
// StartedAt and entering completed stamps CompletedAt. A rejected transition
// leaves the job untouched.
func Apply(job *models.Job, next string, now time.Time) Result {
	res := Transition(job.Status, next)
	if !res.Allowed {
		return res
	}

	job.Status = next
	job.UpdatedAt = now

	switch next {
	case models.JobStatusOnRoute:
		if job.StartedAt == nil {
			t := now
			job.StartedAt = &t
		}
	case models.JobStatusCompleted:
		if job.CompletedAt == nil {
			t := now
			job.CompletedAt = &t
		}
	}

	return res
}

// ActiveStatuses are the states where a crew is physically working a job.
func ActiveStatuses() []string {
	return []string{
		models.JobStatusOnRoute,
		models.JobStatusArrived,
		models.JobStatusLoading,
		models.JobStatusInTransit,
		models.JobStatusUnloading,
	}
}

// IsActive reports whether the status is one of the on-the-road states.
func IsActive(status string) bool {
	for _, s := range ActiveStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
