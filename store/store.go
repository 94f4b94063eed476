// ABOUTME: Shared store plumbing: snapshot keys, registry, and error types
// ABOUTME: Each entity store mediates CRUD access and syncs with the backend
package store

import (
	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/cache"
)

// Snapshot cache keys, one per store. These are part of the persisted
// surface; renaming one orphans existing local data.
const (
	customersKey     = "crm-customers"
	leadsKey         = "crm-leads"
	jobsKey          = "crm-jobs"
	staffKey         = "crm-staff"
	issuesKey        = "crm-issues"
	activitiesKey    = "crm-activities"
	notificationsKey = "crm-notifications"
	documentsKey     = "crm-documents"
	authKey          = "crm-auth"
)

// TransitionError reports a rejected job workflow transition.
type TransitionError struct {
	JobID  string
	Reason string
}

func (e *TransitionError) Error() string { return e.Reason }

// Registry bundles every entity store over one client and cache. Stores are
// rehydrated from their snapshots at construction.
type Registry struct {
	Customers     *CustomerStore
	Leads         *LeadStore
	Jobs          *JobStore
	Staff         *StaffStore
	Issues        *IssueStore
	Activities    *ActivityStore
	Notifications *NotificationStore
	Documents     *DocumentStore
	Auth          *AuthStore
}

// NewRegistry constructs all stores. The cache may be nil, and autoPersist
// false detaches it; either way nothing is persisted and every store starts
// empty.
func NewRegistry(client *api.Client, c *cache.Store, autoPersist bool) *Registry {
	if !autoPersist {
		c = nil
	}
	return &Registry{
		Customers:     NewCustomerStore(client, c),
		Leads:         NewLeadStore(client, c),
		Jobs:          NewJobStore(client, c),
		Staff:         NewStaffStore(client, c),
		Issues:        NewIssueStore(c),
		Activities:    NewActivityStore(c),
		Notifications: NewNotificationStore(c),
		Documents:     NewDocumentStore(client, c),
		Auth:          NewAuthStore(client, c),
	}
}
