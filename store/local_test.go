// ABOUTME: Tests for the local-first stores
// ABOUTME: Issues, activities, and notifications never touch the backend
package store

import (
	"testing"

	"github.com/nordflytt/flyttcrm/models"
)

func TestIssueCreateFillsDefaults(t *testing.T) {
	issues := NewIssueStore(nil)

	issue := issues.Create(models.Issue{Title: "Skadat piano"})
	if issue.ID == "" {
		t.Error("issue should get an ID")
	}
	if issue.Status != models.IssueStatusOpen {
		t.Errorf("status = %s, want open", issue.Status)
	}
	if issue.Priority != models.PriorityMedium {
		t.Errorf("priority = %s, want medium", issue.Priority)
	}
	if issue.CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped")
	}
}

func TestIssueAddComment(t *testing.T) {
	issues := NewIssueStore(nil)
	issue := issues.Create(models.Issue{Title: "Försenad leverans"})

	comment, err := issues.AddComment(issue.ID, models.Comment{
		Content:    "Kunden kontaktad",
		AuthorName: "Johan Svensson",
	})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if comment.ID == "" {
		t.Error("comment should get an ID")
	}

	got, _ := issues.Get(issue.ID)
	if len(got.Comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(got.Comments))
	}
	if got.Comments[0].Content != "Kunden kontaktad" {
		t.Errorf("comment content = %q", got.Comments[0].Content)
	}

	if _, err := issues.AddComment("missing", models.Comment{Content: "x"}); err == nil {
		t.Error("commenting a missing issue should fail")
	}
}

func TestIssueOpenFilter(t *testing.T) {
	issues := NewIssueStore(nil)
	issues.Create(models.Issue{Title: "a", Status: models.IssueStatusOpen})
	issues.Create(models.Issue{Title: "b", Status: models.IssueStatusInProgress})
	issues.Create(models.Issue{Title: "c", Status: models.IssueStatusResolved})

	if got := issues.Open(); len(got) != 2 {
		t.Errorf("Open() = %d issues, want 2", len(got))
	}
}

func TestIssueDeleteClearsSelection(t *testing.T) {
	issues := NewIssueStore(nil)
	issue := issues.Create(models.Issue{Title: "x"})

	issues.Select(issue.ID)
	if err := issues.Delete(issue.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := issues.Selected(); ok {
		t.Error("selection should be cleared after deleting the selected issue")
	}
}

func TestActivityForEntity(t *testing.T) {
	activities := NewActivityStore(nil)
	activities.Add(models.Activity{Title: "Ringde kunden", Type: models.ActivityCall, EntityType: "lead", EntityID: "l1"})
	activities.Add(models.Activity{Title: "Skickade offert", Type: models.ActivityEmail, EntityType: "lead", EntityID: "l1"})
	activities.Add(models.Activity{Title: "Bokade möte", Type: models.ActivityMeeting, EntityType: "customer", EntityID: "c1"})

	forLead := activities.ForEntity("lead", "l1")
	if len(forLead) != 2 {
		t.Fatalf("got %d activities for lead, want 2", len(forLead))
	}
	// Newest first.
	if forLead[0].Title != "Skickade offert" {
		t.Errorf("first activity = %q, want newest", forLead[0].Title)
	}
}

func TestActivityPendingTasks(t *testing.T) {
	activities := NewActivityStore(nil)
	task := activities.Add(models.Activity{Title: "Följ upp offert", Type: models.ActivityTask})
	activities.Add(models.Activity{Title: "Anteckning", Type: models.ActivityNote})

	if got := activities.PendingTasks(); len(got) != 1 {
		t.Fatalf("PendingTasks = %d, want 1", len(got))
	}
	if err := activities.Complete(task.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := activities.PendingTasks(); len(got) != 0 {
		t.Errorf("PendingTasks after complete = %d, want 0", len(got))
	}
}

func TestNotificationUnreadCount(t *testing.T) {
	notifications := NewNotificationStore(nil)
	first := notifications.Add(models.Notification{Title: "Nytt ärende", Message: "Skadat piano"})
	notifications.Add(models.Notification{Title: "Ny bokning", Message: "NF-001"})

	if got := notifications.Unread(); got != 2 {
		t.Fatalf("Unread = %d, want 2", got)
	}

	if err := notifications.MarkRead(first.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if got := notifications.Unread(); got != 1 {
		t.Errorf("Unread after MarkRead = %d, want 1", got)
	}

	// Marking twice must not go negative.
	if err := notifications.MarkRead(first.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if got := notifications.Unread(); got != 1 {
		t.Errorf("Unread after double MarkRead = %d, want 1", got)
	}

	notifications.MarkAllRead()
	if got := notifications.Unread(); got != 0 {
		t.Errorf("Unread after MarkAllRead = %d, want 0", got)
	}
}

func TestNotificationDeleteAdjustsUnread(t *testing.T) {
	notifications := NewNotificationStore(nil)
	n := notifications.Add(models.Notification{Title: "x", Message: "y"})

	if err := notifications.Delete(n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := notifications.Unread(); got != 0 {
		t.Errorf("Unread after delete = %d, want 0", got)
	}
	if got := notifications.Notifications(); len(got) != 0 {
		t.Errorf("got %d notifications, want 0", len(got))
	}
}
