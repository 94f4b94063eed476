// ABOUTME: Issue MCP tool handlers
// ABOUTME: Implements report_issue, add_issue_comment, and list_open_issues tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nordflytt/flyttcrm/models"
	"github.com/nordflytt/flyttcrm/store"
)

type IssueHandlers struct {
	stores *store.Registry
}

func NewIssueHandlers(stores *store.Registry) *IssueHandlers {
	return &IssueHandlers{stores: stores}
}

type ReportIssueInput struct {
	Title       string `json:"title" jsonschema:"Issue title (required)"`
	Description string `json:"description,omitempty" jsonschema:"Issue description"`
	Priority    string `json:"priority,omitempty" jsonschema:"Priority: low, medium, high, or critical"`
	Type        string `json:"type,omitempty" jsonschema:"Issue type: bug, feature_request, customer_complaint, system_issue, or other"`
	ReportedBy  string `json:"reported_by,omitempty" jsonschema:"Who reported the issue"`
	CustomerID  string `json:"customer_id,omitempty" jsonschema:"Related customer ID"`
	JobID       string `json:"job_id,omitempty" jsonschema:"Related job ID"`
}

type IssueOutput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Type        string `json:"type"`
	ReportedBy  string `json:"reported_by,omitempty"`
	CustomerID  string `json:"customer_id,omitempty"`
	JobID       string `json:"job_id,omitempty"`
	Comments    int    `json:"comments"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (h *IssueHandlers) ReportIssue(ctx context.Context, request *mcp.CallToolRequest, input ReportIssueInput) (*mcp.CallToolResult, IssueOutput, error) {
	if input.Title == "" {
		return nil, IssueOutput{}, fmt.Errorf("title is required")
	}

	issue := h.stores.Issues.Create(models.Issue{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Type:        input.Type,
		ReportedBy:  input.ReportedBy,
		CustomerID:  input.CustomerID,
		JobID:       input.JobID,
	})

	h.stores.Notifications.Add(models.Notification{
		Title:      "Nytt ärende",
		Message:    issue.Title,
		Type:       models.NotificationWarning,
		EntityType: "issue",
		EntityID:   issue.ID,
	})

	return nil, issueToOutput(issue), nil
}

type AddIssueCommentInput struct {
	IssueID    string `json:"issue_id" jsonschema:"Issue ID (required)"`
	Content    string `json:"content" jsonschema:"Comment text (required)"`
	AuthorName string `json:"author_name,omitempty" jsonschema:"Comment author"`
}

func (h *IssueHandlers) AddIssueComment(ctx context.Context, request *mcp.CallToolRequest, input AddIssueCommentInput) (*mcp.CallToolResult, IssueOutput, error) {
	if input.IssueID == "" {
		return nil, IssueOutput{}, fmt.Errorf("issue_id is required")
	}
	if input.Content == "" {
		return nil, IssueOutput{}, fmt.Errorf("content is required")
	}

	if _, err := h.stores.Issues.AddComment(input.IssueID, models.Comment{
		Content:    input.Content,
		AuthorName: input.AuthorName,
	}); err != nil {
		return nil, IssueOutput{}, fmt.Errorf("failed to add comment: %w", err)
	}

	issue, ok := h.stores.Issues.Get(input.IssueID)
	if !ok {
		return nil, IssueOutput{}, fmt.Errorf("issue not found")
	}
	return nil, issueToOutput(issue), nil
}

type ListOpenIssuesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type ListOpenIssuesOutput struct {
	Issues []IssueOutput `json:"issues"`
}

func (h *IssueHandlers) ListOpenIssues(ctx context.Context, request *mcp.CallToolRequest, input ListOpenIssuesInput) (*mcp.CallToolResult, ListOpenIssuesOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	open := h.stores.Issues.Open()
	result := make([]IssueOutput, 0, limit)
	for _, i := range open {
		result = append(result, issueToOutput(i))
		if len(result) == limit {
			break
		}
	}

	return nil, ListOpenIssuesOutput{Issues: result}, nil
}

func issueToOutput(i models.Issue) IssueOutput {
	return IssueOutput{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Status:      i.Status,
		Priority:    i.Priority,
		Type:        i.Type,
		ReportedBy:  i.ReportedBy,
		CustomerID:  i.CustomerID,
		JobID:       i.JobID,
		Comments:    len(i.Comments),
		CreatedAt:   i.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   i.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
