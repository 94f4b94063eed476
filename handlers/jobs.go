// ABOUTME: Job MCP tool handlers
// ABOUTME: Implements create_job, find_jobs, advance_job, and job_metrics tools
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nordflytt/flyttcrm/models"
	"github.com/nordflytt/flyttcrm/store"
	"github.com/nordflytt/flyttcrm/workflow"
)

type JobHandlers struct {
	stores *store.Registry
}

func NewJobHandlers(stores *store.Registry) *JobHandlers {
	return &JobHandlers{stores: stores}
}

type CreateJobInput struct {
	CustomerID     string  `json:"customer_id" jsonschema:"Customer ID (required)"`
	FromAddress    string  `json:"from_address" jsonschema:"Pickup address (required)"`
	ToAddress      string  `json:"to_address" jsonschema:"Delivery address (required)"`
	MoveDate       string  `json:"move_date" jsonschema:"Move date (ISO 8601 format, required)"`
	MoveTime       string  `json:"move_time,omitempty" jsonschema:"Move time, e.g. 08:00"`
	Priority       string  `json:"priority,omitempty" jsonschema:"Priority: low, medium, high, or critical"`
	EstimatedHours float64 `json:"estimated_hours,omitempty" jsonschema:"Estimated duration in hours"`
	TotalPrice     int64   `json:"total_price,omitempty" jsonschema:"Quoted price in SEK"`
	Notes          string  `json:"notes,omitempty" jsonschema:"Additional notes about the job"`
}

type JobOutput struct {
	ID            string  `json:"id"`
	BookingNumber string  `json:"booking_number"`
	CustomerID    string  `json:"customer_id"`
	CustomerName  string  `json:"customer_name,omitempty"`
	FromAddress   string  `json:"from_address"`
	ToAddress     string  `json:"to_address"`
	MoveDate      string  `json:"move_date"`
	Status        string  `json:"status"`
	StatusLabel   string  `json:"status_label"`
	Priority      string  `json:"priority"`
	TotalPrice    int64   `json:"total_price"`
	StartedAt     *string `json:"started_at,omitempty"`
	CompletedAt   *string `json:"completed_at,omitempty"`
	NextStatuses  []string `json:"next_statuses"`
}

func (h *JobHandlers) CreateJob(ctx context.Context, request *mcp.CallToolRequest, input CreateJobInput) (*mcp.CallToolResult, JobOutput, error) {
	if input.CustomerID == "" {
		return nil, JobOutput{}, fmt.Errorf("customer_id is required")
	}
	if input.FromAddress == "" || input.ToAddress == "" {
		return nil, JobOutput{}, fmt.Errorf("from_address and to_address are required")
	}
	moveDate, err := time.Parse(time.RFC3339, input.MoveDate)
	if err != nil {
		moveDate, err = time.Parse("2006-01-02", input.MoveDate)
		if err != nil {
			return nil, JobOutput{}, fmt.Errorf("invalid move_date format (use ISO 8601): %w", err)
		}
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	var customerName string
	if customer, ok := h.stores.Customers.Get(input.CustomerID); ok {
		customerName = customer.Name
	}

	job, err := h.stores.Jobs.Create(ctx, models.Job{
		CustomerID:     input.CustomerID,
		CustomerName:   customerName,
		FromAddress:    input.FromAddress,
		ToAddress:      input.ToAddress,
		MoveDate:       moveDate,
		MoveTime:       input.MoveTime,
		Priority:       priority,
		EstimatedHours: input.EstimatedHours,
		TotalPrice:     input.TotalPrice,
		Notes:          input.Notes,
	})
	if err != nil {
		return nil, JobOutput{}, fmt.Errorf("failed to create job: %w", err)
	}

	if err := h.stores.Customers.RecordBooking(ctx, input.CustomerID, job.TotalPrice, job.CreatedAt); err != nil {
		log.Printf("warning: booking stats not updated for customer %s: %v", input.CustomerID, err)
	}

	return nil, jobToOutput(job), nil
}

type FindJobsInput struct {
	Query    string `json:"query,omitempty" jsonschema:"Search query (searches booking number, customer name, and addresses)"`
	Status   string `json:"status,omitempty" jsonschema:"Filter by job status"`
	Priority string `json:"priority,omitempty" jsonschema:"Filter by priority"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindJobsOutput struct {
	Jobs []JobOutput `json:"jobs"`
}

func (h *JobHandlers) FindJobs(ctx context.Context, request *mcp.CallToolRequest, input FindJobsInput) (*mcp.CallToolResult, FindJobsOutput, error) {
	if input.Status != "" && !workflow.IsStatus(input.Status) {
		return nil, FindJobsOutput{}, fmt.Errorf("unknown status: %s", input.Status)
	}
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	if err := h.stores.Jobs.FetchAll(ctx); err != nil {
		log.Printf("warning: serving cached jobs: %v", err)
	}

	jobs := h.stores.Jobs.Filter(store.Filter{
		Search:   input.Query,
		Status:   input.Status,
		Priority: input.Priority,
	})

	result := make([]JobOutput, 0, limit)
	for _, j := range jobs {
		result = append(result, jobToOutput(j))
		if len(result) == limit {
			break
		}
	}

	return nil, FindJobsOutput{Jobs: result}, nil
}

type AdvanceJobInput struct {
	ID     string `json:"id" jsonschema:"Job ID (required)"`
	Status string `json:"status" jsonschema:"Target status: scheduled, confirmed, on_route, arrived, loading, in_transit, unloading, completed, or cancelled (required)"`
}

func (h *JobHandlers) AdvanceJob(ctx context.Context, request *mcp.CallToolRequest, input AdvanceJobInput) (*mcp.CallToolResult, JobOutput, error) {
	if input.ID == "" {
		return nil, JobOutput{}, fmt.Errorf("id is required")
	}
	if input.Status == "" {
		return nil, JobOutput{}, fmt.Errorf("status is required")
	}

	if err := h.stores.Jobs.AdvanceStatus(ctx, input.ID, input.Status); err != nil {
		var transitionErr *store.TransitionError
		if errors.As(err, &transitionErr) {
			return nil, JobOutput{}, fmt.Errorf("transition rejected: %s", transitionErr.Reason)
		}
		return nil, JobOutput{}, fmt.Errorf("failed to advance job: %w", err)
	}

	job, ok := h.stores.Jobs.Get(input.ID)
	if !ok {
		return nil, JobOutput{}, fmt.Errorf("job not found")
	}
	return nil, jobToOutput(job), nil
}

type JobMetricsInput struct{}

type JobMetricsOutput struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	CompletedToday int     `json:"completed_today"`
	AvgHours       float64 `json:"avg_hours"`
}

func (h *JobHandlers) JobMetrics(ctx context.Context, request *mcp.CallToolRequest, input JobMetricsInput) (*mcp.CallToolResult, JobMetricsOutput, error) {
	if err := h.stores.Jobs.FetchAll(ctx); err != nil {
		log.Printf("warning: serving cached jobs: %v", err)
	}

	m := h.stores.Jobs.Metrics(time.Now())
	return nil, JobMetricsOutput{
		Total:          m.Total,
		Active:         m.Active,
		CompletedToday: m.CompletedToday,
		AvgHours:       m.AvgHours,
	}, nil
}

func jobToOutput(j models.Job) JobOutput {
	out := JobOutput{
		ID:            j.ID,
		BookingNumber: j.BookingNumber,
		CustomerID:    j.CustomerID,
		CustomerName:  j.CustomerName,
		FromAddress:   j.FromAddress,
		ToAddress:     j.ToAddress,
		MoveDate:      j.MoveDate.Format("2006-01-02"),
		Status:        j.Status,
		StatusLabel:   workflow.Label(j.Status),
		Priority:      j.Priority,
		TotalPrice:    j.TotalPrice,
		NextStatuses:  workflow.Next(j.Status),
	}
	if j.StartedAt != nil {
		s := j.StartedAt.Format("2006-01-02T15:04:05Z07:00")
		out.StartedAt = &s
	}
	if j.CompletedAt != nil {
		c := j.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
		out.CompletedAt = &c
	}
	return out
}
