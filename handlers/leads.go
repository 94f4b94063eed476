// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements add_lead, find_leads, move_lead_stage, and convert_lead tools
package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nordflytt/flyttcrm/models"
	"github.com/nordflytt/flyttcrm/pipeline"
	"github.com/nordflytt/flyttcrm/store"
)

type LeadHandlers struct {
	stores *store.Registry
}

func NewLeadHandlers(stores *store.Registry) *LeadHandlers {
	return &LeadHandlers{stores: stores}
}

type AddLeadInput struct {
	Name           string `json:"name" jsonschema:"Lead name (required)"`
	Email          string `json:"email,omitempty" jsonschema:"Lead email address"`
	Phone          string `json:"phone,omitempty" jsonschema:"Lead phone number"`
	Source         string `json:"source,omitempty" jsonschema:"Lead source: website, referral, marketing, cold_call, or other"`
	Priority       string `json:"priority,omitempty" jsonschema:"Priority: low, medium, high, or critical"`
	EstimatedValue int64  `json:"estimated_value,omitempty" jsonschema:"Estimated deal value in SEK"`
	AssignedTo     string `json:"assigned_to,omitempty" jsonschema:"Staff member responsible for the lead"`
	Notes          string `json:"notes,omitempty" jsonschema:"Additional notes about the lead"`
}

type LeadOutput struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Source         string `json:"source"`
	Status         string `json:"status"`
	StatusLabel    string `json:"status_label"`
	Priority       string `json:"priority"`
	EstimatedValue int64  `json:"estimated_value"`
	AssignedTo     string `json:"assigned_to,omitempty"`
	Notes          string `json:"notes,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func (h *LeadHandlers) AddLead(ctx context.Context, request *mcp.CallToolRequest, input AddLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.Name == "" {
		return nil, LeadOutput{}, fmt.Errorf("name is required")
	}
	source := input.Source
	if source == "" {
		source = models.SourceOther
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	lead, err := h.stores.Leads.Create(ctx, models.Lead{
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Source:         source,
		Priority:       priority,
		EstimatedValue: input.EstimatedValue,
		AssignedTo:     input.AssignedTo,
		Notes:          input.Notes,
	})
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to create lead: %w", err)
	}

	return nil, leadToOutput(lead), nil
}

type FindLeadsInput struct {
	Query    string `json:"query,omitempty" jsonschema:"Search query (searches name, email, and phone)"`
	Stage    string `json:"stage,omitempty" jsonschema:"Filter by pipeline stage"`
	Source   string `json:"source,omitempty" jsonschema:"Filter by lead source"`
	Priority string `json:"priority,omitempty" jsonschema:"Filter by priority"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindLeadsOutput struct {
	Leads []LeadOutput `json:"leads"`
}

func (h *LeadHandlers) FindLeads(ctx context.Context, request *mcp.CallToolRequest, input FindLeadsInput) (*mcp.CallToolResult, FindLeadsOutput, error) {
	if input.Stage != "" && !pipeline.IsStage(input.Stage) {
		return nil, FindLeadsOutput{}, fmt.Errorf("unknown stage: %s", input.Stage)
	}
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	// Refresh from the backend; the cached (or demo) list serves on failure.
	if err := h.stores.Leads.FetchAll(ctx); err != nil {
		log.Printf("warning: serving cached leads: %v", err)
	}

	leads := pipeline.FilterLeads(h.stores.Leads.Leads(), pipeline.LeadFilter{
		Search:   input.Query,
		Source:   input.Source,
		Priority: input.Priority,
	})

	result := make([]LeadOutput, 0, limit)
	for _, l := range leads {
		if input.Stage != "" && l.Status != input.Stage {
			continue
		}
		result = append(result, leadToOutput(l))
		if len(result) == limit {
			break
		}
	}

	return nil, FindLeadsOutput{Leads: result}, nil
}

type MoveLeadStageInput struct {
	ID    string `json:"id" jsonschema:"Lead ID (required)"`
	Stage string `json:"stage" jsonschema:"Target pipeline stage: new, contacted, qualified, proposal, negotiation, closed_won, or closed_lost (required)"`
}

func (h *LeadHandlers) MoveLeadStage(ctx context.Context, request *mcp.CallToolRequest, input MoveLeadStageInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.ID == "" {
		return nil, LeadOutput{}, fmt.Errorf("id is required")
	}
	if !pipeline.IsStage(input.Stage) {
		return nil, LeadOutput{}, fmt.Errorf("unknown stage: %s", input.Stage)
	}

	if err := h.stores.Leads.MoveStage(ctx, input.ID, input.Stage); err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to move lead: %w", err)
	}

	lead, ok := h.stores.Leads.Get(input.ID)
	if !ok {
		return nil, LeadOutput{}, fmt.Errorf("lead not found")
	}
	return nil, leadToOutput(lead), nil
}

type ConvertLeadInput struct {
	ID string `json:"id" jsonschema:"Lead ID (required)"`
}

type ConvertLeadOutput struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (h *LeadHandlers) ConvertLead(ctx context.Context, request *mcp.CallToolRequest, input ConvertLeadInput) (*mcp.CallToolResult, ConvertLeadOutput, error) {
	if input.ID == "" {
		return nil, ConvertLeadOutput{}, fmt.Errorf("id is required")
	}

	customer, err := h.stores.Leads.ConvertToCustomer(ctx, input.ID, h.stores.Customers)
	if err != nil {
		return nil, ConvertLeadOutput{}, fmt.Errorf("failed to convert lead: %w", err)
	}

	return nil, ConvertLeadOutput{
		CustomerID: customer.ID,
		Name:       customer.Name,
		Message:    fmt.Sprintf("Converted lead to customer: %s", customer.Name),
	}, nil
}

type PipelineSummaryInput struct{}

type PipelineStageOutput struct {
	Stage      string `json:"stage"`
	Label      string `json:"label"`
	Count      int    `json:"count"`
	TotalValue int64  `json:"total_value"`
}

type PipelineSummaryOutput struct {
	Stages         []PipelineStageOutput `json:"stages"`
	TotalLeads     int                   `json:"total_leads"`
	Qualified      int                   `json:"qualified"`
	PipelineValue  int64                 `json:"pipeline_value"`
	WonValue       int64                 `json:"won_value"`
	ConversionRate float64               `json:"conversion_rate"`
}

func (h *LeadHandlers) PipelineSummary(ctx context.Context, request *mcp.CallToolRequest, input PipelineSummaryInput) (*mcp.CallToolResult, PipelineSummaryOutput, error) {
	if err := h.stores.Leads.FetchAll(ctx); err != nil {
		log.Printf("warning: serving cached leads: %v", err)
	}

	leads := h.stores.Leads.Leads()
	metrics := pipeline.MetricsByStage(leads)
	kpis := pipeline.ComputeKPIs(leads)

	out := PipelineSummaryOutput{
		TotalLeads:     kpis.TotalLeads,
		Qualified:      kpis.Qualified,
		PipelineValue:  kpis.PipelineValue,
		WonValue:       kpis.WonValue,
		ConversionRate: kpis.ConversionRate,
	}
	for _, s := range pipeline.Stages {
		m := metrics[s.ID]
		out.Stages = append(out.Stages, PipelineStageOutput{
			Stage:      s.ID,
			Label:      s.Label,
			Count:      m.Count,
			TotalValue: m.TotalValue,
		})
	}

	return nil, out, nil
}

func leadToOutput(l models.Lead) LeadOutput {
	return LeadOutput{
		ID:             l.ID,
		Name:           l.Name,
		Email:          l.Email,
		Phone:          l.Phone,
		Source:         l.Source,
		Status:         l.Status,
		StatusLabel:    pipeline.Label(l.Status),
		Priority:       l.Priority,
		EstimatedValue: l.EstimatedValue,
		AssignedTo:     l.AssignedTo,
		Notes:          l.Notes,
		CreatedAt:      l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      l.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
