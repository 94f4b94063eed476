// ABOUTME: Dashboard MCP tool handler
// ABOUTME: Implements the get_dashboard_stats tool
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nordflytt/flyttcrm/dashboard"
)

type DashboardHandlers struct {
	stats *dashboard.Store
}

func NewDashboardHandlers(stats *dashboard.Store) *DashboardHandlers {
	return &DashboardHandlers{stats: stats}
}

type DashboardStatsInput struct{}

type DashboardStatsOutput struct {
	TotalCustomers         int     `json:"total_customers"`
	TotalLeads             int     `json:"total_leads"`
	ActiveJobs             int     `json:"active_jobs"`
	CompletedJobsThisMonth int     `json:"completed_jobs_this_month"`
	TotalRevenue           int64   `json:"total_revenue"`
	RevenueThisMonth       int64   `json:"revenue_this_month"`
	ConversionRate         float64 `json:"conversion_rate"`
	AvgJobValue            int64   `json:"avg_job_value"`
}

func (h *DashboardHandlers) GetDashboardStats(ctx context.Context, request *mcp.CallToolRequest, input DashboardStatsInput) (*mcp.CallToolResult, DashboardStatsOutput, error) {
	if err := h.stats.Fetch(ctx); err != nil {
		return nil, DashboardStatsOutput{}, fmt.Errorf("failed to fetch dashboard stats: %w", err)
	}

	stats, _ := h.stats.Stats()
	return nil, DashboardStatsOutput{
		TotalCustomers:         stats.TotalCustomers,
		TotalLeads:             stats.TotalLeads,
		ActiveJobs:             stats.ActiveJobs,
		CompletedJobsThisMonth: stats.CompletedJobsThisMonth,
		TotalRevenue:           stats.TotalRevenue,
		RevenueThisMonth:       stats.RevenueThisMonth,
		ConversionRate:         stats.ConversionRate,
		AvgJobValue:            stats.AvgJobValue,
	}, nil
}
