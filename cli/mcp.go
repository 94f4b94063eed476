// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nordflytt/flyttcrm/dashboard"
	"github.com/nordflytt/flyttcrm/handlers"
	"github.com/nordflytt/flyttcrm/store"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(stores *store.Registry, stats *dashboard.Store) error {
	log.Println("Starting Nordflytt CRM MCP Server...")

	leadHandlers := handlers.NewLeadHandlers(stores)
	jobHandlers := handlers.NewJobHandlers(stores)
	customerHandlers := handlers.NewCustomerHandlers(stores)
	issueHandlers := handlers.NewIssueHandlers(stores)
	dashboardHandlers := handlers.NewDashboardHandlers(stats)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "flyttcrm",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_lead",
		Description: "Add a new lead to the sales pipeline",
	}, leadHandlers.AddLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_leads",
		Description: "Search for leads by name, email, or phone, optionally filtered by stage, source, or priority",
	}, leadHandlers.FindLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_lead_stage",
		Description: "Move a lead to another pipeline stage",
	}, leadHandlers.MoveLeadStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_lead",
		Description: "Convert a lead into a customer and remove it from the pipeline",
	}, leadHandlers.ConvertLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_summary",
		Description: "Get per-stage counts, values, and KPIs for the sales pipeline",
	}, leadHandlers.PipelineSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_customer",
		Description: "Add a new customer",
	}, customerHandlers.AddCustomer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_customers",
		Description: "Search for customers by name, email, or phone",
	}, customerHandlers.FindCustomers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_customer",
		Description: "Update an existing customer's information",
	}, customerHandlers.UpdateCustomer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_job",
		Description: "Book a moving job for a customer",
	}, jobHandlers.CreateJob)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_jobs",
		Description: "Search for jobs by booking number, customer, or address, optionally filtered by status or priority",
	}, jobHandlers.FindJobs)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "advance_job",
		Description: "Move a job to the next status in the moving workflow",
	}, jobHandlers.AdvanceJob)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "job_metrics",
		Description: "Get today's operational metrics: active jobs, completions, and average duration",
	}, jobHandlers.JobMetrics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "report_issue",
		Description: "Report an internal issue, optionally linked to a customer or job",
	}, issueHandlers.ReportIssue)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_issue_comment",
		Description: "Add a comment to an existing issue",
	}, issueHandlers.AddIssueComment)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_open_issues",
		Description: "List issues that are open or in progress",
	}, issueHandlers.ListOpenIssues)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dashboard_stats",
		Description: "Get the CRM dashboard statistics",
	}, dashboardHandlers.GetDashboardStats)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
