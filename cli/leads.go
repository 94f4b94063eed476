// ABOUTME: Lead CLI commands
// ABOUTME: Human-friendly commands for the sales pipeline
package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/nordflytt/flyttcrm/models"
	"github.com/nordflytt/flyttcrm/pipeline"
	"github.com/nordflytt/flyttcrm/store"
)

// AddLeadCommand adds a new lead.
func AddLeadCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("add-lead", flag.ExitOnError)
	name := fs.String("name", "", "Lead name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	source := fs.String("source", models.SourceOther, "Lead source")
	priority := fs.String("priority", models.PriorityMedium, "Priority")
	value := fs.Int64("value", 0, "Estimated value in SEK")
	notes := fs.String("notes", "", "Notes about the lead")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	lead, err := stores.Leads.Create(ctx, models.Lead{
		Name:           *name,
		Email:          *email,
		Phone:          *phone,
		Source:         *source,
		Priority:       *priority,
		EstimatedValue: *value,
		Notes:          *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	fmt.Printf("✓ Lead created: %s (ID: %s)\n", lead.Name, lead.ID)
	if lead.Email != "" {
		fmt.Printf("  Email: %s\n", lead.Email)
	}
	if lead.EstimatedValue > 0 {
		fmt.Printf("  Estimated value: %d SEK\n", lead.EstimatedValue)
	}

	return nil
}

// ListLeadsCommand lists leads, optionally filtered.
func ListLeadsCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("list-leads", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, email, or phone")
	stage := fs.String("stage", "", "Filter by pipeline stage")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if *stage != "" && !pipeline.IsStage(*stage) {
		return fmt.Errorf("unknown stage: %s", *stage)
	}

	if err := stores.Leads.FetchAll(ctx); err != nil {
		log.Printf("warning: serving cached leads: %v", err)
	}

	leads := pipeline.FilterLeads(stores.Leads.Leads(), pipeline.LeadFilter{Search: *query})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTAGE\tPRIORITY\tVALUE\tASSIGNED")
	count := 0
	for _, l := range leads {
		if *stage != "" && l.Status != *stage {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			l.ID, l.Name, pipeline.Label(l.Status), l.Priority, l.EstimatedValue, l.AssignedTo)
		count++
		if count == *limit {
			break
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d lead(s)\n", count)
	return nil
}

// MoveLeadCommand moves a lead to another stage.
func MoveLeadCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("move-lead", flag.ExitOnError)
	stage := fs.String("stage", "", "Target pipeline stage (required)")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("lead ID is required")
	}
	id := fs.Arg(0)
	if *stage == "" {
		return fmt.Errorf("--stage is required")
	}
	if !pipeline.IsStage(*stage) {
		return fmt.Errorf("unknown stage: %s", *stage)
	}

	if err := stores.Leads.MoveStage(ctx, id, *stage); err != nil {
		return fmt.Errorf("failed to move lead: %w", err)
	}

	fmt.Printf("✓ Lead %s moved to %s\n", id, pipeline.Label(*stage))
	return nil
}

// ConvertLeadCommand converts a lead into a customer.
func ConvertLeadCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("convert-lead", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("lead ID is required")
	}
	id := fs.Arg(0)

	customer, err := stores.Leads.ConvertToCustomer(ctx, id, stores.Customers)
	if err != nil {
		return fmt.Errorf("failed to convert lead: %w", err)
	}

	fmt.Printf("✓ Converted to customer: %s (ID: %s)\n", customer.Name, customer.ID)
	return nil
}

// PipelineCommand prints the pipeline board summary.
func PipelineCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	_ = fs.Parse(args)

	if err := stores.Leads.FetchAll(ctx); err != nil {
		log.Printf("warning: serving cached leads: %v", err)
	}

	leads := stores.Leads.Leads()
	metrics := pipeline.MetricsByStage(leads)
	kpis := pipeline.ComputeKPIs(leads)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tCOUNT\tVALUE")
	for _, s := range pipeline.Stages {
		m := metrics[s.ID]
		fmt.Fprintf(w, "%s\t%d\t%d\n", s.Label, m.Count, m.TotalValue)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nTotal leads: %d\n", kpis.TotalLeads)
	fmt.Printf("Qualified: %d\n", kpis.Qualified)
	fmt.Printf("Pipeline value: %d SEK\n", kpis.PipelineValue)
	fmt.Printf("Won value: %d SEK\n", kpis.WonValue)
	fmt.Printf("Conversion rate: %.1f%%\n", kpis.ConversionRate)
	return nil
}
