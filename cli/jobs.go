// ABOUTME: Job CLI commands
// ABOUTME: Day view listing, booking, and workflow advancement
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/nordflytt/flyttcrm/models"
	"github.com/nordflytt/flyttcrm/store"
	"github.com/nordflytt/flyttcrm/workflow"
)

// AddJobCommand books a new moving job.
func AddJobCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("add-job", flag.ExitOnError)
	customerID := fs.String("customer", "", "Customer ID (required)")
	from := fs.String("from", "", "Pickup address (required)")
	to := fs.String("to", "", "Delivery address (required)")
	date := fs.String("date", "", "Move date, YYYY-MM-DD (required)")
	moveTime := fs.String("time", "", "Move time, e.g. 08:00")
	priority := fs.String("priority", models.PriorityMedium, "Priority")
	price := fs.Int64("price", 0, "Quoted price in SEK")
	notes := fs.String("notes", "", "Notes about the job")
	_ = fs.Parse(args)

	if *customerID == "" {
		return fmt.Errorf("--customer is required")
	}
	if *from == "" || *to == "" {
		return fmt.Errorf("--from and --to are required")
	}
	moveDate, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return fmt.Errorf("invalid --date (use YYYY-MM-DD): %w", err)
	}

	var customerName string
	if customer, ok := stores.Customers.Get(*customerID); ok {
		customerName = customer.Name
	}

	job, err := stores.Jobs.Create(ctx, models.Job{
		CustomerID:   *customerID,
		CustomerName: customerName,
		FromAddress:  *from,
		ToAddress:    *to,
		MoveDate:     moveDate,
		MoveTime:     *moveTime,
		Priority:     *priority,
		TotalPrice:   *price,
		Notes:        *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	if err := stores.Customers.RecordBooking(ctx, *customerID, job.TotalPrice, job.CreatedAt); err != nil {
		log.Printf("warning: booking stats not updated for customer %s: %v", *customerID, err)
	}

	fmt.Printf("✓ Job booked: %s (ID: %s)\n", job.BookingNumber, job.ID)
	fmt.Printf("  %s → %s on %s\n", job.FromAddress, job.ToAddress, job.MoveDate.Format("2006-01-02"))
	return nil
}

// ListJobsCommand lists jobs, optionally filtered.
func ListJobsCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("list-jobs", flag.ExitOnError)
	query := fs.String("query", "", "Search by booking number, customer, or address")
	status := fs.String("status", "", "Filter by status")
	priority := fs.String("priority", "", "Filter by priority")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if *status != "" && !workflow.IsStatus(*status) {
		return fmt.Errorf("unknown status: %s", *status)
	}

	if err := stores.Jobs.FetchAll(ctx); err != nil {
		log.Printf("warning: serving cached jobs: %v", err)
	}

	jobs := stores.Jobs.Filter(store.Filter{Search: *query, Status: *status, Priority: *priority})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BOOKING\tCUSTOMER\tDATE\tSTATUS\tPRIORITY\tPRICE")
	count := 0
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			j.BookingNumber, j.CustomerName, j.MoveDate.Format("2006-01-02"),
			workflow.Label(j.Status), j.Priority, j.TotalPrice)
		count++
		if count == *limit {
			break
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	m := stores.Jobs.Metrics(time.Now())
	fmt.Printf("\n%d job(s), %d active, %d completed today\n", count, m.Active, m.CompletedToday)
	return nil
}

// AdvanceJobCommand moves a job along the workflow. Without --status it
// advances to the first allowed next status.
func AdvanceJobCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("advance-job", flag.ExitOnError)
	status := fs.String("status", "", "Target status (default: next in workflow)")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("job ID is required")
	}
	id := fs.Arg(0)

	target := *status
	if target == "" {
		job, ok := stores.Jobs.Get(id)
		if !ok {
			return fmt.Errorf("job %s not found", id)
		}
		next := workflow.Next(job.Status)
		if len(next) == 0 {
			return fmt.Errorf("job is already %s", workflow.Label(job.Status))
		}
		target = next[0]
	}

	if err := stores.Jobs.AdvanceStatus(ctx, id, target); err != nil {
		var transitionErr *store.TransitionError
		if errors.As(err, &transitionErr) {
			return fmt.Errorf("transition rejected: %s", transitionErr.Reason)
		}
		return fmt.Errorf("failed to advance job: %w", err)
	}

	fmt.Printf("✓ Job %s is now %s\n", id, workflow.Label(target))
	return nil
}
