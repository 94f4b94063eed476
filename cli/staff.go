// ABOUTME: Staff CLI commands
// ABOUTME: Roster listing, hiring, and job assignment
package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/nordflytt/flyttcrm/models"
	"github.com/nordflytt/flyttcrm/store"
)

// AddStaffCommand adds a staff member to the roster.
func AddStaffCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("add-staff", flag.ExitOnError)
	name := fs.String("name", "", "Staff name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	role := fs.String("role", models.RoleMover, "Role: admin, manager, mover, driver, customer_service")
	skills := fs.String("skills", "", "Comma-separated skills")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	var skillList []string
	if *skills != "" {
		for _, s := range strings.Split(*skills, ",") {
			skillList = append(skillList, strings.TrimSpace(s))
		}
	}

	member, err := stores.Staff.Create(ctx, models.Staff{
		Name:   *name,
		Email:  *email,
		Phone:  *phone,
		Role:   *role,
		Skills: skillList,
	})
	if err != nil {
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	fmt.Printf("✓ Staff member added: %s (ID: %s)\n", member.Name, member.ID)
	return nil
}

// ListStaffCommand lists the roster.
func ListStaffCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("list-staff", flag.ExitOnError)
	availableOnly := fs.Bool("available", false, "Only show active staff with no current jobs")
	_ = fs.Parse(args)

	if err := stores.Staff.FetchAll(ctx); err != nil {
		log.Printf("warning: serving cached staff: %v", err)
	}

	members := stores.Staff.Staff()
	if *availableOnly {
		members = stores.Staff.Available()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tSTATUS\tJOBS\tCOMPLETED")
	for _, m := range members {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			m.ID, m.Name, m.Role, m.Status, len(m.CurrentJobs), m.TotalJobsCompleted)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d staff member(s)\n", len(members))
	return nil
}

// AssignStaffCommand assigns a staff member to a job.
func AssignStaffCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("assign-staff", flag.ExitOnError)
	job := fs.String("job", "", "Job ID (required)")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("staff ID is required")
	}
	staffID := fs.Arg(0)
	if *job == "" {
		return fmt.Errorf("--job is required")
	}

	if err := stores.Staff.AssignJob(ctx, staffID, *job); err != nil {
		return fmt.Errorf("failed to assign staff: %w", err)
	}

	fmt.Printf("✓ Staff %s assigned to job %s\n", staffID, *job)
	return nil
}
