// ABOUTME: Customer CLI commands
// ABOUTME: Human-friendly commands for managing customers
package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/nordflytt/flyttcrm/models"
	"github.com/nordflytt/flyttcrm/store"
)

// AddCustomerCommand adds a new customer.
func AddCustomerCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("add-customer", flag.ExitOnError)
	name := fs.String("name", "", "Customer name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	address := fs.String("address", "", "Address")
	customerType := fs.String("type", models.CustomerTypePrivate, "Customer type: private or business")
	notes := fs.String("notes", "", "Notes about the customer")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *customerType != models.CustomerTypePrivate && *customerType != models.CustomerTypeBusiness {
		return fmt.Errorf("--type must be private or business")
	}

	customer, err := stores.Customers.Create(ctx, models.Customer{
		Name:         *name,
		Email:        *email,
		Phone:        *phone,
		Address:      *address,
		CustomerType: *customerType,
		Notes:        *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	fmt.Printf("✓ Customer created: %s (ID: %s)\n", customer.Name, customer.ID)
	if customer.Email != "" {
		fmt.Printf("  Email: %s\n", customer.Email)
	}
	return nil
}

// ListCustomersCommand lists customers, optionally filtered.
func ListCustomersCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("list-customers", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, email, or phone")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if err := stores.Customers.FetchAll(ctx); err != nil {
		log.Printf("warning: serving cached customers: %v", err)
	}

	customers := stores.Customers.Search(*query)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tBOOKINGS\tTOTAL")
	count := 0
	for _, c := range customers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			c.ID, c.Name, c.CustomerType, c.Status, c.BookingCount, c.TotalValue)
		count++
		if count == *limit {
			break
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d customer(s)\n", count)
	return nil
}

// DeleteCustomerCommand deletes a customer.
func DeleteCustomerCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("delete-customer", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("customer ID is required")
	}
	id := fs.Arg(0)

	if err := stores.Customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	fmt.Printf("✓ Customer deleted: %s\n", id)
	return nil
}
