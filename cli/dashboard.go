// ABOUTME: Dashboard CLI command
// ABOUTME: Prints the CRM headline stats, optionally watching for changes
package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nordflytt/flyttcrm/dashboard"
)

// DashboardCommand prints dashboard stats. With --watch it keeps refreshing
// until interrupted.
func DashboardCommand(ctx context.Context, stats *dashboard.Store, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	watch := fs.Bool("watch", false, "Keep refreshing every 30 seconds")
	_ = fs.Parse(args)

	if err := stats.Fetch(ctx); err != nil {
		return fmt.Errorf("failed to fetch dashboard stats: %w", err)
	}
	printStats(stats)

	if !*watch {
		return nil
	}

	refresher := dashboard.NewRefresher(stats, dashboard.DefaultRefreshInterval)
	go refresher.Run(ctx)

	ticker := time.NewTicker(dashboard.DefaultRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			<-refresher.Done()
			return nil
		case <-ticker.C:
			printStats(stats)
		}
	}
}

func printStats(stats *dashboard.Store) {
	s, ok := stats.Stats()
	if !ok {
		fmt.Println("No stats available yet")
		return
	}
	fmt.Printf("Customers: %d  Leads: %d  Active jobs: %d\n",
		s.TotalCustomers, s.TotalLeads, s.ActiveJobs)
	fmt.Printf("Completed this month: %d  Revenue this month: %d SEK\n",
		s.CompletedJobsThisMonth, s.RevenueThisMonth)
	fmt.Printf("Conversion rate: %.1f%%  Avg job value: %d SEK\n",
		s.ConversionRate, s.AvgJobValue)
}
