// ABOUTME: Entry point for the Nordflytt CRM MCP server and CLI
// ABOUTME: Routes to MCP server or CRM commands based on arguments
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nordflytt/flyttcrm/api"
	"github.com/nordflytt/flyttcrm/cache"
	"github.com/nordflytt/flyttcrm/cli"
	"github.com/nordflytt/flyttcrm/dashboard"
	"github.com/nordflytt/flyttcrm/store"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	baseURL := flag.String("api-url", "", "CRM backend URL (default: configured or https://crm.nordflytt.se)")
	cachePath := flag.String("cache-path", "", "Snapshot cache path (default: ~/.local/share/flyttcrm/cache)")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("flyttcrm version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := cache.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *cachePath != "" {
		cfg.CachePath = *cachePath
	}

	snapshots, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}
	defer snapshots.Close()

	client := api.NewClient(cfg.BaseURL, api.DefaultTokenSource())
	stores := store.NewRegistry(client, snapshots, cfg.AutoPersist)
	stats := dashboard.NewStore(client)

	ctx := context.Background()

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		if err := cli.MCPCommand(stores, stats); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "crm":
		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		crmCommand := commandArgs[0]
		crmArgs := commandArgs[1:]

		switch crmCommand {
		// Lead commands
		case "add-lead":
			if err := cli.AddLeadCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-leads":
			if err := cli.ListLeadsCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "move-lead":
			if err := cli.MoveLeadCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "convert-lead":
			if err := cli.ConvertLeadCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "pipeline":
			if err := cli.PipelineCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Customer commands
		case "add-customer":
			if err := cli.AddCustomerCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-customers":
			if err := cli.ListCustomersCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "delete-customer":
			if err := cli.DeleteCustomerCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Job commands
		case "add-job":
			if err := cli.AddJobCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-jobs":
			if err := cli.ListJobsCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "advance-job":
			if err := cli.AdvanceJobCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Staff commands
		case "add-staff":
			if err := cli.AddStaffCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-staff":
			if err := cli.ListStaffCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "assign-staff":
			if err := cli.AssignStaffCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Document commands
		case "list-documents":
			if err := cli.ListDocumentsCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "search-documents":
			if err := cli.SearchDocumentsCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "upload-document":
			if err := cli.UploadDocumentCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Session commands
		case "login":
			if err := cli.LoginCommand(ctx, stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "logout":
			if err := cli.LogoutCommand(stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "whoami":
			if err := cli.WhoAmICommand(stores, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		case "dashboard":
			if err := cli.DashboardCommand(ctx, stats, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		default:
			fmt.Printf("Unknown crm command: %s\n\n", crmCommand)
			printUsage()
			os.Exit(1)
		}

	case "cache":
		if len(commandArgs) == 0 {
			fmt.Println("Error: cache requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		cacheCommand := commandArgs[0]
		cacheArgs := commandArgs[1:]

		switch cacheCommand {
		case "info":
			if err := cli.CacheInfoCommand(cfg, snapshots, cacheArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "config":
			if err := cli.CacheConfigCommand(cfg, cacheArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "reset":
			if err := cli.CacheResetCommand(snapshots, cacheArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown cache command: %s\n\n", cacheCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`flyttcrm v%s - Nordflytt CRM toolkit

USAGE:
  flyttcrm [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --api-url <url>        CRM backend URL
  --cache-path <path>    Snapshot cache path (default: ~/.local/share/flyttcrm/cache)

COMMANDS:
  mcp                    Start MCP server for Claude Desktop
  crm                    CRM management commands
  cache                  Snapshot cache maintenance

MCP SERVER:
  flyttcrm mcp           Start MCP server (for Claude Desktop integration)

CRM COMMANDS:
  flyttcrm crm add-lead      Add a new lead
    --name <name>              Lead name (required)
    --email <email>            Email address
    --phone <phone>            Phone number
    --source <source>          Source (website, referral, marketing, cold_call, other)
    --priority <priority>      Priority (low, medium, high, critical)
    --value <sek>              Estimated value in SEK
    --notes <notes>            Notes about the lead

  flyttcrm crm list-leads    List leads
    --query <text>             Search by name, email, or phone
    --stage <stage>            Filter by pipeline stage
    --limit <n>                Max results (default: 50)

  flyttcrm crm move-lead [flags] <id>  Move a lead to another stage
    --stage <stage>            Target stage (required)
    Note: flags must come before the lead ID

  flyttcrm crm convert-lead <id>  Convert a lead into a customer

  flyttcrm crm pipeline      Show the pipeline board summary

  flyttcrm crm add-customer  Add a new customer
    --name <name>              Customer name (required)
    --email <email>            Email address
    --phone <phone>            Phone number
    --address <address>        Address
    --type <type>              Customer type (private, business)
    --notes <notes>            Notes about the customer

  flyttcrm crm list-customers  List customers
    --query <text>             Search by name, email, or phone
    --limit <n>                Max results (default: 50)

  flyttcrm crm delete-customer <id>  Delete a customer

  flyttcrm crm add-job       Book a moving job
    --customer <id>            Customer ID (required)
    --from <address>           Pickup address (required)
    --to <address>             Delivery address (required)
    --date <YYYY-MM-DD>        Move date (required)
    --time <HH:MM>             Move time
    --priority <priority>      Priority (low, medium, high, critical)
    --price <sek>              Quoted price in SEK
    --notes <notes>            Notes about the job

  flyttcrm crm list-jobs     List jobs
    --query <text>             Search by booking number, customer, or address
    --status <status>          Filter by status
    --priority <priority>      Filter by priority
    --limit <n>                Max results (default: 50)

  flyttcrm crm advance-job [flags] <id>  Advance a job in the workflow
    --status <status>          Target status (default: next in workflow)
    Note: flags must come before the job ID

  flyttcrm crm add-staff     Add a staff member
    --name <name>              Staff name (required)
    --email <email>            Email address
    --phone <phone>            Phone number
    --role <role>              Role (admin, manager, mover, driver, customer_service)
    --skills <a,b,c>           Comma-separated skills

  flyttcrm crm list-staff    List the staff roster
    --available                Only active staff with no current jobs

  flyttcrm crm assign-staff [flags] <id>  Assign a staff member to a job
    --job <id>                 Job ID (required)
    Note: flags must come before the staff ID

  flyttcrm crm list-documents    List documents
    --folder <id>              Folder to open first

  flyttcrm crm search-documents [flags] [query]  Search documents
    --category <category>      Filter by category
    --type <type>              Filter by file type

  flyttcrm crm upload-document [flags] <file>  Upload a file
    --folder <id>              Target folder ID

  flyttcrm crm login         Log in against the backend
    --email <email>            Email address (required)
    --password <password>      Password (required)

  flyttcrm crm logout        Clear the local session
  flyttcrm crm whoami        Show the current session user

  flyttcrm crm dashboard     Show dashboard stats
    --watch                    Keep refreshing every 30 seconds

CACHE COMMANDS:
  flyttcrm cache info        Show cache location and stored snapshots
  flyttcrm cache config      Update saved settings
    --api-url <url>            CRM backend URL
    --cache-path <path>        Snapshot cache path
    --auto-persist=<bool>      Persist snapshots after every mutation
  flyttcrm cache reset --yes Wipe all cached snapshots

EXAMPLES:
  # Start MCP server for Claude Desktop
  flyttcrm mcp

  # Add a lead
  flyttcrm crm add-lead --name "Anna Andersson" --email "anna@example.com" --value 15000

  # Move a lead to the proposal stage
  flyttcrm crm move-lead --stage proposal <lead-id>

  # Book a job
  flyttcrm crm add-job --customer <id> --from "Storgatan 1" --to "Parkvägen 5" --date 2026-10-01

  # Advance a job to the next workflow status
  flyttcrm crm advance-job <job-id>

`, version)
}
