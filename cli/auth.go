// ABOUTME: Auth CLI commands
// ABOUTME: Login, logout, and session inspection
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/nordflytt/flyttcrm/store"
)

// LoginCommand logs in against the backend and persists the session user.
func LoginCommand(ctx context.Context, stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address (required)")
	password := fs.String("password", "", "Password (required)")
	_ = fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("--email and --password are required")
	}

	ok, err := stores.Auth.Login(ctx, *email, *password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("invalid credentials")
	}

	user, _ := stores.Auth.CheckAuth()
	fmt.Printf("✓ Logged in as %s (%s)\n", user.Name, user.Role)
	return nil
}

// LogoutCommand clears the local session.
func LogoutCommand(stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	_ = fs.Parse(args)

	stores.Auth.Logout()
	fmt.Println("✓ Logged out")
	return nil
}

// WhoAmICommand prints the current session user.
func WhoAmICommand(stores *store.Registry, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	_ = fs.Parse(args)

	user, ok := stores.Auth.CheckAuth()
	if !ok {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}
