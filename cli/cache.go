// ABOUTME: Cache maintenance CLI commands
// ABOUTME: Inspect and reset the local snapshot cache
package cli

import (
	"flag"
	"fmt"

	"github.com/nordflytt/flyttcrm/cache"
)

// CacheInfoCommand prints the cache location and stored snapshot keys.
func CacheInfoCommand(cfg *cache.Config, c *cache.Store, args []string) error {
	fs := flag.NewFlagSet("cache-info", flag.ExitOnError)
	_ = fs.Parse(args)

	fmt.Printf("Cache path: %s\n", cfg.CachePath)

	keys, err := c.Keys()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(keys) == 0 {
		fmt.Println("No snapshots stored")
		return nil
	}
	fmt.Println("Snapshots:")
	for _, k := range keys {
		fmt.Printf("  %s\n", k)
	}
	return nil
}

// CacheConfigCommand updates the saved settings file. Flags not given keep
// their current values.
func CacheConfigCommand(cfg *cache.Config, args []string) error {
	fs := flag.NewFlagSet("cache-config", flag.ExitOnError)
	apiURL := fs.String("api-url", cfg.BaseURL, "CRM backend URL")
	cachePath := fs.String("cache-path", cfg.CachePath, "Snapshot cache path")
	autoPersist := fs.Bool("auto-persist", cfg.AutoPersist, "Persist snapshots after every mutation")
	_ = fs.Parse(args)

	cfg.BaseURL = *apiURL
	cfg.CachePath = *cachePath
	cfg.AutoPersist = *autoPersist

	if err := cache.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println("✓ Config saved")
	return nil
}

// CacheResetCommand wipes all cached snapshots.
func CacheResetCommand(c *cache.Store, args []string) error {
	fs := flag.NewFlagSet("cache-reset", flag.ExitOnError)
	confirm := fs.Bool("yes", false, "Confirm the reset")
	_ = fs.Parse(args)

	if !*confirm {
		return fmt.Errorf("cache reset discards all local snapshots; re-run with --yes to confirm")
	}

	if err := c.Reset(); err != nil {
		return fmt.Errorf("failed to reset cache: %w", err)
	}
	fmt.Println("✓ Cache reset")
	return nil
}
