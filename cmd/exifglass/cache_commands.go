package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"exifglass/internal/tagcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the metadata cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show metadata cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(func(cache *tagcache.Cache) error {
				stats, err := cache.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Path:    %s\n", stats.Path)
				fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
				fmt.Fprintf(out, "Tags:    %d\n", stats.Tags)
				return nil
			})
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var maxAgeDays int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached reads not used recently",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			days := cfg.Cache.MaxAgeDays
			if cmd.Flags().Changed("max-age-days") {
				days = maxAgeDays
			}
			if days <= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache pruning disabled (max age is 0)")
				return nil
			}
			return ctx.withCache(func(cache *tagcache.Cache) error {
				removed, err := cache.Prune(cmd.Context(), time.Duration(days)*24*time.Hour)
				if err != nil {
					return err
				}
				if removed == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No cache entries pruned")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cached reads older than %d days\n", removed, days)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&maxAgeDays, "max-age-days", 0, "Override cache.max_age_days")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached read",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(func(cache *tagcache.Cache) error {
				removed, err := cache.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached reads\n", removed)
				return nil
			})
		},
	}
}

// withCache opens the configured cache database. The cache commands work
// even when cache.enabled is false so a stale database can still be cleared.
func (c *commandContext) withCache(fn func(*tagcache.Cache) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.Cache.Path == "" {
		return errors.New("cache.path is not configured")
	}
	cache, err := tagcache.Open(cfg)
	if err != nil {
		return err
	}
	defer cache.Close()
	return fn(cache)
}
