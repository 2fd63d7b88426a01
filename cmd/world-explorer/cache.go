// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/world-explorer/internal/config"
	"github.com/pdiddy/world-explorer/internal/flightcache"
	"github.com/pdiddy/world-explorer/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and curate the persisted flight cache",
	Long: `The flight cache grows without eviction. These subcommands create it,
report on it, remove entries, and move it between the json and sqlite
backends.`,
}

var cacheInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty flight cache at the configured path",
	Long: `Init creates the configured cache when it does not exist yet. explore and
search refuse to start without one, so a missing or misplaced cache file is
never silently replaced. An existing cache is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		store, err := flightcache.Create(cmd.Context(), cfg.Cache)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "flight cache ready at %s (%s, %d entries)\n",
			cfg.Cache.Path, cfg.Cache.Backend, len(entries))
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print entry counts for the flight cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		c, err := openCache(cmd.Context(), cfg.Cache)
		if err != nil {
			return err
		}

		s := c.Stats()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "backend:  %s\n", cfg.Cache.Backend)
		fmt.Fprintf(w, "path:     %s\n", cfg.Cache.Path)
		fmt.Fprintf(w, "entries:  %d\n", s.Entries)
		fmt.Fprintf(w, "fares:    %d\n", s.Entries-s.NoFare)
		fmt.Fprintf(w, "no fare:  %d\n", s.NoFare)
		fmt.Fprintf(w, "radius:   %.0f km\n", c.RadiusKm())
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove entries from the flight cache",
	Long: `Prune rewrites the cache without the selected entries. --no-fare drops the
remembered "no fare" routes so they are looked up again. --all empties the
cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		noFare, _ := cmd.Flags().GetBool("no-fare")
		all, _ := cmd.Flags().GetBool("all")
		if !noFare && !all {
			return fmt.Errorf("nothing to prune: pass --no-fare or --all")
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		store, err := flightcache.Open(cfg.Cache)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		entries, err := store.Load(ctx)
		if err != nil {
			return err
		}

		kept := flightcache.Filter(entries, func(e types.FlightCacheEntry) bool {
			return !all && e.Quote().HasFare()
		})
		if err := store.Save(ctx, kept); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d of %d entries\n", len(entries)-len(kept), len(entries))
		return nil
	},
}

var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the flight cache into another backend",
	Example: `  world-explorer cache migrate --to sqlite --to-path cache/flights.db
  world-explorer cache migrate --to json --to-path cache/flightsCache.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		toPath, _ := cmd.Flags().GetString("to-path")
		if toPath == "" {
			return fmt.Errorf("--to-path is required")
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		dst := types.CacheConfig{Backend: types.CacheBackend(to), Path: toPath, RadiusKm: cfg.Cache.RadiusKm}
		if dst.Backend == cfg.Cache.Backend && dst.Path == cfg.Cache.Path {
			return fmt.Errorf("source and destination are the same cache")
		}

		ctx := cmd.Context()
		n, err := migrateCache(ctx, cfg.Cache, dst)
		if err != nil {
			return err
		}
		log.Info().
			Str("from", cfg.Cache.Path).
			Str("to", dst.Path).
			Int("entries", n).
			Msg("flight cache migrated")
		fmt.Fprintf(cmd.OutOrStdout(), "copied %d entries to %s (%s)\n", n, dst.Path, dst.Backend)
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().Bool("no-fare", false, "remove entries recording that no fare exists")
	cachePruneCmd.Flags().Bool("all", false, "remove every entry")

	cacheMigrateCmd.Flags().String("to", string(types.CacheSQLite), "destination backend: json or sqlite")
	cacheMigrateCmd.Flags().String("to-path", "", "destination cache path")

	cacheCmd.AddCommand(cacheInitCmd, cacheStatsCmd, cachePruneCmd, cacheMigrateCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCache(ctx context.Context, cfg types.CacheConfig) (*flightcache.Cache, error) {
	store, err := flightcache.Open(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return flightcache.LoadCache(ctx, store, cfg.RadiusKm)
}

// migrateCache copies every entry from src to dst, preserving order.
func migrateCache(ctx context.Context, src, dst types.CacheConfig) (int, error) {
	c, err := openCache(ctx, src)
	if err != nil {
		return 0, err
	}

	out, err := flightcache.Create(ctx, dst)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	entries := c.Entries()
	if err := out.Save(ctx, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}
