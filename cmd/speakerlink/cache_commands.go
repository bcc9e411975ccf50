package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josecerv/search-costs-experiment-sub000/internal/store"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Oracle decision cache operations",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show decision cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				stats, err := s.CacheStats(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Entries", strconv.Itoa(stats.Entries)},
					{"Total hits", strconv.Itoa(stats.TotalHits)},
				}
				if !stats.OldestUse.IsZero() {
					rows = append(rows,
						[]string{"Oldest use", stats.OldestUse.Format("2006-01-02 15:04:05")},
						[]string{"Newest use", stats.NewestUse.Format("2006-01-02 15:04:05")},
					)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Metric", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <batch-key>",
		Short: "Remove one cached oracle verdict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				removed, err := s.CacheRemove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if removed {
					fmt.Fprintln(out, "Removed cache entry")
				} else {
					fmt.Fprintln(out, "No cache entry with that key")
				}
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached oracle verdict",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("clearing the cache re-spends oracle calls on the next run; pass --yes to confirm")
			}
			return ctx.withStore(func(s *store.Store) error {
				cleared, err := s.CacheClear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cache entries\n", cleared)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm clearing the cache")
	return cmd
}
