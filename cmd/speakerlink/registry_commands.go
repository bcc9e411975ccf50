package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josecerv/search-costs-experiment-sub000/internal/ingest"
	"github.com/josecerv/search-costs-experiment-sub000/internal/runner"
	"github.com/josecerv/search-costs-experiment-sub000/internal/store"
)

func newRegistryCommand(ctx *commandContext) *cobra.Command {
	registryCmd := &cobra.Command{
		Use:   "registry",
		Short: "Speaker registry operations",
	}
	registryCmd.AddCommand(newRegistryBuildCommand(ctx))
	registryCmd.AddCommand(newRegistryStatsCommand(ctx))
	return registryCmd
}

func newRegistryBuildCommand(ctx *commandContext) *cobra.Command {
	var batchID string
	var supplementPaths []string

	cmd := &cobra.Command{
		Use:   "build <primary.csv>",
		Short: "Fold seminar appearance CSVs into the speaker registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			primary, err := readRowsFile(args[0], batchID)
			if err != nil {
				return err
			}

			var supplements []ingest.Row
			for _, path := range supplementPaths {
				rows, err := readRowsFile(path, batchID)
				if err != nil {
					return err
				}
				supplements = append(supplements, rows...)
			}

			var summary runner.BuildSummary
			err = ctx.withRunner(func(r *runner.Runner, _ *store.Store) error {
				summary, err = r.BuildRegistry(cmd.Context(), primary, supplements)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registry build %s\n", summary.RunID)
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Count"},
				[][]string{
					{"Rows ingested", strconv.Itoa(summary.RowsIngested)},
					{"Slots filled from supplements", strconv.Itoa(summary.SlotsFilled)},
					{"Slot overflow", strconv.Itoa(summary.SlotOverflow)},
					{"Unmatched supplement rows", strconv.Itoa(summary.UnmatchedRows)},
					{"Appearances after dedup", strconv.Itoa(summary.Appearances)},
					{"Same-day duplicates removed", strconv.Itoa(summary.DuplicatesRemoved)},
					{"Dropped (no name)", strconv.Itoa(summary.DroppedEmpty)},
					{"Canonical speakers", strconv.Itoa(summary.SpeakersTotal)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&batchID, "batch", "", "Batch identifier stamped onto ingested rows")
	cmd.Flags().StringArrayVar(&supplementPaths, "supplement", nil, "Supplementary CSV whose speakers fill empty primary slots (repeatable)")
	return cmd
}

func newRegistryStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show registry size per field",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				counts, err := s.FieldCounts(cmd.Context())
				if err != nil {
					return err
				}
				total, err := s.SpeakerCount(cmd.Context())
				if err != nil {
					return err
				}

				fields := make([]string, 0, len(counts))
				for field := range counts {
					fields = append(fields, field)
				}
				sort.Strings(fields)

				rows := make([][]string, 0, len(fields)+1)
				for _, field := range fields {
					rows = append(rows, []string{field, strconv.Itoa(counts[field])})
				}
				rows = append(rows, []string{"total", strconv.Itoa(total)})

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Field", "Speakers"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}
