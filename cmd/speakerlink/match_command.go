package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/josecerv/search-costs-experiment-sub000/internal/refmatch"
	"github.com/josecerv/search-costs-experiment-sub000/internal/runner"
	"github.com/josecerv/search-costs-experiment-sub000/internal/store"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var showOutcomes bool

	cmd := &cobra.Command{
		Use:   "match <references.csv>",
		Short: "Adjudicate reference records against the speaker registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := readReferencesFile(args[0])
			if err != nil {
				return err
			}
			refs := make([]refmatch.ReferenceRecord, 0, len(parsed))
			for _, ref := range parsed {
				refs = append(refs, refmatch.ReferenceRecord{
					RefID:          ref.RefID,
					RawName:        ref.Name,
					RawAffiliation: ref.Affiliation,
					Field:          ref.Field,
					CategoryLabel:  ref.CategoryLabel,
				})
			}

			client, err := ctx.oracleClient()
			if err != nil {
				return err
			}

			var summary runner.MatchSummary
			var outcomes []refmatch.Outcome
			err = ctx.withRunner(func(r *runner.Runner, s *store.Store) error {
				summary, err = r.MatchReferences(cmd.Context(), refs, client)
				if err != nil {
					return err
				}
				if showOutcomes {
					outcomes, err = s.OutcomesByRun(cmd.Context(), summary.RunID)
				}
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color := shouldColorize(out)
			fmt.Fprintf(out, "Match run %s\n", summary.RunID)
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Count"},
				[][]string{
					{"References", strconv.Itoa(summary.Total)},
					{"Invalid identity", strconv.Itoa(summary.InvalidIdentity)},
					{"Auto-accepted", strconv.Itoa(summary.AutoAccepted)},
					{"Auto-rejected", strconv.Itoa(summary.AutoRejected)},
					{"Oracle-accepted", strconv.Itoa(summary.OracleAccepted)},
					{"Oracle-rejected", strconv.Itoa(summary.OracleRejected)},
					{"Oracle failed", strconv.Itoa(summary.OracleFailed)},
					{"Needs review", strconv.Itoa(summary.NeedsReview)},
					{"Cache hits", strconv.Itoa(summary.CacheHits)},
					{"Oracle calls", strconv.Itoa(summary.OracleCalls)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			if summary.NeedsReview > 0 {
				fmt.Fprintln(out, colorize(
					fmt.Sprintf("%d reference(s) need manual review; run 'speakerlink review'", summary.NeedsReview),
					ansiYellow, color))
			}
			if showOutcomes {
				fmt.Fprintln(out, renderOutcomes(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showOutcomes, "outcomes", false, "Print the per-reference outcome table after the summary")
	return cmd
}

func newReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "List references flagged for manual review",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				outcomes, err := s.NeedsReview(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(outcomes) == 0 {
					fmt.Fprintln(out, colorize("Nothing awaiting review", ansiGreen, shouldColorize(out)))
					return nil
				}
				fmt.Fprintln(out, renderOutcomes(outcomes))
				return nil
			})
		},
	}
}

func renderOutcomes(outcomes []refmatch.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		speakerID := ""
		reasoning := ""
		for _, d := range outcome.Decisions {
			if d.Matched {
				speakerID = d.SpeakerID
				reasoning = d.Reasoning
				break
			}
			reasoning = d.Reasoning
		}
		rows = append(rows, []string{
			outcome.RefID,
			string(outcome.State),
			strconv.Itoa(outcome.TopScore),
			shortID(speakerID),
			reasoning,
		})
	}
	return renderTable(
		[]string{"Ref", "State", "Top", "Speaker", "Reasoning"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

// shortID truncates a speaker hash for table display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
