package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sidecar/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var statuses []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a recorded scan from the ledger",
		Long:  "History prints the most recent recorded scan, or the one selected with --run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				return errors.New("ledger is disabled in configuration (ledger.enabled = false)")
			}

			filter, err := parseStatuses(statuses)
			if err != nil {
				return err
			}

			store, err := ledger.Open(cfg.Ledger.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			var run *ledger.Run
			if id := strings.TrimSpace(runID); id != "" {
				run, err = store.GetRun(cmd.Context(), id)
			} else {
				run, err = store.LatestRun(cmd.Context())
			}
			if err != nil {
				return err
			}
			if run == nil {
				if runID != "" {
					return fmt.Errorf("run %s not found", runID)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded yet")
				return nil
			}

			entries, err := store.Entries(cmd.Context(), run.ID, filter...)
			if err != nil {
				return err
			}

			out := runOutput{
				RunID:     run.ID,
				Root:      run.Root,
				StartedAt: run.StartedAt.Format(time.RFC3339),
				Summary:   summaryOutput{Found: run.Found, Missing: run.Missing, Failed: run.Failed},
			}
			if run.Finished() {
				out.FinishedAt = run.FinishedAt.Format(time.RFC3339)
			}
			return printRun(cmd, out, entries, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run ID to show (default: most recent)")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only show entries with these statuses (found, missing, error)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON")
	return cmd
}

func parseStatuses(values []string) ([]ledger.Status, error) {
	statuses := make([]ledger.Status, 0, len(values))
	for _, value := range values {
		switch status := ledger.Status(strings.ToLower(strings.TrimSpace(value))); status {
		case ledger.StatusFound, ledger.StatusMissing, ledger.StatusError:
			statuses = append(statuses, status)
		default:
			return nil, fmt.Errorf("unknown status %q (want found, missing, or error)", value)
		}
	}
	return statuses, nil
}
