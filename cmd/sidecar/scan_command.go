package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"sidecar/internal/companion"
	"sidecar/internal/config"
	"sidecar/internal/ledger"
	"sidecar/internal/logging"
	"sidecar/internal/preflight"
	"sidecar/internal/scan"
)

type scanOptions struct {
	workers     int
	missingOnly bool
	noLedger    bool
	jsonOutput  bool
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Resolve the sidecar of every media file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runScan(cmd, cfg, ctx.loggerValue(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Media files resolved in parallel (default from config)")
	cmd.Flags().BoolVar(&opts.missingOnly, "missing-only", false, "Only print media files without a sidecar or with probe errors")
	cmd.Flags().BoolVar(&opts.noLedger, "no-ledger", false, "Do not record this scan in the ledger")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Emit JSON")
	return cmd
}

func runScan(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, rootArg string, opts scanOptions) error {
	root, err := filepath.Abs(rootArg)
	if err != nil {
		return fmt.Errorf("resolve scan root: %w", err)
	}

	record := cfg.Ledger.Enabled && !opts.noLedger
	checks := *cfg
	checks.Ledger.Enabled = record
	if err := preflight.FirstFailure(preflight.RunAll(&checks, root)); err != nil {
		return err
	}

	workers := cfg.Scan.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}

	files, err := scan.MediaFiles(root, cfg)
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	out := runOutput{Root: root}
	var (
		store *ledger.Store
		run   *ledger.Run
	)
	if record {
		unlock, err := ledger.Lock(cfg.LockPath())
		if err != nil {
			return err
		}
		defer func() { _ = unlock() }()

		store, err = ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		run, err = store.BeginRun(cmd.Context(), root)
		if err != nil {
			return err
		}
		out.RunID = run.ID
		logger = logger.With(logging.String(logging.FieldRunID, run.ID))
	}

	logger.Info("scan started",
		logging.String(logging.FieldRoot, root),
		logging.Int("media_files", len(files)),
		logging.Int("workers", workers),
	)

	runner := scan.NewRunner(companion.NewResolver(nil, logger), workers, logger)
	results, err := runner.Run(cmd.Context(), files)
	if err != nil {
		if record {
			if abortErr := store.AbortRun(context.WithoutCancel(cmd.Context()), run.ID); abortErr != nil {
				logger.Warn("discard interrupted run failed", logging.Error(abortErr))
			}
		}
		return err
	}

	entries := make([]ledger.Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, r.Entry())
	}
	if record {
		// Record even when the scan's context is done so the run is not left half-written.
		recordCtx := context.WithoutCancel(cmd.Context())
		if err := store.Record(recordCtx, run.ID, entries); err != nil {
			return err
		}
		if err := store.FinishRun(recordCtx, run); err != nil {
			return err
		}
	}

	summary := scan.Summarize(results)
	out.Summary = summaryOutput{Found: summary.Found, Missing: summary.Missing, Failed: summary.Failed}
	shown := filterEntries(entries, opts.missingOnly)
	if err := printRun(cmd, out, shown, opts.jsonOutput); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d media files could not be probed: %w", summary.Failed, summary.Total(), companion.ErrAccess)
	}
	return nil
}

func filterEntries(entries []ledger.Entry, missingOnly bool) []ledger.Entry {
	if !missingOnly {
		return entries
	}
	filtered := make([]ledger.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Status != ledger.StatusFound {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func printRun(cmd *cobra.Command, out runOutput, entries []ledger.Entry, jsonOutput bool) error {
	if wantsJSON(cmd, jsonOutput) {
		out.Results = make([]resultOutput, 0, len(entries))
		for _, entry := range entries {
			out.Results = append(out.Results, entryOutput(entry))
		}
		return writeJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	if len(entries) > 0 {
		fmt.Fprintln(w, entriesTable(entries))
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Root", "Found", "Missing", "Failed"},
		[][]string{{
			out.Root,
			fmt.Sprint(out.Summary.Found),
			fmt.Sprint(out.Summary.Missing),
			fmt.Sprint(out.Summary.Failed),
		}},
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	if out.RunID != "" {
		fmt.Fprintf(w, "Recorded as run %s\n", out.RunID)
	}
	return nil
}
