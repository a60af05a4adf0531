package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sidecar/internal/companion"
	"sidecar/internal/ledger"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var showCandidates bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve <media-file>...",
		Short: "Print the sidecar JSON path for each media file",
		Long: `Resolve prints the sidecar that Google Takeout exported for each media file.

A media file without a sidecar prints "not found" and is not an error. Files
whose candidates could not be probed (for example, permission denied) are
reported and make the command exit non-zero.

With --candidates the generated sidecar names are listed in probe order
without touching the filesystem.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showCandidates {
				return printCandidates(cmd, args, jsonOutput)
			}

			resolver := companion.NewResolver(nil, ctx.loggerValue())
			outputs := make([]resultOutput, 0, len(args))
			failures := 0
			for _, path := range args {
				found, ok, err := resolver.ForMediaFile(path)
				out := resultOutput{MediaPath: path}
				switch {
				case err != nil:
					failures++
					out.Status = string(ledger.StatusError)
					out.Error = err.Error()
				case ok:
					out.Status = string(ledger.StatusFound)
					out.CompanionPath = found
				default:
					out.Status = string(ledger.StatusMissing)
				}
				outputs = append(outputs, out)
			}

			if jsonOutput {
				if err := writeJSON(cmd, outputs); err != nil {
					return err
				}
			} else {
				w := cmd.OutOrStdout()
				for _, out := range outputs {
					switch out.Status {
					case string(ledger.StatusFound):
						fmt.Fprintf(w, "%s: %s\n", out.MediaPath, out.CompanionPath)
					case string(ledger.StatusMissing):
						fmt.Fprintf(w, "%s: not found\n", out.MediaPath)
					default:
						fmt.Fprintf(w, "%s: error: %s\n", out.MediaPath, out.Error)
					}
				}
			}

			if failures > 0 {
				return fmt.Errorf("%d of %d media files could not be probed: %w", failures, len(args), companion.ErrAccess)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCandidates, "candidates", false, "List candidate sidecar names without probing")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON")
	return cmd
}

func printCandidates(cmd *cobra.Command, args []string, jsonOutput bool) error {
	outputs := make([]resultOutput, 0, len(args))
	for _, path := range args {
		media := companion.SplitMediaPath(path)
		outputs = append(outputs, resultOutput{
			MediaPath:  path,
			Status:     "candidates",
			Candidates: companion.Candidates(media.Stem, media.Ext),
		})
	}
	if jsonOutput {
		return writeJSON(cmd, outputs)
	}

	w := cmd.OutOrStdout()
	for i, out := range outputs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", out.MediaPath)
		for n, name := range out.Candidates {
			fmt.Fprintf(w, "  %2d. %s\n", n+1, name)
		}
	}
	return nil
}
