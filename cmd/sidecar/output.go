package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sidecar/internal/ledger"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// wantsJSON reports whether output should be JSON: either requested, or
// stdout is not a terminal.
func wantsJSON(cmd *cobra.Command, requested bool) bool {
	return requested || !isTerminal(cmd.OutOrStdout())
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func statusLabel(status ledger.Status) string {
	return cases.Title(language.English).String(string(status))
}

type resultOutput struct {
	MediaPath     string   `json:"media_path"`
	CompanionPath string   `json:"companion_path,omitempty"`
	Status        string   `json:"status"`
	Error         string   `json:"error,omitempty"`
	Candidates    []string `json:"candidates,omitempty"`
}

func entryOutput(entry ledger.Entry) resultOutput {
	return resultOutput{
		MediaPath:     entry.MediaPath,
		CompanionPath: entry.CompanionPath,
		Status:        string(entry.Status),
		Error:         entry.ErrorMessage,
	}
}

type summaryOutput struct {
	Found   int `json:"found"`
	Missing int `json:"missing"`
	Failed  int `json:"failed"`
}

type runOutput struct {
	RunID      string         `json:"run_id,omitempty"`
	Root       string         `json:"root"`
	StartedAt  string         `json:"started_at,omitempty"`
	FinishedAt string         `json:"finished_at,omitempty"`
	Summary    summaryOutput  `json:"summary"`
	Results    []resultOutput `json:"results"`
}

func entriesTable(entries []ledger.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		detail := entry.CompanionPath
		if entry.ErrorMessage != "" {
			detail = entry.ErrorMessage
		}
		rows = append(rows, []string{statusLabel(entry.Status), entry.MediaPath, detail})
	}
	return renderTable([]string{"Status", "Media", "Sidecar"}, rows, nil)
}
