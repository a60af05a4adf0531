package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sidecar/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
	photos     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("SIDECAR_LOG_LEVEL", "error")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		stateDir:   filepath.Join(base, "state"),
		photos:     filepath.Join(base, "Takeout", "Google Photos"),
	}
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[scan]
workers = 2
`, env.stateDir, filepath.Join(base, "logs"))
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	testsupport.Touch(t, env.photos,
		"IMG_0001.jpg", "IMG_0001.jpg.json",
		"IMG_0002-edited.jpg", "IMG_0002.json",
		"PXL(2).jpg", "PXL.jpg(2).json",
		"orphan.png",
	)
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestResolveCommandPrintsSidecars(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "resolve",
		filepath.Join(env.photos, "IMG_0002-edited.jpg"),
		filepath.Join(env.photos, "orphan.png"),
	)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	wantFound := filepath.Join(env.photos, "IMG_0002-edited.jpg") + ": " + filepath.Join(env.photos, "IMG_0002.json")
	if !strings.Contains(out, wantFound) {
		t.Fatalf("expected %q in output:\n%s", wantFound, out)
	}
	if !strings.Contains(out, "orphan.png: not found") {
		t.Fatalf("expected not found line in output:\n%s", out)
	}
}

func TestResolveCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "resolve", "--json", filepath.Join(env.photos, "PXL(2).jpg"))
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	var results []resultOutput
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(results) != 1 || results[0].Status != "found" {
		t.Fatalf("unexpected results %+v", results)
	}
	if filepath.Base(results[0].CompanionPath) != "PXL.jpg(2).json" {
		t.Fatalf("unexpected companion %q", results[0].CompanionPath)
	}
}

func TestResolveCommandCandidates(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "resolve", "--candidates", "/nowhere/clip_n.mp4")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	for _, want := range []string{" 1. clip_n.json", "clip_.json", "clip_n.heic.json", "clip_n.jp.json"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestScanCommandRecordsRunAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "scan", env.photos)
	if err != nil {
		t.Fatalf("scan returned error: %v", err)
	}
	var run runOutput
	if err := json.Unmarshal([]byte(out), &run); err != nil {
		t.Fatalf("decode scan output: %v\n%s", err, out)
	}
	if run.RunID == "" {
		t.Fatal("expected scan to be recorded")
	}
	if run.Summary != (summaryOutput{Found: 3, Missing: 1}) {
		t.Fatalf("unexpected summary %+v", run.Summary)
	}
	if len(run.Results) != 4 {
		t.Fatalf("expected 4 results, got %+v", run.Results)
	}

	out, err = runCLI(t, env, "history", "--status", "missing")
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	var history runOutput
	if err := json.Unmarshal([]byte(out), &history); err != nil {
		t.Fatalf("decode history output: %v\n%s", err, out)
	}
	if history.RunID != run.RunID || history.FinishedAt == "" {
		t.Fatalf("unexpected history run %+v", history)
	}
	if len(history.Results) != 1 || filepath.Base(history.Results[0].MediaPath) != "orphan.png" {
		t.Fatalf("unexpected history results %+v", history.Results)
	}
}

func TestScanCommandMissingOnlyWithoutLedger(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "scan", "--no-ledger", "--missing-only", "--workers", "1", env.photos)
	if err != nil {
		t.Fatalf("scan returned error: %v", err)
	}
	var run runOutput
	if err := json.Unmarshal([]byte(out), &run); err != nil {
		t.Fatalf("decode scan output: %v\n%s", err, out)
	}
	if run.RunID != "" {
		t.Fatalf("expected unrecorded scan, got run %s", run.RunID)
	}
	if len(run.Results) != 1 || run.Results[0].Status != "missing" {
		t.Fatalf("unexpected results %+v", run.Results)
	}

	out, err = runCLI(t, env, "history")
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if !strings.Contains(out, "No scans recorded yet") {
		t.Fatalf("expected empty history, got:\n%s", out)
	}
}

func TestScanCommandRejectsMissingRoot(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := runCLI(t, env, "scan", filepath.Join(env.baseDir, "absent"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
}

func TestHistoryRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, env, "history", "--status", "lost"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "generated", "config.toml")

	out, err := runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected target path in output: %s", out)
	}
	if _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, err = runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show returned error: %v", err)
	}
	if !strings.Contains(out, env.configPath) || !strings.Contains(out, env.stateDir) {
		t.Fatalf("unexpected config show output:\n%s", out)
	}
}
