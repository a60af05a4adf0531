package scan_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"sidecar/internal/companion"
	"sidecar/internal/ledger"
	"sidecar/internal/scan"
	"sidecar/internal/testsupport"
)

func TestMediaFilesFiltersAndSorts(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExcludeDirs("trash"))
	root := t.TempDir()
	testsupport.Touch(t, root,
		"2019/IMG_2.JPG",
		"2019/IMG_2.JPG.json",
		"2019/IMG_1.jpg",
		"clip.MP4",
		"notes.txt",
		"metadata.json",
		"trash/IMG_9.jpg",
	)

	got, err := scan.MediaFiles(root, cfg)
	if err != nil {
		t.Fatalf("MediaFiles returned error: %v", err)
	}
	want := []string{
		filepath.Join(root, "2019", "IMG_1.jpg"),
		filepath.Join(root, "2019", "IMG_2.JPG"),
		filepath.Join(root, "clip.MP4"),
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected files:\n got %q\nwant %q", got, want)
	}
}

func TestMediaFilesMissingRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := scan.MediaFiles(filepath.Join(t.TempDir(), "absent"), cfg); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestMediaFilesFollowsSymlinkedRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	base := t.TempDir()
	realDir := filepath.Join(base, "real")
	testsupport.Touch(t, realDir, "a.jpg", "a.jpg.json")
	link := filepath.Join(base, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	resolvedDir, err := filepath.EvalSymlinks(realDir)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}

	got, err := scan.MediaFiles(link, cfg)
	if err != nil {
		t.Fatalf("MediaFiles returned error: %v", err)
	}
	want := filepath.Join(resolvedDir, "a.jpg")
	if len(got) != 1 || got[0] != want {
		t.Fatalf("expected [%s], got %q", want, got)
	}
}

func TestRunnerResolvesAgainstFilesystem(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(3))
	root := t.TempDir()
	testsupport.Touch(t, root,
		"IMG_1.jpg", "IMG_1.jpg.json",
		"IMG_2-edited.jpg", "IMG_2.json",
		"foo(1).jpg", "foo.jpg(1).json",
		"lonely.png",
		"VID_3.mp4", "VID_3.HEIC.json",
	)

	files, err := scan.MediaFiles(root, cfg)
	if err != nil {
		t.Fatalf("MediaFiles returned error: %v", err)
	}
	runner := scan.NewRunner(companion.NewResolver(nil, nil), cfg.Scan.Workers, nil)
	results, err := runner.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(results) != len(files) {
		t.Fatalf("expected %d results, got %d", len(files), len(results))
	}

	want := map[string]string{
		"IMG_1.jpg":        "IMG_1.jpg.json",
		"IMG_2-edited.jpg": "IMG_2.json",
		"foo(1).jpg":       "foo.jpg(1).json",
		"lonely.png":       "",
		"VID_3.mp4":        "VID_3.HEIC.json",
	}
	for i, r := range results {
		if r.MediaPath != files[i] {
			t.Fatalf("results out of order at %d: %q vs %q", i, r.MediaPath, files[i])
		}
		wantCompanion, ok := want[filepath.Base(r.MediaPath)]
		if !ok {
			t.Fatalf("unexpected media file %q", r.MediaPath)
		}
		if wantCompanion == "" {
			if r.Status != ledger.StatusMissing || r.CompanionPath != "" {
				t.Fatalf("%s: expected missing, got %+v", r.MediaPath, r)
			}
			continue
		}
		if r.Status != ledger.StatusFound || filepath.Base(r.CompanionPath) != wantCompanion {
			t.Fatalf("%s: expected %s, got %+v", r.MediaPath, wantCompanion, r)
		}
	}

	summary := scan.Summarize(results)
	if summary.Found != 4 || summary.Missing != 1 || summary.Failed != 0 || summary.Total() != 5 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

type flakyResolver struct {
	calls atomic.Int32
}

func (f *flakyResolver) ForMediaFile(path string) (string, bool, error) {
	f.calls.Add(1)
	switch filepath.Base(path) {
	case "denied.jpg":
		return "", false, &companion.AccessError{Path: path + ".json", Err: os.ErrPermission}
	case "found.jpg":
		return path + ".json", true, nil
	default:
		return "", false, nil
	}
}

func TestRunnerRecordsAccessFailuresAndContinues(t *testing.T) {
	files := []string{"/x/denied.jpg", "/x/found.jpg", "/x/none.jpg"}
	resolver := &flakyResolver{}

	results, err := scan.NewRunner(resolver, 0, nil).Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if resolver.calls.Load() != 3 {
		t.Fatalf("expected every file resolved, got %d calls", resolver.calls.Load())
	}
	if results[0].Status != ledger.StatusError || !errors.Is(results[0].Err, companion.ErrAccess) {
		t.Fatalf("expected access failure, got %+v", results[0])
	}
	entry := results[0].Entry()
	if entry.Status != ledger.StatusError || !strings.Contains(entry.ErrorMessage, "permission denied") {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if results[1].Status != ledger.StatusFound || results[1].Entry().CompanionPath != "/x/found.jpg.json" {
		t.Fatalf("unexpected found result %+v", results[1])
	}
	if results[2].Status != ledger.StatusMissing {
		t.Fatalf("unexpected missing result %+v", results[2])
	}
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := &flakyResolver{}
	files := make([]string, 50)
	for i := range files {
		files[i] = "/x/none.jpg"
	}
	results, err := scan.NewRunner(resolver, 2, nil).Run(ctx, files)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if results != nil {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
