package companion

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"sidecar/internal/logging"
)

// ErrAccess matches any probe that could not be completed.
var ErrAccess = errors.New("companion probe failed")

// AccessError reports a candidate path whose existence could not be decided.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrAccess) match regardless of the cause.
func (e *AccessError) Is(target error) bool { return target == ErrAccess }

// Prober answers whether a path exists. A missing path is (false, nil).
type Prober interface {
	Exists(path string) (bool, error)
}

// OSProber probes the local filesystem with os.Stat.
type OSProber struct{}

// Exists implements Prober.
func (OSProber) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return false, nil
	default:
		return false, err
	}
}

// MediaFile is a media path split into the parts the naming rules use.
type MediaFile struct {
	Dir  string
	Stem string
	Ext  string
}

// SplitMediaPath decomposes path. A name without an extension yields an
// empty Ext; an empty stem is allowed. A leading dot does not start an
// extension, so ".mp4" is a stem with no extension.
func SplitMediaPath(path string) MediaFile {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if strings.LastIndex(base, ".") == 0 || strings.Trim(base, ".") == "" {
		ext = ""
	}
	return MediaFile{
		Dir:  filepath.Dir(path),
		Stem: strings.TrimSuffix(base, ext),
		Ext:  ext,
	}
}

// Resolve probes dir/candidate for each candidate in order and returns the
// absolute path of the first that exists. found is false with a nil error
// when none exist.
func Resolve(dir string, candidates []string, p Prober) (path string, found bool, err error) {
	if p == nil {
		p = OSProber{}
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, fmt.Errorf("resolve directory %q: %w", dir, err)
	}
	for _, name := range candidates {
		target := filepath.Join(absDir, name)
		ok, err := p.Exists(target)
		if err != nil {
			return "", false, &AccessError{Path: target, Err: err}
		}
		if ok {
			return target, true, nil
		}
	}
	return "", false, nil
}

// Resolver resolves media files against a Prober and logs each lookup.
// A Resolver holds no per-call state and is safe for concurrent use.
type Resolver struct {
	prober Prober
	logger *slog.Logger
}

// NewResolver returns a Resolver. A nil prober uses OSProber and a nil
// logger discards output.
func NewResolver(p Prober, logger *slog.Logger) *Resolver {
	if p == nil {
		p = OSProber{}
	}
	return &Resolver{
		prober: p,
		logger: logging.NewComponentLogger(logger, "companion"),
	}
}

// ForMediaFile returns the sidecar path for the media file at path.
func (r *Resolver) ForMediaFile(path string) (string, bool, error) {
	media := SplitMediaPath(path)
	candidates := Candidates(media.Stem, media.Ext)

	found, ok, err := Resolve(media.Dir, candidates, r.prober)
	if err != nil {
		r.logger.Warn("sidecar probe failed",
			logging.String(logging.FieldMediaPath, path),
			logging.Error(err),
		)
		return "", false, err
	}
	if !ok {
		r.logger.Debug("no sidecar found",
			logging.String(logging.FieldMediaPath, path),
			logging.Int("candidates", len(candidates)),
		)
		return "", false, nil
	}
	r.logger.Debug("sidecar resolved",
		logging.String(logging.FieldMediaPath, path),
		logging.String(logging.FieldCompanionPath, found),
	)
	return found, true, nil
}

// Lookup resolves path against the local filesystem.
func Lookup(path string) (string, bool, error) {
	return NewResolver(nil, nil).ForMediaFile(path)
}
