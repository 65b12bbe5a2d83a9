package finder

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// DefaultInclude matches every component file below the search root.
var DefaultInclude = []string{"**/*.vue"}

// DefaultExclude skips installed dependencies.
var DefaultExclude = []string{"**/node_modules/**"}

// ComponentFinder is responsible for finding component files in a directory
type ComponentFinder interface {
	// FindComponents returns the files below dir whose slash-separated path
	// relative to dir matches an include pattern and no exclude pattern.
	FindComponents(ctx context.Context, dir string, include, exclude []string) ([]FileInfo, error)
}

// FileInfo represents a found component file
type FileInfo struct {
	// Path joins the search root and the relative path.
	Path     string
	Rel      string
	Content  []byte
	FileType string
}

type DefaultFinder struct {
	fs afero.Fs
}

func NewDefaultFinder(fs afero.Fs) *DefaultFinder {
	return &DefaultFinder{fs: fs}
}

var _ ComponentFinder = (*DefaultFinder)(nil)

func validate(patterns []string) error {
	var errs error
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			errs = multierr.Append(errs, errors.Errorf("invalid pattern %q", p))
		}
	}
	return errs
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// FindComponents walks dir on the finder's filesystem. Files that cannot be
// read are reported together after the walk; the readable ones are still
// returned.
func (f *DefaultFinder) FindComponents(ctx context.Context, dir string, include, exclude []string) ([]FileInfo, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	if exclude == nil {
		exclude = DefaultExclude
	}
	if err := multierr.Combine(validate(include), validate(exclude)); err != nil {
		return nil, errors.Errorf("validating patterns: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	var found []FileInfo
	var readErrs error

	err := afero.Walk(f.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			if rel != "." && matchAny(exclude, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchAny(include, rel) || matchAny(exclude, rel) {
			return nil
		}
		content, err := afero.ReadFile(f.fs, path)
		if err != nil {
			readErrs = multierr.Append(readErrs, errors.Errorf("reading %s: %w", path, err))
			return nil
		}
		logger.Trace().Str("path", path).Msg("found component")
		found = append(found, FileInfo{
			Path:     path,
			Rel:      rel,
			Content:  content,
			FileType: strings.TrimPrefix(filepath.Ext(path), "."),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", dir, err)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Rel < found[j].Rel })
	return found, readErrs
}
