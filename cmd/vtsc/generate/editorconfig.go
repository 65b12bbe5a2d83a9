package generate

import (
	"os"
	"path/filepath"

	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// loadEditorConfig resolves the editorconfig properties of path from the
// .editorconfig files found in fsys, nearest first, stopping after a file
// marked root. Only the properties applied to generated documents are merged.
func loadEditorConfig(fsys afero.Fs, path string) (*editorconfig.Definition, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", path, err)
	}

	def := &editorconfig.Definition{}
	dir := filepath.Dir(abs)
	for {
		ec, err := readEditorConfig(fsys, filepath.Join(dir, ".editorconfig"))
		if err != nil {
			return nil, err
		}
		if ec != nil {
			rel, err := filepath.Rel(dir, abs)
			if err != nil {
				return nil, errors.Errorf("relating %s to %s: %w", abs, dir, err)
			}
			found, err := ec.GetDefinitionForFilename("/" + filepath.ToSlash(rel))
			if err != nil {
				return nil, errors.Errorf("matching %s in %s: %w", rel, dir, err)
			}
			inherit(def, found)
			if ec.Root {
				break
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return def, nil
}

func readEditorConfig(fsys afero.Fs, name string) (*editorconfig.Editorconfig, error) {
	f, err := fsys.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	ec, err := editorconfig.Parse(f)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", name, err)
	}
	return ec, nil
}

// inherit fills the properties def does not set yet from a farther file.
func inherit(def, from *editorconfig.Definition) {
	if def.EndOfLine == "" {
		def.EndOfLine = from.EndOfLine
	}
	if def.InsertFinalNewline == nil {
		def.InsertFinalNewline = from.InsertFinalNewline
	}
}
