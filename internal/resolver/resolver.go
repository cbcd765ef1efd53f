// Package resolver turns raw command-line or clipboard paths into transfer
// pairs rooted at a destination directory.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"pbfiles/internal/model"

	"github.com/spf13/afero"
)

// Resolver turns raw command-line paths into absolute TransferPairs.
type Resolver struct {
	fs    afero.Fs
	getwd func() (string, error)
}

// New returns a Resolver over fs that resolves relative paths against the
// process working directory.
func New(fs afero.Fs) *Resolver {
	return &Resolver{fs: fs, getwd: os.Getwd}
}

// WithWorkingDir returns a copy of r that resolves relative paths against
// dir instead of the process working directory.
func (r *Resolver) WithWorkingDir(dir string) *Resolver {
	return &Resolver{fs: r.fs, getwd: func() (string, error) { return dir, nil }}
}

// Absolute makes path absolute and cleans it.
func (r *Resolver) Absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	wd, err := r.getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working dir: %w", err)
	}

	return filepath.Join(wd, path), nil
}

// Resolve pairs each raw path with destinationDir/<base name>, in input
// order. destinationDir must exist and be a directory.
func (r *Resolver) Resolve(rawPaths []string, destinationDir string) ([]model.TransferPair, error) {
	if destinationDir == "" {
		return nil, model.NewError(model.KindNotEnoughArguments, "", "Need target directory")
	}

	dir, err := r.Absolute(destinationDir)
	if err != nil {
		return nil, err
	}

	info, err := r.fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.NewError(model.KindDirectoryNotFound, dir, "")
		}
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, model.NewError(model.KindDirectoryNotFound, dir, fmt.Sprintf("%s is not a directory", dir))
	}

	pairs := make([]model.TransferPair, 0, len(rawPaths))
	for _, raw := range rawPaths {
		if raw == "" {
			return nil, model.NewError(model.KindPathInvalid, raw, "empty file path")
		}

		src, err := r.Absolute(raw)
		if err != nil {
			return nil, err
		}

		name := filepath.Base(src)
		if name == "." || name == string(filepath.Separator) {
			return nil, model.NewError(model.KindPathInvalid, src, "")
		}

		pairs = append(pairs, model.TransferPair{
			Source:      src,
			Destination: filepath.Join(dir, name),
		})
	}

	return pairs, nil
}
