//go:build !unix

package transfer

import (
	"path/filepath"

	"github.com/spf13/afero"
)

func readable(fs afero.Fs, path string) bool {
	return openable(fs, path)
}

func deletable(fs afero.Fs, path string) bool {
	return modeDeletable(fs, filepath.Dir(path))
}
