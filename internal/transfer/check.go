package transfer

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

func openable(fs afero.Fs, path string) bool {
	f, err := fs.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

func modeDeletable(fs afero.Fs, parent string) bool {
	if _, ok := fs.(*afero.ReadOnlyFs); ok {
		return false
	}
	info, err := fs.Stat(parent)
	if err != nil {
		return false
	}
	return info.IsDir() && info.Mode().Perm()&0200 != 0
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
