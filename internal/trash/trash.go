// Package trash moves files somewhere they can be recovered from instead of
// deleting them.
package trash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"pbfiles/internal/util"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/afero"
)

const stampLayout = "20060102_150405"

// Trash moves path out of the way and returns where it ended up.
type Trash interface {
	Trash(path string) (string, error)
}

// Dir is a trash that is a plain directory, like ~/.Trash on macOS.
type Dir struct {
	fs   afero.Fs
	root string
	now  func() time.Time
}

func NewDir(fs afero.Fs, root string) *Dir {
	return &Dir{fs: fs, root: root, now: time.Now}
}

func (d *Dir) Trash(path string) (string, error) {
	if err := d.fs.MkdirAll(d.root, 0700); err != nil {
		return "", fmt.Errorf("failed to create trash dir: %w", err)
	}

	target, err := freeName(d.fs, d.now(), filepath.Base(path), func(name string) []string {
		return []string{filepath.Join(d.root, name)}
	})
	if err != nil {
		return "", err
	}

	dst := filepath.Join(d.root, target)
	if err := move(d.fs, path, dst); err != nil {
		return "", err
	}

	return dst, nil
}

// Default returns the user's trash for the current platform.
func Default(fs afero.Fs) (Trash, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home dir: %w", err)
	}

	if runtime.GOOS == "darwin" {
		return NewDir(fs, filepath.Join(home, ".Trash")), nil
	}

	data := os.Getenv("XDG_DATA_HOME")
	if data == "" {
		data = filepath.Join(home, ".local", "share")
	}
	return NewFreedesktop(fs, filepath.Join(data, "Trash")), nil
}

// freeName picks a name derived from base for which none of the paths
// returned by taken exist. Collisions get a timestamp suffix before the
// extension, then a counter.
func freeName(fs afero.Fs, now time.Time, base string, taken func(string) []string) (string, error) {
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	if stem == "" {
		stem, ext = base, ""
	}

	stamp := now.Format(stampLayout)
	for i := 0; ; i++ {
		name := base
		switch {
		case i == 1:
			name = fmt.Sprintf("%s %s%s", stem, stamp, ext)
		case i > 1:
			name = fmt.Sprintf("%s %s_%d%s", stem, stamp, i-1, ext)
		}

		free := true
		for _, p := range taken(name) {
			ok, err := util.Exists(fs, p)
			if err != nil {
				return "", fmt.Errorf("failed to stat %s: %w", p, err)
			}
			if ok {
				free = false
				break
			}
		}
		if free {
			return name, nil
		}
	}
}

// move renames src to dst, copying and removing when they sit on different
// devices.
func move(fs afero.Fs, src, dst string) error {
	err := fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("failed to move %s to trash: %w", src, err)
	}

	if err := util.CopyTree(fs, src, dst); err != nil {
		_ = util.RemoveIfExists(fs, dst)
		return fmt.Errorf("failed to copy %s to trash: %w", src, err)
	}

	if err := fs.RemoveAll(src); err != nil {
		return fmt.Errorf("failed to remove %s after copying to trash: %w", src, err)
	}

	return nil
}
