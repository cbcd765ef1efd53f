//go:build unix

package transfer

import (
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

func readable(fs afero.Fs, path string) bool {
	if _, ok := fs.(*afero.OsFs); ok {
		return unix.Access(path, unix.R_OK) == nil
	}
	return openable(fs, path)
}

// deletable reports whether path can be unlinked from its parent: the parent
// must be writable and searchable, on a writable filesystem, and a sticky
// parent additionally requires owning the file or the parent.
func deletable(fs afero.Fs, path string) bool {
	parent := filepath.Dir(path)

	if _, ok := fs.(*afero.OsFs); !ok {
		return modeDeletable(fs, parent)
	}

	if err := unix.Access(parent, unix.W_OK|unix.X_OK); err != nil {
		return false
	}

	dirInfo, err := os.Stat(parent)
	if err != nil {
		return false
	}
	if dirInfo.Mode()&os.ModeSticky == 0 {
		return true
	}

	uid := uint32(os.Geteuid())
	if uid == 0 {
		return true
	}

	fileInfo, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return ownedBy(dirInfo, uid) || ownedBy(fileInfo, uid)
}

func ownedBy(info os.FileInfo, uid uint32) bool {
	st, ok := info.Sys().(*syscall.Stat_t)
	return ok && st.Uid == uid
}
