package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const tmpPattern = ".pbfiles-*.tmp"

// AtomicWrite writes r to dst through a temporary file in dst's directory.
// The directory must already exist.
func AtomicWrite(fs afero.Fs, dst string, r io.Reader, perm os.FileMode) error {
	f, err := afero.TempFile(fs, filepath.Dir(dst), tmpPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to write: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Chmod(tmp, perm); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := fs.Rename(tmp, dst); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("failed to rename: %w", err)
	}

	return nil
}

func RemoveIfExists(fs afero.Fs, path string) error {
	if err := fs.RemoveAll(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}

func Exists(fs afero.Fs, path string) (bool, error) {
	if _, err := lstat(fs, path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CopyFile copies a regular file, keeping its mode and modification time.
func CopyFile(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat src: %w", err)
	}

	f, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open src: %w", err)
	}

	defer func(f afero.File) {
		_ = f.Close()
	}(f)

	if err := AtomicWrite(fs, dst, f, info.Mode().Perm()); err != nil {
		return err
	}

	return fs.Chtimes(dst, info.ModTime(), info.ModTime())
}

// CopyTree copies src to dst. Directories are copied recursively and
// symlinks are recreated rather than followed when the filesystem supports
// them.
func CopyTree(fs afero.Fs, src, dst string) error {
	info, err := lstat(fs, src)
	if err != nil {
		return fmt.Errorf("failed to stat src: %w", err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return copySymlink(fs, src, dst)

	case info.IsDir():
		if err := fs.Mkdir(dst, info.Mode().Perm()|0700); err != nil {
			return fmt.Errorf("failed to create dir %s: %w", dst, err)
		}

		entries, err := afero.ReadDir(fs, src)
		if err != nil {
			return fmt.Errorf("failed to read dir %s: %w", src, err)
		}

		for _, entry := range entries {
			name := entry.Name()
			if err := CopyTree(fs, filepath.Join(src, name), filepath.Join(dst, name)); err != nil {
				return err
			}
		}

		if err := fs.Chmod(dst, info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to chmod dir %s: %w", dst, err)
		}
		return fs.Chtimes(dst, info.ModTime(), info.ModTime())

	default:
		return CopyFile(fs, src, dst)
	}
}

func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}

func copySymlink(fs afero.Fs, src, dst string) error {
	reader, ok := fs.(afero.LinkReader)
	if !ok {
		return CopyFile(fs, src, dst)
	}
	linker, ok := fs.(afero.Linker)
	if !ok {
		return CopyFile(fs, src, dst)
	}

	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return fmt.Errorf("failed to read link %s: %w", src, err)
	}

	if err := linker.SymlinkIfPossible(target, dst); err != nil {
		return fmt.Errorf("failed to create link %s: %w", dst, err)
	}

	return nil
}
