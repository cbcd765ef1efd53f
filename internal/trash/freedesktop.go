package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const infoLayout = "2006-01-02T15:04:05"

// Freedesktop implements the XDG trash layout: the item goes to files/ and a
// matching info/<name>.trashinfo records where it came from.
type Freedesktop struct {
	fs   afero.Fs
	root string
	now  func() time.Time
}

func NewFreedesktop(fs afero.Fs, root string) *Freedesktop {
	return &Freedesktop{fs: fs, root: root, now: time.Now}
}

func (f *Freedesktop) filesDir() string {
	return filepath.Join(f.root, "files")
}

func (f *Freedesktop) infoDir() string {
	return filepath.Join(f.root, "info")
}

func (f *Freedesktop) Trash(path string) (string, error) {
	for _, dir := range []string{f.filesDir(), f.infoDir()} {
		if err := f.fs.MkdirAll(dir, 0700); err != nil {
			return "", fmt.Errorf("failed to create trash dir: %w", err)
		}
	}

	now := f.now()
	name, err := freeName(f.fs, now, filepath.Base(path), func(name string) []string {
		return []string{
			filepath.Join(f.filesDir(), name),
			filepath.Join(f.infoDir(), name+".trashinfo"),
		}
	})
	if err != nil {
		return "", err
	}

	infoPath := filepath.Join(f.infoDir(), name+".trashinfo")
	if err := f.writeInfo(infoPath, path, now); err != nil {
		return "", err
	}

	dst := filepath.Join(f.filesDir(), name)
	if err := move(f.fs, path, dst); err != nil {
		_ = f.fs.Remove(infoPath)
		return "", err
	}

	return dst, nil
}

func (f *Freedesktop) writeInfo(infoPath, original string, deleted time.Time) error {
	file, err := f.fs.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to create trash info: %w", err)
	}

	body := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: original}).EscapedPath(),
		deleted.Format(infoLayout))

	if _, err := file.WriteString(body); err != nil {
		_ = file.Close()
		_ = f.fs.Remove(infoPath)
		return fmt.Errorf("failed to write trash info: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = f.fs.Remove(infoPath)
		return fmt.Errorf("failed to close trash info: %w", err)
	}

	return nil
}
