// Package pasteboard reads and writes file references on the system
// clipboard.
package pasteboard

import (
	"fmt"
	"net/url"
	"path/filepath"
	"pbfiles/internal/model"
	"runtime"
	"strings"
	"unicode/utf8"
)

type Clipboard interface {
	Read() ([]model.FileRef, error)
	Write(refs []model.FileRef) error
}

// New returns the clipboard backend named by backend: "native", "text" or
// "auto" (native on macOS, text elsewhere).
func New(backend string) (Clipboard, error) {
	switch backend {
	case "", "auto":
		if runtime.GOOS == "darwin" {
			return NewNative(), nil
		}
		return NewText(), nil
	case "native":
		if runtime.GOOS != "darwin" {
			return nil, model.NewError(model.KindClipboardUnavailable, "",
				fmt.Sprintf("native clipboard is not available on %s", runtime.GOOS))
		}
		return NewNative(), nil
	case "text":
		return NewText(), nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend: %s", backend)
	}
}

// NewFileRef builds the clipboard entry for an absolute path.
func NewFileRef(path string) (model.FileRef, error) {
	if path == "" || strings.ContainsRune(path, 0) || !utf8.ValidString(path) || !filepath.IsAbs(path) {
		return model.FileRef{}, model.NewError(model.KindPathInvalid, path, "")
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return model.FileRef{
		URL:  u.String(),
		Name: filepath.Base(path),
	}, nil
}

// Path decodes the local path a clipboard entry refers to.
func Path(ref model.FileRef) (string, error) {
	u, err := url.Parse(ref.URL)
	if err != nil {
		return "", model.WrapError(model.KindPathInvalid, ref.URL, err)
	}
	if u.Scheme != "file" || (u.Host != "" && u.Host != "localhost") || u.Path == "" {
		return "", model.NewError(model.KindPathInvalid, ref.URL, "")
	}

	return filepath.Clean(filepath.FromSlash(u.Path)), nil
}

func Paths(refs []model.FileRef) ([]string, error) {
	paths := make([]string, 0, len(refs))
	for _, ref := range refs {
		p, err := Path(ref)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func FileRefs(paths []string) ([]model.FileRef, error) {
	refs := make([]model.FileRef, 0, len(paths))
	for _, p := range paths {
		ref, err := NewFileRef(p)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
