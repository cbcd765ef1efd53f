package pasteboard

import (
	"path/filepath"
	"pbfiles/internal/model"
	"strings"

	"github.com/atotto/clipboard"
)

// Text keeps file references on the plain-text clipboard as a uri-list,
// one file URL per line. Reading also accepts bare absolute paths.
type Text struct {
	readAll  func() (string, error)
	writeAll func(string) error
	system   bool
}

func NewText() *Text {
	return &Text{readAll: clipboard.ReadAll, writeAll: clipboard.WriteAll, system: true}
}

func NewTextWith(readAll func() (string, error), writeAll func(string) error) *Text {
	return &Text{readAll: readAll, writeAll: writeAll}
}

func (t *Text) Read() ([]model.FileRef, error) {
	if t.system && clipboard.Unsupported {
		return nil, model.NewError(model.KindClipboardUnavailable, "", "")
	}

	content, err := t.readAll()
	if err != nil {
		return nil, model.WrapError(model.KindClipboardUnavailable, "", err)
	}

	var refs []model.FileRef
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "file:") {
			ref := model.FileRef{URL: line}
			p, err := Path(ref)
			if err != nil {
				return nil, err
			}
			ref.Name = filepath.Base(p)
			refs = append(refs, ref)
			continue
		}

		if filepath.IsAbs(line) {
			ref, err := NewFileRef(filepath.Clean(line))
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
	}

	return refs, nil
}

func (t *Text) Write(refs []model.FileRef) error {
	if t.system && clipboard.Unsupported {
		return model.NewError(model.KindClipboardWriteFailed, "", "no clipboard utility available")
	}

	lines := make([]string, len(refs))
	for i, ref := range refs {
		lines[i] = ref.URL
	}

	if err := t.writeAll(strings.Join(lines, "\n")); err != nil {
		return model.WrapError(model.KindClipboardWriteFailed, "", err)
	}

	return nil
}
