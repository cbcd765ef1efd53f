package mock

import (
	"pbfiles/internal/model"
	"pbfiles/internal/pasteboard"
)

// Compile-time interface verification.
var _ pasteboard.Clipboard = (*Clipboard)(nil)

// Clipboard is a mock implementation of pasteboard.Clipboard.
type Clipboard struct {
	ReadFn  func() ([]model.FileRef, error)
	WriteFn func(refs []model.FileRef) error
}

func (c *Clipboard) Read() ([]model.FileRef, error) {
	return c.ReadFn()
}

func (c *Clipboard) Write(refs []model.FileRef) error {
	return c.WriteFn(refs)
}
