package mock

import "pbfiles/internal/trash"

var _ trash.Trash = (*Trash)(nil)

// Trash is a mock implementation of trash.Trash.
type Trash struct {
	TrashFn func(path string) (string, error)
}

func (t *Trash) Trash(path string) (string, error) {
	return t.TrashFn(path)
}
