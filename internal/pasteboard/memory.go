package pasteboard

import "pbfiles/internal/model"

// Memory is a process-local clipboard.
type Memory struct {
	refs []model.FileRef
}

func NewMemory(refs ...model.FileRef) *Memory {
	return &Memory{refs: append([]model.FileRef(nil), refs...)}
}

func (m *Memory) Read() ([]model.FileRef, error) {
	return append([]model.FileRef(nil), m.refs...), nil
}

func (m *Memory) Write(refs []model.FileRef) error {
	m.refs = append([]model.FileRef(nil), refs...)
	return nil
}
