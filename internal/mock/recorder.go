package mock

import (
	"pbfiles/internal/model"
	"pbfiles/internal/transfer"
)

var _ transfer.Recorder = (*Recorder)(nil)

// Recorder is a mock implementation of transfer.Recorder.
type Recorder struct {
	SaveFn func(result model.Result, err error) error
}

func (r *Recorder) Save(result model.Result, err error) error {
	return r.SaveFn(result, err)
}
