// Package transfer copies or moves batches of files into a directory.
//
// A batch is validated completely before anything is written, so a rejected
// batch has no side effects. Once execution starts a failure aborts the
// batch without rolling back pairs that already completed.
package transfer

import (
	"fmt"
	"pbfiles/internal/logger"
	"pbfiles/internal/model"
	"pbfiles/internal/trash"
	"pbfiles/internal/util"
	"runtime"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// Recorder receives each finished pair. A nil err means it succeeded.
type Recorder interface {
	Save(result model.Result, err error) error
}

type Engine struct {
	fs       afero.Fs
	trash    trash.Trash
	log      *zap.Logger
	recorder Recorder
	foldCase bool
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithCaseInsensitivePaths makes path comparisons ignore case, as on the
// default macOS and Windows filesystems.
func WithCaseInsensitivePaths(fold bool) Option {
	return func(e *Engine) {
		e.foldCase = fold
	}
}

func New(fs afero.Fs, t trash.Trash, opts ...Option) *Engine {
	e := &Engine{
		fs:       fs,
		trash:    t,
		log:      logger.Log,
		foldCase: runtime.GOOS == "darwin" || runtime.GOOS == "windows",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute validates pairs and then transfers them in order. In move mode
// sources are trashed only after every copy in the batch has succeeded.
// The results of completed pairs are returned even when err is non-nil.
func (e *Engine) Execute(pairs []model.TransferPair, mode model.TransferMode, force bool) ([]model.Result, error) {
	if err := e.Validate(pairs, mode, force); err != nil {
		return nil, err
	}

	results := make([]model.Result, 0, len(pairs))
	for _, pair := range pairs {
		result := model.Result{Pair: pair, Mode: mode}

		replaced, err := e.place(pair, force)
		result.ReplacedTrash = replaced
		if err != nil {
			e.record(result, err)
			return results, err
		}

		if mode == model.ModeCopy {
			e.record(result, nil)
		}
		results = append(results, result)
	}

	if mode != model.ModeMove {
		return results, nil
	}

	for i := range results {
		src := results[i].Pair.Source
		loc, err := e.trash.Trash(src)
		if err != nil {
			err = fmt.Errorf("failed to trash source %s: %w", src, err)
			e.log.Error("move aborted",
				zap.String("src", src),
				zap.Error(err))
			e.record(results[i], err)
			return results, err
		}

		results[i].SourceTrash = loc
		e.log.Debug("source trashed",
			zap.String("src", src),
			zap.String("trash", loc))
		e.record(results[i], nil)
	}

	return results, nil
}

// DryRun validates pairs and returns the results Execute would produce,
// without touching the filesystem.
func (e *Engine) DryRun(pairs []model.TransferPair, mode model.TransferMode, force bool) ([]model.Result, error) {
	if err := e.Validate(pairs, mode, force); err != nil {
		return nil, err
	}

	results := make([]model.Result, len(pairs))
	for i, pair := range pairs {
		results[i] = model.Result{Pair: pair, Mode: mode}
	}
	return results, nil
}

// Validate checks every pair and returns the first violation.
func (e *Engine) Validate(pairs []model.TransferPair, mode model.TransferMode, force bool) error {
	seen := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		src, dst := pair.Source, pair.Destination

		key := e.pathKey(dst)
		if prev, ok := seen[key]; ok {
			return model.NewError(model.KindDestinationExists, dst,
				fmt.Sprintf("%s is the destination of both %s and %s", dst, prev, src))
		}
		seen[key] = src

		if e.pathKey(src) == key {
			return model.NewError(model.KindDestinationExists, dst,
				fmt.Sprintf("%s is both source and destination", dst))
		}

		dstExists, err := util.Exists(e.fs, dst)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", dst, err)
		}
		if dstExists && !force {
			return model.NewError(model.KindDestinationExists, dst, "")
		}

		srcExists, err := util.Exists(e.fs, src)
		if err != nil {
			return model.WrapError(model.KindSourceUnreadable, src, err)
		}
		if !srcExists {
			return model.NewError(model.KindSourceNotFound, src, "")
		}

		if !readable(e.fs, src) {
			return model.NewError(model.KindSourceUnreadable, src, "")
		}

		// Replacing dst must not take any source with it, and no copy may
		// land inside a source.
		for _, other := range pairs {
			if e.within(other.Source, dst) {
				return model.NewError(model.KindDestinationExists, dst,
					fmt.Sprintf("%s contains %s, which is being transferred", dst, other.Source))
			}
			if e.within(dst, other.Source) {
				into := other.Source
				if other.Source == src {
					into = "itself"
				}
				return model.NewError(model.KindPathInvalid, other.Source,
					fmt.Sprintf("cannot copy %s into %s", src, into))
			}
		}

		if mode == model.ModeMove && !deletable(e.fs, src) {
			return model.NewError(model.KindSourceNotDeletable, src, "")
		}
	}

	return nil
}

func (e *Engine) pathKey(path string) string {
	if e.foldCase {
		return cases.Fold().String(path)
	}
	return path
}

func (e *Engine) within(path, dir string) bool {
	return within(e.pathKey(path), e.pathKey(dir))
}

// place copies one pair, trashing an existing destination first when force
// is set. It returns the trash location of the replaced destination.
func (e *Engine) place(pair model.TransferPair, force bool) (string, error) {
	src, dst := pair.Source, pair.Destination

	exists, err := util.Exists(e.fs, dst)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", dst, err)
	}

	replaced := ""
	if exists {
		if !force {
			return "", model.NewError(model.KindDestinationExists, dst, "")
		}

		replaced, err = e.trash.Trash(dst)
		if err != nil {
			err = fmt.Errorf("failed to trash destination %s: %w", dst, err)
			e.log.Error("transfer failed",
				zap.String("dst", dst),
				zap.Error(err))
			return "", err
		}

		e.log.Debug("destination trashed",
			zap.String("dst", dst),
			zap.String("trash", replaced))
	}

	if err := util.CopyTree(e.fs, src, dst); err != nil {
		e.log.Error("transfer failed",
			zap.String("src", src),
			zap.String("dst", dst),
			zap.Error(err))

		if ok, _ := util.Exists(e.fs, src); !ok {
			return replaced, model.NewError(model.KindSourceNotFound, src,
				fmt.Sprintf("%s disappeared before it could be copied", src))
		}
		return replaced, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	e.log.Debug("copied",
		zap.String("src", src),
		zap.String("dst", dst))

	return replaced, nil
}

func (e *Engine) record(result model.Result, err error) {
	if e.recorder == nil {
		return
	}

	if recErr := e.recorder.Save(result, err); recErr != nil {
		e.log.Warn("failed to save history",
			zap.String("src", result.Pair.Source),
			zap.Error(recErr))
	}
}
