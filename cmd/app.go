package cmd

import (
	"errors"
	"fmt"
	"io"
	"pbfiles/internal/config"
	"pbfiles/internal/db"
	"pbfiles/internal/logger"
	"pbfiles/internal/model"
	"pbfiles/internal/pasteboard"
	"pbfiles/internal/repository"
	"pbfiles/internal/resolver"
	"pbfiles/internal/transfer"
	"pbfiles/internal/trash"
	"pbfiles/internal/util"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// App holds the collaborators behind every command.
type App struct {
	Stdout    io.Writer
	FS        afero.Fs
	Clipboard pasteboard.Clipboard
	Resolver  *resolver.Resolver
	Engine    *transfer.Engine
	History   *repository.HistoryRepository

	closers []func() error
}

// Builder creates the App for a loaded configuration.
type Builder func(cfg *config.Config, stdout io.Writer) (*App, error)

// BuildApp wires the real filesystem, clipboard and trash.
func BuildApp(cfg *config.Config, stdout io.Writer) (*App, error) {
	fs := afero.NewOsFs()

	cb, err := pasteboard.New(cfg.Clipboard)
	if err != nil {
		return nil, err
	}

	var t trash.Trash
	if cfg.TrashDir != "" {
		t = trash.NewDir(fs, cfg.TrashDir)
	} else {
		t, err = trash.Default(fs)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Stdout:    stdout,
		FS:        fs,
		Clipboard: cb,
		Resolver:  resolver.New(fs),
	}

	opts := []transfer.Option{transfer.WithLogger(logger.Log)}
	if cfg.DBPath != "" {
		gdb, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql db: %w", err)
		}
		app.closers = append(app.closers, sqlDB.Close)

		app.History = repository.NewHistoryRepository(gdb)
		opts = append(opts, transfer.WithRecorder(app.History))
	}

	app.Engine = transfer.New(fs, t, opts...)
	return app, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// CopyToClipboard puts the given files on the clipboard. Every file must
// exist before the clipboard is touched.
func (a *App) CopyToClipboard(args []string) error {
	if len(args) == 0 {
		return model.NewError(model.KindNotEnoughArguments, "", "Need at least one file path")
	}

	paths := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "" {
			return model.NewError(model.KindPathInvalid, arg, "empty file path")
		}

		p, err := a.Resolver.Absolute(arg)
		if err != nil {
			return err
		}

		ok, err := util.Exists(a.FS, p)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !ok {
			return model.NewError(model.KindSourceNotFound, p, "")
		}
		paths = append(paths, p)
	}

	refs, err := pasteboard.FileRefs(paths)
	if err != nil {
		return err
	}

	if err := a.Clipboard.Write(refs); err != nil {
		return err
	}

	logger.Log.Debug("files copied to clipboard",
		zap.Int("count", len(refs)))
	return nil
}

// PasteOptions controls a paste or move.
type PasteOptions struct {
	Mode   model.TransferMode
	Force  bool
	DryRun bool
}

// Paste transfers the files referenced on the clipboard into dir.
func (a *App) Paste(dir string, opts PasteOptions) error {
	if dir == "" {
		return model.NewError(model.KindNotEnoughArguments, "", "Need target directory")
	}

	refs, err := a.Clipboard.Read()
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return model.NewError(model.KindClipboardEmpty, "", "")
	}

	paths, err := pasteboard.Paths(refs)
	if err != nil {
		return err
	}

	pairs, err := a.Resolver.Resolve(paths, dir)
	if err != nil {
		return err
	}

	if opts.DryRun {
		results, err := a.Engine.DryRun(pairs, opts.Mode, opts.Force)
		if err != nil {
			return err
		}
		for _, r := range results {
			_, _ = fmt.Fprintf(a.Stdout, "%s -> %s\n", r.Pair.Source, r.Pair.Destination)
		}
		return nil
	}

	results, err := a.Engine.Execute(pairs, opts.Mode, opts.Force)
	if err != nil {
		return err
	}

	logger.Log.Debug("paste finished",
		zap.String("mode", string(opts.Mode)),
		zap.String("dst", dir),
		zap.Int("count", len(results)))
	return nil
}
