package transfer_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pbfiles/internal/mock"
	"pbfiles/internal/model"
	"pbfiles/internal/transfer"
	"pbfiles/internal/trash"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fs     afero.Fs
	trash  *trash.Dir
	engine *transfer.Engine
}

// newFixture lays out /tmp/a.txt, /tmp/b.txt and an empty /tmp/out.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/tmp/out", 0755))
	writeFile(t, fs, "/tmp/a.txt", "alpha")
	writeFile(t, fs, "/tmp/b.txt", "bravo")

	tr := trash.NewDir(fs, "/trash")
	return &fixture{fs: fs, trash: tr, engine: transfer.New(fs, tr)}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return ok
}

func pairs() []model.TransferPair {
	return []model.TransferPair{
		{Source: "/tmp/a.txt", Destination: "/tmp/out/a.txt"},
		{Source: "/tmp/b.txt", Destination: "/tmp/out/b.txt"},
	}
}

func trashContents(t *testing.T, fs afero.Fs) []string {
	t.Helper()
	entries, err := afero.ReadDir(fs, "/trash")
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var contents []string
	for _, e := range entries {
		contents = append(contents, readFile(t, fs, filepath.Join("/trash", e.Name())))
	}
	return contents
}

func TestEngine_CopyIntoEmptyDirectory(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	results, err := f.engine.Execute(pairs(), model.ModeCopy, false)

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "alpha", readFile(t, f.fs, "/tmp/out/a.txt"))
	assert.Equal(t, "bravo", readFile(t, f.fs, "/tmp/out/b.txt"))
	assert.Equal(t, "alpha", readFile(t, f.fs, "/tmp/a.txt"), "copy leaves sources in place")
	assert.Equal(t, "bravo", readFile(t, f.fs, "/tmp/b.txt"))
	assert.Empty(t, trashContents(t, f.fs))
}

func TestEngine_ExistingDestinationBlocksWholeBatch(t *testing.T) {
	t.Parallel()

	for _, mode := range []model.TransferMode{model.ModeCopy, model.ModeMove} {
		t.Run(string(mode), func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			writeFile(t, f.fs, "/tmp/out/a.txt", "old")

			results, err := f.engine.Execute(pairs(), mode, false)

			assert.ErrorIs(t, err, model.ErrDestinationExists)
			assert.Contains(t, err.Error(), "--force")
			assert.Empty(t, results)
			assert.Equal(t, "old", readFile(t, f.fs, "/tmp/out/a.txt"))
			assert.False(t, exists(t, f.fs, "/tmp/out/b.txt"), "later pairs must not be created")
			assert.True(t, exists(t, f.fs, "/tmp/a.txt"))
			assert.True(t, exists(t, f.fs, "/tmp/b.txt"))
		})
	}
}

func TestEngine_ForceTrashesReplacedDestination(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	writeFile(t, f.fs, "/tmp/out/a.txt", "old")

	results, err := f.engine.Execute(pairs(), model.ModeCopy, true)

	require.NoError(t, err)
	assert.Equal(t, "alpha", readFile(t, f.fs, "/tmp/out/a.txt"))
	require.NotEmpty(t, results[0].ReplacedTrash)
	assert.Equal(t, "old", readFile(t, f.fs, results[0].ReplacedTrash))
	assert.Empty(t, results[1].ReplacedTrash)
}

func TestEngine_ForceCopyIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.engine.Execute(pairs(), model.ModeCopy, true)
	require.NoError(t, err)
	_, err = f.engine.Execute(pairs(), model.ModeCopy, true)
	require.NoError(t, err)

	assert.Equal(t, "alpha", readFile(t, f.fs, "/tmp/out/a.txt"))
	assert.Equal(t, "bravo", readFile(t, f.fs, "/tmp/out/b.txt"))
	assert.ElementsMatch(t, []string{"alpha", "bravo"}, trashContents(t, f.fs))
}

func TestEngine_MoveTrashesSources(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	results, err := f.engine.Execute(pairs(), model.ModeMove, false)

	require.NoError(t, err)
	assert.False(t, exists(t, f.fs, "/tmp/a.txt"))
	assert.False(t, exists(t, f.fs, "/tmp/b.txt"))
	assert.Equal(t, "alpha", readFile(t, f.fs, "/tmp/out/a.txt"))
	assert.Equal(t, "bravo", readFile(t, f.fs, "/tmp/out/b.txt"))
	assert.Equal(t, "alpha", readFile(t, f.fs, results[0].SourceTrash))
	assert.Equal(t, "bravo", readFile(t, f.fs, results[1].SourceTrash))
}

func TestEngine_ForcedMoveOverExistingDestination(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	writeFile(t, f.fs, "/tmp/out/a.txt", "old")

	results, err := f.engine.Execute(pairs()[:1], model.ModeMove, true)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alpha", readFile(t, f.fs, "/tmp/out/a.txt"))
	assert.Equal(t, "old", readFile(t, f.fs, results[0].ReplacedTrash))
	assert.Equal(t, "alpha", readFile(t, f.fs, results[0].SourceTrash))
	assert.False(t, exists(t, f.fs, "/tmp/a.txt"))
	assert.ElementsMatch(t, []string{"old", "alpha"}, trashContents(t, f.fs))
}

func TestEngine_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pairs []model.TransferPair
		mode  model.TransferMode
		force bool
		want  error
	}{
		{
			name:  "missing source",
			pairs: []model.TransferPair{{Source: "/tmp/missing.txt", Destination: "/tmp/out/missing.txt"}},
			mode:  model.ModeCopy,
			want:  model.ErrSourceNotFound,
		},
		{
			name: "missing source after valid pair",
			pairs: []model.TransferPair{
				{Source: "/tmp/a.txt", Destination: "/tmp/out/a.txt"},
				{Source: "/tmp/missing.txt", Destination: "/tmp/out/missing.txt"},
			},
			mode: model.ModeMove,
			want: model.ErrSourceNotFound,
		},
		{
			name: "two sources with one destination",
			pairs: []model.TransferPair{
				{Source: "/tmp/a.txt", Destination: "/tmp/out/a.txt"},
				{Source: "/other/a.txt", Destination: "/tmp/out/a.txt"},
			},
			mode:  model.ModeCopy,
			force: true,
			want:  model.ErrDestinationExists,
		},
		{
			name:  "source is its own destination",
			pairs: []model.TransferPair{{Source: "/tmp/a.txt", Destination: "/tmp/a.txt"}},
			mode:  model.ModeCopy,
			force: true,
			want:  model.ErrDestinationExists,
		},
		{
			name:  "directory into itself",
			pairs: []model.TransferPair{{Source: "/tmp", Destination: "/tmp/out/tmp"}},
			mode:  model.ModeCopy,
			want:  model.ErrPathInvalid,
		},
		{
			name:  "destination contains its source",
			pairs: []model.TransferPair{{Source: "/other/a.txt", Destination: "/other"}},
			mode:  model.ModeCopy,
			force: true,
			want:  model.ErrDestinationExists,
		},
		{
			name: "destination contains another source",
			pairs: []model.TransferPair{
				{Source: "/tmp/a.txt", Destination: "/tmp/out/a.txt"},
				{Source: "/other/a.txt", Destination: "/tmp"},
			},
			mode:  model.ModeMove,
			force: true,
			want:  model.ErrDestinationExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			writeFile(t, f.fs, "/other/a.txt", "other")

			_, err := f.engine.Execute(tt.pairs, tt.mode, tt.force)

			assert.ErrorIs(t, err, tt.want)
			assert.False(t, exists(t, f.fs, "/tmp/out/a.txt"), "validation failures have no side effects")
			assert.True(t, exists(t, f.fs, "/tmp/a.txt"))
			assert.True(t, exists(t, f.fs, "/other/a.txt"))
			assert.Empty(t, trashContents(t, f.fs))
		})
	}
}

func TestEngine_ForceKeepsDirectoryHoldingSource(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/x/foo/foo", "inner")
	engine := transfer.New(fs, trash.NewDir(fs, "/trash"))

	for _, mode := range []model.TransferMode{model.ModeCopy, model.ModeMove} {
		_, err := engine.Execute([]model.TransferPair{{Source: "/x/foo/foo", Destination: "/x/foo"}}, mode, true)

		assert.ErrorIs(t, err, model.ErrDestinationExists)
		assert.Equal(t, "inner", readFile(t, fs, "/x/foo/foo"))
		assert.Empty(t, trashContents(t, fs))
	}
}

func TestEngine_CaseInsensitiveDestinations(t *testing.T) {
	t.Parallel()

	batch := []model.TransferPair{
		{Source: "/a/Foo.txt", Destination: "/out/Foo.txt"},
		{Source: "/b/foo.txt", Destination: "/out/foo.txt"},
	}

	t.Run("folded", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/a/Foo.txt", "upper")
		writeFile(t, fs, "/b/foo.txt", "lower")
		require.NoError(t, fs.MkdirAll("/out", 0755))
		engine := transfer.New(fs, trash.NewDir(fs, "/trash"), transfer.WithCaseInsensitivePaths(true))

		_, err := engine.Execute(batch, model.ModeCopy, true)

		assert.ErrorIs(t, err, model.ErrDestinationExists)
		assert.Contains(t, err.Error(), "/b/foo.txt")
		assert.False(t, exists(t, fs, "/out/Foo.txt"))
	})

	t.Run("exact", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/a/Foo.txt", "upper")
		writeFile(t, fs, "/b/foo.txt", "lower")
		require.NoError(t, fs.MkdirAll("/out", 0755))
		engine := transfer.New(fs, trash.NewDir(fs, "/trash"), transfer.WithCaseInsensitivePaths(false))

		_, err := engine.Execute(batch, model.ModeCopy, false)

		require.NoError(t, err)
		assert.Equal(t, "upper", readFile(t, fs, "/out/Foo.txt"))
		assert.Equal(t, "lower", readFile(t, fs, "/out/foo.txt"))
	})
}

func TestEngine_MoveFromReadOnlyFilesystem(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	writeFile(t, base, "/tmp/a.txt", "alpha")
	require.NoError(t, base.MkdirAll("/tmp/out", 0755))
	engine := transfer.New(afero.NewReadOnlyFs(base), trash.NewDir(base, "/trash"))

	_, err := engine.Execute(pairs()[:1], model.ModeMove, false)

	assert.ErrorIs(t, err, model.ErrSourceNotDeletable)
}

func TestEngine_DryRunHasNoSideEffects(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	writeFile(t, f.fs, "/tmp/out/a.txt", "old")

	results, err := f.engine.DryRun(pairs(), model.ModeMove, true)

	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "old", readFile(t, f.fs, "/tmp/out/a.txt"))
	assert.False(t, exists(t, f.fs, "/tmp/out/b.txt"))
	assert.True(t, exists(t, f.fs, "/tmp/a.txt"))

	_, err = f.engine.DryRun(pairs(), model.ModeCopy, false)
	assert.ErrorIs(t, err, model.ErrDestinationExists)
}

func TestEngine_TrashFailureKeepsRemainingSources(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	trashErr := errors.New("trash full")
	var trashed []string
	tr := &mock.Trash{
		TrashFn: func(path string) (string, error) {
			if path == "/tmp/b.txt" {
				return "", trashErr
			}
			trashed = append(trashed, path)
			return f.trash.Trash(path)
		},
	}
	engine := transfer.New(f.fs, tr)

	results, err := engine.Execute(pairs(), model.ModeMove, false)

	assert.ErrorIs(t, err, trashErr)
	assert.Len(t, results, 2, "both copies completed before sources were trashed")
	assert.Equal(t, []string{"/tmp/a.txt"}, trashed)
	assert.True(t, exists(t, f.fs, "/tmp/b.txt"))
	assert.Equal(t, "bravo", readFile(t, f.fs, "/tmp/out/b.txt"))
}

func TestEngine_SourceVanishingMidBatchLeavesEarlierPairs(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	writeFile(t, f.fs, "/tmp/out/a.txt", "old")

	// The destination trash runs after validation, so removing b.txt there
	// simulates a race with another process.
	tr := &mock.Trash{
		TrashFn: func(path string) (string, error) {
			require.NoError(t, f.fs.Remove("/tmp/b.txt"))
			return f.trash.Trash(path)
		},
	}
	engine := transfer.New(f.fs, tr)

	results, err := engine.Execute(pairs(), model.ModeMove, true)

	assert.ErrorIs(t, err, model.ErrSourceNotFound)
	assert.Equal(t, "/tmp/b.txt disappeared before it could be copied", err.Error())
	require.Len(t, results, 1)
	assert.Equal(t, "alpha", readFile(t, f.fs, "/tmp/out/a.txt"))
	assert.True(t, exists(t, f.fs, "/tmp/a.txt"), "sources are kept when a copy fails")
}

func TestEngine_RecordsEachFinishedPair(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var saved []model.Result
	rec := &mock.Recorder{
		SaveFn: func(result model.Result, err error) error {
			assert.NoError(t, err)
			saved = append(saved, result)
			return errors.New("db locked")
		},
	}
	engine := transfer.New(f.fs, f.trash, transfer.WithRecorder(rec))

	_, err := engine.Execute(pairs(), model.ModeMove, false)

	require.NoError(t, err, "recorder failures never abort a batch")
	require.Len(t, saved, 2)
	assert.Equal(t, "/tmp/a.txt", saved[0].Pair.Source)
	assert.NotEmpty(t, saved[0].SourceTrash)
	assert.Equal(t, model.ModeMove, saved[1].Mode)
}
