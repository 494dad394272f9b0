package searchdir

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s *searcher, dir string) []DirectoryEntry {
	t.Helper()

	var entries []DirectoryEntry
	err := s.listDirectory(context.Background(), dir, func(entry DirectoryEntry) (bool, error) {
		entries = append(entries, entry)
		return false, nil
	})
	require.NoError(t, err)
	return entries
}

func newTestSearcher(options ...SearchOption) *searcher {
	opts := defaultSearchOptions()
	for _, opt := range options {
		opt(opts)
	}
	return newSearcher(opts)
}

func TestListDirectory(t *testing.T) {
	mapFS := fstest.MapFS{
		"root/a.txt":   {},
		"root/b":       mapDir(),
		"root/c.txt":   {},
		"root/d/e.txt": {},
		"root/f.txt":   {},
	}

	t.Run("StreamsEntriesInBatches", func(t *testing.T) {
		tfs := newTraceFS(mapFS)
		s := newTestSearcher(WithFS(tfs), WithReadBatch(2))

		entries := collect(t, s, "root")

		var names []string
		for _, entry := range entries {
			names = append(names, entry.Name)
		}
		assert.Equal(t, []string{"a.txt", "b", "c.txt", "d", "f.txt"}, names)
		assert.Equal(t, "root/d", entries[3].Path)
		assert.Equal(t, KindDirectory, entries[1].Kind)
		assert.Equal(t, KindFile, entries[0].Kind)

		assert.GreaterOrEqual(t, tfs.readCount("root"), 3)
		assert.Empty(t, tfs.leaked())
	})

	t.Run("StopsEarly", func(t *testing.T) {
		tfs := newTraceFS(mapFS)
		s := newTestSearcher(WithFS(tfs), WithReadBatch(1))

		visited := 0
		err := s.listDirectory(context.Background(), "root", func(entry DirectoryEntry) (bool, error) {
			visited++
			return true, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, visited)
		assert.Equal(t, 1, tfs.readCount("root"))
		assert.Empty(t, tfs.leaked())
	})

	t.Run("VisitErrorClosesHandle", func(t *testing.T) {
		tfs := newTraceFS(mapFS)
		s := newTestSearcher(WithFS(tfs))
		boom := errors.New("boom")

		err := s.listDirectory(context.Background(), "root", func(entry DirectoryEntry) (bool, error) {
			return false, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, tfs.leaked())
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		s := newTestSearcher(WithFS(mapFS))

		err := s.listDirectory(context.Background(), "nope", func(DirectoryEntry) (bool, error) {
			return false, nil
		})

		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "open", ioErr.Op)
		assert.Equal(t, "nope", ioErr.Path)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("NotADirectory", func(t *testing.T) {
		s := newTestSearcher(WithFS(mapFS))

		err := s.listDirectory(context.Background(), "root/a.txt", func(DirectoryEntry) (bool, error) {
			return false, nil
		})
		assert.ErrorIs(t, err, ErrIO)

		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "open", ioErr.Op)
		assert.Equal(t, "root/a.txt", ioErr.Path)
		assert.Error(t, ioErr.Err)
	})

	t.Run("CancelledBeforeOpen", func(t *testing.T) {
		tfs := newTraceFS(mapFS)
		s := newTestSearcher(WithFS(tfs))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.listDirectory(ctx, "root", func(DirectoryEntry) (bool, error) {
			return false, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, tfs.totalOpens())
	})

	t.Run("HostFilesystem", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), nil, 0o644))

		entries := collect(t, newTestSearcher(), root)
		require.Len(t, entries, 2)

		kinds := map[string]EntryKind{}
		for _, entry := range entries {
			kinds[entry.Name] = entry.Kind
			assert.Equal(t, filepath.Join(root, entry.Name), entry.Path)
		}
		assert.Equal(t, KindDirectory, kinds["sub"])
		assert.Equal(t, KindFile, kinds["file.txt"])
	})

	t.Run("HostFilesystemNotADirectory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(file, nil, 0o644))

		err := newTestSearcher().listDirectory(context.Background(), file, func(DirectoryEntry) (bool, error) {
			return false, nil
		})

		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "readdir", ioErr.Op)
	})
}
