package searchdir

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// source is the filesystem a search reads from
type source interface {
	openDir(name string) (dirStream, error)
	stat(name string) (fs.FileInfo, error)
	join(dir, name string) string
	resolve(name string) (string, error)
}

// dirStream yields directory entries in batches. Both *os.File and
// fs.ReadDirFile satisfy it.
type dirStream interface {
	ReadDir(n int) ([]fs.DirEntry, error)
	Close() error
}

func newSource(fsys fs.FS) source {
	if fsys == nil {
		return osSource{}
	}
	return fsSource{fsys: fsys}
}

// osSource reads the host filesystem
type osSource struct{}

func (osSource) openDir(name string) (dirStream, error) {
	return os.Open(name)
}

func (osSource) stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osSource) join(dir, name string) string {
	return filepath.Join(dir, name)
}

func (osSource) resolve(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// fsSource reads an fs.FS
type fsSource struct {
	fsys fs.FS
}

func (s fsSource) openDir(name string) (dirStream, error) {
	file, err := s.fsys.Open(name)
	if err != nil {
		return nil, err
	}

	dir, ok := file.(fs.ReadDirFile)
	if !ok {
		_ = file.Close()
		return nil, newNotDirectoryError(name, fs.ErrInvalid)
	}

	return dir, nil
}

func (s fsSource) stat(name string) (fs.FileInfo, error) {
	return fs.Stat(s.fsys, name)
}

func (fsSource) join(dir, name string) string {
	return path.Join(dir, name)
}

// resolve returns name unchanged: fs.FS offers no portable way to read links.
func (fsSource) resolve(name string) (string, error) {
	return path.Clean(name), nil
}

// visitFunc is called for each listed entry. Returning stop ends the listing
// early.
type visitFunc func(entry DirectoryEntry) (stop bool, err error)

// listDirectory streams the immediate children of dir to visit in
// enumeration order. Cancellation is checked before opening the directory and
// before every batch read, and the handle is closed on every return path.
func (s *searcher) listDirectory(ctx context.Context, dir string, visit visitFunc) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if err := ctx.Err(); err != nil {
		return err
	}

	stream, err := s.src.openDir(dir)
	if err != nil {
		return newIOError("open", dir, err)
	}
	defer stream.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		entries, err := stream.ReadDir(s.opts.readBatch)
		for _, entry := range entries {
			stop, visitErr := visit(DirectoryEntry{
				Name: entry.Name(),
				Path: s.src.join(dir, entry.Name()),
				Kind: kindOf(entry.Type()),
			})
			if visitErr != nil {
				return visitErr
			}
			if stop {
				return nil
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return newIOError("readdir", dir, err)
		}
		if len(entries) == 0 {
			return nil
		}
	}
}

// acquire reserves a directory read slot
func (s *searcher) acquire(ctx context.Context) error {
	if s.sem == nil {
		return nil
	}
	return s.sem.Acquire(ctx, 1)
}

func (s *searcher) release() {
	if s.sem != nil {
		s.sem.Release(1)
	}
}
