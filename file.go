package searchdir

import (
	"context"
	"errors"
	"io/fs"
	"strings"
)

// classify resolves the kind of an entry whose name matched the query.
// Symlinks are followed; a dangling link keeps KindSymlink so that only
// Either accepts it.
func (s *searcher) classify(ctx context.Context, entry DirectoryEntry) (EntryKind, error) {
	if entry.Kind != KindSymlink {
		return entry.Kind, nil
	}

	if err := ctx.Err(); err != nil {
		return KindOther, err
	}

	info, err := s.src.stat(entry.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return KindSymlink, nil
		}
		return KindOther, newIOError("stat", entry.Path, err)
	}

	return kindOf(info.Mode()), nil
}

// branchFor reports whether entry should be descended into and returns the
// request for that branch. Symlinked directories count only when following
// symlinks; links that cannot be resolved or that lead back to an ancestor
// are skipped.
func (s *searcher) branchFor(ctx context.Context, req request, entry DirectoryEntry) (request, bool) {
	switch entry.Kind {
	case KindDirectory:
		if !s.opts.followSymlinks {
			return req.in(entry.Path), true
		}
		return req.via(entry.Path, s.src.join(req.real, entry.Name)), true
	case KindSymlink:
		if !s.opts.followSymlinks || ctx.Err() != nil {
			return req, false
		}

		log := s.log.WithField("path", entry.Path)
		info, err := s.src.stat(entry.Path)
		if err != nil {
			log.WithError(err).Debug("skipping unresolved symlink")
			return req, false
		}
		if !info.IsDir() {
			return req, false
		}

		target, err := s.src.resolve(entry.Path)
		if err != nil {
			log.WithError(err).Debug("skipping unresolved symlink")
			return req, false
		}
		if req.visited(target) {
			log.WithField("target", target).Debug("skipping symlink cycle")
			return req, false
		}
		return req.via(entry.Path, target), true
	}
	return req, false
}

// isHidden checks if a file/directory is hidden
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
