package searchdir

import (
	"context"
	"fmt"
	"sync"

	"github.com/boostgo/errorx"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// searcher holds the per-call state shared by every branch of one search:
// resolved options, the source and the read throttle. Branches share nothing
// mutable beyond the semaphore.
type searcher struct {
	opts *searchOptions
	src  source
	sem  *semaphore.Weighted
	log  logrus.FieldLogger
}

func newSearcher(opts *searchOptions) *searcher {
	s := &searcher{
		opts: opts,
		src:  newSource(opts.fsys),
		log:  opts.logger,
	}
	if opts.maxConcurrency > 0 {
		s.sem = semaphore.NewWeighted(int64(opts.maxConcurrency))
	}
	return s
}

// FindItem finds the first entry named name below dir whose kind satisfies
// itemType. It blocks until the search completes.
func FindItem(dir, name string, itemType ItemType, options ...SearchOption) (string, error) {
	return FindItemContext(context.Background(), dir, name, itemType, options...)
}

// FindFolder finds the first directory named name below dir
func FindFolder(dir, name string, options ...SearchOption) (string, error) {
	return FindItem(dir, name, Directory, options...)
}

// FindItemAsync runs FindItemContext on its own goroutine. The returned
// channel receives exactly one result and is then closed.
func FindItemAsync(ctx context.Context, dir, name string, itemType ItemType, options ...SearchOption) <-chan SearchResult {
	out := make(chan SearchResult, 1)

	go func() {
		defer close(out)

		path, err := FindItemContext(ctx, dir, name, itemType, options...)
		out <- SearchResult{Path: path, Err: err}
	}()

	return out
}

// FindItemContext finds the first entry named name below dir whose kind
// satisfies itemType.
//
// The entries of a directory are matched before any of its subdirectories is
// searched, so a direct child always wins over a deeper entry. Subdirectories
// are then searched concurrently and the first to succeed wins; the others
// are cancelled and waited for before FindItemContext returns. When several
// entries match in different subtrees, which one is returned is unspecified.
//
// A failure to list dir itself is returned as an *IOError. Failures below dir
// only fail their own branch. When every branch fails, the last failure
// observed is returned (see WithJoinedFailures), which is a *NotFoundError
// when nothing matched.
//
// Symlinked directories are not descended into unless
// WithSearchFollowSymlinks is given; a link whose name matches is still
// classified by its target.
//
// Cancelling ctx stops the search and returns the context's cause.
func FindItemContext(ctx context.Context, dir, name string, itemType ItemType, options ...SearchOption) (string, error) {
	opts := defaultSearchOptions()
	for _, opt := range options {
		opt(opts)
	}

	if dir == "" {
		return "", ErrEmptyDirectory
	}
	if !itemType.Valid() {
		return "", newInvalidItemTypeError(itemType)
	}

	s := newSearcher(opts)
	s.log = s.log.WithFields(logrus.Fields{
		"component": "searchdir",
		"root":      dir,
		"name":      name,
		"item_type": itemType.String(),
	})

	req := request{
		root:     dir,
		dir:      dir,
		name:     name,
		itemType: itemType,
		real:     dir,
	}
	if opts.followSymlinks {
		if resolved, err := s.src.resolve(dir); err == nil {
			req.real = resolved
		}
	}

	path, err := s.searchDir(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("find %q in %s: %w", name, dir, context.Cause(ctx))
		}
		return "", err
	}

	s.log.WithField("path", path).Debug("item found")
	return path, nil
}

// searchDir searches one directory level. Direct matches are checked for
// every entry first; subdirectories are then raced.
func (s *searcher) searchDir(ctx context.Context, req request) (string, error) {
	var (
		found    string
		matched  bool
		branches []request
	)

	if !s.withinDepth(req) {
		return "", &NotFoundError{Name: req.name, Dir: req.root}
	}

	err := s.listDirectory(ctx, req.dir, func(entry DirectoryEntry) (bool, error) {
		if s.opts.ignoreHidden && isHidden(entry.Name) {
			return false, nil
		}

		if entry.Name == req.name {
			kind, err := s.classify(ctx, entry)
			if err != nil {
				return false, err
			}
			if req.itemType.Accepts(kind) {
				found, matched = entry.Path, true
				return true, nil
			}
		}

		if s.canDescend(req) {
			if branch, ok := s.branchFor(ctx, req, entry); ok {
				branches = append(branches, branch)
			}
		}

		return false, nil
	})
	if err != nil {
		return "", err
	}

	if matched {
		return found, nil
	}

	if len(branches) == 0 {
		return "", &NotFoundError{Name: req.name, Dir: req.root}
	}

	return s.race(ctx, req, branches)
}

// withinDepth reports whether the entries of req.dir, one level below it, are
// within the maximum depth. The starting directory is depth 0.
func (s *searcher) withinDepth(req request) bool {
	return s.opts.maxDepth < 0 || req.depth+1 <= s.opts.maxDepth
}

func (s *searcher) canDescend(req request) bool {
	return s.opts.maxDepth < 0 || req.depth+1 < s.opts.maxDepth
}

type branchResult struct {
	dir  string
	path string
	err  error
}

// race searches every branch concurrently. The first success cancels the
// remaining branches; race returns only after all of them have stopped.
func (s *searcher) race(ctx context.Context, req request, branches []request) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan branchResult, len(branches))

	var wg sync.WaitGroup
	for _, branch := range branches {
		wg.Add(1)
		go func() {
			defer wg.Done()

			path, err := s.searchDir(ctx, branch)
			results <- branchResult{dir: branch.dir, path: path, err: err}
		}()
	}

	var (
		last     error
		failures []error
	)
	for range branches {
		result := <-results
		if result.err == nil {
			cancel()
			s.log.WithFields(logrus.Fields{
				"dir":    req.dir,
				"winner": result.dir,
			}).Trace("race won")
			wg.Wait()
			return result.path, nil
		}

		s.logFailure(ctx, result)
		last = result.err
		if s.opts.joinFailures {
			failures = append(failures, result.err)
		}
	}
	wg.Wait()

	if s.opts.joinFailures {
		return "", errorx.Join(failures...)
	}
	return "", last
}

func (s *searcher) logFailure(ctx context.Context, result branchResult) {
	log := s.log.WithField("dir", result.dir).WithError(result.err)

	switch {
	case ctx.Err() != nil:
		log.Trace("branch cancelled")
	case IsNotFound(result.err):
		log.Trace("branch found nothing")
	default:
		log.Debug("branch failed")
	}
}
