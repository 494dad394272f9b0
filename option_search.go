package searchdir

import (
	"io"
	"io/fs"
	"runtime"

	"github.com/sirupsen/logrus"
)

const defaultReadBatch = 128

// SearchOption represents options for search operations
type SearchOption func(*searchOptions)

type searchOptions struct {
	fsys           fs.FS
	maxConcurrency int
	maxDepth       int
	readBatch      int
	followSymlinks bool
	ignoreHidden   bool
	joinFailures   bool
	logger         logrus.FieldLogger
}

var discardLogger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// defaultSearchOptions returns default search options
func defaultSearchOptions() *searchOptions {
	return &searchOptions{
		fsys:           nil, // Host filesystem
		maxConcurrency: 4 * runtime.GOMAXPROCS(0),
		maxDepth:       -1, // No limit
		readBatch:      defaultReadBatch,
		followSymlinks: false,
		ignoreHidden:   false,
		joinFailures:   false,
		logger:         discardLogger,
	}
}

// WithFS searches fsys instead of the host filesystem. Paths passed to and
// returned from the search are then slash-separated fs.FS paths.
func WithFS(fsys fs.FS) SearchOption {
	return func(opts *searchOptions) {
		opts.fsys = fsys
	}
}

// WithMaxConcurrency limits how many directories are read at the same time.
// A value of zero or less removes the limit.
func WithMaxConcurrency(n int) SearchOption {
	return func(opts *searchOptions) {
		opts.maxConcurrency = n
	}
}

// WithMaxDepth sets maximum directory depth for search. Entries of the
// starting directory are at depth 1; deeper entries are not matched.
func WithMaxDepth(depth int) SearchOption {
	return func(opts *searchOptions) {
		opts.maxDepth = depth
	}
}

// WithReadBatch sets how many entries are read from a directory at once
func WithReadBatch(n int) SearchOption {
	return func(opts *searchOptions) {
		if n > 0 {
			opts.readBatch = n
		}
	}
}

// WithSearchFollowSymlinks enables descending into symlinked directories
func WithSearchFollowSymlinks() SearchOption {
	return func(opts *searchOptions) {
		opts.followSymlinks = true
	}
}

// WithIgnoreHidden ignores hidden files and directories
func WithIgnoreHidden() SearchOption {
	return func(opts *searchOptions) {
		opts.ignoreHidden = true
	}
}

// WithJoinedFailures reports every branch failure, joined with errorx.Join,
// when no branch succeeds. By default only the last failure is kept.
func WithJoinedFailures() SearchOption {
	return func(opts *searchOptions) {
		opts.joinFailures = true
	}
}

// WithLogger sets the logger used for branch-level diagnostics
func WithLogger(logger logrus.FieldLogger) SearchOption {
	return func(opts *searchOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}
