package searchdir

import (
	"errors"
	"fmt"

	"github.com/boostgo/errorx"
)

var (
	ErrNotFound        = errorx.New("searchdir.item.not_found")
	ErrIO              = errorx.New("searchdir.io")
	ErrInvalidItemType = errorx.New("searchdir.item.invalid_type")
	ErrEmptyDirectory  = errorx.New("searchdir.directory.empty_path")
	ErrNotDirectory    = errorx.New("searchdir.directory.not_directory")
)

// NotFoundError is returned when no entry in the searched tree satisfies the
// name and item type of a query.
type NotFoundError struct {
	// Name is the basename that was searched for.
	Name string
	// Dir is the directory the search started from.
	Dir string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %q not found in %s", e.Name, e.Dir)
}

// Is reports ErrNotFound as a match so callers can use errors.Is.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IOError is returned when a directory could not be listed or an entry's kind
// could not be determined.
type IOError struct {
	// Path is the directory or entry the operation ran against.
	Path string
	// Op is the operation that failed: "open", "readdir" or "stat".
	Op string
	// Err is the underlying error.
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports ErrIO as a match so callers can use errors.Is.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// IsNotFound reports whether err, or any error it wraps, is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

type pathErrorContext struct {
	Path  string `json:"path"`
	Error error  `json:"error"`
}

type itemTypeErrorContext struct {
	ItemType string `json:"item_type"`
}

func newInvalidItemTypeError(itemType ItemType) error {
	return ErrInvalidItemType.
		SetData(itemTypeErrorContext{
			ItemType: string(itemType),
		})
}

func newNotDirectoryError(path string, err error) error {
	return ErrNotDirectory.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		})
}

func newIOError(op, path string, err error) error {
	return &IOError{
		Path: path,
		Op:   op,
		Err:  err,
	}
}
