package fixture

import "github.com/boostgo/errorx"

var (
	ErrCreateDirectory = errorx.New("fixture.directory.create")
	ErrCreateFile      = errorx.New("fixture.file.create")
	ErrCreateSymlink   = errorx.New("fixture.symlink.create")
	ErrParseLayout     = errorx.New("fixture.layout.parse")
	ErrInvalidLayout   = errorx.New("fixture.layout.invalid")
	ErrInvalidTarget   = errorx.New("fixture.target.invalid")
)

type pathErrorContext struct {
	Path  string `json:"path"`
	Error error  `json:"error"`
}

type layoutErrorContext struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func newCreateDirectoryError(path string, err error) error {
	return ErrCreateDirectory.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		})
}

func newCreateFileError(path string, err error) error {
	return ErrCreateFile.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		})
}

func newCreateSymlinkError(path string, err error) error {
	return ErrCreateSymlink.
		SetError(err).
		SetData(pathErrorContext{
			Path:  path,
			Error: err,
		})
}

func newInvalidLayoutError(path string, line int, reason string) error {
	return ErrInvalidLayout.
		SetData(layoutErrorContext{
			Path:   path,
			Line:   line,
			Reason: reason,
		})
}
