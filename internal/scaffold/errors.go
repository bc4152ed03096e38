package scaffold

import (
	"errors"
	"fmt"
)

// ErrDeclined is returned when the operator refuses to overwrite an
// existing homework directory. Nothing on disk has changed.
var ErrDeclined = errors.New("overwrite declined")

// FilesystemError reports a failed filesystem step. Scaffolding stops at the
// first one and leaves whatever was already written in place.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

func fsError(op, path string, err error) error {
	return &FilesystemError{Op: op, Path: path, Err: err}
}
