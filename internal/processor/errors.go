package processor

import (
	"fmt"
	"path/filepath"
)

// EncodeError reports a result that could not be written.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DeleteError reports an original that survived a format change. The new file
// exists, so it never fails the file.
type DeleteError struct {
	Path string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("remove original %s: %v", e.Path, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// OutputTakenError reports an output path that already holds another image, so
// writing would destroy a file the run does not own.
type OutputTakenError struct {
	Path string
}

func (e *OutputTakenError) Error() string {
	return fmt.Sprintf("%s already exists and is not this file's output; left untouched", filepath.Base(e.Path))
}
