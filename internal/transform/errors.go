package transform

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyImage       = errors.New("image has no pixels")
	ErrInvalidDimension = errors.New("max dimension must be positive")
)

// DecodeError reports source bytes that are not a readable image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnsupportedModeError is returned when no conversion path exists for an image.
type UnsupportedModeError struct {
	Mode   Mode
	Target Format
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("cannot convert %s image to %s", e.Mode, e.Target)
}
