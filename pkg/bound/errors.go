package bound

import (
	"errors"
	"fmt"
)

// Bound errors.
var (
	ErrNoBound          = errors.New("no BOUND object in scene")
	ErrBoundNotMesh     = errors.New("BOUND has invalid object type")
	ErrVertexIndexRange = errors.New("vertex index out of range")
	ErrMaterialRange    = errors.New("material index out of range")
	ErrFaceArity        = errors.New("face must have 3 or 4 vertices")
	ErrDuplicateVertex  = errors.New("face uses a vertex more than once")
	ErrIndexOverflow    = errors.New("index does not fit in 16 bits")
)

// PreconditionError aborts an export before any file is opened.
type PreconditionError struct {
	Object string
	Err    error
}

func (e *PreconditionError) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("precondition failed: %v", e.Err)
	}
	return fmt.Sprintf("precondition failed for %q: %v", e.Object, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// MalformedInputError describes one text line that could not be applied.
// Readers skip the line and keep going.
type MalformedInputError struct {
	Line int
	Text string
	Err  error
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// IOError is a failure to open, write or close one output stream.
// Files already written for other formats are left in place.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
