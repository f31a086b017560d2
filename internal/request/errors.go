package request

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for malformed entries.
var (
	ErrMissingOp          = errors.New("entry has no op")
	ErrUnknownOp          = errors.New("unknown op")
	ErrUnknownKind        = errors.New("unknown manifestation kind")
	ErrIDColumnNotAllowed = errors.New("id_column only applies to legacy_table")
)

// FileError reports a problem with a request file. Index is the position of
// the failing entry in operations, or -1 when the document itself is bad.
type FileError struct {
	Path  string
	Index int
	Op    string
	Err   error
}

func (e *FileError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, "operations[%d]", e.Index)
		if e.Op != "" {
			fmt.Fprintf(&b, " (%s)", e.Op)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *FileError) Unwrap() error { return e.Err }
