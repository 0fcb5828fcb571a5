// Package fault defines the error taxonomy shared by every rendering job.
//
// None of these errors is retried. Each one ends the job that produced it;
// the typed errors only carry enough context (file, line, frame) for the
// diagnostic printed before the process exits.
package fault

import (
	"errors"
	"fmt"
)

// Error kinds. Typed errors below match these with errors.Is.
var (
	// ErrArgument indicates a wrong parameter count or an unparsable parameter.
	ErrArgument = errors.New("evoviz: invalid arguments")

	// ErrMissingFile indicates an expected landscape or snapshot file is absent.
	ErrMissingFile = errors.New("evoviz: missing input file")

	// ErrFormat indicates a header, row token-count or numeric-parse failure.
	ErrFormat = errors.New("evoviz: malformed input file")

	// ErrEncoding indicates the output sink failed to accept or write a frame.
	ErrEncoding = errors.New("evoviz: output encoding failed")
)

// ArgumentError is raised before any file is touched.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string        { return e.Msg }
func (e *ArgumentError) Is(target error) bool { return target == ErrArgument }

// Argumentf formats an ArgumentError.
func Argumentf(format string, args ...any) error {
	return &ArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// MissingFileError wraps the open failure for an input file that does not exist.
type MissingFileError struct {
	Path    string
	Wrapped error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: file not found", e.Path)
}

func (e *MissingFileError) Is(target error) bool { return target == ErrMissingFile }
func (e *MissingFileError) Unwrap() error        { return e.Wrapped }

// FormatError points at the offending line of an input file. Line is 1-based;
// zero means the problem is not tied to a single line (e.g. a truncated file).
type FormatError struct {
	Path    string
	Line    int
	Msg     string
	Wrapped error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }
func (e *FormatError) Unwrap() error        { return e.Wrapped }

// Formatf builds a FormatError for path at line.
func Formatf(path string, line int, format string, args ...any) error {
	return &FormatError{Path: path, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// EncodingError reports a sink failure. Frame is -1 when the failure happened
// while committing the artifact rather than while accepting a frame.
type EncodingError struct {
	Target  string
	Frame   int
	Wrapped error
}

func (e *EncodingError) Error() string {
	if e.Frame >= 0 {
		return fmt.Sprintf("%s: frame %d: %v", e.Target, e.Frame, e.Wrapped)
	}
	return fmt.Sprintf("%s: %v", e.Target, e.Wrapped)
}

func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }
func (e *EncodingError) Unwrap() error        { return e.Wrapped }

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrArgument):
		return 2
	default:
		return 1
	}
}
