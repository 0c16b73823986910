package parser

import (
	"errors"
	"fmt"
)

// Malformed input.
var (
	ErrUnterminatedQuote     = errors.New("EOF reached before encapsulated token finished")
	ErrInvalidCharAfterQuote = errors.New("invalid character between encapsulated token and delimiter")
	ErrUnterminatedEscape    = errors.New("EOF reached while processing escape sequence")
)

// Header definition.
var (
	ErrMissingColumnName = errors.New("a header name is missing")
	ErrDuplicateHeader   = errors.New("the header contains a duplicate name")
)

// Record access.
var (
	ErrNoHeader           = errors.New("no header mapping was specified, the record values can't be accessed by name")
	ErrUnmappedName       = errors.New("name not found in header mapping")
	ErrInconsistentRecord = errors.New("record has fewer values than the header")
)

// ErrClosed is returned by a parser that has been closed.
var ErrClosed = errors.New("parser is closed")

// ParseError reports malformed input. The parser cannot make further
// progress after returning one.
type ParseError struct {
	Pos       Position
	StartLine int64 // line the offending field started on
	Message   string
	Err       error
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d", e.Pos.Line)
	}

	return fmt.Sprintf("%s: %s", location, e.Message)
}

// GetPosition returns where the error was detected.
func (e *ParseError) GetPosition() Position {
	return e.Pos
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(pos Position, startLine int64, err error, format string, args ...any) *ParseError {
	msg := err.Error()
	if format != "" {
		msg = fmt.Sprintf("%s %s", msg, fmt.Sprintf(format, args...))
	}
	return &ParseError{
		Pos:       pos,
		StartLine: startLine,
		Message:   msg,
		Err:       err,
	}
}

// HeaderError reports an unusable header, either from the format or from the
// first record of the input.
type HeaderError struct {
	Names []string
	Name  string // offending name, empty for a missing name
	Err   error
}

func (e *HeaderError) Error() string {
	if errors.Is(e.Err, ErrDuplicateHeader) {
		return fmt.Sprintf("%s %q in %q", e.Err, e.Name, e.Names)
	}
	return fmt.Sprintf("%s in %q", e.Err, e.Names)
}

func (e *HeaderError) Unwrap() error {
	return e.Err
}
