package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is matched by every *UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported log format")

	// ErrGrammarShape is returned when a pattern does not expose the capture groups
	// the extractor needs.
	ErrGrammarShape = errors.New("invalid grammar shape")

	// ErrParserConsumed is returned when a Parser is iterated a second time.
	ErrParserConsumed = errors.New("parser already consumed its line source")
)

// UnsupportedFormatError reports a format name with no registered grammar.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported log format %q (available: %v)", e.Format, Formats())
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// DecodeError reports a line that is not valid UTF-8 text. It aborts the parse.
type DecodeError struct {
	Line int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: invalid utf-8 text", e.Line)
}

// TimestampError reports a matched line whose bracketed time is not a valid timestamp.
type TimestampError struct {
	Line  int
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("line %d: parse time %q: %v", e.Line, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}
