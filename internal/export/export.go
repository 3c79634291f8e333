// Package export writes filtered records to CSV or JSON files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cyra/weblog/internal/parser"
)

// Format selects the export encoding.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat accepts "csv" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CSV, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Error reports a failed export. Exports are not retried.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FileName returns log_entries_<YYYYMMDD_HHMMSS>.<ext> for the given time.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("log_entries_%s.%s", now.Format("20060102_150405"), f)
}

// Write encodes records to w.
func Write(w io.Writer, f Format, records []parser.Record) error {
	switch f {
	case CSV:
		return WriteCSV(w, records)
	case JSON:
		return WriteJSON(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// ToFile writes records into dir under FileName and returns the file path.
func ToFile(dir string, f Format, records []parser.Record, now time.Time) (path string, err error) {
	path = filepath.Join(dir, FileName(f, now))

	file, err := os.Create(path)
	if err != nil {
		return "", &Error{Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &Error{Path: path, Err: cerr}
			path = ""
		}
	}()

	if err := Write(file, f, records); err != nil {
		return "", &Error{Path: path, Err: err}
	}
	return path, nil
}
