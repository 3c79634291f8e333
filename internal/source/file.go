// Package source provides line sources for the parser: files read once to the end
// and arbitrary readers.
package source

import (
	"fmt"
	"io"
	"os"

	"github.com/hpcloud/tail"
)

// File reads a log file front to back. It does not follow appends.
type File struct {
	path string
	tf   *tail.Tail
}

// Open starts reading the file at path. The file must exist.
func Open(path string) (*File, error) {
	cfg := tail.Config{
		Follow:    false,
		ReOpen:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	}

	tf, err := tail.TailFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &File{path: path, tf: tf}, nil
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Next returns the next line without its trailing newline, or io.EOF.
func (f *File) Next() ([]byte, error) {
	line, ok := <-f.tf.Lines
	if !ok {
		return nil, io.EOF
	}
	if line.Err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, line.Err)
	}
	return []byte(line.Text), nil
}

// Close stops the reader goroutine and releases the file handle. Safe to call after
// the file was read to the end.
func (f *File) Close() error {
	f.tf.Kill(nil)
	// the reader may be blocked handing us a line
	for range f.tf.Lines {
	}
	f.tf.Cleanup()
	return f.tf.Wait()
}

// Lines is a line source that owns a resource.
type Lines interface {
	Next() ([]byte, error)
	Close() error
}

// OpenPath opens path, or reads stdin when path is "-". Closing the stdin source
// leaves os.Stdin open.
func OpenPath(path string) (Lines, error) {
	if path == "-" {
		return NewReader(struct{ io.Reader }{os.Stdin}), nil
	}
	return Open(path)
}
