package source

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Reader splits any io.Reader into lines. Lines have no length limit.
type Reader struct {
	br *bufio.Reader
	rc io.Closer
}

// NewReader returns a line source over r. If r is an io.Closer it is closed by Close.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{br: bufio.NewReaderSize(r, 64*1024)}
	if c, ok := r.(io.Closer); ok {
		rd.rc = c
	}
	return rd
}

// Next returns the next line without its "\n" or "\r\n" terminator, or io.EOF.
// A final line without a terminator is returned before io.EOF.
func (r *Reader) Next() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, err
		}
		if len(line) == 0 {
			return nil, io.EOF
		}
	}
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), nil
}

// Close closes the underlying reader when it has one.
func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	return r.rc.Close()
}
