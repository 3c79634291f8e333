package parser

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"
	"unicode/utf8"
)

// LineSource yields raw log lines in order. Next returns io.EOF after the last line.
// A source that also implements io.Closer is closed by the Parser once parsing ends.
type LineSource interface {
	Next() ([]byte, error)
}

// Observer receives per-line outcomes. Implementations must not block.
type Observer interface {
	// LineParsed is called for every decoded line with the number of records it
	// produced; zero means the line did not match.
	LineParsed(line, records int)
	// ParseFailed is called once with the error that aborted the parse.
	ParseFailed(err error)
}

type nopObserver struct{}

func (nopObserver) LineParsed(int, int) {}
func (nopObserver) ParseFailed(error)   {}

// Option configures a Parser.
type Option func(*Parser)

// WithObserver reports line outcomes and failures to o.
func WithObserver(o Observer) Option {
	return func(p *Parser) {
		if o != nil {
			p.obs = o
		}
	}
}

// Parser binds a Grammar to one line source. It is single use.
type Parser struct {
	grammar  *Grammar
	src      LineSource
	obs      Observer
	consumed bool
}

func newParser(g *Grammar, src LineSource, opts ...Option) *Parser {
	p := &Parser{
		grammar: g,
		src:     src,
		obs:     nopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Format returns the name of the bound grammar.
func (p *Parser) Format() string {
	return p.grammar.Name()
}

// Parse reads the whole source and returns the records in line order.
func (p *Parser) Parse() ([]Record, error) {
	var out []Record
	for rec, err := range p.Records() {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Records returns a lazy sequence over the source. Lines that do not match yield
// nothing. The sequence stops after the first error, and the source is closed when
// iteration ends for any reason.
func (p *Parser) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		if p.consumed {
			yield(Record{}, ErrParserConsumed)
			return
		}
		p.consumed = true

		if c, ok := p.src.(io.Closer); ok {
			defer c.Close()
		}

		fail := func(err error) {
			p.obs.ParseFailed(err)
			yield(Record{}, err)
		}

		for n := 1; ; n++ {
			raw, err := p.src.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				fail(fmt.Errorf("read line %d: %w", n, err))
				return
			}

			if !utf8.Valid(raw) {
				fail(&DecodeError{Line: n})
				return
			}

			matches := p.grammar.matches(string(raw))
			for _, m := range matches {
				rec, err := toRecord(n, m)
				if err != nil {
					fail(err)
					return
				}
				if !yield(rec, nil) {
					return
				}
			}
			p.obs.LineParsed(n, len(matches))
		}
	}
}

func toRecord(line int, f fields) (Record, error) {
	ts, err := parseTime(f[slotTime])
	if err != nil {
		return Record{}, &TimestampError{Line: line, Value: f[slotTime], Err: err}
	}

	method, url, proto := splitRequest(f[slotRequest])

	return Record{
		RemoteAddr:    f[slotAddr],
		RemoteUser:    f[slotUser],
		TimeLocal:     ts,
		RequestMethod: method,
		RequestURL:    url,
		HTTPProtocol:  proto,
		Status:        f[slotStatus],
		BodyBytesSent: f[slotBytes],
		HTTPReferer:   f[slotReferer],
		HTTPUserAgent: f[slotAgent],
	}, nil
}

// timeLayouts are tried in order. Besides the canonical layout they accept a
// single-digit day and offsets written as Z, +hhmm or +hh:mm.
var timeLayouts = []string{
	TimeLayout,
	"2/Jan/2006:15:04:05 Z0700",
	"2/Jan/2006:15:04:05 Z07:00",
}

func parseTime(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// splitRequest splits on single spaces into at most three parts. Anything other than
// exactly three parts keeps the first token as the method and leaves url and protocol
// empty.
func splitRequest(request string) (method, url, proto string) {
	parts := strings.SplitN(request, " ", 3)
	if len(parts) == 3 {
		return parts[0], parts[1], parts[2]
	}
	return parts[0], "", ""
}

type sliceSource struct {
	lines [][]byte
	pos   int
}

func (s *sliceSource) Next() ([]byte, error) {
	if s.pos >= len(s.lines) {
		return nil, io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

// FromLines returns an in-memory line source.
func FromLines(lines [][]byte) LineSource {
	return &sliceSource{lines: lines}
}

// FromStrings is FromLines for text lines.
func FromStrings(lines ...string) LineSource {
	raw := make([][]byte, len(lines))
	for i, l := range lines {
		raw[i] = []byte(l)
	}
	return &sliceSource{lines: raw}
}
