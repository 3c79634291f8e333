package parser

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nginxLine = `127.0.0.1 - - [10/Oct/2023:13:55:36 +0000] "GET /index.html HTTP/1.1" 200 1024 "-" "curl/7.64"`

func parseAll(t *testing.T, format string, lines ...string) []Record {
	t.Helper()
	p, err := New(format, FromStrings(lines...))
	require.NoError(t, err)
	recs, err := p.Parse()
	require.NoError(t, err)
	return recs
}

func TestParseNginxLine(t *testing.T) {
	recs := parseAll(t, FormatNginx, nginxLine)
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, "127.0.0.1", r.RemoteAddr)
	assert.Equal(t, Placeholder, r.RemoteUser)
	assert.Equal(t, "10/Oct/2023:13:55:36 +0000", r.TimeLocal.Format(TimeLayout))
	assert.Equal(t, "GET", r.RequestMethod)
	assert.Equal(t, "/index.html", r.RequestURL)
	assert.Equal(t, "HTTP/1.1", r.HTTPProtocol)
	assert.Equal(t, "200", r.Status)
	code, err := r.StatusCode()
	require.NoError(t, err)
	assert.Equal(t, 200, code)
	assert.Equal(t, "1024", r.BodyBytesSent)
	assert.Equal(t, "-", r.HTTPReferer)
	assert.Equal(t, "curl/7.64", r.HTTPUserAgent)
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		line   string
		addr   string
		user   string
		url    string
	}{
		{
			name:   "apache with user",
			format: FormatApache,
			line:   `10.1.1.1 - frank [10/Oct/2000:13:55:36 -0700] "GET /apache_pb.gif HTTP/1.0" 200 2326 "http://example.com/start.html" "Mozilla/4.08"`,
			addr:   "10.1.1.1",
			user:   "frank",
			url:    "/apache_pb.gif",
		},
		{
			name:   "iis drops positions two and three",
			format: FormatIIS,
			line:   `10.0.0.7 W3SVC1 10.0.0.1 [10/Oct/2000:13:55:36 -0700] "GET /default.aspx HTTP/1.1" 200 512 "-" "Mozilla/5.0"`,
			addr:   "10.0.0.7",
			user:   Placeholder,
			url:    "/default.aspx",
		},
		{
			name:   "tomcat captured user",
			format: FormatTomcat,
			line:   `127.0.0.1 admin [10/Oct/2000:13:55:36 -0700] "GET /manager/html HTTP/1.1" 200 4096 "-" "Mozilla/5.0"`,
			addr:   "127.0.0.1",
			user:   "admin",
			url:    "/manager/html",
		},
		{
			// the two-token grammar finds its match starting at the ident position
			name:   "tomcat on a combined line",
			format: FormatTomcat,
			line:   nginxLine,
			addr:   "-",
			user:   "-",
			url:    "/index.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := parseAll(t, tt.format, tt.line)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.addr, recs[0].RemoteAddr)
			assert.Equal(t, tt.user, recs[0].RemoteUser)
			assert.Equal(t, tt.url, recs[0].RequestURL)
		})
	}
}

func TestTimeKeepsOffset(t *testing.T) {
	recs := parseAll(t, FormatApache,
		`10.1.1.1 - - [10/Oct/2000:23:55:36 -0700] "GET / HTTP/1.0" 200 1 "-" "-"`)
	require.Len(t, recs, 1)

	_, offset := recs[0].TimeLocal.Zone()
	assert.Equal(t, -7*3600, offset)
	assert.Equal(t, "2000-10-10", recs[0].Date())
}

func TestTimeLayouts(t *testing.T) {
	tests := []struct {
		value  string
		want   string
		offset int
	}{
		{"10/Oct/2023:13:55:36 +0000", "2023-10-10T13:55:36Z", 0},
		{"1/Oct/2023:13:55:36 +0000", "2023-10-01T13:55:36Z", 0},
		{"01/Oct/2023:13:55:36 +00:00", "2023-10-01T13:55:36Z", 0},
		{"10/Oct/2023:13:55:36 Z", "2023-10-10T13:55:36Z", 0},
		{"10/Oct/2023:13:55:36 -07:00", "2023-10-10T13:55:36-07:00", -7 * 3600},
		{"5/Oct/2023:13:55:36 +0530", "2023-10-05T13:55:36+05:30", 5*3600 + 1800},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			recs := parseAll(t, FormatNginx,
				`127.0.0.1 - - [`+tt.value+`] "GET / HTTP/1.1" 200 1 "-" "-"`)
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0].TimeLocal.Format(time.RFC3339))
			_, offset := recs[0].TimeLocal.Zone()
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestSplitRequest(t *testing.T) {
	tests := []struct {
		request string
		method  string
		url     string
		proto   string
	}{
		{"GET /a HTTP/1.1", "GET", "/a", "HTTP/1.1"},
		{"BADREQUEST", "BADREQUEST", "", ""},
		{"GET /a", "GET", "", ""},
		{"", "", "", ""},
		{"GET /a b HTTP/1.1", "GET", "/a", "b HTTP/1.1"},
		{"GET  /a", "GET", "", "/a"},
	}

	for _, tt := range tests {
		t.Run(tt.request, func(t *testing.T) {
			m, u, p := splitRequest(tt.request)
			assert.Equal(t, tt.method, m)
			assert.Equal(t, tt.url, u)
			assert.Equal(t, tt.proto, p)
		})
	}
}

func TestMalformedRequestIsNotAnError(t *testing.T) {
	recs := parseAll(t, FormatNginx,
		`127.0.0.1 - - [10/Oct/2023:13:55:36 +0000] "BADREQUEST" 400 0 "-" "-"`)
	require.Len(t, recs, 1)
	assert.Equal(t, "BADREQUEST", recs[0].RequestMethod)
	assert.Empty(t, recs[0].RequestURL)
	assert.Empty(t, recs[0].HTTPProtocol)
}

func TestOrderPreserved(t *testing.T) {
	for _, n := range []int{0, 1, 7, 50} {
		lines := make([]string, n)
		for i := range lines {
			lines[i] = fmt.Sprintf(`10.0.0.%d - - [10/Oct/2023:13:55:36 +0000] "GET /p/%d HTTP/1.1" 200 %d "-" "ua"`, i, i, i)
		}

		recs := parseAll(t, FormatNginx, lines...)
		require.Len(t, recs, n)
		for i, r := range recs {
			assert.Equal(t, fmt.Sprintf("/p/%d", i), r.RequestURL)
			assert.Equal(t, fmt.Sprintf("%d", i), r.BodyBytesSent)
		}
	}
}

func TestNonMatchingLineDropped(t *testing.T) {
	recs := parseAll(t, FormatNginx,
		"garbage",
		nginxLine,
		`127.0.0.1 - bob [10/Oct/2023:13:55:36 +0000] "GET / HTTP/1.1" 200 1 "-" "-"`,
		"",
		nginxLine,
	)
	assert.Len(t, recs, 2)
}

func TestMultipleMatchesPerLine(t *testing.T) {
	line := nginxLine + " " +
		`10.0.0.2 - - [11/Oct/2023:08:00:00 +0200] "POST /login HTTP/2.0" 302 0 "https://example.com/" "Mozilla/5.0"`

	recs := parseAll(t, FormatNginx, line)
	require.Len(t, recs, 2)
	assert.Equal(t, "127.0.0.1", recs[0].RemoteAddr)
	assert.Equal(t, "curl/7.64", recs[0].HTTPUserAgent)
	assert.Equal(t, "10.0.0.2", recs[1].RemoteAddr)
	assert.Equal(t, "POST", recs[1].RequestMethod)
	assert.Equal(t, "https://example.com/", recs[1].HTTPReferer)
}

func TestEmbeddedNewline(t *testing.T) {
	line := `127.0.0.1 - - [10/Oct/2023:13:55:36 +0000] "GET /a HTTP/1.1" 200 10 "-" "multi` + "\n" + `line agent"`
	recs := parseAll(t, FormatNginx, line)
	require.Len(t, recs, 1)
	assert.Equal(t, "multi\nline agent", recs[0].HTTPUserAgent)
}

func TestAllFieldsPopulated(t *testing.T) {
	for _, format := range []string{FormatApache, FormatNginx, FormatIIS, FormatTomcat} {
		t.Run(format, func(t *testing.T) {
			recs := parseAll(t, format, nginxLine)
			require.Len(t, recs, 1)
			r := recs[0]
			for _, col := range Columns() {
				v, ok := r.Field(col)
				require.True(t, ok, col)
				if col == ColRequestURL || col == ColHTTPProtocol {
					continue
				}
				assert.NotEmpty(t, v, col)
			}
		})
	}
}

func TestDecodeErrorAborts(t *testing.T) {
	p, err := New(FormatNginx, FromLines([][]byte{
		[]byte(nginxLine),
		{0xff, 0xfe, 0x20},
		[]byte(nginxLine),
	}))
	require.NoError(t, err)

	recs, err := p.Parse()
	assert.Nil(t, recs)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Line)
}

func TestTimestampErrorAborts(t *testing.T) {
	p, err := New(FormatNginx, FromStrings(
		`127.0.0.1 - - [yesterday] "GET / HTTP/1.1" 200 1 "-" "-"`,
	))
	require.NoError(t, err)

	_, err = p.Parse()
	var te *TimestampError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Line)
	assert.Equal(t, "yesterday", te.Value)
}

type closingSource struct {
	LineSource
	closed int
	err    error
}

func (s *closingSource) Next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.LineSource.Next()
}

func (s *closingSource) Close() error {
	s.closed++
	return nil
}

func TestSourceClosedOnEveryPath(t *testing.T) {
	t.Run("completion", func(t *testing.T) {
		src := &closingSource{LineSource: FromStrings(nginxLine)}
		p, err := New(FormatNginx, src)
		require.NoError(t, err)
		_, err = p.Parse()
		require.NoError(t, err)
		assert.Equal(t, 1, src.closed)
	})

	t.Run("read failure", func(t *testing.T) {
		readErr := errors.New("disk gone")
		src := &closingSource{LineSource: FromStrings(nginxLine), err: readErr}
		p, err := New(FormatNginx, src)
		require.NoError(t, err)
		_, err = p.Parse()
		assert.ErrorIs(t, err, readErr)
		assert.Equal(t, 1, src.closed)
	})

	t.Run("early break", func(t *testing.T) {
		src := &closingSource{LineSource: FromStrings(nginxLine, nginxLine, nginxLine)}
		p, err := New(FormatNginx, src)
		require.NoError(t, err)
		for range p.Records() {
			break
		}
		assert.Equal(t, 1, src.closed)
	})
}

func TestParserSingleUse(t *testing.T) {
	p, err := New(FormatNginx, FromStrings(nginxLine))
	require.NoError(t, err)

	_, err = p.Parse()
	require.NoError(t, err)

	_, err = p.Parse()
	assert.ErrorIs(t, err, ErrParserConsumed)
}

type recordingObserver struct {
	lines  []int
	counts []int
	failed error
}

func (o *recordingObserver) LineParsed(line, records int) {
	o.lines = append(o.lines, line)
	o.counts = append(o.counts, records)
}

func (o *recordingObserver) ParseFailed(err error) {
	o.failed = err
}

func TestObserver(t *testing.T) {
	obs := &recordingObserver{}
	p, err := New(FormatNginx, FromLines([][]byte{
		[]byte(nginxLine),
		[]byte("nope"),
		{0xc3},
	}), WithObserver(obs))
	require.NoError(t, err)

	_, err = p.Parse()
	require.Error(t, err)

	assert.Equal(t, []int{1, 2}, obs.lines)
	assert.Equal(t, []int{1, 0}, obs.counts)
	assert.Equal(t, err, obs.failed)
}

func TestFromLinesEOF(t *testing.T) {
	src := FromStrings()
	_, err := src.Next()
	assert.ErrorIs(t, err, io.EOF)
}
