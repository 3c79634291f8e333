package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/cyra/weblog/internal/parser"
)

type jsonRecord struct {
	RemoteAddr    string `json:"remote_addr"`
	RemoteUser    string `json:"remote_user"`
	TimeLocal     string `json:"time_local"`
	RequestMethod string `json:"request_method"`
	RequestURL    string `json:"request_url"`
	HTTPProtocol  string `json:"http_protocol"`
	Status        string `json:"status"`
	BodyBytesSent string `json:"body_bytes_sent"`
	HTTPReferer   string `json:"http_referer"`
	HTTPUserAgent string `json:"http_user_agent"`
	Date          string `json:"date"`
}

// WriteJSON writes an array with one object per record; time_local is RFC 3339.
func WriteJSON(w io.Writer, records []parser.Record) error {
	out := make([]jsonRecord, len(records))
	for i := range records {
		r := &records[i]
		out[i] = jsonRecord{
			RemoteAddr:    r.RemoteAddr,
			RemoteUser:    r.RemoteUser,
			TimeLocal:     r.TimeLocal.Format(time.RFC3339),
			RequestMethod: r.RequestMethod,
			RequestURL:    r.RequestURL,
			HTTPProtocol:  r.HTTPProtocol,
			Status:        r.Status,
			BodyBytesSent: r.BodyBytesSent,
			HTTPReferer:   r.HTTPReferer,
			HTTPUserAgent: r.HTTPUserAgent,
			Date:          r.Date(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(out)
}
