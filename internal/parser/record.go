package parser

import (
	"strconv"
	"time"
)

// TimeLayout is the access-log timestamp layout shared by all built-in formats.
const TimeLayout = "02/Jan/2006:15:04:05 -0700"

// DateLayout renders the derived date column.
const DateLayout = "2006-01-02"

// Column names, in export order.
const (
	ColRemoteAddr    = "remote_addr"
	ColRemoteUser    = "remote_user"
	ColTimeLocal     = "time_local"
	ColRequestMethod = "request_method"
	ColRequestURL    = "request_url"
	ColHTTPProtocol  = "http_protocol"
	ColStatus        = "status"
	ColBodyBytesSent = "body_bytes_sent"
	ColHTTPReferer   = "http_referer"
	ColHTTPUserAgent = "http_user_agent"
	ColDate          = "date"
)

// Placeholder is reported for fields a format does not carry.
const Placeholder = "-"

// Record is one parsed access-log entry.
type Record struct {
	RemoteAddr    string    `json:"remote_addr"`
	RemoteUser    string    `json:"remote_user"`
	TimeLocal     time.Time `json:"time_local"`
	RequestMethod string    `json:"request_method"`
	RequestURL    string    `json:"request_url"`
	HTTPProtocol  string    `json:"http_protocol"`
	Status        string    `json:"status"`
	BodyBytesSent string    `json:"body_bytes_sent"`
	HTTPReferer   string    `json:"http_referer"`
	HTTPUserAgent string    `json:"http_user_agent"`
}

// Columns returns the record column names in export order.
func Columns() []string {
	return []string{
		ColRemoteAddr,
		ColRemoteUser,
		ColTimeLocal,
		ColRequestMethod,
		ColRequestURL,
		ColHTTPProtocol,
		ColStatus,
		ColBodyBytesSent,
		ColHTTPReferer,
		ColHTTPUserAgent,
	}
}

// Field renders a column as text. The second result is false for unknown columns.
func (r *Record) Field(column string) (string, bool) {
	switch column {
	case ColRemoteAddr:
		return r.RemoteAddr, true
	case ColRemoteUser:
		return r.RemoteUser, true
	case ColTimeLocal:
		return r.TimeLocal.Format(TimeLayout), true
	case ColRequestMethod:
		return r.RequestMethod, true
	case ColRequestURL:
		return r.RequestURL, true
	case ColHTTPProtocol:
		return r.HTTPProtocol, true
	case ColStatus:
		return r.Status, true
	case ColBodyBytesSent:
		return r.BodyBytesSent, true
	case ColHTTPReferer:
		return r.HTTPReferer, true
	case ColHTTPUserAgent:
		return r.HTTPUserAgent, true
	case ColDate:
		return r.Date(), true
	default:
		return "", false
	}
}

// Date is the calendar date of TimeLocal in its own offset.
func (r *Record) Date() string {
	return r.TimeLocal.Format(DateLayout)
}

// StatusCode converts the captured status text.
func (r *Record) StatusCode() (int, error) {
	return strconv.Atoi(r.Status)
}
