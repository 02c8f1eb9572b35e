package cocalc

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidURL        = errors.New("invalid url")
)

// ConfigError is returned when a Client can not be built from the given credentials.
type ConfigError struct {
	Field  string // credential field, e.g. "api_key"
	EnvVar string // environment variable the field is read from, if any
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("cocalc: ")
	b.WriteString(e.Field)
	if e.EnvVar != "" {
		fmt.Fprintf(&b, " (%s)", e.EnvVar)
	}
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("invalid")
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CompileError is returned when the remote compiler reports an error event.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string {
	if e.Message == "" {
		return "cocalc: latex compile failed"
	}
	return "cocalc: latex compile failed: " + e.Message
}

// StatusError is returned for non-2xx responses from the API or the PDF download.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte // truncated copy of the response body
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("cocalc: %s %s: http %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		msg += ": " + body
	}
	return msg
}

// IsCompileError reports whether err carries a *CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// IsConfigError reports whether err carries a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
