package portal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrorKind classifies a portal failure.
type ErrorKind string

// Portal error kinds.
const (
	// KindTransport indicates the request could not be sent or its response not read.
	KindTransport ErrorKind = "TRANSPORT"
	// KindParse indicates the portal page did not have the expected shape.
	KindParse ErrorKind = "PARSE"
	// KindAuthFailed indicates the portal explicitly rejected the request.
	KindAuthFailed ErrorKind = "AUTHENTICATION_FAILED"
	// KindUnexpectedResponse indicates the portal answered with a page we cannot interpret.
	KindUnexpectedResponse ErrorKind = "UNEXPECTED_RESPONSE"
)

// Transport stages.
const (
	StageSend = "send"
	StageRead = "read"
)

// Sentinels for use with errors.Is.
var (
	ErrTransport          = errors.New("transport error")
	ErrParse              = errors.New("parse error")
	ErrAuthFailed         = errors.New("authentication failed")
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// Error is the error type returned by every Client operation.
type Error struct {
	Kind ErrorKind
	// Stage is set for KindTransport only.
	Stage string
	URL   string
	// Details is a short human-readable hint, e.g. the portal page title.
	Details string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	switch e.Kind {
	case KindTransport:
		if e.Stage == StageRead {
			b.WriteString("failed to read response")
		} else {
			b.WriteString("failed to send request")
		}
	case KindParse:
		b.WriteString("failed to parse portal page")
	case KindAuthFailed:
		b.WriteString(ErrAuthFailed.Error())
	case KindUnexpectedResponse:
		b.WriteString(ErrUnexpectedResponse.Error())
	default:
		b.WriteString("portal error")
	}

	// *url.Error from http.Client.Do already names the URL.
	var ue *url.Error
	if e.URL != "" && !errors.As(e.Err, &ue) {
		fmt.Fprintf(&b, " (%s)", e.URL)
	}
	if e.Details != "" {
		fmt.Fprintf(&b, ": %s", e.Details)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrParse:
		return e.Kind == KindParse
	case ErrAuthFailed:
		return e.Kind == KindAuthFailed
	case ErrUnexpectedResponse:
		return e.Kind == KindUnexpectedResponse
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsAuthError checks if an error is an authentication failure reported by the portal.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}

func newTransportError(stage, url string, err error) *Error {
	return &Error{Kind: KindTransport, Stage: stage, URL: url, Err: err}
}

func newParseError(url, details string, err error) *Error {
	return &Error{Kind: KindParse, URL: url, Details: details, Err: err}
}
