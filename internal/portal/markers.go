package portal

import (
	"fmt"
	"net/netip"
	"strings"
)

// Literal phrases of the Lock-And-Key pages. They are matched case-sensitively
// against the decoded response body.
const (
	markerNotInside  = "befinden sich an einem Arbeitsplatz der nicht Lock-And-Key"
	markerIPPrefix   = `name="ipaddr" value="`
	markerIPEnd      = `"`
	markerLoginOK    = "Authentisierung gelungen"
	markerAuthFailed = "Authentisierung fehlgeschlagen"
	markerLogoutOK   = "Logout erfolgreich"
)

// maxQuotedValueLen bounds how much of a malformed value ends up in error text.
const maxQuotedValueLen = 64

// Outcome is the classification of a login or logout response page.
type Outcome int

// Response outcomes.
const (
	OutcomeUnexpected Outcome = iota
	OutcomeSuccess
	OutcomeAuthFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeAuthFailed:
		return "authentication failed"
	default:
		return "unexpected"
	}
}

// ExtractLocalIP scans the status page for the caller's address.
// It returns found=false without error when the page says the caller is not at a
// Lock-And-Key workplace, regardless of anything else on the page.
// Returned errors are *Error of KindParse.
func ExtractLocalIP(body string) (netip.Addr, bool, error) {
	if strings.Contains(body, markerNotInside) {
		return netip.Addr{}, false, nil
	}

	_, rest, ok := strings.Cut(body, markerIPPrefix)
	if !ok {
		return netip.Addr{}, false, newParseError("", "ip address field not found", nil)
	}

	value, _, ok := strings.Cut(rest, markerIPEnd)
	if !ok {
		return netip.Addr{}, false, newParseError("", "ip address field not terminated", nil)
	}

	addr, err := ParseIPv4(value)
	if err != nil {
		return netip.Addr{}, false, newParseError("", fmt.Sprintf("invalid ip address %q", truncate(value, maxQuotedValueLen)), err)
	}

	return addr, true, nil
}

// ParseIPv4 parses a dotted-decimal IPv4 address. IPv6 and IPv4-mapped IPv6
// literals are rejected.
func ParseIPv4(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%s is not an IPv4 address", s)
	}
	return addr, nil
}

// ClassifyLogin classifies a login response. The success marker wins over the
// failure marker when both are present.
func ClassifyLogin(body string) Outcome {
	return classify(body, markerLoginOK)
}

// ClassifyLogout classifies a logout response. The portal reports failed logouts
// with its authentication failure message.
func ClassifyLogout(body string) Outcome {
	return classify(body, markerLogoutOK)
}

func classify(body, successMarker string) Outcome {
	switch {
	case strings.Contains(body, successMarker):
		return OutcomeSuccess
	case strings.Contains(body, markerAuthFailed):
		return OutcomeAuthFailed
	default:
		return OutcomeUnexpected
	}
}
