package portal_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fzdarsky/hirn-login/internal/portal"
)

const notInsidePage = `<html><body><p>Sie befinden sich an einem Arbeitsplatz der nicht Lock-And-Key
gesichert ist.</p></body></html>`

func statusPage(ip string) string {
	return `<html><head><title>Lock-And-Key</title></head><body>
<form method="post" action="/cgi-bin/laklogin">
<input type="hidden" name="code" value="1">
<input type="hidden" name="ipaddr" value="` + ip + `">
<input type="text" name="loginid" value="">
</form></body></html>`
}

func TestExtractLocalIP(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantIP    string
		wantFound bool
		wantErr   bool
	}{
		{
			name:      "private address",
			body:      statusPage("192.168.1.42"),
			wantIP:    "192.168.1.42",
			wantFound: true,
		},
		{
			name:      "campus address",
			body:      statusPage("134.147.10.200"),
			wantIP:    "134.147.10.200",
			wantFound: true,
		},
		{
			name:      "lowest address",
			body:      `name="ipaddr" value="0.0.0.0"`,
			wantIP:    "0.0.0.0",
			wantFound: true,
		},
		{
			name:      "highest address",
			body:      `name="ipaddr" value="255.255.255.255"`,
			wantIP:    "255.255.255.255",
			wantFound: true,
		},
		{
			name:      "first field wins",
			body:      `name="ipaddr" value="10.0.0.1" name="ipaddr" value="10.0.0.2"`,
			wantIP:    "10.0.0.1",
			wantFound: true,
		},
		{
			name:      "not inside",
			body:      notInsidePage,
			wantFound: false,
		},
		{
			name:      "not inside wins over ip field",
			body:      notInsidePage + statusPage("192.168.1.42"),
			wantFound: false,
		},
		{
			name:      "not inside after ip field",
			body:      statusPage("192.168.1.42") + notInsidePage,
			wantFound: false,
		},
		{
			name:    "missing field",
			body:    `<html><body>Wartungsarbeiten</body></html>`,
			wantErr: true,
		},
		{
			name:    "unterminated value",
			body:    `name="ipaddr" value="192.168.1.42`,
			wantErr: true,
		},
		{
			name:    "empty value",
			body:    `name="ipaddr" value=""`,
			wantErr: true,
		},
		{
			name:    "not an address",
			body:    `name="ipaddr" value="localhost"`,
			wantErr: true,
		},
		{
			name:    "octet out of range",
			body:    `name="ipaddr" value="192.168.1.256"`,
			wantErr: true,
		},
		{
			name:    "ipv6 address",
			body:    `name="ipaddr" value="2001:db8::1"`,
			wantErr: true,
		},
		{
			name:    "ipv4-mapped ipv6 address",
			body:    `name="ipaddr" value="::ffff:192.168.1.42"`,
			wantErr: true,
		},
		{
			name:    "marker with different case",
			body:    `NAME="ipaddr" VALUE="192.168.1.42"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, found, err := portal.ExtractLocalIP(tt.body)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, portal.ErrParse)
				assert.NotErrorIs(t, err, portal.ErrTransport)
				assert.False(t, found)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, netip.MustParseAddr(tt.wantIP), addr)
			} else {
				assert.False(t, addr.IsValid())
			}
		})
	}
}

func TestExtractLocalIP_RoundTrip(t *testing.T) {
	for _, ip := range []string{"1.2.3.4", "10.20.30.40", "127.0.0.1", "134.147.222.1", "172.16.0.254"} {
		t.Run(ip, func(t *testing.T) {
			addr, found, err := portal.ExtractLocalIP("prefix " + statusPage(ip) + " suffix")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, ip, addr.String())
		})
	}
}

func TestClassifyLogin(t *testing.T) {
	tests := []struct {
		name string
		body string
		want portal.Outcome
	}{
		{
			name: "success",
			body: "<p>Authentisierung gelungen</p>",
			want: portal.OutcomeSuccess,
		},
		{
			name: "failure",
			body: "<p>Authentisierung fehlgeschlagen</p>",
			want: portal.OutcomeAuthFailed,
		},
		{
			name: "success wins over later failure",
			body: "Authentisierung gelungen ... Authentisierung fehlgeschlagen",
			want: portal.OutcomeSuccess,
		},
		{
			name: "success wins over earlier failure",
			body: "Authentisierung fehlgeschlagen ... Authentisierung gelungen",
			want: portal.OutcomeSuccess,
		},
		{
			name: "logout marker is not a login success",
			body: "Logout erfolgreich",
			want: portal.OutcomeUnexpected,
		},
		{
			name: "empty body",
			body: "",
			want: portal.OutcomeUnexpected,
		},
		{
			name: "case sensitive",
			body: "authentisierung gelungen",
			want: portal.OutcomeUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, portal.ClassifyLogin(tt.body))
		})
	}
}

func TestClassifyLogout(t *testing.T) {
	tests := []struct {
		name string
		body string
		want portal.Outcome
	}{
		{
			name: "success",
			body: "<p>Logout erfolgreich</p>",
			want: portal.OutcomeSuccess,
		},
		{
			name: "failure reuses the authentication message",
			body: "<p>Authentisierung fehlgeschlagen</p>",
			want: portal.OutcomeAuthFailed,
		},
		{
			name: "success wins over failure",
			body: "Authentisierung fehlgeschlagen Logout erfolgreich",
			want: portal.OutcomeSuccess,
		},
		{
			name: "login marker is not a logout success",
			body: "Authentisierung gelungen",
			want: portal.OutcomeUnexpected,
		},
		{
			name: "unknown page",
			body: "<html><title>500 Internal Server Error</title></html>",
			want: portal.OutcomeUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, portal.ClassifyLogout(tt.body))
		})
	}
}

func TestParseIPv4(t *testing.T) {
	addr, err := portal.ParseIPv4("134.147.0.1")
	require.NoError(t, err)
	assert.True(t, addr.Is4())

	for _, bad := range []string{"", "::1", "::ffff:1.2.3.4", "1.2.3", "01.2.3.4", "1.2.3.4 "} {
		_, err := portal.ParseIPv4(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "success", portal.OutcomeSuccess.String())
	assert.Equal(t, "authentication failed", portal.OutcomeAuthFailed.String())
	assert.Equal(t, "unexpected", portal.OutcomeUnexpected.String())
}
