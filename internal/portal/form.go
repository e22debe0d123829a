package portal

import (
	"net/url"
	"strings"
)

// Form field names and values of the laklogin CGI.
const (
	fieldCode     = "code"
	fieldLoginID  = "loginid"
	fieldPassword = "password"
	fieldIPAddr   = "ipaddr"
	fieldAction   = "action"

	codeValue    = "1"
	actionLogin  = "Login"
	actionLogout = "Logout"

	contentTypeForm = "application/x-www-form-urlencoded"
)

type formField struct {
	key   string
	value string
}

// form is an ordered application/x-www-form-urlencoded body. url.Values sorts its
// keys on Encode, the portal's own page submits them in this order.
type form []formField

func loginForm(username, password, ip string, action string) form {
	return form{
		{fieldCode, codeValue},
		{fieldLoginID, username},
		{fieldPassword, password},
		{fieldIPAddr, ip},
		{fieldAction, action},
	}
}

// Encode returns the urlencoded body.
func (f form) Encode() string {
	var b strings.Builder
	for i, field := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(field.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(field.value))
	}
	return b.String()
}

// fields returns the form as a log field map.
func (f form) fields() map[string]any {
	m := make(map[string]any, len(f))
	for _, field := range f {
		m[field.key] = field.value
	}
	return m
}
