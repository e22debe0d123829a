package logging

import (
	"strings"
)

const redactedValue = "[REDACTED]"

// Redactor handles secret redaction in log fields.
type Redactor struct {
	sensitiveKeys map[string]bool
}

// NewRedactor creates a new Redactor with default sensitive keys.
func NewRedactor() *Redactor {
	return &Redactor{
		sensitiveKeys: map[string]bool{
			// Portal form
			"password": true,
			"passwd":   true,

			// Authentication & session
			"token":         true,
			"secret":        true,
			"session":       true,
			"session_token": true,
			"authorization": true,
			"cookie":        true,
			"set-cookie":    true,

			// Local credential sources
			"password_file": true,
			"credentials":   true,
		},
	}
}

// RedactFields redacts sensitive values from a map of fields.
// Empty values are kept as is, so an empty password is still visible as empty.
func (r *Redactor) RedactFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}

	redacted := make(map[string]any, len(fields))

	for k, v := range fields {
		switch {
		case r.isSensitiveKey(k) && !isEmpty(v):
			redacted[k] = redactedValue
		case isNested(v):
			// Recursively redact nested maps
			redacted[k] = r.RedactFields(v.(map[string]any))
		default:
			redacted[k] = v
		}
	}

	return redacted
}

// isSensitiveKey checks if a field key is marked as sensitive.
func (r *Redactor) isSensitiveKey(key string) bool {
	// Only check exact match (case-insensitive)
	return r.sensitiveKeys[strings.ToLower(key)]
}

func isNested(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func isEmpty(v any) bool {
	s, ok := v.(string)
	return ok && s == ""
}
