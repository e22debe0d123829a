package portal_test

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fzdarsky/hirn-login/internal/portal"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *portal.Error
		expected string
	}{
		{
			name: "send failure",
			err: &portal.Error{
				Kind:  portal.KindTransport,
				Stage: portal.StageSend,
				URL:   "https://portal.test/start",
				Err:   errors.New("connection refused"),
			},
			expected: "failed to send request (https://portal.test/start): connection refused",
		},
		{
			name: "send failure names the url once",
			err: &portal.Error{
				Kind:  portal.KindTransport,
				Stage: portal.StageSend,
				URL:   "https://portal.test/start",
				Err: &url.Error{
					Op:  "Get",
					URL: "https://portal.test/start",
					Err: errors.New("dial tcp: connection refused"),
				},
			},
			expected: `failed to send request: Get "https://portal.test/start": dial tcp: connection refused`,
		},
		{
			name: "read failure",
			err: &portal.Error{
				Kind:  portal.KindTransport,
				Stage: portal.StageRead,
				URL:   "https://portal.test/start",
				Err:   io.ErrUnexpectedEOF,
			},
			expected: "failed to read response (https://portal.test/start): unexpected EOF",
		},
		{
			name: "parse failure",
			err: &portal.Error{
				Kind:    portal.KindParse,
				URL:     "https://portal.test/start",
				Details: "ip address field not found",
			},
			expected: "failed to parse portal page (https://portal.test/start): ip address field not found",
		},
		{
			name:     "authentication failure",
			err:      &portal.Error{Kind: portal.KindAuthFailed},
			expected: "authentication failed",
		},
		{
			name: "unexpected response",
			err: &portal.Error{
				Kind:    portal.KindUnexpectedResponse,
				URL:     "https://portal.test/laklogin",
				Details: `page "Wartung"`,
			},
			expected: `unexpected response (https://portal.test/laklogin): page "Wartung"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	sentinels := map[portal.ErrorKind]error{
		portal.KindTransport:          portal.ErrTransport,
		portal.KindParse:              portal.ErrParse,
		portal.KindAuthFailed:         portal.ErrAuthFailed,
		portal.KindUnexpectedResponse: portal.ErrUnexpectedResponse,
	}

	for kind, sentinel := range sentinels {
		t.Run(string(kind), func(t *testing.T) {
			err := fmt.Errorf("failed to log in: %w", &portal.Error{Kind: kind})

			assert.ErrorIs(t, err, sentinel)
			assert.Equal(t, kind, portal.KindOf(err))

			for otherKind, other := range sentinels {
				if otherKind != kind {
					assert.NotErrorIs(t, err, other)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &portal.Error{Kind: portal.KindTransport, Stage: portal.StageSend, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, portal.ErrTransport)
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, portal.IsAuthError(fmt.Errorf("wrapped: %w", &portal.Error{Kind: portal.KindAuthFailed})))
	assert.False(t, portal.IsAuthError(&portal.Error{Kind: portal.KindUnexpectedResponse}))
	assert.False(t, portal.IsAuthError(errors.New("authentication failed")))
	assert.False(t, portal.IsAuthError(nil))
}

func TestKindOf_NoPortalError(t *testing.T) {
	assert.Equal(t, portal.ErrorKind(""), portal.KindOf(errors.New("boom")))
	assert.Equal(t, portal.ErrorKind(""), portal.KindOf(nil))
}
