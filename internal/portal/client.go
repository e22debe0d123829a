// Package portal drives the Lock-And-Key access control portal of the HIRN campus
// network: it discovers the caller's registered address and opens or closes
// network access for an address.
//
// The portal is a legacy CGI application. Its pages are matched by literal,
// case-sensitive substrings (see markers.go); nothing else of the HTML is
// interpreted except for the page summary attached to errors.
package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/fzdarsky/hirn-login/internal/logging"
)

// Endpoints of the Ruhr-Universität Bochum Lock-And-Key portal.
const (
	DefaultStatusURL = "https://login.ruhr-uni-bochum.de/cgi-bin/start"
	DefaultLoginURL  = "https://login.ruhr-uni-bochum.de/cgi-bin/laklogin"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "hirn-login"

// Config holds the portal endpoints and transport settings.
type Config struct {
	StatusURL string
	LoginURL  string
	UserAgent string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

// DefaultConfig returns the configuration for the production portal.
func DefaultConfig() Config {
	return Config{
		StatusURL: DefaultStatusURL,
		LoginURL:  DefaultLoginURL,
		UserAgent: DefaultUserAgent,
	}
}

// Client talks to the portal. All operations share one underlying *http.Client,
// so the (at most two) requests of a CLI invocation reuse the connection.
// A Client issues requests sequentially and is not meant for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
	redactor   *logging.Redactor
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client. Config.Timeout is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for debug output. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new portal client. Empty Config fields fall back to
// DefaultConfig.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	defaults := DefaultConfig()
	if cfg.StatusURL == "" {
		cfg.StatusURL = defaults.StatusURL
	}
	if cfg.LoginURL == "" {
		cfg.LoginURL = defaults.LoginURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout %v: must not be negative", cfg.Timeout)
	}

	for _, raw := range []string{cfg.StatusURL, cfg.LoginURL} {
		if err := validateURL(raw); err != nil {
			return nil, err
		}
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     zerolog.Nop(),
		redactor:   logging.NewRedactor(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// DetermineLocalIP asks the status page which address the caller is registered
// with. found is false, without error, when the caller is outside HIRN.
func (c *Client) DetermineLocalIP(ctx context.Context) (addr netip.Addr, found bool, err error) {
	body, err := c.get(ctx, c.cfg.StatusURL)
	if err != nil {
		return netip.Addr{}, false, err
	}

	addr, found, err = ExtractLocalIP(body)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			pe.URL = c.cfg.StatusURL
			pe.Details = withSummary(pe.Details, body)
		}
		return netip.Addr{}, false, err
	}

	if !found {
		c.logger.Debug().Msg("Not inside HIRN")
		return netip.Addr{}, false, nil
	}

	c.logger.Debug().Stringer("ip", addr).Msg("Determined local ip")
	return addr, true, nil
}

// Resolve turns a Target into a concrete address. found is false when the
// target had to be discovered and the caller is outside HIRN.
func (c *Client) Resolve(ctx context.Context, target Target) (netip.Addr, bool, error) {
	c.logger.Debug().Stringer("target", target).Msg("Resolving target")

	if target.Discover() {
		return c.DetermineLocalIP(ctx)
	}
	if err := requireIPv4(target.addr); err != nil {
		return netip.Addr{}, false, err
	}
	return target.addr, true, nil
}

// Login opens network access for addr under the given identity.
func (c *Client) Login(ctx context.Context, creds Credentials, addr netip.Addr) error {
	if err := requireIPv4(addr); err != nil {
		return err
	}

	c.logger.Debug().EmbedObject(creds).Stringer("ip", addr).Msg("Logging in")

	f := loginForm(creds.Username, creds.Password, addr.String(), actionLogin)
	return c.submit(ctx, f, ClassifyLogin)
}

// Logout closes network access for addr.
func (c *Client) Logout(ctx context.Context, addr netip.Addr) error {
	if err := requireIPv4(addr); err != nil {
		return err
	}

	c.logger.Debug().Stringer("ip", addr).Msg("Logging out")

	f := loginForm("", "", addr.String(), actionLogout)
	return c.submit(ctx, f, ClassifyLogout)
}

// submit posts f to the login endpoint and maps the classified page to an error.
func (c *Client) submit(ctx context.Context, f form, classify func(string) Outcome) error {
	c.logger.Trace().Fields(c.redactor.RedactFields(f.fields())).Msg("Submitting portal form")

	body, err := c.post(ctx, c.cfg.LoginURL, f)
	if err != nil {
		return err
	}

	outcome := classify(body)
	c.logger.Debug().Stringer("outcome", outcome).Msg("Portal answered")

	switch outcome {
	case OutcomeSuccess:
		return nil
	case OutcomeAuthFailed:
		return &Error{Kind: KindAuthFailed, URL: c.cfg.LoginURL}
	default:
		return &Error{
			Kind:    KindUnexpectedResponse,
			URL:     c.cfg.LoginURL,
			Details: withSummary("", body),
		}
	}
}

// get performs a GET request and returns the decoded body.
func (c *Client) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", newTransportError(StageSend, rawURL, err)
	}

	return c.doRequest(req)
}

// post performs a form POST and returns the decoded body.
func (c *Client) post(ctx context.Context, rawURL string, f form) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(f.Encode()))
	if err != nil {
		return "", newTransportError(StageSend, rawURL, err)
	}
	req.Header.Set("Content-Type", contentTypeForm)

	return c.doRequest(req)
}

// doRequest sends req once and reads the whole body as text. The status code is
// not interpreted; the portal's pages are classified by content only.
func (c *Client) doRequest(req *http.Request) (string, error) {
	rawURL := req.URL.String()
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newTransportError(StageSend, rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Msg("Portal request completed")

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", newTransportError(StageRead, rawURL, err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", newTransportError(StageRead, rawURL, err)
	}

	return string(data), nil
}

func requireIPv4(addr netip.Addr) error {
	if !addr.Is4() {
		return newParseError("", fmt.Sprintf("invalid target address %q: not an IPv4 address", addr.String()), nil)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid portal url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid portal url %q: must be an absolute http or https url", raw)
	}
	return nil
}

func withSummary(details, body string) string {
	summary := Summarize(body)
	switch {
	case summary == "":
		return details
	case details == "":
		return fmt.Sprintf("page %q", summary)
	default:
		return fmt.Sprintf("%s, page %q", details, summary)
	}
}
