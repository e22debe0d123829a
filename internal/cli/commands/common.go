package commands

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fzdarsky/hirn-login/internal/cli/config"
	"github.com/fzdarsky/hirn-login/internal/portal"
)

// Process exit codes.
const (
	ExitOK                 = 0
	ExitError              = 1
	ExitUsage              = 2
	ExitAuthFailed         = 3
	ExitUnexpectedResponse = 4
	ExitParse              = 5
)

// notInsideMessage is printed when login or logout had to discover the address
// and the caller is outside HIRN.
const notInsideMessage = "Not inside HIRN."

// ExitCode maps an error returned by the command tree to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var ue *usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}

	if portal.IsAuthError(err) {
		return ExitAuthFailed
	}

	switch portal.KindOf(err) {
	case portal.KindUnexpectedResponse:
		return ExitUnexpectedResponse
	case portal.KindParse:
		return ExitParse
	default:
		return ExitError
	}
}

// usageError marks errors caused by invalid command-line input.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func newUsageError(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// noArgs is cobra.NoArgs reporting a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{msg: err.Error()}
	}
	return nil
}

// createClient creates a new portal client from the configuration.
func createClient(cfg *config.Config, opts ...portal.Option) (*portal.Client, error) {
	client, err := portal.NewClient(cfg.Portal(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal client: %w", err)
	}
	return client, nil
}

// resolveTarget resolves the --ip flag into an address, discovering it when the
// flag was not given. ok is false when the caller is outside HIRN.
func resolveTarget(ctx context.Context, client *portal.Client, ip ipv4Value) (netip.Addr, bool, error) {
	addr, ok, err := client.Resolve(ctx, portal.TargetFromFlag(ip.addr))
	if err != nil {
		return netip.Addr{}, false, fmt.Errorf("failed to determine local ip: %w", err)
	}
	return addr, ok, nil
}

// ipv4Value is a pflag.Value holding an optional IPv4 address.
type ipv4Value struct {
	addr netip.Addr
}

var _ pflag.Value = (*ipv4Value)(nil)

func (v *ipv4Value) String() string {
	if !v.addr.IsValid() {
		return ""
	}
	return v.addr.String()
}

func (v *ipv4Value) Set(s string) error {
	addr, err := portal.ParseIPv4(s)
	if err != nil {
		return err
	}
	v.addr = addr
	return nil
}

func (v *ipv4Value) Type() string {
	return "ipv4"
}
