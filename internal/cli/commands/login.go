package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fzdarsky/hirn-login/internal/cli/credentials"
	"github.com/fzdarsky/hirn-login/internal/portal"
)

func newLoginCommand(a *app) *cobra.Command {
	var ip ipv4Value

	cmd := &cobra.Command{
		Use:   "login [--ip ADDR] [USERNAME PASSWORD_FILE]",
		Short: "Open network access for an address",
		Long: `Log in to the Lock-And-Key portal and open network access for an address.

USERNAME and PASSWORD_FILE are either both given or both taken from the
configuration (username, password_file). PASSWORD_FILE "-" reads the password
from stdin, prompting when stdin is a terminal.

Without --ip the address is discovered from the status page; outside HIRN the
command prints a notice and exits with 0.`,
		Example: `  # Log in this machine
  hirn-login login alice ~/.config/hirn-login/password

  # Log in another address, password from a prompt
  hirn-login login --ip 134.147.0.10 alice -`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return newUsageError("login takes USERNAME and PASSWORD_FILE, or no arguments, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			username, passwordFile := a.cfg.Username, a.cfg.PasswordFile
			if len(args) == 2 {
				username, passwordFile = args[0], args[1]
			}
			if username == "" || passwordFile == "" {
				return newUsageError("USERNAME and PASSWORD_FILE are required as arguments or in the configuration")
			}

			password, err := credentials.ReadPassword(passwordFile, a.opts.Stdin, a.opts.Stderr)
			if err != nil {
				return fmt.Errorf("failed to read password file: %w", err)
			}

			addr, ok, err := resolveTarget(cmd.Context(), a.client, ip)
			if err != nil {
				return err
			}
			if !ok {
				a.println(notInsideMessage)
				return nil
			}

			creds := portal.Credentials{Username: username, Password: password}
			if err := a.client.Login(cmd.Context(), creds, addr); err != nil {
				return fmt.Errorf("failed to log in: %w", err)
			}

			a.println("Logged in %s (%s).", username, addr)
			return nil
		},
	}

	cmd.Flags().Var(&ip, "ip", "IPv4 address to authenticate (default: discovered from the portal)")

	return cmd
}
