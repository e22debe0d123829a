package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCommand(a *app) *cobra.Command {
	var ip ipv4Value

	cmd := &cobra.Command{
		Use:   "logout [--ip ADDR]",
		Short: "Close network access for an address",
		Long: `Log out of the Lock-And-Key portal and close network access for an address.

Without --ip the address is discovered from the status page; outside HIRN the
command prints a notice and exits with 0.`,
		Example: `  # Log out this machine
  hirn-login logout

  # Log out another address
  hirn-login logout --ip 134.147.0.10`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, ok, err := resolveTarget(cmd.Context(), a.client, ip)
			if err != nil {
				return err
			}
			if !ok {
				a.println(notInsideMessage)
				return nil
			}

			if err := a.client.Logout(cmd.Context(), addr); err != nil {
				return fmt.Errorf("failed to log out: %w", err)
			}

			a.println("Logged out %s.", addr)
			return nil
		},
	}

	cmd.Flags().Var(&ip, "ip", "IPv4 address to log out (default: discovered from the portal)")

	return cmd
}
