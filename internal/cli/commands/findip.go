package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fzdarsky/hirn-login/internal/cli/output"
)

// findIPResult is the result of the find-ip command.
type findIPResult struct {
	Inside bool   `json:"inside" yaml:"inside"`
	IP     string `json:"ip,omitempty" yaml:"ip,omitempty"`
}

// Text implements output.Texter.
func (r findIPResult) Text() string {
	if !r.Inside {
		return "You're not inside the HIRN!"
	}
	return "Local ip: " + r.IP
}

func newFindIPCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "find-ip",
		Short: "Show the address the portal registered for this machine",
		Long: `Query the Lock-And-Key status page for the address of this machine.

Being outside HIRN is not an error: the command reports it and exits with 0.`,
		Example: `  # Print the local address
  hirn-login find-ip

  # Machine-readable output
  hirn-login find-ip --output json`,
		Args: noArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if _, err := output.ParseFormat(format); err != nil {
				return newUsageError("%v", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, found, err := a.client.DetermineLocalIP(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to determine local ip: %w", err)
			}

			result := findIPResult{Inside: found}
			if found {
				result.IP = addr.String()
			}

			f, _ := output.ParseFormat(format)
			text, err := output.FormatData(result, f)
			if err != nil {
				return err
			}
			a.println("%s", text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", string(output.FormatText), "Output format: text, yaml or json")

	return cmd
}
