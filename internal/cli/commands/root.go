// Package commands provides CLI command implementations for the hirn-login tool.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fzdarsky/hirn-login/internal/cli/config"
	"github.com/fzdarsky/hirn-login/internal/logging"
	"github.com/fzdarsky/hirn-login/internal/portal"
)

// Options wires the command tree to its environment.
type Options struct {
	Version string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// app holds the state shared by all subcommands of one invocation.
type app struct {
	opts   Options
	flags  config.Flags
	cfg    *config.Config
	logger zerolog.Logger
	client *portal.Client
}

// Execute runs the command tree with args and returns the process exit code.
// Errors are printed to stderr.
func Execute(ctx context.Context, args []string, opts Options) int {
	opts = withDefaults(opts)

	// cobra falls back to os.Args for nil args.
	if args == nil {
		args = []string{}
	}

	root := NewRootCommand(opts)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(opts.Stderr, "Run '%s --help' for usage.\n", root.Name())
		}
	}

	return ExitCode(err)
}

// NewRootCommand builds the hirn-login command tree.
func NewRootCommand(opts Options) *cobra.Command {
	opts = withDefaults(opts)
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "hirn-login",
		Short: "Log in to and out of the HIRN Lock-And-Key portal",
		Long: `hirn-login - sign in to the Ruhr-Universität Bochum campus network (HIRN)

hirn-login drives the Lock-And-Key access control portal: it finds the address
the portal registered for this machine, and opens or closes network access for
an address.`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return newUsageError("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return newUsageError("no command given")
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd == cmd.Root() {
				return nil
			}
			a.flags.TimeoutSet = cmd.Flags().Changed("timeout")
			return a.setup()
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true
	root.SetIn(opts.Stdin)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error, disabled (default warn)")
	flags.StringVar(&a.flags.LogFormat, "log-format", "", "Log format: human or json (default human)")
	flags.DurationVar(&a.flags.Timeout, "timeout", 0, "Timeout per portal request, e.g. 10s (default none)")

	root.AddCommand(
		newFindIPCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newVersionCommand(opts),
	)

	return root
}

// setup loads the configuration and creates the logger and the shared portal
// client.
func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.ApplyFlags(a.flags); err != nil {
		return newUsageError("%v", err)
	}

	if cfg.UserAgent == portal.DefaultUserAgent && a.opts.Version != "" {
		cfg.UserAgent = portal.DefaultUserAgent + "/" + a.opts.Version
	}

	a.cfg = cfg
	a.logger = logging.NewWithWriter(cfg.Level(), cfg.Format(), a.opts.Stderr)

	client, err := createClient(cfg, portal.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.client = client

	return nil
}

// println writes one line to stdout.
func (a *app) println(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, _ = io.WriteString(a.opts.Stdout, line)
}

func withDefaults(opts Options) Options {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return opts
}
