// Package main provides the hirn-login CLI tool.
//
// hirn-login signs a machine in to the Ruhr-Universität Bochum campus network
// (HIRN) through the Lock-And-Key portal, signs it out again, and reports the
// address the portal registered for it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fzdarsky/hirn-login/internal/cli/commands"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := commands.Execute(ctx, os.Args[1:], commands.Options{
		Version: version,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})

	stop()
	os.Exit(code)
}
