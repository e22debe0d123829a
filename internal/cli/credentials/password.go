// Package credentials loads the Lock-And-Key password for the login command.
package credentials

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// StdinPath selects standard input instead of a password file.
const StdinPath = "-"

// ErrEmptyPassword is returned when the password source holds no password.
var ErrEmptyPassword = errors.New("password is empty")

// ReadPassword returns the password stored at path. For StdinPath it reads from
// stdin: a terminal is prompted without echo, anything else is read to EOF.
// A single trailing line break is removed; all other bytes are kept.
func ReadPassword(path string, stdin io.Reader, prompt io.Writer) (string, error) {
	var (
		data []byte
		err  error
	)

	if path == StdinPath {
		data, err = readStdin(stdin, prompt)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 - path is the user's password file
	}
	if err != nil {
		return "", err
	}

	password := trimLineBreak(string(data))
	if password == "" {
		return "", ErrEmptyPassword
	}

	return password, nil
}

func readStdin(stdin io.Reader, prompt io.Writer) ([]byte, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		return password, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return data, nil
}

func trimLineBreak(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
