package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"taskboard/internal/config"
)

// errPasswordRequired is returned when no password source is available.
var errPasswordRequired = fmt.Errorf("password required (use --password or %s)", config.EnvPassword)

// promptPassword reads a password from the terminal without echo. It is a
// variable so tests can replace the terminal.
var promptPassword = func(errOut io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errPasswordRequired
	}
	fmt.Fprint(errOut, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

// resolvePassword picks the password from the flag, the environment or an
// interactive prompt, in that order.
func resolvePassword(flagValue string, errOut io.Writer) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(config.EnvPassword); v != "" {
		return v, nil
	}
	pw, err := promptPassword(errOut)
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", errors.New("password cannot be empty")
	}
	return pw, nil
}

// usernameArg returns the single username argument.
func usernameArg(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", errors.New("username required")
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected argument: %s", args[1])
	}
	return strings.TrimSpace(args[0]), nil
}
