package command

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

const minPasswordLength = 8

var ErrPasswordMismatch = errors.New("passwords do not match")

// PromptPassword reads a password from the terminal without echoing it.
//
//nolint:forbidigo // password input requires direct terminal I/O
func PromptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password from terminal")
	}

	return string(password), nil
}

// PromptNewPassword asks for a new vault password twice.
func PromptNewPassword() (string, error) {
	password, err := PromptPassword(fmt.Sprintf("Enter vault password (min %d characters): ", minPasswordLength))
	if err != nil {
		return "", err
	}

	if len(password) < minPasswordLength {
		return "", errors.Errorf("password must be at least %d characters", minPasswordLength)
	}

	confirm, err := PromptPassword("Confirm password: ")
	if err != nil {
		return "", err
	}

	if password != confirm {
		return "", ErrPasswordMismatch
	}

	return password, nil
}
