package main

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"
)

// readPassword is swapped out in tests.
var readPassword = promptPassword

func promptPassword(prompt string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr) // best-effort newline

	if err != nil {
		zeroBytes(pw)
		return nil, fmt.Errorf("password input failed: %w", err)
	}
	if len(pw) == 0 {
		return nil, fmt.Errorf("password cannot be empty")
	}
	return pw, nil
}

// promptNewPassword asks twice and requires both entries to match.
func promptNewPassword() ([]byte, error) {
	pw, err := readPassword("New password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := readPassword("Repeat password: ")
	if err != nil {
		zeroBytes(pw)
		return nil, err
	}
	defer zeroBytes(confirm)

	if !bytes.Equal(pw, confirm) {
		zeroBytes(pw)
		return nil, fmt.Errorf("passwords do not match")
	}
	return pw, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
