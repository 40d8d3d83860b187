package cli

import (
	"context"
	"os"
)

// getPassword is an indirection used to facilitate testing.
var getPassword = GetPassword

// Register prompts for an email and password and creates a new account.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.apiClient.Register(ctx, email, string(password)); err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	a.loggedIn = true
	printlnFn("Success!")
	return nil
}

// Login prompts for credentials and authenticates against the server.
// The local collection stays usable either way; logging in only enables
// sync and backup.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.apiClient.Login(ctx, email, string(password)); err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.loggedIn = true
	printlnFn("Logged in")
	return nil
}
