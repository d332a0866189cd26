package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, an email and a password and creates the
// account. The password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.client.Register(ctx, userName, email, password); err != nil {
		a.reportError("Registration failed", err)
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and keeps the issued token in memory.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	tok, err := a.client.Login(ctx, userName, password)
	if err != nil {
		a.reportError("Login unsuccessful", err)
		return err
	}

	a.token = tok.Token
	a.userName = userName
	fmt.Fprintf(a.out, "Login successful, token valid until %s\n", tok.Expiration)
	return nil
}

// WhoAmI shows the identity the server reads from the current token.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return client.ErrUnauthorized
	}

	id, err := a.client.Me(ctx, a.token)
	if err != nil {
		a.reportError("Token rejected", err)
		if errors.Is(err, client.ErrUnauthorized) {
			a.token, a.userName = "", ""
		}
		return err
	}

	fmt.Fprintf(a.out, "id:       %s\nusername: %s\nemail:    %s\nroles:    %v\nexpires:  %s\n",
		id.ID, id.Username, id.Email, id.Roles, id.ExpiresAt)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.token, a.userName = "", ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) reportError(prefix string, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		fmt.Fprintf(a.out, "%s: %s\n", prefix, apiErr.Message)
		return
	}
	fmt.Fprintf(a.out, "%s: %v\n", prefix, err)
}
