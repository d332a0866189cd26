package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	registerErr error
	loginErr    error
	meErr       error
	pingErr     error

	gotUser     string
	gotEmail    string
	gotPassword string
	gotToken    string
}

func (f *fakeClient) Register(_ context.Context, username, email string, password []byte) error {
	f.gotUser, f.gotEmail, f.gotPassword = username, email, string(password)
	return f.registerErr
}

func (f *fakeClient) Login(_ context.Context, username string, password []byte) (*client.Token, error) {
	f.gotUser, f.gotPassword = username, string(password)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.Token{Token: "tok", Expiration: "2025-01-01T03:00:00Z"}, nil
}

func (f *fakeClient) Me(_ context.Context, token string) (*client.Identity, error) {
	f.gotToken = token
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &client.Identity{ID: "1", Username: "alice", Email: "a@x.io", Roles: []string{"admin"}}, nil
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func newTestApp(t *testing.T, fc *fakeClient, input string) (*App, *bytes.Buffer) {
	t.Helper()
	stubReadPassword(t, "Secret#1", nil)
	var out bytes.Buffer
	return newApp(&config.Config{}, fc, strings.NewReader(input), &out), &out
}

func TestRegister(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(t, fc, "bob\nb@x.io\n")

	require.NoError(t, app.Register(context.Background()))
	assert.Equal(t, "bob", fc.gotUser)
	assert.Equal(t, "b@x.io", fc.gotEmail)
	assert.Equal(t, "Secret#1", fc.gotPassword)
	assert.Contains(t, out.String(), "Success!")
}

func TestRegister_Conflict(t *testing.T) {
	fc := &fakeClient{registerErr: &client.APIError{Status: 409, Message: "bob is a duplicate Username"}}
	app, out := newTestApp(t, fc, "bob\nb@x.io\n")

	err := app.Register(context.Background())
	assert.ErrorIs(t, err, client.ErrConflict)
	assert.Contains(t, out.String(), "Registration failed: bob is a duplicate Username")
}

func TestLoginWhoAmILogout(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(t, fc, "alice\n")
	ctx := context.Background()

	require.NoError(t, app.Login(ctx))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "(alice)", app.status())

	require.NoError(t, app.WhoAmI(ctx))
	assert.Equal(t, "tok", fc.gotToken)
	assert.Contains(t, out.String(), "roles:    [admin]")

	require.NoError(t, app.Logout(ctx))
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "", app.status())
}

func TestLogin_Failed(t *testing.T) {
	fc := &fakeClient{loginErr: &client.APIError{Status: 401, Message: "Login failed"}}
	app, out := newTestApp(t, fc, "alice\n")

	err := app.Login(context.Background())
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Login unsuccessful: Login failed")
}

func TestLogin_PasswordError(t *testing.T) {
	fc := &fakeClient{}
	app, _ := newTestApp(t, fc, "alice\n")
	stubReadPassword(t, "", errors.New("no tty"))

	assert.Error(t, app.Login(context.Background()))
	assert.Empty(t, fc.gotUser)
}

func TestWhoAmI_ExpiredTokenLogsOut(t *testing.T) {
	fc := &fakeClient{meErr: &client.APIError{Status: 401, Message: "token expired"}}
	app, out := newTestApp(t, fc, "alice\n")
	ctx := context.Background()

	require.NoError(t, app.Login(ctx))
	assert.Error(t, app.WhoAmI(ctx))
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Token rejected: token expired")
}

func TestWhoAmI_NotLoggedIn(t *testing.T) {
	app, out := newTestApp(t, &fakeClient{}, "")
	assert.ErrorIs(t, app.WhoAmI(context.Background()), client.ErrUnauthorized)
	assert.Contains(t, out.String(), "Not logged in")
}
