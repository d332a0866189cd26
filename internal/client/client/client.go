package client

import "context"

// Token is the result of a successful login.
type Token struct {
	Token      string `json:"Token"`
	Expiration string `json:"Expiration"`
}

// Identity is what the server knows about the bearer of a token.
type Identity struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	ExpiresAt string   `json:"expiresAt"`
}

type Client interface {
	Register(ctx context.Context, username, email string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (*Token, error)
	Me(ctx context.Context, token string) (*Identity, error)
	Ping(ctx context.Context) error
}
