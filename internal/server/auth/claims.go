// Package auth issues and verifies the HS256 access tokens handed out at login.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim names carried by an access token besides the registered ones.
const (
	ClaimEmail    = "email"
	ClaimSubject  = "sub"
	ClaimUsername = "username"
	ClaimRoles    = "roles"
)

// Claim is a single (name, value) pair of an identity.
type Claim struct {
	Name  string
	Value string
}

// ClaimSet is the ordered identity carried by a token: email, sub and
// username, followed by one roles entry per role.
type ClaimSet []Claim

// Claims is the JWT payload. Roles accepts a single string as well as an
// array when decoding.
type Claims struct {
	jwt.RegisteredClaims
	Email    string           `json:"email"`
	Username string           `json:"username"`
	Roles    jwt.ClaimStrings `json:"roles,omitempty"`
}

// ClaimSet flattens the identity part of c.
func (c *Claims) ClaimSet() ClaimSet {
	set := make(ClaimSet, 0, 3+len(c.Roles))
	set = append(set,
		Claim{Name: ClaimEmail, Value: c.Email},
		Claim{Name: ClaimSubject, Value: c.Subject},
		Claim{Name: ClaimUsername, Value: c.Username},
	)
	for _, r := range c.Roles {
		set = append(set, Claim{Name: ClaimRoles, Value: r})
	}
	return set
}

// Values returns every value recorded under name, in order.
func (s ClaimSet) Values(name string) []string {
	var out []string
	for _, c := range s {
		if c.Name == name {
			out = append(out, c.Value)
		}
	}
	return out
}

// ExpiresAtTime returns the expiry recorded in c, or the zero time.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
