package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenIssuer fails with common.ErrConfiguration when cfg cannot produce
// safe tokens.
func NewTokenIssuer(cfg TokenConfig, opts ...Option) (*TokenIssuer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &TokenIssuer{cfg: cfg.clone(), now: o.now}, nil
}

// TTL is the lifetime of every issued token.
func (i *TokenIssuer) TTL() time.Duration {
	return i.cfg.TTL
}

// Issue returns a signed token for user carrying roles, and its expiry.
func (i *TokenIssuer) Issue(user *models.User, roles []string) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, fmt.Errorf("%w: user is required", common.ErrorValidation)
	}

	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.cfg.TTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:    user.Email,
		Username: user.UserName,
	}
	if len(roles) > 0 {
		claims.Roles = append(jwt.ClaimStrings(nil), roles...)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(i.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}
