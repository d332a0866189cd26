package auth

import (
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier checks tokens produced by a TokenIssuer sharing its config.
type TokenVerifier struct {
	cfg    TokenConfig
	parser *jwt.Parser
}

func NewTokenVerifier(cfg TokenConfig, opts ...Option) (*TokenVerifier, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(o.now),
	)

	return &TokenVerifier{cfg: cfg.clone(), parser: parser}, nil
}

// Verify checks the signature first and the registered claims second. It
// returns common.ErrInvalidSignature, common.ErrTokenExpired or
// common.ErrTokenMalformed on failure.
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := v.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.cfg.Secret, nil
	})
	if err != nil {
		return nil, mapTokenError(err)
	}

	return claims, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return common.ErrTokenMalformed
	}
}

