package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// MinSecretLength is the shortest accepted HMAC key, in bytes.
const MinSecretLength = 32

// TokenConfig holds the signing parameters shared by the issuer and the
// verifier. It is copied at construction and never changed afterwards.
type TokenConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

func (c TokenConfig) validate() error {
	switch {
	case len(c.Secret) < MinSecretLength:
		return fmt.Errorf("%w: signing secret must be at least %d bytes", common.ErrConfiguration, MinSecretLength)
	case c.Issuer == "":
		return fmt.Errorf("%w: token issuer is required", common.ErrConfiguration)
	case c.Audience == "":
		return fmt.Errorf("%w: token audience is required", common.ErrConfiguration)
	case c.TTL < time.Second || c.TTL%time.Second != 0:
		return fmt.Errorf("%w: token ttl must be a whole number of seconds, got %s", common.ErrConfiguration, c.TTL)
	}
	return nil
}

func (c TokenConfig) clone() TokenConfig {
	c.Secret = append([]byte(nil), c.Secret...)
	return c
}

type options struct {
	now func() time.Time
}

// Option customizes a TokenIssuer or TokenVerifier.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
