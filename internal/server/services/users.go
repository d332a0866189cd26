// Package services contains server-side business logic. UserService runs
// the login and registration flows on top of a user store and a token issuer.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/google/uuid"
)

// LoginRequest carries the credentials presented at login. It is never
// stored or logged.
type LoginRequest struct {
	Username string
	Password string
}

// RegisterRequest carries the data of a new account. It is never stored or
// logged as is.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// TokenResponse is the result of a successful login. Expiration is RFC 3339 UTC.
type TokenResponse struct {
	Token      string
	Expiration string
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(user *models.User, roles []string) (string, time.Time, error)
}

// UserServiceOptions tunes UserService.
//   - StoreTimeout bounds every call into the store; zero disables the bound.
//   - DefaultRoles are assigned to every registered user.
type UserServiceOptions struct {
	StoreTimeout time.Duration
	DefaultRoles []string
}

type UserService struct {
	users        users.Repository
	issuer       TokenIssuer
	storeTimeout time.Duration
	defaultRoles []string
	logger       logging.Logger
}

func NewUserService(repo users.Repository, issuer TokenIssuer, opts UserServiceOptions, logger logging.Logger) *UserService {
	return &UserService{
		users:        repo,
		issuer:       issuer,
		storeTimeout: opts.StoreTimeout,
		defaultRoles: append([]string(nil), opts.DefaultRoles...),
		logger:       logger.With("module", "userservice"),
	}
}

// Login checks the credentials and issues an access token. An unknown user
// and a wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, common.ErrorUnauthorized
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := s.users.VerifyPassword(ctx, user, req.Password)
	if err != nil {
		s.logger.Error(ctx, "password check failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	roles, err := s.users.GetRoles(ctx, user)
	if err != nil {
		s.logger.Error(ctx, "role lookup failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	token, expiresAt, err := s.issuer.Issue(user, roles)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)

	return &TokenResponse{
		Token:      token,
		Expiration: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// Register creates a user. It returns common.ErrorValidation for missing
// fields, common.ErrDuplicateEmail or common.ErrDuplicateUsername when the
// account collides with an existing one and common.ErrorInternal otherwise.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	switch {
	case username == "":
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	case email == "":
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	case strings.TrimSpace(req.Password) == "":
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.ensureAbsent(ctx, s.users.FindByEmail, email, common.ErrDuplicateEmail); err != nil {
		return err
	}
	if err := s.ensureAbsent(ctx, s.users.FindByUsername, username, common.ErrDuplicateUsername); err != nil {
		return err
	}

	user := &models.User{
		UserName:      username,
		Email:         email,
		SecurityStamp: uuid.NewString(),
		Roles:         append([]string(nil), s.defaultRoles...),
	}

	created, err := s.users.Create(ctx, user, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) || errors.Is(err, common.ErrDuplicateUsername) {
			return err
		}
		s.logger.Error(ctx, "user create failed", "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return nil
}

func (s *UserService) ensureAbsent(ctx context.Context, find func(context.Context, string) (*models.User, error), key string, dup error) error {
	_, err := find(ctx, key)
	switch {
	case err == nil:
		return dup
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return common.ErrorInternal
	}
}

func (s *UserService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}
