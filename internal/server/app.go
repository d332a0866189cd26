// Package server wires configuration, logging, the user store, token
// handling and the HTTP surface into a runnable application.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *httpapi.HTTPServer
}

// NewApp builds every component from c. Any misconfiguration is reported as
// common.ErrConfiguration before a listener is opened.
func NewApp(ctx context.Context, c *config.Config, logOutput io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(logOutput, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}

	tokenConfig := auth.TokenConfig{
		Secret:   []byte(c.JWTSecret),
		Issuer:   c.JWTIssuer,
		Audience: c.JWTAudience,
		TTL:      c.AccessTokenTTL,
	}
	issuer, err := auth.NewTokenIssuer(tokenConfig)
	if err != nil {
		return nil, err
	}
	verifier, err := auth.NewTokenVerifier(tokenConfig)
	if err != nil {
		return nil, err
	}

	hasher, err := cryptox.NewBcryptHasher(c.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}

	repos, err := repomanager.New(ctx, repomanager.Options{
		Kind:        c.StoreKind,
		DatabaseDSN: c.DatabaseDSN,
		Redis: repomanager.RedisOptions{
			Addr:     c.RedisAddr,
			Username: c.RedisUsername,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
		},
	}, hasher)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	us := services.NewUserService(repos.Users(), issuer, services.UserServiceOptions{
		StoreTimeout: c.StoreTimeout,
		DefaultRoles: c.DefaultRoles,
	}, logger)

	if c.GinMode != "" {
		gin.SetMode(c.GinMode)
	}

	srv := httpapi.NewHTTPServer(httpapi.Options{
		Address:         c.HTTPAddress,
		CORSOrigins:     c.CORSOrigins,
		ShutdownTimeout: c.ShutdownTimeout,
	}, logger, us, verifier)

	return &App{config: c, logger: logger, repos: repos, server: srv}, nil
}

// Run serves until ctx is cancelled or the process receives SIGINT/SIGTERM.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreKind)

	err := app.server.Run(ctx)

	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "store close error", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
