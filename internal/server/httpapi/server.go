// Package httpapi exposes the login, registration and identity endpoints
// over HTTP using gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Login(ctx context.Context, req services.LoginRequest) (*services.TokenResponse, error)
	Register(ctx context.Context, req services.RegisterRequest) error
}

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Options configures an HTTPServer.
type Options struct {
	Address         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type HTTPServer struct {
	opts     Options
	users    UserService
	verifier TokenVerifier
	logger   logging.Logger
	router   *gin.Engine
}

func NewHTTPServer(opts Options, l logging.Logger, us UserService, v TokenVerifier) *HTTPServer {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &HTTPServer{
		opts:     opts,
		users:    us,
		verifier: v,
		logger:   l.With("module", "http_server"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.requestLogger())

	if c, ok := corsConfig(s.opts.CORSOrigins); ok {
		r.Use(cors.New(c))
	}

	r.GET("/ping", s.Ping)

	api := r.Group("/api/users")
	{
		api.POST("/login", s.Login)
		api.POST("/register", s.Register)
		api.GET("/me", s.requireToken(), s.Me)
	}

	return r
}

// corsConfig returns false when no origins are configured.
func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}

	c := cors.DefaultConfig()
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}

	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
