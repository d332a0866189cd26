package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

const loginFailedMessage = "Login failed"

func (s *HTTPServer) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *HTTPServer) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validationMessage(err)})
		return
	}

	resp, err := s.users.Login(c.Request.Context(), services.LoginRequest{Username: req.Username, Password: req.Password})
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"Message": loginFailedMessage})
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: resp.Token, Expiration: resp.Expiration})
}

func (s *HTTPServer) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validationMessage(err)})
		return
	}

	err := s.users.Register(c.Request.Context(), services.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case err == nil:
		s.logger.Info(c.Request.Context(), "Registered", "username", req.Username)
		c.Status(http.StatusNoContent)
	case errors.Is(err, common.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"message": fmt.Sprintf("%s is a duplicate Email", req.Email)})
	case errors.Is(err, common.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, gin.H{"message": fmt.Sprintf("%s is a duplicate Username", req.Username)})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid registration request"})
	default:
		s.logger.Error(c.Request.Context(), "registration failed", "error", err)
		c.Status(http.StatusInternalServerError)
	}
}

// Me echoes the identity carried by the verified bearer token.
func (s *HTTPServer) Me(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	set := claims.ClaimSet()
	roles := set.Values(auth.ClaimRoles)
	if roles == nil {
		roles = []string{}
	}

	c.JSON(http.StatusOK, meResponse{
		ID:        claims.Subject,
		Username:  claims.Username,
		Email:     claims.Email,
		Roles:     roles,
		ExpiresAt: claims.ExpiresAtTime().UTC().Format(time.RFC3339),
	})
}
