package api

import (
	"errors"
	"net/http"

	"plateplanner/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	creds, err := s.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		default:
			s.log.Error("register failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "registration temporarily unavailable"})
		}
		return
	}

	c.JSON(http.StatusOK, creds)
}

// handleProfile returns the authenticated user's account details. The
// path ID must name the caller; profiles are not visible across accounts.
func (s *Server) handleProfile(c *gin.Context) {
	userID := c.GetString(userIDKey)
	if c.Param("id") != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot view another user's profile"})
		return
	}

	user, err := s.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		s.log.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profile temporarily unavailable"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":    user.ID,
		"username":  user.Username,
		"createdAt": user.CreatedAt,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	creds, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		s.log.Error("login failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "login temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, creds)
}
