// Package handlers binds the HTTP surface to the service layer. Every
// response uses the success envelope; errors go through the shared error
// middleware.
package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"clipscribe/internal/api/errors"
	"clipscribe/internal/api/middleware"
	"clipscribe/internal/api/v1/dto"
	"clipscribe/internal/api/v1/services"
	"clipscribe/internal/app/repository"
)

// AuthHandler serves registration, login, session info and profile updates.
type AuthHandler struct {
	auth  *services.AuthService
	users repository.UserRepository
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *services.AuthService, users repository.UserRepository) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Register creates an account and signs the new user in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("Email and password are required"))
		return
	}
	if err := req.Validate(); err != nil {
		middleware.HandleError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := establishSession(c, user.ID); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.NewUserSummary(user),
	})
}

// Login authenticates and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("Email and password are required"))
		return
	}
	if err := req.Validate(); err != nil {
		middleware.HandleError(c, err)
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := establishSession(c, user.ID); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.NewUserResponse(user),
	})
}

// Logout clears the session. It succeeds even when nobody is signed in.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(middleware.SessionUserKey)
	if err := session.Save(); err != nil {
		middleware.HandleError(c, errors.NewInternalError("Failed to end session"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me reports the session state. Unlike the other endpoints it never returns
// 401; anonymous callers get {"authenticated": false}.
func (h *AuthHandler) Me(c *gin.Context) {
	session := sessions.Default(c)
	id, ok := session.Get(middleware.SessionUserKey).(int64)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          dto.NewUserResponse(user),
	})
}

// UpdateProfile updates the signed-in user's contact fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req dto.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("Invalid request body"))
		return
	}

	if err := h.auth.UpdateProfile(c.Request.Context(), user, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    dto.NewUserResponse(user),
	})
}

func establishSession(c *gin.Context, userID int64) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, userID)
	if err := session.Save(); err != nil {
		return errors.NewInternalError("Failed to establish session")
	}
	return nil
}
