// Package routes wires the HTTP endpoints to their handlers.
package routes

import (
	"github.com/gin-gonic/gin"

	"clipscribe/internal/api/middleware"
	"clipscribe/internal/api/v1/handlers"
	"clipscribe/internal/app/repository"
)

// Handlers bundles every route handler for registration.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Transcribe *handlers.TranscribeHandler
	Transcript *handlers.TranscriptHandler
	Send       *handlers.SendHandler
}

// Register mounts all application routes. Session-protected endpoints go
// through RequireUser; /me stays public and reports the session state itself.
func Register(router *gin.Engine, h *Handlers, users repository.UserRepository) {
	router.POST("/register", h.Auth.Register)
	router.POST("/login", h.Auth.Login)
	router.GET("/me", h.Auth.Me)

	authed := router.Group("", middleware.RequireUser(users))
	authed.POST("/logout", h.Auth.Logout)
	authed.POST("/profile", h.Auth.UpdateProfile)
	authed.POST("/transcribe", h.Transcribe.Transcribe)
	authed.GET("/transcript/:id", h.Transcript.Get)
	authed.GET("/history", h.Transcript.History)
	authed.POST("/send/:id", h.Send.Send)
	authed.POST("/send-direct", h.Send.SendDirect)
}
