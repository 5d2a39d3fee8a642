package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clipscribe/internal/api/errors"
	"clipscribe/internal/api/middleware"
	"clipscribe/internal/api/v1/dto"
	"clipscribe/internal/api/v1/services"
)

// SendHandler serves transcript delivery.
type SendHandler struct {
	delivery *services.DeliveryService
}

// NewSendHandler creates a SendHandler.
func NewSendHandler(delivery *services.DeliveryService) *SendHandler {
	return &SendHandler{delivery: delivery}
}

// Send delivers a transcript to the signed-in user's own profile contacts.
func (h *SendHandler) Send(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleError(c, errors.NewValidationError("Invalid transcript ID"))
		return
	}

	var req dto.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("Invalid request body"))
		return
	}
	channel, err := req.Channel()
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	message, err := h.delivery.SendToProfile(c.Request.Context(), user, id, channel)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// SendDirect delivers a transcript to an explicit recipient.
func (h *SendHandler) SendDirect(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req dto.SendDirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("Invalid request body"))
		return
	}
	channel, err := req.Validate()
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	message, err := h.delivery.SendDirect(c.Request.Context(), user, req.TranscriptID, channel, req.Recipient)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
