package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"clipscribe/internal/api/errors"
	"clipscribe/internal/api/middleware"
	"clipscribe/internal/api/v1/dto"
	"clipscribe/internal/api/v1/services"
	"clipscribe/internal/app/model"
)

// TranscriptHandler serves transcript reads.
type TranscriptHandler struct {
	svc *services.TranscriptService
}

// NewTranscriptHandler creates a TranscriptHandler.
func NewTranscriptHandler(svc *services.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{svc: svc}
}

// Get returns one transcript with its full text.
func (h *TranscriptHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleError(c, errors.NewValidationError("Invalid transcript ID"))
		return
	}

	t, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"transcript": dto.NewTranscriptDetail(t),
	})
}

// History returns the user's newest transcripts without their text.
func (h *TranscriptHandler) History(c *gin.Context) {
	user := middleware.CurrentUser(c)

	transcripts, err := h.svc.History(c.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	items := lo.Map(transcripts, func(t model.Transcript, _ int) dto.HistoryItem {
		return dto.NewHistoryItem(&t)
	})

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"transcripts": items,
	})
}
