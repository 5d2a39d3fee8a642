package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"clipscribe/internal/api/errors"
	"clipscribe/internal/api/middleware"
	"clipscribe/internal/api/v1/dto"
	"clipscribe/internal/api/v1/services"
	"clipscribe/internal/app/pipeline"
)

// allowedExtensions is the upload allow-list. The error message enumerates
// exactly this set.
var allowedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".mp4":  true,
	".mov":  true,
	".webm": true,
}

const invalidFileTypeMessage = "Invalid file type. Allowed: mp3, wav, m4a, mp4, mov, webm"

// TranscribeHandler serves the transcription endpoint for both URL and
// upload sources.
type TranscribeHandler struct {
	svc            *services.TranscriptService
	maxUploadBytes int64
}

// NewTranscribeHandler creates a TranscribeHandler. maxUploadBytes caps
// direct uploads the same way remote fetches are capped.
func NewTranscribeHandler(svc *services.TranscriptService, maxUploadBytes int64) *TranscribeHandler {
	return &TranscribeHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// Transcribe runs the full pipeline synchronously and returns the finished
// transcript.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	src, err := h.source(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	t, err := h.svc.Transcribe(c.Request.Context(), user.ID, src)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"transcript_id": t.ID,
		"transcript":    t.Text,
		"language":      t.Language,
		"line_count":    t.LineCount,
		"url":           t.SourceURL,
	})
}

// source resolves the request into a pipeline source: a multipart upload
// wins, otherwise the URL from a JSON or form body.
func (h *TranscribeHandler) source(c *gin.Context) (pipeline.Source, error) {
	file, header, err := c.Request.FormFile("file")
	if err == nil {
		name := sanitizeFilename(header.Filename)
		if name == "" {
			file.Close()
			return pipeline.Source{}, errors.NewValidationError("No file selected")
		}
		if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
			file.Close()
			return pipeline.Source{}, errors.NewValidationError(invalidFileTypeMessage)
		}
		if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
			file.Close()
			return pipeline.Source{}, errors.NewValidationError(
				fmt.Sprintf("File too large. Maximum size is %d MB", h.maxUploadBytes>>20))
		}
		return pipeline.Source{Upload: file, Filename: name}, nil
	}

	var url string
	if strings.Contains(c.ContentType(), "application/json") {
		var req dto.TranscribeURLRequest
		_ = c.ShouldBindJSON(&req)
		url = req.URL
	} else {
		url = c.PostForm("url")
	}

	url = strings.TrimSpace(url)
	if url == "" {
		return pipeline.Source{}, errors.NewValidationError("Please provide a video URL or upload a file")
	}
	return pipeline.Source{URL: url}, nil
}

// sanitizeFilename reduces an uploaded filename to a safe basename: path
// components dropped, spaces collapsed to underscores, everything outside
// [A-Za-z0-9._-] removed, leading dots stripped.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}
