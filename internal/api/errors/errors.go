package errors

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies API errors for status mapping and caller branching.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindNotFound        ErrorKind = "not_found"
	KindAcquisition     ErrorKind = "acquisition"
	KindNormalization   ErrorKind = "normalization"
	KindTranscription   ErrorKind = "transcription"
	KindEmptyTranscript ErrorKind = "empty_transcript"
	KindNotification    ErrorKind = "notification"
	KindInternal        ErrorKind = "internal"
)

// APIError is the single error type crossing component boundaries. Handlers
// convert it to the uniform {"success": false, "error": msg} envelope.
type APIError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to a response status. Acquisition and
// empty-transcript failures are caused by user input; normalization,
// transcription and notification failures are infrastructure problems.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindAcquisition, KindEmptyTranscript:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a bad-input error.
func NewValidationError(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message}
}

// NewUnauthorizedError creates an authentication error.
func NewUnauthorizedError(message string) *APIError {
	return &APIError{Kind: KindUnauthorized, Message: message}
}

// NewNotFoundError creates a not-found error. Ownership violations use this
// too, so callers cannot distinguish "missing" from "not yours".
func NewNotFoundError(resource string) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewAcquisitionError creates a media download error.
func NewAcquisitionError(message string) *APIError {
	return &APIError{Kind: KindAcquisition, Message: message}
}

// NewNormalizationError creates an audio transcoding error.
func NewNormalizationError(message string) *APIError {
	return &APIError{Kind: KindNormalization, Message: message}
}

// NewTranscriptionError creates a speech-to-text error.
func NewTranscriptionError(message string) *APIError {
	return &APIError{Kind: KindTranscription, Message: message}
}

// NewEmptyTranscriptError creates the explicit no-speech rejection.
func NewEmptyTranscriptError() *APIError {
	return &APIError{Kind: KindEmptyTranscript, Message: "No speech detected in the video."}
}

// NewNotificationError creates a delivery channel error.
func NewNotificationError(message string) *APIError {
	return &APIError{Kind: KindNotification, Message: message}
}

// NewInternalError creates an internal server error.
func NewInternalError(message string) *APIError {
	return &APIError{Kind: KindInternal, Message: message}
}

// AsAPIError normalizes any error into an APIError. Unknown errors are
// wrapped as internal so raw messages and stack traces never reach clients.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return &APIError{Kind: KindInternal, Message: "Internal server error"}
}
