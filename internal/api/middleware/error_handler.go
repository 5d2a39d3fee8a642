package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clipscribe/internal/api/errors"
)

// ErrorHandler recovers panics and converts them into the uniform JSON error
// envelope. Raw panic values never reach the client.
func ErrorHandler(logger *zap.SugaredLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString("request_id")

		var apiErr *errors.APIError

		switch err := recovered.(type) {
		case *errors.APIError:
			apiErr = err
		case error:
			logger.Errorw("Internal server error",
				"error", err.Error(),
				"request_id", requestID,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			apiErr = errors.NewInternalError("Internal server error")
		default:
			logger.Errorw("Unknown panic occurred",
				"recovered", recovered,
				"request_id", requestID,
			)
			apiErr = errors.NewInternalError("Internal server error")
		}

		c.AbortWithStatusJSON(apiErr.HTTPStatus(), gin.H{
			"success": false,
			"error":   apiErr.Message,
		})
	})
}

// HandleError writes the error envelope for an APIError and panics on
// anything else so the recovery middleware can log it.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	if apiErr, ok := err.(*errors.APIError); ok {
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), gin.H{
			"success": false,
			"error":   apiErr.Message,
		})
		return
	}

	panic(err)
}
