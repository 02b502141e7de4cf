package middleware

import (
	"github.com/gin-gonic/gin"

	"stockcard/internal/core/apperror"
	"stockcard/internal/infrastructure/http/v1/dto"
	"stockcard/pkg/logger"
)

// ErrorHandler writes the last gin error as a dto.ErrorResponse. Internal
// causes are logged, never sent.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.GetHTTPStatus(err)

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"status", status,
					"cause", appErr.Err,
				)
			}
			c.JSON(status, dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
			return
		}

		logger.Error(c.Request.Context(), "unhandled error", "error", err)
		c.JSON(status, dto.ErrorResponse{
			Code:    apperror.CodeInternal,
			Message: "Internal server error",
			Details: map[string]any{"request_id": c.GetString(ctxRequestID)},
		})
	}
}
