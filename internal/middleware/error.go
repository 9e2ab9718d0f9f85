package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/alchemorsel-recipes/backend/internal/apperrors"
	"go.uber.org/zap"
)

// ErrorHandler recovers panics and renders errors attached with c.Error as a
// JSON error body when the handler has not written a response.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Recovered from panic",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				appErr := apperrors.NewInternalError("")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.ToErrorResponse(appErr))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := apperrors.Wrap(c.Errors.Last().Err, "")
		if appErr.Code == apperrors.CodeInternal || appErr.Code == apperrors.CodeDatabaseError {
			logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(appErr))
		}
		c.JSON(appErr.StatusCode(), apperrors.ToErrorResponse(appErr))
	}
}
