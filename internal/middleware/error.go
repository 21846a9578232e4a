package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/apperror"
)

// ErrorBody is the payload of every error reply
type ErrorBody struct {
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// WriteError renders err as a JSON error reply and aborts the chain
func WriteError(c *gin.Context, err error) {
	appErr := apperror.FromError(err)
	c.AbortWithStatusJSON(appErr.StatusCode(), ErrorResponse{
		Error: ErrorBody{Code: appErr.Code, Message: appErr.Message},
	})
}

// ErrorHandler logs server-side failures attached with c.Error and renders
// the last one when the handler did not write a response itself
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperror.FromError(err)
		if appErr.StatusCode() >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("path", c.FullPath()),
				zap.String("code", string(appErr.Code)),
				zap.Error(err),
			)
		}
		if !c.Writer.Written() {
			WriteError(c, appErr)
		}
	}
}

// Recovery turns panics into a 500 error reply
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("panic recovered",
					zap.Any("error", recovered),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
				WriteError(c, apperror.Internal("internal server error", nil))
			}
		}()

		c.Next()
	}
}

// NotFound renders unmatched routes in the common error shape
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		WriteError(c, apperror.NotFound("route not found"))
	}
}
