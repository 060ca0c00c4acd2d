package middleware

import (
	"log/slog"
	"net/http"

	"payment-reconciler/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

var (
	errRouteNotFound    = httperr.Sentinel("route not found")
	errMethodNotAllowed = httperr.Sentinel("method not allowed")
)

// ErrorHandler renders the last public error of a handler that aborted without
// writing a body. Anything unrecognised becomes a retryable 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		for i := len(c.Errors) - 1; i >= 0; i-- {
			if resp, ok := c.Errors[i].Meta.(httperr.Response); ok && c.Errors[i].IsType(gin.ErrorTypePublic) {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}

		resp := httperr.Response{Status: http.StatusInternalServerError, Retryable: true}
		resp.Error.Message = "Internal server error"
		c.JSON(resp.Status, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("recovered from panic",
					"panic", rec,
					"request_id", GetRequestID(c),
					"path", c.Request.URL.Path)

				httperr.AbortRetryable(c, http.StatusInternalServerError, nil, "Internal server error")
			}
		}()
		c.Next()
	}
}

func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		httperr.AbortWithError(c, http.StatusNotFound, errRouteNotFound, "Route not found", nil)
	}
}

func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		httperr.AbortWithError(c, http.StatusMethodNotAllowed, errMethodNotAllowed, "Method not allowed", nil)
	}
}
