package httperr

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Retryable bool `json:"retryable"`
	Detail    any  `json:"detail,omitempty"`
}

// Sentinel is a plain error for handler-local failures that have no use-case error.
func Sentinel(msg string) error {
	return errors.New(msg)
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, status, err, msg, false, detail)
}

// AbortRetryable tells the caller the same request may succeed later.
func AbortRetryable(c *gin.Context, status int, err error, msg string) {
	abort(c, status, err, msg, true, nil)
}

func abort(c *gin.Context, status int, err error, msg string, retryable bool, detail any) {
	if err == nil {
		err = errors.New(msg)
	}

	resp := Response{Status: status, Retryable: retryable}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
