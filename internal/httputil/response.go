// Package httputil holds response helpers shared by handlers and middleware.
package httputil

import "github.com/gin-gonic/gin"

// ErrorBody is the JSON envelope every error response uses.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondError writes the error envelope and aborts the request. The request
// id set by the RequestID middleware is echoed when present.
func RespondError(c *gin.Context, status int, code, message string) {
	body := ErrorBody{Code: code, Message: message}

	if rid, exists := c.Get("request_id"); exists {
		if s, ok := rid.(string); ok {
			body.RequestID = s
		}
	}

	c.AbortWithStatusJSON(status, body)
}
