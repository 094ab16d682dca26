package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the request id back to the client.
const RequestIDHeader = "X-Request-ID"

// ErrorBody is the common error shape: a human message plus optional
// structured details from validation or the store.
type ErrorBody struct {
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// MessageBody is a bare {message} payload.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes body with status and tags the response with the request id.
func JSON(c *gin.Context, status int, body any) {
	if status == 0 {
		status = http.StatusOK
	}
	if id := c.GetString("request_id"); id != "" {
		c.Header(RequestIDHeader, id)
	}
	c.JSON(status, body)
}

// Error writes an ErrorBody.
func Error(c *gin.Context, status int, message string, errs any) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	JSON(c, status, ErrorBody{Message: message, Errors: errs})
}

// Message writes a MessageBody.
func Message(c *gin.Context, status int, message string) {
	JSON(c, status, MessageBody{Message: message})
}

// Abort writes body and stops the handler chain.
func Abort(c *gin.Context, status int, body any) {
	JSON(c, status, body)
	c.Abort()
}
