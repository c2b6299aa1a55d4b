package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppError is an expected service-layer failure carrying the HTTP status
// it should surface with.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func BadRequest(message string) *AppError   { return NewAppError(http.StatusBadRequest, message) }
func Unauthorized(message string) *AppError { return NewAppError(http.StatusUnauthorized, message) }
func Forbidden(message string) *AppError    { return NewAppError(http.StatusForbidden, message) }
func NotFound(message string) *AppError     { return NewAppError(http.StatusNotFound, message) }
func Conflict(message string) *AppError     { return NewAppError(http.StatusConflict, message) }

// development controls whether error responses include the underlying
// error text. Set once at startup.
var development bool

func SetDevelopment(dev bool) {
	development = dev
}

// Fail writes the error envelope. Unexpected errors are masked as a
// generic 500 so transaction internals never leak.
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		body := gin.H{"message": appErr.Message}
		if development {
			body["errorStack"] = appErr.Error()
		}
		c.JSON(appErr.Code, body)
		return
	}

	body := gin.H{"message": "internal server error"}
	if development && err != nil {
		body["errorStack"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
