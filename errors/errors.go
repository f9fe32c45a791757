package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the API error envelope carried from services to handlers. Status
// maps directly onto the HTTP response code.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

var (
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrInvalidPassword     = New("invalid password", http.StatusUnauthorized)
	InActiveUserError      = New("user inactive", http.StatusUnauthorized)
)

// GetUniqueContraintError maps a unique-constraint violation to a 4xx error
// so callers see "already in use" rather than a 500.
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") ||
		strings.Contains(err.Error(), "already in use") || strings.Contains(err.Error(), "already exists") {
		return New(err.Error(), http.StatusConflict)
	}
	return ErrInternalServerError
}

// ErrorHandler is installed on rate-limited routes.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": fmt.Sprintf("too many requests, try again in %s", time.Until(info.ResetTime).Round(time.Second)),
	})
}
