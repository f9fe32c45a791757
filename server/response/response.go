package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apiError "github.com/readhaven/readhaven/errors"
)

// JSON writes the standard response envelope. err may be nil, a plain error
// or an *apiError.Error; the envelope always carries the given status.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	errMessage := ""
	if err != nil {
		if apiErr, ok := err.(*apiError.Error); ok {
			errMessage = apiErr.Message
			if status == 0 {
				status = apiErr.Status
			}
		} else {
			errMessage = err.Error()
		}
	}
	if status == 0 {
		status = http.StatusOK
	}

	responsedata := gin.H{
		"message":   message,
		"data":      data,
		"errors":    errMessage,
		"status":    http.StatusText(status),
		"timestamp": time.Now().Format(time.RFC3339),
	}

	c.JSON(status, responsedata)
}
