package response

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
)

// ErrorBody is the failure contract shared by every endpoint.
type ErrorBody struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	Error         string   `json:"error,omitempty"`
	Code          string   `json:"code,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// JSON sends a success payload with caching disabled.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := ErrorBody{
		Success:       false,
		Message:       appErr.Message,
		Code:          appErr.Code,
		MissingFields: appErr.Fields,
	}
	if appErr.Err != nil {
		body.Error = appErr.Err.Error()
	} else {
		body.Error = appErr.Message
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, body)
}
