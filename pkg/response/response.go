package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/ta-proctoring-api/pkg/errors"
)

// Failure is the error body shared by every endpoint.
type Failure struct {
	Success bool        `json:"success"`
	Status  string      `json:"status"`
	Kind    string      `json:"kind"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// JSON sends a success payload as-is.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	message := appErr.Message
	if appErr.Status >= http.StatusInternalServerError {
		message = appErrors.ErrInternal.Message
	}
	c.JSON(appErr.Status, Failure{
		Success: false,
		Status:  "error",
		Kind:    appErr.Code,
		Message: message,
		Details: appErr.Details,
	})
}
