// File: /utils/response.go
package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Envelope is the standard response shape. Stack is only populated outside
// release mode.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

func SendError(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{
		Success: false,
		Message: message,
	})
}

// SendServerError wraps unexpected failures; the underlying error is exposed
// only in debug mode.
func SendServerError(c *gin.Context, err error) {
	env := Envelope{
		Success: false,
		Message: "An unexpected error occurred",
	}
	if gin.Mode() != gin.ReleaseMode && err != nil {
		env.Stack = err.Error()
	}
	c.JSON(http.StatusInternalServerError, env)
}

func SendValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: message,
	})
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// IsDuplicateKeyError normalizes the storage-layer duplicate errors (mysql
// 1062, sqlite UNIQUE violations, gorm's own sentinel) so controllers can map
// them to 409 responses.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}
