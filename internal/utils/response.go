package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LeapSeeker/matzip-demo/internal/apperr"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendError(c *gin.Context, statusCode int, message string, err error) {
	response := APIResponse{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
		response.Kind = string(apperr.KindOf(err))
	}

	c.JSON(statusCode, response)
}

// SendAppError maps a classified error onto the right status code. The
// Kind field lets the frontend react (login redirect, manual-continue
// prompt) without parsing messages.
func SendAppError(c *gin.Context, message string, err error) {
	SendError(c, apperr.HTTPStatus(err), message, err)
}

func SendValidationError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message, nil)
}

func SendUnauthorized(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, message, nil)
}

func SendInternalError(c *gin.Context, message string, err error) {
	SendError(c, http.StatusInternalServerError, message, err)
}
