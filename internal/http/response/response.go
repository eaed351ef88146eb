package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldnav/annotation-backend/internal/platform/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError maps a service error to its HTTP status via the apperr
// taxonomy. Internal errors are not echoed to the caller.
func RespondAppError(c *gin.Context, err error) {
	status, code := apperr.Status(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, ErrorEnvelope{
			Error: APIError{
				Message: "internal error",
				Code:    code,
			},
		})
		return
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
