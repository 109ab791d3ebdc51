package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calvora/recsys-backend/internal/apierr"
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

// RespondAPIError maps a typed service error onto the wire, hiding raw
// internal error text behind a generic message.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, nil)
		return
	}
	if ae.Code == apierr.CodeInternal {
		c.JSON(ae.Status, ErrorEnvelope{
			Error: APIError{Message: "internal server error", Code: ae.Code},
		})
		return
	}
	RespondError(c, ae.Status, ae.Code, ae)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
