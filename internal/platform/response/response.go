package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loopmarket/service-rental/internal/platform/apperrors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// Success writes a 200 with the given payload.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created writes a 201 with the given payload.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent writes a 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: msg})
}

// Error maps an application error to its HTTP status. Unclassified errors
// become a generic 500 so internal details never leak to clients.
func Error(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorBody{Error: err.Error()})
	case apperrors.KindValidation:
		c.JSON(http.StatusBadRequest, ErrorBody{Error: err.Error()})
	case apperrors.KindForbidden:
		c.JSON(http.StatusForbidden, ErrorBody{Error: err.Error()})
	case apperrors.KindConflict:
		c.JSON(http.StatusConflict, ErrorBody{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorBody{Error: "internal server error"})
	}
}
