// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"brigadas_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// Respond writes the uniform result envelope for a (value, error) pair.
// On success status is used; on failure the status comes from the error kind.
func Respond[T any](c *gin.Context, status int, data T, err error, message string) {
	if err != nil {
		c.JSON(apperr.StatusFor(err), apperr.Fail[T](err))
		return
	}
	c.JSON(status, apperr.OK(data, message))
}

// Error sends a failed envelope for request-level problems (bad JSON, bad path params).
func Error(c *gin.Context, err *apperr.Error) {
	c.JSON(err.HTTPStatus(), apperr.Fail[any](err))
}

// OK sends a 200 envelope.
func OK[T any](c *gin.Context, data T, message string) {
	Respond(c, http.StatusOK, data, nil, message)
}
