package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/maison/internal/domain"
)

// apiResponse is the envelope of every JSON reply.
type apiResponse struct {
	Message         string   `json:"message"`
	Data            any      `json:"data,omitempty"`
	Error           bool     `json:"error,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	RequestedEntity string   `json:"requested_entity,omitempty"`
}

func requestedEntity(c *gin.Context) string {
	return c.Request.Method + " " + c.FullPath()
}

func success(c *gin.Context, status int, message string, data any, warnings ...string) {
	c.JSON(status, apiResponse{
		Message:         message,
		Data:            data,
		Warnings:        warnings,
		RequestedEntity: requestedEntity(c),
	})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, apiResponse{
		Message:         message,
		Error:           true,
		RequestedEntity: requestedEntity(c),
	})
}

// failErr answers with the status err maps to. Server-side failures are
// logged and their text is not exposed.
func failErr(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("request failed")
		fail(c, status, "internal error")
		return
	}
	fail(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidCustomer),
		errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrQuantityLimit),
		errors.Is(err, domain.ErrInvalidFilterInput),
		errors.Is(err, domain.ErrUnknownCurrency):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
