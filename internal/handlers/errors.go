package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vuelas/api/internal/apperr"
)

const (
	msgInvalidBody = "Cuerpo de la solicitud inválido"
	msgInternal    = "Error interno del servidor"
)

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalid, apperr.CodeConflict:
		return http.StatusBadRequest
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// responder writes JSON error bodies for every handler.
type responder struct {
	log        zerolog.Logger
	production bool
}

// respondError writes {"message": ...}. Internal errors also carry the cause
// under "error" outside production.
func (h responder) respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal(err, msgInternal)
	}

	status := statusFor(ae.Code)
	body := gin.H{"message": ae.Message}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(ae.Message)
		if !h.production && ae.Cause() != "" {
			body["error"] = ae.Cause()
		}
	}

	c.AbortWithStatusJSON(status, body)
}

func (h responder) bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		h.log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("invalid request body")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return false
	}
	return true
}
