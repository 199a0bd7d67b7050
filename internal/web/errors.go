package web

import (
	"errors"
	"net/http"

	"github.com/colonyops/jobcheck/internal/core/catalog"
	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/gin-gonic/gin"
)

var (
	errNoSession   = errors.New("no checklist is open")
	errBadRequest  = errors.New("bad request")
	errPointNumber = errors.New("check-point index must be an integer")
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var loadErr *catalog.LoadError
	switch {
	case errors.Is(err, checklist.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, checklist.ErrOutOfRange),
		errors.Is(err, checklist.ErrInvalidStatus),
		errors.Is(err, errBadRequest),
		errors.Is(err, errPointNumber):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &loadErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, errNoSession):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}

	body := gin.H{
		"success": false,
		"error":   err.Error(),
	}
	var verr *checklist.ValidationError
	if errors.As(err, &verr) {
		body["problems"] = verr.Problems
	}
	c.JSON(status, body)
}
