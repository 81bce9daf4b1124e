package handlers

import (
	"errors"
	"net/http"

	"classengage-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

// statusFor maps the service failure taxonomy onto HTTP statuses. Anything
// unrecognized (including join-code exhaustion) is a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidHostDisplayName),
		errors.Is(err, services.ErrInvalidDisplayName),
		errors.Is(err, services.ErrInvalidQuestionBody),
		errors.Is(err, services.ErrInvalidTitle),
		errors.Is(err, services.ErrInvalidStatusFilter),
		errors.Is(err, services.ErrInvalidQuestionStatus):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, services.ErrSessionNotJoinable),
		errors.Is(err, services.ErrHostSessionLimit),
		errors.Is(err, services.ErrQuestionLimit),
		errors.Is(err, services.ErrInvalidStatusTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}
