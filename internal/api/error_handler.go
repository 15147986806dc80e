package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthday/events-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusUnauthorized, "Not authorized to access this route"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Not authorized to access this route"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "User already exists with this email"
	case errors.Is(err, domain.ErrBadToken):
		return http.StatusBadRequest, "Invalid or expired token"
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusBadRequest, "Current password is incorrect"
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, "Event not found"
	case errors.Is(err, domain.ErrEventInactive):
		return http.StatusBadRequest, "Event is not active"
	case errors.Is(err, domain.ErrEventFull):
		return http.StatusBadRequest, "Event is full"
	case errors.Is(err, domain.ErrRegistrationNotFound):
		return http.StatusNotFound, "Registration not found"
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return http.StatusConflict, "Already registered for this event"
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return http.StatusConflict, "Registration is already cancelled"
	case errors.Is(err, domain.ErrFeedbackExists):
		return http.StatusConflict, "Feedback already submitted"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Server error"
}
