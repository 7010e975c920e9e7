package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/api/handler"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/service"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

const defaultAction = "complete the request"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Shows the user notice for the failed action, never the cause.
//   - Logs unexpected errors internally.
//   - Renders a consistent JSON envelope: {"error": "<notice>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	action := defaultAction
	var ae *handler.ActionError
	if errors.As(err, &ae) {
		action = ae.Action
	}
	notice := domain.Notice(action, err)

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: notice, Fields: ve.Fields}
	}

	// Login failures wrap the backend cause, so they are matched first.
	switch {
	case errors.Is(err, domain.ErrLoginFailed):
		return http.StatusUnauthorized, errorResponse{Error: notice}
	case errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized, errorResponse{Error: "not logged in"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrNoChatPeer):
		return http.StatusBadRequest, errorResponse{Error: "pick someone to chat with"}
	case errors.Is(err, domain.ErrScreenUnreachable):
		return http.StatusUnprocessableEntity, errorResponse{Error: notice}
	case errors.Is(err, service.ErrStale):
		return http.StatusConflict, errorResponse{Error: "superseded by a newer request"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: notice}
	case errors.Is(err, domain.ErrNetwork):
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("backend call failed")
		return http.StatusBadGateway, errorResponse{Error: notice}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: notice}
}
