package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/oubuilding/apartment-client/internal/api/metrics"
	"github.com/oubuilding/apartment-client/internal/api/middleware"
	"github.com/oubuilding/apartment-client/internal/core/ports"
	"github.com/oubuilding/apartment-client/internal/core/service"
)

// ActionError names the user action that failed so the error handler can
// build the notice shown for it.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string { return e.Action + ": " + e.Err.Error() }

func (e *ActionError) Unwrap() error { return e.Err }

func actionErr(action string, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{Action: action, Err: err}
}

// ctxClient returns the application context injected by the Auth middleware.
// Its absence means the route was registered without Auth.
func ctxClient(c echo.Context) (ports.Client, error) {
	client, ok := c.Get(middleware.ClientKey).(ports.Client)
	if !ok || client == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return client, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// pageParam reads ?page=N. Anything that is not a number asks for page 1.
func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		return 1
	}
	return page
}

// load runs fn under the stale-result guard of screen and counts the outcome.
func load(c echo.Context, client ports.Client, screen string, fn func(ctx context.Context) error) error {
	err := client.Load(c.Request().Context(), screen, fn)
	result := "ok"
	switch {
	case errors.Is(err, service.ErrStale):
		result = "stale"
	case err != nil:
		result = "error"
	}
	metrics.ScreenLoadsTotal.WithLabelValues(screen, result).Inc()
	return err
}
