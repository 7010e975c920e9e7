package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/api/metrics"
	"github.com/oubuilding/apartment-client/internal/api/middleware"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// SessionHandler opens and closes application contexts. Every successful
// login gets its own context and a gateway token naming it.
type SessionHandler struct {
	registry ports.ClientRegistry
	secret   string
	ttl      time.Duration
	log      zerolog.Logger
}

func NewSessionHandler(registry ports.ClientRegistry, secret string, ttl time.Duration, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{registry: registry, secret: secret, ttl: ttl, log: log}
}

// Login handles POST /session/login.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Backend credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	client := h.registry.Open()
	id, err := client.Session().Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		h.registry.Close(client.ID())
		result := "failed"
		if errors.Is(err, domain.ErrValidation) {
			result = "invalid"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		return actionErr("log in", err)
	}

	token, err := middleware.IssueToken(h.secret, client.ID(), id.Username, string(id.Role()), h.ttl)
	if err != nil {
		h.registry.Close(client.ID())
		h.log.Error().Err(err).Msg("sign gateway token failed")
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	metrics.ActiveSessions.Inc()

	resp := describe(client)
	resp.Token = token
	return c.JSON(http.StatusOK, resp)
}

// Logout handles POST /session/logout.
//
// @Summary      Log out
// @Tags         session
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	if err := client.Session().Logout(c.Request().Context()); err != nil {
		h.log.Warn().Err(err).Str("session_id", client.ID()).Msg("logout left the token behind")
	}
	h.registry.Close(client.ID())
	metrics.ActiveSessions.Dec()
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, describe(client))
}

func describe(client ports.Client) sessionResponse {
	state := client.State()
	nav := client.Navigation()
	return sessionResponse{
		Identity: state.Identity,
		Role:     state.Role(),
		Tree:     nav.Tree(),
		Position: nav.Position(),
	}
}
