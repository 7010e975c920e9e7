package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/api/middleware"
	"github.com/oubuilding/apartment-client/internal/core/domain"
)

func loginRequestBody(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/session/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestSessionHandler_Login_Success(t *testing.T) {
	e := echo.New()
	session := &stubSession{
		loginFn: func(ctx context.Context, username, password string) (*domain.Identity, error) {
			if username != "admin" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.Identity{Username: "admin"}, nil
		},
	}
	client := &stubClient{id: "sid-1", nav: &stubNavigation{}, session: session}
	session.owner = client
	registry := &stubRegistry{next: client}
	handler := NewSessionHandler(registry, "gw-secret", time.Hour, zerolog.Nop())

	c, rec := newContext(e, loginRequestBody(`{"username":"admin","password":"secret"}`), nil)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Token    string          `json:"token"`
		Identity domain.Identity `json:"identity"`
		Role     string          `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Identity.Username != "admin" || resp.Role != "admin" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	claims, err := middleware.ParseToken("gw-secret", resp.Token)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.SessionID != "sid-1" || claims.Username != "admin" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(registry.closed) != 0 {
		t.Fatalf("context should stay open, closed %v", registry.closed)
	}
}

func TestSessionHandler_Login_FailureClosesContext(t *testing.T) {
	e := echo.New()
	client := &stubClient{
		id: "sid-2",
		session: &stubSession{
			loginFn: func(ctx context.Context, username, password string) (*domain.Identity, error) {
				return nil, fmt.Errorf("%w: %w", domain.ErrLoginFailed, domain.ErrNetwork)
			},
		},
	}
	registry := &stubRegistry{next: client}
	handler := NewSessionHandler(registry, "gw-secret", time.Hour, zerolog.Nop())

	c, _ := newContext(e, loginRequestBody(`{"username":"anna","password":"nope"}`), nil)
	err := handler.Login(c)

	if !errors.Is(err, domain.ErrLoginFailed) {
		t.Fatalf("expected login failure, got %v", err)
	}
	var ae *ActionError
	if !errors.As(err, &ae) || ae.Action != "log in" {
		t.Fatalf("expected the log in action, got %v", err)
	}
	if len(registry.closed) != 1 || registry.closed[0] != "sid-2" {
		t.Fatalf("expected context to be closed, got %v", registry.closed)
	}
}

func TestSessionHandler_Login_InvalidPayload(t *testing.T) {
	e := echo.New()
	registry := &stubRegistry{}
	handler := NewSessionHandler(registry, "gw-secret", time.Hour, zerolog.Nop())

	c, _ := newContext(e, loginRequestBody("not-json"), nil)
	err := handler.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if registry.opened != 0 {
		t.Fatalf("no context should be opened for a bad payload")
	}
}

func TestSessionHandler_Logout(t *testing.T) {
	e := echo.New()
	session := &stubSession{}
	client := &stubClient{id: "sid-3", state: as("anna"), session: session}
	registry := &stubRegistry{next: client}
	handler := NewSessionHandler(registry, "gw-secret", time.Hour, zerolog.Nop())

	c, rec := newContext(e, httptest.NewRequest(http.MethodPost, "/session/logout", nil), client)
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !session.loggedOut {
		t.Fatalf("session not logged out")
	}
	if len(registry.closed) != 1 || registry.closed[0] != "sid-3" {
		t.Fatalf("expected context to be closed, got %v", registry.closed)
	}
}

func TestSessionHandler_Get(t *testing.T) {
	e := echo.New()
	client := &stubClient{id: "sid-4", state: as("anna"), nav: &stubNavigation{}}
	handler := NewSessionHandler(&stubRegistry{}, "gw-secret", time.Hour, zerolog.Nop())

	c, rec := newContext(e, httptest.NewRequest(http.MethodGet, "/session", nil), client)
	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["role"] != "resident" {
		t.Fatalf("expected resident role, got %v", resp["role"])
	}
	if _, ok := resp["token"]; ok {
		t.Fatalf("token must not be echoed back")
	}
}

func TestSessionHandler_Get_WithoutClient(t *testing.T) {
	e := echo.New()
	handler := NewSessionHandler(&stubRegistry{}, "gw-secret", time.Hour, zerolog.Nop())

	c, _ := newContext(e, httptest.NewRequest(http.MethodGet, "/session", nil), nil)
	err := handler.Get(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
