package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

type loginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionService drives the LoggedOut/LoggedIn transitions of one App.
type SessionService struct {
	app    *App
	auth   ports.AuthAPI
	tokens ports.TokenStore
	opts   SessionOptions
	log    zerolog.Logger

	mu         sync.Mutex
	onboarding *time.Timer
}

func NewSessionService(app *App, auth ports.AuthAPI, tokens ports.TokenStore, opts SessionOptions, log zerolog.Logger) *SessionService {
	if opts.OnboardingDelay <= 0 {
		opts.OnboardingDelay = DefaultOnboardingDelay
	}
	return &SessionService{app: app, auth: auth, tokens: tokens, opts: opts, log: log}
}

// Login exchanges the credentials for a token, stores it, fetches the current
// identity and moves the session to LoggedIn. On any failure the session stays
// as it was and the error wraps domain.ErrLoginFailed.
func (s *SessionService) Login(ctx context.Context, username, password string) (*domain.Identity, error) {
	if err := validateForm(loginForm{Username: username, Password: password}); err != nil {
		return nil, err
	}

	id, err := s.login(ctx, username, password)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("login failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrLoginFailed, err)
	}

	s.app.Dispatch(domain.Login(id))
	s.log.Info().Str("username", id.Username).Str("role", string(id.Role())).Msg("logged in")

	if id.NeedsOnboarding() {
		s.scheduleOnboarding()
	}
	return id, nil
}

func (s *SessionService) login(ctx context.Context, username, password string) (*domain.Identity, error) {
	grant, err := s.auth.IssueToken(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.tokens.Save(ctx, grant.AccessToken); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	id, err := s.auth.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	return id, nil
}

// Logout clears the session locally and returns to the root entry. The
// backend token is not revoked.
func (s *SessionService) Logout(ctx context.Context) error {
	s.cancelOnboarding()
	username := s.app.State().Username()
	s.app.Dispatch(domain.Logout())
	s.app.nav.Reset()

	if s.opts.ClearTokenOnLogout {
		if err := s.tokens.Clear(ctx); err != nil {
			s.log.Error().Err(err).Msg("clear token failed")
			return fmt.Errorf("clear token: %w", err)
		}
	}
	s.log.Info().Str("username", username).Msg("logged out")
	return nil
}

// Restore logs in with a token persisted by an earlier login.
func (s *SessionService) Restore(ctx context.Context) (*domain.Identity, error) {
	if _, err := s.tokens.Load(ctx); err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	id, err := s.auth.CurrentUser(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("stored token rejected")
		return nil, fmt.Errorf("restore session: %w", err)
	}
	s.app.Dispatch(domain.Login(id))
	return id, nil
}

// scheduleOnboarding pushes the avatar/password screen once, unless the
// identity changed in the meantime.
func (s *SessionService) scheduleOnboarding() {
	want := s.app.State().Identity

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onboarding != nil {
		s.onboarding.Stop()
	}
	s.onboarding = time.AfterFunc(s.opts.OnboardingDelay, func() {
		if s.app.State().Identity != want {
			return
		}
		if err := s.app.nav.Navigate(domain.TabHome, domain.ScreenChangePasswordAndAvatar); err != nil {
			s.log.Warn().Err(err).Msg("onboarding navigation failed")
		}
	})
}

func (s *SessionService) cancelOnboarding() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onboarding != nil {
		s.onboarding.Stop()
		s.onboarding = nil
	}
}
