package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// AccountService manages user accounts (admin) and the current user's
// password and avatar.
type AccountService struct {
	app     *App
	backend ports.Backend
	images  ports.ImageHost
	log     zerolog.Logger
}

func NewAccountService(app *App, backend ports.Backend, images ports.ImageHost, log zerolog.Logger) *AccountService {
	return &AccountService{app: app, backend: backend, images: images, log: log}
}

// Save creates an account, or edits the account editingID when non-zero.
// A password is required on creation only.
func (s *AccountService) Save(ctx context.Context, form ports.AccountForm, editingID int) error {
	if err := validateForm(form); err != nil {
		return err
	}
	if editingID == 0 && form.Password == "" {
		return domain.NewValidationError("password", "password is required")
	}

	in := ports.AccountInput{
		Username:   form.Username,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Password:   form.Password,
		ResidentID: form.ResidentID,
	}
	if editingID != 0 {
		if _, err := s.backend.UpdateUser(ctx, editingID, in); err != nil {
			s.log.Error().Err(err).Int("user_id", editingID).Msg("update account failed")
			return fmt.Errorf("update account %d: %w", editingID, err)
		}
		return nil
	}
	if _, err := s.backend.CreateUser(ctx, in); err != nil {
		s.log.Error().Err(err).Str("username", form.Username).Msg("create account failed")
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// ToggleActive flips the is_active flag of account.
func (s *AccountService) ToggleActive(ctx context.Context, account domain.Identity) error {
	if err := s.backend.SetUserActive(ctx, account.ID, !account.IsActive); err != nil {
		s.log.Error().Err(err).Int("user_id", account.ID).Msg("toggle account failed")
		return fmt.Errorf("toggle account %d: %w", account.ID, err)
	}
	return nil
}

// ChangePasswordAndAvatar sets a new password and, when a picture is given,
// uploads it and stores its URL as the avatar. The refreshed identity replaces
// the session's, which brings the navigator back to home.
func (s *AccountService) ChangePasswordAndAvatar(ctx context.Context, form ports.ProfileForm) (*domain.Identity, error) {
	if !s.app.State().LoggedIn() {
		return nil, domain.ErrNotLoggedIn
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}
	if form.Password != form.Confirm {
		return nil, domain.NewValidationError("confirm", "passwords do not match")
	}

	update := ports.ProfileUpdate{Password: form.Password}
	if form.Avatar != nil {
		url, err := s.images.Upload(ctx, form.Avatar.Filename, form.Avatar.Content)
		if err != nil {
			s.log.Error().Err(err).Msg("avatar upload failed")
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		update.AvatarURL = url
	}

	id, err := s.backend.UpdateCurrentUser(ctx, update)
	if err != nil {
		s.log.Error().Err(err).Msg("update profile failed")
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.app.Dispatch(domain.Login(id))
	return id, nil
}
