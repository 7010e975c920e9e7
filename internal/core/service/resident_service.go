package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/core/aggregate"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// ResidentService backs the resident self-service screens and the admin
// resident screens.
type ResidentService struct {
	app     *App
	backend ports.Backend
	log     zerolog.Logger
}

func NewResidentService(app *App, backend ports.Backend, log zerolog.Logger) *ResidentService {
	return &ResidentService{app: app, backend: backend, log: log}
}

func (s *ResidentService) ResidentDetail(ctx context.Context, id int) (*domain.Resident, error) {
	r, err := s.backend.GetResident(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int("resident_id", id).Msg("load resident failed")
		return nil, fmt.Errorf("load resident %d: %w", id, err)
	}
	return r, nil
}

// Save creates a resident, or edits the one identified by editingID when it is
// non-zero. Both require the whole form.
func (s *ResidentService) Save(ctx context.Context, form ports.ResidentForm, editingID int) (*domain.Resident, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}
	if !form.RelationshipToHead.Valid() {
		return nil, domain.NewValidationError("relationship_to_head",
			"relationship to head must be one of: owner, wife/husband, child, other")
	}
	in := ports.ResidentInput{
		Name:               strings.TrimSpace(form.Name),
		RelationshipToHead: form.RelationshipToHead,
		ApartmentID:        form.ApartmentID,
	}

	if editingID != 0 {
		r, err := s.backend.UpdateResident(ctx, editingID, in)
		if err != nil {
			s.log.Error().Err(err).Int("resident_id", editingID).Msg("update resident failed")
			return nil, fmt.Errorf("update resident %d: %w", editingID, err)
		}
		return r, nil
	}

	r, err := s.backend.CreateResident(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Str("name", in.Name).Msg("create resident failed")
		return nil, fmt.Errorf("create resident: %w", err)
	}
	return r, nil
}

func (s *ResidentService) Delete(ctx context.Context, id int) error {
	if err := s.backend.DeleteResident(ctx, id); err != nil {
		s.log.Error().Err(err).Int("resident_id", id).Msg("delete resident failed")
		return fmt.Errorf("delete resident %d: %w", id, err)
	}
	return nil
}

// Apartments lists the apartments a resident can be assigned to, in
// apartment order.
func (s *ResidentService) Apartments(ctx context.Context) ([]domain.Apartment, error) {
	apartments, err := s.backend.ListApartments(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load apartments failed")
		return nil, fmt.Errorf("load apartments: %w", err)
	}
	aggregate.SortByApartment(apartments, func(a domain.Apartment) string { return a.Number })
	return apartments, nil
}

func (s *ResidentService) MyInvoices(ctx context.Context) ([]domain.Invoice, error) {
	me, err := s.me()
	if err != nil {
		return nil, err
	}
	invoices, err := s.backend.ListResidentInvoices(ctx, me.ID)
	if err != nil {
		s.log.Error().Err(err).Int("resident_id", me.ID).Msg("load invoices failed")
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	return invoices, nil
}

// MyLocker loads the current resident's locker and the status of each item.
func (s *ResidentService) MyLocker(ctx context.Context) (*ports.LockerDetail, error) {
	me, err := s.me()
	if err != nil {
		return nil, err
	}
	locker, err := s.backend.ResidentLocker(ctx, me.ID)
	if err != nil {
		s.log.Error().Err(err).Int("resident_id", me.ID).Msg("load locker failed")
		return nil, fmt.Errorf("load locker: %w", err)
	}

	detail := &ports.LockerDetail{Locker: *locker, Resident: me}
	if err := loadItemStatuses(ctx, s.backend, detail); err != nil {
		s.log.Error().Err(err).Int("resident_id", me.ID).Msg("load locker items failed")
		return nil, fmt.Errorf("load locker: %w", err)
	}
	return detail, nil
}

// SubmitComplaint sends feedback on behalf of the current resident.
func (s *ResidentService) SubmitComplaint(ctx context.Context, description string) error {
	me, err := s.me()
	if err != nil {
		return err
	}
	if strings.TrimSpace(description) == "" {
		return domain.NewValidationError("description", "description is required")
	}
	if err := s.backend.SubmitFeedback(ctx, me.ID, description); err != nil {
		s.log.Error().Err(err).Int("resident_id", me.ID).Msg("submit complaint failed")
		return fmt.Errorf("submit complaint: %w", err)
	}
	return nil
}

func (s *ResidentService) me() (*domain.Resident, error) {
	id := s.app.State().Identity
	if id == nil {
		return nil, domain.ErrNotLoggedIn
	}
	if id.Resident == nil {
		return nil, domain.ErrForbidden
	}
	return id.Resident, nil
}
