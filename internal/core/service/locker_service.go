package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/core/aggregate"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

type LockerService struct {
	backend ports.Backend
	log     zerolog.Logger
}

func NewLockerService(backend ports.Backend, log zerolog.Logger) *LockerService {
	return &LockerService{backend: backend, log: log}
}

// Save creates a locker, or edits the one identified by editingID when it is
// non-zero. Only creation requires a number and a resident.
func (s *LockerService) Save(ctx context.Context, form ports.LockerForm, editingID int) error {
	in := ports.LockerInput{Number: form.Number, ResidentID: form.ResidentID, Item: form.Item}

	if editingID != 0 {
		if err := s.backend.UpdateLocker(ctx, editingID, in); err != nil {
			s.log.Error().Err(err).Int("locker_id", editingID).Msg("update locker failed")
			return fmt.Errorf("update locker %d: %w", editingID, err)
		}
		return nil
	}

	if err := validateForm(form); err != nil {
		return err
	}
	if err := s.backend.CreateLocker(ctx, in); err != nil {
		s.log.Error().Err(err).Str("locker_number", form.Number).Msg("create locker failed")
		return fmt.Errorf("create locker: %w", err)
	}
	return nil
}

func (s *LockerService) Delete(ctx context.Context, id int) error {
	if err := s.backend.DeleteLocker(ctx, id); err != nil {
		s.log.Error().Err(err).Int("locker_id", id).Msg("delete locker failed")
		return fmt.Errorf("delete locker %d: %w", id, err)
	}
	return nil
}

// Details loads a locker with its owner and the status of every item.
func (s *LockerService) Details(ctx context.Context, id int) (*ports.LockerDetail, error) {
	locker, err := s.backend.GetLocker(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int("locker_id", id).Msg("load locker failed")
		return nil, fmt.Errorf("load locker %d: %w", id, err)
	}

	detail := &ports.LockerDetail{Locker: *locker}
	owner := aggregate.Into(&detail.Resident, func(ctx context.Context) (*domain.Resident, error) {
		return s.backend.GetResident(ctx, locker.ResidentID)
	})
	if err := loadItemStatuses(ctx, s.backend, detail, owner); err != nil {
		s.log.Error().Err(err).Int("locker_id", id).Msg("load locker items failed")
		return nil, fmt.Errorf("load locker %d: %w", id, err)
	}
	return detail, nil
}

// loadItemStatuses fetches the status of every item of detail.Locker, plus
// any extra fetchers, behind one barrier.
func loadItemStatuses(ctx context.Context, api ports.LockerAPI, detail *ports.LockerDetail, extra ...aggregate.Fetcher) error {
	locker := detail.Locker
	items := make([]ports.ItemDetail, len(locker.Items))
	fetchers := append([]aggregate.Fetcher(nil), extra...)
	for i, it := range locker.Items {
		fetchers = append(fetchers, func(ctx context.Context) error {
			status, err := api.ItemStatus(ctx, locker.ResidentID, it.ID)
			if err != nil {
				return fmt.Errorf("item %d status: %w", it.ID, err)
			}
			items[i] = ports.ItemDetail{ID: it.ID, Name: it.Name, Status: status}
			return nil
		})
	}
	if err := aggregate.Gather(ctx, fetchers...); err != nil {
		return err
	}
	detail.Items = items
	return nil
}
