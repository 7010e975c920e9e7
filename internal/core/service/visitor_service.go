package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

type VisitorService struct {
	backend ports.Backend
	log     zerolog.Logger
}

func NewVisitorService(backend ports.Backend, log zerolog.Logger) *VisitorService {
	return &VisitorService{backend: backend, log: log}
}

func (s *VisitorService) Details(ctx context.Context, id int) (*domain.Visitor, error) {
	v, err := s.backend.GetVisitor(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int("visitor_id", id).Msg("load guest failed")
		return nil, fmt.Errorf("load guest %d: %w", id, err)
	}
	return v, nil
}

// IssueParkingCard registers a parking card for a guest under the next free
// card number.
func (s *VisitorService) IssueParkingCard(ctx context.Context, visitorID int, form ports.ParkingCardForm) (*domain.ParkingCard, error) {
	form.LicensePlate = strings.TrimSpace(form.LicensePlate)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	cards, err := s.backend.ListParkingCards(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load parking cards failed")
		return nil, fmt.Errorf("issue parking card: %w", err)
	}

	card, err := s.backend.IssueParkingCard(ctx, ports.ParkingCardInput{
		CardNumber:   domain.NextCardNumber(cards),
		VehicleType:  form.VehicleType,
		LicensePlate: form.LicensePlate,
		Color:        strings.TrimSpace(form.Color),
		VisitorID:    visitorID,
	})
	if err != nil {
		s.log.Error().Err(err).Int("visitor_id", visitorID).Msg("issue parking card failed")
		return nil, fmt.Errorf("issue parking card: %w", err)
	}
	s.log.Info().Int("visitor_id", visitorID).Str("card_number", card.CardNumber).Msg("parking card issued")
	return card, nil
}
