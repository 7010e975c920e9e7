package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/core/aggregate"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// DirectoryService builds the admin list screens. Every list is loaded behind
// an all-or-nothing barrier: one failed fetch fails the whole screen.
type DirectoryService struct {
	backend ports.Backend
	log     zerolog.Logger
}

func NewDirectoryService(backend ports.Backend, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{backend: backend, log: log}
}

// Residents groups residents by apartment, owners first, apartments in
// prefix/number order. Each resident carries its linked account when one exists.
func (s *DirectoryService) Residents(ctx context.Context) ([]ports.ApartmentGroup, error) {
	var (
		residents []domain.Resident
		users     []domain.Identity
	)
	err := aggregate.Gather(ctx,
		aggregate.Into(&residents, s.backend.ListResidents),
		aggregate.Into(&users, s.backend.ListUsers),
	)
	if err != nil {
		s.log.Error().Err(err).Msg("load residents failed")
		return nil, fmt.Errorf("load residents: %w", err)
	}

	accounts := aggregate.IndexIf(users, func(u domain.Identity) (int, bool) {
		if u.Resident == nil {
			return 0, false
		}
		return u.Resident.ID, true
	})
	entries := aggregate.Join(residents, accounts,
		func(r domain.Resident) int { return r.ID },
		func(r domain.Resident, u domain.Identity, ok bool) ports.ResidentEntry {
			e := ports.ResidentEntry{Resident: r}
			if ok {
				e.Account = &u
			}
			return e
		},
	)

	groups := aggregate.GroupBy(entries, func(e ports.ResidentEntry) string { return e.ApartmentNumber() })
	aggregate.SortMembers(groups, func(e ports.ResidentEntry) int { return e.RelationshipToHead.Priority() })
	aggregate.SortGroups(groups)
	return groups, nil
}

// Guests lists visitors ordered by their host's apartment.
func (s *DirectoryService) Guests(ctx context.Context) ([]domain.Visitor, error) {
	visitors, err := s.backend.ListVisitors(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load guests failed")
		return nil, fmt.Errorf("load guests: %w", err)
	}
	aggregate.SortByApartment(visitors, func(v domain.Visitor) string { return v.Resident.ApartmentNumber() })
	return visitors, nil
}

// Lockers lists lockers by numeric locker number with the owner's name.
func (s *DirectoryService) Lockers(ctx context.Context) ([]ports.LockerEntry, error) {
	var (
		lockers   []domain.Locker
		residents []domain.Resident
	)
	err := aggregate.Gather(ctx,
		aggregate.Into(&lockers, s.backend.ListLockers),
		aggregate.Into(&residents, s.backend.ListResidents),
	)
	if err != nil {
		s.log.Error().Err(err).Msg("load lockers failed")
		return nil, fmt.Errorf("load lockers: %w", err)
	}

	byID := aggregate.Index(residents, func(r domain.Resident) int { return r.ID })
	entries := aggregate.Join(lockers, byID,
		func(l domain.Locker) int { return l.ResidentID },
		func(l domain.Locker, r domain.Resident, ok bool) ports.LockerEntry {
			name := domain.Unknown
			if ok {
				name = r.Name
			}
			return ports.LockerEntry{Locker: l, ResidentName: name, ItemNames: l.ItemNames()}
		},
	)
	slices.SortStableFunc(entries, func(a, b ports.LockerEntry) int {
		return cmp.Compare(aggregate.NumericKey(a.Number), aggregate.NumericKey(b.Number))
	})
	return entries, nil
}

// Complaints lists complaints newest first with the author's name.
func (s *DirectoryService) Complaints(ctx context.Context) ([]ports.ComplaintEntry, error) {
	var (
		complaints []domain.Complaint
		residents  []domain.Resident
	)
	err := aggregate.Gather(ctx,
		aggregate.Into(&complaints, s.backend.ListComplaints),
		aggregate.Into(&residents, s.backend.ListResidents),
	)
	if err != nil {
		s.log.Error().Err(err).Msg("load complaints failed")
		return nil, fmt.Errorf("load complaints: %w", err)
	}

	byID := aggregate.Index(residents, func(r domain.Resident) int { return r.ID })
	entries := aggregate.Join(complaints, byID,
		func(c domain.Complaint) int { return c.ResidentID },
		func(c domain.Complaint, r domain.Resident, ok bool) ports.ComplaintEntry {
			name := domain.Unknown
			if ok {
				name = r.Name
			}
			return ports.ComplaintEntry{Complaint: c, ResidentName: name}
		},
	)
	slices.SortStableFunc(entries, func(a, b ports.ComplaintEntry) int {
		return b.CreateTime.Compare(a.CreateTime)
	})
	return entries, nil
}

// Surveys lists surveys newest first.
func (s *DirectoryService) Surveys(ctx context.Context) ([]domain.Survey, error) {
	surveys, err := s.backend.ListSurveys(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load surveys failed")
		return nil, fmt.Errorf("load surveys: %w", err)
	}
	slices.SortStableFunc(surveys, func(a, b domain.Survey) int {
		return b.CreateTime.Compare(a.CreateTime)
	})
	return surveys, nil
}

func (s *DirectoryService) Payments(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := s.backend.ListInvoices(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load payments failed")
		return nil, fmt.Errorf("load payments: %w", err)
	}
	return invoices, nil
}

// Accounts loads every account together with the residents an account can be
// linked to.
func (s *DirectoryService) Accounts(ctx context.Context) (*ports.AccountsView, error) {
	var view ports.AccountsView
	err := aggregate.Gather(ctx,
		aggregate.Into(&view.Accounts, s.backend.ListUsers),
		aggregate.Into(&view.Residents, s.backend.ListResidents),
	)
	if err != nil {
		s.log.Error().Err(err).Msg("load accounts failed")
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	return &view, nil
}
