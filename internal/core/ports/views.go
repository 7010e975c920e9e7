package ports

import (
	"github.com/oubuilding/apartment-client/internal/core/aggregate"
	"github.com/oubuilding/apartment-client/internal/core/domain"
)

// ResidentEntry is a resident joined with the account linked to it, if any.
type ResidentEntry struct {
	domain.Resident
	Account *domain.Identity `json:"account"`
}

// ApartmentGroup is one apartment of the resident directory.
type ApartmentGroup = aggregate.Group[ResidentEntry]

type LockerEntry struct {
	domain.Locker
	ResidentName string   `json:"resident_name"`
	ItemNames    []string `json:"item_names"`
}

type ComplaintEntry struct {
	domain.Complaint
	ResidentName string `json:"resident_name"`
}

type ItemDetail struct {
	ID     int               `json:"id"`
	Name   string            `json:"name"`
	Status domain.ItemStatus `json:"status"`
}

type LockerDetail struct {
	Locker   domain.Locker    `json:"locker"`
	Resident *domain.Resident `json:"resident"`
	Items    []ItemDetail     `json:"items"`
}

// AccountsView feeds the accounts screen and its resident picker.
type AccountsView struct {
	Accounts  []domain.Identity `json:"accounts"`
	Residents []domain.Resident `json:"residents"`
}

// Position is where the navigator currently is.
type Position struct {
	Tab           string   `json:"tab"`
	Stack         []string `json:"stack"`
	Focused       string   `json:"focused"`
	TabBarVisible bool     `json:"tab_bar_visible"`
}
