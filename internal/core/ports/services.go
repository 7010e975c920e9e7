package ports

import (
	"context"
	"io"

	"github.com/oubuilding/apartment-client/internal/core/domain"
)

// LockerForm is the locker create/edit form.
type LockerForm struct {
	Number     string `json:"locker_number" validate:"required"`
	ResidentID int    `json:"resident" validate:"required"`
	Item       string `json:"item"`
}

// ParkingCardForm is the guest parking card form. The card number is assigned.
type ParkingCardForm struct {
	VehicleType  domain.VehicleType `json:"vehicle_type" validate:"required,oneof=motorbike car"`
	LicensePlate string             `json:"license_plate" validate:"required"`
	Color        string             `json:"color"`
}

// AccountForm is the account create/edit form. Password is optional on edit.
type AccountForm struct {
	Username   string `json:"username" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Password   string `json:"password"`
	ResidentID int    `json:"resident" validate:"required"`
}

// ResidentForm is the resident create/edit form.
type ResidentForm struct {
	Name               string              `json:"name" validate:"required"`
	RelationshipToHead domain.Relationship `json:"relationship_to_head" validate:"required"`
	ApartmentID        int                 `json:"apartment" validate:"required"`
}

// Avatar is a picture picked on the device.
type Avatar struct {
	Filename string
	Content  io.Reader
}

// ProfileForm is the password and avatar setup form.
type ProfileForm struct {
	Password string  `json:"password" validate:"required"`
	Confirm  string  `json:"confirm" validate:"required"`
	Avatar   *Avatar `json:"-"`
}

type SessionService interface {
	Login(ctx context.Context, username, password string) (*domain.Identity, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*domain.Identity, error)
}

type NavigationService interface {
	Tree() domain.Tree
	Position() Position
	Navigate(tab, screen string) error
	Back() bool
	TabBarVisible() bool
}

type DirectoryService interface {
	Residents(ctx context.Context) ([]ApartmentGroup, error)
	Guests(ctx context.Context) ([]domain.Visitor, error)
	Lockers(ctx context.Context) ([]LockerEntry, error)
	Complaints(ctx context.Context) ([]ComplaintEntry, error)
	Surveys(ctx context.Context) ([]domain.Survey, error)
	Payments(ctx context.Context) ([]domain.Invoice, error)
	Accounts(ctx context.Context) (*AccountsView, error)
}

type LockerService interface {
	Save(ctx context.Context, form LockerForm, editingID int) error
	Delete(ctx context.Context, id int) error
	Details(ctx context.Context, id int) (*LockerDetail, error)
}

type VisitorService interface {
	Details(ctx context.Context, id int) (*domain.Visitor, error)
	IssueParkingCard(ctx context.Context, visitorID int, form ParkingCardForm) (*domain.ParkingCard, error)
}

type AccountService interface {
	Save(ctx context.Context, form AccountForm, editingID int) error
	ToggleActive(ctx context.Context, account domain.Identity) error
	ChangePasswordAndAvatar(ctx context.Context, form ProfileForm) (*domain.Identity, error)
}

type ResidentService interface {
	ResidentDetail(ctx context.Context, id int) (*domain.Resident, error)
	Save(ctx context.Context, form ResidentForm, editingID int) (*domain.Resident, error)
	Delete(ctx context.Context, id int) error
	Apartments(ctx context.Context) ([]domain.Apartment, error)
	MyInvoices(ctx context.Context) ([]domain.Invoice, error)
	MyLocker(ctx context.Context) (*LockerDetail, error)
	SubmitComplaint(ctx context.Context, description string) error
}

// Conversation is an open chat room. Close releases the subscription.
type Conversation interface {
	Room() string
	Messages() []domain.ChatMessage
	Close() error
}

type ChatService interface {
	Peer(other string) (string, error)
	Contacts(ctx context.Context) ([]domain.Identity, error)
	Send(ctx context.Context, other, text string) error
	Open(ctx context.Context, other string, onUpdate func([]domain.ChatMessage)) (Conversation, error)
}

// Client is one application context: a session, its navigator and the
// screens' services bound to that session.
type Client interface {
	ID() string
	State() domain.SessionState
	Session() SessionService
	Navigation() NavigationService
	Directory() DirectoryService
	Lockers() LockerService
	Visitors() VisitorService
	Accounts() AccountService
	Residents() ResidentService
	Chat() ChatService
	// Load runs fn for screen under the screen's stale-result guard.
	Load(ctx context.Context, screen string, fn func(ctx context.Context) error) error
}

// ClientRegistry keeps the application contexts served by the gateway.
type ClientRegistry interface {
	Open() Client
	Get(id string) (Client, bool)
	Close(id string)
}
