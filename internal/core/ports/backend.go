package ports

import (
	"context"

	"github.com/oubuilding/apartment-client/internal/core/domain"
)

// TokenGrant is the body returned by the password-grant token endpoint.
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// AccountInput is written to the users endpoint. Empty Password leaves the
// stored password untouched on update.
type AccountInput struct {
	Username   string
	FirstName  string
	LastName   string
	Password   string
	ResidentID int
}

type ResidentInput struct {
	Name               string
	RelationshipToHead domain.Relationship
	ApartmentID        int
}

// LockerInput carries the locker form. Zero ResidentID and empty Item are not sent.
type LockerInput struct {
	Number     string
	ResidentID int
	Item       string
}

type ParkingCardInput struct {
	CardNumber   string
	VehicleType  domain.VehicleType
	LicensePlate string
	Color        string
	VisitorID    int
}

// ProfileUpdate patches the current user. Empty fields are not sent.
type ProfileUpdate struct {
	Password  string
	AvatarURL string
}

// AuthAPI covers token issuance and the current-user resource.
type AuthAPI interface {
	IssueToken(ctx context.Context, username, password string) (*TokenGrant, error)
	CurrentUser(ctx context.Context) (*domain.Identity, error)
	UpdateCurrentUser(ctx context.Context, update ProfileUpdate) (*domain.Identity, error)
}

type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.Identity, error)
	CreateUser(ctx context.Context, in AccountInput) (*domain.Identity, error)
	UpdateUser(ctx context.Context, id int, in AccountInput) (*domain.Identity, error)
	SetUserActive(ctx context.Context, id int, active bool) error
}

type ResidentAPI interface {
	ListResidents(ctx context.Context) ([]domain.Resident, error)
	GetResident(ctx context.Context, id int) (*domain.Resident, error)
	CreateResident(ctx context.Context, in ResidentInput) (*domain.Resident, error)
	UpdateResident(ctx context.Context, id int, in ResidentInput) (*domain.Resident, error)
	DeleteResident(ctx context.Context, id int) error
	ListApartments(ctx context.Context) ([]domain.Apartment, error)
}

type InvoiceAPI interface {
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	ListResidentInvoices(ctx context.Context, residentID int) ([]domain.Invoice, error)
}

type LockerAPI interface {
	ListLockers(ctx context.Context) ([]domain.Locker, error)
	GetLocker(ctx context.Context, id int) (*domain.Locker, error)
	CreateLocker(ctx context.Context, in LockerInput) error
	UpdateLocker(ctx context.Context, id int, in LockerInput) error
	DeleteLocker(ctx context.Context, id int) error
	ResidentLocker(ctx context.Context, residentID int) (*domain.Locker, error)
	ItemStatus(ctx context.Context, residentID, itemID int) (domain.ItemStatus, error)
}

type ComplaintAPI interface {
	ListComplaints(ctx context.Context) ([]domain.Complaint, error)
	SubmitFeedback(ctx context.Context, residentID int, description string) error
}

type SurveyAPI interface {
	ListSurveys(ctx context.Context) ([]domain.Survey, error)
}

type VisitorAPI interface {
	ListVisitors(ctx context.Context) ([]domain.Visitor, error)
	GetVisitor(ctx context.Context, id int) (*domain.Visitor, error)
	ListParkingCards(ctx context.Context) ([]domain.ParkingCard, error)
	IssueParkingCard(ctx context.Context, in ParkingCardInput) (*domain.ParkingCard, error)
}

// Backend is the full REST collaborator. Every call except IssueToken is
// authenticated with the token held by the session's TokenStore.
type Backend interface {
	AuthAPI
	UserAPI
	ResidentAPI
	InvoiceAPI
	LockerAPI
	ComplaintAPI
	SurveyAPI
	VisitorAPI
}
