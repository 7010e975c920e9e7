package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// Path table of the backend API.
const (
	pathToken          = "/o/token/"
	pathUsers          = "/users/"
	pathCurrentUser    = "/users/current_user/"
	pathApartments     = "/apartments/"
	pathResidents      = "/residents/"
	pathInvoices       = "/invoices/"
	pathLockerItems    = "/lockeritems/"
	pathComplaints     = "/complaints/"
	pathFeedbacks      = "/feedbacks/"
	pathSurveys        = "/surveys/"
	pathVisitors       = "/visitors/"
	pathParkingCards   = "/parkingcards/"
	passwordGrantType  = "password"
	templateID         = "{id}/"
	residentLockerPath = "lockeritem/"
)

func byID(base string, id int) string {
	return base + strconv.Itoa(id) + "/"
}

func get(endpoint, path string) call {
	return call{method: http.MethodGet, endpoint: endpoint, path: path}
}

// ── Auth ──────────────────────────────────────────────────────────────────────

type tokenRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
}

func (c *Client) IssueToken(ctx context.Context, username, password string) (*ports.TokenGrant, error) {
	var grant ports.TokenGrant
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: pathToken,
		path:     pathToken,
		public:   true,
		json: tokenRequest{
			Username:     username,
			Password:     password,
			ClientID:     c.clientID,
			ClientSecret: c.clientSecret,
			GrantType:    passwordGrantType,
		},
	}, &grant)
	if err != nil {
		return nil, err
	}
	if grant.AccessToken == "" {
		return nil, fmt.Errorf("backend: token response without access_token: %w", domain.ErrNetwork)
	}
	return &grant, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*domain.Identity, error) {
	var id domain.Identity
	if err := c.do(ctx, get(pathCurrentUser, pathCurrentUser), &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *Client) UpdateCurrentUser(ctx context.Context, update ports.ProfileUpdate) (*domain.Identity, error) {
	var id domain.Identity
	err := c.do(ctx, call{
		method:   http.MethodPatch,
		endpoint: pathCurrentUser,
		path:     pathCurrentUser,
		form:     newForm().setNonEmpty("password", update.Password).setNonEmpty("avatar", update.AvatarURL),
	}, &id)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

func accountForm(in ports.AccountInput) *form {
	return newForm().
		set("username", in.Username).
		set("first_name", in.FirstName).
		set("last_name", in.LastName).
		setID("resident", in.ResidentID).
		setNonEmpty("password", in.Password)
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.Identity, error) {
	var users []domain.Identity
	if err := c.do(ctx, get(pathUsers, pathUsers), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, in ports.AccountInput) (*domain.Identity, error) {
	var id domain.Identity
	err := c.do(ctx, call{method: http.MethodPost, endpoint: pathUsers, path: pathUsers, form: accountForm(in)}, &id)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID int, in ports.AccountInput) (*domain.Identity, error) {
	var id domain.Identity
	err := c.do(ctx, call{
		method:   http.MethodPatch,
		endpoint: pathUsers + templateID,
		path:     byID(pathUsers, userID),
		form:     accountForm(in),
	}, &id)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *Client) SetUserActive(ctx context.Context, userID int, active bool) error {
	return c.do(ctx, call{
		method:   http.MethodPatch,
		endpoint: pathUsers + templateID,
		path:     byID(pathUsers, userID),
		form:     newForm().set("is_active", strconv.FormatBool(active)),
	}, nil)
}

// ── Residents ─────────────────────────────────────────────────────────────────

func residentForm(in ports.ResidentInput) *form {
	return newForm().
		set("name", in.Name).
		set("relationship_to_head", string(in.RelationshipToHead)).
		setID("apartment", in.ApartmentID)
}

func (c *Client) ListResidents(ctx context.Context) ([]domain.Resident, error) {
	var residents []domain.Resident
	if err := c.do(ctx, get(pathResidents, pathResidents), &residents); err != nil {
		return nil, err
	}
	return residents, nil
}

func (c *Client) GetResident(ctx context.Context, id int) (*domain.Resident, error) {
	var r domain.Resident
	if err := c.do(ctx, get(pathResidents+templateID, byID(pathResidents, id)), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) CreateResident(ctx context.Context, in ports.ResidentInput) (*domain.Resident, error) {
	var r domain.Resident
	err := c.do(ctx, call{method: http.MethodPost, endpoint: pathResidents, path: pathResidents, form: residentForm(in)}, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) UpdateResident(ctx context.Context, id int, in ports.ResidentInput) (*domain.Resident, error) {
	var r domain.Resident
	err := c.do(ctx, call{
		method:   http.MethodPatch,
		endpoint: pathResidents + templateID,
		path:     byID(pathResidents, id),
		form:     residentForm(in),
	}, &r)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) DeleteResident(ctx context.Context, id int) error {
	return c.do(ctx, call{method: http.MethodDelete, endpoint: pathResidents + templateID, path: byID(pathResidents, id)}, nil)
}

func (c *Client) ListApartments(ctx context.Context) ([]domain.Apartment, error) {
	var apartments []domain.Apartment
	if err := c.do(ctx, get(pathApartments, pathApartments), &apartments); err != nil {
		return nil, err
	}
	return apartments, nil
}

// ── Invoices ──────────────────────────────────────────────────────────────────

func (c *Client) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	if err := c.do(ctx, get(pathInvoices, pathInvoices), &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (c *Client) ListResidentInvoices(ctx context.Context, residentID int) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	path := byID(pathResidents, residentID) + "invoices/"
	if err := c.do(ctx, get(pathResidents+templateID+"invoices/", path), &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// ── Lockers ───────────────────────────────────────────────────────────────────

func lockerForm(in ports.LockerInput) *form {
	return newForm().
		setNonEmpty("locker_number", in.Number).
		setID("resident", in.ResidentID).
		setNonEmpty("items[]", in.Item)
}

func (c *Client) ListLockers(ctx context.Context) ([]domain.Locker, error) {
	var lockers []domain.Locker
	if err := c.do(ctx, get(pathLockerItems, pathLockerItems), &lockers); err != nil {
		return nil, err
	}
	return lockers, nil
}

func (c *Client) GetLocker(ctx context.Context, id int) (*domain.Locker, error) {
	var l domain.Locker
	if err := c.do(ctx, get(pathLockerItems+templateID, byID(pathLockerItems, id)), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) CreateLocker(ctx context.Context, in ports.LockerInput) error {
	return c.do(ctx, call{method: http.MethodPost, endpoint: pathLockerItems, path: pathLockerItems, form: lockerForm(in)}, nil)
}

func (c *Client) UpdateLocker(ctx context.Context, id int, in ports.LockerInput) error {
	return c.do(ctx, call{
		method:   http.MethodPatch,
		endpoint: pathLockerItems + templateID,
		path:     byID(pathLockerItems, id),
		form:     lockerForm(in),
	}, nil)
}

func (c *Client) DeleteLocker(ctx context.Context, id int) error {
	return c.do(ctx, call{method: http.MethodDelete, endpoint: pathLockerItems + templateID, path: byID(pathLockerItems, id)}, nil)
}

func (c *Client) ResidentLocker(ctx context.Context, residentID int) (*domain.Locker, error) {
	var l domain.Locker
	path := byID(pathResidents, residentID) + residentLockerPath
	if err := c.do(ctx, get(pathResidents+templateID+residentLockerPath, path), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

type itemStatusResponse struct {
	Status domain.ItemStatus `json:"status"`
}

// ItemStatus reads the per-item status sub-resource. The path has no trailing
// slash on the backend.
func (c *Client) ItemStatus(ctx context.Context, residentID, itemID int) (domain.ItemStatus, error) {
	var resp itemStatusResponse
	path := fmt.Sprintf("%s%d/%sitem/%d", pathResidents, residentID, residentLockerPath, itemID)
	endpoint := pathResidents + templateID + residentLockerPath + "item/{item}"
	if err := c.do(ctx, get(endpoint, path), &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// ── Complaints and surveys ────────────────────────────────────────────────────

type feedbackRequest struct {
	ResidentID  int    `json:"resident_id"`
	Description string `json:"description"`
}

func (c *Client) ListComplaints(ctx context.Context) ([]domain.Complaint, error) {
	var complaints []domain.Complaint
	if err := c.do(ctx, get(pathComplaints, pathComplaints), &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, residentID int, description string) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: pathFeedbacks,
		path:     pathFeedbacks,
		json:     feedbackRequest{ResidentID: residentID, Description: description},
	}, nil)
}

func (c *Client) ListSurveys(ctx context.Context) ([]domain.Survey, error) {
	var surveys []domain.Survey
	if err := c.do(ctx, get(pathSurveys, pathSurveys), &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

// ── Visitors ──────────────────────────────────────────────────────────────────

func (c *Client) ListVisitors(ctx context.Context) ([]domain.Visitor, error) {
	var visitors []domain.Visitor
	if err := c.do(ctx, get(pathVisitors, pathVisitors), &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

func (c *Client) GetVisitor(ctx context.Context, id int) (*domain.Visitor, error) {
	var v domain.Visitor
	if err := c.do(ctx, get(pathVisitors+templateID, byID(pathVisitors, id)), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) ListParkingCards(ctx context.Context) ([]domain.ParkingCard, error) {
	var cards []domain.ParkingCard
	if err := c.do(ctx, get(pathParkingCards, pathParkingCards), &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) IssueParkingCard(ctx context.Context, in ports.ParkingCardInput) (*domain.ParkingCard, error) {
	var card domain.ParkingCard
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: pathParkingCards,
		path:     pathParkingCards,
		form: newForm().
			set("card_number", in.CardNumber).
			set("vehicle_type", string(in.VehicleType)).
			set("license_plate", in.LicensePlate).
			setNonEmpty("color", in.Color).
			setInt("visitor", in.VisitorID),
	}, &card)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

var _ ports.Backend = (*Client)(nil)
