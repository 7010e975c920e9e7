package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/oubuilding/apartment-client/internal/api/middleware"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

type stubClient struct {
	id        string
	state     domain.SessionState
	session   ports.SessionService
	nav       ports.NavigationService
	directory ports.DirectoryService
	lockers   ports.LockerService
	visitors  ports.VisitorService
	accounts  ports.AccountService
	residents ports.ResidentService
	chat      ports.ChatService
	screens   []string
}

func (s *stubClient) ID() string { return s.id }
func (s *stubClient) State() domain.SessionState { return s.state }
func (s *stubClient) Session() ports.SessionService { return s.session }
func (s *stubClient) Navigation() ports.NavigationService { return s.nav }
func (s *stubClient) Directory() ports.DirectoryService { return s.directory }
func (s *stubClient) Lockers() ports.LockerService { return s.lockers }
func (s *stubClient) Visitors() ports.VisitorService { return s.visitors }
func (s *stubClient) Accounts() ports.AccountService { return s.accounts }
func (s *stubClient) Residents() ports.ResidentService { return s.residents }
func (s *stubClient) Chat() ports.ChatService { return s.chat }

func (s *stubClient) Load(ctx context.Context, screen string, fn func(ctx context.Context) error) error {
	s.screens = append(s.screens, screen)
	return fn(ctx)
}

func as(username string) domain.SessionState {
	id := &domain.Identity{Username: username}
	if username != domain.AdminUsername {
		id.Resident = &domain.Resident{ID: 7, Name: username}
	}
	return domain.SessionState{Identity: id}
}

type stubRegistry struct {
	next   ports.Client
	opened int
	closed []string
}

func (r *stubRegistry) Open() ports.Client {
	r.opened++
	return r.next
}

func (r *stubRegistry) Get(id string) (ports.Client, bool) {
	if r.next != nil && r.next.ID() == id {
		return r.next, true
	}
	return nil, false
}

func (r *stubRegistry) Close(id string) { r.closed = append(r.closed, id) }

type stubSession struct {
	ports.SessionService
	loginFn   func(ctx context.Context, username, password string) (*domain.Identity, error)
	loggedOut bool
	// owner receives the identity on a successful login, as the real client does.
	owner *stubClient
}

func (s *stubSession) Login(ctx context.Context, username, password string) (*domain.Identity, error) {
	id, err := s.loginFn(ctx, username, password)
	if err == nil && s.owner != nil {
		s.owner.state = domain.SessionState{Identity: id}
	}
	return id, err
}

func (s *stubSession) Logout(ctx context.Context) error {
	s.loggedOut = true
	return nil
}

type stubNavigation struct {
	ports.NavigationService
	navigateFn func(tab, screen string) error
	position   ports.Position
}

func (s *stubNavigation) Tree() domain.Tree { return domain.BuildTree(true, domain.RoleAdmin) }

func (s *stubNavigation) Position() ports.Position { return s.position }

func (s *stubNavigation) Navigate(tab, screen string) error {
	if err := s.navigateFn(tab, screen); err != nil {
		return err
	}
	s.position = ports.Position{Tab: tab, Stack: []string{screen}, Focused: screen}
	return nil
}

func (s *stubNavigation) Back() bool {
	if len(s.position.Stack) == 0 {
		return false
	}
	s.position = ports.Position{Tab: s.position.Tab, Focused: domain.ScreenHome, TabBarVisible: true}
	return true
}

func (s *stubNavigation) TabBarVisible() bool { return s.position.TabBarVisible }

type stubDirectory struct {
	ports.DirectoryService
	groups  []ports.ApartmentGroup
	lockers []ports.LockerEntry
	err     error
}

func (s *stubDirectory) Residents(ctx context.Context) ([]ports.ApartmentGroup, error) {
	return s.groups, s.err
}

func (s *stubDirectory) Lockers(ctx context.Context) ([]ports.LockerEntry, error) {
	return s.lockers, s.err
}

type stubLockers struct {
	ports.LockerService
	saved     *ports.LockerForm
	editingID int
	deleted   int
}

func (s *stubLockers) Save(ctx context.Context, form ports.LockerForm, editingID int) error {
	s.saved = &form
	s.editingID = editingID
	return nil
}

func (s *stubLockers) Delete(ctx context.Context, id int) error {
	s.deleted = id
	return nil
}

type stubResidents struct {
	ports.ResidentService
	saved      *ports.ResidentForm
	editingID  int
	deleted    int
	apartments []domain.Apartment
}

func (s *stubResidents) Save(ctx context.Context, form ports.ResidentForm, editingID int) (*domain.Resident, error) {
	s.saved = &form
	s.editingID = editingID
	id := editingID
	if id == 0 {
		id = 50
	}
	return &domain.Resident{ID: id, Name: form.Name, RelationshipToHead: form.RelationshipToHead}, nil
}

func (s *stubResidents) Delete(ctx context.Context, id int) error {
	s.deleted = id
	return nil
}

func (s *stubResidents) Apartments(ctx context.Context) ([]domain.Apartment, error) {
	return s.apartments, nil
}

type stubAccounts struct {
	ports.AccountService
	toggled *domain.Identity
	profile *ports.ProfileForm
	avatar  string
}

func (s *stubAccounts) ToggleActive(ctx context.Context, account domain.Identity) error {
	s.toggled = &account
	return nil
}

func (s *stubAccounts) ChangePasswordAndAvatar(ctx context.Context, form ports.ProfileForm) (*domain.Identity, error) {
	s.profile = &form
	if form.Avatar != nil {
		data, _ := io.ReadAll(form.Avatar.Content)
		s.avatar = string(data)
	}
	return &domain.Identity{Username: "anna", Avatar: "https://img/anna.png"}, nil
}

// newContext builds an echo context already authenticated as client.
func newContext(e *echo.Echo, req *http.Request, client ports.Client) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if client != nil {
		c.Set(middleware.ClientKey, client)
		c.Set(middleware.UsernameKey, client.State().Username())
		c.Set(middleware.RoleKey, string(client.State().Role()))
	}
	return c, rec
}
