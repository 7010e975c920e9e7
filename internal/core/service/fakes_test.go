package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory backend
// ---------------------------------------------------------------------------

type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	grant    *ports.TokenGrant
	issueErr error
	me       *domain.Identity
	meErr    error

	users      []domain.Identity
	usersErr   error
	residents  []domain.Resident
	resErr     error
	lockers    []domain.Locker
	lockersErr error
	statuses   map[int]domain.ItemStatus
	complaints []domain.Complaint
	surveys    []domain.Survey
	invoices   []domain.Invoice
	visitors   []domain.Visitor
	cards      []domain.ParkingCard
	apartments []domain.Apartment

	lockerInputs   []ports.LockerInput
	residentInputs []ports.ResidentInput
	accountInputs  []ports.AccountInput
	cardInputs     []ports.ParkingCardInput
	profile        *ports.ProfileUpdate
	activeSet      map[int]bool
	feedback       []string
}

func (b *fakeBackend) record(call string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)
}

func (b *fakeBackend) called(call string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Contains(b.calls, call)
}

func (b *fakeBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *fakeBackend) IssueToken(_ context.Context, username, password string) (*ports.TokenGrant, error) {
	b.record("IssueToken")
	if b.issueErr != nil {
		return nil, b.issueErr
	}
	return b.grant, nil
}

func (b *fakeBackend) CurrentUser(context.Context) (*domain.Identity, error) {
	b.record("CurrentUser")
	if b.meErr != nil {
		return nil, b.meErr
	}
	id := *b.me
	return &id, nil
}

func (b *fakeBackend) UpdateCurrentUser(_ context.Context, update ports.ProfileUpdate) (*domain.Identity, error) {
	b.record("UpdateCurrentUser")
	b.profile = &update
	id := *b.me
	if update.AvatarURL != "" {
		id.Avatar = update.AvatarURL
	}
	return &id, nil
}

func (b *fakeBackend) ListUsers(context.Context) ([]domain.Identity, error) {
	b.record("ListUsers")
	return slices.Clone(b.users), b.usersErr
}

func (b *fakeBackend) CreateUser(_ context.Context, in ports.AccountInput) (*domain.Identity, error) {
	b.record("CreateUser")
	b.accountInputs = append(b.accountInputs, in)
	return &domain.Identity{Username: in.Username}, nil
}

func (b *fakeBackend) UpdateUser(_ context.Context, id int, in ports.AccountInput) (*domain.Identity, error) {
	b.record(fmt.Sprintf("UpdateUser/%d", id))
	b.accountInputs = append(b.accountInputs, in)
	return &domain.Identity{ID: id, Username: in.Username}, nil
}

func (b *fakeBackend) SetUserActive(_ context.Context, id int, active bool) error {
	b.record("SetUserActive")
	if b.activeSet == nil {
		b.activeSet = make(map[int]bool)
	}
	b.activeSet[id] = active
	return nil
}

func (b *fakeBackend) ListResidents(context.Context) ([]domain.Resident, error) {
	b.record("ListResidents")
	return slices.Clone(b.residents), b.resErr
}

func (b *fakeBackend) GetResident(_ context.Context, id int) (*domain.Resident, error) {
	b.record("GetResident")
	for _, r := range b.residents {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("resident %d: %w", id, domain.ErrNotFound)
}

func (b *fakeBackend) CreateResident(_ context.Context, in ports.ResidentInput) (*domain.Resident, error) {
	b.record("CreateResident")
	b.residentInputs = append(b.residentInputs, in)
	return &domain.Resident{ID: 100, Name: in.Name, RelationshipToHead: in.RelationshipToHead}, nil
}

func (b *fakeBackend) UpdateResident(_ context.Context, id int, in ports.ResidentInput) (*domain.Resident, error) {
	b.record(fmt.Sprintf("UpdateResident/%d", id))
	b.residentInputs = append(b.residentInputs, in)
	return &domain.Resident{ID: id, Name: in.Name, RelationshipToHead: in.RelationshipToHead}, nil
}

func (b *fakeBackend) DeleteResident(_ context.Context, id int) error {
	b.record(fmt.Sprintf("DeleteResident/%d", id))
	return b.resErr
}

func (b *fakeBackend) ListApartments(context.Context) ([]domain.Apartment, error) {
	b.record("ListApartments")
	return b.apartments, nil
}

func (b *fakeBackend) ListInvoices(context.Context) ([]domain.Invoice, error) {
	b.record("ListInvoices")
	return b.invoices, nil
}

func (b *fakeBackend) ListResidentInvoices(_ context.Context, residentID int) ([]domain.Invoice, error) {
	b.record(fmt.Sprintf("ListResidentInvoices/%d", residentID))
	return b.invoices, nil
}

func (b *fakeBackend) ListLockers(context.Context) ([]domain.Locker, error) {
	b.record("ListLockers")
	return slices.Clone(b.lockers), b.lockersErr
}

func (b *fakeBackend) GetLocker(_ context.Context, id int) (*domain.Locker, error) {
	b.record("GetLocker")
	for _, l := range b.lockers {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *fakeBackend) CreateLocker(_ context.Context, in ports.LockerInput) error {
	b.record("CreateLocker")
	b.lockerInputs = append(b.lockerInputs, in)
	return nil
}

func (b *fakeBackend) UpdateLocker(_ context.Context, id int, in ports.LockerInput) error {
	b.record(fmt.Sprintf("UpdateLocker/%d", id))
	b.lockerInputs = append(b.lockerInputs, in)
	return nil
}

func (b *fakeBackend) DeleteLocker(_ context.Context, id int) error {
	b.record(fmt.Sprintf("DeleteLocker/%d", id))
	return nil
}

func (b *fakeBackend) ResidentLocker(_ context.Context, residentID int) (*domain.Locker, error) {
	b.record("ResidentLocker")
	for _, l := range b.lockers {
		if l.ResidentID == residentID {
			return &l, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *fakeBackend) ItemStatus(_ context.Context, residentID, itemID int) (domain.ItemStatus, error) {
	b.record("ItemStatus")
	st, ok := b.statuses[itemID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return st, nil
}

func (b *fakeBackend) ListComplaints(context.Context) ([]domain.Complaint, error) {
	b.record("ListComplaints")
	return slices.Clone(b.complaints), nil
}

func (b *fakeBackend) SubmitFeedback(_ context.Context, residentID int, description string) error {
	b.record("SubmitFeedback")
	b.feedback = append(b.feedback, description)
	return nil
}

func (b *fakeBackend) ListSurveys(context.Context) ([]domain.Survey, error) {
	b.record("ListSurveys")
	return slices.Clone(b.surveys), nil
}

func (b *fakeBackend) ListVisitors(context.Context) ([]domain.Visitor, error) {
	b.record("ListVisitors")
	return slices.Clone(b.visitors), nil
}

func (b *fakeBackend) GetVisitor(_ context.Context, id int) (*domain.Visitor, error) {
	b.record("GetVisitor")
	for _, v := range b.visitors {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (b *fakeBackend) ListParkingCards(context.Context) ([]domain.ParkingCard, error) {
	b.record("ListParkingCards")
	return b.cards, nil
}

func (b *fakeBackend) IssueParkingCard(_ context.Context, in ports.ParkingCardInput) (*domain.ParkingCard, error) {
	b.record("IssueParkingCard")
	b.cardInputs = append(b.cardInputs, in)
	return &domain.ParkingCard{CardNumber: in.CardNumber, VehicleType: in.VehicleType, LicensePlate: in.LicensePlate, VisitorID: in.VisitorID}, nil
}

// ---------------------------------------------------------------------------
// Token slot, realtime store and image host
// ---------------------------------------------------------------------------

type memTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memTokens) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ports.ErrNoToken
	}
	return m.token, nil
}

func (m *memTokens) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func (m *memTokens) get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

type memChat struct {
	mu     sync.Mutex
	seq    int
	logs   map[string][]domain.ChatMessage
	subs   map[string]map[int]func([]domain.ChatMessage)
	nextID int
}

func newMemChat() *memChat {
	return &memChat{
		logs: make(map[string][]domain.ChatMessage),
		subs: make(map[string]map[int]func([]domain.ChatMessage)),
	}
}

func (m *memChat) Append(_ context.Context, path string, msg domain.ChatMessage) (string, error) {
	m.mu.Lock()
	m.seq++
	msg.ID = fmt.Sprintf("m%03d", m.seq)
	m.logs[path] = append(m.logs[path], msg)
	snapshot := slices.Clone(m.logs[path])
	var fns []func([]domain.ChatMessage)
	for _, fn := range m.subs[path] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
	return msg.ID, nil
}

func (m *memChat) Subscribe(_ context.Context, path string, fn func([]domain.ChatMessage)) (ports.Subscription, error) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	if m.subs[path] == nil {
		m.subs[path] = make(map[int]func([]domain.ChatMessage))
	}
	m.subs[path][id] = fn
	snapshot := slices.Clone(m.logs[path])
	m.mu.Unlock()

	fn(snapshot)
	return &memSub{chat: m, path: path, id: id}, nil
}

func (m *memChat) subscribers(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[path])
}

type memSub struct {
	chat *memChat
	path string
	id   int
}

func (s *memSub) Unsubscribe() error {
	s.chat.mu.Lock()
	defer s.chat.mu.Unlock()
	delete(s.chat.subs[s.path], s.id)
	return nil
}

type fakeImages struct {
	url      string
	uploaded []string
}

func (f *fakeImages) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.uploaded = append(f.uploaded, filename)
	return f.url, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type testEnv struct {
	app     *App
	backend *fakeBackend
	tokens  *memTokens
	chat    *memChat
	images  *fakeImages
}

func newTestEnv(t *testing.T, be *fakeBackend, opts SessionOptions) *testEnv {
	t.Helper()
	if be == nil {
		be = &fakeBackend{}
	}
	if opts.OnboardingDelay == 0 {
		opts.OnboardingDelay = 10 * time.Millisecond
	}
	env := &testEnv{
		backend: be,
		tokens:  &memTokens{},
		chat:    newMemChat(),
		images:  &fakeImages{url: "https://img.example/avatar.jpg"},
	}
	rt := NewRuntime(Deps{
		Backend: func(ports.TokenStore) ports.Backend { return be },
		Tokens:  func(string) ports.TokenStore { return env.tokens },
		Chat:    env.chat,
		Images:  env.images,
		Session: opts,
		Logger:  zerolog.Nop(),
	})
	env.app = rt.NewApp("test")
	t.Cleanup(env.app.Shutdown)
	return env
}

func adminIdentity() *domain.Identity {
	return &domain.Identity{ID: 1, Username: "admin", Avatar: "https://img/admin.png"}
}

func residentIdentity() *domain.Identity {
	return &domain.Identity{
		ID:       7,
		Username: "anna",
		Avatar:   "https://img/anna.png",
		Resident: &domain.Resident{ID: 70, Name: "Anna", Apartment: &domain.Apartment{Number: "A1"}},
	}
}

// loginAs logs env in as id through the regular login flow.
func (env *testEnv) loginAs(t *testing.T, id *domain.Identity) {
	t.Helper()
	env.backend.grant = &ports.TokenGrant{AccessToken: "tok-" + id.Username}
	env.backend.me = id
	if _, err := env.app.Session().Login(context.Background(), id.Username, "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
}
