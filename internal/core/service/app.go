package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// DefaultOnboardingDelay is how long after login the avatar/password setup
// screen is pushed.
const DefaultOnboardingDelay = 100 * time.Millisecond

type SessionOptions struct {
	OnboardingDelay    time.Duration
	ClearTokenOnLogout bool
}

// BackendFactory binds a backend client to the token slot of one session.
type BackendFactory func(tokens ports.TokenStore) ports.Backend

// Deps are the collaborators shared by every application context.
type Deps struct {
	Backend BackendFactory
	Tokens  ports.TokenStoreFactory
	Chat    ports.ChatStore
	Images  ports.ImageHost
	Session SessionOptions
	Logger  zerolog.Logger
}

// Runtime builds application contexts from shared dependencies.
type Runtime struct {
	deps Deps
}

func NewRuntime(deps Deps) *Runtime {
	if deps.Session.OnboardingDelay <= 0 {
		deps.Session.OnboardingDelay = DefaultOnboardingDelay
	}
	return &Runtime{deps: deps}
}

// App is one application context: the session state, the only place it can
// change (Dispatch), the navigator driven by it and the screen services.
type App struct {
	id  string
	log zerolog.Logger

	mu        sync.RWMutex
	state     domain.SessionState
	listeners []func(domain.SessionState)

	loadersMu sync.Mutex
	loaders   map[string]*Loader

	nav       *Navigator
	session   *SessionService
	directory *DirectoryService
	lockers   *LockerService
	visitors  *VisitorService
	accounts  *AccountService
	residents *ResidentService
	chat      *ChatService
}

// NewApp creates the context identified by id, logged out.
func (r *Runtime) NewApp(id string) *App {
	tokens := r.deps.Tokens(id)
	backend := r.deps.Backend(tokens)
	log := r.deps.Logger.With().Str("session_id", id).Logger()

	a := &App{
		id:      id,
		log:     log,
		loaders: make(map[string]*Loader),
		nav:     NewNavigator(),
	}
	a.nav.OnLeave(a.unmount)
	a.OnChange(a.nav.Rebuild)

	a.session = NewSessionService(a, backend, tokens, r.deps.Session, component(log, "session"))
	a.directory = NewDirectoryService(backend, component(log, "directory"))
	a.lockers = NewLockerService(backend, component(log, "lockers"))
	a.visitors = NewVisitorService(backend, component(log, "visitors"))
	a.accounts = NewAccountService(a, backend, r.deps.Images, component(log, "accounts"))
	a.residents = NewResidentService(a, backend, component(log, "residents"))
	a.chat = NewChatService(a, r.deps.Chat, backend, component(log, "chat"))
	return a
}

func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func (a *App) ID() string { return a.id }

func (a *App) State() domain.SessionState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Dispatch applies action and notifies listeners when the identity changed.
func (a *App) Dispatch(action domain.SessionAction) domain.SessionState {
	a.mu.Lock()
	prev := a.state
	a.state = domain.Reduce(a.state, action)
	next := a.state
	listeners := slices.Clone(a.listeners)
	a.mu.Unlock()

	if prev.Identity != next.Identity {
		a.log.Debug().Str("action", string(action.Type)).Str("username", next.Username()).Msg("session changed")
		for _, fn := range listeners {
			fn(next)
		}
	}
	return next
}

// OnChange registers fn to run after every identity change.
func (a *App) OnChange(fn func(domain.SessionState)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Load runs fn under the stale-result guard of screen.
func (a *App) Load(ctx context.Context, screen string, fn func(ctx context.Context) error) error {
	a.loadersMu.Lock()
	l, ok := a.loaders[screen]
	if !ok {
		l = &Loader{}
		a.loaders[screen] = l
	}
	a.loadersMu.Unlock()

	err := l.Run(ctx, fn)
	if err == ErrStale {
		a.log.Debug().Str("screen", screen).Msg("dropped stale load")
	}
	return err
}

func (a *App) unmount(screens []string) {
	a.loadersMu.Lock()
	defer a.loadersMu.Unlock()
	for _, s := range screens {
		if l, ok := a.loaders[s]; ok {
			l.Unmount()
			delete(a.loaders, s)
		}
	}
}

// Shutdown stops pending timers and in-flight loads.
func (a *App) Shutdown() {
	a.session.cancelOnboarding()
	a.loadersMu.Lock()
	defer a.loadersMu.Unlock()
	for s, l := range a.loaders {
		l.Unmount()
		delete(a.loaders, s)
	}
}

func (a *App) Session() ports.SessionService { return a.session }
func (a *App) Navigation() ports.NavigationService { return a.nav }
func (a *App) Directory() ports.DirectoryService { return a.directory }
func (a *App) Lockers() ports.LockerService { return a.lockers }
func (a *App) Visitors() ports.VisitorService { return a.visitors }
func (a *App) Accounts() ports.AccountService { return a.accounts }
func (a *App) Residents() ports.ResidentService { return a.residents }
func (a *App) Chat() ports.ChatService { return a.chat }
