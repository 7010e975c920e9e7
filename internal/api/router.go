package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/oubuilding/apartment-client/docs"
	"github.com/oubuilding/apartment-client/internal/api/handler"
	"github.com/oubuilding/apartment-client/internal/api/middleware"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
	"github.com/oubuilding/apartment-client/internal/infrastructure/http/handlers"
)

// Deps are what the gateway routes need.
type Deps struct {
	Registry       ports.ClientRegistry
	Secret         string
	TokenTTL       time.Duration
	Sender         handler.Enqueuer
	AllowedOrigins []string
	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handlers.Check
	// Metrics receives the per-request HTTP metrics. Nil means the default
	// registry served at /metrics.
	Metrics prometheus.Registerer
	Logger  zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	reg := deps.Metrics
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	e.Use(middleware.Metrics(reg))

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(deps.Registry, deps.Secret, deps.TokenTTL, deps.Logger)
	navigationHandler := handler.NewNavigationHandler()
	adminHandler := handler.NewAdminHandler()
	residentHandler := handler.NewResidentHandler()
	chatHandler := handler.NewChatHandler(deps.Sender, deps.AllowedOrigins, deps.Logger)

	authMiddleware := middleware.Auth(deps.Secret, deps.Registry)
	admin := domain.RoleAdmin
	resident := domain.RoleResident

	// --- Session routes ---
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/logout", sessionHandler.Logout, authMiddleware)
	e.GET("/session", sessionHandler.Get, authMiddleware)

	// --- Navigation routes ---
	nav := e.Group("/navigation", authMiddleware)
	nav.GET("", navigationHandler.Get)
	nav.POST("/navigate", navigationHandler.Navigate)
	nav.POST("/back", navigationHandler.Back)
	nav.GET("/tabbar", navigationHandler.TabBar)

	// --- Admin routes ---
	a := e.Group("/admin", authMiddleware, middleware.RBAC(admin))
	a.GET("/residents", adminHandler.Residents)
	a.POST("/residents", adminHandler.CreateResident)
	a.GET("/residents/:id", adminHandler.Resident)
	a.PATCH("/residents/:id", adminHandler.UpdateResident)
	a.DELETE("/residents/:id", adminHandler.DeleteResident)
	a.GET("/apartments", adminHandler.Apartments)
	a.GET("/guests", adminHandler.Guests)
	a.GET("/guests/:id", adminHandler.Guest)
	a.POST("/guests/:id/parking-card", adminHandler.IssueParkingCard)
	a.GET("/lockers", adminHandler.Lockers)
	a.POST("/lockers", adminHandler.CreateLocker)
	a.GET("/lockers/:id", adminHandler.Locker)
	a.PATCH("/lockers/:id", adminHandler.UpdateLocker)
	a.DELETE("/lockers/:id", adminHandler.DeleteLocker)
	a.GET("/accounts", adminHandler.Accounts)
	a.POST("/accounts", adminHandler.CreateAccount)
	a.PATCH("/accounts/:id", adminHandler.UpdateAccount)
	a.POST("/accounts/:id/toggle", adminHandler.ToggleAccount)
	a.GET("/payments", adminHandler.Payments)
	a.GET("/complaints", adminHandler.Complaints)
	a.GET("/surveys", adminHandler.Surveys)

	// --- Routes about the caller ---
	me := e.Group("/me", authMiddleware)
	me.GET("/invoices", residentHandler.Invoices, middleware.RBAC(resident))
	me.GET("/locker", residentHandler.Locker, middleware.RBAC(resident))
	me.POST("/complaints", residentHandler.Complain, middleware.RBAC(resident))
	me.PATCH("/profile", residentHandler.Profile, middleware.RBAC(admin, resident))

	// --- Chat routes ---
	chat := e.Group("/chat", authMiddleware, middleware.RBAC(admin, resident))
	chat.GET("/contacts", chatHandler.Contacts)
	chat.GET("/peer", chatHandler.Peer)
	chat.GET("/ws", chatHandler.Feed)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Docs and metrics ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
