// Command gateway serves application contexts over HTTP and websockets.
//
//	@title						Apartment client gateway
//	@version					1.0
//	@description				Session, navigation, list screens and realtime chat of the apartment management client.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/api"
	"github.com/oubuilding/apartment-client/internal/api/metrics"
	"github.com/oubuilding/apartment-client/internal/core/ports"
	"github.com/oubuilding/apartment-client/internal/core/service"
	"github.com/oubuilding/apartment-client/internal/infrastructure/backend"
	"github.com/oubuilding/apartment-client/internal/infrastructure/config"
	mongodb "github.com/oubuilding/apartment-client/internal/infrastructure/db/mongo"
	redisdb "github.com/oubuilding/apartment-client/internal/infrastructure/db/redis"
	httpserver "github.com/oubuilding/apartment-client/internal/infrastructure/http"
	"github.com/oubuilding/apartment-client/internal/infrastructure/http/handlers"
	"github.com/oubuilding/apartment-client/internal/infrastructure/imagehost"
	"github.com/oubuilding/apartment-client/internal/infrastructure/queue"
	"github.com/oubuilding/apartment-client/internal/infrastructure/tokenstore"
	"github.com/oubuilding/apartment-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "gateway:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "apartment-gateway",
	})
	if cfg.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}

	checks := make(map[string]handlers.Check)

	var rdb *goredis.Client
	if cfg.Chat.Backend == "redis" || cfg.Tokens.Store == "redis" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = handlers.RedisCheck(rdb)
	}

	var chat ports.ChatStore
	switch cfg.Chat.Backend {
	case "redis":
		chat = redisdb.NewChatLog(rdb, logger.For("chat_store"))
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		chatLog := mongodb.NewChatLog(db, logger.For("chat_store"))
		if err := chatLog.EnsureIndexes(ctx); err != nil {
			return err
		}
		chat = chatLog
		checks["mongo"] = handlers.MongoCheck(db)
	default:
		return fmt.Errorf("unknown CHAT_BACKEND %q", cfg.Chat.Backend)
	}

	var tokens ports.TokenStoreFactory
	switch cfg.Tokens.Store {
	case "memory":
		tokens = tokenstore.Memories()
	case "redis":
		tokens = redisdb.TokenStores(rdb, cfg.TokenTTL())
	default:
		return fmt.Errorf("unknown TOKEN_STORE %q for the gateway", cfg.Tokens.Store)
	}

	runtime := service.NewRuntime(service.Deps{
		Backend: backend.Factory(backendConfig(cfg), logger.For("backend")),
		Tokens:  tokens,
		Chat:    chat,
		Images:  imagehost.New(imagehost.Config{URL: cfg.Images.UploadURL, Preset: cfg.Images.UploadPreset}, logger.For("imagehost")),
		Session: service.SessionOptions{
			OnboardingDelay:    cfg.Session.OnboardingDelay,
			ClearTokenOnLogout: cfg.Session.ClearTokenOnLogout,
		},
		Logger: log,
	})
	registry := service.NewRegistry(runtime, cfg.SessionTTL)
	registry.OnEvict(func(string) { metrics.ActiveSessions.Dec() })
	go registry.Sweep(ctx, time.Minute)

	dispatcher := queue.NewDispatcher(cfg.Chat.Workers, logger.For("queue"))
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Registry:       registry,
		Secret:         cfg.SessionSecret,
		TokenTTL:       cfg.SessionTTL,
		Sender:         dispatcher,
		AllowedOrigins: cfg.Chat.AllowedOrigins,
		Checks:         checks,
		Logger:         logger.For("api"),
	})

	logStartup(log, cfg)
	return httpserver.Serve(ctx, e, ":"+cfg.Port, log)
}

func backendConfig(cfg *config.Config) backend.Config {
	return backend.Config{
		BaseURL:      cfg.Backend.URL,
		ClientID:     cfg.Backend.ClientID,
		ClientSecret: cfg.Backend.ClientSecret,
		Timeout:      cfg.Backend.Timeout,
	}
}

func logStartup(log zerolog.Logger, cfg *config.Config) {
	log.Info().
		Str("env", cfg.Env).
		Str("backend", cfg.Backend.URL).
		Str("chat_backend", cfg.Chat.Backend).
		Str("token_store", cfg.Tokens.Store).
		Int("chat_workers", cfg.Chat.Workers).
		Msg("starting gateway")
}
