// Command apartctl is the terminal client of the apartment management app.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/oubuilding/apartment-client/internal/cli"
	"github.com/oubuilding/apartment-client/internal/core/ports"
	"github.com/oubuilding/apartment-client/internal/core/service"
	"github.com/oubuilding/apartment-client/internal/infrastructure/backend"
	"github.com/oubuilding/apartment-client/internal/infrastructure/config"
	mongodb "github.com/oubuilding/apartment-client/internal/infrastructure/db/mongo"
	redisdb "github.com/oubuilding/apartment-client/internal/infrastructure/db/redis"
	"github.com/oubuilding/apartment-client/internal/infrastructure/imagehost"
	"github.com/oubuilding/apartment-client/internal/infrastructure/tokenstore"
	"github.com/oubuilding/apartment-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if _, set := os.LookupEnv("LOG_LEVEL"); !set {
		level = "warn"
	}
	log := logger.Init(logger.Options{Level: level, Pretty: true})

	tokens, err := tokenFile(cfg.Tokens)
	if err != nil {
		return err
	}

	runtime := service.NewRuntime(service.Deps{
		Backend: backend.Factory(backend.Config{
			BaseURL:      cfg.Backend.URL,
			ClientID:     cfg.Backend.ClientID,
			ClientSecret: cfg.Backend.ClientSecret,
			Timeout:      cfg.Backend.Timeout,
		}, logger.For("backend")),
		Tokens: func(string) ports.TokenStore { return tokens },
		Chat:   cli.NewLazyChatStore(chatDialer(cfg)),
		Images: imagehost.New(imagehost.Config{URL: cfg.Images.UploadURL, Preset: cfg.Images.UploadPreset}, logger.For("imagehost")),
		Session: service.SessionOptions{
			OnboardingDelay: cfg.Session.OnboardingDelay,
			// The token file is the only session a terminal has.
			ClearTokenOnLogout: true,
		},
		Logger: log,
	})
	app := runtime.NewApp("apartctl")
	defer app.Shutdown()

	return cli.Root(&cli.Env{Client: app, Out: os.Stdout}).Execute(ctx, args, os.Stdout)
}

func tokenFile(cfg config.TokenConfig) (*tokenstore.File, error) {
	if cfg.Key == "" {
		return nil, errors.New("TOKEN_KEY is required to seal the token file")
	}
	path := cfg.File
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config dir: %w", err)
		}
		path = filepath.Join(dir, "apartctl", "token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create token dir: %w", err)
	}
	return tokenstore.NewFile(path, []byte(cfg.Key))
}

func chatDialer(cfg *config.Config) cli.DialFunc {
	return func(ctx context.Context) (ports.ChatStore, error) {
		switch cfg.Chat.Backend {
		case "redis":
			rdb, err := redisdb.Connect(ctx, redisdb.Config{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				return nil, err
			}
			return redisdb.NewChatLog(rdb, logger.For("chat_store")), nil
		case "mongo":
			_, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				return nil, err
			}
			return mongodb.NewChatLog(db, logger.For("chat_store")), nil
		default:
			return nil, fmt.Errorf("unknown CHAT_BACKEND %q", cfg.Chat.Backend)
		}
	}
}
