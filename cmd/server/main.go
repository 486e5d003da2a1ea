package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"

	"github.com/focusnest/user-sync/internal/clerk"
	"github.com/focusnest/user-sync/internal/config"
	"github.com/focusnest/user-sync/internal/httpapi"
	sharedauth "github.com/focusnest/user-sync/internal/platform/auth"
	"github.com/focusnest/user-sync/internal/platform/logging"
	sharedserver "github.com/focusnest/user-sync/internal/platform/server"
	"github.com/focusnest/user-sync/internal/user"
	"github.com/focusnest/user-sync/internal/usersync"
	"github.com/focusnest/user-sync/internal/webhook"
)

const serviceName = "user-sync"

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.NewLogger(serviceName)

	verifier, err := webhook.NewVerifier(cfg.Webhook.Secret)
	if err != nil {
		panic(fmt.Errorf("webhook verifier error: %w", err))
	}

	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		panic(fmt.Errorf("store init error: %w", err))
	}
	defer cleanup()

	var mirror usersync.MetadataMirror
	if cfg.Clerk.SecretKey != "" {
		mirror = clerk.NewClient(cfg.Clerk.APIURL, cfg.Clerk.SecretKey)
	} else {
		logger.Warn("CLERK_SECRET_KEY not set; metadata mirror disabled")
	}
	dispatcher := usersync.NewDispatcher(store, mirror, logger)

	authVerifier, err := sharedauth.NewVerifier(sharedauth.Config{
		Mode:     cfg.Auth.Mode,
		JWKSURL:  cfg.Auth.JWKSURL,
		Audience: cfg.Auth.Audience,
		Issuer:   cfg.Auth.Issuer,
	})
	if err != nil {
		panic(fmt.Errorf("auth verifier error: %w", err))
	}

	router := sharedserver.NewRouter(serviceName, func(r chi.Router) {
		httpapi.RegisterWebhookRoutes(r, verifier, dispatcher, logger)
		httpapi.RegisterHealthRoutes(r, store, string(cfg.DataStore), logger)

		r.Group(func(r chi.Router) {
			r.Use(sharedauth.Middleware(authVerifier))
			httpapi.RegisterUserRoutes(r, store, logger)
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("user sync configured", slog.String("dataStore", string(cfg.DataStore)), slog.String("authMode", string(cfg.Auth.Mode)))
	if err := sharedserver.Run(ctx, srv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

func newStore(ctx context.Context, cfg config.Config) (user.Store, func(), error) {
	ids := user.NewUUIDGenerator()
	clock := user.NewSystemClock()

	switch cfg.DataStore {
	case config.DataStoreFirestore:
		if cfg.Firestore.EmulatorHost != "" {
			if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.Firestore.EmulatorHost); err != nil {
				return nil, nil, fmt.Errorf("set FIRESTORE_EMULATOR_HOST: %w", err)
			}
		}

		client, err := firestore.NewClient(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}
		return user.NewFirestoreStore(client, ids, clock), func() { _ = client.Close() }, nil
	case config.DataStorePostgres:
		db, err := user.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := user.RunMigrations(migrateCtx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
		return user.NewPostgresStore(db, ids, clock), func() { _ = db.Close() }, nil
	default:
		return user.NewMemoryStore(ids, clock), func() {}, nil
	}
}
