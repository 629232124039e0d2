// Package server boots the store: configuration, backing stores,
// services, HTTP, and a clean shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/vastra/app/graphql"
	"github.com/shashiranjanraj/vastra/app/jobs"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/routes"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/idempotency"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/mail"
	"github.com/shashiranjanraj/vastra/pkg/payment"
	"github.com/shashiranjanraj/vastra/pkg/queue"
	"github.com/shashiranjanraj/vastra/pkg/reconcile"
	"github.com/shashiranjanraj/vastra/pkg/storage"
)

// Start boots everything and blocks until SIGINT/SIGTERM.
func Start() error {
	cfg, err := config.LoadApp()
	if err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	// Redis backs checkout's idempotency claims. Without it claims are
	// process-local, which only protects a single node.
	var claims idempotency.Store
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, idempotency claims are in-process only", "error", err)
		claims = idempotency.NewMemoryStore()
	} else {
		claims = idempotency.NewRedisStore(cache.RDB)
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	// Mongo carries shipped logs and the reconciliation journal. Without
	// it orphan charges still land in the ERROR log, but an operator has
	// to grep for them.
	var journal reconcile.Journal = reconcile.NewMemoryJournal()
	if cfg.MongoURI != "" {
		if h, err := logger.NewMongoHandler(cfg.MongoURI, cfg.MongoDB, "logs"); err != nil {
			logger.Warn("mongo log shipping disabled", "error", err)
		} else {
			logger.UseHandler(logger.NewMultiHandler(logger.L.Handler(), h))
			defer h.Close()
		}

		if j, err := reconcile.NewMongoJournal(cfg.MongoURI, cfg.MongoDB); err != nil {
			logger.Warn("mongo reconciliation journal disabled", "error", err)
		} else {
			journal = j
		}
	}

	tokens := auth.NewTokens(cfg.Secret)

	users := repositories.NewUserRepository(database.DB)
	items := repositories.NewItemRepository(database.DB)
	carts := repositories.NewCartRepository(database.DB)
	orders := repositories.NewOrderRepository(database.DB)

	// Reset mail goes through the queue; workers deliver it over SMTP so
	// the GraphQL request never waits on a mail server.
	jobs.UseMailer(mail.NewSMTP(mail.SMTPFromConfig()))
	jobs.RegisterAll()
	queue.UseDB(database.DB)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	queue.StartWorkers(workerCtx, 2)

	gateway := payment.NewStripeGateway(cfg.StripeKey)

	resolver := &graphql.Resolver{
		Auth:     services.NewAuthService(users, tokens),
		Reset:    services.NewResetService(users, jobs.QueueSender{}, tokens, cfg.FrontendURL),
		Items:    services.NewItemService(items),
		Carts:    services.NewCartService(carts, items),
		Users:    services.NewUserService(users),
		Orders:   services.NewOrderService(orders),
		Checkout: services.NewCheckoutService(carts, orders, gateway, claims, journal, cfg.StripeCurrency),
	}

	schema, err := graphql.NewSchema(resolver)
	if err != nil {
		return fmt.Errorf("server: build schema: %w", err)
	}

	uploads, err := storage.FromConfig()
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}

	handler := routes.New(routes.Deps{
		Schema:      schema,
		Tokens:      tokens,
		Users:       users,
		Uploads:     uploads,
		FrontendURL: cfg.FrontendURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("vastra listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
