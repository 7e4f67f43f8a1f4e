package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"translation_desk/internal/config"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"
)

// @title           Translation Desk API
// @version         1.0
// @description     Translation quote lifecycle, price estimation and checkout.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	cfg, err := config.Load(env)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Failed to startup the application: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	app, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	srv := &http.Server{Addr: cfg.HTTP.Addr(), Handler: app.router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[http] listening addr=%s env=%s storage=%s", srv.Addr, cfg.Environment, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		log.Printf("[http] shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return app.notifier.Run(gctx) })
	if app.reminders != nil {
		g.Go(func() error { return app.reminders.Run(gctx) })
	}

	return g.Wait()
}
