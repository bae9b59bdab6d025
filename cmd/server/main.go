package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpAdapter "github.com/khoahotran/folio/adapters/http"
	"github.com/khoahotran/folio/adapters/oauth"
	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/app"
	authUC "github.com/khoahotran/folio/internal/application/usecase/auth"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
	"github.com/khoahotran/folio/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Folio API server...", zap.String("env", cfg.App.Env), zap.String("store", cfg.Store.Driver))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "folio-api")
	if err != nil {
		appLogger.Fatal("Cannot initialize tracing", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Infrastructure
	store, err := persistence.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open document store", err)
	}

	cache, closeCache, err := app.OpenCache(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect cache", err)
	}

	publisher, err := app.OpenPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka", err)
	}

	// Use cases
	svcs := app.NewServices(cfg, app.Deps{Store: store, Cache: cache, Publisher: publisher}, appLogger)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	loginUseCase := authUC.NewLoginUseCase(oauth.NewGitHubProvider(cfg), jwtSvc, appLogger)

	// HTTP
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Auth:       httpAdapter.NewAuthHandler(loginUseCase, cfg.App.Env == "production"),
		Profile:    httpAdapter.NewProfileHandler(svcs.Profile, appLogger),
		Projects:   httpAdapter.NewProjectHandler(svcs.Projects, svcs.Resolver, appLogger),
		Posts:      httpAdapter.NewPostHandler(svcs.Posts, svcs.Feed, svcs.RSS, svcs.Resolver, appLogger),
		Experience: httpAdapter.NewExperienceHandler(svcs.Experience, svcs.Resolver, appLogger),
		Portfolio:  httpAdapter.NewPortfolioHandler(svcs.Portfolio),
		Backup:     httpAdapter.NewBackupHandler(svcs.Export),
	}, jwtSvc, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server stopped unexpectedly", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	if err := svcs.Publisher.Close(); err != nil {
		appLogger.Error("Failed to close event publisher", err)
	}
	if err := closeCache(); err != nil {
		appLogger.Error("Failed to close cache", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		appLogger.Error("Failed to close document store", err)
	}
	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		appLogger.Error("Failed to flush traces", err)
	}
	appLogger.Info("Server exited")
}
