// @title           ClipStash API
// @version         1.0
// @description     Collaborative clipboard service with shared product workspaces, granular sharing and family groups.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/hmalik/clipstash/docs"
	"github.com/hmalik/clipstash/internal/auth"
	"github.com/hmalik/clipstash/internal/clipboard"
	"github.com/hmalik/clipstash/internal/config"
	"github.com/hmalik/clipstash/internal/database"
	"github.com/hmalik/clipstash/internal/family"
	"github.com/hmalik/clipstash/internal/product"
	"github.com/hmalik/clipstash/internal/realtime"
	"github.com/hmalik/clipstash/internal/share"
	"github.com/hmalik/clipstash/internal/system"
	"github.com/hmalik/clipstash/internal/user"
	"github.com/hmalik/clipstash/internal/utilities"
	mw "github.com/hmalik/clipstash/pkg/middleware"
)

func main() {
	// Load .env if present; otherwise rely on the process environment.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := database.Connect(ctx, cfg.MongoURI)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	db := client.Database(cfg.MongoDB)
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = database.EnsureIndexes(ctx, db, logger)
	cancel()
	if err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}
	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDB))

	// Realtime hub, one per process
	hub := realtime.NewHub(logger)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Auth feature
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := auth.NewService(userRepo, tokens)
	authHandler := auth.NewHandler(authService)
	verifier := auth.NewVerifier(tokens, userRepo)

	// Product feature
	productRepo := product.NewRepository(db)
	productService := product.NewService(productRepo, userRepo)
	productHandler := product.NewHandler(productService)

	// Clipboard feature
	clipboardRepo := clipboard.NewRepository(db)
	clipboardService := clipboard.NewService(clipboardRepo, productService, hub)
	clipboardHandler := clipboard.NewHandler(clipboardService)

	// Share feature
	shareService := share.NewService(clipboardRepo, productService, userRepo, hub)
	shareHandler := share.NewHandler(shareService)

	// Family feature
	familyRepo := family.NewRepository(db)
	familyService := family.NewService(familyRepo, userRepo)
	familyHandler := family.NewHandler(familyService)

	// Utilities feature
	utilitiesHandler := utilities.NewHandler(utilities.NewService())

	// System endpoints
	systemHandler := system.NewHandler(db, cfg)

	// Realtime transport
	realtimeHandler := realtime.NewHandler(hub, productService)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())

		// Identity routes need a valid token only; a fresh account holds
		// no grants yet and must still reach its profile and first product.
		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(verifier))
			r.Mount("/users", userHandler.Routes())
			r.Mount("/products", productHandler.Routes())
			r.Mount("/family", familyHandler.Routes())
			r.Mount("/utilities", utilitiesHandler.Routes())
		})

		// Resource routes additionally require an active grant somewhere.
		r.Group(func(r chi.Router) {
			r.Use(mw.AuthWithGrant(verifier))
			r.Mount("/clipboard", clipboardHandler.Routes())
			r.Mount("/shares", shareHandler.Routes())
			r.Mount("/realtime", realtimeHandler.Routes())
		})

		r.Mount("/system", systemHandler.Routes(mw.Auth(verifier)))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
