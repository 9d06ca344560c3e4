package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"gradglow/internal/app"
	"gradglow/internal/config"
	"gradglow/internal/database"
	apphttp "gradglow/internal/http"
	"gradglow/internal/http/handlers"
	"gradglow/internal/http/metrics"
	httpmw "gradglow/internal/http/middleware"
	"gradglow/internal/observability"
	"gradglow/internal/repository/postgres"
	"gradglow/internal/repository/redisrepo"
	"gradglow/internal/security"
	"gradglow/internal/store"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()
	database.Migrate(db)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer redisClient.Close()

	profileRepo := postgres.NewProfileRepository(db)
	listingRepo := postgres.NewListingRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	sessionRepo := redisrepo.NewSessionRepository(redisClient, cfg.SessionTTL)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	authService := app.NewAuthService(profileRepo, sessionRepo, jwtProvider, logger, cfg.AccessTokenTTL)

	storeManager := store.NewManager(listingRepo, applicationRepo, logger)
	authService.Subscribe(storeManager.OnSessionChange)

	rateLimiter := httpmw.NewRedisLimiter(redisClient)
	authHandler := handlers.NewAuthHandler(authService, rateLimiter, cfg.SignInLimit, cfg.SignInWindow)
	listingHandler := handlers.NewListingHandler(storeManager, listingRepo, logger)
	applicationHandler := handlers.NewApplicationHandler(storeManager, rateLimiter, cfg.ApplyLimit, cfg.ApplyWindow)
	middleware := httpmw.NewAuthMiddleware(jwtProvider, profileRepo)

	collector := metrics.NewCollector()

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        authHandler,
		ListingHandler:     listingHandler,
		ApplicationHandler: applicationHandler,
		AuthMiddleware:     middleware,
		Metrics:            collector,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
