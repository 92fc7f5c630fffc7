package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pm-assistant-api/internal/config"
	"github.com/yukikurage/pm-assistant-api/internal/handlers"
	"github.com/yukikurage/pm-assistant-api/internal/logging"
	"github.com/yukikurage/pm-assistant-api/internal/repository"
	"github.com/yukikurage/pm-assistant-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Init(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Source: "pm-assistant-api",
	})
	log := logging.Logger

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to the data store
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, closeStore, err := repository.Open(connectCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open data store: %v", err)
	}

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	// Initialize AI service
	var drafter services.TaskDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Warn("OPENAI_API_KEY not set, AI task drafting is disabled")
	}

	gateway := repository.NewBreakerGateway(repository.NewAnalyticsGateway(store), repository.BreakerSettings{
		Name:        "analytics-store",
		MaxFailures: cfg.BreakerMaxFailures,
		Timeout:     cfg.BreakerTimeout,
		Logger:      log,
	})

	router := handlers.NewRouter(handlers.RouterConfig{
		Members:        services.NewMemberService(store.Members),
		Projects:       services.NewProjectService(store.Projects, store.Members),
		Tasks:          services.NewTaskService(store.Tasks, store.Projects, store.Members, drafter),
		TimeLogs:       services.NewTimeLogService(store.TimeLogs, store.Tasks, store.Members),
		Auth:           services.NewAuthService(store.Users),
		Tokens:         services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		Analytics:      services.NewAnalyticsService(gateway),
		SessionStore:   sessionStore,
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shut down: %v", err)
	}
	if err := closeStore(shutdownCtx); err != nil {
		log.Errorf("Failed to close data store: %v", err)
	}
}

// newSessionStore uses Redis when REDIS_HOST is set and signed cookies otherwise
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	// Configure session options based on environment
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
