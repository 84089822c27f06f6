package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"socialfeed/internal/authstate"
	"socialfeed/internal/config"
	"socialfeed/internal/database"
	"socialfeed/internal/handler"
	"socialfeed/internal/identity"
	redisclient "socialfeed/internal/redis"
	"socialfeed/internal/repository"
	"socialfeed/internal/service"
	"socialfeed/internal/storage"
)

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to the document store and Redis
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	rdb, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	if err := rdb.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer rdb.Close()

	// 3. Repositories
	accountRepo := repository.NewAccountRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)

	// 4. Identity provider and the auth state actor. The provider
	// subscription lives for the whole process; the store applies every
	// state change in arrival order.
	provider := identity.NewAccountProvider(accountRepo, rdb, cfg)
	if err := provider.Start(ctx); err != nil {
		return fmt.Errorf("failed to start identity provider: %w", err)
	}
	defer provider.Close()

	persister := authstate.NewRedisPersister(rdb, cfg.StateNamespace)
	store := authstate.NewStore(provider, profileRepo, persister)
	go store.Run(ctx)

	// 5. Object store and services
	objects, err := storage.NewR2Store(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create object store: %w", err)
	}
	postService := service.NewPostService(postRepo)

	// 6. HTTP surface
	router := NewRouter(RouterConfig{
		AuthHandler:   handler.NewAuthHandler(store),
		PostHandler:   handler.NewPostHandler(postService),
		UploadHandler: handler.NewUploadHandler(objects),
		Store:         store,
	})

	srv := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on :%s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
		return err
	}
	return nil
}
