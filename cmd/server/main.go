package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/vedran77/taskly/internal/auth"
	"github.com/vedran77/taskly/internal/config"
	"github.com/vedran77/taskly/internal/database"
	"github.com/vedran77/taskly/internal/logger"
	"github.com/vedran77/taskly/internal/repository"
	"github.com/vedran77/taskly/internal/repository/memory"
	mongorepo "github.com/vedran77/taskly/internal/repository/mongodb"
	postgresrepo "github.com/vedran77/taskly/internal/repository/postgres"
	"github.com/vedran77/taskly/internal/service"
	"github.com/vedran77/taskly/internal/transport/http/handlers"
)

const shutdownTimeout = 15 * time.Second

type store struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	pinger repository.Pinger
	close  func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDB)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &store{
			users:  mongorepo.NewUserRepo(db),
			tasks:  mongorepo.NewTaskRepo(db),
			pinger: database.MongoPinger{Client: client},
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(ctx); err != nil {
					logger.LogError(err, "disconnecting mongo")
				}
			},
		}, nil

	case config.StorePostgres:
		pool, err := database.ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgresrepo.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &store{
			users:  postgresrepo.NewUserRepo(pool),
			tasks:  postgresrepo.NewTaskRepo(pool),
			pinger: pool,
			close:  pool.Close,
		}, nil

	case config.StoreMemory:
		mem := memory.NewStore()
		return &store{
			users:  memory.NewUserRepo(mem),
			tasks:  memory.NewTaskRepo(mem),
			pinger: mem,
			close:  func() {},
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.ErrorLogger.Fatalf("loading config: %v", err)
	}
	logger.Init(cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store
	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.ErrorLogger.Fatalf("opening %s store: %v", cfg.StoreDriver, err)
	}
	defer st.close()
	logger.LogInfo("Connected to %s store", cfg.StoreDriver)

	// Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	authService := service.NewAuthService(st.users, tokens, hasher)
	taskService := service.NewTaskService(st.tasks)
	userService := service.NewUserService(st.users, st.tasks, hasher)

	// Routes
	router := handlers.NewRouter(handlers.RouterConfig{
		AuthService: authService,
		TaskService: taskService,
		UserService: userService,
		Store:       st.pinger,
		Env:         cfg.Env,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.LogInfo("Starting server on %s (%s)", srv.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.LogError(err, "server stopped")
		}
		return
	case <-ctx.Done():
	}

	logger.LogInfo("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "graceful shutdown")
	}
}
