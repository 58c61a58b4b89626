package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/georgemunganga/printa-accounts/internal/config"
	"github.com/georgemunganga/printa-accounts/internal/events"
	"github.com/georgemunganga/printa-accounts/internal/modules/account"
	"github.com/georgemunganga/printa-accounts/internal/modules/auth"
	"github.com/georgemunganga/printa-accounts/internal/obs"
	grpcx "github.com/georgemunganga/printa-accounts/internal/transport/grpc"
)

const (
	serviceName    = "printa-accounts"
	serviceVersion = "0.1.0"
)

func main() {
	log := logger.New(logger.DefaultConfig)
	ctx, stop := signal.NotifyContext(logger.WithLogger(context.Background(), log), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("Service failed", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	log := logger.Get(ctx)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	shutdownTracer, err := obs.InitTracer(ctx, serviceName, serviceVersion, cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(shutdownCtx)
	}()

	namespaces, err := account.ParseNamespaceMode(cfg.EmailNamespace)
	if err != nil {
		return err
	}

	// ── Storage ─────────────────────────────────────────────
	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	// ── Events ──────────────────────────────────────────────
	var accountEvents account.Events = events.LogPublisher{Log: log}
	if cfg.RabbitURL != "" {
		publisher, err := events.NewPublisher(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		accountEvents = publisher
	}

	// ── Identity ────────────────────────────────────────────
	secrets := account.NewBcryptDeriver(cfg.BcryptCost)
	accountService := account.NewService(repo, account.UUIDGenerator{}, secrets, accountEvents, account.Config{
		MinPasswordLength: cfg.MinPasswordLength,
		StorageTimeout:    cfg.StorageTimeout,
		Namespaces:        namespaces,
	}, log)
	authService := auth.NewService(repo, secrets, namespaces, []byte(cfg.JWTSecret), cfg.JWTTTL, cfg.StorageTimeout)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		account.Respond(w, http.StatusOK, map[string]bool{"ok": true})
	})
	account.NewHandler(accountService).RegisterRoutes(router)
	auth.NewHandler(authService).RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ── gRPC ────────────────────────────────────────────────
	grpcServer := grpcx.NewGRPCServer(grpc.ChainUnaryInterceptor(grpcx.LoggingInterceptor(log)))
	grpcx.RegisterUserServiceServer(grpcServer, grpcx.NewServer(accountService))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("http", parallel.Fail, func(ctx context.Context) error {
			log.Info("HTTP server starting", zap.String("addr", httpServer.Addr))
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return ctx.Err()
		})
		spawn("grpc", parallel.Fail, func(ctx context.Context) error {
			log.Info("gRPC server starting", zap.String("addr", cfg.GRPCAddr))
			if err := grpcServer.Serve(lis); err != nil {
				return err
			}
			return ctx.Err()
		})
		spawn("watchdog", parallel.Fail, func(ctx context.Context) error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			log.Info("Shutting down")
			err := httpServer.Shutdown(shutdownCtx)
			grpcServer.GracefulStop()
			if err != nil {
				return err
			}
			return ctx.Err()
		})
		return nil
	})
}

func openRepository(ctx context.Context, cfg config.App) (account.Repository, func(), error) {
	log := logger.Get(ctx)

	if cfg.StorageDriver == "memory" {
		repo, err := account.NewMemoryRepository()
		if err != nil {
			return nil, nil, err
		}
		log.Warn("Using in-memory storage, accounts are lost on restart")
		return repo, func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("Successfully connected to the database")

	repo := account.NewPostgresRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, func() { _ = db.Close() }, nil
}
