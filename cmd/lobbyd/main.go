package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/atoz-servo/lobby-service/config"
	"github.com/atoz-servo/lobby-service/internal/call"
	"github.com/atoz-servo/lobby-service/internal/events"
	"github.com/atoz-servo/lobby-service/internal/postgres"
	"github.com/atoz-servo/lobby-service/internal/service"
	"github.com/atoz-servo/lobby-service/internal/session"
	httpx "github.com/atoz-servo/lobby-service/internal/transport/http"
	"github.com/atoz-servo/lobby-service/internal/transport/ws"
	"github.com/atoz-servo/lobby-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting lobby-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:             cfg.Postgres.DSN,
		ApplicationName: cfg.Logging.Service,
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// --- repos ---
	roomRepo := postgres.NewRoomRepository(pool)
	msgRepo := postgres.NewMessageRepository(pool)

	// --- session (display name / current room pointer) ---
	sess, err := session.Open(cfg.Session.Path)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	// --- services ---
	bus := events.NewBus()
	reclaimer := service.NewReclaimer(roomRepo, bus, cfg.Lobby.CheckAfterDur())
	lobbySvc := service.NewLobbyService(roomRepo, sess, reclaimer, bus)
	chatSvc := service.NewChatService(msgRepo, bus, cfg.Lobby.MaxMessageLen)
	sweeper := service.NewSweeper(roomRepo, bus,
		cfg.Lobby.StaleAfterDur(), cfg.Lobby.LookbackDur(), cfg.Lobby.SweepEveryDur())
	caller := call.NewManager()

	// --- WS Hub & Server ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, lobbySvc, chatSvc, bus)
	go wsServer.Run(ctx)

	// резервная уборка прямо в процессе; внешний cron гоняет cmd/sweeper
	go sweeper.Run(ctx)

	// --- HTTP ---
	handler := httpx.NewHandler(lobbySvc, chatSvc, caller)
	router := httpx.NewRouter(handler, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal")
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	lobbySvc.Wait() // дождаться фоновых join-записей
	slog.Info("stopped")
}
