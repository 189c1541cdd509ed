package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/atoz-servo/lobby-service/config"
	"github.com/atoz-servo/lobby-service/internal/events"
	"github.com/atoz-servo/lobby-service/internal/postgres"
	"github.com/atoz-servo/lobby-service/internal/service"
	"github.com/atoz-servo/lobby-service/pkg/logger"
)

// Точка входа для планировщика: один проход уборки и выход.
// С флагом -loop держит расписание сам (каждые sweepEvery).
func main() {
	loop := flag.Bool("loop", false, "run on the configured schedule instead of once")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:     logger.Env(cfg.Logging.Env),
		Service: "lobby-sweeper",
		Version: cfg.Logging.Version,
		Backend: logger.Backend(cfg.Logging.Backend),
		Debug:   cfg.Logging.Debug,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:             cfg.Postgres.DSN,
		ApplicationName: "lobby-sweeper",
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	sweeper := service.NewSweeper(
		postgres.NewRoomRepository(pool),
		events.NewBus(), // подписчиков в этом процессе нет
		cfg.Lobby.StaleAfterDur(), cfg.Lobby.LookbackDur(), cfg.Lobby.SweepEveryDur(),
	)

	if *loop {
		slog.Info("sweeper loop started", "every", cfg.Lobby.SweepEveryDur())
		sweeper.Run(ctx)
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := sweeper.RunOnce(runCtx)
	if err != nil {
		log.Fatalf("sweep: %v", err)
	}
	slog.Info("sweep finished", "deleted", deleted)
}
