// The sweeper binary runs the daily expiry sweep once and exits. It is meant
// to be scheduled (cron, Cloud Scheduler) around 03:00 UTC.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sumquiz/entitlements/pkg/account"
	"github.com/sumquiz/entitlements/pkg/config"
	"github.com/sumquiz/entitlements/pkg/entitlement"
	"github.com/sumquiz/entitlements/pkg/environment"
	"github.com/sumquiz/entitlements/pkg/logger"
	"github.com/sumquiz/entitlements/pkg/mongo"
)

type sweeperConfig struct {
	Env     string        `env:"APP_ENV" envDefault:"development"`
	Timeout time.Duration `env:"SWEEP_TIMEOUT" envDefault:"5m"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		cfg      sweeperConfig
		mongoCfg mongo.Config
	)
	config.MustLoad(&cfg)
	config.MustLoad(&mongoCfg)

	log := logger.New(
		logger.WithEnvironment(environment.Parse(cfg.Env), "entitlements-sweeper"),
	)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	db, err := mongo.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		log.ErrorContext(ctx, "mongo connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	sweeper := entitlement.NewSweeper(account.NewMongoStore(db), log)
	count, err := sweeper.Run(ctx)
	if err != nil {
		log.ErrorContext(ctx, "expiry sweep failed", logger.Error(err))
		os.Exit(1)
	}

	log.InfoContext(ctx, "expiry sweep finished", slog.Int64("revoked", count))
}
