// The server binary serves the entitlement API: subscription checks, referral
// signup, usage quotas, password resets, client error reports, and payment
// provider webhooks.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sumquiz/entitlements/handler"
	"github.com/sumquiz/entitlements/pkg/account"
	"github.com/sumquiz/entitlements/pkg/billing"
	"github.com/sumquiz/entitlements/pkg/clientlog"
	"github.com/sumquiz/entitlements/pkg/config"
	"github.com/sumquiz/entitlements/pkg/email"
	"github.com/sumquiz/entitlements/pkg/entitlement"
	"github.com/sumquiz/entitlements/pkg/environment"
	"github.com/sumquiz/entitlements/pkg/httpserver"
	"github.com/sumquiz/entitlements/pkg/identity"
	"github.com/sumquiz/entitlements/pkg/logger"
	"github.com/sumquiz/entitlements/pkg/mongo"
	"github.com/sumquiz/entitlements/pkg/passwordreset"
	"github.com/sumquiz/entitlements/pkg/ratelimit"
	"github.com/sumquiz/entitlements/pkg/referral"
	"github.com/sumquiz/entitlements/pkg/requestid"
	"github.com/sumquiz/entitlements/pkg/usage"
)

type appConfig struct {
	Env            string `env:"APP_ENV" envDefault:"development"`
	FlutterwaveKey string `env:"FLUTTERWAVE_PUBLIC_KEY"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		appCfg      appConfig
		mongoCfg    mongo.Config
		httpCfg     httpserver.Config
		identityCfg identity.Config
		emailCfg    email.Config
		bearerCfg   billing.BearerConfig
		fwCfg       billing.FlutterwaveConfig
		paddleCfg   billing.PaddleConfig
		stripeCfg   billing.StripeConfig
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&identityCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&bearerCfg)
	config.MustLoad(&fwCfg)
	config.MustLoad(&paddleCfg)
	config.MustLoad(&stripeCfg)

	env := environment.Parse(appCfg.Env)
	log := logger.New(
		logger.WithEnvironment(env, "entitlements"),
		logger.WithContextExtractors(requestid.LogExtractor()),
	)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		log.ErrorContext(ctx, "mongo connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	accounts := account.NewMongoStore(db)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		log.ErrorContext(ctx, "failed to ensure indexes", logger.Error(err))
		os.Exit(1)
	}

	idp, err := identity.NewFirebaseProvider(ctx, identityCfg)
	if err != nil {
		log.ErrorContext(ctx, "firebase init failed", logger.Error(err))
		os.Exit(1)
	}

	var sender email.Sender
	if emailCfg.Configured() {
		sender, err = email.NewPostmarkSender(emailCfg)
		if err != nil {
			log.ErrorContext(ctx, "postmark init failed", logger.Error(err))
			os.Exit(1)
		}
	} else {
		log.WarnContext(ctx, "postmark not configured, using dev email sender")
		sender = email.NewDevSender(log)
	}

	resetLimiter, err := ratelimit.NewFixedWindow(
		ratelimit.NewMongoStore(db), passwordreset.Limit, time.Hour)
	if err != nil {
		log.ErrorContext(ctx, "rate limiter init failed", logger.Error(err))
		os.Exit(1)
	}

	payments := billing.NewProcessor(
		billing.NewMongoStore(db, accounts),
		billing.DefaultCatalog(),
		log.With(logger.Component("billing")),
	)
	payments.Register(billing.NewBearerProvider(bearerCfg, log))
	payments.Register(billing.NewFlutterwaveProvider(fwCfg, log))
	payments.Register(billing.NewPaddleProvider(paddleCfg, log))
	payments.Register(billing.NewStripeProvider(stripeCfg, log))

	router := handler.New(handler.Deps{
		Identity:       idp,
		Evaluator:      entitlement.NewEvaluator(accounts, log.With(logger.Component("entitlement"))),
		Signup:         referral.NewEngine(accounts, idp, log.With(logger.Component("referral"))),
		Codes:          referral.NewCodeGenerator(accounts, log.With(logger.Component("referral"))),
		Usage:          usage.NewEnforcer(usage.NewMongoStore(db), log.With(logger.Component("usage"))),
		PasswordReset:  passwordreset.NewService(resetLimiter, idp, sender, log.With(logger.Component("passwordreset"))),
		ClientErrors:   clientlog.NewRecorder(clientlog.NewMongoStore(db), log.With(logger.Component("clientlog"))),
		Payments:       payments,
		FlutterwaveKey: appCfg.FlutterwaveKey,
		Healthcheck:    httpserver.HealthCheckHandler(log, mongo.Healthcheck(db.Client())),
		Log:            log,
	})

	srv := httpserver.New(httpCfg, log)
	if err := srv.Run(ctx, router); err != nil {
		log.ErrorContext(ctx, "server exited with error", logger.Error(err))
		os.Exit(1)
	}
	log.InfoContext(ctx, "server stopped")
}
