package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sumquiz/entitlements/pkg/billing"
	"github.com/sumquiz/entitlements/pkg/clientlog"
	"github.com/sumquiz/entitlements/pkg/entitlement"
	"github.com/sumquiz/entitlements/pkg/identity"
	"github.com/sumquiz/entitlements/pkg/passwordreset"
	"github.com/sumquiz/entitlements/pkg/referral"
	"github.com/sumquiz/entitlements/pkg/requestid"
	"github.com/sumquiz/entitlements/pkg/usage"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Identity       identity.Provider
	Evaluator      *entitlement.Evaluator
	Signup         *referral.Engine
	Codes          *referral.CodeGenerator
	Usage          *usage.Enforcer
	PasswordReset  *passwordreset.Service
	ClientErrors   *clientlog.Recorder
	Payments       *billing.Processor
	FlutterwaveKey string
	Healthcheck    http.HandlerFunc
	Log            *slog.Logger
}

// New builds the service router.
func New(d Deps) http.Handler {
	h := &handlers{deps: d}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/time", h.serverTime)

		r.With(OptionalAuth(d.Identity)).Get("/subscription", h.subscription)
		r.With(OptionalAuth(d.Identity)).Post("/errors", h.logClientError)

		r.Post("/signup", h.signUp)
		r.Post("/password/reset", h.passwordReset)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(d.Identity))
			r.Post("/referral/code", h.referralCode)
			r.Get("/usage/{action}", h.canPerformAction)
			r.Post("/usage/{action}", h.recordAction)
			r.Get("/payments/keys", h.paymentKeys)
		})
	})

	r.Post("/webhooks/payments/{provider}", h.paymentWebhook)

	if d.Healthcheck != nil {
		r.Get("/healthz", d.Healthcheck)
	}

	return r
}

type handlers struct {
	deps Deps
}
