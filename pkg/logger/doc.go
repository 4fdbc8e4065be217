// Package logger builds configured slog.Logger instances for the service.
//
// New applies functional options over production-safe defaults and can wrap
// the handler with context extractors that stamp request-scoped attributes,
// such as the request id, onto every record:
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "entitlements"),
//		logger.WithContextExtractors(requestid.LogExtractor()),
//	)
package logger
