// Package logger builds the zap loggers used across the service.
//
// Level takes any zap level name (debug, info, warn, error). debug selects the
// development preset, the others the production preset filtered at that
// level. Format is json (default) or console.
//
// WithRayID attaches the request's ray id, set by the rayid middleware, so
// that every line written while serving one request can be correlated:
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	l := logger.WithRayID(log, c)
//	l.Error("Resolve failed", zap.Error(err))
//
// Commands and the reconciliation runner receive a *zap.Logger explicitly;
// tests pass zap.NewNop().
package logger
