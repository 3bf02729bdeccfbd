// Package logger builds log/slog loggers for wavesync services.
//
// New applies functional options on top of production-safe defaults (JSON,
// INFO, stdout) and wraps the handler in a decorator that pulls request-scoped
// attributes, such as the connection id, out of the context on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.App.Env, cfg.App.Name),
//	    logger.WithContextExtractors(logger.ConnectionIDExtractor()),
//	)
//	log.InfoContext(logger.WithConnectionID(ctx, id), "registered", logger.SharedDataKey("doc-42"))
//
// Attribute helpers (Error, ConnectionID, SharedDataKey, ParticipantID) keep
// key names consistent across packages.
package logger
