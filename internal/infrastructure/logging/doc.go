// Package logging provides structured logging for Auralis Core.
//
// It wraps log/slog with configuration-driven level filtering, output
// format selection (JSON for production, text for development), and
// default service/version attributes on every record.
//
// Components receive a child logger via With:
//
//	mqttLog := logger.With("component", "mqtt")
package logging
