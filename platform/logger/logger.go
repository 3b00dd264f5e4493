// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithUserID returns a logger with user ID
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("user_id", userID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// DeliveryAttempt logs an outbound WhatsApp delivery attempt.
func (l *Logger) DeliveryAttempt(kind, destination string, success bool, errMsg string) {
	if success {
		l.Info("whatsapp_delivery",
			slog.String("kind", kind),
			slog.String("destination", destination),
			slog.Bool("success", true),
		)
		return
	}
	l.Warn("whatsapp_delivery",
		slog.String("kind", kind),
		slog.String("destination", destination),
		slog.Bool("success", false),
		slog.String("error", errMsg),
	)
}

// WebhookEvent logs an inbound webhook event outcome.
func (l *Logger) WebhookEvent(kind, outcome string) {
	l.Info("webhook_event",
		slog.String("kind", kind),
		slog.String("outcome", outcome),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
