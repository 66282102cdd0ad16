// Geoscan - Photo Geolocation Extraction and Event Publishing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geoscan

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Field names shared by every log line that carries request context.
const (
	CorrelationIDField = "correlation_id"
	RequestIDField     = "request_id"
)

type ctxKey int

const (
	correlationIDKey ctxKey = iota
	requestIDKey
	loggerKey
)

// GenerateCorrelationID returns a short ID that ties together the log lines
// of one scan. It is the first 8 characters of a random UUID.
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

// GenerateRequestID returns a full random UUID.
func GenerateRequestID() string {
	return uuid.NewString()
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID tags ctx with a freshly generated correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDKey)
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the logger stored in ctx, or the global logger.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns the context logger with any correlation and request IDs attached.
//
//	logging.Ctx(ctx).Info().Str("directory", dir).Msg("Scan started")
func Ctx(ctx context.Context) *zerolog.Logger {
	fields := LoggerFromContext(ctx).With()
	if id := CorrelationIDFromContext(ctx); id != "" {
		fields = fields.Str(CorrelationIDField, id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields = fields.Str(RequestIDField, id)
	}
	l := fields.Logger()
	return &l
}
