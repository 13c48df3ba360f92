package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
	tenantIDKey
	userIDKey
)

// WithContext stores a logger in ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request logger stored in ctx with trace_id and
// span_id of the active span, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return WithTrace(ctx, l)
}

// WithRequestID records the request ID and tags the stored logger with it
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return enrich(ctx, zap.String("request_id", requestID))
}

// WithIdentity records the authenticated tenant and user and tags the stored logger
func WithIdentity(ctx context.Context, tenantID, userID string) context.Context {
	var fields []zap.Field
	if tenantID != "" {
		ctx = context.WithValue(ctx, tenantIDKey, tenantID)
		fields = append(fields, zap.String("tenant_id", tenantID))
	}
	if userID != "" {
		ctx = context.WithValue(ctx, userIDKey, userID)
		fields = append(fields, zap.String("user_id", userID))
	}
	return enrich(ctx, fields...)
}

func enrich(ctx context.Context, fields ...zap.Field) context.Context {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && len(fields) > 0 {
		return WithContext(ctx, l.With(fields...))
	}
	return ctx
}

// RequestID returns the request ID carried by ctx
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// TenantID returns the tenant ID carried by ctx
func TenantID(ctx context.Context) string {
	v, _ := ctx.Value(tenantIDKey).(string)
	return v
}

// UserID returns the user ID carried by ctx
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// WithTrace adds trace_id and span_id of the active span to l
func WithTrace(ctx context.Context, l *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
