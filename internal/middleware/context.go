package middleware

import (
	"context"

	"google.golang.org/grpc/metadata"
)

const (
	RequestIDHeader      = "x-request-id"
	AcceptLanguageHeader = "accept-language"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	localeKey
)

// RequestID returns the id assigned by ContextInterceptor, falling back to
// incoming metadata for calls that bypassed the interceptor.
func RequestID(ctx context.Context) string {
	if val, ok := ctx.Value(requestIDKey).(string); ok {
		return val
	}
	return firstMetadata(ctx, RequestIDHeader)
}

// Locale returns the caller's Accept-Language value, or "".
func Locale(ctx context.Context) string {
	if val, ok := ctx.Value(localeKey).(string); ok {
		return val
	}
	return firstMetadata(ctx, AcceptLanguageHeader)
}

func firstMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(key); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
