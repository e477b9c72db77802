// Package middleware holds the unary interceptors every pos.v1 service runs behind.
package middleware

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/kdjayakody/kdj-simple-pos/internal/apperror"
	"github.com/kdjayakody/kdj-simple-pos/internal/docstore"
	"github.com/kdjayakody/kdj-simple-pos/pkg/i18n"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Chain returns the interceptors in the order the server installs them:
// context first so every later stage sees the request id.
func Chain(log logger.ZapLogger, tr *i18n.Translator) grpc.ServerOption {
	return grpc.ChainUnaryInterceptor(
		ContextInterceptor(),
		LoggingInterceptor(log),
		RecoveryInterceptor(log),
		ErrorInterceptor(log, tr),
	)
}

// ContextInterceptor assigns a request id (reusing the caller's x-request-id when
// present), records the caller's locale, and echoes the id in response headers.
func ContextInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := firstMetadata(ctx, RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx = context.WithValue(ctx, requestIDKey, id)
		ctx = context.WithValue(ctx, localeKey, firstMetadata(ctx, AcceptLanguageHeader))
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, id))
		return handler(ctx, req)
	}
}

func LoggingInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("request_id", RequestID(ctx)),
			zap.Duration("duration", time.Since(start)),
			zap.String("code", status.Code(err).String()),
		}
		if err != nil {
			log.Warn("rpc failed", append(fields, zap.Error(err))...)
			return resp, err
		}
		log.Info("rpc handled", fields...)
		return resp, nil
	}
}

// RecoveryInterceptor turns a handler panic into an Internal status.
func RecoveryInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in rpc handler",
					zap.String("method", info.FullMethod),
					zap.String("request_id", RequestID(ctx)),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// ErrorInterceptor maps domain errors onto gRPC status codes. Caller mistakes
// keep their message; infrastructure failures are logged in full and replaced
// with a localized generic message.
func ErrorInterceptor(log logger.ZapLogger, tr *i18n.Translator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := status.FromError(err); ok {
			return resp, err
		}

		code := Code(err)
		switch code {
		case codes.InvalidArgument, codes.NotFound, codes.AlreadyExists, codes.FailedPrecondition:
			return resp, status.Error(code, err.Error())
		}

		log.Error("request failed",
			zap.String("method", info.FullMethod),
			zap.String("request_id", RequestID(ctx)),
			zap.Error(err),
		)
		msgID := i18n.MsgErrorGeneric
		if code == codes.Unavailable {
			msgID = i18n.MsgErrorBusy
		}
		return resp, status.Error(code, tr.T(msgID, nil, Locale(ctx)))
	}
}

// Code classifies err by the domain taxonomy.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, docstore.ErrLockTimeout):
		return codes.Unavailable
	case errors.Is(err, apperror.ErrServerFault):
		return codes.Internal
	case errors.Is(err, apperror.ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, apperror.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, apperror.ErrConflict):
		return codes.AlreadyExists
	case errors.Is(err, apperror.ErrInsufficientStock):
		return codes.FailedPrecondition
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}
