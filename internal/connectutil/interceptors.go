package connectutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/otelconnect"
)

// DefaultOptions returns the Connect handler options every relay RPC uses:
// the JSON codec, OpenTelemetry tracing and request logging.
func DefaultOptions() ([]connect.HandlerOption, error) {
	tracing, err := otelconnect.NewInterceptor()
	if err != nil {
		return nil, fmt.Errorf("otel interceptor: %w", err)
	}
	return []connect.HandlerOption{
		connect.WithCodec(JSONCodec()),
		connect.WithInterceptors(tracing, NewLoggingInterceptor()),
	}, nil
}

// DefaultClientOptions returns the matching client options.
func DefaultClientOptions() ([]connect.ClientOption, error) {
	tracing, err := otelconnect.NewInterceptor()
	if err != nil {
		return nil, fmt.Errorf("otel interceptor: %w", err)
	}
	return []connect.ClientOption{
		connect.WithCodec(JSONCodec()),
		connect.WithInterceptors(tracing, NewLoggingInterceptor()),
	}, nil
}

// NewLoggingInterceptor logs procedure, duration and error of unary calls.
func NewLoggingInterceptor() connect.Interceptor {
	return connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				slog.String("procedure", req.Spec().Procedure),
				slog.Duration("duration", time.Since(start)),
				slog.Bool("client", req.Spec().IsClient),
			}
			if err != nil {
				attrs = append(attrs,
					slog.String("code", connect.CodeOf(err).String()),
					slog.String("error", err.Error()))
				slog.WarnContext(ctx, "rpc error", attrs...)
			} else {
				slog.DebugContext(ctx, "rpc ok", attrs...)
			}
			return resp, err
		}
	})
}
