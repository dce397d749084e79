// Package logctx carries a request or event scoped logger on a context.
package logctx

import (
	"context"

	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
)

type ctxKey struct{}

// With returns ctx carrying l. A nil logger leaves ctx untouched.
func With(ctx context.Context, l observability.Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the scoped logger, or nil.
func From(ctx context.Context) observability.Logger {
	if ctx == nil {
		return nil
	}
	if l, ok := ctx.Value(ctxKey{}).(observability.Logger); ok {
		return l
	}
	return nil
}

// FromOr never returns nil: scoped logger first, then fallback, then a nop.
func FromOr(ctx context.Context, fallback observability.Logger) observability.Logger {
	switch l := From(ctx); {
	case l != nil:
		return l
	case fallback != nil:
		return fallback
	default:
		return observability.NopLogger()
	}
}

// Enrich adds fields to the scoped logger and stores the result on the returned context.
func Enrich(ctx context.Context, fallback observability.Logger, fields ...observability.Field) (context.Context, observability.Logger) {
	l := FromOr(ctx, fallback).With(fields...)
	return With(ctx, l), l
}
