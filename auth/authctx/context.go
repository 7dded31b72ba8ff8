// Package authctx carries authenticated session claims through a request
// context.
//
//	ctx = authctx.Set(ctx, claims)
//	claims, ok := authctx.Get[*identity.Claims](ctx)
package authctx

import (
	"context"
	"errors"
)

type contextKey struct{}

var claimsKey = contextKey{}

// ErrNoClaims is returned when claims are not found in the context.
var ErrNoClaims = errors.New("authctx: no claims in context")

// Set stores claims in the context.
func Set(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Get retrieves typed claims from the context.
func Get[T any](ctx context.Context) (T, bool) {
	claims, ok := ctx.Value(claimsKey).(T)
	return claims, ok
}

// GetOrError is Get with ErrNoClaims for missing or mistyped claims.
func GetOrError[T any](ctx context.Context) (T, error) {
	claims, ok := Get[T](ctx)
	if !ok {
		var zero T
		return zero, ErrNoClaims
	}
	return claims, nil
}
