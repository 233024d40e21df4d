package di

import (
	"context"
	"fmt"

	"github.com/kbukum/modkit/errors"
)

// Resolve resolves tok through r and asserts the result to T.
//
//	repo, err := di.Resolve[*UserRepo](ctx, app, di.TypeOf[*UserRepo]())
//	if err != nil {
//	    return fmt.Errorf("resolving user repo: %w", err)
//	}
func Resolve[T any](ctx context.Context, r Resolver, tok Token) (T, error) {
	var zero T
	instance, err := r.Get(ctx, tok)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.New(errors.ErrCodeResolutionFailed,
			fmt.Sprintf("%s resolved to %T, expected %T", tok, instance, zero))
	}
	return result, nil
}

// ResolveType resolves the provider registered under the type token of T.
func ResolveType[T any](ctx context.Context, r Resolver) (T, error) {
	return Resolve[T](ctx, r, TypeOf[T]())
}

// MustResolve is like Resolve but panics on failure. Use it only where a
// missing provider is a wiring bug, such as in main.
func MustResolve[T any](ctx context.Context, r Resolver, tok Token) T {
	result, err := Resolve[T](ctx, r, tok)
	if err != nil {
		panic(fmt.Sprintf("di: %v", err))
	}
	return result
}

// TryResolve resolves tok and reports false instead of an error when it
// cannot be resolved or has another type.
//
//	if metrics, ok := di.TryResolve[*Metrics](ctx, app, MetricsToken); ok {
//	    metrics.Record(...)
//	}
func TryResolve[T any](ctx context.Context, r Resolver, tok Token) (T, bool) {
	result, err := Resolve[T](ctx, r, tok)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}
