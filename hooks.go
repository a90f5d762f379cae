package algo

import (
	"context"
	"time"
)

// OnDispatchFunc is called after the request decodes, just before the entry
// point executes.
type OnDispatchFunc func(ctx context.Context, contentType ContentType, requestBytes int)

// OnSuccessFunc is called after a response is fully encoded, with the final
// metadata.
type OnSuccessFunc func(ctx context.Context, meta Metadata)

// OnFailureFunc is called when any stage of the cycle fails.
type OnFailureFunc func(ctx context.Context, kind Kind, err error, duration time.Duration)

// hooks holds all configured hook functions.
type hooks struct {
	onDispatch []OnDispatchFunc
	onSuccess  []OnSuccessFunc
	onFailure  []OnFailureFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithOnDispatch adds a hook called just before the entry point executes.
// Multiple hooks are called in order.
//
// Example:
//
//	algo.WithOnDispatch(func(ctx context.Context, ct algo.ContentType, n int) {
//	    logger.Info("invoking", zap.String("content_type", string(ct)), zap.Int("bytes", n))
//	})
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(d *Dispatcher) {
		d.hooks.onDispatch = append(d.hooks.onDispatch, fn)
	}
}

// WithOnSuccess adds a hook called after a response is encoded.
// Multiple hooks are called in order.
func WithOnSuccess(fn OnSuccessFunc) Option {
	return func(d *Dispatcher) {
		d.hooks.onSuccess = append(d.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called when the cycle fails at any stage. The
// kind identifies the failing stage: decode, type mismatch, algorithm, or
// encode. Multiple hooks are called in order.
func WithOnFailure(fn OnFailureFunc) Option {
	return func(d *Dispatcher) {
		d.hooks.onFailure = append(d.hooks.onFailure, fn)
	}
}

func (d *Dispatcher) callOnDispatch(ctx context.Context, ct ContentType, requestBytes int) {
	for _, fn := range d.hooks.onDispatch {
		fn(ctx, ct, requestBytes)
	}
}

func (d *Dispatcher) callOnSuccess(ctx context.Context, meta Metadata) {
	for _, fn := range d.hooks.onSuccess {
		fn(ctx, meta)
	}
}

func (d *Dispatcher) callOnFailure(ctx context.Context, kind Kind, err error, duration time.Duration) {
	for _, fn := range d.hooks.onFailure {
		fn(ctx, kind, err, duration)
	}
}
