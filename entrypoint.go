package algo

import "context"

// EntryPoint is the untyped algorithm contract: one operation receiving the
// decoded payload and the caller's options. This level is always available;
// implement it directly to inspect the content type and branch manually.
//
// The return value is re-encoded by the Dispatcher: return a string for a
// text response, []byte for binary, a Value to pick the shape explicitly, or
// any other serializable value for JSON.
//
// An EntryPoint instance lives for the lifetime of its hosting process and
// is expected to be stateless between invocations. If an implementation
// holds internal mutable state and the host dispatches concurrently,
// guarding that state is the implementer's responsibility — the framework
// makes no guarantee.
//
// Example:
//
//	type Hello struct{}
//
//	func (Hello) Apply(ctx context.Context, in algo.Value, opts algo.Options) (any, error) {
//	    name, ok := in.Text()
//	    if !ok {
//	        return nil, errors.New("expected text input")
//	    }
//	    return "Hello " + name, nil
//	}
type EntryPoint interface {
	Apply(ctx context.Context, in Value, opts Options) (any, error)
}

// EntryFunc is a function adapter for EntryPoint. Use for algorithms that
// don't need a struct:
//
//	algo.EntryFunc(func(ctx context.Context, in algo.Value, opts algo.Options) (any, error) {
//	    return in, nil // identity
//	})
type EntryFunc func(ctx context.Context, in Value, opts Options) (any, error)

// Apply implements the EntryPoint interface.
func (f EntryFunc) Apply(ctx context.Context, in Value, opts Options) (any, error) {
	return f(ctx, in, opts)
}

// DecodedEntryPoint is the typed refinement of EntryPoint. Instead of
// handling content types manually, the implementation declares one concrete
// input shape T and receives it already decoded; the framework absorbs all
// content-type bookkeeping.
//
// Example:
//
//	type Greeting struct {
//	    Name string `json:"name"`
//	}
//
//	type Greeter struct{}
//
//	func (Greeter) ApplyDecoded(ctx context.Context, in Greeting, opts algo.Options) (any, error) {
//	    return map[string]string{"msg": "Hello " + in.Name}, nil
//	}
//
//	entry := algo.Decoded[Greeting](Greeter{})
type DecodedEntryPoint[T any] interface {
	ApplyDecoded(ctx context.Context, in T, opts Options) (any, error)
}

// DecodedFunc is a function adapter for DecodedEntryPoint:
//
//	algo.Decoded[Greeting](algo.DecodedFunc[Greeting](func(ctx context.Context, in Greeting, opts algo.Options) (any, error) {
//	    return map[string]string{"msg": "Hello " + in.Name}, nil
//	}))
type DecodedFunc[T any] func(ctx context.Context, in T, opts Options) (any, error)

// ApplyDecoded implements the DecodedEntryPoint interface.
func (f DecodedFunc[T]) ApplyDecoded(ctx context.Context, in T, opts Options) (any, error) {
	return f(ctx, in, opts)
}

// Decoded adapts a typed entry point to the untyped contract. The returned
// EntryPoint decodes JSON content into T with DecodeInto before delegating;
// a payload that is not JSON or does not match T fails with
// TypeMismatchError and never reaches ep.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
func Decoded[T any](ep DecodedEntryPoint[T]) EntryPoint {
	return EntryFunc(func(ctx context.Context, in Value, opts Options) (any, error) {
		decoded, err := DecodeInto[T](in)
		if err != nil {
			return nil, err
		}
		return ep.ApplyDecoded(ctx, decoded, opts)
	})
}
