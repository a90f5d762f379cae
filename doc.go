// Package algo exposes a single piece of user logic as a callable algorithm,
// regardless of whether its input arrives as plain text, raw binary, or
// structured JSON.
//
// The package owns the entry-point dispatch and content-type codec layer:
// it receives an opaque request payload, classifies its declared content
// type, decodes it into the value the algorithm expects, invokes the
// algorithm, re-encodes the output for the caller, and reports metadata
// (content type, timing, byte sizes) alongside success or failure.
//
// # Quick Start
//
// Implement an entry point and hand it to a Dispatcher:
//
//	entry := algo.EntryFunc(func(ctx context.Context, in algo.Value, opts algo.Options) (any, error) {
//	    name, ok := in.Text()
//	    if !ok {
//	        return nil, errors.New("expected text input")
//	    }
//	    return "Hello " + name, nil
//	})
//
//	d := algo.NewDispatcher(entry)
//	res := d.Dispatch(ctx, []byte(`{"content_type":"text","data":"Jane"}`))
//
//	line, _ := json.Marshal(res) // {"result":"Hello Jane","metadata":{...}}
//
// # Typed Entry Points
//
// Most algorithms want one concrete input shape rather than a content-type
// switch. Declare it with DecodedEntryPoint and wrap with Decoded:
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
//	d := algo.NewDispatcher(algo.Decoded[Greeting](Greeter{}))
//
// The framework decodes JSON input into Greeting before the algorithm runs.
// Input of any other content type, or JSON that does not match the declared
// shape, fails with TypeMismatchError without invoking the algorithm.
//
// # Content Model
//
// Value is a closed sum over the three content types. The set is fixed, so
// every decode and encode site switches exhaustively over the kind; there is
// no open registration of new content types.
//
// Output re-encoding is driven by the Go type the entry point returns:
// string becomes a text response, []byte binary, a Value passes through
// unchanged, and anything else serializes as JSON.
//
// # Error Handling
//
// Failures are classified by the dispatch stage that produced them:
//
//   - DecodeError: the wire payload is malformed for its declared type
//   - TypeMismatchError: the payload decoded but doesn't match the typed
//     entry point's declared shape
//   - AlgorithmError: the user logic returned an error or panicked
//   - EncodeError: the output value cannot be serialized
//
// All four are caught at their state transition and converted into a
// Failure result; none escape the Dispatcher as a crash. When a request is
// malformed enough that both decode and type-mismatch conditions could
// apply, the decode failure wins — the envelope is checked before any typed
// shape is.
//
// # Concurrency
//
// The Dispatcher processes one request per invocation lifecycle and holds
// no mutable cross-invocation state. Reusing one EntryPoint instance across
// concurrent calls is allowed when the implementation is safe for
// concurrent access; guarding implementer-held state is a usage contract,
// not a framework guarantee. Stdout capture is process-global and must not
// overlap concurrent dispatches.
package algo
