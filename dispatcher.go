package algo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/tidwall/gjson"
)

// Request is a parsed request envelope: the declared content type, the raw
// wire payload for that type, and the caller's per-invocation options.
type Request struct {
	ContentType ContentType
	Data        []byte
	Options     Options
}

// ParseRequest parses a JSON request envelope of the form
//
//	{"content_type": "text"|"binary"|"json", "data": <payload>, "options": {...}}
//
// For text, data is a JSON string holding the text itself; for binary, a
// JSON string holding standard base64; for json, any JSON value. The
// optional options object recognizes "timeout" (seconds) and "stdout"
// (bool).
//
// Any malformation — invalid JSON, a missing or unrecognized content_type,
// missing data — is a DecodeError. A broken envelope is always reported as a
// decode failure, even when a typed entry point would also have rejected the
// payload.
func ParseRequest(raw []byte) (Request, error) {
	if !gjson.ValidBytes(raw) {
		return Request{}, decodeErrorf("request envelope is not valid JSON")
	}

	ctField := gjson.GetBytes(raw, "content_type")
	if !ctField.Exists() {
		return Request{}, decodeErrorf("request envelope missing content_type")
	}
	if ctField.Type != gjson.String {
		return Request{}, decodeErrorf("content_type must be a string")
	}
	ct, err := ContentTypeFromString(ctField.String())
	if err != nil {
		return Request{}, err
	}

	data := gjson.GetBytes(raw, "data")
	if !data.Exists() {
		return Request{}, decodeErrorf("request envelope missing data")
	}

	var wire []byte
	switch ct {
	case ContentText, ContentBinary:
		if data.Type != gjson.String {
			return Request{}, decodeErrorf("%s data must be a JSON string", ct)
		}
		wire = []byte(data.String())
	default:
		wire = []byte(data.Raw)
	}

	var optFns []AlgoOption
	if t := gjson.GetBytes(raw, "options.timeout"); t.Exists() {
		optFns = append(optFns, WithTimeout(time.Duration(t.Float()*float64(time.Second))))
	}
	if s := gjson.GetBytes(raw, "options.stdout"); s.Bool() {
		optFns = append(optFns, WithStdoutCapture())
	}

	return Request{ContentType: ct, Data: wire, Options: NewOptions(optFns...)}, nil
}

// Dispatcher owns one EntryPoint and runs the complete
// request→decode→invoke→encode→respond cycle for each call, converting
// every stage failure into a classified Failure result.
//
// A Dispatcher holds no per-invocation state and is safe for concurrent use
// when its EntryPoint is, with one exception: stdout capture redirects the
// process-wide os.Stdout and must not overlap with other dispatches.
type Dispatcher struct {
	entry EntryPoint
	hooks hooks
}

// NewDispatcher creates a Dispatcher around the given entry point.
//
// Example:
//
//	d := algo.NewDispatcher(algo.Decoded[Greeting](Greeter{}),
//	    algo.WithOnFailure(func(ctx context.Context, kind algo.Kind, err error, dur time.Duration) {
//	        logger.Warn("invocation failed", zap.String("kind", string(kind)), zap.Error(err))
//	    }),
//	)
func NewDispatcher(entry EntryPoint, opts ...Option) *Dispatcher {
	d := &Dispatcher{entry: entry}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs one invocation cycle from a raw request envelope and always
// returns a well-formed Result. Malformed envelopes, mismatched payloads,
// failing user logic, panics, and unserializable outputs all surface as
// classified failures — never as a crash.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) Result {
	start := time.Now()

	req, err := ParseRequest(raw)
	if err != nil {
		return d.fail(ctx, err, time.Since(start))
	}

	in, err := Decode(req.Data, req.ContentType)
	if err != nil {
		return d.fail(ctx, err, time.Since(start))
	}

	return d.run(ctx, start, in, req.Options, len(req.Data))
}

// DispatchRequest runs the cycle for an already-parsed request.
func (d *Dispatcher) DispatchRequest(ctx context.Context, req Request) Result {
	start := time.Now()

	in, err := Decode(req.Data, req.ContentType)
	if err != nil {
		return d.fail(ctx, err, time.Since(start))
	}

	return d.run(ctx, start, in, req.Options, len(req.Data))
}

// Pipe invokes the entry point directly with an in-memory Value, skipping
// the envelope and wire-decode stages. Useful for in-process callers and for
// chaining one algorithm's output into another's input.
func (d *Dispatcher) Pipe(ctx context.Context, in Value, opts Options) Result {
	return d.run(ctx, time.Now(), in, opts, 0)
}

// run covers the Decoded→Invoked→Encoded→Responded stages.
func (d *Dispatcher) run(ctx context.Context, start time.Time, in Value, opts Options, requestBytes int) Result {
	d.callOnDispatch(ctx, in.ContentType(), requestBytes)

	out, stdout, err := d.invoke(ctx, in, opts)
	if err != nil {
		return d.fail(ctx, err, time.Since(start))
	}

	encoded, err := Encode(out)
	if err != nil {
		return d.fail(ctx, err, time.Since(start))
	}
	wire, ct, err := EncodeWire(encoded)
	if err != nil {
		return d.fail(ctx, err, time.Since(start))
	}

	meta := Metadata{
		ContentType:   ct,
		Duration:      time.Since(start).Seconds(),
		Stdout:        stdout,
		RequestBytes:  requestBytes,
		ResponseBytes: len(wire),
	}

	res := Success(encoded, meta)
	d.callOnSuccess(ctx, meta)
	return res
}

// invoke executes user logic with panic containment and optional stdout
// capture.
func (d *Dispatcher) invoke(ctx context.Context, in Value, opts Options) (out any, stdout string, err error) {
	apply := func() (any, error) { return d.entry.Apply(ctx, in, opts) }

	if opts.StdoutCapture() {
		return captureStdout(apply)
	}
	out, err = safeApply(apply)
	return out, "", err
}

func (d *Dispatcher) fail(ctx context.Context, err error, elapsed time.Duration) Result {
	res := Failure(err)
	d.callOnFailure(ctx, res.err.kind, res.err, elapsed)
	return res
}

// safeApply converts a panicking entry point into an AlgorithmError rather
// than letting it terminate the process.
func safeApply(apply func() (any, error)) (out any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = &Error{
				kind:  KindAlgorithm,
				msg:   fmt.Sprintf("entry point panicked: %v", recovered),
				stack: debug.Stack(),
			}
		}
	}()
	return apply()
}

// captureStdout redirects the process-wide os.Stdout into a pipe for the
// duration of apply. Incompatible with concurrent dispatches in the same
// process; see Options.
func captureStdout(apply func() (any, error)) (out any, captured string, err error) {
	r, w, pipeErr := os.Pipe()
	if pipeErr != nil {
		out, err = safeApply(apply)
		return out, "", err
	}

	orig := os.Stdout
	os.Stdout = w

	done := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	out, err = safeApply(apply)

	os.Stdout = orig
	_ = w.Close()
	captured = <-done
	_ = r.Close()

	return out, captured, err
}
