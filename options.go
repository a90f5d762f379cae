package algo

import "time"

// Options configures a single invocation. Options are immutable once
// constructed and owned by the Dispatcher for the duration of one call.
//
// The timeout is advisory metadata at this layer: decode, invoke, and encode
// are synchronous in-memory transforms, and a real deadline is the hosting
// harness's job (see the runner package). Stdout capture redirects the
// process-wide os.Stdout around the user call, so it must not be combined
// with concurrent Dispatch calls in the same process.
type Options struct {
	timeout       time.Duration
	stdoutCapture bool
}

// AlgoOption configures Options under construction.
type AlgoOption func(*Options)

// NewOptions builds an immutable Options.
func NewOptions(opts ...AlgoOption) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTimeout sets the advisory invocation time bound.
func WithTimeout(d time.Duration) AlgoOption {
	return func(o *Options) { o.timeout = d }
}

// WithStdoutCapture requests that console output written by the entry point
// during the call be captured into response metadata.
func WithStdoutCapture() AlgoOption {
	return func(o *Options) { o.stdoutCapture = true }
}

// Timeout returns the advisory time bound, or zero if unset.
func (o Options) Timeout() time.Duration { return o.timeout }

// StdoutCapture reports whether stdout capture was requested.
func (o Options) StdoutCapture() bool { return o.stdoutCapture }
