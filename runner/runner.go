// Package runner hosts a Dispatcher over a line-oriented protocol: one JSON
// request envelope per input line, one JSON response line out. It is the
// thin I/O wrapper the core treats as its host — timeouts become real
// context deadlines here, and a response-write failure is the one fault
// that aborts the process.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/xid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/algoport/algo"
)

// maxRequestBytes bounds a single request line. Payloads are complete
// in-memory values, not streams, so oversized lines are rejected rather than
// buffered indefinitely. Variable so tests can lower it.
var maxRequestBytes = 32 << 20

// errRequestTooLong marks a request line over maxRequestBytes. The rest of
// the line has already been consumed when readLine returns it.
var errRequestTooLong = errors.New("request line too long")

// Runner pumps request lines through a Dispatcher.
type Runner struct {
	disp *algo.Dispatcher
	log  *zap.Logger
}

// New creates a Runner. A nil logger disables logging.
func New(disp *algo.Dispatcher, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{disp: disp, log: log}
}

// Serve processes request lines from in until EOF or context cancellation,
// writing exactly one response line per request to out. Blank lines are
// skipped. Malformed requests — including lines over the size bound —
// produce error responses, never an aborted loop; only a failure to write a
// response terminates Serve, since with the response channel gone there is
// nothing left to report to.
func (r *Runner) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	br := bufio.NewReaderSize(in, 64*1024)
	w := bufio.NewWriter(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := readLine(br)
		switch {
		case errors.Is(err, errRequestTooLong):
			r.log.Warn("request rejected", zap.Error(err))
			res := algo.Failure(algo.Errorf(algo.KindDecode,
				"request line exceeds %d bytes", maxRequestBytes))
			if werr := r.respond(w, res); werr != nil {
				return werr
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if err := r.handle(ctx, line, w); err != nil {
			return err
		}
	}
}

func (r *Runner) handle(ctx context.Context, line []byte, w *bufio.Writer) error {
	id := xid.New().String()
	log := r.log.With(zap.String("invocation_id", id))

	// The timeout option is advisory inside the core; the harness is where
	// it becomes a real deadline.
	callCtx := ctx
	if t := gjson.GetBytes(line, "options.timeout"); t.Float() > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, time.Duration(t.Float()*float64(time.Second)))
		defer cancel()
	}

	res := r.disp.Dispatch(callCtx, line)

	if res.Ok() {
		meta := res.Metadata()
		log.Info("invocation complete",
			zap.String("content_type", string(meta.ContentType)),
			zap.Float64("duration", meta.Duration),
			zap.Int("request_bytes", meta.RequestBytes),
			zap.Int("response_bytes", meta.ResponseBytes),
		)
	} else {
		log.Warn("invocation failed",
			zap.String("error_type", string(algo.KindOf(res.Err()))),
			zap.Error(res.Err()),
		)
	}

	return r.respond(w, res)
}

func (r *Runner) respond(w *bufio.Writer, res algo.Result) error {
	resp, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	if _, err := w.Write(resp); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return w.Flush()
}

// readLine reads one newline-terminated line, returning errRequestTooLong —
// with the remainder of the line consumed — when the line exceeds
// maxRequestBytes. An unterminated final line is returned without error.
func readLine(br *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := br.ReadSlice('\n')
		line = append(line, chunk...)
		tooLong := len(bytes.TrimRight(line, "\n")) > maxRequestBytes
		switch {
		case err == nil:
			if tooLong {
				return nil, errRequestTooLong
			}
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			if tooLong {
				if derr := discardLine(br); derr != nil {
					return nil, derr
				}
				return nil, errRequestTooLong
			}
		case errors.Is(err, io.EOF):
			if len(line) == 0 {
				return nil, io.EOF
			}
			if tooLong {
				return nil, errRequestTooLong
			}
			return line, nil
		default:
			return nil, err
		}
	}
}

// discardLine consumes input through the next newline or EOF.
func discardLine(br *bufio.Reader) error {
	for {
		_, err := br.ReadSlice('\n')
		switch {
		case err == nil, errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, bufio.ErrBufferFull):
		default:
			return err
		}
	}
}
