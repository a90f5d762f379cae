package algo

import (
	"encoding/base64"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Metadata describes a completed invocation. It is assembled by the
// Dispatcher — duration is wall-clock from request receipt to response
// encoding, measured outside user logic — and never mutated after the
// response is assembled.
//
// RequestBytes and ResponseBytes measure the wire payload, not any
// surrounding envelope, so the two entry paths (raw envelope and parsed
// Request) report the same sizes. Both are zero for in-memory Pipe calls,
// which have no wire form.
type Metadata struct {
	ContentType   ContentType `json:"content_type"`
	Duration      float64     `json:"duration"`
	Stdout        string      `json:"stdout,omitempty"`
	RequestBytes  int         `json:"request_bytes,omitempty"`
	ResponseBytes int         `json:"response_bytes,omitempty"`
}

// Result is the outcome of one invocation: either a successful output with
// metadata, or a classified failure. A Result is constructed exactly once
// per request, serialized, and discarded.
type Result struct {
	output Value
	meta   Metadata
	err    *Error
}

// Success wraps a successful output and its metadata.
func Success(output Value, meta Metadata) Result {
	return Result{output: output, meta: meta}
}

// Failure wraps a classified failure. Unclassified errors are recorded as
// algorithm failures.
func Failure(err error) Result {
	return Result{err: asError(err)}
}

// Ok reports whether the invocation succeeded.
func (r Result) Ok() bool { return r.err == nil }

// Output returns the successful output value.
func (r Result) Output() (Value, bool) {
	if r.err != nil {
		return Value{}, false
	}
	return r.output, true
}

// Metadata returns the invocation metadata. Zero for failures.
func (r Result) Metadata() Metadata { return r.meta }

// Err returns the classified failure, or nil on success.
func (r Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

type errorBody struct {
	Message    string `json:"message"`
	ErrorType  Kind   `json:"error_type,omitempty"`
	Stacktrace string `json:"stacktrace,omitempty"`
}

type successEnvelope struct {
	Result   any      `json:"result"`
	Metadata Metadata `json:"metadata"`
}

// MarshalJSON renders the response envelope. On success the result field is
// shaped per the response content type — text as a JSON string, binary as
// the same base64 string encoding used on input, JSON nested as-is. On
// failure the envelope carries only an error object, no result field.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		return json.Marshal(map[string]errorBody{"error": {
			Message:    r.err.Error(),
			ErrorType:  r.err.Kind(),
			Stacktrace: r.err.Stacktrace(),
		}})
	}

	var result any
	switch r.output.kind {
	case ContentText:
		result = r.output.text
	case ContentBinary:
		result = base64.StdEncoding.EncodeToString(r.output.bin)
	default:
		result = r.output.obj
	}
	return json.Marshal(successEnvelope{Result: result, Metadata: r.meta})
}

// ParseResult parses a single-line response envelope — as produced by
// MarshalJSON, or by a remote algorithm host speaking the same protocol —
// back into a Result. The metadata content type drives interpretation of the
// result field; the legacy "void" content type maps to a JSON null result.
//
// A Result parsed from an error envelope is returned as a Failure with a nil
// parse error: the line itself was well-formed.
func ParseResult(line []byte) (Result, error) {
	if !gjson.ValidBytes(line) {
		return Result{}, decodeErrorf("response is not valid JSON")
	}

	if errField := gjson.GetBytes(line, "error"); errField.Exists() {
		kind := Kind(errField.Get("error_type").String())
		if kind == "" {
			kind = KindAlgorithm
		}
		return Result{err: &Error{kind: kind, msg: errField.Get("message").String()}}, nil
	}

	metaField := gjson.GetBytes(line, "metadata")
	if !metaField.Exists() {
		return Result{}, decodeErrorf("response missing metadata")
	}
	var meta Metadata
	if err := json.Unmarshal([]byte(metaField.Raw), &meta); err != nil {
		return Result{}, wrapError(KindDecode, err, "malformed response metadata")
	}

	result := gjson.GetBytes(line, "result")
	switch meta.ContentType {
	case ContentType("void"):
		return Success(JSON(nil), meta), nil
	case ContentText:
		if result.Type != gjson.String {
			return Result{}, decodeErrorf("text result is not a string")
		}
		return Success(Text(result.String()), meta), nil
	case ContentBinary:
		if result.Type != gjson.String {
			return Result{}, decodeErrorf("binary result is not a base64 string")
		}
		raw, err := base64.StdEncoding.DecodeString(result.String())
		if err != nil {
			return Result{}, wrapError(KindDecode, err, "binary result is not valid base64")
		}
		return Success(Binary(raw), meta), nil
	case ContentJSON:
		if !result.Exists() {
			return Result{}, decodeErrorf("response missing result")
		}
		obj, err := decodeJSON([]byte(result.Raw))
		if err != nil {
			return Result{}, err
		}
		return Success(JSON(obj), meta), nil
	}
	return Result{}, decodeErrorf("unknown response content type %q", meta.ContentType)
}
