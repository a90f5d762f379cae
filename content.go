package algo

import (
	"strings"
)

// ContentType identifies the wire-level shape of a payload: plain text,
// base64-encoded binary, or structured JSON.
type ContentType string

const (
	ContentText   ContentType = "text"
	ContentBinary ContentType = "binary"
	ContentJSON   ContentType = "json"
)

// ContentTypeFromString normalizes a declared content type from its wire
// form. Both the short names used in request envelopes and the equivalent
// MIME types are accepted, ignoring case:
//
//	"text", "text/plain"                  → ContentText
//	"binary", "application/octet-stream"  → ContentBinary
//	"json", "application/json"            → ContentJSON
//
// Anything else is a DecodeError: the content set is closed, and an
// unrecognized declaration is a malformed envelope, not a type mismatch.
func ContentTypeFromString(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "text/plain":
		return ContentText, nil
	case "binary", "application/octet-stream":
		return ContentBinary, nil
	case "json", "application/json":
		return ContentJSON, nil
	}
	return "", decodeErrorf("unknown content type %q", s)
}

// Value is a decoded payload. Exactly one variant — text, binary, or JSON —
// is active, and the active variant always agrees with ContentType. Values
// are transient: they live for one invocation and carry no ownership beyond
// the current request.
type Value struct {
	kind ContentType
	text string
	bin  []byte
	obj  any
}

// Text constructs a text Value.
func Text(s string) Value { return Value{kind: ContentText, text: s} }

// Binary constructs a binary Value holding raw (already decoded) bytes.
func Binary(b []byte) Value { return Value{kind: ContentBinary, bin: b} }

// JSON constructs a JSON Value from a structured Go value
// (maps, slices, strings, numbers, booleans, nil).
func JSON(v any) Value { return Value{kind: ContentJSON, obj: v} }

// ContentType reports which variant is active. The zero Value has no active
// variant and reports an empty ContentType.
func (v Value) ContentType() ContentType { return v.kind }

// Text returns the textual content. A JSON string value coerces to text;
// binary content never does.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case ContentText:
		return v.text, true
	case ContentJSON:
		if s, ok := v.obj.(string); ok {
			return s, true
		}
	}
	return "", false
}

// Bytes returns the raw bytes of binary content. No other variant coerces
// to bytes.
func (v Value) Bytes() ([]byte, bool) {
	if v.kind != ContentBinary {
		return nil, false
	}
	return v.bin, true
}

// JSON returns the structured content. Text coerces to a JSON string value;
// binary content never coerces.
func (v Value) JSON() (any, bool) {
	switch v.kind {
	case ContentJSON:
		return v.obj, true
	case ContentText:
		return v.text, true
	}
	return nil, false
}
