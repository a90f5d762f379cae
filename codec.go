package algo

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Decode converts raw wire bytes with a declared content type into a Value.
//
//   - text: raw must be valid UTF-8
//   - binary: raw must be standard base64 (bad characters or padding fail)
//   - json: raw must parse as exactly one JSON value, nothing trailing
//
// Every failure is a DecodeError with no partial result.
func Decode(raw []byte, declared ContentType) (Value, error) {
	switch declared {
	case ContentText:
		if !utf8.Valid(raw) {
			return Value{}, decodeErrorf("text payload is not valid UTF-8")
		}
		return Text(string(raw)), nil
	case ContentBinary:
		decoded, err := base64.StdEncoding.DecodeString(string(raw))
		if err != nil {
			return Value{}, wrapError(KindDecode, err, "binary payload is not valid base64")
		}
		return Binary(decoded), nil
	case ContentJSON:
		obj, err := decodeJSON(raw)
		if err != nil {
			return Value{}, err
		}
		return JSON(obj), nil
	}
	return Value{}, decodeErrorf("unknown content type %q", declared)
}

// decodeJSON parses raw as exactly one JSON value. Numbers decode as
// json.Number so they re-serialize verbatim.
func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj any
	if err := dec.Decode(&obj); err != nil {
		return nil, wrapError(KindDecode, err, "malformed JSON payload")
	}
	if dec.More() {
		return nil, decodeErrorf("trailing data after JSON payload")
	}
	return obj, nil
}

// DecodeInto coerces JSON content into the user-declared type T.
//
// Only JSON content is accepted: a typed entry point declares support for
// structured input, and text or binary content is rejected with
// TypeMismatchError rather than silently coerced. Wrong shapes and missing
// required fields (struct fields not tagged omitempty) are also
// TypeMismatchError.
func DecodeInto[T any](v Value) (T, error) {
	var target T
	if v.ContentType() != ContentJSON {
		return target, typeMismatchErrorf(
			"typed decode requires %s content, got %q", ContentJSON, v.ContentType())
	}

	raw, err := json.Marshal(v.obj)
	if err != nil {
		return target, wrapError(KindTypeMismatch, err, "content cannot be re-serialized for typed decode")
	}
	if err := json.Unmarshal(raw, &target); err != nil {
		return target, wrapError(KindTypeMismatch, err, "content does not match target shape")
	}
	if err := checkRequiredFields(raw, reflect.TypeOf(target)); err != nil {
		return target, err
	}
	return target, nil
}

// checkRequiredFields verifies that every required field of a struct target
// is present in the source document. A field is required unless its json tag
// carries omitempty (or the field is excluded entirely). Non-struct targets
// have no required fields.
//
// Presence is checked against the document's literal top-level keys so that
// field names containing path metacharacters are matched verbatim.
func checkRequiredFields(raw []byte, t reflect.Type) error {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return wrapError(KindTypeMismatch, err, "content is not a JSON object")
	}
	return checkStructFields(doc, t)
}

// checkStructFields walks t's fields against the document keys. Anonymous
// embedded structs are recursed into, since encoding/json promotes their
// fields to the embedding level rather than nesting them under a key named
// after the type.
func checkStructFields(doc map[string]json.RawMessage, t reflect.Type) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Tag.Get("json") == "" {
			ft := field.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if err := checkStructFields(doc, ft); err != nil {
					return err
				}
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		name, required := jsonFieldName(field)
		if !required {
			continue
		}
		if _, ok := doc[name]; !ok {
			return typeMismatchErrorf("missing required field %q", name)
		}
	}
	return nil
}

// jsonFieldName resolves the wire name of a struct field and whether its
// presence is required.
func jsonFieldName(field reflect.StructField) (name string, required bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name = field.Name
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			return name, false
		}
	}
	return name, true
}

// Encode converts an entry point's return value into a Value:
//
//	string           → text
//	[]byte           → binary
//	Value            → passed through unchanged
//	json.RawMessage  → json (parsed)
//	nil              → json null
//	anything else    → json, via marshaling
//
// A value that cannot be serialized is an EncodeError.
func Encode(out any) (Value, error) {
	switch v := out.(type) {
	case nil:
		return JSON(nil), nil
	case Value:
		return v, nil
	case string:
		return Text(v), nil
	case []byte:
		return Binary(v), nil
	case json.RawMessage:
		obj, err := decodeJSON(v)
		if err != nil {
			return Value{}, wrapError(KindEncode, err, "raw JSON output is malformed")
		}
		return JSON(obj), nil
	}
	if _, err := json.Marshal(out); err != nil {
		return Value{}, wrapError(KindEncode, err, "output value cannot be serialized")
	}
	return JSON(out), nil
}

// EncodeWire serializes a Value back into wire bytes plus the content type
// the bytes are shaped for. Binary content re-encodes through base64, so
// decoding then encoding a binary payload reproduces the original string.
func EncodeWire(v Value) ([]byte, ContentType, error) {
	switch v.kind {
	case ContentText:
		return []byte(v.text), ContentText, nil
	case ContentBinary:
		return []byte(base64.StdEncoding.EncodeToString(v.bin)), ContentBinary, nil
	case ContentJSON:
		raw, err := json.Marshal(v.obj)
		if err != nil {
			return nil, "", wrapError(KindEncode, err, "JSON content cannot be serialized")
		}
		return raw, ContentJSON, nil
	}
	return nil, "", encodeErrorf("value has no content")
}
