package algo

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type DecodeSuite struct {
	suite.Suite
}

func TestDecodeSuite(t *testing.T) {
	suite.Run(t, new(DecodeSuite))
}

func (s *DecodeSuite) TestTextRoundTrip() {
	raw := []byte("Hello, 世界")

	v, err := Decode(raw, ContentText)
	s.Require().NoError(err)

	wire, ct, err := EncodeWire(v)
	s.Require().NoError(err)
	s.Assert().Equal(ContentText, ct)
	s.Assert().Equal(raw, wire)
}

func (s *DecodeSuite) TestTextRejectsInvalidUTF8() {
	_, err := Decode([]byte{0xff, 0xfe}, ContentText)

	s.Require().Error(err)
	s.Assert().Equal(KindDecode, KindOf(err))
}

func (s *DecodeSuite) TestBinaryRoundTrip() {
	raw := []byte("aGVsbG8K")

	v, err := Decode(raw, ContentBinary)
	s.Require().NoError(err)

	b, ok := v.Bytes()
	s.Require().True(ok)
	s.Assert().Equal([]byte("hello\n"), b)

	wire, ct, err := EncodeWire(v)
	s.Require().NoError(err)
	s.Assert().Equal(ContentBinary, ct)
	s.Assert().Equal(raw, wire)
}

func (s *DecodeSuite) TestBinaryRejectsInvalidBase64() {
	for _, raw := range []string{"not base64!!!", "aGVsbG8", "a==="} {
		_, err := Decode([]byte(raw), ContentBinary)
		s.Require().Error(err, "input %q", raw)
		s.Assert().Equal(KindDecode, KindOf(err))
	}
}

func (s *DecodeSuite) TestJSONDecode() {
	v, err := Decode([]byte(`{"name":"Jane","age":30}`), ContentJSON)
	s.Require().NoError(err)

	obj, ok := v.JSON()
	s.Require().True(ok)
	m, ok := obj.(map[string]any)
	s.Require().True(ok)
	s.Assert().Equal("Jane", m["name"])
}

func (s *DecodeSuite) TestJSONRejectsMalformed() {
	for _, raw := range []string{`{"name":`, `{`, ``, `{"a":1,}`} {
		_, err := Decode([]byte(raw), ContentJSON)
		s.Require().Error(err, "input %q", raw)
		s.Assert().Equal(KindDecode, KindOf(err))
	}
}

func (s *DecodeSuite) TestJSONRejectsTrailingData() {
	_, err := Decode([]byte(`{"a":1} {"b":2}`), ContentJSON)

	s.Require().Error(err)
	s.Assert().Equal(KindDecode, KindOf(err))
}

func (s *DecodeSuite) TestJSONNumbersRoundTripVerbatim() {
	raw := []byte(`{"big":9007199254740993,"dec":0.1}`)

	v, err := Decode(raw, ContentJSON)
	s.Require().NoError(err)

	wire, _, err := EncodeWire(v)
	s.Require().NoError(err)
	s.Assert().JSONEq(string(raw), string(wire))
}

type target struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

type DecodeIntoSuite struct {
	suite.Suite
}

func TestDecodeIntoSuite(t *testing.T) {
	suite.Run(t, new(DecodeIntoSuite))
}

func (s *DecodeIntoSuite) TestDecodesMatchingShape() {
	v, err := Decode([]byte(`{"name":"Jane","count":2}`), ContentJSON)
	s.Require().NoError(err)

	got, err := DecodeInto[target](v)
	s.Require().NoError(err)
	s.Assert().Equal(target{Name: "Jane", Count: 2}, got)
}

func (s *DecodeIntoSuite) TestOmitemptyFieldsAreOptional() {
	v, err := Decode([]byte(`{"name":"Jane"}`), ContentJSON)
	s.Require().NoError(err)

	got, err := DecodeInto[target](v)
	s.Require().NoError(err)
	s.Assert().Equal("Jane", got.Name)
}

func (s *DecodeIntoSuite) TestMissingRequiredFieldFails() {
	v, err := Decode([]byte(`{"count":2}`), ContentJSON)
	s.Require().NoError(err)

	_, err = DecodeInto[target](v)
	s.Require().Error(err)
	s.Assert().Equal(KindTypeMismatch, KindOf(err))
}

func (s *DecodeIntoSuite) TestWrongShapeFails() {
	v, err := Decode([]byte(`{"name":123}`), ContentJSON)
	s.Require().NoError(err)

	_, err = DecodeInto[target](v)
	s.Require().Error(err)
	s.Assert().Equal(KindTypeMismatch, KindOf(err))
}

func (s *DecodeIntoSuite) TestTextContentIsRejected() {
	_, err := DecodeInto[target](Text(`{"name":"Jane"}`))

	s.Require().Error(err)
	s.Assert().Equal(KindTypeMismatch, KindOf(err))
}

func (s *DecodeIntoSuite) TestBinaryContentIsRejected() {
	_, err := DecodeInto[target](Binary([]byte(`{"name":"Jane"}`)))

	s.Require().Error(err)
	s.Assert().Equal(KindTypeMismatch, KindOf(err))
}

type annotated struct {
	target
	Label string `json:"label"`
}

func (s *DecodeIntoSuite) TestEmbeddedFieldsArePromoted() {
	v, err := Decode([]byte(`{"name":"Jane","label":"x"}`), ContentJSON)
	s.Require().NoError(err)

	got, err := DecodeInto[annotated](v)
	s.Require().NoError(err)
	s.Assert().Equal("Jane", got.Name)
	s.Assert().Equal("x", got.Label)
}

func (s *DecodeIntoSuite) TestMissingPromotedFieldFails() {
	v, err := Decode([]byte(`{"label":"x"}`), ContentJSON)
	s.Require().NoError(err)

	_, err = DecodeInto[annotated](v)
	s.Require().Error(err)
	s.Assert().Equal(KindTypeMismatch, KindOf(err))
	s.Assert().Contains(err.Error(), `"name"`)
}

func (s *DecodeIntoSuite) TestFieldNamesMatchVerbatim() {
	type dotted struct {
		Value string `json:"config.value"`
	}

	v, err := Decode([]byte(`{"config.value":"on"}`), ContentJSON)
	s.Require().NoError(err)

	got, err := DecodeInto[dotted](v)
	s.Require().NoError(err)
	s.Assert().Equal("on", got.Value)
}

func (s *DecodeIntoSuite) TestNonStructTargets() {
	v, err := Decode([]byte(`[1,2,3]`), ContentJSON)
	s.Require().NoError(err)

	got, err := DecodeInto[[]int](v)
	s.Require().NoError(err)
	s.Assert().Equal([]int{1, 2, 3}, got)
}

type EncodeSuite struct {
	suite.Suite
}

func TestEncodeSuite(t *testing.T) {
	suite.Run(t, new(EncodeSuite))
}

func (s *EncodeSuite) TestStringBecomesText() {
	v, err := Encode("Hello Jane")
	s.Require().NoError(err)
	s.Assert().Equal(ContentText, v.ContentType())
}

func (s *EncodeSuite) TestBytesBecomeBinary() {
	v, err := Encode([]byte("hello\n"))
	s.Require().NoError(err)
	s.Assert().Equal(ContentBinary, v.ContentType())

	wire, _, err := EncodeWire(v)
	s.Require().NoError(err)
	s.Assert().Equal([]byte("aGVsbG8K"), wire)
}

func (s *EncodeSuite) TestValuePassesThrough() {
	in := JSON(map[string]string{"msg": "hi"})
	v, err := Encode(in)
	s.Require().NoError(err)
	s.Assert().Equal(in, v)
}

func (s *EncodeSuite) TestStructBecomesJSON() {
	v, err := Encode(struct {
		Msg string `json:"msg"`
	}{Msg: "Hello Jane"})
	s.Require().NoError(err)
	s.Assert().Equal(ContentJSON, v.ContentType())

	wire, _, err := EncodeWire(v)
	s.Require().NoError(err)
	s.Assert().JSONEq(`{"msg":"Hello Jane"}`, string(wire))
}

func (s *EncodeSuite) TestNilBecomesJSONNull() {
	v, err := Encode(nil)
	s.Require().NoError(err)
	s.Assert().Equal(ContentJSON, v.ContentType())

	wire, _, err := EncodeWire(v)
	s.Require().NoError(err)
	s.Assert().Equal([]byte("null"), wire)
}

func (s *EncodeSuite) TestUnserializableValueFails() {
	_, err := Encode(make(chan int))

	s.Require().Error(err)
	s.Assert().Equal(KindEncode, KindOf(err))
}

func (s *EncodeSuite) TestZeroValueHasNoWireForm() {
	_, _, err := EncodeWire(Value{})

	s.Require().Error(err)
	s.Assert().Equal(KindEncode, KindOf(err))
}
