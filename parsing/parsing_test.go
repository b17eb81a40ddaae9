package parsing_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokol111/avrocodec/encoding/avrobinary"
	"github.com/Sokol111/avrocodec/encoding/avrojson"
	"github.com/Sokol111/avrocodec/generic"
	"github.com/Sokol111/avrocodec/iostream"
	"github.com/Sokol111/avrocodec/parsing"
	"github.com/Sokol111/avrocodec/schema"
)

func personSchema(t *testing.T) *schema.ValidSchema {
	t.Helper()
	doc := `{
		"type": "record",
		"name": "Person",
		"fields": [
			{"name": "name", "type": "string"},
			{"name": "age", "type": "int"},
			{"name": "tags", "type": {"type": "array", "items": "string"}}
		]
	}`
	s, err := schema.Compile([]byte(doc))
	require.NoError(t, err)
	return s
}

func TestValidatingBinaryRoundTrip(t *testing.T) {
	s := personSchema(t)
	datum := schema.NewRecordDatum([]schema.Datum{
		schema.NewStringDatum("Ada"),
		schema.NewIntDatum(36),
		schema.NewArrayDatum([]schema.Datum{schema.NewStringDatum("math"), schema.NewStringDatum("computing")}),
	})

	mw := iostream.NewMemoryWriter()
	venc := parsing.NewValidatingEncoder(avrobinary.NewEncoder(mw), s.Root())
	require.NoError(t, generic.NewWriter(venc, s.Root()).Write(datum))

	vdec := parsing.NewValidatingDecoder(avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes())), s.Root())
	got, err := generic.NewReader(vdec, s.Root()).Read()
	require.NoError(t, err)
	assert.True(t, datum.Equal(got))
}

func TestValidatingJSONRoundTrip(t *testing.T) {
	s := personSchema(t)
	datum := schema.NewRecordDatum([]schema.Datum{
		schema.NewStringDatum("Grace"),
		schema.NewIntDatum(85),
		schema.NewArrayDatum(nil),
	})

	var buf bytes.Buffer
	venc := parsing.NewValidatingEncoder(avrojson.NewEncoder(&buf), s.Root())
	require.NoError(t, generic.NewWriter(venc, s.Root()).Write(datum))

	vdec := parsing.NewValidatingDecoder(avrojson.NewDecoder(bytes.NewReader(buf.Bytes())), s.Root())
	got, err := generic.NewReader(vdec, s.Root()).Read()
	require.NoError(t, err)
	assert.True(t, datum.Equal(got))
}

func TestValidatingBinaryMapRoundTrip(t *testing.T) {
	doc := `{
		"type": "record",
		"name": "Scores",
		"fields": [
			{"name": "id", "type": "string"},
			{"name": "byPlayer", "type": {"type": "map", "values": "int"}}
		]
	}`
	s, err := schema.Compile([]byte(doc))
	require.NoError(t, err)

	datum := schema.NewRecordDatum([]schema.Datum{
		schema.NewStringDatum("match-1"),
		schema.NewMapDatum([]schema.MapEntry{
			{Key: "ada", Value: schema.NewIntDatum(10)},
			{Key: "grace", Value: schema.NewIntDatum(20)},
		}),
	})

	mw := iostream.NewMemoryWriter()
	venc := parsing.NewValidatingEncoder(avrobinary.NewEncoder(mw), s.Root())
	require.NoError(t, generic.NewWriter(venc, s.Root()).Write(datum))

	vdec := parsing.NewValidatingDecoder(avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes())), s.Root())
	got, err := generic.NewReader(vdec, s.Root()).Read()
	require.NoError(t, err)
	assert.True(t, datum.Equal(got))
}

func TestValidatingDecoderRejectsWrongCallOrder(t *testing.T) {
	s := personSchema(t)
	mw := iostream.NewMemoryWriter()
	raw := avrobinary.NewEncoder(mw)
	require.NoError(t, raw.RecordStart())

	vdec := parsing.NewValidatingDecoder(avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes())), s.Root())
	_, err := vdec.DecodeInt() // Person is a record: RecordStart must come first
	require.Error(t, err)
	assert.ErrorIs(t, err, parsing.ErrGrammarMismatch)
}

func TestResolvingNumericPromotion(t *testing.T) {
	writer, err := schema.Compile([]byte(`"int"`))
	require.NoError(t, err)
	reader, err := schema.Compile([]byte(`"double"`))
	require.NoError(t, err)

	mw := iostream.NewMemoryWriter()
	require.NoError(t, avrobinary.NewEncoder(mw).EncodeInt(7))

	rdec := parsing.NewResolvingDecoder(avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes())), writer.Root(), reader.Root())
	got, err := rdec.Decode()
	require.NoError(t, err)
	assert.Equal(t, schema.Double, got.Type())
	assert.Equal(t, 7.0, got.Double())
}

func TestResolvingRecordFieldAddedAndDropped(t *testing.T) {
	writer, err := schema.Compile([]byte(`{
		"type": "record", "name": "R",
		"fields": [
			{"name": "a", "type": "int"},
			{"name": "dropped", "type": "string"}
		]
	}`))
	require.NoError(t, err)
	reader, err := schema.Compile([]byte(`{
		"type": "record", "name": "R",
		"fields": [
			{"name": "a", "type": "long"},
			{"name": "added", "type": "string", "default": "fallback"}
		]
	}`))
	require.NoError(t, err)

	mw := iostream.NewMemoryWriter()
	raw := avrobinary.NewEncoder(mw)
	require.NoError(t, raw.RecordStart())
	require.NoError(t, raw.EncodeInt(5))
	require.NoError(t, raw.EncodeString("unused"))
	require.NoError(t, raw.RecordEnd())

	rdec := parsing.NewResolvingDecoder(avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes())), writer.Root(), reader.Root())
	got, err := rdec.Decode()
	require.NoError(t, err)
	fields := got.Record()
	require.Len(t, fields, 2)
	assert.Equal(t, int64(5), fields[0].Long())
	assert.Equal(t, "fallback", fields[1].String())
}

func TestResolvingEnumRemap(t *testing.T) {
	writer, err := schema.Compile([]byte(`{"type": "enum", "name": "E", "symbols": ["A", "B", "C"]}`))
	require.NoError(t, err)
	reader, err := schema.Compile([]byte(`{"type": "enum", "name": "E", "symbols": ["C", "B", "A"]}`))
	require.NoError(t, err)

	mw := iostream.NewMemoryWriter()
	require.NoError(t, avrobinary.NewEncoder(mw).EncodeEnum(nil, 2)) // writer index 2 == "C"

	rdec := parsing.NewResolvingDecoder(avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes())), writer.Root(), reader.Root())
	got, err := rdec.Decode()
	require.NoError(t, err)
	ed := got.Enum()
	assert.Equal(t, "C", ed.Symbol)
	assert.Equal(t, 0, ed.Index) // "C" is index 0 in the reader's symbol list
}
