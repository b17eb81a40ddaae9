package avrocodec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	avrocodec "github.com/Sokol111/avrocodec"
	"github.com/Sokol111/avrocodec/schema"
)

const userSchemaDoc = `{
	"type": "record",
	"name": "User",
	"fields": [
		{"name": "name", "type": "string"},
		{"name": "age", "type": "int"}
	]
}`

func TestBinaryEncodeDecodeRoundTrip(t *testing.T) {
	s, err := avrocodec.CompileSchema([]byte(userSchemaDoc))
	require.NoError(t, err)

	d := schema.NewRecordDatum([]schema.Datum{schema.NewStringDatum("Ada"), schema.NewIntDatum(36)})
	data, err := avrocodec.NewBinaryEncoder(s).Encode(d)
	require.NoError(t, err)

	got, err := avrocodec.NewBinaryDecoder(s).Decode(data)
	require.NoError(t, err)
	assert.True(t, d.Equal(got))
}

func TestJSONEncodeDecodeRoundTrip(t *testing.T) {
	s, err := avrocodec.CompileSchema([]byte(userSchemaDoc))
	require.NoError(t, err)

	d := schema.NewRecordDatum([]schema.Datum{schema.NewStringDatum("Grace"), schema.NewIntDatum(85)})
	data, err := avrocodec.NewJSONEncoder(s).Encode(d)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Grace","age":85}`, string(data))

	got, err := avrocodec.NewJSONDecoder(s).Decode(data)
	require.NoError(t, err)
	assert.True(t, d.Equal(got))
}

func TestJSONPrettyEncoderIndents(t *testing.T) {
	s, err := avrocodec.CompileSchema([]byte(userSchemaDoc))
	require.NoError(t, err)

	d := schema.NewRecordDatum([]schema.Datum{schema.NewStringDatum("Grace"), schema.NewIntDatum(85)})
	pretty, err := avrocodec.NewJSONPrettyEncoder(s).Encode(d)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n")
	assert.Contains(t, string(pretty), "  \"name\"")
}

func TestDecodeResolvedBinaryAddsDefaultedField(t *testing.T) {
	writer, err := avrocodec.CompileSchema([]byte(userSchemaDoc))
	require.NoError(t, err)
	reader, err := avrocodec.CompileSchema([]byte(`{
		"type": "record", "name": "User",
		"fields": [
			{"name": "name", "type": "string"},
			{"name": "age", "type": "long"},
			{"name": "active", "type": "boolean", "default": true}
		]
	}`))
	require.NoError(t, err)

	d := schema.NewRecordDatum([]schema.Datum{schema.NewStringDatum("Ada"), schema.NewIntDatum(36)})
	data, err := avrocodec.NewBinaryEncoder(writer).Encode(d)
	require.NoError(t, err)

	got, err := avrocodec.DecodeResolvedBinary(data, writer, reader)
	require.NoError(t, err)
	fields := got.Record()
	require.Len(t, fields, 3)
	assert.Equal(t, "Ada", fields[0].String())
	assert.Equal(t, int64(36), fields[1].Long())
	assert.True(t, fields[2].Bool())
}
