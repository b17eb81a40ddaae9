package generic_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokol111/avrocodec/encoding/avrobinary"
	"github.com/Sokol111/avrocodec/encoding/avrojson"
	"github.com/Sokol111/avrocodec/generic"
	"github.com/Sokol111/avrocodec/iostream"
	"github.com/Sokol111/avrocodec/schema"
)

func eventSchema(t *testing.T) *schema.ValidSchema {
	t.Helper()
	doc := `{
		"type": "record",
		"name": "Event",
		"fields": [
			{"name": "id", "type": {"type": "fixed", "name": "UUID", "size": 4}},
			{"name": "kind", "type": {"type": "enum", "name": "Kind", "symbols": ["CREATE", "UPDATE", "DELETE"]}},
			{"name": "payload", "type": ["null", "string"], "default": null},
			{"name": "attrs", "type": {"type": "map", "values": "long"}}
		]
	}`
	s, err := schema.Compile([]byte(doc))
	require.NoError(t, err)
	return s
}

func sampleDatum() schema.Datum {
	return schema.NewRecordDatum([]schema.Datum{
		schema.NewFixedDatum([]byte{1, 2, 3, 4}),
		schema.NewEnumDatum("UPDATE", 1),
		schema.NewUnionDatum(1, schema.NewStringDatum("changed")),
		schema.NewMapDatum([]schema.MapEntry{
			{Key: "retries", Value: schema.NewLongDatum(3)},
		}),
	})
}

func TestBinaryReaderWriterRoundTrip(t *testing.T) {
	s := eventSchema(t)
	d := sampleDatum()

	mw := iostream.NewMemoryWriter()
	w := generic.NewWriter(avrobinary.NewEncoder(mw), s.Root())
	require.NoError(t, w.Write(d))

	r := generic.NewReader(avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes())), s.Root())
	got, err := r.Read()
	require.NoError(t, err)
	assert.True(t, d.Equal(got))
}

func TestJSONReaderWriterRoundTrip(t *testing.T) {
	s := eventSchema(t)
	d := sampleDatum()

	var buf bytes.Buffer
	w := generic.NewWriter(avrojson.NewEncoder(&buf), s.Root())
	require.NoError(t, w.Write(d))

	r := generic.NewReader(avrojson.NewDecoder(bytes.NewReader(buf.Bytes())), s.Root())
	got, err := r.Read()
	require.NoError(t, err)
	assert.True(t, d.Equal(got))
}

func TestNullUnionBranchRoundTrip(t *testing.T) {
	s := eventSchema(t)
	d := schema.NewRecordDatum([]schema.Datum{
		schema.NewFixedDatum([]byte{0, 0, 0, 0}),
		schema.NewEnumDatum("CREATE", 0),
		schema.NewUnionDatum(0, schema.NewNullDatum()),
		schema.NewMapDatum(nil),
	})

	mw := iostream.NewMemoryWriter()
	w := generic.NewWriter(avrobinary.NewEncoder(mw), s.Root())
	require.NoError(t, w.Write(d))

	r := generic.NewReader(avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes())), s.Root())
	got, err := r.Read()
	require.NoError(t, err)
	assert.True(t, d.Equal(got))
}
