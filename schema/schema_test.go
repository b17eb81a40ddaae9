package schema_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokol111/avrocodec/schema"
)

func TestCompilePrimitive(t *testing.T) {
	s, err := schema.Compile([]byte(`"string"`))
	require.NoError(t, err)
	assert.Equal(t, schema.String, s.Root().Type())
}

func TestCompileRecord(t *testing.T) {
	doc := `{
		"type": "record",
		"name": "Person",
		"namespace": "com.example",
		"fields": [
			{"name": "name", "type": "string"},
			{"name": "age", "type": "int", "default": 0}
		]
	}`
	s, err := schema.Compile([]byte(doc))
	require.NoError(t, err)

	rec, ok := s.Root().(*schema.RecordNode)
	require.True(t, ok)
	assert.Equal(t, "com.example.Person", rec.Name().FullName())
	require.Len(t, rec.Fields(), 2)
	assert.Equal(t, "name", rec.Fields()[0].Name())
	assert.False(t, rec.Fields()[0].HasDefault())
	assert.True(t, rec.Fields()[1].HasDefault())
	assert.Equal(t, int32(0), rec.Fields()[1].Default().Int())

	n, ok := s.Lookup("com.example.Person")
	require.True(t, ok)
	assert.Same(t, rec, n)
}

func TestCompileSelfReferentialRecord(t *testing.T) {
	doc := `{
		"type": "record",
		"name": "Node",
		"fields": [
			{"name": "value", "type": "int"},
			{"name": "next", "type": ["null", "Node"], "default": null}
		]
	}`
	s, err := schema.Compile([]byte(doc))
	require.NoError(t, err)

	rec := s.Root().(*schema.RecordNode)
	next := rec.Fields()[1].Type().(*schema.UnionNode)
	sym, ok := next.Branches()[1].(*schema.SymbolicNode)
	require.True(t, ok)
	assert.Same(t, rec, sym.Target())
}

func TestCompileEnumFixedArrayMap(t *testing.T) {
	doc := `{
		"type": "record",
		"name": "Mixed",
		"fields": [
			{"name": "suit", "type": {"type": "enum", "name": "Suit", "symbols": ["SPADES", "HEARTS"]}},
			{"name": "id", "type": {"type": "fixed", "name": "MD5", "size": 16}},
			{"name": "tags", "type": {"type": "array", "items": "string"}},
			{"name": "props", "type": {"type": "map", "values": "long"}}
		]
	}`
	s, err := schema.Compile([]byte(doc))
	require.NoError(t, err)
	rec := s.Root().(*schema.RecordNode)

	suit := rec.Fields()[0].Type().(*schema.EnumNode)
	assert.Equal(t, []string{"SPADES", "HEARTS"}, suit.Symbols())
	assert.Equal(t, 0, suit.IndexOf("SPADES"))
	assert.Equal(t, -1, suit.IndexOf("CLUBS"))

	id := rec.Fields()[1].Type().(*schema.FixedNode)
	assert.Equal(t, 16, id.Size())

	tags := rec.Fields()[2].Type().(*schema.ArrayNode)
	assert.Equal(t, schema.String, tags.Items().Type())

	props := rec.Fields()[3].Type().(*schema.MapNode)
	assert.Equal(t, schema.Long, props.Values().Type())
}

func TestCompileDuplicateFieldNameFails(t *testing.T) {
	doc := `{
		"type": "record",
		"name": "Bad",
		"fields": [
			{"name": "x", "type": "int"},
			{"name": "x", "type": "string"}
		]
	}`
	_, err := schema.Compile([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrSchemaParse)
}

func TestCompileUnknownNameFails(t *testing.T) {
	doc := `{"type": "record", "name": "A", "fields": [{"name": "b", "type": "Missing"}]}`
	_, err := schema.Compile([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrUnknownName)
}

func TestUnionRejectsDuplicatePrimitive(t *testing.T) {
	_, err := schema.NewUnionNode([]schema.Node{
		schema.NewPrimitiveNode(schema.Int),
		schema.NewPrimitiveNode(schema.Int),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrSchemaParse)
}

func TestUnionRejectsNestedUnion(t *testing.T) {
	inner, err := schema.NewUnionNode([]schema.Node{schema.NewPrimitiveNode(schema.Null)})
	require.NoError(t, err)
	_, err = schema.NewUnionNode([]schema.Node{inner})
	require.Error(t, err)
}

func TestZeroValue(t *testing.T) {
	doc := `{
		"type": "record",
		"name": "Z",
		"fields": [
			{"name": "a", "type": "int"},
			{"name": "b", "type": "string", "default": "hi"}
		]
	}`
	s, err := schema.Compile([]byte(doc))
	require.NoError(t, err)

	zv := schema.ZeroValue(s.Root())
	fields := zv.Record()
	require.Len(t, fields, 2)
	assert.Equal(t, int32(0), fields[0].Int())
	assert.Equal(t, "hi", fields[1].String())
}

func TestDatumEqual(t *testing.T) {
	a := schema.NewRecordDatum([]schema.Datum{schema.NewIntDatum(1), schema.NewStringDatum("x")})
	b := schema.NewRecordDatum([]schema.Datum{schema.NewIntDatum(1), schema.NewStringDatum("x")})
	c := schema.NewRecordDatum([]schema.Datum{schema.NewIntDatum(2), schema.NewStringDatum("x")})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestDatumEqualNaN(t *testing.T) {
	a := schema.NewDoubleDatum(math.NaN())
	b := schema.NewDoubleDatum(math.NaN())
	assert.True(t, a.Equal(b))

	fa := schema.NewFloatDatum(float32(math.NaN()))
	fb := schema.NewFloatDatum(float32(math.NaN()))
	assert.True(t, fa.Equal(fb))

	assert.False(t, schema.NewDoubleDatum(1.0).Equal(schema.NewDoubleDatum(2.0)))
}
