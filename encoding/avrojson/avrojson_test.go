package avrojson_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokol111/avrocodec/encoding/avrojson"
	"github.com/Sokol111/avrocodec/schema"
)

func TestPrimitivesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := avrojson.NewEncoder(&buf)
	require.NoError(t, enc.EncodeNull())
	require.NoError(t, enc.EncodeBool(false))
	require.NoError(t, enc.EncodeInt(42))
	require.NoError(t, enc.EncodeLong(-9000))
	require.NoError(t, enc.EncodeFloat(1.5))
	require.NoError(t, enc.EncodeDouble(math.NaN()))
	require.NoError(t, enc.EncodeString("héllo"))
	require.NoError(t, enc.EncodeBytes([]byte{0, 255, 10}))

	dec := avrojson.NewDecoder(bytes.NewReader(buf.Bytes()))
	require.NoError(t, dec.DecodeNull())
	b, err := dec.DecodeBool()
	require.NoError(t, err)
	assert.False(t, b)
	i, err := dec.DecodeInt()
	require.NoError(t, err)
	assert.EqualValues(t, 42, i)
	l, err := dec.DecodeLong()
	require.NoError(t, err)
	assert.EqualValues(t, -9000, l)
	f, err := dec.DecodeFloat()
	require.NoError(t, err)
	assert.EqualValues(t, 1.5, f)
	d, err := dec.DecodeDouble()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(d))
	s, err := dec.DecodeString()
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)
	by, err := dec.DecodeBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 255, 10}, by)
}

func TestInfinityConvention(t *testing.T) {
	var buf bytes.Buffer
	enc := avrojson.NewEncoder(&buf)
	require.NoError(t, enc.EncodeDouble(math.Inf(1)))
	require.NoError(t, enc.EncodeDouble(math.Inf(-1)))
	assert.Contains(t, buf.String(), `"Infinity"`)
	assert.Contains(t, buf.String(), `"-Infinity"`)

	dec := avrojson.NewDecoder(bytes.NewReader(buf.Bytes()))
	pos, err := dec.DecodeDouble()
	require.NoError(t, err)
	assert.True(t, math.IsInf(pos, 1))
	neg, err := dec.DecodeDouble()
	require.NoError(t, err)
	assert.True(t, math.IsInf(neg, -1))
}

func TestArrayRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := avrojson.NewEncoder(&buf)
	require.NoError(t, enc.ArrayStart())
	for _, v := range []int32{10, 20, 30} {
		require.NoError(t, enc.ArrayItem())
		require.NoError(t, enc.EncodeInt(v))
	}
	require.NoError(t, enc.ArrayEnd())
	assert.Equal(t, `[10,20,30]`, buf.String())

	dec := avrojson.NewDecoder(bytes.NewReader(buf.Bytes()))
	count, err := dec.ArrayStart()
	require.NoError(t, err)
	var got []int32
	for count > 0 {
		for i := int64(0); i < count; i++ {
			v, err := dec.DecodeInt()
			require.NoError(t, err)
			got = append(got, v)
		}
		count, err = dec.ArrayNext()
		require.NoError(t, err)
	}
	assert.Equal(t, []int32{10, 20, 30}, got)
}

func TestUnionWrapperRoundTrip(t *testing.T) {
	branches := []schema.Node{schema.NewPrimitiveNode(schema.Null), schema.NewPrimitiveNode(schema.String)}
	var buf bytes.Buffer
	enc := avrojson.NewEncoder(&buf)
	require.NoError(t, enc.UnionIndex(branches, 1))
	require.NoError(t, enc.EncodeString("v"))
	require.NoError(t, enc.UnionEnd())
	assert.Equal(t, `{"string":"v"}`, buf.String())

	dec := avrojson.NewDecoder(bytes.NewReader(buf.Bytes()))
	idx, err := dec.UnionIndex(branches)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	s, err := dec.DecodeString()
	require.NoError(t, err)
	assert.Equal(t, "v", s)
	require.NoError(t, dec.UnionEnd())
}

func TestNullUnionBranchHasNoWrapper(t *testing.T) {
	branches := []schema.Node{schema.NewPrimitiveNode(schema.Null), schema.NewPrimitiveNode(schema.String)}
	var buf bytes.Buffer
	enc := avrojson.NewEncoder(&buf)
	require.NoError(t, enc.UnionIndex(branches, 0))
	require.NoError(t, enc.EncodeNull())
	assert.Equal(t, `null`, buf.String())

	dec := avrojson.NewDecoder(bytes.NewReader(buf.Bytes()))
	idx, err := dec.UnionIndex(branches)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestRecordFieldOrderEnforced(t *testing.T) {
	dec := avrojson.NewDecoder(bytes.NewReader([]byte(`{"b":1,"a":2}`)))
	require.NoError(t, dec.RecordStart())
	err := dec.RecordFieldStart("a")
	require.Error(t, err)
	assert.ErrorIs(t, err, avrojson.ErrMalformed)
}
