package avrobinary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokol111/avrocodec/encoding/avrobinary"
	"github.com/Sokol111/avrocodec/iostream"
	"github.com/Sokol111/avrocodec/schema"
)

func roundtripWriter(t *testing.T) (*avrobinary.Encoder, *iostream.MemoryWriter) {
	t.Helper()
	mw := iostream.NewMemoryWriter()
	return avrobinary.NewEncoder(mw), mw
}

func TestPrimitivesRoundTrip(t *testing.T) {
	enc, mw := roundtripWriter(t)
	require.NoError(t, enc.EncodeNull())
	require.NoError(t, enc.EncodeBool(true))
	require.NoError(t, enc.EncodeInt(-12345))
	require.NoError(t, enc.EncodeLong(9223372036854775807))
	require.NoError(t, enc.EncodeFloat(3.25))
	require.NoError(t, enc.EncodeDouble(-2.5))
	require.NoError(t, enc.EncodeString("hello"))
	require.NoError(t, enc.EncodeBytes([]byte{0x01, 0x02, 0xff}))
	require.NoError(t, enc.EncodeFixed([]byte{1, 2, 3, 4}))

	dec := avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes()))
	require.NoError(t, dec.DecodeNull())
	b, err := dec.DecodeBool()
	require.NoError(t, err)
	assert.True(t, b)
	i, err := dec.DecodeInt()
	require.NoError(t, err)
	assert.EqualValues(t, -12345, i)
	l, err := dec.DecodeLong()
	require.NoError(t, err)
	assert.EqualValues(t, 9223372036854775807, l)
	f, err := dec.DecodeFloat()
	require.NoError(t, err)
	assert.EqualValues(t, 3.25, f)
	d, err := dec.DecodeDouble()
	require.NoError(t, err)
	assert.EqualValues(t, -2.5, d)
	s, err := dec.DecodeString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	by, err := dec.DecodeBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0xff}, by)
	fx, err := dec.DecodeFixed(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, fx)
}

func TestArrayBlockRoundTrip(t *testing.T) {
	enc, mw := roundtripWriter(t)
	require.NoError(t, enc.ArrayStart())
	require.NoError(t, enc.ArrayCount(3))
	for _, v := range []int32{1, 2, 3} {
		require.NoError(t, enc.ArrayItem())
		require.NoError(t, enc.EncodeInt(v))
	}
	require.NoError(t, enc.ArrayCount(0))
	require.NoError(t, enc.ArrayEnd())

	dec := avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes()))
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
	assert.Equal(t, []int32{1, 2, 3}, got)
}

func TestEmptyArray(t *testing.T) {
	enc, mw := roundtripWriter(t)
	require.NoError(t, enc.ArrayStart())
	require.NoError(t, enc.ArrayCount(0))
	require.NoError(t, enc.ArrayEnd())

	dec := avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes()))
	count, err := dec.ArrayStart()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNegativeBlockCountWithByteSize(t *testing.T) {
	// Hand-construct the wire bytes for a block of 2 items whose count is
	// encoded negative with a following byte-size long, then a terminating
	// zero-count block (§4.2's block-count optimization).
	mw := iostream.NewMemoryWriter()
	enc := avrobinary.NewEncoder(mw)
	require.NoError(t, enc.EncodeLong(-2))
	require.NoError(t, enc.EncodeLong(2)) // byte size of the 2 ints below (each 1 byte)
	require.NoError(t, enc.EncodeInt(1))
	require.NoError(t, enc.EncodeInt(2))
	require.NoError(t, enc.EncodeLong(0))

	dec := avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes()))
	count, err := dec.ArrayStart()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	v1, err := dec.DecodeInt()
	require.NoError(t, err)
	v2, err := dec.DecodeInt()
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, []int32{v1, v2})
	next, err := dec.ArrayNext()
	require.NoError(t, err)
	assert.Zero(t, next)
}

func TestUnionIndexRoundTrip(t *testing.T) {
	branches := []schema.Node{schema.NewPrimitiveNode(schema.Null), schema.NewPrimitiveNode(schema.String)}
	enc, mw := roundtripWriter(t)
	require.NoError(t, enc.UnionIndex(branches, 1))
	require.NoError(t, enc.EncodeString("chosen"))

	dec := avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes()))
	idx, err := dec.UnionIndex(branches)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	s, err := dec.DecodeString()
	require.NoError(t, err)
	assert.Equal(t, "chosen", s)
}

func TestIntBoundary(t *testing.T) {
	enc, mw := roundtripWriter(t)
	require.NoError(t, enc.EncodeInt(-2147483648))
	require.NoError(t, enc.EncodeInt(2147483647))

	dec := avrobinary.NewDecoder(iostream.NewMemoryReader(mw.Bytes()))
	v1, err := dec.DecodeInt()
	require.NoError(t, err)
	assert.EqualValues(t, -2147483648, v1)
	v2, err := dec.DecodeInt()
	require.NoError(t, err)
	assert.EqualValues(t, 2147483647, v2)
}
