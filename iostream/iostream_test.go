package iostream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sokol111/avrocodec/iostream"
)

func TestMemoryReaderNextBackupSkip(t *testing.T) {
	r := iostream.NewMemoryReader([]byte("hello"))
	chunk, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), chunk)
	assert.EqualValues(t, 5, r.ByteCount())

	r.Backup(3)
	assert.EqualValues(t, 2, r.ByteCount())

	skipped := r.Skip(10)
	assert.Equal(t, 3, skipped)
	assert.EqualValues(t, 5, r.ByteCount())

	_, ok = r.Next()
	assert.False(t, ok)
}

func TestMemoryWriterGrowsAndReportsBytes(t *testing.T) {
	w := iostream.NewMemoryWriter()
	chunk := w.Next()
	n := copy(chunk, "abc")
	w.Backup(len(chunk) - n)
	assert.Equal(t, "abc", string(w.Bytes()))
	assert.NoError(t, w.Flush())
	assert.EqualValues(t, 3, w.ByteCount())
}

func TestReadWriteHelpers(t *testing.T) {
	w := iostream.NewMemoryWriter()
	iostream.WriteByte(w, 0x42)
	iostream.WriteAll(w, []byte{1, 2, 3})

	r := iostream.NewMemoryReader(w.Bytes())
	b, err := iostream.ReadByte(r)
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), b)

	buf := make([]byte, 3)
	require.NoError(t, iostream.ReadFull(r, buf))
	assert.Equal(t, []byte{1, 2, 3}, buf)

	err = iostream.ReadFull(r, buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, iostream.ErrUnexpectedEOF)
}
