package avrobinary_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sokol111/avrocodec/encoding/avrobinary"
	"github.com/Sokol111/avrocodec/iostream"
)

// mockByteReader simulates a faulty stream (immediate EOF), the same
// mock.Mock-based fault-injection style the teacher's
// pkg/messaging/kafka/avro serializer tests use for its own byte-level
// dependencies.
type mockByteReader struct {
	mock.Mock
}

func (m *mockByteReader) Next() ([]byte, bool) {
	args := m.Called()
	b, _ := args.Get(0).([]byte)
	return b, args.Bool(1)
}

func (m *mockByteReader) Backup(n int) { m.Called(n) }
func (m *mockByteReader) Skip(n int) int {
	args := m.Called(n)
	return args.Int(0)
}
func (m *mockByteReader) ByteCount() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

var _ iostream.ByteReader = (*mockByteReader)(nil)

func TestDecodeBoolOnExhaustedStream(t *testing.T) {
	r := new(mockByteReader)
	r.On("Next").Return([]byte(nil), false)

	dec := avrobinary.NewDecoder(r)
	_, err := dec.DecodeBool()
	require.Error(t, err)
	require.ErrorIs(t, err, iostream.ErrUnexpectedEOF)
	r.AssertExpectations(t)
}
