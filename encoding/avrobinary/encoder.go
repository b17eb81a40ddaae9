package avrobinary

import (
	"encoding/binary"
	"math"

	"github.com/Sokol111/avrocodec/iostream"
	"github.com/Sokol111/avrocodec/schema"
)

// Encoder writes the Avro binary encoding (§4.2) to a ByteWriter. Like
// Decoder it performs no schema validation of its own;
// parsing.ValidatingEncoder adds that on top by wrapping an Encoder.
type Encoder struct {
	w   iostream.ByteWriter
	buf []byte // scratch buffer reused across varint/float writes
}

func NewEncoder(w iostream.ByteWriter) *Encoder {
	return &Encoder{w: w, buf: make([]byte, 0, 10)}
}

func (e *Encoder) EncodeNull() error { return nil }

func (e *Encoder) EncodeBool(v bool) error {
	if v {
		iostream.WriteByte(e.w, 1)
	} else {
		iostream.WriteByte(e.w, 0)
	}
	return nil
}

func (e *Encoder) EncodeInt(v int32) error {
	e.buf = putVarint(e.buf[:0], zigzagEncode64(int64(v)))
	iostream.WriteAll(e.w, e.buf)
	return nil
}

func (e *Encoder) EncodeLong(v int64) error {
	e.buf = putVarint(e.buf[:0], zigzagEncode64(v))
	iostream.WriteAll(e.w, e.buf)
	return nil
}

func (e *Encoder) EncodeFloat(v float32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	iostream.WriteAll(e.w, buf[:])
	return nil
}

func (e *Encoder) EncodeDouble(v float64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	iostream.WriteAll(e.w, buf[:])
	return nil
}

func (e *Encoder) EncodeBytes(v []byte) error {
	if err := e.EncodeLong(int64(len(v))); err != nil {
		return err
	}
	iostream.WriteAll(e.w, v)
	return nil
}

func (e *Encoder) EncodeString(v string) error {
	return e.EncodeBytes([]byte(v))
}

func (e *Encoder) EncodeFixed(v []byte) error {
	iostream.WriteAll(e.w, v)
	return nil
}

func (e *Encoder) EncodeEnum(symbols []string, index int) error {
	return e.EncodeInt(int32(index))
}

func (e *Encoder) ArrayStart() error { return nil }

func (e *Encoder) ArrayCount(n int64) error { return e.EncodeLong(n) }

func (e *Encoder) ArrayItem() error { return nil }

func (e *Encoder) ArrayEnd() error { return nil }

func (e *Encoder) MapStart() error { return nil }

func (e *Encoder) MapCount(n int64) error { return e.EncodeLong(n) }

func (e *Encoder) MapItem(key string) error { return e.EncodeString(key) }

func (e *Encoder) MapEnd() error { return nil }

func (e *Encoder) UnionIndex(branches []schema.Node, index int) error {
	return e.EncodeLong(int64(index))
}

func (e *Encoder) UnionEnd() error { return nil }

func (e *Encoder) RecordStart() error                 { return nil }
func (e *Encoder) RecordFieldStart(name string) error { return nil }
func (e *Encoder) RecordEnd() error                   { return nil }
