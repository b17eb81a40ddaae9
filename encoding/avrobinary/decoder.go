package avrobinary

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Sokol111/avrocodec/iostream"
	"github.com/Sokol111/avrocodec/schema"
)

// Decoder reads the Avro binary encoding (§4.2) off a ByteReader. It has
// no knowledge of any particular schema beyond what each call site tells
// it (an enum's symbol count, a fixed's size, a union's branch list); it
// never validates that the sequence of calls it receives matches any
// schema — that is parsing.ValidatingDecoder's job, which wraps a Decoder.
type Decoder struct {
	r iostream.ByteReader
}

func NewDecoder(r iostream.ByteReader) *Decoder {
	return &Decoder{r: r}
}

func (d *Decoder) readVarint(maxBytes int) (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < maxBytes; i++ {
		b, err := iostream.ReadByte(d.r)
		if err != nil {
			return 0, fmt.Errorf("avrobinary: read varint: %w", err)
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, fmt.Errorf("%w: varint longer than %d bytes", ErrMalformed, maxBytes)
}

func (d *Decoder) DecodeNull() error { return nil }

func (d *Decoder) DecodeBool() (bool, error) {
	b, err := iostream.ReadByte(d.r)
	if err != nil {
		return false, fmt.Errorf("avrobinary: decode bool: %w", err)
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: boolean byte %#x", ErrMalformed, b)
	}
}

func (d *Decoder) DecodeInt() (int32, error) {
	u, err := d.readVarint(5)
	if err != nil {
		return 0, err
	}
	v := zigzagDecode64(u)
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: long value %d out of range for int", ErrMalformed, v)
	}
	return int32(v), nil
}

func (d *Decoder) DecodeLong() (int64, error) {
	u, err := d.readVarint(10)
	if err != nil {
		return 0, err
	}
	return zigzagDecode64(u), nil
}

func (d *Decoder) DecodeFloat() (float32, error) {
	var buf [4]byte
	if err := iostream.ReadFull(d.r, buf[:]); err != nil {
		return 0, fmt.Errorf("avrobinary: decode float: %w", err)
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}

func (d *Decoder) DecodeDouble() (float64, error) {
	var buf [8]byte
	if err := iostream.ReadFull(d.r, buf[:]); err != nil {
		return 0, fmt.Errorf("avrobinary: decode double: %w", err)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

func (d *Decoder) DecodeBytes() ([]byte, error) {
	n, err := d.DecodeLong()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative bytes length %d", ErrMalformed, n)
	}
	buf := make([]byte, n)
	if err := iostream.ReadFull(d.r, buf); err != nil {
		return nil, fmt.Errorf("avrobinary: decode bytes: %w", err)
	}
	return buf, nil
}

func (d *Decoder) DecodeString() (string, error) {
	b, err := d.DecodeBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) DecodeFixed(size int) ([]byte, error) {
	buf := make([]byte, size)
	if err := iostream.ReadFull(d.r, buf); err != nil {
		return nil, fmt.Errorf("avrobinary: decode fixed[%d]: %w", size, err)
	}
	return buf, nil
}

func (d *Decoder) DecodeEnum(symbols []string) (int, error) {
	idx, err := d.DecodeInt()
	if err != nil {
		return 0, err
	}
	if int(idx) < 0 || int(idx) >= len(symbols) {
		return 0, fmt.Errorf("%w: enum index %d out of range [0,%d)", ErrMalformed, idx, len(symbols))
	}
	return int(idx), nil
}

func (d *Decoder) blockCount() (int64, error) {
	n, err := d.DecodeLong()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		// negative count is followed by the block's byte size, which a
		// decoder that reads every item doesn't need.
		if _, err := d.DecodeLong(); err != nil {
			return 0, err
		}
		n = -n
	}
	return n, nil
}

func (d *Decoder) ArrayStart() (int64, error) { return d.blockCount() }
func (d *Decoder) ArrayNext() (int64, error)  { return d.blockCount() }
func (d *Decoder) MapStart() (int64, error)   { return d.blockCount() }
func (d *Decoder) MapNext() (int64, error)    { return d.blockCount() }

func (d *Decoder) MapKey() (string, error) { return d.DecodeString() }

func (d *Decoder) UnionIndex(branches []schema.Node) (int, error) {
	idx, err := d.DecodeLong()
	if err != nil {
		return 0, err
	}
	if idx < 0 || int(idx) >= len(branches) {
		return 0, fmt.Errorf("%w: union index %d out of range [0,%d)", ErrMalformed, idx, len(branches))
	}
	return int(idx), nil
}

func (d *Decoder) UnionEnd() error { return nil }

func (d *Decoder) RecordStart() error                     { return nil }
func (d *Decoder) RecordFieldStart(name string) error     { return nil }
func (d *Decoder) RecordEnd() error                       { return nil }
