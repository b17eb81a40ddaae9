package avrojson

import (
	"fmt"
	"io"
	"math"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/Sokol111/avrocodec/schema"
)

// Encoder writes the Avro JSON encoding (§4.3) to an io.Writer. It tracks
// one "has this container written a member yet" flag per open
// array/object/record so item and field separators land in the right
// place; string values are marshaled with goccy/go-json to get correct
// JSON escaping without hand-rolling it.
type Encoder struct {
	w         io.Writer
	needComma []bool
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) writeRaw(s string) error {
	_, err := io.WriteString(e.w, s)
	return err
}

func (e *Encoder) writeQuoted(s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("avrojson: marshal string: %w", err)
	}
	_, err = e.w.Write(b)
	return err
}

func (e *Encoder) push()     { e.needComma = append(e.needComma, false) }
func (e *Encoder) pop()      { e.needComma = e.needComma[:len(e.needComma)-1] }
func (e *Encoder) top() bool { return e.needComma[len(e.needComma)-1] }
func (e *Encoder) setTop(v bool) {
	e.needComma[len(e.needComma)-1] = v
}

// separator writes a comma if the current container already has a member,
// then marks it as having one.
func (e *Encoder) separator() error {
	if e.top() {
		if err := e.writeRaw(","); err != nil {
			return err
		}
	}
	e.setTop(true)
	return nil
}

func (e *Encoder) EncodeNull() error { return e.writeRaw("null") }

func (e *Encoder) EncodeBool(v bool) error {
	if v {
		return e.writeRaw("true")
	}
	return e.writeRaw("false")
}

func (e *Encoder) EncodeInt(v int32) error {
	return e.writeRaw(strconv.FormatInt(int64(v), 10))
}

func (e *Encoder) EncodeLong(v int64) error {
	return e.writeRaw(strconv.FormatInt(v, 10))
}

// encodeFloating writes v using the "NaN"/"Infinity"/"-Infinity"
// JSON-string convention for non-finite values (§4.3), a plain JSON
// number otherwise.
func (e *Encoder) encodeFloating(v float64, bitSize int) error {
	switch {
	case math.IsNaN(v):
		return e.writeRaw(`"NaN"`)
	case math.IsInf(v, 1):
		return e.writeRaw(`"Infinity"`)
	case math.IsInf(v, -1):
		return e.writeRaw(`"-Infinity"`)
	default:
		return e.writeRaw(strconv.FormatFloat(v, 'g', -1, bitSize))
	}
}

func (e *Encoder) EncodeFloat(v float32) error  { return e.encodeFloating(float64(v), 32) }
func (e *Encoder) EncodeDouble(v float64) error { return e.encodeFloating(v, 64) }

func (e *Encoder) EncodeString(v string) error { return e.writeQuoted(v) }

// bytesToString is the inverse of the decoder's bytesString: each raw
// byte becomes one code point of the JSON string.
func bytesToString(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

func (e *Encoder) EncodeBytes(v []byte) error { return e.writeQuoted(bytesToString(v)) }
func (e *Encoder) EncodeFixed(v []byte) error { return e.writeQuoted(bytesToString(v)) }

func (e *Encoder) EncodeEnum(symbols []string, index int) error {
	return e.writeQuoted(symbols[index])
}

func (e *Encoder) ArrayStart() error {
	e.push()
	return e.writeRaw("[")
}
func (e *Encoder) ArrayCount(n int64) error { return nil }
func (e *Encoder) ArrayItem() error         { return e.separator() }
func (e *Encoder) ArrayEnd() error {
	e.pop()
	return e.writeRaw("]")
}

func (e *Encoder) MapStart() error {
	e.push()
	return e.writeRaw("{")
}
func (e *Encoder) MapCount(n int64) error { return nil }
func (e *Encoder) MapItem(key string) error {
	if err := e.separator(); err != nil {
		return err
	}
	if err := e.writeQuoted(key); err != nil {
		return err
	}
	return e.writeRaw(":")
}
func (e *Encoder) MapEnd() error {
	e.pop()
	return e.writeRaw("}")
}

func (e *Encoder) UnionIndex(branches []schema.Node, index int) error {
	if branches[index].Type() == schema.Null {
		return nil
	}
	if err := e.writeRaw("{"); err != nil {
		return err
	}
	if err := e.writeQuoted(branchTypeName(branches[index])); err != nil {
		return err
	}
	return e.writeRaw(":")
}

func (e *Encoder) UnionEnd() error { return e.writeRaw("}") }

func (e *Encoder) RecordStart() error {
	e.push()
	return e.writeRaw("{")
}
func (e *Encoder) RecordFieldStart(name string) error {
	if err := e.separator(); err != nil {
		return err
	}
	if err := e.writeQuoted(name); err != nil {
		return err
	}
	return e.writeRaw(":")
}
func (e *Encoder) RecordEnd() error {
	e.pop()
	return e.writeRaw("}")
}
