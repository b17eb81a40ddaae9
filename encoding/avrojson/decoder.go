package avrojson

import (
	"fmt"
	"io"
	"math"

	json "github.com/goccy/go-json"

	"github.com/Sokol111/avrocodec/schema"
)

// Decoder reads the Avro JSON encoding (§4.3) token by token off an
// io.Reader, using goccy/go-json's Decoder.Token() as the tokenizer (the
// same streaming API schema.parseJSONEntity and reoring-goskema's
// gojson driver both drive). It assumes record fields appear in the
// schema's declared order, matching what this module's own Encoder
// produces; a JSON document with reordered fields is rejected rather than
// reconciled, a deliberate simplification over a fully general JSON object
// reader.
type Decoder struct {
	dec *json.Decoder
	// nullTaken is set when UnionIndex has already consumed the JSON null
	// of a null branch, so the DecodeNull that follows reads nothing.
	nullTaken bool
}

func NewDecoder(r io.Reader) *Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Decoder{dec: dec}
}

func (d *Decoder) token() (json.Token, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return tok, nil
}

func (d *Decoder) DecodeNull() error {
	if d.nullTaken {
		d.nullTaken = false
		return nil
	}
	tok, err := d.token()
	if err != nil {
		return err
	}
	if tok != nil {
		return fmt.Errorf("%w: expected null, got %v", ErrMalformed, tok)
	}
	return nil
}

func (d *Decoder) DecodeBool() (bool, error) {
	tok, err := d.token()
	if err != nil {
		return false, err
	}
	b, ok := tok.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expected boolean, got %v", ErrMalformed, tok)
	}
	return b, nil
}

func (d *Decoder) number(tok json.Token) (json.Number, error) {
	n, ok := tok.(json.Number)
	if !ok {
		return "", fmt.Errorf("%w: expected number, got %v", ErrMalformed, tok)
	}
	return n, nil
}

func (d *Decoder) DecodeInt() (int32, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	n, err := d.number(tok)
	if err != nil {
		return 0, err
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: invalid int %q: %v", ErrMalformed, n, err)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: long value %d out of range for int", ErrMalformed, v)
	}
	return int32(v), nil
}

func (d *Decoder) DecodeLong() (int64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	n, err := d.number(tok)
	if err != nil {
		return 0, err
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: invalid long %q: %v", ErrMalformed, n, err)
	}
	return v, nil
}

// decodeFloating handles the "NaN"/"Infinity"/"-Infinity" JSON-string
// special cases the Avro JSON encoding uses for non-finite float/double
// values, alongside plain JSON numbers (§4.3).
func (d *Decoder) decodeFloating() (float64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	switch v := tok.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: invalid float %q: %v", ErrMalformed, v, err)
		}
		return f, nil
	case string:
		switch v {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		default:
			return 0, fmt.Errorf("%w: unrecognized float literal %q", ErrMalformed, v)
		}
	default:
		return 0, fmt.Errorf("%w: expected number or float literal string, got %v", ErrMalformed, tok)
	}
}

func (d *Decoder) DecodeFloat() (float32, error) {
	f, err := d.decodeFloating()
	return float32(f), err
}

func (d *Decoder) DecodeDouble() (float64, error) {
	return d.decodeFloating()
}

func (d *Decoder) DecodeString() (string, error) {
	tok, err := d.token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %v", ErrMalformed, tok)
	}
	return s, nil
}

// bytesString decodes a JSON string whose code points are each a raw byte
// value 0-255, the convention Avro JSON uses for bytes/fixed (§4.3, same
// convention as default values, schema.bytesFromDefaultString).
func (d *Decoder) bytesString() ([]byte, error) {
	s, err := d.DecodeString()
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	b := make([]byte, len(runes))
	for i, r := range runes {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: bytes value contains out-of-range code point U+%04X", ErrMalformed, r)
		}
		b[i] = byte(r)
	}
	return b, nil
}

func (d *Decoder) DecodeBytes() ([]byte, error) { return d.bytesString() }

func (d *Decoder) DecodeFixed(size int) ([]byte, error) {
	b, err := d.bytesString()
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: fixed value has length %d, want %d", ErrMalformed, len(b), size)
	}
	return b, nil
}

func (d *Decoder) DecodeEnum(symbols []string) (int, error) {
	s, err := d.DecodeString()
	if err != nil {
		return 0, err
	}
	for i, sym := range symbols {
		if sym == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: enum symbol %q is not one of %v", ErrMalformed, s, symbols)
}

func (d *Decoder) expectDelim(want json.Delim) error {
	tok, err := d.token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrMalformed, want, tok)
	}
	return nil
}

func (d *Decoder) ArrayStart() (int64, error) {
	if err := d.expectDelim('['); err != nil {
		return 0, err
	}
	return d.arrayBlock()
}

func (d *Decoder) ArrayNext() (int64, error) { return d.arrayBlock() }

// arrayBlock reports "1" (one more item pending) or "0" (array
// exhausted, closing bracket already consumed), simulating the wire
// format's block-count iteration one item at a time: JSON has no count
// prefix to report up front.
func (d *Decoder) arrayBlock() (int64, error) {
	if d.dec.More() {
		return 1, nil
	}
	if err := d.expectDelim(']'); err != nil {
		return 0, err
	}
	return 0, nil
}

func (d *Decoder) MapStart() (int64, error) {
	if err := d.expectDelim('{'); err != nil {
		return 0, err
	}
	return d.mapBlock()
}

func (d *Decoder) MapNext() (int64, error) { return d.mapBlock() }

func (d *Decoder) mapBlock() (int64, error) {
	if d.dec.More() {
		return 1, nil
	}
	if err := d.expectDelim('}'); err != nil {
		return 0, err
	}
	return 0, nil
}

func (d *Decoder) MapKey() (string, error) { return d.DecodeString() }

func (d *Decoder) UnionIndex(branches []schema.Node) (int, error) {
	tok, err := d.token()
	if err != nil {
		return 0, err
	}
	if tok == nil {
		for i, b := range branches {
			if b.Type() == schema.Null {
				d.nullTaken = true
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: union has no null branch to match a JSON null", ErrMalformed)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return 0, fmt.Errorf("%w: expected null or an object wrapping a union branch, got %v", ErrMalformed, tok)
	}
	keyTok, err := d.token()
	if err != nil {
		return 0, err
	}
	branchName, ok := keyTok.(string)
	if !ok {
		return 0, fmt.Errorf("%w: union wrapper key must be a string, got %v", ErrMalformed, keyTok)
	}
	for i, b := range branches {
		if branchTypeName(b) == branchName {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q does not name any union branch", ErrMalformed, branchName)
}

func (d *Decoder) UnionEnd() error { return d.expectDelim('}') }

func (d *Decoder) RecordStart() error { return d.expectDelim('{') }

func (d *Decoder) RecordFieldStart(name string) error {
	tok, err := d.token()
	if err != nil {
		return err
	}
	key, ok := tok.(string)
	if !ok {
		return fmt.Errorf("%w: expected field name, got %v", ErrMalformed, tok)
	}
	if key != name {
		return fmt.Errorf("%w: expected field %q next, got %q (out-of-order fields are not supported)", ErrMalformed, name, key)
	}
	return nil
}

func (d *Decoder) RecordEnd() error { return d.expectDelim('}') }
