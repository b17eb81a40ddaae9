// Package generic implements the Generic Datum Bridge (§5): a reflection-
// free reader/writer pair that walks a schema.Node tree and drives any
// parsing.Decoder/Encoder-compatible codec, the Go counterpart of the
// original implementation's api/Generic.hh GenericReader/GenericWriter.
// It is the layer most callers use directly rather than hand-rolling a
// per-type switch over a parsing.Decoder themselves.
package generic

import (
	"fmt"

	"github.com/Sokol111/avrocodec/parsing"
	"github.com/Sokol111/avrocodec/schema"
)

// Reader recursively builds a schema.Datum tree for one value of root,
// reading from any parsing.Decoder implementation: a raw encoding/avrobinary
// or encoding/avrojson decoder, or a parsing.ValidatingDecoder wrapping one.
// It does not handle writer/reader schema resolution; for that, read through
// a parsing.ResolvingDecoder directly (§4.7) — resolution produces a Datum
// on its own, without needing Reader at all.
type Reader struct {
	dec  parsing.Decoder
	root schema.Node
}

func NewReader(dec parsing.Decoder, root schema.Node) *Reader {
	return &Reader{dec: dec, root: root}
}

// Read decodes one value of r's root schema.
func (r *Reader) Read() (schema.Datum, error) {
	return readNode(r.dec, r.root)
}

func readNode(dec parsing.Decoder, n schema.Node) (schema.Datum, error) {
	switch v := n.(type) {
	case *schema.PrimitiveNode:
		return readPrimitive(dec, v.Type())
	case *schema.FixedNode:
		b, err := dec.DecodeFixed(v.Size())
		return schema.NewFixedDatum(b), err
	case *schema.EnumNode:
		idx, err := dec.DecodeEnum(v.Symbols())
		if err != nil {
			return schema.Datum{}, err
		}
		return schema.NewEnumDatum(v.Symbols()[idx], idx), nil
	case *schema.RecordNode:
		return readRecord(dec, v)
	case *schema.ArrayNode:
		return readArray(dec, v)
	case *schema.MapNode:
		return readMap(dec, v)
	case *schema.UnionNode:
		return readUnion(dec, v)
	case *schema.SymbolicNode:
		return readNode(dec, v.Target())
	default:
		return schema.Datum{}, fmt.Errorf("generic: unreadable node kind %T", n)
	}
}

func readPrimitive(dec parsing.Decoder, t schema.Type) (schema.Datum, error) {
	switch t {
	case schema.Null:
		return schema.NewNullDatum(), dec.DecodeNull()
	case schema.Boolean:
		v, err := dec.DecodeBool()
		return schema.NewBoolDatum(v), err
	case schema.Int:
		v, err := dec.DecodeInt()
		return schema.NewIntDatum(v), err
	case schema.Long:
		v, err := dec.DecodeLong()
		return schema.NewLongDatum(v), err
	case schema.Float:
		v, err := dec.DecodeFloat()
		return schema.NewFloatDatum(v), err
	case schema.Double:
		v, err := dec.DecodeDouble()
		return schema.NewDoubleDatum(v), err
	case schema.String:
		v, err := dec.DecodeString()
		return schema.NewStringDatum(v), err
	case schema.Bytes:
		v, err := dec.DecodeBytes()
		return schema.NewBytesDatum(v), err
	default:
		return schema.Datum{}, fmt.Errorf("generic: unreadable primitive type %v", t)
	}
}

func readRecord(dec parsing.Decoder, n *schema.RecordNode) (schema.Datum, error) {
	if err := dec.RecordStart(); err != nil {
		return schema.Datum{}, err
	}
	fields := n.Fields()
	values := make([]schema.Datum, len(fields))
	for i, f := range fields {
		if err := dec.RecordFieldStart(f.Name()); err != nil {
			return schema.Datum{}, err
		}
		v, err := readNode(dec, f.Type())
		if err != nil {
			return schema.Datum{}, err
		}
		values[i] = v
	}
	if err := dec.RecordEnd(); err != nil {
		return schema.Datum{}, err
	}
	return schema.NewRecordDatum(values), nil
}

func readArray(dec parsing.Decoder, n *schema.ArrayNode) (schema.Datum, error) {
	var items []schema.Datum
	count, err := dec.ArrayStart()
	if err != nil {
		return schema.Datum{}, err
	}
	for count > 0 {
		for i := int64(0); i < count; i++ {
			v, err := readNode(dec, n.Items())
			if err != nil {
				return schema.Datum{}, err
			}
			items = append(items, v)
		}
		count, err = dec.ArrayNext()
		if err != nil {
			return schema.Datum{}, err
		}
	}
	return schema.NewArrayDatum(items), nil
}

func readMap(dec parsing.Decoder, n *schema.MapNode) (schema.Datum, error) {
	var entries []schema.MapEntry
	count, err := dec.MapStart()
	if err != nil {
		return schema.Datum{}, err
	}
	for count > 0 {
		for i := int64(0); i < count; i++ {
			key, err := dec.MapKey()
			if err != nil {
				return schema.Datum{}, err
			}
			v, err := readNode(dec, n.Values())
			if err != nil {
				return schema.Datum{}, err
			}
			entries = append(entries, schema.MapEntry{Key: key, Value: v})
		}
		count, err = dec.MapNext()
		if err != nil {
			return schema.Datum{}, err
		}
	}
	return schema.NewMapDatum(entries), nil
}

func readUnion(dec parsing.Decoder, n *schema.UnionNode) (schema.Datum, error) {
	idx, err := dec.UnionIndex(n.Branches())
	if err != nil {
		return schema.Datum{}, err
	}
	branch := n.Branches()[idx]
	v, err := readNode(dec, branch)
	if err != nil {
		return schema.Datum{}, err
	}
	if deref(branch).Type() != schema.Null {
		if err := dec.UnionEnd(); err != nil {
			return schema.Datum{}, err
		}
	}
	return schema.NewUnionDatum(idx, v), nil
}

func deref(n schema.Node) schema.Node {
	for {
		sym, ok := n.(*schema.SymbolicNode)
		if !ok {
			return n
		}
		n = sym.Target()
	}
}
