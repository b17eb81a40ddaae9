package generic

import (
	"fmt"

	"github.com/Sokol111/avrocodec/parsing"
	"github.com/Sokol111/avrocodec/schema"
)

// Writer recursively walks a schema.Datum paired with the schema.Node it was
// built against and drives any parsing.Encoder implementation: a raw
// encoding/avrobinary or encoding/avrojson encoder, or a
// parsing.ValidatingEncoder wrapping one.
type Writer struct {
	enc  parsing.Encoder
	root schema.Node
}

func NewWriter(enc parsing.Encoder, root schema.Node) *Writer {
	return &Writer{enc: enc, root: root}
}

// Write encodes d, which must be shaped like w's root schema.
func (w *Writer) Write(d schema.Datum) error {
	return writeNode(w.enc, w.root, d)
}

func writeNode(enc parsing.Encoder, n schema.Node, d schema.Datum) error {
	switch v := n.(type) {
	case *schema.PrimitiveNode:
		return writePrimitive(enc, v.Type(), d)
	case *schema.FixedNode:
		return enc.EncodeFixed(d.Bytes())
	case *schema.EnumNode:
		ed := d.Enum()
		return enc.EncodeEnum(v.Symbols(), ed.Index)
	case *schema.RecordNode:
		return writeRecord(enc, v, d)
	case *schema.ArrayNode:
		return writeArray(enc, v, d)
	case *schema.MapNode:
		return writeMap(enc, v, d)
	case *schema.UnionNode:
		return writeUnion(enc, v, d)
	case *schema.SymbolicNode:
		return writeNode(enc, v.Target(), d)
	default:
		return fmt.Errorf("generic: unwritable node kind %T", n)
	}
}

func writePrimitive(enc parsing.Encoder, t schema.Type, d schema.Datum) error {
	switch t {
	case schema.Null:
		return enc.EncodeNull()
	case schema.Boolean:
		return enc.EncodeBool(d.Bool())
	case schema.Int:
		return enc.EncodeInt(d.Int())
	case schema.Long:
		return enc.EncodeLong(d.Long())
	case schema.Float:
		return enc.EncodeFloat(d.Float())
	case schema.Double:
		return enc.EncodeDouble(d.Double())
	case schema.String:
		return enc.EncodeString(d.String())
	case schema.Bytes:
		return enc.EncodeBytes(d.Bytes())
	default:
		return fmt.Errorf("generic: unwritable primitive type %v", t)
	}
}

func writeRecord(enc parsing.Encoder, n *schema.RecordNode, d schema.Datum) error {
	if err := enc.RecordStart(); err != nil {
		return err
	}
	values := d.Record()
	fields := n.Fields()
	if len(values) != len(fields) {
		return fmt.Errorf("generic: record %q has %d fields but datum carries %d values", n.Name().FullName(), len(fields), len(values))
	}
	for i, f := range fields {
		if err := enc.RecordFieldStart(f.Name()); err != nil {
			return err
		}
		if err := writeNode(enc, f.Type(), values[i]); err != nil {
			return err
		}
	}
	return enc.RecordEnd()
}

func writeArray(enc parsing.Encoder, n *schema.ArrayNode, d schema.Datum) error {
	items := d.Array()
	if err := enc.ArrayStart(); err != nil {
		return err
	}
	if err := enc.ArrayCount(int64(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := enc.ArrayItem(); err != nil {
			return err
		}
		if err := writeNode(enc, n.Items(), item); err != nil {
			return err
		}
	}
	if len(items) > 0 {
		if err := enc.ArrayCount(0); err != nil {
			return err
		}
	}
	return enc.ArrayEnd()
}

func writeMap(enc parsing.Encoder, n *schema.MapNode, d schema.Datum) error {
	entries := d.Map()
	if err := enc.MapStart(); err != nil {
		return err
	}
	if err := enc.MapCount(int64(len(entries))); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := enc.MapItem(entry.Key); err != nil {
			return err
		}
		if err := writeNode(enc, n.Values(), entry.Value); err != nil {
			return err
		}
	}
	if len(entries) > 0 {
		if err := enc.MapCount(0); err != nil {
			return err
		}
	}
	return enc.MapEnd()
}

func writeUnion(enc parsing.Encoder, n *schema.UnionNode, d schema.Datum) error {
	ud := d.Union()
	branch := n.Branches()[ud.BranchIndex]
	if err := enc.UnionIndex(n.Branches(), ud.BranchIndex); err != nil {
		return err
	}
	if err := writeNode(enc, branch, ud.Value); err != nil {
		return err
	}
	if deref(branch).Type() != schema.Null {
		return enc.UnionEnd()
	}
	return nil
}
