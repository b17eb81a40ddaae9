package parsing

import (
	"fmt"

	"github.com/Sokol111/avrocodec/schema"
)

// ResolvingDecoder projects data encoded for a writer schema onto a
// (possibly different) reader schema, the Go counterpart of the original
// implementation's impl/parsing/ResolvingDecoder.cc: numeric promotion,
// union resolution in either direction, record field reordering/
// defaulting/skipping, and enum symbol remapping (§4.7).
//
// Unlike ValidatingDecoder it does not implement the Decoder interface
// itself — reconciling two schemas at once needs to walk both trees in
// lockstep, which is a different shape of recursion than generic.Reader's
// single-schema walk — it instead produces a schema.Datum directly,
// shaped like the reader schema.
type ResolvingDecoder struct {
	base   Decoder
	writer schema.Node
	reader schema.Node
}

func NewResolvingDecoder(base Decoder, writer, reader schema.Node) *ResolvingDecoder {
	return &ResolvingDecoder{base: base, writer: writer, reader: reader}
}

// Decode reads one value encoded for rd's writer schema and returns it
// shaped like rd's reader schema.
func (rd *ResolvingDecoder) Decode() (schema.Datum, error) {
	return resolve(rd.base, rd.writer, rd.reader)
}

func nodeFullName(n schema.Node) string {
	switch v := n.(type) {
	case *schema.RecordNode:
		return v.Name().FullName()
	case *schema.EnumNode:
		return v.Name().FullName()
	case *schema.FixedNode:
		return v.Name().FullName()
	default:
		return ""
	}
}

// canPromote reports whether a writer value of type from may be read as
// type to under Avro's numeric/string promotion rules (§4.7).
func canPromote(from, to schema.Type) bool {
	if from == to {
		return true
	}
	switch from {
	case schema.Int:
		return to == schema.Long || to == schema.Float || to == schema.Double
	case schema.Long:
		return to == schema.Float || to == schema.Double
	case schema.Float:
		return to == schema.Double
	case schema.String:
		return to == schema.Bytes
	case schema.Bytes:
		return to == schema.String
	default:
		return false
	}
}

func findPromotableBranch(writerType schema.Type, branches []schema.Node) int {
	for i, b := range branches {
		if canPromote(writerType, deref(b).Type()) {
			return i
		}
	}
	return -1
}

func resolve(base Decoder, writer, reader schema.Node) (schema.Datum, error) {
	writer = deref(writer)
	reader = deref(reader)

	if writer.Type() == schema.Union {
		wu := writer.(*schema.UnionNode)
		idx, err := base.UnionIndex(wu.Branches())
		if err != nil {
			return schema.Datum{}, err
		}
		chosen := wu.Branches()[idx]
		val, err := resolve(base, chosen, reader)
		if err != nil {
			return schema.Datum{}, err
		}
		if deref(chosen).Type() != schema.Null {
			if err := base.UnionEnd(); err != nil {
				return schema.Datum{}, err
			}
		}
		return val, nil
	}

	if reader.Type() == schema.Union {
		ru := reader.(*schema.UnionNode)
		idx := ru.BestMatchIndex(writer.Type(), nodeFullName(writer))
		if idx < 0 {
			idx = findPromotableBranch(writer.Type(), ru.Branches())
		}
		if idx < 0 {
			return schema.Datum{}, fmt.Errorf("%w: no reader union branch matches writer type %v", ErrResolutionMismatch, writer.Type())
		}
		val, err := resolve(base, writer, ru.Branches()[idx])
		if err != nil {
			return schema.Datum{}, err
		}
		return schema.NewUnionDatum(idx, val), nil
	}

	// A record, enum or fixed resolves only against a reader type of the
	// same kind and fully-qualified name.
	if wn := nodeFullName(writer); wn != "" && reader.Type() == writer.Type() && nodeFullName(reader) != wn {
		return schema.Datum{}, fmt.Errorf("%w: %v %q cannot resolve to %v %q", ErrResolutionMismatch, writer.Type(), wn, reader.Type(), nodeFullName(reader))
	}

	switch writer.Type() {
	case schema.Null:
		if reader.Type() != schema.Null {
			return schema.Datum{}, fmt.Errorf("%w: null cannot resolve to %v", ErrResolutionMismatch, reader.Type())
		}
		return schema.NewNullDatum(), base.DecodeNull()

	case schema.Boolean:
		if reader.Type() != schema.Boolean {
			return schema.Datum{}, fmt.Errorf("%w: boolean cannot resolve to %v", ErrResolutionMismatch, reader.Type())
		}
		v, err := base.DecodeBool()
		return schema.NewBoolDatum(v), err

	case schema.Int:
		v, err := base.DecodeInt()
		if err != nil {
			return schema.Datum{}, err
		}
		return promoteFromLong(int64(v), reader.Type())

	case schema.Long:
		if reader.Type() == schema.Int {
			return schema.Datum{}, fmt.Errorf("%w: long cannot resolve to int", ErrResolutionMismatch)
		}
		v, err := base.DecodeLong()
		if err != nil {
			return schema.Datum{}, err
		}
		return promoteFromLong(v, reader.Type())

	case schema.Float:
		v, err := base.DecodeFloat()
		if err != nil {
			return schema.Datum{}, err
		}
		switch reader.Type() {
		case schema.Float:
			return schema.NewFloatDatum(v), nil
		case schema.Double:
			return schema.NewDoubleDatum(float64(v)), nil
		default:
			return schema.Datum{}, fmt.Errorf("%w: float cannot resolve to %v", ErrResolutionMismatch, reader.Type())
		}

	case schema.Double:
		v, err := base.DecodeDouble()
		if err != nil {
			return schema.Datum{}, err
		}
		if reader.Type() != schema.Double {
			return schema.Datum{}, fmt.Errorf("%w: double cannot resolve to %v", ErrResolutionMismatch, reader.Type())
		}
		return schema.NewDoubleDatum(v), nil

	case schema.String:
		v, err := base.DecodeString()
		if err != nil {
			return schema.Datum{}, err
		}
		switch reader.Type() {
		case schema.String:
			return schema.NewStringDatum(v), nil
		case schema.Bytes:
			return schema.NewBytesDatum([]byte(v)), nil
		default:
			return schema.Datum{}, fmt.Errorf("%w: string cannot resolve to %v", ErrResolutionMismatch, reader.Type())
		}

	case schema.Bytes:
		v, err := base.DecodeBytes()
		if err != nil {
			return schema.Datum{}, err
		}
		switch reader.Type() {
		case schema.Bytes:
			return schema.NewBytesDatum(v), nil
		case schema.String:
			return schema.NewStringDatum(string(v)), nil
		default:
			return schema.Datum{}, fmt.Errorf("%w: bytes cannot resolve to %v", ErrResolutionMismatch, reader.Type())
		}

	case schema.Fixed:
		wf := writer.(*schema.FixedNode)
		rf, ok := reader.(*schema.FixedNode)
		if !ok || rf.Size() != wf.Size() {
			return schema.Datum{}, fmt.Errorf("%w: fixed[%d] %q cannot resolve to %v", ErrResolutionMismatch, wf.Size(), wf.Name().FullName(), reader.Type())
		}
		v, err := base.DecodeFixed(wf.Size())
		return schema.NewFixedDatum(v), err

	case schema.Enum:
		we := writer.(*schema.EnumNode)
		re, ok := reader.(*schema.EnumNode)
		if !ok {
			return schema.Datum{}, fmt.Errorf("%w: enum %q cannot resolve to %v", ErrResolutionMismatch, we.Name().FullName(), reader.Type())
		}
		idx, err := base.DecodeEnum(we.Symbols())
		if err != nil {
			return schema.Datum{}, err
		}
		symbol := we.Symbols()[idx]
		readerIdx := re.IndexOf(symbol)
		if readerIdx < 0 {
			return schema.Datum{}, fmt.Errorf("%w: enum symbol %q is not declared by the reader", ErrResolutionMismatch, symbol)
		}
		return schema.NewEnumDatum(symbol, readerIdx), nil

	case schema.Array:
		ra, ok := reader.(*schema.ArrayNode)
		if !ok {
			return schema.Datum{}, fmt.Errorf("%w: array cannot resolve to %v", ErrResolutionMismatch, reader.Type())
		}
		wa := writer.(*schema.ArrayNode)
		var items []schema.Datum
		count, err := base.ArrayStart()
		if err != nil {
			return schema.Datum{}, err
		}
		for count > 0 {
			for i := int64(0); i < count; i++ {
				v, err := resolve(base, wa.Items(), ra.Items())
				if err != nil {
					return schema.Datum{}, err
				}
				items = append(items, v)
			}
			count, err = base.ArrayNext()
			if err != nil {
				return schema.Datum{}, err
			}
		}
		return schema.NewArrayDatum(items), nil

	case schema.Map:
		rm, ok := reader.(*schema.MapNode)
		if !ok {
			return schema.Datum{}, fmt.Errorf("%w: map cannot resolve to %v", ErrResolutionMismatch, reader.Type())
		}
		wm := writer.(*schema.MapNode)
		var entries []schema.MapEntry
		count, err := base.MapStart()
		if err != nil {
			return schema.Datum{}, err
		}
		for count > 0 {
			for i := int64(0); i < count; i++ {
				key, err := base.MapKey()
				if err != nil {
					return schema.Datum{}, err
				}
				v, err := resolve(base, wm.Values(), rm.Values())
				if err != nil {
					return schema.Datum{}, err
				}
				entries = append(entries, schema.MapEntry{Key: key, Value: v})
			}
			count, err = base.MapNext()
			if err != nil {
				return schema.Datum{}, err
			}
		}
		return schema.NewMapDatum(entries), nil

	case schema.Record:
		rr, ok := reader.(*schema.RecordNode)
		if !ok {
			return schema.Datum{}, fmt.Errorf("%w: record cannot resolve to %v", ErrResolutionMismatch, reader.Type())
		}
		return resolveRecord(base, writer.(*schema.RecordNode), rr)

	default:
		return schema.Datum{}, fmt.Errorf("%w: unsupported writer type %v", ErrResolutionMismatch, writer.Type())
	}
}

func promoteFromLong(v int64, readerType schema.Type) (schema.Datum, error) {
	switch readerType {
	case schema.Int:
		return schema.NewIntDatum(int32(v)), nil
	case schema.Long:
		return schema.NewLongDatum(v), nil
	case schema.Float:
		return schema.NewFloatDatum(float32(v)), nil
	case schema.Double:
		return schema.NewDoubleDatum(float64(v)), nil
	default:
		return schema.Datum{}, fmt.Errorf("%w: int/long cannot resolve to %v", ErrResolutionMismatch, readerType)
	}
}

// resolveRecord walks wr's fields in writer order (the order the bytes
// were actually laid out in), filling matching reader field slots by name
// or alias and skipping writer fields the reader doesn't have; reader
// fields with no matching writer field fall back to their own default.
func resolveRecord(base Decoder, wr, rr *schema.RecordNode) (schema.Datum, error) {
	if err := base.RecordStart(); err != nil {
		return schema.Datum{}, err
	}
	values := make([]schema.Datum, len(rr.Fields()))
	filled := make([]bool, len(rr.Fields()))

	for _, wf := range wr.Fields() {
		if err := base.RecordFieldStart(wf.Name()); err != nil {
			return schema.Datum{}, err
		}
		if ri := rr.FieldIndex(wf.Name()); ri >= 0 {
			v, err := resolve(base, wf.Type(), rr.Fields()[ri].Type())
			if err != nil {
				return schema.Datum{}, err
			}
			values[ri] = v
			filled[ri] = true
		} else if err := skipValue(base, wf.Type()); err != nil {
			return schema.Datum{}, err
		}
	}
	if err := base.RecordEnd(); err != nil {
		return schema.Datum{}, err
	}

	for i, f := range rr.Fields() {
		if filled[i] {
			continue
		}
		if !f.HasDefault() {
			return schema.Datum{}, fmt.Errorf("%w: reader field %q has no writer counterpart and no default", ErrResolutionMismatch, f.Name())
		}
		values[i] = f.Default()
	}
	return schema.NewRecordDatum(values), nil
}

// skipValue discards one value encoded for writer without building a
// Datum for it, used for writer fields the reader schema dropped.
func skipValue(base Decoder, writer schema.Node) error {
	writer = deref(writer)
	switch n := writer.(type) {
	case *schema.PrimitiveNode:
		switch n.Type() {
		case schema.Null:
			return base.DecodeNull()
		case schema.Boolean:
			_, err := base.DecodeBool()
			return err
		case schema.Int:
			_, err := base.DecodeInt()
			return err
		case schema.Long:
			_, err := base.DecodeLong()
			return err
		case schema.Float:
			_, err := base.DecodeFloat()
			return err
		case schema.Double:
			_, err := base.DecodeDouble()
			return err
		case schema.String:
			_, err := base.DecodeString()
			return err
		case schema.Bytes:
			_, err := base.DecodeBytes()
			return err
		}
	case *schema.FixedNode:
		_, err := base.DecodeFixed(n.Size())
		return err
	case *schema.EnumNode:
		_, err := base.DecodeEnum(n.Symbols())
		return err
	case *schema.ArrayNode:
		count, err := base.ArrayStart()
		if err != nil {
			return err
		}
		for count > 0 {
			for i := int64(0); i < count; i++ {
				if err := skipValue(base, n.Items()); err != nil {
					return err
				}
			}
			count, err = base.ArrayNext()
			if err != nil {
				return err
			}
		}
		return nil
	case *schema.MapNode:
		count, err := base.MapStart()
		if err != nil {
			return err
		}
		for count > 0 {
			for i := int64(0); i < count; i++ {
				if _, err := base.MapKey(); err != nil {
					return err
				}
				if err := skipValue(base, n.Values()); err != nil {
					return err
				}
			}
			count, err = base.MapNext()
			if err != nil {
				return err
			}
		}
		return nil
	case *schema.UnionNode:
		idx, err := base.UnionIndex(n.Branches())
		if err != nil {
			return err
		}
		chosen := n.Branches()[idx]
		if err := skipValue(base, chosen); err != nil {
			return err
		}
		if deref(chosen).Type() != schema.Null {
			return base.UnionEnd()
		}
		return nil
	case *schema.RecordNode:
		if err := base.RecordStart(); err != nil {
			return err
		}
		for _, f := range n.Fields() {
			if err := base.RecordFieldStart(f.Name()); err != nil {
				return err
			}
			if err := skipValue(base, f.Type()); err != nil {
				return err
			}
		}
		return base.RecordEnd()
	}
	return fmt.Errorf("parsing: skipValue: unreachable node kind")
}
