package schema

import (
	"bytes"
	"math"
)

// Datum is a schema-tagged value: the generic, reflection-free data model
// every codec and the generic reader/writer exchange (§3.4). Exactly one of
// the typed accessors below is valid for a given Datum, selected by Type();
// calling the wrong one panics, the same contract encoding/json.Number's
// Int64/Float64 pair has.
type Datum struct {
	typ   Type
	value any
}

func (d Datum) Type() Type { return d.typ }

func NewNullDatum() Datum            { return Datum{typ: Null} }
func NewBoolDatum(v bool) Datum      { return Datum{typ: Boolean, value: v} }
func NewIntDatum(v int32) Datum      { return Datum{typ: Int, value: v} }
func NewLongDatum(v int64) Datum     { return Datum{typ: Long, value: v} }
func NewFloatDatum(v float32) Datum  { return Datum{typ: Float, value: v} }
func NewDoubleDatum(v float64) Datum { return Datum{typ: Double, value: v} }
func NewStringDatum(v string) Datum  { return Datum{typ: String, value: v} }
func NewBytesDatum(v []byte) Datum   { return Datum{typ: Bytes, value: v} }
func NewFixedDatum(v []byte) Datum   { return Datum{typ: Fixed, value: v} }

func (d Datum) Bool() bool      { return d.value.(bool) }
func (d Datum) Int() int32      { return d.value.(int32) }
func (d Datum) Long() int64     { return d.value.(int64) }
func (d Datum) Float() float32  { return d.value.(float32) }
func (d Datum) Double() float64 { return d.value.(float64) }
func (d Datum) String() string  { return d.value.(string) }
func (d Datum) Bytes() []byte   { return d.value.([]byte) }

// EnumDatum pairs the chosen symbol with its ordinal in the enum's symbol
// list, so a resolving reader can remap by symbol name without re-scanning
// it (§4.7's enum adjustment).
type EnumDatum struct {
	Symbol string
	Index  int
}

func NewEnumDatum(symbol string, index int) Datum {
	return Datum{typ: Enum, value: EnumDatum{Symbol: symbol, Index: index}}
}

func (d Datum) Enum() EnumDatum { return d.value.(EnumDatum) }

// NewRecordDatum builds a record value from field values in the record
// node's field order (positional, not by name: a record's shape is fixed
// once the schema that produced it is known).
func NewRecordDatum(fields []Datum) Datum {
	return Datum{typ: Record, value: fields}
}

func (d Datum) Record() []Datum { return d.value.([]Datum) }

func NewArrayDatum(items []Datum) Datum {
	return Datum{typ: Array, value: items}
}

func (d Datum) Array() []Datum { return d.value.([]Datum) }

// MapEntry is one key/value pair of a map datum. Map entries are kept in
// encounter order (read order for a decoded value, insertion order for a
// constructed one); Avro maps have no defined order but round-tripping the
// observed order makes binary re-encoding deterministic.
type MapEntry struct {
	Key   string
	Value Datum
}

func NewMapDatum(entries []MapEntry) Datum {
	return Datum{typ: Map, value: entries}
}

func (d Datum) Map() []MapEntry { return d.value.([]MapEntry) }

// UnionDatum pairs the chosen branch's index (into the union node's
// Branches()) with the value in that branch's shape.
type UnionDatum struct {
	BranchIndex int
	Value       Datum
}

func NewUnionDatum(branchIndex int, value Datum) Datum {
	return Datum{typ: Union, value: UnionDatum{BranchIndex: branchIndex, Value: value}}
}

func (d Datum) Union() UnionDatum { return d.value.(UnionDatum) }

// ZeroValue builds the schema-driven zero/default value for n: a field's
// declared default if n is reached through one, otherwise the type's
// natural zero (0, "", false, empty collection, first enum symbol, the
// first union branch's own zero value). It does not guard against
// unbounded recursion through a directly self-referential record with no
// defaulted field along the cycle; schemas built that way have no finite
// zero value in the first place.
func ZeroValue(n Node) Datum {
	switch v := n.(type) {
	case *PrimitiveNode:
		switch v.Type() {
		case Null:
			return NewNullDatum()
		case Boolean:
			return NewBoolDatum(false)
		case Int:
			return NewIntDatum(0)
		case Long:
			return NewLongDatum(0)
		case Float:
			return NewFloatDatum(0)
		case Double:
			return NewDoubleDatum(0)
		case String:
			return NewStringDatum("")
		case Bytes:
			return NewBytesDatum(nil)
		}
	case *FixedNode:
		return NewFixedDatum(make([]byte, v.Size()))
	case *EnumNode:
		return NewEnumDatum(v.Symbols()[0], 0)
	case *RecordNode:
		fields := v.Fields()
		values := make([]Datum, len(fields))
		for i, f := range fields {
			if f.HasDefault() {
				values[i] = f.Default()
			} else {
				values[i] = ZeroValue(f.Type())
			}
		}
		return NewRecordDatum(values)
	case *ArrayNode:
		return NewArrayDatum(nil)
	case *MapNode:
		return NewMapDatum(nil)
	case *UnionNode:
		return NewUnionDatum(0, ZeroValue(v.Branches()[0]))
	case *SymbolicNode:
		return ZeroValue(v.Target())
	}
	panic("schema: ZeroValue: unreachable node kind")
}

// Equal reports whether d and other carry the same type and structurally
// equal value, recursing through records/arrays/maps/unions. It is used by
// the round-trip tests in §8.1, not by any codec.
func (d Datum) Equal(other Datum) bool {
	if d.typ != other.typ {
		return false
	}
	switch d.typ {
	case Null:
		return true
	case Bytes, Fixed:
		return bytes.Equal(d.value.([]byte), other.value.([]byte))
	case Float:
		return math.Float32bits(d.value.(float32)) == math.Float32bits(other.value.(float32))
	case Double:
		return math.Float64bits(d.value.(float64)) == math.Float64bits(other.value.(float64))
	case Enum:
		return d.Enum() == other.Enum()
	case Record:
		a, b := d.Record(), other.Record()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case Array:
		a, b := d.Array(), other.Array()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case Map:
		a, b := d.Map(), other.Map()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i].Key != b[i].Key || !a[i].Value.Equal(b[i].Value) {
				return false
			}
		}
		return true
	case Union:
		a, b := d.Union(), other.Union()
		return a.BranchIndex == b.BranchIndex && a.Value.Equal(b.Value)
	default:
		return d.value == other.value
	}
}
