package parsing

import "github.com/Sokol111/avrocodec/schema"

// SymbolKind is the terminal or marker a grammar position expects next
// (§4.4). Every primitive schema.Type has a matching terminal kind; the
// one marker kind (RecordEnd, which has no schema.Type counterpart) only
// exists to close a record's field sequence on the parser stack.
type SymbolKind int

const (
	SymNull SymbolKind = iota
	SymBool
	SymInt
	SymLong
	SymFloat
	SymDouble
	SymString
	SymBytes
	SymFixed
	SymEnum
	SymArray
	SymMap
	SymUnion
	SymRecordStart
	SymRecordEnd
)

func (k SymbolKind) String() string {
	switch k {
	case SymNull:
		return "null"
	case SymBool:
		return "boolean"
	case SymInt:
		return "int"
	case SymLong:
		return "long"
	case SymFloat:
		return "float"
	case SymDouble:
		return "double"
	case SymString:
		return "string"
	case SymBytes:
		return "bytes"
	case SymFixed:
		return "fixed"
	case SymEnum:
		return "enum"
	case SymArray:
		return "array"
	case SymMap:
		return "map"
	case SymUnion:
		return "union"
	case SymRecordStart:
		return "record-start"
	case SymRecordEnd:
		return "record-end"
	default:
		return "<unknown symbol>"
	}
}

// Symbol is one position in a grammar: a terminal kind plus (for every
// kind but RecordEnd) the schema node it was derived from, so the parser
// can hand the node back to whatever is expanding it (a record's fields,
// a union's chosen branch).
type Symbol struct {
	Kind SymbolKind
	Node schema.Node
}

// Production is a sequence of symbols in the order they must be consumed
// — the grammar's right-hand side for one rule (§4.4). Productions here
// are built lazily, one compound symbol's immediate children at a time,
// rather than eagerly flattening the whole schema graph up front: a
// schema's cyclic parts (a record referencing itself) would make eager
// flattening non-terminating, and laziness costs nothing since a
// production is only ever consumed once, in the same order it would have
// been expanded anyway.
type Production []Symbol

// symbolFor maps a schema node to the single symbol that represents one
// occurrence of it as a value. SymbolicNode is transparent: a reference to
// a named type produces the same symbol its target would.
func symbolFor(n schema.Node) Symbol {
	return Symbol{Kind: kindFor(n), Node: n}
}

func kindFor(n schema.Node) SymbolKind {
	if sym, ok := n.(*schema.SymbolicNode); ok {
		return kindFor(sym.Target())
	}
	switch n.Type() {
	case schema.Null:
		return SymNull
	case schema.Boolean:
		return SymBool
	case schema.Int:
		return SymInt
	case schema.Long:
		return SymLong
	case schema.Float:
		return SymFloat
	case schema.Double:
		return SymDouble
	case schema.String:
		return SymString
	case schema.Bytes:
		return SymBytes
	case schema.Fixed:
		return SymFixed
	case schema.Enum:
		return SymEnum
	case schema.Array:
		return SymArray
	case schema.Map:
		return SymMap
	case schema.Union:
		return SymUnion
	case schema.Record:
		return SymRecordStart
	default:
		panic("parsing: unreachable schema type in kindFor")
	}
}

// deref follows a SymbolicNode to its target; it is idempotent on any
// other node kind.
func deref(n schema.Node) schema.Node {
	for {
		sym, ok := n.(*schema.SymbolicNode)
		if !ok {
			return n
		}
		n = sym.Target()
	}
}
