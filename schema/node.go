package schema

import (
	"fmt"

	"github.com/samber/lo"
)

// Node is the common interface every schema node variant implements. It
// carries only what every node has; type-specific attributes live on the
// concrete type (§9 design note: attribute validity is a type-level
// property, not a runtime check). Callers type-switch on Type() to reach
// the concrete accessors, the same shape hamba/avro's Schema interface
// uses.
type Node interface {
	Type() Type
	Doc() string
}

type header struct {
	typ Type
	doc string
}

func (h header) Type() Type { return h.typ }
func (h header) Doc() string { return h.doc }

// PrimitiveNode is null, boolean, int, long, float, double, string or bytes.
type PrimitiveNode struct{ header }

// NewPrimitiveNode builds a primitive node. It panics if t is not one of
// the eight primitive types; the compiler only ever passes a checked type.
func NewPrimitiveNode(t Type) *PrimitiveNode {
	if !t.IsPrimitive() {
		panic(fmt.Sprintf("schema: %s is not a primitive type", t))
	}
	return &PrimitiveNode{header{typ: t}}
}

// FixedNode is an opaque byte sequence of a declared length.
type FixedNode struct {
	header
	name    Name
	size    int
	aliases []string
}

// NewFixedNode validates §3.2's fixed invariants (size >= 0, name present)
// and constructs the node.
func NewFixedNode(name Name, size int, doc string, aliases []string) (*FixedNode, error) {
	if name.IsEmpty() {
		return nil, &SchemaParseError{Msg: "fixed type requires a name"}
	}
	if size < 0 {
		return nil, &SchemaParseError{Msg: fmt.Sprintf("fixed %q has negative size %d", name.FullName(), size)}
	}
	return &FixedNode{header: header{typ: Fixed, doc: doc}, name: name, size: size, aliases: aliases}, nil
}

func (n *FixedNode) Name() Name          { return n.name }
func (n *FixedNode) Size() int           { return n.size }
func (n *FixedNode) Aliases() []string   { return n.aliases }

// EnumNode is an ordinal symbol drawn from a fixed, ordered symbol list.
type EnumNode struct {
	header
	name    Name
	symbols []string
	aliases []string
}

// NewEnumNode validates §3.2's enum invariants (at least one symbol, all
// symbols unique).
func NewEnumNode(name Name, symbols []string, doc string, aliases []string) (*EnumNode, error) {
	if name.IsEmpty() {
		return nil, &SchemaParseError{Msg: "enum type requires a name"}
	}
	if len(symbols) < 1 {
		return nil, &SchemaParseError{Msg: fmt.Sprintf("enum %q has no symbols", name.FullName())}
	}
	if dups := lo.FindDuplicates(symbols); len(dups) > 0 {
		return nil, &SchemaParseError{Msg: fmt.Sprintf("enum %q has duplicate symbol(s): %v", name.FullName(), dups)}
	}
	return &EnumNode{header: header{typ: Enum, doc: doc}, name: name, symbols: symbols, aliases: aliases}, nil
}

func (n *EnumNode) Name() Name        { return n.name }
func (n *EnumNode) Symbols() []string { return n.symbols }
func (n *EnumNode) Aliases() []string { return n.aliases }

// IndexOf returns the ordinal of symbol, or -1 if it isn't one of n's
// symbols.
func (n *EnumNode) IndexOf(symbol string) int {
	for i, s := range n.symbols {
		if s == symbol {
			return i
		}
	}
	return -1
}

// Field is one named, typed member of a record, in declaration order.
type Field struct {
	name         string
	typ          Node
	hasDefault   bool
	defaultValue Datum
	doc          string
	aliases      []string
}

func NewField(name string, typ Node, doc string, aliases []string) Field {
	return Field{name: name, typ: typ, doc: doc, aliases: aliases}
}

func (f Field) Name() string      { return f.name }
func (f Field) Type() Node        { return f.typ }
func (f Field) Doc() string       { return f.doc }
func (f Field) Aliases() []string { return f.aliases }
func (f Field) HasDefault() bool  { return f.hasDefault }

// Default returns the field's parsed default datum. A field with no
// declared default still returns a value here: a null-typed datum, equal
// to a *declared* default of null. HasDefault is what tells the two apart;
// absence cannot be inferred from the datum's shape.
func (f Field) Default() Datum { return f.defaultValue }

func (f *Field) setDefault(d Datum) {
	f.hasDefault = true
	f.defaultValue = d
}

// RecordNode is an ordered set of named, typed fields. Records (and their
// fields) may declare an "error" record too (§6.2: error is a synonym).
type RecordNode struct {
	header
	name    Name
	fields  []Field
	aliases []string
}

// NewRecordNode validates §3.2's record invariants: |leaves| == |leafNames|
// is structural here (Field carries both), plus field-name uniqueness.
func NewRecordNode(name Name, fields []Field, doc string, aliases []string) (*RecordNode, error) {
	if name.IsEmpty() {
		return nil, &SchemaParseError{Msg: "record type requires a name"}
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return nil, &SchemaParseError{Msg: fmt.Sprintf("record %q has duplicate field name(s): %v", name.FullName(), dups)}
	}
	return &RecordNode{header: header{typ: Record, doc: doc}, name: name, fields: fields, aliases: aliases}, nil
}

func (n *RecordNode) Name() Name        { return n.name }
func (n *RecordNode) Fields() []Field   { return n.fields }
func (n *RecordNode) Aliases() []string { return n.aliases }

// FieldIndex returns the index of the field named name (checking aliases
// too, per SPEC_FULL.md §4), or -1 if none matches.
func (n *RecordNode) FieldIndex(name string) int {
	for i, f := range n.fields {
		if f.name == name {
			return i
		}
	}
	for i, f := range n.fields {
		if lo.Contains(f.aliases, name) {
			return i
		}
	}
	return -1
}

// setFields replaces the field list in place; used only by the compiler to
// fill a placeholder record after its self-referential fields have been
// compiled (§4.1 step 4).
func (n *RecordNode) setFields(fields []Field) { n.fields = fields }

// ArrayNode is a homogeneous, ordered sequence.
type ArrayNode struct {
	header
	items Node
}

func NewArrayNode(items Node) *ArrayNode {
	return &ArrayNode{header: header{typ: Array}, items: items}
}

func (n *ArrayNode) Items() Node { return n.items }

// MapNode is a string-keyed homogeneous mapping. The key type is always an
// implicit string leaf (§3.2: "leaf 0 is a string-typed primitive"); Values
// exposes only the value leaf since the key leaf never varies.
type MapNode struct {
	header
	values Node
}

func NewMapNode(values Node) *MapNode {
	return &MapNode{header: header{typ: Map}, values: values}
}

func (n *MapNode) Values() Node { return n.values }

// UnionNode is a tagged choice among declared alternative branches.
type UnionNode struct {
	header
	branches []Node
}

// NewUnionNode validates §3.2's union invariants: no two branches of the
// same primitive type, no two named branches sharing a fully-qualified
// name, and no branch that is itself a union.
func NewUnionNode(branches []Node) (*UnionNode, error) {
	seenPrimitive := map[Type]bool{}
	seenNamed := map[string]bool{}
	for _, b := range branches {
		if b.Type() == Union {
			return nil, &SchemaParseError{Msg: "union may not immediately contain another union"}
		}
		if b.Type().IsPrimitive() {
			if seenPrimitive[b.Type()] {
				return nil, &SchemaParseError{Msg: fmt.Sprintf("union has more than one %q branch", b.Type())}
			}
			seenPrimitive[b.Type()] = true
			continue
		}
		if named, ok := namedNode(b); ok {
			full := named.FullName()
			if seenNamed[full] {
				return nil, &SchemaParseError{Msg: fmt.Sprintf("union has more than one branch named %q", full)}
			}
			seenNamed[full] = true
		}
	}
	return &UnionNode{header: header{typ: Union}, branches: branches}, nil
}

func (n *UnionNode) Branches() []Node { return n.branches }

// BestMatchIndex returns the index of the first branch whose type equals t
// (and, for named types, whose fully-qualified name equals name); a
// symbolic branch is compared by its target's type. It does not consider
// numeric promotion (the parsing package's findPromotableBranch does that).
func (n *UnionNode) BestMatchIndex(t Type, name string) int {
	return lo.IndexOf(lo.Map(n.branches, func(b Node, _ int) bool {
		bt := b.Type()
		if sym, ok := b.(*SymbolicNode); ok && sym.Target() != nil {
			bt = sym.Target().Type()
		}
		if bt != t {
			return false
		}
		if nm, ok := namedNode(b); ok {
			return nm.FullName() == name
		}
		return true
	}), true)
}

// SymbolicNode stands for a named type referenced by name. Before
// compilation finishes it may be unresolved (used only internally by the
// compiler as a placeholder); after compilation Target() is always
// non-nil. Go's garbage collector makes the "weak back-link" of §3.3
// unnecessary at the memory-management level (cycles collect fine); the
// pointer here plays the same *identity* role the C++ weak_ptr played,
// without needing manual lifetime tracking.
type SymbolicNode struct {
	header
	name   Name
	target Node
}

func newUnresolvedSymbolicNode(name Name) *SymbolicNode {
	return &SymbolicNode{header: header{typ: Symbolic}, name: name}
}

func (n *SymbolicNode) Name() Name { return n.name }

// Target returns the node this symbolic reference resolves to. It is nil
// only during the compiler's internal recursion bookkeeping; a *ValidSchema*
// returned from Compile never contains an unresolved symbolic node.
func (n *SymbolicNode) Target() Node { return n.target }

func (n *SymbolicNode) resolve(target Node) { n.target = target }

// namedNode returns (name, true) for record/enum/fixed nodes (and for a
// resolved symbolic node, the name of its target), else ("", false).
func namedNode(n Node) (Name, bool) {
	switch v := n.(type) {
	case *RecordNode:
		return v.name, true
	case *EnumNode:
		return v.name, true
	case *FixedNode:
		return v.name, true
	case *SymbolicNode:
		return v.name, true
	default:
		return Name{}, false
	}
}
