package schema

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Sokol111/avrocodec/internal/tracelog"
)

// Compile parses jsonText as a schema document and builds a ValidSchema,
// the Go counterpart of avro::compileJsonSchema in the original
// implementation's impl/Compiler.cc: a single recursive descent over the
// JSON entity tree that resolves every named-type reference against a
// symbol table built incrementally as definitions are encountered (§4.1).
//
// Named types must be declared before they are referenced, with one
// exception a record gets by construction: it is registered in the symbol
// table (as a field-less placeholder) before its own fields are compiled,
// so a field may legally refer back to the record currently being defined
// — the classic linked-list-node recursive schema.
func Compile(jsonText []byte) (*ValidSchema, error) {
	return CompileContext(context.Background(), jsonText)
}

// CompileContext is Compile with a context carrying a tracelog logger
// (internal/tracelog.WithLogger); compilation itself never blocks or reads
// ctx.Done, the parameter exists purely to route diagnostic logging.
func CompileContext(ctx context.Context, jsonText []byte) (*ValidSchema, error) {
	ent, err := parseJSONEntity(jsonText)
	if err != nil {
		return nil, err
	}
	c := &compiler{symtab: map[string]Node{}, log: tracelog.FromContext(ctx)}
	root, err := c.compileType(ent, "")
	if err != nil {
		return nil, err
	}
	c.log.Debug("schema compiled", zap.Int("named_types", len(c.symtab)))
	return &ValidSchema{root: root, symtab: c.symtab}, nil
}

type compiler struct {
	symtab map[string]Node
	log    *zap.Logger
}

func (c *compiler) compileType(ent jsonEntity, enclosingNamespace string) (Node, error) {
	switch {
	case ent.isString():
		return c.resolveReference(ent.stringV, enclosingNamespace, ent)
	case ent.isArray():
		return c.compileUnion(ent, enclosingNamespace)
	case ent.isObject():
		return c.compileComplex(ent, enclosingNamespace)
	default:
		l, col := ent.pos()
		return nil, &SchemaParseError{Msg: "schema entity must be a string, array or object", Line: l, Column: col}
	}
}

func (c *compiler) compileUnion(ent jsonEntity, enclosingNamespace string) (Node, error) {
	branches := make([]Node, len(ent.arrayV))
	for i, b := range ent.arrayV {
		n, err := c.compileType(b, enclosingNamespace)
		if err != nil {
			return nil, err
		}
		branches[i] = n
	}
	u, err := NewUnionNode(branches)
	if err != nil {
		return nil, withPos(err, ent)
	}
	return u, nil
}

func (c *compiler) compileComplex(ent jsonEntity, enclosingNamespace string) (Node, error) {
	typeEnt, ok := ent.field("type")
	if !ok {
		l, col := ent.pos()
		return nil, &SchemaParseError{Msg: "object schema is missing required \"type\" field", Line: l, Column: col}
	}
	if typeEnt.isArray() {
		return c.compileUnion(typeEnt, enclosingNamespace)
	}
	if !typeEnt.isString() {
		l, col := typeEnt.pos()
		return nil, &SchemaParseError{Msg: "\"type\" field must be a string", Line: l, Column: col}
	}
	typeName := typeEnt.stringV

	switch typeName {
	case "record":
		return c.compileRecord(ent, enclosingNamespace)
	case "error":
		return c.compileRecord(ent, enclosingNamespace)
	case "enum":
		return c.compileEnum(ent, enclosingNamespace)
	case "fixed":
		return c.compileFixed(ent, enclosingNamespace)
	case "array":
		itemsEnt, ok := ent.field("items")
		if !ok {
			l, col := ent.pos()
			return nil, &SchemaParseError{Msg: "array schema is missing required \"items\" field", Line: l, Column: col}
		}
		items, err := c.compileType(itemsEnt, enclosingNamespace)
		if err != nil {
			return nil, err
		}
		return NewArrayNode(items), nil
	case "map":
		valuesEnt, ok := ent.field("values")
		if !ok {
			l, col := ent.pos()
			return nil, &SchemaParseError{Msg: "map schema is missing required \"values\" field", Line: l, Column: col}
		}
		values, err := c.compileType(valuesEnt, enclosingNamespace)
		if err != nil {
			return nil, err
		}
		return NewMapNode(values), nil
	default:
		if prim, ok := primitiveTypeByName(typeName); ok {
			return NewPrimitiveNode(prim), nil
		}
		return c.resolveReference(typeName, enclosingNamespace, ent)
	}
}

func (c *compiler) resolveReference(name, enclosingNamespace string, ent jsonEntity) (Node, error) {
	if prim, ok := primitiveTypeByName(name); ok {
		return NewPrimitiveNode(prim), nil
	}
	n := NewName(name, "", enclosingNamespace)
	target, ok := c.symtab[n.FullName()]
	if !ok {
		l, col := ent.pos()
		return nil, &SchemaParseError{Msg: fmt.Sprintf("%v: %q", ErrUnknownName, n.FullName()), Line: l, Column: col, Cause: ErrUnknownName}
	}
	sym := newUnresolvedSymbolicNode(n)
	sym.resolve(target)
	return sym, nil
}

func (c *compiler) compileRecord(ent jsonEntity, enclosingNamespace string) (Node, error) {
	name, err := c.namedTypeName(ent, enclosingNamespace)
	if err != nil {
		return nil, err
	}
	if _, exists := c.symtab[name.FullName()]; exists {
		l, col := ent.pos()
		return nil, &SchemaParseError{Msg: fmt.Sprintf("duplicate type name %q", name.FullName()), Line: l, Column: col}
	}

	doc := optionalString(ent, "doc")
	aliases := stringArray(ent, "aliases")

	placeholder, err := NewRecordNode(name, nil, doc, aliases)
	if err != nil {
		return nil, withPos(err, ent)
	}
	// Registered before its fields compile: a field referring back to
	// this record's own name resolves against this placeholder.
	c.symtab[name.FullName()] = placeholder

	fieldsEnt, ok := ent.field("fields")
	if !ok || !fieldsEnt.isArray() {
		l, col := ent.pos()
		return nil, &SchemaParseError{Msg: fmt.Sprintf("record %q is missing required \"fields\" array", name.FullName()), Line: l, Column: col}
	}

	fields := make([]Field, len(fieldsEnt.arrayV))
	for i, fe := range fieldsEnt.arrayV {
		f, err := c.compileField(fe, name.Namespace())
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}

	if _, err := NewRecordNode(name, fields, doc, aliases); err != nil {
		return nil, withPos(err, ent)
	}
	placeholder.setFields(fields)
	return placeholder, nil
}

func (c *compiler) compileField(ent jsonEntity, recordNamespace string) (Field, error) {
	if !ent.isObject() {
		l, col := ent.pos()
		return Field{}, &SchemaParseError{Msg: "field entry must be an object", Line: l, Column: col}
	}
	fname, err := requiredString(ent, "name")
	if err != nil {
		return Field{}, err
	}
	ftypeEnt, ok := ent.field("type")
	if !ok {
		l, col := ent.pos()
		return Field{}, &SchemaParseError{Msg: fmt.Sprintf("field %q is missing required \"type\"", fname), Line: l, Column: col}
	}
	ftype, err := c.compileType(ftypeEnt, recordNamespace)
	if err != nil {
		return Field{}, err
	}
	doc := optionalString(ent, "doc")
	aliases := stringArray(ent, "aliases")
	field := NewField(fname, ftype, doc, aliases)

	if defEnt, hasDefault := ent.field("default"); hasDefault {
		datum, err := c.parseDefaultValue(defEnt, ftype)
		if err != nil {
			return Field{}, fmt.Errorf("field %q default: %w", fname, err)
		}
		field.setDefault(datum)
	}
	return field, nil
}

func (c *compiler) compileEnum(ent jsonEntity, enclosingNamespace string) (Node, error) {
	name, err := c.namedTypeName(ent, enclosingNamespace)
	if err != nil {
		return nil, err
	}
	if _, exists := c.symtab[name.FullName()]; exists {
		l, col := ent.pos()
		return nil, &SchemaParseError{Msg: fmt.Sprintf("duplicate type name %q", name.FullName()), Line: l, Column: col}
	}
	symbolsEnt, ok := ent.field("symbols")
	if !ok || !symbolsEnt.isArray() {
		l, col := ent.pos()
		return nil, &SchemaParseError{Msg: fmt.Sprintf("enum %q is missing required \"symbols\" array", name.FullName()), Line: l, Column: col}
	}
	symbols := make([]string, len(symbolsEnt.arrayV))
	for i, se := range symbolsEnt.arrayV {
		if !se.isString() {
			l, col := se.pos()
			return nil, &SchemaParseError{Msg: "enum symbol must be a string", Line: l, Column: col}
		}
		symbols[i] = se.stringV
	}
	doc := optionalString(ent, "doc")
	aliases := stringArray(ent, "aliases")
	n, err := NewEnumNode(name, symbols, doc, aliases)
	if err != nil {
		return nil, withPos(err, ent)
	}
	c.symtab[name.FullName()] = n
	return n, nil
}

func (c *compiler) compileFixed(ent jsonEntity, enclosingNamespace string) (Node, error) {
	name, err := c.namedTypeName(ent, enclosingNamespace)
	if err != nil {
		return nil, err
	}
	if _, exists := c.symtab[name.FullName()]; exists {
		l, col := ent.pos()
		return nil, &SchemaParseError{Msg: fmt.Sprintf("duplicate type name %q", name.FullName()), Line: l, Column: col}
	}
	sizeEnt, ok := ent.field("size")
	if !ok {
		l, col := ent.pos()
		return nil, &SchemaParseError{Msg: fmt.Sprintf("fixed %q is missing required \"size\"", name.FullName()), Line: l, Column: col}
	}
	doc := optionalString(ent, "doc")
	aliases := stringArray(ent, "aliases")
	n, err := NewFixedNode(name, int(sizeEnt.numberV), doc, aliases)
	if err != nil {
		return nil, withPos(err, ent)
	}
	c.symtab[name.FullName()] = n
	return n, nil
}

func (c *compiler) namedTypeName(ent jsonEntity, enclosingNamespace string) (Name, error) {
	simple, err := requiredString(ent, "name")
	if err != nil {
		return Name{}, err
	}
	ns := optionalString(ent, "namespace")
	return NewName(simple, ns, enclosingNamespace), nil
}

// parseDefaultValue converts a default-value JSON entity into a Datum
// shaped like node, following the Avro default-value coercion rules: bytes
// and fixed defaults are JSON strings whose UTF-16 code units are taken as
// raw byte values, a union's default must have the JSON shape of its first
// branch, and a record default may omit any field that itself has a
// default.
func (c *compiler) parseDefaultValue(ent jsonEntity, node Node) (Datum, error) {
	if sym, ok := node.(*SymbolicNode); ok {
		return c.parseDefaultValue(ent, sym.Target())
	}
	switch n := node.(type) {
	case *PrimitiveNode:
		return parsePrimitiveDefault(ent, n.Type())
	case *FixedNode:
		b, err := bytesFromDefaultString(ent)
		if err != nil {
			return Datum{}, err
		}
		if len(b) != n.Size() {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: fmt.Sprintf("fixed default has length %d, want %d", len(b), n.Size()), Line: l, Column: col}
		}
		return NewFixedDatum(b), nil
	case *EnumNode:
		if !ent.isString() {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "enum default must be a string", Line: l, Column: col}
		}
		idx := n.IndexOf(ent.stringV)
		if idx < 0 {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: fmt.Sprintf("enum default %q is not a declared symbol", ent.stringV), Line: l, Column: col}
		}
		return NewEnumDatum(ent.stringV, idx), nil
	case *RecordNode:
		if !ent.isObject() {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "record default must be an object", Line: l, Column: col}
		}
		fields := n.Fields()
		values := make([]Datum, len(fields))
		for i, f := range fields {
			if me, ok := ent.field(f.Name()); ok {
				v, err := c.parseDefaultValue(me, f.Type())
				if err != nil {
					return Datum{}, err
				}
				values[i] = v
			} else if f.HasDefault() {
				values[i] = f.Default()
			} else {
				l, col := ent.pos()
				return Datum{}, &SchemaParseError{Msg: fmt.Sprintf("record default omits field %q, which has no default of its own", f.Name()), Line: l, Column: col}
			}
		}
		return NewRecordDatum(values), nil
	case *ArrayNode:
		if !ent.isArray() {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "array default must be an array", Line: l, Column: col}
		}
		items := make([]Datum, len(ent.arrayV))
		for i, ie := range ent.arrayV {
			v, err := c.parseDefaultValue(ie, n.Items())
			if err != nil {
				return Datum{}, err
			}
			items[i] = v
		}
		return NewArrayDatum(items), nil
	case *MapNode:
		if !ent.isObject() {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "map default must be an object", Line: l, Column: col}
		}
		entries := make([]MapEntry, len(ent.objectV))
		for i, m := range ent.objectV {
			v, err := c.parseDefaultValue(m.value, n.Values())
			if err != nil {
				return Datum{}, err
			}
			entries[i] = MapEntry{Key: m.key, Value: v}
		}
		return NewMapDatum(entries), nil
	case *UnionNode:
		branches := n.Branches()
		if len(branches) == 0 {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "union has no branches", Line: l, Column: col}
		}
		v, err := c.parseDefaultValue(ent, branches[0])
		if err != nil {
			return Datum{}, err
		}
		return NewUnionDatum(0, v), nil
	default:
		l, col := ent.pos()
		return Datum{}, &SchemaParseError{Msg: "unsupported default value target type", Line: l, Column: col}
	}
}

func parsePrimitiveDefault(ent jsonEntity, t Type) (Datum, error) {
	switch t {
	case Null:
		if !ent.isNull() {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "null default must be JSON null", Line: l, Column: col}
		}
		return NewNullDatum(), nil
	case Boolean:
		if ent.kind != entityBool {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "boolean default must be true/false", Line: l, Column: col}
		}
		return NewBoolDatum(ent.boolV), nil
	case Int:
		if ent.kind != entityNumber {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "int default must be a number", Line: l, Column: col}
		}
		return NewIntDatum(int32(ent.numberV)), nil
	case Long:
		if ent.kind != entityNumber {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "long default must be a number", Line: l, Column: col}
		}
		return NewLongDatum(int64(ent.numberV)), nil
	case Float:
		if ent.kind != entityNumber {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "float default must be a number", Line: l, Column: col}
		}
		return NewFloatDatum(float32(ent.numberV)), nil
	case Double:
		if ent.kind != entityNumber {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "double default must be a number", Line: l, Column: col}
		}
		return NewDoubleDatum(ent.numberV), nil
	case String:
		if !ent.isString() {
			l, col := ent.pos()
			return Datum{}, &SchemaParseError{Msg: "string default must be a JSON string", Line: l, Column: col}
		}
		return NewStringDatum(ent.stringV), nil
	case Bytes:
		b, err := bytesFromDefaultString(ent)
		if err != nil {
			return Datum{}, err
		}
		return NewBytesDatum(b), nil
	default:
		l, col := ent.pos()
		return Datum{}, &SchemaParseError{Msg: "unsupported primitive default type", Line: l, Column: col}
	}
}

// bytesFromDefaultString decodes a bytes/fixed default: each rune of the
// JSON string is a single raw byte value (0-255), the textual convention
// Avro schemas use to embed binary defaults in JSON.
func bytesFromDefaultString(ent jsonEntity) ([]byte, error) {
	if !ent.isString() {
		l, col := ent.pos()
		return nil, &SchemaParseError{Msg: "bytes/fixed default must be a JSON string", Line: l, Column: col}
	}
	runes := []rune(ent.stringV)
	b := make([]byte, len(runes))
	for i, r := range runes {
		if r > 0xFF {
			l, col := ent.pos()
			return nil, &SchemaParseError{Msg: fmt.Sprintf("bytes/fixed default contains out-of-range code point U+%04X", r), Line: l, Column: col}
		}
		b[i] = byte(r)
	}
	return b, nil
}

func requiredString(ent jsonEntity, key string) (string, error) {
	v, ok := ent.field(key)
	if !ok || !v.isString() {
		l, col := ent.pos()
		return "", &SchemaParseError{Msg: fmt.Sprintf("missing or non-string required field %q", key), Line: l, Column: col}
	}
	return v.stringV, nil
}

func optionalString(ent jsonEntity, key string) string {
	if v, ok := ent.field(key); ok && v.isString() {
		return v.stringV
	}
	return ""
}

func stringArray(ent jsonEntity, key string) []string {
	v, ok := ent.field(key)
	if !ok || !v.isArray() {
		return nil
	}
	out := make([]string, 0, len(v.arrayV))
	for _, e := range v.arrayV {
		if e.isString() {
			out = append(out, e.stringV)
		}
	}
	return out
}

func withPos(err error, ent jsonEntity) error {
	if spe, ok := err.(*SchemaParseError); ok && spe.Line == 0 {
		l, col := ent.pos()
		spe.Line, spe.Column = l, col
	}
	return err
}

