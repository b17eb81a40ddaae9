package parsing

import "github.com/Sokol111/avrocodec/schema"

// ValidatingDecoder wraps a raw Decoder with a Parser compiled from a
// single schema (the Validating Grammar Generator of §4.5: there is no
// separate exported generator type, symbolFor plays that role, building
// each compound symbol's production the moment the parser reaches it) and
// rejects any call sequence that doesn't match that schema, independent
// of what the underlying bytes say. It implements Decoder itself, so it
// can be handed to generic.Reader exactly like a raw codec.
type ValidatingDecoder struct {
	base   Decoder
	parser *Parser
	// arrayItems/mapValues track the item/value node of each array/map
	// currently open, innermost last, so ArrayNext and MapKey know what
	// symbol to push for the next item without it having been passed in.
	arrayItems []schema.Node
	mapValues  []schema.Node
}

// NewValidatingDecoder returns a ValidatingDecoder that expects base to
// hold data encoded for root.
func NewValidatingDecoder(base Decoder, root schema.Node) *ValidatingDecoder {
	return &ValidatingDecoder{base: base, parser: NewParser(symbolFor(root))}
}

func (d *ValidatingDecoder) DecodeNull() error {
	if _, err := d.parser.Advance(SymNull); err != nil {
		return err
	}
	return d.base.DecodeNull()
}

func (d *ValidatingDecoder) DecodeBool() (bool, error) {
	if _, err := d.parser.Advance(SymBool); err != nil {
		return false, err
	}
	return d.base.DecodeBool()
}

func (d *ValidatingDecoder) DecodeInt() (int32, error) {
	if _, err := d.parser.Advance(SymInt); err != nil {
		return 0, err
	}
	return d.base.DecodeInt()
}

func (d *ValidatingDecoder) DecodeLong() (int64, error) {
	if _, err := d.parser.Advance(SymLong); err != nil {
		return 0, err
	}
	return d.base.DecodeLong()
}

func (d *ValidatingDecoder) DecodeFloat() (float32, error) {
	if _, err := d.parser.Advance(SymFloat); err != nil {
		return 0, err
	}
	return d.base.DecodeFloat()
}

func (d *ValidatingDecoder) DecodeDouble() (float64, error) {
	if _, err := d.parser.Advance(SymDouble); err != nil {
		return 0, err
	}
	return d.base.DecodeDouble()
}

func (d *ValidatingDecoder) DecodeString() (string, error) {
	if _, err := d.parser.Advance(SymString); err != nil {
		return "", err
	}
	return d.base.DecodeString()
}

func (d *ValidatingDecoder) DecodeBytes() ([]byte, error) {
	if _, err := d.parser.Advance(SymBytes); err != nil {
		return nil, err
	}
	return d.base.DecodeBytes()
}

func (d *ValidatingDecoder) DecodeFixed(size int) ([]byte, error) {
	sym, err := d.parser.Advance(SymFixed)
	if err != nil {
		return nil, err
	}
	return d.base.DecodeFixed(deref(sym.Node).(*schema.FixedNode).Size())
}

func (d *ValidatingDecoder) DecodeEnum(symbols []string) (int, error) {
	sym, err := d.parser.Advance(SymEnum)
	if err != nil {
		return 0, err
	}
	return d.base.DecodeEnum(deref(sym.Node).(*schema.EnumNode).Symbols())
}

func (d *ValidatingDecoder) ArrayStart() (int64, error) {
	sym, err := d.parser.Advance(SymArray)
	if err != nil {
		return 0, err
	}
	items := deref(sym.Node).(*schema.ArrayNode).Items()
	count, err := d.base.ArrayStart()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		d.arrayItems = append(d.arrayItems, items)
		d.pushArrayItems(count)
	}
	return count, nil
}

func (d *ValidatingDecoder) ArrayNext() (int64, error) {
	count, err := d.base.ArrayNext()
	if err != nil {
		return 0, err
	}
	if count == 0 {
		d.arrayItems = d.arrayItems[:len(d.arrayItems)-1]
		return 0, nil
	}
	d.pushArrayItems(count)
	return count, nil
}

// pushArrayItems pushes the item symbol of the innermost open array once
// per item in the block just returned by ArrayStart/ArrayNext: a Decoder
// has no per-item hook for arrays (unlike MapKey for maps), so every item
// in the block must already be on the stack before the caller starts
// decoding them one after another.
func (d *ValidatingDecoder) pushArrayItems(count int64) {
	sym := symbolFor(d.arrayItems[len(d.arrayItems)-1])
	for i := int64(0); i < count; i++ {
		d.parser.Push(sym)
	}
}

func (d *ValidatingDecoder) MapStart() (int64, error) {
	sym, err := d.parser.Advance(SymMap)
	if err != nil {
		return 0, err
	}
	values := deref(sym.Node).(*schema.MapNode).Values()
	count, err := d.base.MapStart()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		d.mapValues = append(d.mapValues, values)
	}
	return count, nil
}

func (d *ValidatingDecoder) MapNext() (int64, error) {
	count, err := d.base.MapNext()
	if err != nil {
		return 0, err
	}
	if count == 0 {
		d.mapValues = d.mapValues[:len(d.mapValues)-1]
	}
	return count, nil
}

// MapKey reads the next entry's key and, unlike arrays, has a genuine
// per-item hook: it pushes the map's value symbol once, immediately
// before the caller decodes that entry's value.
func (d *ValidatingDecoder) MapKey() (string, error) {
	key, err := d.base.MapKey()
	if err != nil {
		return "", err
	}
	d.parser.Push(symbolFor(d.mapValues[len(d.mapValues)-1]))
	return key, nil
}

func (d *ValidatingDecoder) UnionIndex(branches []schema.Node) (int, error) {
	sym, err := d.parser.Advance(SymUnion)
	if err != nil {
		return 0, err
	}
	union := deref(sym.Node).(*schema.UnionNode)
	idx, err := d.base.UnionIndex(union.Branches())
	if err != nil {
		return 0, err
	}
	d.parser.Push(symbolFor(union.Branches()[idx]))
	return idx, nil
}

func (d *ValidatingDecoder) UnionEnd() error { return d.base.UnionEnd() }

func (d *ValidatingDecoder) RecordStart() error {
	sym, err := d.parser.Advance(SymRecordStart)
	if err != nil {
		return err
	}
	rec := deref(sym.Node).(*schema.RecordNode)
	production := make(Production, 0, len(rec.Fields())+1)
	for _, f := range rec.Fields() {
		production = append(production, symbolFor(f.Type()))
	}
	production = append(production, Symbol{Kind: SymRecordEnd})
	d.parser.Push(production...)
	return d.base.RecordStart()
}

func (d *ValidatingDecoder) RecordFieldStart(name string) error {
	return d.base.RecordFieldStart(name)
}

func (d *ValidatingDecoder) RecordEnd() error {
	if _, err := d.parser.Advance(SymRecordEnd); err != nil {
		return err
	}
	return d.base.RecordEnd()
}

// ValidatingEncoder is ValidatingDecoder's write-side mirror.
type ValidatingEncoder struct {
	base   Encoder
	parser *Parser
	// arrayItems/mapValues track the item/value node of each array/map
	// currently open, innermost last: ArrayItem/MapItem use the top entry
	// to push that item's symbol just before it is encoded.
	arrayItems []schema.Node
	mapValues  []schema.Node
}

func NewValidatingEncoder(base Encoder, root schema.Node) *ValidatingEncoder {
	return &ValidatingEncoder{base: base, parser: NewParser(symbolFor(root))}
}

func (e *ValidatingEncoder) EncodeNull() error {
	if _, err := e.parser.Advance(SymNull); err != nil {
		return err
	}
	return e.base.EncodeNull()
}

func (e *ValidatingEncoder) EncodeBool(v bool) error {
	if _, err := e.parser.Advance(SymBool); err != nil {
		return err
	}
	return e.base.EncodeBool(v)
}

func (e *ValidatingEncoder) EncodeInt(v int32) error {
	if _, err := e.parser.Advance(SymInt); err != nil {
		return err
	}
	return e.base.EncodeInt(v)
}

func (e *ValidatingEncoder) EncodeLong(v int64) error {
	if _, err := e.parser.Advance(SymLong); err != nil {
		return err
	}
	return e.base.EncodeLong(v)
}

func (e *ValidatingEncoder) EncodeFloat(v float32) error {
	if _, err := e.parser.Advance(SymFloat); err != nil {
		return err
	}
	return e.base.EncodeFloat(v)
}

func (e *ValidatingEncoder) EncodeDouble(v float64) error {
	if _, err := e.parser.Advance(SymDouble); err != nil {
		return err
	}
	return e.base.EncodeDouble(v)
}

func (e *ValidatingEncoder) EncodeString(v string) error {
	if _, err := e.parser.Advance(SymString); err != nil {
		return err
	}
	return e.base.EncodeString(v)
}

func (e *ValidatingEncoder) EncodeBytes(v []byte) error {
	if _, err := e.parser.Advance(SymBytes); err != nil {
		return err
	}
	return e.base.EncodeBytes(v)
}

func (e *ValidatingEncoder) EncodeFixed(v []byte) error {
	sym, err := e.parser.Advance(SymFixed)
	if err != nil {
		return err
	}
	if n := deref(sym.Node).(*schema.FixedNode).Size(); n != len(v) {
		return ErrGrammarMismatch
	}
	return e.base.EncodeFixed(v)
}

func (e *ValidatingEncoder) EncodeEnum(symbols []string, index int) error {
	sym, err := e.parser.Advance(SymEnum)
	if err != nil {
		return err
	}
	return e.base.EncodeEnum(deref(sym.Node).(*schema.EnumNode).Symbols(), index)
}

func (e *ValidatingEncoder) ArrayStart() error {
	sym, err := e.parser.Advance(SymArray)
	if err != nil {
		return err
	}
	e.arrayItems = append(e.arrayItems, deref(sym.Node).(*schema.ArrayNode).Items())
	return e.base.ArrayStart()
}

func (e *ValidatingEncoder) ArrayCount(n int64) error { return e.base.ArrayCount(n) }

// ArrayItem is called immediately before each item is encoded, so unlike
// the decoder side (which has no such hook and must pre-push a whole
// block's worth of symbols), it can push exactly one symbol per call.
func (e *ValidatingEncoder) ArrayItem() error {
	if err := e.base.ArrayItem(); err != nil {
		return err
	}
	e.parser.Push(symbolFor(e.arrayItems[len(e.arrayItems)-1]))
	return nil
}

func (e *ValidatingEncoder) ArrayEnd() error {
	e.arrayItems = e.arrayItems[:len(e.arrayItems)-1]
	return e.base.ArrayEnd()
}

func (e *ValidatingEncoder) MapStart() error {
	sym, err := e.parser.Advance(SymMap)
	if err != nil {
		return err
	}
	e.mapValues = append(e.mapValues, deref(sym.Node).(*schema.MapNode).Values())
	return e.base.MapStart()
}

func (e *ValidatingEncoder) MapCount(n int64) error { return e.base.MapCount(n) }

func (e *ValidatingEncoder) MapItem(key string) error {
	if err := e.base.MapItem(key); err != nil {
		return err
	}
	e.parser.Push(symbolFor(e.mapValues[len(e.mapValues)-1]))
	return nil
}

func (e *ValidatingEncoder) MapEnd() error {
	e.mapValues = e.mapValues[:len(e.mapValues)-1]
	return e.base.MapEnd()
}

func (e *ValidatingEncoder) UnionIndex(branches []schema.Node, index int) error {
	sym, err := e.parser.Advance(SymUnion)
	if err != nil {
		return err
	}
	union := deref(sym.Node).(*schema.UnionNode)
	if err := e.base.UnionIndex(union.Branches(), index); err != nil {
		return err
	}
	e.parser.Push(symbolFor(union.Branches()[index]))
	return nil
}

func (e *ValidatingEncoder) UnionEnd() error { return e.base.UnionEnd() }

func (e *ValidatingEncoder) RecordStart() error {
	sym, err := e.parser.Advance(SymRecordStart)
	if err != nil {
		return err
	}
	rec := deref(sym.Node).(*schema.RecordNode)
	production := make(Production, 0, len(rec.Fields())+1)
	for _, f := range rec.Fields() {
		production = append(production, symbolFor(f.Type()))
	}
	production = append(production, Symbol{Kind: SymRecordEnd})
	e.parser.Push(production...)
	return e.base.RecordStart()
}

func (e *ValidatingEncoder) RecordFieldStart(name string) error {
	return e.base.RecordFieldStart(name)
}

func (e *ValidatingEncoder) RecordEnd() error {
	if _, err := e.parser.Advance(SymRecordEnd); err != nil {
		return err
	}
	return e.base.RecordEnd()
}
