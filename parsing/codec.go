// Package parsing implements the grammar-based state machine the original
// implementation's impl/parsing package builds around a compiled schema
// (§4.4-§4.7): a Symbol/Production grammar built from a schema graph and a
// stack-driven Parser that walks it (used by ValidatingDecoder and
// ValidatingEncoder), plus a ResolvingDecoder that projects a writer schema
// onto a reader schema by walking both schema trees directly, without a
// grammar.
//
// Decoder and Encoder are the shared contract every codec in this module
// speaks: encoding/avrobinary and encoding/avrojson implement them as raw,
// schema-agnostic-at-the-value-level (but structurally schema-driven for
// enum/union/fixed) wire codecs; ValidatingDecoder/ValidatingEncoder wrap a
// raw codec and add structural checking without changing the interface, so
// generic.Reader/Writer can drive any of them identically — the layering
// impl/parsing/ValidatingCodec.cc uses C++ inheritance for.
// ResolvingDecoder also reads through a raw Decoder but does not implement
// Decoder itself: its Decode method returns a reader-shaped schema.Datum.
package parsing

import "github.com/Sokol111/avrocodec/schema"

// Decoder reads primitive and structural Avro values in schema order. A
// caller decoding a record calls these methods once per field, in field
// order, exactly mirroring how the value was produced; there is no random
// access.
type Decoder interface {
	DecodeNull() error
	DecodeBool() (bool, error)
	DecodeInt() (int32, error)
	DecodeLong() (int64, error)
	DecodeFloat() (float32, error)
	DecodeDouble() (float64, error)
	DecodeString() (string, error)
	DecodeBytes() ([]byte, error)
	DecodeFixed(size int) ([]byte, error)
	// DecodeEnum returns the ordinal of the encoded symbol into symbols.
	DecodeEnum(symbols []string) (int, error)

	// ArrayStart returns the first block's item count (0 means an empty
	// array, already fully consumed). A negative count means the block is
	// followed by a byte-size long that a decoder not interested in the
	// items may use to skip the block in one seek; this decoder ignores
	// it, so the returned count is always the negated (positive) form.
	ArrayStart() (int64, error)
	// ArrayNext returns the following block's item count, 0 at end of
	// array. Callers must call it after consuming each returned block's
	// items, including the first one from ArrayStart, until it returns 0.
	ArrayNext() (int64, error)

	MapStart() (int64, error)
	MapNext() (int64, error)
	// MapKey reads the next entry's key; call once per item within a
	// block, immediately before decoding that item's value.
	MapKey() (string, error)

	// UnionIndex returns the index into branches of the encoded value's
	// branch. If the chosen branch is not the null branch, callers must
	// call UnionEnd once they finish decoding that branch's value.
	UnionIndex(branches []schema.Node) (int, error)
	// UnionEnd closes a non-null union frame opened by UnionIndex. It is a
	// no-op for formats with no explicit union wrapper to close.
	UnionEnd() error

	// RecordStart/RecordFieldStart/RecordEnd bracket a record's fields.
	// RecordFieldStart is called once per field, in schema order,
	// immediately before that field's value is decoded; formats that
	// encode records positionally (no field markers) implement all three
	// as no-ops.
	RecordStart() error
	RecordFieldStart(name string) error
	RecordEnd() error
}

// Encoder is Decoder's write-side counterpart. generic.Writer, which
// drives it in this module, writes arrays and maps as a single block
// (ArrayCount/MapCount is called at most twice per array or map: once with
// the total count, once with 0 to terminate — or just once with 0 when it
// is empty), which is always a valid encoding even though the format
// allows multiple blocks.
type Encoder interface {
	EncodeNull() error
	EncodeBool(v bool) error
	EncodeInt(v int32) error
	EncodeLong(v int64) error
	EncodeFloat(v float32) error
	EncodeDouble(v float64) error
	EncodeString(v string) error
	EncodeBytes(v []byte) error
	EncodeFixed(v []byte) error
	EncodeEnum(symbols []string, index int) error

	ArrayStart() error
	ArrayCount(n int64) error
	// ArrayItem is called immediately before encoding each item.
	ArrayItem() error
	ArrayEnd() error

	MapStart() error
	MapCount(n int64) error
	// MapItem is called immediately before encoding each item's value,
	// and writes the item's key.
	MapItem(key string) error
	MapEnd() error

	UnionIndex(branches []schema.Node, index int) error
	UnionEnd() error

	RecordStart() error
	RecordFieldStart(name string) error
	RecordEnd() error
}
