package schema

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// entityKind is the shape of one node in the parsed schema-text tree.
type entityKind int

const (
	entityNull entityKind = iota
	entityBool
	entityNumber
	entityString
	entityArray
	entityObject
)

// member is one key/value pair of a JSON object entity, kept in source
// order: Avro schema compilation is sensitive to field declaration order,
// so member order must survive parsing (unlike a plain map[string]any).
type member struct {
	key   string
	value jsonEntity
	line  int
	col   int
}

// jsonEntity is a line/column-annotated JSON value tree, built by streaming
// tokens out of goccy/go-json's Decoder (grounded in reoring-goskema's
// gojson driver, source/gojson/driver_gojson.go, which drives the same
// Decoder.Token() API for its own token source). Plain Unmarshal-into-any
// loses position information the moment it returns, which SchemaParseError
// needs for precise diagnostics (§4.1.1); walking tokens ourselves keeps it.
type jsonEntity struct {
	kind    entityKind
	boolV   bool
	numberV float64
	stringV string
	arrayV  []jsonEntity
	objectV []member
	line    int
	col     int
}

func (e jsonEntity) isNull() bool   { return e.kind == entityNull }
func (e jsonEntity) isString() bool { return e.kind == entityString }
func (e jsonEntity) isArray() bool  { return e.kind == entityArray }
func (e jsonEntity) isObject() bool { return e.kind == entityObject }

// field looks up a member by key and reports whether it was present.
func (e jsonEntity) field(key string) (jsonEntity, bool) {
	for _, m := range e.objectV {
		if m.key == key {
			return m.value, true
		}
	}
	return jsonEntity{}, false
}

func (e jsonEntity) pos() (int, int) { return e.line, e.col }

// parseJSONEntity parses the full contents of data into a jsonEntity tree.
func parseJSONEntity(data []byte) (jsonEntity, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	ent, err := decodeEntity(dec, data)
	if err != nil {
		if err == io.EOF {
			return jsonEntity{}, &SchemaParseError{Msg: "empty schema text"}
		}
		return jsonEntity{}, &SchemaParseError{Msg: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return ent, nil
}

func decodeEntity(dec *json.Decoder, data []byte) (jsonEntity, error) {
	offset := dec.InputOffset()
	tok, err := dec.Token()
	if err != nil {
		return jsonEntity{}, err
	}
	line, col := lineCol(data, offset)

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			obj, err := decodeObject(dec, data)
			if err != nil {
				return jsonEntity{}, err
			}
			return jsonEntity{kind: entityObject, objectV: obj, line: line, col: col}, nil
		case '[':
			arr, err := decodeArray(dec, data)
			if err != nil {
				return jsonEntity{}, err
			}
			return jsonEntity{kind: entityArray, arrayV: arr, line: line, col: col}, nil
		default:
			return jsonEntity{}, &SchemaParseError{Msg: fmt.Sprintf("unexpected delimiter %q", v), Line: line, Column: col}
		}
	case nil:
		return jsonEntity{kind: entityNull, line: line, col: col}, nil
	case bool:
		return jsonEntity{kind: entityBool, boolV: v, line: line, col: col}, nil
	case string:
		return jsonEntity{kind: entityString, stringV: v, line: line, col: col}, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return jsonEntity{}, &SchemaParseError{Msg: fmt.Sprintf("invalid number %q", v.String()), Line: line, Column: col}
		}
		return jsonEntity{kind: entityNumber, numberV: f, stringV: v.String(), line: line, col: col}, nil
	default:
		return jsonEntity{}, &SchemaParseError{Msg: fmt.Sprintf("unrecognized JSON token %T", tok), Line: line, Column: col}
	}
}

func decodeObject(dec *json.Decoder, data []byte) ([]member, error) {
	var members []member
	for dec.More() {
		offset := dec.InputOffset()
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		line, col := lineCol(data, offset)
		val, err := decodeEntity(dec, data)
		if err != nil {
			return nil, err
		}
		members = append(members, member{key: key, value: val, line: line, col: col})
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return nil, err
	}
	return members, nil
}

func decodeArray(dec *json.Decoder, data []byte) ([]jsonEntity, error) {
	var items []jsonEntity
	for dec.More() {
		val, err := decodeEntity(dec, data)
		if err != nil {
			return nil, err
		}
		items = append(items, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return nil, err
	}
	return items, nil
}

// lineCol converts a byte offset into 1-based line/column numbers.
func lineCol(data []byte, offset int64) (int, int) {
	line, col := 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
