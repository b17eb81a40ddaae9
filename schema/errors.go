package schema

import (
	"errors"
	"fmt"
)

// ErrSchemaParse is the sentinel every schema-compilation failure wraps, so
// callers can test for it with errors.Is regardless of which step in the
// compiler produced it (§7).
var ErrSchemaParse = errors.New("schema: parse error")

// SchemaParseError is a malformed-schema diagnostic. Line and Column are
// 1-based and refer to the offending JSON token's position in the schema
// text when known; they are 0 when the error was raised during a phase
// that no longer has token positions (e.g. cross-reference resolution
// after parsing finished).
type SchemaParseError struct {
	Msg    string
	Line   int
	Column int
	// Cause, when set, is a more specific sentinel (such as ErrUnknownName)
	// that errors.Is matches in addition to ErrSchemaParse.
	Cause error
}

func (e *SchemaParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("schema: %s", e.Msg)
	}
	return fmt.Sprintf("schema: %d:%d: %s", e.Line, e.Column, e.Msg)
}

func (e *SchemaParseError) Unwrap() error { return ErrSchemaParse }

// Is reports whether target is e's Cause.
func (e *SchemaParseError) Is(target error) bool { return e.Cause != nil && target == e.Cause }

// ErrUnknownName is returned by the compiler when a schema references a
// named type that was never declared anywhere in the document (§4.1.1).
var ErrUnknownName = errors.New("schema: unknown type name")
