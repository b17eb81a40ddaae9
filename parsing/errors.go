package parsing

import "errors"

// ErrGrammarMismatch is returned when the sequence of decode/encode calls
// a caller makes does not match the compiled grammar's next expected
// symbol — a caller bug, not a malformed-input condition (those surface
// as errors from the wrapped raw codec instead).
var ErrGrammarMismatch = errors.New("parsing: call sequence does not match schema grammar")

// ErrGrammarExhausted is returned by Parser.Advance when the stack is
// already empty: every symbol the schema produced has already been
// consumed.
var ErrGrammarExhausted = errors.New("parsing: grammar already exhausted")

// ErrResolutionMismatch is returned by the resolving grammar generator
// when a writer schema and reader schema cannot be reconciled at all —
// two types with no promotion path between them, or a union with no
// branch the other side can match (§4.7).
var ErrResolutionMismatch = errors.New("parsing: writer and reader schemas do not resolve")
