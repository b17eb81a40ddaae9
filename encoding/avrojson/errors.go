package avrojson

import "errors"

// ErrMalformed is the sentinel every decode failure wraps: a token of the
// wrong shape for what the schema expected, an unmatched union branch
// name, or a JSON syntax error surfaced by the underlying tokenizer.
var ErrMalformed = errors.New("avrojson: malformed input")
