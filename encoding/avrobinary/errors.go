package avrobinary

import "errors"

// ErrMalformed is the sentinel every wire-format violation wraps: an
// overlong varint, a negative length prefix, a bad boolean byte, an
// out-of-range value or index (§4.2, §7). Input that ends too early wraps
// iostream.ErrUnexpectedEOF instead.
var ErrMalformed = errors.New("avrobinary: malformed input")
