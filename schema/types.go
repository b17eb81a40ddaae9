package schema

// Type is the closed set of Avro logical types, plus the pseudo-type
// Symbolic used internally during and after compilation to represent a
// named back-reference (see §3.1).
type Type int

const (
	Null Type = iota
	Boolean
	Int
	Long
	Float
	Double
	String
	Bytes
	Fixed
	Enum
	Record
	Array
	Map
	Union
	// Symbolic stands in for a named type (record/enum/fixed) referenced
	// before it is fully compiled, or permanently for a recursive edge.
	Symbolic
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Fixed:
		return "fixed"
	case Enum:
		return "enum"
	case Record:
		return "record"
	case Array:
		return "array"
	case Map:
		return "map"
	case Union:
		return "union"
	case Symbolic:
		return "<symbolic>"
	default:
		return "<unknown type>"
	}
}

// IsPrimitive reports whether t is one of the eight primitive JSON-string
// type names (null, boolean, int, long, float, double, string, bytes).
func (t Type) IsPrimitive() bool {
	switch t {
	case Null, Boolean, Int, Long, Float, Double, String, Bytes:
		return true
	default:
		return false
	}
}

// IsNamed reports whether t carries a fully-qualified name in the symbol
// table (record, enum, fixed).
func (t Type) IsNamed() bool {
	switch t {
	case Record, Enum, Fixed:
		return true
	default:
		return false
	}
}

func primitiveTypeByName(name string) (Type, bool) {
	switch name {
	case "null":
		return Null, true
	case "boolean":
		return Boolean, true
	case "int":
		return Int, true
	case "long":
		return Long, true
	case "float":
		return Float, true
	case "double":
		return Double, true
	case "string":
		return String, true
	case "bytes":
		return Bytes, true
	default:
		return 0, false
	}
}
