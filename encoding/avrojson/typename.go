package avrojson

import "github.com/Sokol111/avrocodec/schema"

// branchTypeName is the string Avro's JSON encoding uses to tag which
// union branch a wrapped value belongs to: a primitive's type name, a
// named type's fully-qualified name, or "array"/"map" for the two
// unnamed compound types (§4.3). A union may not directly contain
// another union, so that case never arises here.
func branchTypeName(n schema.Node) string {
	switch v := n.(type) {
	case *schema.PrimitiveNode:
		return v.Type().String()
	case *schema.RecordNode:
		return v.Name().FullName()
	case *schema.EnumNode:
		return v.Name().FullName()
	case *schema.FixedNode:
		return v.Name().FullName()
	case *schema.ArrayNode:
		return "array"
	case *schema.MapNode:
		return "map"
	case *schema.SymbolicNode:
		return branchTypeName(v.Target())
	default:
		return n.Type().String()
	}
}
