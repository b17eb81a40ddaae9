package schema

// ValidSchema is a compiled, immutable schema graph (§3.3). It owns every
// node reachable from Root, directly or through a SymbolicNode, for as
// long as the ValidSchema itself is reachable; once compiled it is safe
// for concurrent read-only use by any number of encoders and decoders
// (§6.1's "schema is immutable and shareable across threads once
// compiled" non-goal carve-out — the library itself never mutates a node
// after Compile returns).
type ValidSchema struct {
	root   Node
	symtab map[string]Node
}

// Root returns the schema's top-level node.
func (s *ValidSchema) Root() Node { return s.root }

// Lookup returns the named node registered under fullName (a record, enum
// or fixed definition found anywhere in the schema document), or false if
// no such name was declared.
func (s *ValidSchema) Lookup(fullName string) (Node, bool) {
	n, ok := s.symtab[fullName]
	return n, ok
}
