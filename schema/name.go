package schema

import "strings"

// Name is a named type's identity: a simple name plus the namespace it was
// declared in. The fully-qualified name (namespace + "." + simple name) is
// what the symbol table keys on (§3.2, §4.1.2).
type Name struct {
	simple    string
	namespace string
}

// NewName resolves name against the enclosing namespace the way the
// compiler resolves a field's type string or a record's declared name
// (§4.1.2):
//   - a name containing "." is already fully qualified and is used as-is,
//     except a *leading* "." means "fully qualified from the null
//     namespace" (the original implementation's corner case, carried over
//     in SPEC_FULL.md §4).
//   - an explicit namespace argument (from a "namespace" JSON field) wins
//     over the enclosing namespace.
//   - otherwise the name inherits enclosingNamespace.
func NewName(name, explicitNamespace, enclosingNamespace string) Name {
	if strings.HasPrefix(name, ".") {
		full := name[1:]
		return splitFullName(full)
	}
	if strings.Contains(name, ".") {
		return splitFullName(name)
	}
	ns := enclosingNamespace
	if explicitNamespace != "" {
		ns = explicitNamespace
	}
	return Name{simple: name, namespace: ns}
}

func splitFullName(full string) Name {
	idx := strings.LastIndex(full, ".")
	if idx < 0 {
		return Name{simple: full}
	}
	return Name{simple: full[idx+1:], namespace: full[:idx]}
}

// FullName returns the fully-qualified name: namespace + "." + simple name,
// or just the simple name when namespace is empty.
func (n Name) FullName() string {
	if n.namespace == "" {
		return n.simple
	}
	return n.namespace + "." + n.simple
}

// Simple returns the unqualified name.
func (n Name) Simple() string { return n.simple }

// Namespace returns the namespace component, "" for the null namespace.
func (n Name) Namespace() string { return n.namespace }

func (n Name) IsEmpty() bool { return n.simple == "" }

func (n Name) String() string { return n.FullName() }
