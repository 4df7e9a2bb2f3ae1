// Package typegraph defines the abstract type graph consumed by the schema
// walker. The graph is an exchange format: an upstream reflection or
// annotation collaborator (or a descriptor file, see loader.go) describes
// types structurally, and this package makes no assumption about how that
// description was produced.
package typegraph

import (
	"fmt"
	"strings"
)

// TypeKey is the stable identity of a logical type: a namespace-qualified
// name plus the keys of any generic arguments, in declared order. Two
// TypeKeys are equal iff they denote the same logical type.
type TypeKey struct {
	// Namespace qualifies the type name; may be empty
	Namespace string

	// Name is the unqualified type name
	Name string

	// Args holds generic argument keys in declared order
	Args []TypeKey

	// Nullable marks a value-nullability wrapper around the type
	Nullable bool
}

// IsZero reports whether the key is the zero value (no name)
func (k TypeKey) IsZero() bool {
	return k.Name == ""
}

// Equal reports whether two keys denote the same logical type
func (k TypeKey) Equal(other TypeKey) bool {
	return k.String() == other.String()
}

// String renders the key in reference-expression syntax: "ns.Name<arg,arg>"
// with a trailing "?" for nullable wrappers. The rendering is canonical and
// is what the rest of the system uses as a map key for this type.
func (k TypeKey) String() string {
	var sb strings.Builder
	if k.Namespace != "" {
		sb.WriteString(k.Namespace)
		sb.WriteByte('.')
	}
	sb.WriteString(k.Name)
	if len(k.Args) > 0 {
		sb.WriteByte('<')
		for i, arg := range k.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(arg.String())
		}
		sb.WriteByte('>')
	}
	if k.Nullable {
		sb.WriteByte('?')
	}
	return sb.String()
}

// WithoutNullable returns the key with the nullability wrapper removed
func (k TypeKey) WithoutNullable() TypeKey {
	k.Nullable = false
	return k
}

// Kind discriminates the structural shape of a type
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindObject    Kind = "object"
	KindArray     Kind = "array"
	KindMap       Kind = "map"
	KindUnion     Kind = "union"
)

// Field is a named member of an object type. Field order is whatever the
// upstream collaborator reported; canonical ordering is applied at
// formatting time, not here.
type Field struct {
	Name        string
	Type        TypeKey
	Required    bool
	Description string
}

// Type is the structural description of one logical type
type Type struct {
	Key  TypeKey
	Kind Kind

	// Primitive and Format carry the wire type/format pair verbatim for
	// primitive types. Mapping language types to wire types is upstream's
	// concern.
	Primitive string
	Format    string

	// Fields holds object members in declared order
	Fields []Field

	// AdditionalProperties optionally names the value type of an open
	// object; only meaningful for object kinds
	AdditionalProperties *TypeKey

	// Element names the element type of arrays and the value type of maps
	Element TypeKey

	// Variants holds union alternatives in declared order
	Variants []TypeKey

	Description string
}

// Graph is a collection of type descriptions keyed by TypeKey plus the set
// of root types a document should be generated from.
type Graph struct {
	types map[string]*Type
	order []string
	roots []TypeKey
}

// NewGraph creates an empty type graph
func NewGraph() *Graph {
	return &Graph{
		types: make(map[string]*Type),
	}
}

// Add registers a type description. Re-registering a key is an error: the
// graph is an immutable input to a generation pass, not a mutable registry.
func (g *Graph) Add(t *Type) error {
	if t == nil || t.Key.IsZero() {
		return fmt.Errorf("typegraph: cannot add type with empty key")
	}
	if err := validateType(t); err != nil {
		return err
	}
	id := t.Key.String()
	if _, exists := g.types[id]; exists {
		return fmt.Errorf("typegraph: type %s is already defined", id)
	}
	g.types[id] = t
	g.order = append(g.order, id)
	return nil
}

// AddRoot marks a type as a document root
func (g *Graph) AddRoot(key TypeKey) error {
	if key.IsZero() {
		return fmt.Errorf("typegraph: cannot add root with empty key")
	}
	g.roots = append(g.roots, key)
	return nil
}

// Roots returns the document roots in declared order
func (g *Graph) Roots() []TypeKey {
	roots := make([]TypeKey, len(g.roots))
	copy(roots, g.roots)
	return roots
}

// Len returns the number of defined types
func (g *Graph) Len() int {
	return len(g.types)
}

// Types returns all defined types in declaration order
func (g *Graph) Types() []*Type {
	result := make([]*Type, 0, len(g.order))
	for _, id := range g.order {
		result = append(result, g.types[id])
	}
	return result
}

// Resolve looks up the structural description for a key. Nullable wrappers
// resolve to their inner type; builtin primitives (string, integer, number,
// boolean) resolve implicitly without being defined in the graph.
func (g *Graph) Resolve(key TypeKey) (*Type, bool) {
	if key.Nullable {
		key = key.WithoutNullable()
	}
	if t, ok := g.types[key.String()]; ok {
		return t, true
	}
	if t, ok := builtinPrimitive(key); ok {
		return t, true
	}
	return nil, false
}

// IsBuiltin reports whether a key names one of the implicit wire primitives.
// Builtins resolve structurally but are inlined rather than registered as
// named document components.
func IsBuiltin(key TypeKey) bool {
	_, ok := builtinPrimitive(key.WithoutNullable())
	return ok
}

// builtinPrimitive resolves the implicit wire primitives so descriptors do
// not have to declare them
func builtinPrimitive(key TypeKey) (*Type, bool) {
	if key.Namespace != "" || len(key.Args) > 0 {
		return nil, false
	}
	switch key.Name {
	case "string", "integer", "number", "boolean":
		return &Type{Key: key, Kind: KindPrimitive, Primitive: key.Name}, true
	}
	return nil, false
}

func validateType(t *Type) error {
	id := t.Key.String()
	switch t.Kind {
	case KindPrimitive:
		if t.Primitive == "" {
			return fmt.Errorf("typegraph: primitive type %s has no wire type", id)
		}
	case KindObject:
		seen := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			if f.Name == "" {
				return fmt.Errorf("typegraph: object %s has an unnamed field", id)
			}
			if f.Type.IsZero() {
				return fmt.Errorf("typegraph: field %s.%s has no type", id, f.Name)
			}
			if seen[f.Name] {
				return fmt.Errorf("typegraph: object %s declares field %s twice", id, f.Name)
			}
			seen[f.Name] = true
		}
	case KindArray, KindMap:
		if t.Element.IsZero() {
			return fmt.Errorf("typegraph: %s type %s has no element type", t.Kind, id)
		}
	case KindUnion:
		if len(t.Variants) == 0 {
			return fmt.Errorf("typegraph: union %s has no variants", id)
		}
		for _, v := range t.Variants {
			if v.IsZero() {
				return fmt.Errorf("typegraph: union %s has an empty variant", id)
			}
		}
	default:
		return fmt.Errorf("typegraph: type %s has unknown kind %q", id, t.Kind)
	}
	return nil
}
