// Package schema builds deterministic schema trees from an abstract type
// graph. It contains the walker that flattens possibly cyclic, possibly
// generic type graphs into placeholder-terminated trees, and the assigner
// that gives every distinct type a stable, collision-resistant identifier.
package schema

// SchemaID is the canonical name of a type within one document's component
// registry. Within a generation pass the mapping between TypeKeys and
// SchemaIDs is bijective, and a SchemaID handed out once never changes.
type SchemaID string

// NodeKind discriminates the shape of a schema node
type NodeKind string

const (
	NodePrimitive NodeKind = "primitive"
	NodeObject    NodeKind = "object"
	NodeArray     NodeKind = "array"
	NodeMap       NodeKind = "map"
	NodeUnion     NodeKind = "union"

	// NodeRecursiveRef stands in for an ancestor on the current walk path;
	// it carries the ancestor's SchemaID in Ref
	NodeRecursiveRef NodeKind = "recursive-placeholder"

	// NodeDepthLimited stands in for a subtree cut off at the maximum
	// walk depth
	NodeDepthLimited NodeKind = "depth-placeholder"
)

// Property is a named member of an object node. Property order is the order
// the upstream type graph reported; lexical ordering happens at canonical
// formatting time so the tree stays usable for human-authored-order output.
type Property struct {
	Name   string
	Schema *SchemaNode
}

// SchemaNode is one node of the output schema tree. Nodes are owned by the
// document being built and never shared across documents.
type SchemaNode struct {
	Kind NodeKind

	// ID names the node in the component registry; empty for inline nodes
	ID SchemaID

	// Type and Format carry the wire type/format pair of primitive nodes
	Type   string
	Format string

	Description string

	// Properties, Required and AdditionalProperties describe object nodes
	Properties           []Property
	Required             []string
	AdditionalProperties *SchemaNode

	// Element is the item schema of arrays and the value schema of maps
	Element *SchemaNode

	// Variants holds union alternatives in declared order
	Variants []*SchemaNode

	// Ref is the SchemaID a recursive placeholder points back to
	Ref SchemaID
}
