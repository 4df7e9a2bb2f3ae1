package schema

import (
	"fmt"

	"github.com/schemadoc-dev/schemadoc/internal/diag"
	"github.com/schemadoc-dev/schemadoc/internal/typegraph"
)

// DefaultMaxDepth bounds schema nesting when the caller does not choose a
// limit of its own
const DefaultMaxDepth = 32

// Resolver supplies structural type descriptions to the walker.
// *typegraph.Graph satisfies it.
type Resolver interface {
	Resolve(key typegraph.TypeKey) (*typegraph.Type, bool)
}

// Walker flattens a type graph into schema trees. Cycles collapse into
// recursive placeholders, depth overruns into depth placeholders, and types
// already walked elsewhere are reused rather than re-walked, so the walker
// terminates on any input and produces the same tree for the same graph
// every time.
//
// A walker belongs to exactly one generation pass and is not safe for
// concurrent use; run concurrent passes with separate walkers.
type Walker struct {
	resolver Resolver
	assigner *Assigner
	reporter *diag.Reporter

	// resolved caches fully walked nodes by type key so repeated sibling
	// references share one subtree
	resolved map[string]*SchemaNode

	// placeholders caches recursive placeholders by cycle root so every
	// cycle through the same ancestor collapses to one node
	placeholders map[SchemaID]*SchemaNode

	// depthReported tracks which boundary types already produced a
	// depth-exceeded diagnostic; one event per boundary, not per node
	depthReported map[string]bool

	components     map[SchemaID]*SchemaNode
	componentOrder []SchemaID
}

// WalkerOption customizes a Walker
type WalkerOption func(*Walker)

// WithWalkerReporter sets the diagnostics reporter
func WithWalkerReporter(reporter *diag.Reporter) WalkerOption {
	return func(w *Walker) {
		if reporter != nil {
			w.reporter = reporter
		}
	}
}

// NewWalker creates a walker over the given resolver. The assigner provides
// identifiers for named components; it must be non-nil because a node has to
// have an identifier before it can reference itself.
func NewWalker(resolver Resolver, assigner *Assigner, opts ...WalkerOption) *Walker {
	w := &Walker{
		resolver:      resolver,
		assigner:      assigner,
		reporter:      diag.NewNopReporter(),
		resolved:      make(map[string]*SchemaNode),
		placeholders:  make(map[SchemaID]*SchemaNode),
		depthReported: make(map[string]bool),
		components:    make(map[SchemaID]*SchemaNode),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk produces the schema tree rooted at the given type. maxDepth bounds
// nesting; zero selects DefaultMaxDepth and negative values are a caller
// bug. Structural limits never fail the walk: cycles and depth overruns
// resolve to placeholder nodes.
func (w *Walker) Walk(root typegraph.TypeKey, maxDepth int) (*SchemaNode, error) {
	if root.IsZero() {
		return nil, fmt.Errorf("schema: cannot walk an empty type key")
	}
	if maxDepth < 0 {
		return nil, fmt.Errorf("schema: maxDepth must not be negative, got %d", maxDepth)
	}
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}

	return w.walk(root, 0, maxDepth, newPathStack())
}

// Components returns every named node encountered so far, in assignment
// order
func (w *Walker) Components() []*SchemaNode {
	result := make([]*SchemaNode, 0, len(w.componentOrder))
	for _, id := range w.componentOrder {
		result = append(result, w.components[id])
	}
	return result
}

func (w *Walker) walk(key typegraph.TypeKey, depth, maxDepth int, path *pathStack) (*SchemaNode, error) {
	// Structural identity ignores value-nullability; nullability surfaces
	// in naming only, where the wrapper appears as a generic argument.
	key = key.WithoutNullable()
	typeKey := key.String()

	// A key on the current path means a cycle; point back at the ancestor.
	if ancestorID, ok := path.lookup(typeKey); ok {
		if placeholder, ok := w.placeholders[ancestorID]; ok {
			return placeholder, nil
		}
		placeholder := &SchemaNode{Kind: NodeRecursiveRef, Ref: ancestorID}
		w.placeholders[ancestorID] = placeholder
		return placeholder, nil
	}

	// A key resolved elsewhere is reused as-is; re-walking would cost time
	// and, worse, could produce a structurally different subtree.
	if node, ok := w.resolved[typeKey]; ok {
		return node, nil
	}

	if depth > maxDepth {
		if !w.depthReported[typeKey] {
			w.depthReported[typeKey] = true
			w.reporter.DepthExceeded(typeKey, maxDepth)
		}
		return &SchemaNode{Kind: NodeDepthLimited}, nil
	}

	t, ok := w.resolver.Resolve(key)
	if !ok {
		return nil, fmt.Errorf("schema: type %s is not defined in the graph", typeKey)
	}

	node := &SchemaNode{Description: t.Description}

	// Named components get their identifier before any child is walked so
	// children can reference the node while it is still being built. The
	// component is registered here too, keeping Components() in assignment
	// order: a parent precedes the named children discovered inside it.
	named := !typegraph.IsBuiltin(key)
	if named {
		id, err := w.assigner.Assign(key)
		if err != nil {
			return nil, err
		}
		node.ID = id
		if _, exists := w.components[id]; !exists {
			w.components[id] = node
			w.componentOrder = append(w.componentOrder, id)
		}
		path.push(typeKey, id)
		defer path.pop()
	}

	if err := w.fill(node, t, depth, maxDepth, path); err != nil {
		return nil, err
	}

	w.resolved[typeKey] = node
	return node, nil
}

func (w *Walker) fill(node *SchemaNode, t *typegraph.Type, depth, maxDepth int, path *pathStack) error {
	switch t.Kind {
	case typegraph.KindPrimitive:
		node.Kind = NodePrimitive
		node.Type = t.Primitive
		node.Format = t.Format

	case typegraph.KindObject:
		node.Kind = NodeObject
		for _, field := range t.Fields {
			child, err := w.walk(field.Type, depth+1, maxDepth, path)
			if err != nil {
				return err
			}
			node.Properties = append(node.Properties, Property{Name: field.Name, Schema: child})
			if field.Required {
				node.Required = append(node.Required, field.Name)
			}
		}
		if t.AdditionalProperties != nil {
			child, err := w.walk(*t.AdditionalProperties, depth+1, maxDepth, path)
			if err != nil {
				return err
			}
			node.AdditionalProperties = child
		}

	case typegraph.KindArray:
		node.Kind = NodeArray
		child, err := w.walk(t.Element, depth+1, maxDepth, path)
		if err != nil {
			return err
		}
		node.Element = child

	case typegraph.KindMap:
		node.Kind = NodeMap
		child, err := w.walk(t.Element, depth+1, maxDepth, path)
		if err != nil {
			return err
		}
		node.Element = child

	case typegraph.KindUnion:
		node.Kind = NodeUnion
		for _, variant := range t.Variants {
			child, err := w.walk(variant, depth+1, maxDepth, path)
			if err != nil {
				return err
			}
			node.Variants = append(node.Variants, child)
		}

	default:
		return fmt.Errorf("schema: type %s has unknown kind %q", t.Key, t.Kind)
	}
	return nil
}

// pathStack tracks the walk path for cycle detection: a stack for ordering
// plus an index for constant-time ancestor lookup
type pathStack struct {
	entries []string
	index   map[string]SchemaID
}

func newPathStack() *pathStack {
	return &pathStack{index: make(map[string]SchemaID)}
}

func (p *pathStack) push(typeKey string, id SchemaID) {
	p.entries = append(p.entries, typeKey)
	p.index[typeKey] = id
}

func (p *pathStack) pop() {
	last := p.entries[len(p.entries)-1]
	p.entries = p.entries[:len(p.entries)-1]
	delete(p.index, last)
}

func (p *pathStack) lookup(typeKey string) (SchemaID, bool) {
	id, ok := p.index[typeKey]
	return id, ok
}
