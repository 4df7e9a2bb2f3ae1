package docs

import (
	"fmt"

	"github.com/schemadoc-dev/schemadoc/internal/canonical"
	"github.com/schemadoc-dev/schemadoc/internal/schema"
)

// RenderNode renders a single schema node as a standalone canonical document.
// The node is emitted in full, including its nested anonymous schemas; named
// children still collapse to $ref entries exactly as they do in the assembled
// document.
func RenderNode(node *schema.SchemaNode, syntax canonical.Syntax) (*canonical.Document, error) {
	if node == nil {
		return nil, fmt.Errorf("docs: node must not be nil")
	}
	return canonical.Format(schemaValue(node), syntax)
}
