package docs

import (
	"github.com/schemadoc-dev/schemadoc/internal/schema"
)

const componentPrefix = "#/components/schemas/"

// assembleDocument builds the OpenAPI-style value tree: an info block plus a
// components registry holding every named schema. Named nodes are emitted
// once under their SchemaID and referenced everywhere else by $ref, so the
// canonical bytes contain each component exactly once.
func assembleDocument(config *Config, components []*schema.SchemaNode) map[string]any {
	schemas := make(map[string]any, len(components))
	for _, node := range components {
		schemas[string(node.ID)] = schemaValue(node)
	}

	info := map[string]any{
		"title":   config.Title,
		"version": config.Version,
	}
	if config.Description != "" {
		info["description"] = config.Description
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info":    info,
		"components": map[string]any{
			"schemas": schemas,
		},
	}
}

// refValue renders a node as it appears embedded in a parent: named nodes
// become references into the components registry, anonymous nodes inline
func refValue(node *schema.SchemaNode) any {
	if node.ID != "" {
		return map[string]any{"$ref": componentPrefix + string(node.ID)}
	}
	return schemaValue(node)
}

// schemaValue renders a node's full schema object
func schemaValue(node *schema.SchemaNode) map[string]any {
	value := make(map[string]any)

	switch node.Kind {
	case schema.NodePrimitive:
		value["type"] = node.Type
		if node.Format != "" {
			value["format"] = node.Format
		}

	case schema.NodeObject:
		value["type"] = "object"
		properties := make(map[string]any, len(node.Properties))
		for _, prop := range node.Properties {
			properties[prop.Name] = refValue(prop.Schema)
		}
		value["properties"] = properties
		if len(node.Required) > 0 {
			required := make([]any, len(node.Required))
			for i, name := range node.Required {
				required[i] = name
			}
			value["required"] = required
		}
		if node.AdditionalProperties != nil {
			value["additionalProperties"] = refValue(node.AdditionalProperties)
		}

	case schema.NodeArray:
		value["type"] = "array"
		value["items"] = refValue(node.Element)

	case schema.NodeMap:
		value["type"] = "object"
		value["additionalProperties"] = refValue(node.Element)

	case schema.NodeUnion:
		variants := make([]any, len(node.Variants))
		for i, variant := range node.Variants {
			variants[i] = refValue(variant)
		}
		value["oneOf"] = variants

	case schema.NodeRecursiveRef:
		value["$ref"] = componentPrefix + string(node.Ref)

	case schema.NodeDepthLimited:
		value["description"] = "schema omitted: maximum depth exceeded"
	}

	if node.Description != "" && node.Kind != schema.NodeDepthLimited {
		value["description"] = node.Description
	}

	return value
}
