package jsonwalk

import (
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Parse decodes a JSON or YAML document into the walkable document model:
// mappings become *Object (preserving field order), sequences become Array,
// and scalars become their natural Go types (string, bool, int, float64,
// nil). YAML being a superset of JSON, both formats are handled by the same
// decoder.
func Parse(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("jsonwalk: parsing document: %w", err)
	}
	if root.Kind == 0 {
		// Empty input decodes to a zero node.
		return nil, nil
	}
	return fromNode(&root)
}

// ParseString is like [Parse] for string input.
func ParseString(data string) (any, error) {
	return Parse([]byte(data))
}

// fromNode converts one yaml.Node subtree into the document model.
func fromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromNode(node.Content[0])

	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			var key string
			if err := keyNode.Decode(&key); err != nil {
				return nil, fmt.Errorf("jsonwalk: decoding mapping key at line %d: %w", keyNode.Line, err)
			}
			value, err := fromNode(valueNode)
			if err != nil {
				return nil, err
			}
			obj.Put(key, value)
		}
		return obj, nil

	case yaml.SequenceNode:
		arr := make(Array, 0, len(node.Content))
		for _, elem := range node.Content {
			value, err := fromNode(elem)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		return arr, nil

	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("jsonwalk: decoding scalar at line %d: %w", node.Line, err)
		}
		return value, nil

	case yaml.AliasNode:
		return fromNode(node.Alias)

	default:
		return nil, fmt.Errorf("jsonwalk: unsupported node kind %d at line %d", node.Kind, node.Line)
	}
}
