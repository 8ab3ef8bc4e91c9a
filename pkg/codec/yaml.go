package codec

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the tree as a mapping node so entry order survives
func (t Tree) MarshalYAML() (any, error) {
	return treeNode(t)
}

// UnmarshalYAML reads a mapping node, keeping key order
func (t *Tree) UnmarshalYAML(node *yaml.Node) error {
	tree, err := nodeTree(node)
	if err != nil {
		return err
	}
	*t = tree
	return nil
}

func treeNode(t Tree) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range t {
		v, err := valueNode(e.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name}, v)
	}
	return m, nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case string:
		if !utf8.ValidString(x) {
			return nil, errInvalidUTF8
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: x, Style: yaml.DoubleQuotedStyle}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(x, 10)}, nil
	case Tree:
		return treeNode(x)
	default:
		n := &yaml.Node{}
		if err := n.Encode(x); err != nil {
			return nil, err
		}
		return n, nil
	}
}

func nodeTree(node *yaml.Node) (Tree, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	tree := Tree{}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
		}
		if seen[k.Value] {
			return nil, fmt.Errorf("line %d: duplicate key %q", k.Line, k.Value)
		}
		seen[k.Value] = true

		value, err := nodeValue(v)
		if err != nil {
			return nil, err
		}
		tree = append(tree, Entry{Name: k.Value, Value: value})
	}
	return tree, nil
}

func nodeValue(node *yaml.Node) (any, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.MappingNode:
		return nodeTree(node)
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			item, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}

	switch node.ShortTag() {
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return n, nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return numberValue(f), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return b, nil
	case "!!null":
		return nil, nil
	default:
		// plain timestamps resolve to !!timestamp; keep the text for
		// record construction to coerce
		return node.Value, nil
	}
}
