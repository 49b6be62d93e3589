// Package yaml provides a YAML codec implementation.
package yaml

import (
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/veil"
)

// yamlCodec implements veil.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() veil.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML. Masked trees are converted node by node so
// object keys keep field declaration order.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	if node, ok := v.(veil.Node); ok {
		yn, err := toYAML(node)
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(yn)
	}
	return yaml.Marshal(v)
}

// toYAML converts a masked tree into a yaml.Node preserving field order.
func toYAML(n veil.Node) (*yaml.Node, error) {
	switch n.Kind() {
	case veil.KindMasked:
		return scalarYAML(n.Value())

	case veil.KindSequence:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items() {
			child, err := toYAML(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil

	case veil.KindObject:
		obj := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range n.Keys() {
			child, _ := n.Field(key)
			value, err := toYAML(child)
			if err != nil {
				return nil, err
			}
			obj.Content = append(obj.Content, stringYAML(key), value)
		}
		return obj, nil

	case veil.KindCyclic, veil.KindTruncated:
		marker := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		marker.Content = append(marker.Content, stringYAML(veil.RefKey), stringYAML(n.Marker()))
		return marker, nil

	default:
		return scalarYAML(n.Value())
	}
}

// scalarYAML encodes an arbitrary scalar value.
func scalarYAML(v any) (*yaml.Node, error) {
	if v == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}

// stringYAML builds a string scalar node.
func stringYAML(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
