package veil

import (
	"bytes"
	"encoding/json"
)

// NodeKind discriminates the variants of a masked tree node.
type NodeKind int

const (
	// KindScalar is a passthrough value (numbers, booleans, unmasked
	// strings, anything the walker does not descend into).
	KindScalar NodeKind = iota

	// KindMasked is a string that was masked by the style engine.
	KindMasked

	// KindSequence is an ordered list of child nodes.
	KindSequence

	// KindObject is an ordered field-name → node mapping.
	KindObject

	// KindCyclic marks a value that was already visited in this traversal.
	KindCyclic

	// KindTruncated marks a value beyond the walker's depth ceiling.
	KindTruncated
)

// Node is one vertex of a masked render tree. Nodes are built fresh per
// traversal and never alias the walked value (scalar passthrough excepted).
//
// The zero Node is a null scalar.
type Node struct {
	kind     NodeKind
	value    any    // KindScalar payload, or KindMasked string
	items    []Node // KindSequence children
	keys     []string
	fields   map[string]Node // KindObject children, ordered by keys
	typeName string          // KindCyclic / KindTruncated marker
}

// Scalar returns a passthrough node for v.
func Scalar(v any) Node {
	return Node{kind: KindScalar, value: v}
}

// Masked returns a node holding an already-masked string.
func Masked(s string) Node {
	return Node{kind: KindMasked, value: s}
}

// Sequence returns a node holding ordered children.
func Sequence(items []Node) Node {
	return Node{kind: KindSequence, items: items}
}

// Cyclic returns a marker node for a revisited value of the named type.
func Cyclic(typeName string) Node {
	return Node{kind: KindCyclic, typeName: typeName}
}

// Truncated returns a marker node for a value beyond the depth ceiling.
func Truncated(typeName string) Node {
	return Node{kind: KindTruncated, typeName: typeName}
}

// Object returns an empty object node. Fields are appended with Set and
// retain insertion order.
func Object() Node {
	return Node{kind: KindObject, fields: make(map[string]Node)}
}

// Set appends or replaces a field on an object node.
// Calling Set on a non-object node panics.
func (n *Node) Set(key string, child Node) {
	if n.kind != KindObject {
		panic("veil: Set on non-object node")
	}
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
}

// Kind returns the node's variant.
func (n Node) Kind() NodeKind { return n.kind }

// Value returns the payload of a scalar or masked node, nil otherwise.
func (n Node) Value() any { return n.value }

// Items returns the children of a sequence node.
func (n Node) Items() []Node { return n.items }

// Keys returns an object node's field names in insertion order.
func (n Node) Keys() []string { return n.keys }

// Field returns the named child of an object node.
func (n Node) Field(key string) (Node, bool) {
	child, ok := n.fields[key]
	return child, ok
}

// TypeName returns the marker type of a cyclic or truncated node.
func (n Node) TypeName() string { return n.typeName }

// RefKey is the key under which cycle and truncation markers render,
// matching the "$ref" convention of reference-tracking serializers.
const RefKey = "$ref"

// Marker returns the rendered marker text of a cyclic or truncated node,
// and the empty string for every other kind.
func (n Node) Marker() string {
	switch n.kind {
	case KindCyclic:
		return n.typeName + "@cyclic"
	case KindTruncated:
		return n.typeName + "@depth"
	default:
		return ""
	}
}

// MarshalJSON renders the node as JSON with object keys in field order.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.kind {
	case KindMasked:
		return json.Marshal(n.value)
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(item)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, key := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			v, err := json.Marshal(n.fields[key])
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case KindCyclic, KindTruncated:
		return json.Marshal(map[string]string{RefKey: n.Marker()})
	default:
		return json.Marshal(n.value)
	}
}
