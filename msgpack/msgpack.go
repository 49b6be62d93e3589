// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/zoobzio/veil"
)

// msgpackCodec implements veil.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() veil.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack. Masked trees are encoded node by node
// so map keys keep field declaration order.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	node, ok := v.(veil.Node)
	if !ok {
		return msgpack.Marshal(v)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeNode(enc, node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeNode writes one masked tree node to the encoder.
func encodeNode(enc *msgpack.Encoder, n veil.Node) error {
	switch n.Kind() {
	case veil.KindMasked:
		return enc.Encode(n.Value())

	case veil.KindSequence:
		items := n.Items()
		if err := enc.EncodeArrayLen(len(items)); err != nil {
			return err
		}
		for _, item := range items {
			if err := encodeNode(enc, item); err != nil {
				return err
			}
		}
		return nil

	case veil.KindObject:
		keys := n.Keys()
		if err := enc.EncodeMapLen(len(keys)); err != nil {
			return err
		}
		for _, key := range keys {
			if err := enc.EncodeString(key); err != nil {
				return err
			}
			child, _ := n.Field(key)
			if err := encodeNode(enc, child); err != nil {
				return err
			}
		}
		return nil

	case veil.KindCyclic, veil.KindTruncated:
		if err := enc.EncodeMapLen(1); err != nil {
			return err
		}
		if err := enc.EncodeString(veil.RefKey); err != nil {
			return err
		}
		return enc.EncodeString(n.Marker())

	default:
		return enc.Encode(n.Value())
	}
}
