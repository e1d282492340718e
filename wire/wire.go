// Package wire encodes Node trees for the service layer. CBOR is the
// primary format (canonical mode, so equal trees encode to equal bytes);
// JSON is offered for human-driven clients.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/harriet/tree"
)

// cborEncMode uses canonical options for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// wireNode is the serialized shape of a tree.Node. Short CBOR keys keep
// deep trees compact on the wire.
type wireNode struct {
	Name     string     `cbor:"n" json:"name"`
	Value    any        `cbor:"v,omitempty" json:"value,omitempty"`
	Children []wireNode `cbor:"c,omitempty" json:"children,omitempty"`
}

func toWire(n *tree.Node) wireNode {
	w := wireNode{Name: n.Name, Value: n.Value}
	if len(n.Children) > 0 {
		w.Children = make([]wireNode, len(n.Children))
		for i, c := range n.Children {
			w.Children[i] = toWire(c)
		}
	}
	return w
}

func fromWire(w wireNode) *tree.Node {
	n := &tree.Node{Name: w.Name, Value: normalize(w.Value)}
	if len(w.Children) > 0 {
		n.Children = make([]*tree.Node, len(w.Children))
		for i, c := range w.Children {
			n.Children[i] = fromWire(c)
		}
	}
	return n
}

// normalize maps decoder-specific integer types to int64 so values compare
// consistently no matter which format carried them.
func normalize(v any) any {
	switch t := v.(type) {
	case uint64:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		// JSON numbers arrive as float64; keep integral ones as int64.
		if t == float64(int64(t)) {
			return int64(t)
		}
		return t
	default:
		return v
	}
}

// MarshalNode serializes a tree to canonical CBOR bytes.
func MarshalNode(n *tree.Node) ([]byte, error) {
	return cborEncMode.Marshal(toWire(n))
}

// UnmarshalNode deserializes a tree from CBOR bytes.
func UnmarshalNode(data []byte) (*tree.Node, error) {
	var w wireNode
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("wire: unmarshal node: %w", err)
	}
	return fromWire(w), nil
}

// MarshalNodeJSON serializes a tree to JSON bytes.
func MarshalNodeJSON(n *tree.Node) ([]byte, error) {
	return json.Marshal(toWire(n))
}

// UnmarshalNodeJSON deserializes a tree from JSON bytes.
func UnmarshalNodeJSON(data []byte) (*tree.Node, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("wire: unmarshal node: %w", err)
	}
	return fromWire(w), nil
}
