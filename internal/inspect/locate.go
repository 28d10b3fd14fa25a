package inspect

import (
	"fmt"

	"github.com/jackwish/onnxcli/internal/onnx"
)

// Target selects which graph collections a lookup runs against.
type Target int

const (
	// TargetNode probes the node list only.
	TargetNode Target = iota
	// TargetTensor probes value-infos, initializers, inputs and outputs,
	// in that priority order.
	TargetTensor
)

// Kind identifies the collection a match came from.
type Kind int

const (
	KindValueInfo Kind = iota
	KindInitializer
	KindInput
	KindOutput
	KindNode
)

// Match pairs a located element with the collection it came from.
// Exactly one of ValueInfo, Initializer and Node is non-nil, determined
// by Kind.
type Match struct {
	Kind        Kind
	ValueInfo   *onnx.ValueInfoProto
	Initializer *onnx.TensorProto
	Node        *onnx.NodeProto
}

// name returns the located element's name.
func (m Match) name() string {
	switch m.Kind {
	case KindInitializer:
		return m.Initializer.Name
	case KindNode:
		return m.Node.Name
	default:
		return m.ValueInfo.Name
	}
}

// collection adapts one ordered graph sequence to the locator. Indices
// are collection-local; there is no unified index space.
type collection struct {
	size int
	at   func(int) Match
}

func valueInfoCollection(kind Kind, vis []onnx.ValueInfoProto) collection {
	return collection{
		size: len(vis),
		at:   func(i int) Match { return Match{Kind: kind, ValueInfo: &vis[i]} },
	}
}

func initializerCollection(ts []onnx.TensorProto) collection {
	return collection{
		size: len(ts),
		at:   func(i int) Match { return Match{Kind: KindInitializer, Initializer: &ts[i]} },
	}
}

func nodeCollection(ns []onnx.NodeProto) collection {
	return collection{
		size: len(ns),
		at:   func(i int) Match { return Match{Kind: KindNode, Node: &ns[i]} },
	}
}

// collections returns the ordered list of collections probed for a
// target. The order is the search and display priority.
func collections(g *onnx.GraphProto, target Target) []collection {
	if target == TargetNode {
		return []collection{nodeCollection(g.Nodes)}
	}
	return []collection{
		valueInfoCollection(KindValueInfo, g.ValueInfos),
		initializerCollection(g.Initializers),
		valueInfoCollection(KindInput, g.Inputs),
		valueInfoCollection(KindOutput, g.Outputs),
	}
}

// LocateIndex returns a match from every relevant collection where idx
// is in range. An index valid in any one collection is a hit; it fails
// with ErrIndexOutOfRange only when idx is out of range everywhere.
func LocateIndex(g *onnx.GraphProto, target Target, idx int) ([]Match, error) {
	var matches []Match
	for _, c := range collections(g, target) {
		if idx >= 0 && idx < c.size {
			matches = append(matches, c.at(idx))
		}
	}
	if len(matches) == 0 {
		if target == TargetNode {
			return nil, fmt.Errorf("%w: index %d, nodes in total %d", ErrIndexOutOfRange, idx, len(g.Nodes))
		}
		return nil, fmt.Errorf("%w: index %d matches no tensor collection", ErrIndexOutOfRange, idx)
	}
	return matches, nil
}

// LocateName returns the first element named name, probing collections
// in priority order. Names are not unique; the first occurrence wins.
func LocateName(g *onnx.GraphProto, target Target, name string) (Match, error) {
	for _, c := range collections(g, target) {
		for i := 0; i < c.size; i++ {
			if m := c.at(i); m.name() == name {
				return m, nil
			}
		}
	}
	return Match{}, fmt.Errorf("%w: %q", ErrNameNotFound, name)
}

// LocateAll returns every element of every relevant collection in
// collection order. For tensors that is all value-infos followed by all
// initializers; inputs and outputs are not listed.
func LocateAll(g *onnx.GraphProto, target Target) []Match {
	var cs []collection
	if target == TargetNode {
		cs = []collection{nodeCollection(g.Nodes)}
	} else {
		cs = []collection{
			valueInfoCollection(KindValueInfo, g.ValueInfos),
			initializerCollection(g.Initializers),
		}
	}
	var matches []Match
	for _, c := range cs {
		for i := 0; i < c.size; i++ {
			matches = append(matches, c.at(i))
		}
	}
	return matches
}
