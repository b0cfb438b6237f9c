package cx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cxtools/cxlayout/pkg/errors"
)

// Well-known aspect names.
const (
	AspectNodes           = "nodes"
	AspectEdges           = "edges"
	AspectCartesianLayout = "cartesianLayout"
)

// Node is an element of the CX nodes aspect.
type Node struct {
	ID         int64  `json:"@id"`
	Name       string `json:"n,omitempty"`
	Represents string `json:"r,omitempty"`
}

// Edge is an element of the CX edges aspect.
type Edge struct {
	ID          int64  `json:"@id"`
	Source      int64  `json:"s"`
	Target      int64  `json:"t"`
	Interaction string `json:"i,omitempty"`
}

// CartesianCoordinate is an element of the cartesianLayout aspect: the
// persisted position of a single node.
type CartesianCoordinate struct {
	Node int64   `json:"node"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Aspect is a single CX fragment: an aspect name with its raw elements.
type Aspect struct {
	Name string
	Data json.RawMessage
}

// Network is an in-memory CX document. Nodes and edges are parsed into typed
// slices; all aspects (including nodes and edges) are retained as ordered raw
// fragments so that serialization round-trips unknown aspects untouched.
type Network struct {
	Nodes   []Node
	Edges   []Edge
	aspects []Aspect
}

// ReadNetwork decodes a CX document from r.
func ReadNetwork(r io.Reader) (*Network, error) {
	var fragments []map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&fragments); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCX, err, "decode CX document")
	}

	net := &Network{}
	for _, frag := range fragments {
		for name, data := range frag {
			net.aspects = append(net.aspects, Aspect{Name: name, Data: data})
			switch name {
			case AspectNodes:
				if err := json.Unmarshal(data, &net.Nodes); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidCX, err, "parse nodes aspect")
				}
			case AspectEdges:
				if err := json.Unmarshal(data, &net.Edges); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidCX, err, "parse edges aspect")
				}
			}
		}
	}
	return net, nil
}

// ReadNetworkFile reads a CX document from a file.
func ReadNetworkFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadNetwork(f)
}

// WriteNetwork encodes the network as a CX document to w, emitting aspect
// fragments in their original order.
func (n *Network) WriteNetwork(w io.Writer) error {
	fragments := make([]map[string]json.RawMessage, len(n.aspects))
	for i, a := range n.aspects {
		fragments[i] = map[string]json.RawMessage{a.Name: a.Data}
	}
	if err := json.NewEncoder(w).Encode(fragments); err != nil {
		return fmt.Errorf("encode CX document: %w", err)
	}
	return nil
}

// WriteNetworkFile writes the network as a CX document to a file.
// The file is created with 0644 permissions.
func (n *Network) WriteNetworkFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return n.WriteNetwork(f)
}

// Aspect returns the raw data of the named aspect and whether it exists.
func (n *Network) Aspect(name string) (json.RawMessage, bool) {
	for _, a := range n.aspects {
		if a.Name == name {
			return a.Data, true
		}
	}
	return nil, false
}

// AspectNames returns the aspect names in document order.
func (n *Network) AspectNames() []string {
	names := make([]string, len(n.aspects))
	for i, a := range n.aspects {
		names[i] = a.Name
	}
	return names
}

// SetAspect replaces the named aspect with the JSON encoding of v, or appends
// a new fragment if the aspect is not present. Document order of existing
// fragments is preserved.
func (n *Network) SetAspect(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal aspect %s: %w", name, err)
	}
	for i, a := range n.aspects {
		if a.Name == name {
			n.aspects[i].Data = data
			return nil
		}
	}
	n.aspects = append(n.aspects, Aspect{Name: name, Data: data})
	return nil
}
