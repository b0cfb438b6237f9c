package cx

// Graph is a structural-only view of a [Network]: node identities and edges,
// no aspects. It exists solely as input to layout algorithms and is built
// fresh for each run.
type Graph struct {
	nodes []int64
	names map[int64]string
	edges [][2]int64
}

// NewGraph derives a structural graph from a network. Node order follows the
// network's nodes aspect, which keeps layout output deterministic for a given
// document and seed.
func NewGraph(net *Network) *Graph {
	g := &Graph{
		nodes: make([]int64, 0, len(net.Nodes)),
		names: make(map[int64]string, len(net.Nodes)),
		edges: make([][2]int64, 0, len(net.Edges)),
	}
	for _, n := range net.Nodes {
		g.nodes = append(g.nodes, n.ID)
		g.names[n.ID] = n.Name
	}
	for _, e := range net.Edges {
		g.edges = append(g.edges, [2]int64{e.Source, e.Target})
	}
	return g
}

// Nodes returns node IDs in document order.
func (g *Graph) Nodes() []int64 { return g.nodes }

// Edges returns source/target ID pairs in document order.
func (g *Graph) Edges() [][2]int64 { return g.edges }

// Name returns the display name of a node, or empty if unknown.
func (g *Graph) Name(id int64) string { return g.names[id] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
