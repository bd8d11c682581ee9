package snapshot

import "fmt"

// Node is one decoded heap record. Nodes live in their graph's node arena
// and are never modified after decoding.
type Node struct {
	Type        NodeType
	Name        string
	ID          int64
	SelfSize    int64
	EdgeCount   int
	TraceNodeID int64

	detached    bool
	hasDetached bool

	graph     *Graph
	index     int
	firstEdge int
}

// Index returns the node's position in decode order.
func (n *Node) Index() int {
	return n.index
}

// Detached returns the detachedness flag and whether the document carries it.
func (n *Node) Detached() (detached bool, present bool) {
	return n.detached, n.hasDetached
}

// OutEdges returns the node's outgoing edges in decode order. The slice
// aliases the graph's edge storage and must not be modified.
func (n *Node) OutEdges() []Edge {
	return n.graph.edges[n.firstEdge : n.firstEdge+n.EdgeCount]
}

// InEdges returns the edges pointing at this node in decode order.
func (n *Node) InEdges() []*Edge {
	g := n.graph
	positions := g.inEdges[g.inStart[n.index]:g.inStart[n.index+1]]
	edges := make([]*Edge, len(positions))
	for i, pos := range positions {
		edges[i] = &g.edges[pos]
	}
	return edges
}

// InDegree returns the number of incoming edges without allocating.
func (n *Node) InDegree() int {
	return n.graph.inStart[n.index+1] - n.graph.inStart[n.index]
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %q @%d", n.Type, n.Name, n.ID)
}

// Edge is a directed reference between two nodes of the same graph.
type Edge struct {
	Type EdgeType
	Name EdgeName

	graph *Graph
	index int
	from  int
	to    int
}

// Index returns the edge's position in decode order.
func (e Edge) Index() int {
	return e.index
}

// From returns the origin node.
func (e Edge) From() *Node {
	return &e.graph.nodes[e.from]
}

// To returns the destination node.
func (e Edge) To() *Node {
	return &e.graph.nodes[e.to]
}

func (e Edge) String() string {
	return fmt.Sprintf("%s[%s] @%d -> @%d", e.Type, e.Name, e.From().ID, e.To().ID)
}
