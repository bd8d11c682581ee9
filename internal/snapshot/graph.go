package snapshot

import "sync"

// Names that identify well-known anchors.
const (
	GlobalObjectName = "global / "
	ModuleObjectName = "Module"
)

// Graph owns every node and edge decoded from one snapshot. It is immutable
// once returned by the parser and safe for concurrent readers.
type Graph struct {
	nodes []Node
	edges []Edge

	// inEdges lists edge positions grouped by destination node;
	// node i's incoming edges are inEdges[inStart[i]:inStart[i+1]].
	inStart []int
	inEdges []int

	byID          map[int64]int
	detachedness  bool
	strings       []string
	traceFunction []any

	globalOnce sync.Once
	global     *Node
	globalErr  error

	modulesOnce sync.Once
	modules     []*Node
}

// buildIndex creates the id lookup. Ids must be unique within a graph.
func (g *Graph) buildIndex() error {
	g.byID = make(map[int64]int, len(g.nodes))
	for i := range g.nodes {
		id := g.nodes[i].ID
		if prev, dup := g.byID[id]; dup {
			return referencef("node id %d is used by nodes %d and %d", id, prev, i)
		}
		g.byID[id] = i
	}
	return nil
}

// Nodes returns all nodes in decode order. The slice must not be modified.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns all edges in decode order. The slice must not be modified.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// HasDetachedness reports whether the document carried the detachedness field.
func (g *Graph) HasDetachedness() bool {
	return g.detachedness
}

// Strings returns the document's string table.
func (g *Graph) Strings() []string {
	return g.strings
}

// TraceFunctionInfos returns the trace_function_infos array untouched.
func (g *Graph) TraceFunctionInfos() []any {
	return g.traceFunction
}

// Node looks up a node by id.
func (g *Graph) Node(id int64) (*Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// NodeAt returns the node at a decode-order position.
func (g *Graph) NodeAt(index int) (*Node, bool) {
	if index < 0 || index >= len(g.nodes) {
		return nil, false
	}
	return &g.nodes[index], true
}

// Global returns the realm's global object. It is located on first call;
// the result, including a not-found error, is cached.
func (g *Graph) Global() (*Node, error) {
	g.globalOnce.Do(func() {
		for i := range g.nodes {
			if g.nodes[i].Name == GlobalObjectName {
				g.global = &g.nodes[i]
				return
			}
		}
		g.globalErr = notFoundf("no node named %q in snapshot", GlobalObjectName)
	})
	return g.global, g.globalErr
}

// Modules returns every object node representing a loaded module, in
// decode order. The slice is computed once and shared between callers.
func (g *Graph) Modules() []*Node {
	g.modulesOnce.Do(func() {
		g.modules = []*Node{}
		for i := range g.nodes {
			n := &g.nodes[i]
			if n.Type == NodeObject && n.Name == ModuleObjectName {
				g.modules = append(g.modules, n)
			}
		}
	})
	return g.modules
}
