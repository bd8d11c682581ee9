package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// snapshotBuilder assembles synthetic snapshot documents. Records are
// appended in the order given, so edges must be added node-major.
type snapshotBuilder struct {
	detachedness bool
	strings      []string
	stringIndex  map[string]int64
	nodes        []int64
	edges        []int64
	nodeCount    int
	edgeCount    int
}

func newSnapshotBuilder(detachedness bool) *snapshotBuilder {
	return &snapshotBuilder{
		detachedness: detachedness,
		stringIndex:  make(map[string]int64),
	}
}

func (b *snapshotBuilder) nodeFieldCount() int {
	if b.detachedness {
		return 7
	}
	return 6
}

func (b *snapshotBuilder) str(s string) int64 {
	if i, ok := b.stringIndex[s]; ok {
		return i
	}
	i := int64(len(b.strings))
	b.strings = append(b.strings, s)
	b.stringIndex[s] = i
	return i
}

// addNode appends a node and returns its record index.
func (b *snapshotBuilder) addNode(typ NodeType, name string, id, selfSize int64, edgeCount int, detached int64) int {
	fields := []int64{int64(typ), b.str(name), id, selfSize, int64(edgeCount), 0}
	if b.detachedness {
		fields = append(fields, detached)
	}
	return b.addRawNode(fields...)
}

func (b *snapshotBuilder) addRawNode(fields ...int64) int {
	b.nodes = append(b.nodes, fields...)
	b.nodeCount++
	return b.nodeCount - 1
}

func (b *snapshotBuilder) addNamedEdge(typ EdgeType, name string, to int) {
	b.addRawEdge(int64(typ), b.str(name), int64(to*b.nodeFieldCount()))
}

func (b *snapshotBuilder) addIndexEdge(typ EdgeType, index int64, to int) {
	b.addRawEdge(int64(typ), index, int64(to*b.nodeFieldCount()))
}

func (b *snapshotBuilder) addRawEdge(typ, nameOrIndex, toOffset int64) {
	b.edges = append(b.edges, typ, nameOrIndex, toOffset)
	b.edgeCount++
}

func (b *snapshotBuilder) meta() map[string]any {
	nodeFields := []any{"type", "name", "id", "self_size", "edge_count", "trace_node_id"}
	nodeTypes := []any{stringsToAny(NodeTypeNames()), "string", "number", "number", "number", "number"}
	if b.detachedness {
		nodeFields = append(nodeFields, "detachedness")
		nodeTypes = append(nodeTypes, "number")
	}
	return map[string]any{
		"node_fields": nodeFields,
		"node_types":  nodeTypes,
		"edge_fields": []any{"type", "name_or_index", "to_node"},
		"edge_types":  []any{stringsToAny(EdgeTypeNames()), "string_or_number", "node"},
	}
}

func (b *snapshotBuilder) document() map[string]any {
	nodes := make([]int64, len(b.nodes))
	copy(nodes, b.nodes)
	edges := make([]int64, len(b.edges))
	copy(edges, b.edges)
	strs := make([]string, len(b.strings))
	copy(strs, b.strings)

	return map[string]any{
		"snapshot": map[string]any{
			"meta":                 b.meta(),
			"node_count":           b.nodeCount,
			"edge_count":           b.edgeCount,
			"trace_function_count": 0,
		},
		"nodes":                nodes,
		"edges":                edges,
		"strings":              strs,
		"trace_function_infos": []any{},
		"trace_tree":           []any{},
		"samples":              []any{},
	}
}

func (b *snapshotBuilder) text(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(b.document())
	require.NoError(t, err)
	return data
}

func stringsToAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func metaOf(doc map[string]any) map[string]any {
	return doc["snapshot"].(map[string]any)["meta"].(map[string]any)
}

func headerOf(doc map[string]any) map[string]any {
	return doc["snapshot"].(map[string]any)
}

// globalAndString is the smallest useful graph: a global object with one
// property edge "x" to a string node.
func globalAndString() *snapshotBuilder {
	b := newSnapshotBuilder(false)
	b.addNode(NodeObject, GlobalObjectName, 1, 10, 1, 0)
	target := b.addNode(NodeString, "hi", 2, 4, 0, 0)
	b.addNamedEdge(EdgeProperty, "x", target)
	return b
}

// mixedGraph has self loops, several incoming edges per node, an element
// edge, two modules and a native node named like a module.
func mixedGraph() *snapshotBuilder {
	b := newSnapshotBuilder(true)
	global := 0
	mod1, mod2, arr, str := 1, 2, 3, 4

	b.addNode(NodeObject, GlobalObjectName, 1, 64, 4, 0)
	b.addNamedEdge(EdgeProperty, "a", mod1)
	b.addNamedEdge(EdgeProperty, "b", mod2)
	b.addNamedEdge(EdgeInternal, "arr", arr)
	b.addNamedEdge(EdgeShortcut, "self", global)

	b.addNode(NodeObject, ModuleObjectName, 3, 32, 1, 0)
	b.addNamedEdge(EdgeContext, "ctx", str)

	b.addNode(NodeObject, ModuleObjectName, 5, 32, 1, 1)
	b.addNamedEdge(EdgeWeak, "weak", str)

	b.addNode(NodeArray, "Array", 7, 16, 2, 0)
	b.addIndexEdge(EdgeElement, 0, str)
	b.addIndexEdge(EdgeHidden, 1, arr)

	b.addNode(NodeString, "text", 9, 8, 0, 0)
	b.addNode(NodeNative, ModuleObjectName, 11, 0, 0, 1)

	return b
}
