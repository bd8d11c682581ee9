package snapshot

// Node record slots, in the order every producer writes them.
const (
	nodeTypeSlot = iota
	nodeNameSlot
	nodeIDSlot
	nodeSelfSizeSlot
	nodeEdgeCountSlot
	nodeTraceNodeIDSlot
)

// decodeNodes fills g.nodes with exactly count records read from flat.
func decodeNodes(g *Graph, flat []int64, strs []string, layout Layout, count int) error {
	width := layout.NodeFieldCount
	if width <= 0 || count > len(flat)/width {
		return referencef("node array holds %d values, too few for %d records of %d fields",
			len(flat), count, width)
	}
	withDetached := layout.HasDetachedness()

	g.nodes = make([]Node, count)
	for i := 0; i < count; i++ {
		record := flat[i*width : (i+1)*width]

		typ, ok := nodeTypeAt(record[nodeTypeSlot])
		if !ok {
			return referencef("node %d: type index %d outside node-type enumeration of %d",
				i, record[nodeTypeSlot], len(nodeTypeNames))
		}
		name, ok := lookupString(strs, record[nodeNameSlot])
		if !ok {
			return referencef("node %d: name index %d outside string table of %d entries",
				i, record[nodeNameSlot], len(strs))
		}
		edgeCount := record[nodeEdgeCountSlot]
		if edgeCount < 0 {
			return referencef("node %d: negative edge_count %d", i, edgeCount)
		}
		if record[nodeIDSlot] < 0 || record[nodeSelfSizeSlot] < 0 {
			return referencef("node %d: negative id %d or self_size %d",
				i, record[nodeIDSlot], record[nodeSelfSizeSlot])
		}

		n := &g.nodes[i]
		n.Type = typ
		n.Name = name
		n.ID = record[nodeIDSlot]
		n.SelfSize = record[nodeSelfSizeSlot]
		n.EdgeCount = int(edgeCount)
		n.TraceNodeID = record[nodeTraceNodeIDSlot]
		n.graph = g
		n.index = i
		if withDetached {
			n.hasDetached = true
			n.detached = record[detachednessSlot] == 1
		}
	}
	return nil
}

// lookupString resolves a string-table index.
func lookupString(strs []string, index int64) (string, bool) {
	if index < 0 || index >= int64(len(strs)) {
		return "", false
	}
	return strs[index], true
}
