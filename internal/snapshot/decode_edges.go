package snapshot

// Edge record slots.
const (
	edgeTypeSlot = iota
	edgeNameSlot
	edgeToNodeSlot
)

// decodeEdges consumes the flat edge array node-major: each node, in decode
// order, owns the next EdgeCount records. The array must be used up exactly.
// On success every edge is reachable from its origin's out-list and its
// destination's in-list.
func decodeEdges(g *Graph, flat []int64, strs []string, layout Layout) error {
	width := layout.EdgeFieldCount
	if width != edgeFieldCount {
		return referencef("edge records have %d fields, decoder reads %d", width, edgeFieldCount)
	}
	nodeWidth := int64(layout.NodeFieldCount)
	if nodeWidth < minNodeFieldCount {
		return referencef("node records have %d fields, need at least %d", nodeWidth, minNodeFieldCount)
	}
	nodeCount := int64(len(g.nodes))

	g.edges = make([]Edge, 0, len(flat)/width)
	pos := 0
	for i := range g.nodes {
		n := &g.nodes[i]
		n.firstEdge = len(g.edges)

		for k := 0; k < n.EdgeCount; k++ {
			if pos+width > len(flat) {
				return referencef("edge array exhausted at node %d (id %d): edge %d of %d declared",
					i, n.ID, k+1, n.EdgeCount)
			}
			record := flat[pos : pos+width]
			pos += width

			typ, ok := edgeTypeAt(record[edgeTypeSlot])
			if !ok {
				return referencef("edge %d: type index %d outside edge-type enumeration of %d",
					len(g.edges), record[edgeTypeSlot], len(edgeTypeNames))
			}

			var name EdgeName
			if typ.HasIndexName() {
				name = IndexName(record[edgeNameSlot])
			} else {
				text, ok := lookupString(strs, record[edgeNameSlot])
				if !ok {
					return referencef("edge %d: name index %d outside string table of %d entries",
						len(g.edges), record[edgeNameSlot], len(strs))
				}
				name = TextName(text)
			}

			// to_node is an offset into the flat node array, not a record index.
			offset := record[edgeToNodeSlot]
			if offset < 0 || offset%nodeWidth != 0 || offset/nodeWidth >= nodeCount {
				return referencef("edge %d: to_node offset %d does not address a node record",
					len(g.edges), offset)
			}

			g.edges = append(g.edges, Edge{
				Type:  typ,
				Name:  name,
				graph: g,
				index: len(g.edges),
				from:  i,
				to:    int(offset / nodeWidth),
			})
		}
	}

	if pos != len(flat) {
		return referencef("edge array has %d values left after all declared edges were read",
			len(flat)-pos)
	}

	wireIncoming(g)
	return nil
}

// wireIncoming builds the per-node incoming index as one contiguous array.
// Edges are bucketed by destination in decode order, so each node's
// incoming list keeps encounter order.
func wireIncoming(g *Graph) {
	g.inStart = make([]int, len(g.nodes)+1)
	for i := range g.edges {
		g.inStart[g.edges[i].to+1]++
	}
	for i := 1; i < len(g.inStart); i++ {
		g.inStart[i] += g.inStart[i-1]
	}

	g.inEdges = make([]int, len(g.edges))
	next := make([]int, len(g.nodes))
	copy(next, g.inStart[:len(g.nodes)])
	for i := range g.edges {
		to := g.edges[i].to
		g.inEdges[next[to]] = i
		next[to]++
	}
}
