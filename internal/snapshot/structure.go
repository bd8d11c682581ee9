package snapshot

// Minimum node fields (type, name, id, self_size, edge_count,
// trace_node_id) and the fixed edge record width.
const (
	minNodeFieldCount = 6
	edgeFieldCount    = 3
)

// Meta is the part of snapshot.meta the decoder consumes.
type Meta struct {
	NodeFields              []string
	NodeTypes               []any
	EdgeFields              []string
	EdgeTypes               []any
	TraceFunctionInfoFields []string
	// Raw is the meta object as found in the document.
	Raw map[string]any
}

// flatDocument is a document that passed every structural assertion, with
// its bulk arrays converted to typed slices.
type flatDocument struct {
	meta               Meta
	nodeCount          int
	edgeCount          int
	traceFunctionCount int
	nodes              []int64
	edges              []int64
	strings            []string
	traceFunctionInfos []any
}

// checkStructure runs the non-negotiable assertions. Any failure is a
// structural validation error and no node or edge is built.
func checkStructure(root any) (*flatDocument, error) {
	doc, ok := asObject(root)
	if !ok {
		return nil, structuralf("document root is not an object")
	}

	header, ok := asObject(doc["snapshot"])
	if !ok {
		return nil, structuralf("snapshot header is missing or not an object")
	}
	rawMeta, ok := asObject(header["meta"])
	if !ok {
		return nil, structuralf("snapshot.meta is missing or not an object")
	}

	for _, key := range []string{"nodes", "edges", "strings", "trace_function_infos"} {
		if !isArray(doc[key]) {
			return nil, structuralf("%s is missing or not an array", key)
		}
	}

	counts := make(map[string]int, 3)
	for _, key := range []string{"node_count", "edge_count", "trace_function_count"} {
		n, ok := asInt(header[key])
		if !ok {
			return nil, structuralf("snapshot.%s is missing or not an integer", key)
		}
		if n < 0 {
			return nil, structuralf("snapshot.%s is negative: %d", key, n)
		}
		counts[key] = int(n)
	}

	meta, err := readMeta(rawMeta)
	if err != nil {
		return nil, err
	}

	if len(meta.NodeFields) != len(meta.NodeTypes) {
		return nil, structuralf("meta.node_fields has %d entries but meta.node_types has %d",
			len(meta.NodeFields), len(meta.NodeTypes))
	}
	if len(meta.EdgeFields) != len(meta.EdgeTypes) {
		return nil, structuralf("meta.edge_fields has %d entries but meta.edge_types has %d",
			len(meta.EdgeFields), len(meta.EdgeTypes))
	}
	if len(meta.NodeFields) < minNodeFieldCount {
		return nil, structuralf("meta.node_fields has %d entries, need at least %d",
			len(meta.NodeFields), minNodeFieldCount)
	}
	if len(meta.EdgeFields) != edgeFieldCount {
		return nil, structuralf("meta.edge_fields has %d entries, need exactly %d",
			len(meta.EdgeFields), edgeFieldCount)
	}

	if err := checkRecordLength("nodes", arrayLen(doc["nodes"]), counts["node_count"], len(meta.NodeFields)); err != nil {
		return nil, err
	}
	if err := checkRecordLength("edges", arrayLen(doc["edges"]), counts["edge_count"], len(meta.EdgeFields)); err != nil {
		return nil, err
	}
	if meta.TraceFunctionInfoFields != nil {
		if err := checkRecordLength("trace_function_infos", arrayLen(doc["trace_function_infos"]),
			counts["trace_function_count"], len(meta.TraceFunctionInfoFields)); err != nil {
			return nil, err
		}
	}

	nodes, bad := toInt64Slice(doc["nodes"])
	if bad >= 0 {
		return nil, structuralf("nodes[%d] is not an integer", bad)
	}
	edges, bad := toInt64Slice(doc["edges"])
	if bad >= 0 {
		return nil, structuralf("edges[%d] is not an integer", bad)
	}
	strs, bad := toStringSlice(doc["strings"])
	if bad >= 0 {
		return nil, structuralf("strings[%d] is not a string", bad)
	}
	traceInfos, _ := asList(doc["trace_function_infos"])

	return &flatDocument{
		meta:               meta,
		nodeCount:          counts["node_count"],
		edgeCount:          counts["edge_count"],
		traceFunctionCount: counts["trace_function_count"],
		nodes:              nodes,
		edges:              edges,
		strings:            strs,
		traceFunctionInfos: traceInfos,
	}, nil
}

func readMeta(raw map[string]any) (Meta, error) {
	meta := Meta{Raw: raw}
	var err error

	if meta.NodeFields, err = readNameList(raw, "node_fields", true); err != nil {
		return Meta{}, err
	}
	if meta.EdgeFields, err = readNameList(raw, "edge_fields", true); err != nil {
		return Meta{}, err
	}
	if meta.TraceFunctionInfoFields, err = readNameList(raw, "trace_function_info_fields", false); err != nil {
		return Meta{}, err
	}

	var ok bool
	if meta.NodeTypes, ok = asList(raw["node_types"]); !ok {
		return Meta{}, structuralf("meta.node_types is missing or not an array")
	}
	if meta.EdgeTypes, ok = asList(raw["edge_types"]); !ok {
		return Meta{}, structuralf("meta.edge_types is missing or not an array")
	}
	return meta, nil
}

func readNameList(raw map[string]any, key string, required bool) ([]string, error) {
	value, present := raw[key]
	if !present && !required {
		return nil, nil
	}
	if !isArray(value) {
		return nil, structuralf("meta.%s is missing or not an array", key)
	}
	names, bad := toStringSlice(value)
	if bad >= 0 {
		return nil, structuralf("meta.%s[%d] is not a string", key, bad)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// checkRecordLength compares by division; count*fields can overflow int.
func checkRecordLength(key string, length, count, fields int) error {
	if fields == 0 {
		if length != 0 {
			return structuralf("%s has %d values but its records have no fields", key, length)
		}
		return nil
	}
	if length%fields != 0 || length/fields != count {
		return structuralf("%s has %d values, expected %d records of %d fields",
			key, length, count, fields)
	}
	return nil
}
