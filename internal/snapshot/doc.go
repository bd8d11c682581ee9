// Package snapshot decodes V8-style heap snapshot documents into a graph of
// nodes and edges.
//
// # Document format
//
// A snapshot stores every node and edge in flat integer arrays. The width
// of a record is declared in snapshot.meta (node_fields, edge_fields) and
// has grown over producer versions; a trailing "detachedness" node field is
// the most common addition. Names are indices into the strings array, and
// an edge's to_node is an offset into the flat node array.
//
// Edges are stored node-major: the first node's edge_count edges come
// first, then the second node's, and so on.
//
// # Pipeline
//
//   - input.go, ingest.go: accepted input shapes and their normalizers
//   - schema.go: drift detection against the expected meta shape
//   - structure.go: fatal structural assertions
//   - layout.go: effective record widths
//   - decode_nodes.go, decode_edges.go: decoding and incoming-edge wiring
//   - graph.go: the resulting Graph with id lookup and anchors
//   - parser.go: orchestration, logging and tracing
//
// # Usage
//
//	parser := snapshot.NewParser(&snapshot.ParserOptions{Logger: logger})
//	g, err := parser.ParseReader(ctx, file)
//	if err != nil {
//	    return err
//	}
//	global, err := g.Global()
//
// Errors are pkg/errors AppErrors; use errors.Is with
// ErrStructuralValidation, ErrReferenceResolution, ErrInvalidInput,
// ErrParseError or ErrNotFound to classify them.
package snapshot
