package snapshot

import "strconv"

// NodeType is the kind of a heap node. The numeric value is the index into
// the node-type enumeration declared in snapshot.meta.node_types[0].
type NodeType uint8

const (
	NodeHidden NodeType = iota
	NodeArray
	NodeString
	NodeObject
	NodeCode
	NodeClosure
	NodeRegExp
	NodeNumber
	NodeNative
	NodeSynthetic
	NodeConcatenatedString
	NodeSlicedString
	NodeSymbol
	NodeBigInt
)

var nodeTypeNames = [...]string{
	NodeHidden:             "hidden",
	NodeArray:              "array",
	NodeString:             "string",
	NodeObject:             "object",
	NodeCode:               "code",
	NodeClosure:            "closure",
	NodeRegExp:             "regexp",
	NodeNumber:             "number",
	NodeNative:             "native",
	NodeSynthetic:          "synthetic",
	NodeConcatenatedString: "concatenated string",
	NodeSlicedString:       "sliced string",
	NodeSymbol:             "symbol",
	NodeBigInt:             "bigint",
}

// String returns the name used for the type in snapshot metadata.
func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "NodeType(" + strconv.Itoa(int(t)) + ")"
}

// NodeTypeNames returns the node-type enumeration in index order.
func NodeTypeNames() []string {
	names := make([]string, len(nodeTypeNames))
	copy(names, nodeTypeNames[:])
	return names
}

func nodeTypeAt(v int64) (NodeType, bool) {
	if v < 0 || v >= int64(len(nodeTypeNames)) {
		return 0, false
	}
	return NodeType(v), true
}

// EdgeType is the kind of a heap edge, indexing meta.edge_types[0].
type EdgeType uint8

const (
	EdgeContext EdgeType = iota
	EdgeElement
	EdgeProperty
	EdgeInternal
	EdgeHidden
	EdgeShortcut
	EdgeWeak
)

var edgeTypeNames = [...]string{
	EdgeContext:  "context",
	EdgeElement:  "element",
	EdgeProperty: "property",
	EdgeInternal: "internal",
	EdgeHidden:   "hidden",
	EdgeShortcut: "shortcut",
	EdgeWeak:     "weak",
}

// String returns the name used for the type in snapshot metadata.
func (t EdgeType) String() string {
	if int(t) < len(edgeTypeNames) {
		return edgeTypeNames[t]
	}
	return "EdgeType(" + strconv.Itoa(int(t)) + ")"
}

// EdgeTypeNames returns the edge-type enumeration in index order.
func EdgeTypeNames() []string {
	names := make([]string, len(edgeTypeNames))
	copy(names, edgeTypeNames[:])
	return names
}

// HasIndexName reports whether edges of this type are named by a numeric
// slot rather than a string-table entry.
func (t EdgeType) HasIndexName() bool {
	return t == EdgeElement || t == EdgeHidden
}

func edgeTypeAt(v int64) (EdgeType, bool) {
	if v < 0 || v >= int64(len(edgeTypeNames)) {
		return 0, false
	}
	return EdgeType(v), true
}

// EdgeName is either a text label or a numeric slot index.
type EdgeName struct {
	text    string
	index   int64
	numeric bool
}

// TextName returns a text edge name.
func TextName(s string) EdgeName {
	return EdgeName{text: s}
}

// IndexName returns a numeric edge name.
func IndexName(i int64) EdgeName {
	return EdgeName{index: i, numeric: true}
}

// IsIndex reports whether the name is a numeric slot index.
func (n EdgeName) IsIndex() bool { return n.numeric }

// Index returns the numeric slot; zero for text names.
func (n EdgeName) Index() int64 { return n.index }

// Text returns the text label; empty for numeric names.
func (n EdgeName) Text() string { return n.text }

// String renders the name; numeric names are rendered in decimal.
func (n EdgeName) String() string {
	if n.numeric {
		return strconv.FormatInt(n.index, 10)
	}
	return n.text
}
