// Package report summarizes a decoded heap snapshot graph.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/heap-snapshot/internal/snapshot"
	"github.com/heap-snapshot/pkg/utils"
)

// DefaultTopN is the number of node types and nodes listed by default.
const DefaultTopN = 15

// Option configures a summary build.
type Option func(*builder)

type builder struct {
	topN   int
	source string
}

// WithTopN sets how many node types and largest nodes are listed.
// Zero or less lists every type.
func WithTopN(n int) Option {
	return func(b *builder) {
		b.topN = n
	}
}

// WithSource records where the snapshot came from.
func WithSource(source string) Option {
	return func(b *builder) {
		b.source = source
	}
}

// TypeEntry aggregates the nodes of one node type.
type TypeEntry struct {
	Type     string  `json:"type"`
	Count    int     `json:"count"`
	SelfSize int64   `json:"self_size"`
	Percent  float64 `json:"percent"`
}

// EdgeTypeCount is the number of edges of one edge type.
type EdgeTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// NodeEntry describes a single large node.
type NodeEntry struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	SelfSize int64  `json:"self_size"`
	InDegree int    `json:"in_degree"`
}

// Summary is the printable and serializable digest of one graph.
type Summary struct {
	Source        string          `json:"source,omitempty"`
	NodeCount     int             `json:"node_count"`
	EdgeCount     int             `json:"edge_count"`
	TotalSelfSize int64           `json:"total_self_size"`
	Detachedness  bool            `json:"detachedness"`
	DetachedNodes int             `json:"detached_nodes"`
	GlobalID      *int64          `json:"global_id,omitempty"`
	ModuleCount   int             `json:"module_count"`
	TopTypes      []TypeEntry     `json:"top_types"`
	EdgeTypes     []EdgeTypeCount `json:"edge_types"`
	LargestNodes  []NodeEntry     `json:"largest_nodes"`
}

// Build computes the summary of g.
func Build(g *snapshot.Graph, opts ...Option) *Summary {
	b := &builder{topN: DefaultTopN}
	for _, opt := range opts {
		opt(b)
	}

	s := &Summary{
		Source:       b.source,
		NodeCount:    g.NodeCount(),
		EdgeCount:    g.EdgeCount(),
		Detachedness: g.HasDetachedness(),
		ModuleCount:  len(g.Modules()),
		TopTypes:     make([]TypeEntry, 0),
		EdgeTypes:    make([]EdgeTypeCount, 0),
		LargestNodes: make([]NodeEntry, 0),
	}

	if global, err := g.Global(); err == nil {
		id := global.ID
		s.GlobalID = &id
	}

	typeCounts := make(map[snapshot.NodeType]*TypeEntry)
	nodes := g.Nodes()
	for i := range nodes {
		n := &nodes[i]
		s.TotalSelfSize += n.SelfSize
		if detached, _ := n.Detached(); detached {
			s.DetachedNodes++
		}

		entry, ok := typeCounts[n.Type]
		if !ok {
			entry = &TypeEntry{Type: n.Type.String()}
			typeCounts[n.Type] = entry
		}
		entry.Count++
		entry.SelfSize += n.SelfSize
	}

	for _, entry := range typeCounts {
		if s.TotalSelfSize > 0 {
			entry.Percent = float64(entry.SelfSize) / float64(s.TotalSelfSize) * 100
		}
		s.TopTypes = append(s.TopTypes, *entry)
	}
	sort.Slice(s.TopTypes, func(i, j int) bool {
		if s.TopTypes[i].SelfSize != s.TopTypes[j].SelfSize {
			return s.TopTypes[i].SelfSize > s.TopTypes[j].SelfSize
		}
		return s.TopTypes[i].Type < s.TopTypes[j].Type
	})
	s.TopTypes = limit(s.TopTypes, b.topN)

	edgeCounts := make([]int, len(snapshot.EdgeTypeNames()))
	for _, e := range g.Edges() {
		edgeCounts[e.Type]++
	}
	for i, name := range snapshot.EdgeTypeNames() {
		if edgeCounts[i] > 0 {
			s.EdgeTypes = append(s.EdgeTypes, EdgeTypeCount{Type: name, Count: edgeCounts[i]})
		}
	}

	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return nodes[order[i]].SelfSize > nodes[order[j]].SelfSize
	})
	for _, idx := range limit(order, b.topN) {
		n := &nodes[idx]
		s.LargestNodes = append(s.LargestNodes, NodeEntry{
			ID:       n.ID,
			Type:     n.Type.String(),
			Name:     n.Name,
			SelfSize: n.SelfSize,
			InDegree: n.InDegree(),
		})
	}

	return s
}

func limit[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}

// Print writes the summary to the logger at INFO level.
func (s *Summary) Print(log utils.Logger) {
	log.Info("=== Heap Snapshot Summary ===")
	if s.Source != "" {
		log.Info("  Source:          %s", s.Source)
	}
	log.Info("  Nodes:           %d", s.NodeCount)
	log.Info("  Edges:           %d", s.EdgeCount)
	log.Info("  Total Self Size: %s (%d bytes)", FormatBytes(s.TotalSelfSize), s.TotalSelfSize)
	if s.GlobalID != nil {
		log.Info("  Global Object:   @%d", *s.GlobalID)
	} else {
		log.Info("  Global Object:   (not found)")
	}
	log.Info("  Modules:         %d", s.ModuleCount)
	if s.Detachedness {
		log.Info("  Detached Nodes:  %d", s.DetachedNodes)
	}
	log.Info("")

	log.Info("=== Top Node Types by Self Size ===")
	for i, entry := range s.TopTypes {
		log.Info("  %2d. %6.2f%%  %-20s Size: %s, Count: %d",
			i+1, entry.Percent, entry.Type, FormatBytes(entry.SelfSize), entry.Count)
	}
	log.Info("")

	log.Info("=== Edges by Type ===")
	for _, entry := range s.EdgeTypes {
		log.Info("  %-10s %d", entry.Type, entry.Count)
	}
	log.Info("")

	log.Info("=== Largest Nodes ===")
	for i, n := range s.LargestNodes {
		log.Info("  %2d. @%-10d %-10s %s  %s, referenced by %d",
			i+1, n.ID, n.Type, truncateString(n.Name, 60), FormatBytes(n.SelfSize), n.InDegree)
	}
}

// WriteJSON writes the summary as indented JSON.
func (s *Summary) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

// WriteToFile writes the summary as indented JSON to a file.
func (s *Summary) WriteToFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := s.WriteJSON(file); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return file.Close()
}

// FormatBytes formats bytes to a human-readable string.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
