package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heap-snapshot/internal/snapshot"
	"github.com/heap-snapshot/pkg/utils"
)

// sampleSnapshot has a global object, one module, a detached array and a
// string, linked by four edges.
const sampleSnapshot = `{
  "snapshot": {
    "meta": {
      "node_fields": ["type","name","id","self_size","edge_count","trace_node_id","detachedness"],
      "node_types": [["hidden","array","string","object","code","closure","regexp","number","native","synthetic","concatenated string","sliced string","symbol","bigint"],"string","number","number","number","number","number"],
      "edge_fields": ["type","name_or_index","to_node"],
      "edge_types": [["context","element","property","internal","hidden","shortcut","weak"],"string_or_number","node"]
    },
    "node_count": 4,
    "edge_count": 4,
    "trace_function_count": 0
  },
  "nodes": [
    3,0,1,100,2,0,0,
    3,1,3,50,1,0,0,
    1,2,5,2048,1,0,1,
    2,3,7,20,0,0,0
  ],
  "edges": [
    2,4,7,
    2,5,14,
    2,6,21,
    1,0,21
  ],
  "strings": ["global / ","Module","Array","hello","mod","arr","text"],
  "trace_function_infos": []
}`

func sampleGraph(t *testing.T) *snapshot.Graph {
	t.Helper()
	g, err := snapshot.NewParser(nil).ParseBytes(context.Background(), []byte(sampleSnapshot))
	require.NoError(t, err)
	return g
}

func TestBuild(t *testing.T) {
	s := Build(sampleGraph(t), WithSource("sample.heapsnapshot"))

	assert.Equal(t, "sample.heapsnapshot", s.Source)
	assert.Equal(t, 4, s.NodeCount)
	assert.Equal(t, 4, s.EdgeCount)
	assert.Equal(t, int64(2218), s.TotalSelfSize)
	assert.True(t, s.Detachedness)
	assert.Equal(t, 1, s.DetachedNodes)
	require.NotNil(t, s.GlobalID)
	assert.Equal(t, int64(1), *s.GlobalID)
	assert.Equal(t, 1, s.ModuleCount)

	require.Len(t, s.TopTypes, 3)
	assert.Equal(t, "array", s.TopTypes[0].Type)
	assert.Equal(t, "object", s.TopTypes[1].Type)
	assert.Equal(t, 2, s.TopTypes[1].Count)
	assert.Equal(t, int64(150), s.TopTypes[1].SelfSize)
	assert.Equal(t, "string", s.TopTypes[2].Type)
	assert.InDelta(t, 2048.0/2218*100, s.TopTypes[0].Percent, 0.001)

	assert.Equal(t, []EdgeTypeCount{{Type: "element", Count: 1}, {Type: "property", Count: 3}}, s.EdgeTypes)

	require.Len(t, s.LargestNodes, 4)
	assert.Equal(t, int64(5), s.LargestNodes[0].ID)
	assert.Equal(t, 1, s.LargestNodes[0].InDegree)
	assert.Equal(t, int64(7), s.LargestNodes[3].ID)
	assert.Equal(t, 2, s.LargestNodes[3].InDegree)
}

func TestBuild_TopN(t *testing.T) {
	s := Build(sampleGraph(t), WithTopN(1))
	assert.Len(t, s.TopTypes, 1)
	assert.Len(t, s.LargestNodes, 1)

	s = Build(sampleGraph(t), WithTopN(0))
	assert.Len(t, s.TopTypes, 3)
	assert.Len(t, s.LargestNodes, 4)
}

func TestBuild_NoGlobal(t *testing.T) {
	text := strings.Replace(sampleSnapshot, `"global / "`, `"Window"`, 1)
	g, err := snapshot.NewParser(nil).ParseBytes(context.Background(), []byte(text))
	require.NoError(t, err)

	s := Build(g)
	assert.Nil(t, s.GlobalID)

	var buf bytes.Buffer
	s.Print(utils.NewDefaultLogger(utils.LevelInfo, &buf))
	assert.Contains(t, buf.String(), "(not found)")
}

func TestSummary_Print(t *testing.T) {
	var buf bytes.Buffer
	Build(sampleGraph(t), WithSource("sample")).Print(utils.NewDefaultLogger(utils.LevelInfo, &buf))

	out := buf.String()
	assert.Contains(t, out, "Heap Snapshot Summary")
	assert.Contains(t, out, "Source:          sample")
	assert.Contains(t, out, "Global Object:   @1")
	assert.Contains(t, out, "Detached Nodes:  1")
	assert.Contains(t, out, "2.00 KB")
	assert.Contains(t, out, "referenced by")
	assert.NotContains(t, out, "retained")
}

func TestSummary_WriteJSON(t *testing.T) {
	s := Build(sampleGraph(t))

	var buf bytes.Buffer
	require.NoError(t, s.WriteJSON(&buf))

	var decoded Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *s, decoded)

	t.Run("to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "summary.json")
		require.NoError(t, s.WriteToFile(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, buf.String(), string(data))
	})

	t.Run("bad path", func(t *testing.T) {
		err := s.WriteToFile(filepath.Join(t.TempDir(), "missing", "summary.json"))
		assert.Error(t, err)
	})
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatBytes(tt.bytes))
	}
}
