package snapshot

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heap-snapshot/pkg/utils"
)

func TestConforms(t *testing.T) {
	template := map[string]any{
		"fields":   []any{"a", "b", Optional{"c"}},
		"kinds":    []any{[]any{"x", "y"}, "number"},
		"version":  3,
		"extra":    Optional{[]any{"p", "q"}},
		"required": "yes",
	}

	base := func() map[string]any {
		return map[string]any{
			"fields":   []any{"a", "b"},
			"kinds":    []any{[]any{"x", "y"}, "number"},
			"version":  json.Number("3"),
			"required": "yes",
		}
	}

	tests := []struct {
		name   string
		mutate func(m map[string]any)
		want   bool
	}{
		{"exact match", func(map[string]any) {}, true},
		{"optional array element present", func(m map[string]any) { m["fields"] = []any{"a", "b", "c"} }, true},
		{"optional array element wrong", func(m map[string]any) { m["fields"] = []any{"a", "b", "z"} }, false},
		{"trailing extra array element", func(m map[string]any) { m["fields"] = []any{"a", "b", "c", "d"} }, false},
		{"missing required array element", func(m map[string]any) { m["fields"] = []any{"a"} }, false},
		{"optional key present", func(m map[string]any) { m["extra"] = []any{"p", "q"} }, true},
		{"optional key wrong", func(m map[string]any) { m["extra"] = []any{"p"} }, false},
		{"missing required key", func(m map[string]any) { delete(m, "required") }, false},
		{"unknown key ignored", func(m map[string]any) { m["unknown"] = 1 }, true},
		{"nested enumeration differs", func(m map[string]any) { m["kinds"] = []any{[]any{"y", "x"}, "number"} }, false},
		{"native number", func(m map[string]any) { m["version"] = 3 }, true},
		{"number differs", func(m map[string]any) { m["version"] = 4.0 }, false},
		{"string where array expected", func(m map[string]any) { m["fields"] = "a,b" }, false},
		{"typed string slice", func(m map[string]any) { m["fields"] = []string{"a", "b"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := base()
			tt.mutate(meta)
			v := NewValidatorWithTemplate(template, nil)
			assert.Equal(t, tt.want, v.Conforms(meta))
			assert.Equal(t, !tt.want, v.Warned())
		})
	}

	t.Run("non-object meta", func(t *testing.T) {
		v := NewValidatorWithTemplate(template, nil)
		assert.False(t, v.Conforms([]any{"a"}))
	})
}

func TestDefaultMetaTemplate(t *testing.T) {
	v := NewValidator(nil)

	assert.True(t, v.Conforms(newSnapshotBuilder(false).meta()))
	assert.True(t, v.Conforms(newSnapshotBuilder(true).meta()))

	withTrace := newSnapshotBuilder(true).meta()
	withTrace["trace_function_info_fields"] = []any{"function_id", "name", "script_name", "script_id", "line", "column"}
	withTrace["sample_fields"] = []any{"timestamp_us", "last_assigned_id"}
	assert.True(t, v.Conforms(withTrace))
	assert.False(t, v.Warned())

	newType := newSnapshotBuilder(false).meta()
	newType["node_types"].([]any)[0] = append(stringsToAny(NodeTypeNames()), "object shape")
	assert.False(t, v.Conforms(newType))
}

func TestValidator_WarnsOnceConcurrently(t *testing.T) {
	var buf bytes.Buffer
	v := NewValidator(utils.NewDefaultLogger(utils.LevelWarn, &buf))

	drifted := map[string]any{"node_fields": []any{"type"}}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.False(t, v.Conforms(drifted))
		}()
	}
	wg.Wait()

	require.True(t, v.Warned())
	assert.Equal(t, 1, strings.Count(buf.String(), "[WARN]"))
}

func TestResolveLayout(t *testing.T) {
	tests := []struct {
		name         string
		nodeFields   int
		wantDetached bool
	}{
		{"six fields", 6, false},
		{"seven fields", 7, true},
		{"eight fields", 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := Meta{
				NodeFields: make([]string, tt.nodeFields),
				EdgeFields: []string{"type", "name_or_index", "to_node"},
			}
			layout := ResolveLayout(meta)
			assert.Equal(t, tt.nodeFields, layout.NodeFieldCount)
			assert.Equal(t, 3, layout.EdgeFieldCount)
			assert.Equal(t, tt.wantDetached, layout.HasDetachedness())
		})
	}
}
