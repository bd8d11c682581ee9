package snapshot

import (
	"sync/atomic"

	"github.com/heap-snapshot/pkg/utils"
)

// Optional marks a template entry whose absence is tolerated. When present
// the value is still checked against the wrapped template.
type Optional struct {
	Value any
}

// DefaultMetaTemplate returns the expected shape of snapshot.meta.
func DefaultMetaTemplate() map[string]any {
	nodeTypes := make([]any, 0, len(nodeTypeNames))
	for _, name := range nodeTypeNames {
		nodeTypes = append(nodeTypes, name)
	}
	edgeTypes := make([]any, 0, len(edgeTypeNames))
	for _, name := range edgeTypeNames {
		edgeTypes = append(edgeTypes, name)
	}

	return map[string]any{
		"node_fields": []any{
			"type", "name", "id", "self_size", "edge_count", "trace_node_id",
			Optional{"detachedness"},
		},
		"node_types": []any{
			nodeTypes, "string", "number", "number", "number", "number",
			Optional{"number"},
		},
		"edge_fields": []any{"type", "name_or_index", "to_node"},
		"edge_types":  []any{edgeTypes, "string_or_number", "node"},
		"trace_function_info_fields": Optional{[]any{
			"function_id", "name", "script_name", "script_id", "line", "column",
		}},
		"trace_node_fields": Optional{[]any{
			"id", "function_info_index", "count", "size", "children",
		}},
		"sample_fields":   Optional{[]any{"timestamp_us", "last_assigned_id"}},
		"location_fields": Optional{[]any{"object_index", "script_id", "line", "column"}},
	}
}

// Validator checks documents against the expected meta shape. It owns the
// warn-once latch for drift diagnostics: the first non-conforming meta seen
// by a Validator is logged, later ones are not.
type Validator struct {
	template any
	logger   utils.Logger
	warned   atomic.Bool
}

// NewValidator creates a Validator using DefaultMetaTemplate.
func NewValidator(logger utils.Logger) *Validator {
	return NewValidatorWithTemplate(DefaultMetaTemplate(), logger)
}

// NewValidatorWithTemplate creates a Validator with a custom template.
func NewValidatorWithTemplate(template any, logger utils.Logger) *Validator {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Validator{template: template, logger: logger}
}

// Conforms reports whether meta matches the template. A false result never
// aborts decoding; it only triggers the one-time drift warning.
func (v *Validator) Conforms(meta any) bool {
	if conforms(meta, v.template) {
		return true
	}
	if v.warned.CompareAndSwap(false, true) {
		v.logger.Warn("snapshot meta does not match the expected layout; the heap snapshot format may have changed. Decoding continues with the declared layout.")
	}
	return false
}

// Warned reports whether the drift warning has been emitted.
func (v *Validator) Warned() bool {
	return v.warned.Load()
}

func conforms(actual, template any) bool {
	switch tmpl := template.(type) {
	case Optional:
		return conforms(actual, tmpl.Value)

	case map[string]any:
		obj, ok := asObject(actual)
		if !ok {
			return false
		}
		result := true
		for key, want := range tmpl {
			got, present := obj[key]
			if !present {
				if _, optional := want.(Optional); !optional {
					result = false
				}
				continue
			}
			if !conforms(got, want) {
				result = false
			}
		}
		return result

	case []any:
		arr, ok := asList(actual)
		if !ok {
			return false
		}
		result := true
		for i, want := range tmpl {
			if i >= len(arr) {
				if _, optional := want.(Optional); !optional {
					result = false
				}
				continue
			}
			if !conforms(arr[i], want) {
				result = false
			}
		}
		// Trailing extras are tolerated but count as drift.
		if len(arr) > len(tmpl) {
			result = false
		}
		return result

	default:
		return scalarEqual(template, actual)
	}
}
