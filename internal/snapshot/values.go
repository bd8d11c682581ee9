package snapshot

import (
	"encoding/json"
	"math"
	"strconv"
)

// Helpers for reading the generic JSON tree. Documents decoded from text
// carry json.Number; documents built in Go may carry native numbers and
// typed slices, so every reader accepts both.

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// asInt converts an integral number of any representation.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(n)
	case float32:
		return floatToInt(float64(n))
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt(n)
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func uintToInt(u uint64) (int64, bool) {
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

// asList returns an array value as []any. Typed slices are copied.
func asList(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []int64:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []float64:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []json.Number:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	default:
		return nil, false
	}
}

// isArray reports whether v is array-shaped without copying it.
func isArray(v any) bool {
	switch v.(type) {
	case []any, []string, []int64, []int, []float64, []json.Number:
		return true
	default:
		return false
	}
}

// arrayLen returns the length of an array-shaped value.
func arrayLen(v any) int {
	switch s := v.(type) {
	case []any:
		return len(s)
	case []string:
		return len(s)
	case []int64:
		return len(s)
	case []int:
		return len(s)
	case []float64:
		return len(s)
	case []json.Number:
		return len(s)
	default:
		return 0
	}
}

// toInt64Slice converts a numeric array. The second result is the position
// of the first non-integer element, or -1.
func toInt64Slice(v any) ([]int64, int) {
	switch s := v.(type) {
	case []int64:
		return s, -1
	case []int:
		out := make([]int64, len(s))
		for i, x := range s {
			out[i] = int64(x)
		}
		return out, -1
	case []float64:
		out := make([]int64, len(s))
		for i, x := range s {
			n, ok := floatToInt(x)
			if !ok {
				return nil, i
			}
			out[i] = n
		}
		return out, -1
	case []json.Number:
		out := make([]int64, len(s))
		for i, x := range s {
			n, ok := asInt(x)
			if !ok {
				return nil, i
			}
			out[i] = n
		}
		return out, -1
	case []any:
		out := make([]int64, len(s))
		for i, x := range s {
			n, ok := asInt(x)
			if !ok {
				return nil, i
			}
			out[i] = n
		}
		return out, -1
	default:
		return nil, 0
	}
}

// toStringSlice converts a string array. The second result is the position
// of the first non-string element, or -1.
func toStringSlice(v any) ([]string, int) {
	switch s := v.(type) {
	case []string:
		return s, -1
	case []any:
		out := make([]string, len(s))
		for i, x := range s {
			str, ok := x.(string)
			if !ok {
				return nil, i
			}
			out[i] = str
		}
		return out, -1
	default:
		return nil, 0
	}
}

// scalarEqual compares two JSON scalars, treating numbers by value.
func scalarEqual(a, b any) bool {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	if ai, ok := asInt(a); ok {
		bi, ok := asInt(b)
		return ok && ai == bi
	}
	return a == b
}
