package snapshot

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int64
		ok    bool
	}{
		{"json integer", json.Number("42"), 42, true},
		{"json exponent", json.Number("1e3"), 1000, true},
		{"json fraction", json.Number("1.5"), 0, false},
		{"float integral", 7.0, 7, true},
		{"float fraction", 7.25, 0, false},
		{"float NaN", math.NaN(), 0, false},
		{"int", -3, -3, true},
		{"uint8", uint8(200), 200, true},
		{"uint64 overflow", uint64(math.MaxUint64), 0, false},
		{"string", "5", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := asInt(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToInt64Slice(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    []int64
		wantBad int
	}{
		{"generic", []any{json.Number("1"), 2, 3.0}, []int64{1, 2, 3}, -1},
		{"typed ints", []int{4, 5}, []int64{4, 5}, -1},
		{"json numbers", []json.Number{"6", "7"}, []int64{6, 7}, -1},
		{"fraction", []any{1, 2.5}, nil, 1},
		{"string element", []any{"1"}, nil, 0},
		{"not an array", "1,2", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bad := toInt64Slice(tt.value)
			assert.Equal(t, tt.wantBad, bad)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToStringSlice(t *testing.T) {
	got, bad := toStringSlice([]any{"a", "b"})
	assert.Equal(t, -1, bad)
	assert.Equal(t, []string{"a", "b"}, got)

	_, bad = toStringSlice([]any{"a", 1})
	assert.Equal(t, 1, bad)

	_, bad = toStringSlice(map[string]any{})
	assert.Equal(t, 0, bad)
}

func TestArrayHelpers(t *testing.T) {
	assert.True(t, isArray([]any{}))
	assert.True(t, isArray([]int64{1}))
	assert.False(t, isArray("abc"))
	assert.False(t, isArray(nil))

	assert.Equal(t, 3, arrayLen([]float64{1, 2, 3}))
	assert.Equal(t, 0, arrayLen(42))

	list, ok := asList([]string{"x"})
	assert.True(t, ok)
	assert.Equal(t, []any{"x"}, list)

	numbers := []json.Number{"7", "8"}
	assert.True(t, isArray(numbers))
	list, ok = asList(numbers)
	assert.True(t, ok)
	assert.Equal(t, []any{json.Number("7"), json.Number("8")}, list)
}
