package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/heap-snapshot/pkg/errors"
)

func TestInputFrom(t *testing.T) {
	reader := strings.NewReader("{}")

	tests := []struct {
		name  string
		value any
		want  Input
	}{
		{"document", map[string]any{"a": 1}, DocumentInput{Document: map[string]any{"a": 1}}},
		{"string", `{"a":1}`, TextInput{Data: []byte(`{"a":1}`)}},
		{"bytes", []byte(`{}`), TextInput{Data: []byte(`{}`)}},
		{"reader", reader, StreamInput{Reader: reader}},
		{"input passthrough", FromText([]byte("x")), TextInput{Data: []byte("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := InputFrom(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, in)
		})
	}

	for name, value := range map[string]any{
		"nil":     nil,
		"integer": 42,
		"slice":   []any{1, 2},
		"struct":  struct{}{},
	} {
		t.Run("rejects "+name, func(t *testing.T) {
			in, err := InputFrom(value)
			assert.Nil(t, in)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestNormalize_TextAndStreamAgree(t *testing.T) {
	data := mixedGraph().text(t)
	ctx := context.Background()

	fromText, err := normalize(ctx, FromText(data))
	require.NoError(t, err)

	for name, r := range map[string]io.Reader{
		"whole":    bytes.NewReader(data),
		"one byte": iotest.OneByteReader(bytes.NewReader(data)),
		"half":     iotest.HalfReader(bytes.NewReader(data)),
	} {
		t.Run(name, func(t *testing.T) {
			fromStream, err := normalize(ctx, FromReader(r))
			require.NoError(t, err)
			assert.Equal(t, fromText, fromStream)
		})
	}

	root := fromText.(map[string]any)
	header := root["snapshot"].(map[string]any)
	assert.Equal(t, json.Number("6"), header["node_count"])
	assert.IsType(t, []any{}, root["nodes"])
}

func TestNormalize_Stream(t *testing.T) {
	ctx := context.Background()

	t.Run("nested values", func(t *testing.T) {
		got, err := normalize(ctx, FromReader(strings.NewReader(`{"a":[1,"two",true,null,{"b":[]}],"c":{}}`)))
		require.NoError(t, err)
		want := map[string]any{
			"a": []any{json.Number("1"), "two", true, nil, map[string]any{"b": []any{}}},
			"c": map[string]any{},
		}
		assert.Equal(t, want, got)
	})

	t.Run("large array crosses context checks", func(t *testing.T) {
		var sb strings.Builder
		sb.WriteString("[")
		for i := 0; i < 3*ctxCheckInterval; i++ {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("1")
		}
		sb.WriteString("]")

		got, err := normalize(ctx, FromReader(strings.NewReader(sb.String())))
		require.NoError(t, err)
		assert.Len(t, got, 3*ctxCheckInterval)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := normalize(cancelled, FromReader(strings.NewReader(`{"a":1}`)))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("nil reader", func(t *testing.T) {
		_, err := normalize(ctx, StreamInput{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("reader error", func(t *testing.T) {
		_, err := normalize(ctx, FromReader(iotest.ErrReader(io.ErrClosedPipe)))
		assert.ErrorIs(t, err, apperrors.ErrParseError)
		assert.ErrorIs(t, err, io.ErrClosedPipe)
	})
}

func TestNormalize_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"whitespace":     "  \n",
		"truncated":      `{"snapshot": {"meta": `,
		"trailing data":  `{} {}`,
		"bad token":      `{"a": tru}`,
		"unclosed array": `[1, 2`,
	}

	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := normalize(context.Background(), FromString(text))
			assert.ErrorIs(t, err, apperrors.ErrParseError, "text")

			_, err = normalize(context.Background(), FromReader(strings.NewReader(text)))
			assert.ErrorIs(t, err, apperrors.ErrParseError, "stream")
		})
	}
}

func TestNormalize_Document(t *testing.T) {
	doc := map[string]any{"snapshot": map[string]any{}}

	got, err := normalize(context.Background(), FromDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	_, err = normalize(context.Background(), DocumentInput{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
