package snapshot

import (
	"io"
)

// Input is one of the accepted document shapes: DocumentInput, TextInput
// or StreamInput. The set is closed.
type Input interface {
	inputShape() string
}

// DocumentInput is an already-structured document, as produced by a
// generic JSON decoder.
type DocumentInput struct {
	Document map[string]any
}

// TextInput is the serialized text of a document.
type TextInput struct {
	Data []byte
}

// StreamInput is a source that yields the serialized document
// incrementally. It is consumed progressively and never buffered whole.
type StreamInput struct {
	Reader io.Reader
}

func (DocumentInput) inputShape() string { return "document" }
func (TextInput) inputShape() string     { return "text" }
func (StreamInput) inputShape() string   { return "stream" }

// FromDocument wraps an already-structured document.
func FromDocument(doc map[string]any) Input {
	return DocumentInput{Document: doc}
}

// FromText wraps serialized bytes.
func FromText(data []byte) Input {
	return TextInput{Data: data}
}

// FromString wraps a serialized string.
func FromString(s string) Input {
	return TextInput{Data: []byte(s)}
}

// FromReader wraps an incremental source.
func FromReader(r io.Reader) Input {
	return StreamInput{Reader: r}
}

// InputFrom resolves a dynamically typed value into an Input. Maps are
// documents, strings and byte slices are text, readers are streams.
// Anything else is rejected.
func InputFrom(v any) (Input, error) {
	switch x := v.(type) {
	case Input:
		return x, nil
	case map[string]any:
		return FromDocument(x), nil
	case string:
		return FromString(x), nil
	case []byte:
		return FromText(x), nil
	case io.Reader:
		return FromReader(x), nil
	case nil:
		return nil, invalidInputf("no snapshot input given")
	default:
		return nil, invalidInputf("unsupported snapshot input of type %T: want a document map, text or reader", v)
	}
}
