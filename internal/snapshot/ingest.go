package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ctxCheckInterval is how many array elements the stream normalizer reads
// between context checks.
const ctxCheckInterval = 4096

// normalize turns any accepted input into the generic document tree.
// Numbers from text and streams are decoded as json.Number.
func normalize(ctx context.Context, in Input) (any, error) {
	switch src := in.(type) {
	case DocumentInput:
		return normalizeDocument(src)
	case TextInput:
		return normalizeText(src)
	case StreamInput:
		return normalizeStream(ctx, src)
	case nil:
		return nil, invalidInputf("no snapshot input given")
	default:
		return nil, invalidInputf("unsupported snapshot input %T", in)
	}
}

func normalizeDocument(src DocumentInput) (any, error) {
	if src.Document == nil {
		return nil, invalidInputf("structured snapshot document is nil")
	}
	return src.Document, nil
}

func normalizeText(src TextInput) (any, error) {
	if len(bytes.TrimSpace(src.Data)) == 0 {
		return nil, parseError("empty snapshot text", io.ErrUnexpectedEOF)
	}

	dec := json.NewDecoder(bytes.NewReader(src.Data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, parseError("malformed snapshot text", err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return root, nil
}

// normalizeStream walks the token stream so that the raw text is never
// held in memory as a whole. It yields the same tree as normalizeText.
func normalizeStream(ctx context.Context, src StreamInput) (any, error) {
	if src.Reader == nil {
		return nil, invalidInputf("snapshot stream has no reader")
	}

	dec := json.NewDecoder(src.Reader)
	dec.UseNumber()

	s := &streamDecoder{ctx: ctx, dec: dec}
	root, err := s.value()
	if err != nil {
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return root, nil
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return parseError("malformed snapshot", errors.New("unexpected data after document"))
		}
		return parseError("malformed snapshot", err)
	}
	return nil
}

type streamDecoder struct {
	ctx   context.Context
	dec   *json.Decoder
	reads int
}

// checkContext polls the context on the first element and then once every
// ctxCheckInterval elements.
func (s *streamDecoder) checkContext() error {
	defer func() { s.reads++ }()
	if s.reads%ctxCheckInterval != 0 {
		return nil
	}
	if err := s.ctx.Err(); err != nil {
		return fmt.Errorf("snapshot stream: %w", err)
	}
	return nil
}

func (s *streamDecoder) token() (json.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, parseError("malformed snapshot stream", err)
	}
	return tok, nil
}

func (s *streamDecoder) value() (any, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := make(map[string]any)
		for s.dec.More() {
			if err := s.checkContext(); err != nil {
				return nil, err
			}
			keyTok, err := s.token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, parseError("malformed snapshot stream", fmt.Errorf("object key %v is not a string", keyTok))
			}
			val, err := s.value()
			if err != nil {
				return nil, err
			}
			obj[key] = val
		}
		if _, err := s.token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := make([]any, 0)
		for s.dec.More() {
			if err := s.checkContext(); err != nil {
				return nil, err
			}
			val, err := s.value()
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := s.token(); err != nil {
			return nil, err
		}
		return arr, nil

	default:
		return nil, parseError("malformed snapshot stream", fmt.Errorf("unexpected delimiter %q", delim))
	}
}
