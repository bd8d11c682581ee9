package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/heap-snapshot/internal/snapshot"
	"github.com/heap-snapshot/internal/storage"
	apperrors "github.com/heap-snapshot/pkg/errors"
	"github.com/heap-snapshot/pkg/utils"
)

// snapshotSource opens snapshot names either as local paths or as keys in
// the configured storage.
type snapshotSource struct {
	store storage.Storage
}

func newSnapshotSource(fromStorage bool) (*snapshotSource, error) {
	if !fromStorage {
		return &snapshotSource{}, nil
	}
	store, err := storage.NewStorage(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	return &snapshotSource{store: store}, nil
}

func (s *snapshotSource) open(ctx context.Context, name string) (io.ReadCloser, error) {
	if s.store != nil {
		return s.store.Open(ctx, name)
	}
	file, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "input file not found: %s", name)
		}
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "failed to open input file", err)
	}
	return file, nil
}

func (s *snapshotSource) describe(name string) string {
	if s.store != nil {
		return s.store.GetURL(name)
	}
	return name
}

// parse streams one snapshot through parser.
func (s *snapshotSource) parse(ctx context.Context, parser *snapshot.Parser, name string, log utils.Logger) (*snapshot.Graph, error) {
	r, err := s.open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	log.Debug("Decoding %s", s.describe(name))
	return parser.ParseReader(ctx, r)
}

// summaryFileName maps a snapshot name to its JSON summary file name.
func summaryFileName(name string) string {
	return summaryStem(name) + ".summary.json"
}

func summaryStem(name string) string {
	base := filepath.Base(filepath.FromSlash(name))
	return strings.TrimSuffix(base, ".heapsnapshot")
}

// summaryFileNames returns one distinct summary file name per snapshot.
// Snapshots sharing a base name get -2, -3, ... suffixes in argument order.
func summaryFileNames(names []string) []string {
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		stem := summaryStem(name)
		file := summaryFileName(name)
		for n := 2; used[file]; n++ {
			file = fmt.Sprintf("%s-%d.summary.json", stem, n)
		}
		used[file] = true
		out[i] = file
	}
	return out
}
