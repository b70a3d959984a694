// ABOUTME: Reads the plain-text documents an advisor uploads for client extraction
// ABOUTME: Enforces the three-file limit and the .txt-only rule before reading anything
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// MaxDocuments is the most files one extraction accepts.
const MaxDocuments = 3

var (
	ErrNoDocuments         = errors.New("no documents given")
	ErrTooManyDocuments    = fmt.Errorf("at most %d documents can be imported at once", MaxDocuments)
	ErrUnsupportedDocument = errors.New("only .txt documents are supported")
)

// ReadDocuments returns the full contents of each path, in order.
func ReadDocuments(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}
	if len(paths) > MaxDocuments {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyDocuments, len(paths))
	}
	for _, p := range paths {
		if !strings.EqualFold(filepath.Ext(p), ".txt") {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, filepath.Base(p))
		}
	}

	docs := make([]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", p, err)
			}
			docs[i] = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
