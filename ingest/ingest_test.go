// ABOUTME: Tests for document ingestion limits and ordering
package ingest

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocs(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte("contents of "+name), 0600))
	}
	return paths
}

func TestReadDocumentsKeepsOrder(t *testing.T) {
	paths := writeDocs(t, "statement.txt", "notes.TXT", "letter.txt")

	docs, err := ReadDocuments(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, []string{"contents of statement.txt", "contents of notes.TXT", "contents of letter.txt"}, docs)
}

func TestReadDocumentsLimits(t *testing.T) {
	_, err := ReadDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDocuments)

	_, err = ReadDocuments(context.Background(), writeDocs(t, "a.txt", "b.txt", "c.txt", "d.txt"))
	assert.ErrorIs(t, err, ErrTooManyDocuments)
}

func TestReadDocumentsRejectsNonText(t *testing.T) {
	paths := writeDocs(t, "ok.txt", "scan.pdf")

	_, err := ReadDocuments(context.Background(), paths)
	assert.ErrorIs(t, err, ErrUnsupportedDocument)
	assert.Contains(t, err.Error(), "scan.pdf")
}

func TestReadDocumentsMissingFile(t *testing.T) {
	paths := writeDocs(t, "here.txt")
	paths = append(paths, filepath.Join(t.TempDir(), "gone.txt"))

	_, err := ReadDocuments(context.Background(), paths)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadDocumentsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadDocuments(ctx, writeDocs(t, "a.txt"))
	assert.ErrorIs(t, err, context.Canceled)
}
