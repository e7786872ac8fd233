package seed

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createSeedFile writes a gzipped JSON-lines seed file with the given raw lines.
func createSeedFile(t *testing.T, filename string, lines []string) string {
	t.Helper()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, filename)

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, line := range lines {
		_, err := gzipWriter.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}

	return path
}

func seedLine(t *testing.T, record ProductRecord) string {
	t.Helper()
	data, err := json.Marshal(record)
	require.NoError(t, err)
	return string(data)
}

func TestFileLoader_Load_Success(t *testing.T) {
	logger := zerolog.Nop()
	loader := NewFileLoader(logger)

	records := []ProductRecord{
		{
			Name:     "Wireless Mouse",
			Slug:     "wireless-mouse",
			Category: CategoryRecord{Name: "Electronics", Slug: "electronics"},
			Price:    29.99,
			Stock:    50,
		},
		{
			Name:     "Mechanical Keyboard",
			Slug:     "mechanical-keyboard",
			Category: CategoryRecord{Name: "Electronics", Slug: "electronics"},
			Price:    119.00,
			Stock:    12,
		},
	}

	lines := []string{
		"# catalogue seed",
		seedLine(t, records[0]),
		"",
		seedLine(t, records[1]),
	}

	path := createSeedFile(t, "products.jsonl.gz", lines)

	loaded, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "wireless-mouse", loaded[0].Slug)
	assert.Equal(t, 119.00, loaded[1].Price)
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	records, err := loader.Load(context.Background(), "/nonexistent/seed.jsonl.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open seed file")
	assert.Nil(t, records)
}

func TestFileLoader_Load_NotGzip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plain.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0644))

	loader := NewFileLoader(zerolog.Nop())

	records, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	assert.Nil(t, records)
}

func TestFileLoader_Load_MalformedRecord(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	path := createSeedFile(t, "bad.jsonl.gz", []string{"{not json"})

	records, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid seed record on line 1")
	assert.Nil(t, records)
}

func TestFileLoader_Load_MissingSlug(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	path := createSeedFile(t, "noslug.jsonl.gz", []string{`{"name":"Widget","price":1}`})

	records, err := loader.Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name or slug")
	assert.Nil(t, records)
}

func TestFileLoader_Load_CancelledContext(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	record := ProductRecord{
		Name:     "Widget",
		Slug:     "widget",
		Category: CategoryRecord{Name: "Misc", Slug: "misc"},
	}
	path := createSeedFile(t, "cancel.jsonl.gz", []string{seedLine(t, record)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, path)
	require.Error(t, err)
}
