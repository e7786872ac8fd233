package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped JSON-lines files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a gzipped seed file and returns its product records.
func (l *fileLoader) Load(ctx context.Context, path string) ([]ProductRecord, error) {
	l.logger.Info().Str("file", path).Msg("loading seed file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer file.Close()

	records, err := decodeRecords(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	l.logger.Info().Str("file", path).Int("count", len(records)).Msg("seed file loaded")
	return records, nil
}

// decodeRecords unwraps the gzip stream and decodes one record per line.
// Blank lines and #-comments are skipped.
func decodeRecords(ctx context.Context, r io.Reader) ([]ProductRecord, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	var records []ProductRecord
	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var record ProductRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("invalid seed record on line %d: %w", lineNo, err)
		}
		if record.Slug == "" || record.Name == "" {
			return nil, fmt.Errorf("seed record on line %d is missing name or slug", lineNo)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan seed file: %w", err)
	}

	return records, nil
}
