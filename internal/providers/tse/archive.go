package tse

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/openpolitica/politician-indexer/internal/adapter"
	"github.com/openpolitica/politician-indexer/internal/logger"
	"github.com/openpolitica/politician-indexer/internal/ratelimit"
)

// Row is one delimiter-separated record addressed by column header
type Row struct {
	header map[string]int
	fields []string
}

// Get returns the named column's value, or "" when the column is absent.
// TSE wraps values in "#NULO#" markers for missing data.
func (r Row) Get(column string) string {
	idx, ok := r.header[column]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	value := strings.TrimSpace(r.fields[idx])
	if value == "#NULO#" || value == "#NE#" {
		return ""
	}
	return value
}

// RowHandler consumes one parsed row. Returning an error aborts the scan.
type RowHandler func(entryName string, row Row) error

// ArchiveReader streams delimiter-separated rows out of remote dataset
// archives
//
//go:generate mockgen -source=archive.go -destination=../../mocks/tse_archive.go -package=mocks -mock_names=ArchiveReader=MockArchiveReader
type ArchiveReader interface {
	// ScanRows downloads the archive at url and invokes handler for every
	// row of every CSV entry accepted by entryFilter. Rows that fail to
	// parse are skipped and counted, never fatal.
	ScanRows(ctx context.Context, url string, entryFilter func(name string) bool, handler RowHandler) error
}

type archiveReader struct {
	httpClient adapter.HTTPClient
	fs         adapter.FileSystem
	limiter    ratelimit.Limiter
	clock      adapter.Clock
}

// NewArchiveReader creates a new archive reader. Downloads pass through the
// rate limiter.
func NewArchiveReader(httpClient adapter.HTTPClient, fs adapter.FileSystem, limiter ratelimit.Limiter, clock adapter.Clock) ArchiveReader {
	return &archiveReader{
		httpClient: httpClient,
		fs:         fs,
		limiter:    limiter,
		clock:      clock,
	}
}

// ScanRows downloads the archive and streams rows to the handler
func (a *archiveReader) ScanRows(ctx context.Context, url string, entryFilter func(name string) bool, handler RowHandler) error {
	path, err := a.download(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.fs.Remove(path); err != nil {
			logger.Warn("failed to remove archive temp file", zap.Error(err), zap.String("path", path))
		}
	}()

	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if err := zr.Close(); err != nil {
			logger.Warn("failed to close archive", zap.Error(err))
		}
	}()

	for _, entry := range zr.File {
		name := entry.Name
		if !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		if entryFilter != nil && !entryFilter(name) {
			continue
		}

		if err := a.scanEntry(ctx, entry, handler); err != nil {
			return fmt.Errorf("failed scanning entry %s: %w", name, err)
		}
	}

	return nil
}

// download fetches the archive to a temp file; zip needs random access
func (a *archiveReader) download(ctx context.Context, url string) (string, error) {
	resp, err := ratelimit.Do(ctx, a.limiter, a.clock, Source, func(ctx context.Context) (*http.Response, error) {
		return a.httpClient.GetResponse(ctx, url)
	})
	if err != nil {
		return "", fmt.Errorf("failed to download archive: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", zap.Error(err), zap.String("url", url))
		}
	}()

	file, err := a.fs.CreateTemp("tse-archive-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	written, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()

	if copyErr != nil {
		_ = a.fs.Remove(file.Name())
		return "", fmt.Errorf("failed to write archive: %w", copyErr)
	}
	if closeErr != nil {
		_ = a.fs.Remove(file.Name())
		return "", fmt.Errorf("failed to close archive file: %w", closeErr)
	}

	logger.DebugCtx(ctx, "Downloaded dataset archive",
		zap.String("url", url),
		zap.Int64("bytes", written),
	)

	return file.Name(), nil
}

// scanEntry decodes one CSV entry (ISO-8859-1, semicolon-delimited) and
// feeds its rows to the handler
func (a *archiveReader) scanEntry(ctx context.Context, entry *zip.File, handler RowHandler) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry: %w", err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			logger.Warn("failed to close archive entry", zap.Error(err), zap.String("entry", entry.Name))
		}
	}()

	// Legacy fixed text encoding used by every TSE export
	decoded := charmap.ISO8859_1.NewDecoder().Reader(rc)

	reader := csv.NewReader(decoded)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	headerFields, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty entry
		}
		return fmt.Errorf("failed to read header: %w", err)
	}

	header := make(map[string]int, len(headerFields))
	for i, h := range headerFields {
		header[strings.TrimSpace(strings.Trim(h, `"`))] = i
	}

	var skipped int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed row: drop it, never fail the entry
			skipped++
			continue
		}

		if err := handler(entry.Name, Row{header: header, fields: fields}); err != nil {
			return err
		}
	}

	if skipped > 0 {
		logger.WarnCtx(ctx, "Skipped malformed archive rows",
			zap.String("entry", entry.Name),
			zap.Int("skipped", skipped),
		)
	}

	return nil
}
