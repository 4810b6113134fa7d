// Package export serializes system log records to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fixora/backoffice/internal/domain"
)

const (
	// ContentType is the MIME type of an export
	ContentType = "text/csv"

	DefaultChunkSize = 1000

	timestampLayout = "2006-01-02 15:04:05"
	filenameLayout  = "2006-01-02-15-04"
)

// Column maps one CSV column to a record accessor
type Column struct {
	Key    string
	Header string
	Value  func(domain.LogRecord) string
}

// DefaultColumns returns the columns of a full export in display order
func DefaultColumns() []Column {
	return []Column{
		{Key: "timestamp", Header: "Timestamp", Value: func(r domain.LogRecord) string { return r.Timestamp.Format(timestampLayout) }},
		{Key: "user", Header: "User", Value: func(r domain.LogRecord) string { return r.UserName }},
		{Key: "role", Header: "Role", Value: func(r domain.LogRecord) string { return r.UserRole }},
		{Key: "action", Header: "Action", Value: func(r domain.LogRecord) string { return r.Action }},
		{Key: "category", Header: "Category", Value: func(r domain.LogRecord) string { return string(r.Category) }},
		{Key: "severity", Header: "Severity", Value: func(r domain.LogRecord) string { return string(r.Severity) }},
		{Key: "status", Header: "Status", Value: func(r domain.LogRecord) string { return string(r.Status) }},
		{Key: "description", Header: "Description", Value: func(r domain.LogRecord) string { return r.Description }},
		{Key: "ip_address", Header: "IP Address", Value: func(r domain.LogRecord) string { return r.Details.IPAddress }},
		{Key: "location", Header: "Location", Value: func(r domain.LogRecord) string { return r.Details.Location }},
		{Key: "affected_records", Header: "Affected Records", Value: func(r domain.LogRecord) string { return strconv.Itoa(r.Details.AffectedRecords) }},
	}
}

// defaultKeys are exported when the caller does not choose columns
var defaultKeys = []string{"timestamp", "user", "role", "action", "category", "severity", "status", "description", "ip_address"}

// SelectColumns returns the columns named by keys, in the order given.
// No keys selects the standard export columns.
func SelectColumns(keys []string) ([]Column, error) {
	if len(keys) == 0 {
		keys = defaultKeys
	}

	byKey := make(map[string]Column)
	for _, c := range DefaultColumns() {
		byKey[c.Key] = c
	}

	cols := make([]Column, 0, len(keys))
	for _, k := range keys {
		c, ok := byKey[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidColumn, k)
		}
		cols = append(cols, c)
	}

	return cols, nil
}

// Exporter writes records as CSV in bounded chunks
type Exporter struct {
	ChunkSize int
}

// NewExporter creates an exporter. Non-positive chunk sizes use the default.
func NewExporter(chunkSize int) *Exporter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Exporter{ChunkSize: chunkSize}
}

// Write emits a header row followed by one row per record. Records are
// serialized ChunkSize at a time and the writer is flushed after every
// chunk. It returns the number of data rows written.
func (e *Exporter) Write(w io.Writer, records []domain.LogRecord, columns []Column) (int, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("%w: no columns selected", domain.ErrInvalidColumn)
	}

	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Header
	}
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	size := e.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	written := 0
	row := make([]string, len(columns))
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))

		for _, r := range records[start:end] {
			for i, c := range columns {
				row[i] = c.Value(r)
			}
			if err := cw.Write(row); err != nil {
				return written, fmt.Errorf("failed to write row %d: %w", written+1, err)
			}
			written++
		}

		cw.Flush()
		if err := cw.Error(); err != nil {
			return written, fmt.Errorf("failed to flush chunk at row %d: %w", start, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("failed to flush export: %w", err)
	}

	return written, nil
}

// Filename returns the download name for an export taken at now
func Filename(now time.Time) string {
	return "system-logs-" + now.Format(filenameLayout) + ".csv"
}
