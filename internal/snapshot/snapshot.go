// Package snapshot loads a resolved CSV file into an immutable tabular
// representation with schema validation.
//
// A loaded Snapshot is never mutated and is discarded after the analytics
// call that requested it; there is no caching across calls. Rows keep file
// order. Partial-data problems (empty or duplicate key values, ragged rows)
// are retained and surfaced as warnings instead of being dropped silently,
// so downstream diff and grouping logic can still account for every row.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// SchemaError reports required columns missing from a loaded file. It names
// every missing column so a caller knows up front which analyses are
// impossible.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// Row is one record of a snapshot, keyed by column name.
type Row map[string]string

// Snapshot is an immutable, ordered view of one dated CSV extract.
type Snapshot struct {
	Path     string
	Columns  []string
	Rows     []Row
	Warnings []string
}

// Get returns the trimmed value of a column, or "" when absent.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Load reads path into a Snapshot, validating that every expected column is
// present. keyField identifies the stable entity key; rows with an empty or
// duplicated key are kept but flagged in Warnings. Pass keyField "" to skip
// key checks (e.g. for auxiliary tables).
func Load(path string, expectedColumns []string, keyField string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows become warnings, not failures

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff") // exports carry a BOM
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	have := make(map[string]int, len(header))
	for i, col := range header {
		if _, dup := have[col]; !dup {
			have[col] = i
		}
	}
	var missing []string
	for _, col := range expectedColumns {
		if _, ok := have[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Path: path, Missing: missing}
	}

	snap := &Snapshot{Path: path, Columns: header}
	seenKeys := make(map[string]int)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil && record == nil {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("row %d: %v; row skipped", line, err))
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		if len(record) != len(header) {
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("row %d: has %d fields, header has %d", line, len(record), len(header)))
		}
		snap.Rows = append(snap.Rows, row)

		if keyField == "" {
			continue
		}
		key := row.Get(keyField)
		switch {
		case key == "":
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("row %d: empty %s", line, keyField))
		case seenKeys[key] > 0:
			if seenKeys[key] == 1 {
				snap.Warnings = append(snap.Warnings, fmt.Sprintf("duplicate %s %q", keyField, key))
			}
			seenKeys[key]++
		default:
			seenKeys[key] = 1
		}
	}
	return snap, nil
}
