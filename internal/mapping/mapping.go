// Package mapping resolves payer account IDs to customer display names from
// an operator-maintained CSV table.
//
// The table is optional enrichment: a missing or empty table degrades every
// lookup to the raw ID, never to an error.
package mapping

import (
	"errors"
	"io/fs"
	"strings"

	"snapshot-analyzer/internal/snapshot"
)

// Table column names.
const (
	ColPayerID      = "Payer ID"
	ColCustomerName = "Customer Name"
)

var tableColumns = []string{ColPayerID, ColCustomerName}

// Table maps payer IDs to customer display names.
type Table map[string]string

// Load reads the mapping table at path. A nonexistent path yields an empty
// table; a present but malformed table is an error so a typo in the
// configured path is not silently mistaken for "no mapping".
func Load(path string) (Table, error) {
	if path == "" {
		return Table{}, nil
	}
	snap, err := snapshot.Load(path, tableColumns, ColPayerID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Table{}, nil
		}
		return nil, err
	}
	table := make(Table, len(snap.Rows))
	for _, row := range snap.Rows {
		id := row.Get(ColPayerID)
		if id == "" {
			continue
		}
		if _, dup := table[id]; dup {
			continue
		}
		table[id] = cleanName(row.Get(ColCustomerName))
	}
	return table, nil
}

// DisplayName returns the customer name for a payer ID, falling back to the
// raw ID when unmapped.
func (t Table) DisplayName(payerID string) string {
	if name, ok := t[payerID]; ok && name != "" {
		return name
	}
	return payerID
}

// cleanName collapses embedded line breaks, which spreadsheet exports leave
// in multi-line cells, into a single-line name.
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\r\n", "/")
	name = strings.ReplaceAll(name, "\n", "/")
	return strings.TrimSpace(name)
}
