// Package delta computes structural comparisons between two snapshots of the
// same customer taken on two dates.
//
// The comparison is set-based over a caller-chosen key field: keys only in
// the later snapshot are added, keys only in the earlier one are removed, and
// keys in both with at least one tracked attribute differing are changed.
// Entry ordering is first-seen order in the later snapshot followed by any
// remaining entries from the earlier one, so identical inputs always produce
// identical results.
package delta

import (
	"snapshot-analyzer/internal/snapshot"
)

// FieldChange is one attribute-level difference of a changed entity.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Change is one entity present in both snapshots with differing attributes.
type Change struct {
	Key    string        `json:"key"`
	Fields []FieldChange `json:"fields"`
}

// Result holds the three disjoint sets of a snapshot comparison.
type Result struct {
	KeyField string   `json:"keyField"`
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Changed  []Change `json:"changed"`
	Warnings []string `json:"warnings,omitempty"`
}

// Empty reports whether the diff contains no differences at all.
func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Diff compares two snapshots over keyField. Tracked fields are compared with
// exact string equality, no normalization. Either side may be nil or empty;
// the result is then all-added or all-removed. Rows with an empty key are
// skipped and noted as warnings; for duplicated keys the first occurrence
// wins (the loader has already flagged the duplicate).
func Diff(earlier, later *snapshot.Snapshot, keyField string, trackedFields []string) Result {
	res := Result{
		KeyField: keyField,
		Added:    []string{},
		Removed:  []string{},
		Changed:  []Change{},
	}

	earlierByKey, earlierOrder, w1 := indexByKey(earlier, keyField)
	laterByKey, laterOrder, w2 := indexByKey(later, keyField)
	res.Warnings = append(res.Warnings, w1...)
	res.Warnings = append(res.Warnings, w2...)

	for _, key := range laterOrder {
		before, inEarlier := earlierByKey[key]
		if !inEarlier {
			res.Added = append(res.Added, key)
			continue
		}
		after := laterByKey[key]
		fields := make([]FieldChange, 0)
		for _, f := range trackedFields {
			bv, av := before.Get(f), after.Get(f)
			if bv != av {
				fields = append(fields, FieldChange{Field: f, Before: bv, After: av})
			}
		}
		if len(fields) > 0 {
			res.Changed = append(res.Changed, Change{Key: key, Fields: fields})
		}
	}
	for _, key := range earlierOrder {
		if _, inLater := laterByKey[key]; !inLater {
			res.Removed = append(res.Removed, key)
		}
	}
	return res
}

// indexByKey maps key values to their first row, keeping first-seen order.
func indexByKey(s *snapshot.Snapshot, keyField string) (map[string]snapshot.Row, []string, []string) {
	byKey := make(map[string]snapshot.Row)
	var order []string
	var warnings []string
	if s == nil {
		return byKey, order, warnings
	}
	skipped := 0
	for _, row := range s.Rows {
		key := row.Get(keyField)
		if key == "" {
			skipped++
			continue
		}
		if _, dup := byKey[key]; dup {
			continue
		}
		byKey[key] = row
		order = append(order, key)
	}
	if skipped > 0 {
		warnings = append(warnings, warnEmptyKeys(s.Path, keyField, skipped))
	}
	return byKey, order, warnings
}
