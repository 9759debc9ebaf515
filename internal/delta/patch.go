package delta

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"snapshot-analyzer/internal/snapshot"
)

// RenderPatch renders a human-readable unified diff for every entity the
// result names. Each entity is projected to sorted "Field: value" lines so
// the patch is stable across runs; added entities diff against an empty
// before-image and removed entities against an empty after-image.
func RenderPatch(res Result, earlier, later *snapshot.Snapshot, trackedFields []string) (string, error) {
	earlierByKey, _, _ := indexByKey(earlier, res.KeyField)
	laterByKey, _, _ := indexByKey(later, res.KeyField)

	var b strings.Builder
	emit := func(key string, before, after []string) error {
		ud := difflib.UnifiedDiff{
			A:        before,
			B:        after,
			FromFile: "a/" + key,
			ToFile:   "b/" + key,
			Context:  len(trackedFields),
		}
		if before == nil {
			ud.FromFile = "/dev/null"
		}
		if after == nil {
			ud.ToFile = "/dev/null"
		}
		text, err := difflib.GetUnifiedDiffString(ud)
		if err != nil {
			return fmt.Errorf("rendering patch for %s: %w", key, err)
		}
		b.WriteString(text)
		return nil
	}

	for _, key := range res.Added {
		if err := emit(key, nil, projectRow(laterByKey[key], res.KeyField, trackedFields)); err != nil {
			return "", err
		}
	}
	for _, key := range res.Removed {
		if err := emit(key, projectRow(earlierByKey[key], res.KeyField, trackedFields), nil); err != nil {
			return "", err
		}
	}
	for _, ch := range res.Changed {
		before := projectRow(earlierByKey[ch.Key], res.KeyField, trackedFields)
		after := projectRow(laterByKey[ch.Key], res.KeyField, trackedFields)
		if err := emit(ch.Key, before, after); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// projectRow turns one row into sorted newline-terminated "Field: value"
// lines covering the key plus every tracked field.
func projectRow(row snapshot.Row, keyField string, trackedFields []string) []string {
	if row == nil {
		return nil
	}
	lines := make([]string, 0, len(trackedFields)+1)
	lines = append(lines, fmt.Sprintf("%s: %s\n", keyField, row.Get(keyField)))
	for _, f := range trackedFields {
		lines = append(lines, fmt.Sprintf("%s: %s\n", f, row.Get(f)))
	}
	sort.Strings(lines)
	return lines
}

func warnEmptyKeys(path, keyField string, n int) string {
	return fmt.Sprintf("%s: %d rows with empty %s excluded from comparison", path, n, keyField)
}
