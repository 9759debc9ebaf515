package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"snapshot-analyzer/internal/dates"
	"snapshot-analyzer/internal/sortutil"
)

// Resolver resolves account-snapshot files under a per-customer directory
// tree. It never writes; every method re-reads the directory listing so that
// concurrent calls stay independent.
type Resolver struct {
	// Root is the data root containing one subdirectory per customer.
	Root string
	// ProductTag is the optional tag segment in filenames (default "CMC").
	ProductTag string
}

// New returns a Resolver for the given data root with the default product tag.
func New(root string) *Resolver {
	return &Resolver{Root: root, ProductTag: DefaultProductTag}
}

// ListCustomers returns the sorted customer directory names under the root.
// Dot-directories and plain files are skipped.
func (r *Resolver) ListCustomers() ([]string, error) {
	entries, err := os.ReadDir(r.Root)
	if err != nil {
		return nil, fmt.Errorf("listing customers under %s: %w", r.Root, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || len(e.Name()) == 0 || e.Name()[0] == '.' {
			continue
		}
		out = append(out, e.Name())
	}
	return sortutil.Sorted(out), nil
}

// CustomerDir maps a customer name to its directory. An empty customer means
// the root itself holds the snapshot files. A customer that matches no
// directory yields *AmbiguousCustomerError.
func (r *Resolver) CustomerDir(customer string) (string, error) {
	if customer == "" {
		return r.Root, nil
	}
	dir := filepath.Join(r.Root, customer)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		known, _ := r.ListCustomers()
		return "", &AmbiguousCustomerError{Customer: customer, Root: r.Root, Known: known}
	}
	return dir, nil
}

// ListDates scans the customer directory, applies every account template as a
// match pattern, and returns the canonical short-form dates present, sorted
// and deduplicated. A short-form and a long-form file for the same calendar
// date collapse to a single entry.
func (r *Resolver) ListDates(customer string) ([]string, error) {
	dir, err := r.CustomerDir(customer)
	if err != nil {
		return nil, err
	}
	tokens, err := r.scanDateTokens(dir, customer)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		norm, err := dates.Normalize(tok)
		if err != nil {
			continue // a matched token is syntactically odd; skip it
		}
		set[norm] = struct{}{}
	}
	return sortutil.SortedKeys(set), nil
}

// ResolveAccountsFile resolves a customer+date to a concrete file path. The
// date is accepted in either encoding. When both a short-form and a long-form
// file exist for the same date, the long-form path wins: it carries strictly
// more information and cannot collide across years.
func (r *Resolver) ResolveAccountsFile(customer, date string) (string, error) {
	dir, err := r.CustomerDir(customer)
	if err != nil {
		return "", err
	}
	norm, err := dates.Normalize(date)
	if err != nil {
		return "", err
	}

	years, err := r.contextYears(dir, customer, norm)
	if err != nil {
		return "", err
	}
	if len(date) == 4 && len(years) > 1 {
		return "", &AmbiguousDateError{Date: date, Years: years}
	}

	candidates, err := dates.Expand(date, years)
	if err != nil {
		return "", err
	}
	// Long-form candidates are probed first regardless of the input's form.
	ordered := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if len(c) == 8 {
			ordered = append(ordered, c)
		}
	}
	for _, c := range candidates {
		if len(c) == 4 {
			ordered = append(ordered, c)
		}
	}

	tried := make([]string, 0, len(ordered)*len(accountTemplates))
	for _, tok := range ordered {
		for _, tpl := range accountTemplates {
			if !tpl.applicable(customer) {
				continue
			}
			name := tpl.filename(customer, r.ProductTag, tok)
			tried = append(tried, name)
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				return path, nil
			}
		}
	}
	return "", &FileNotFoundError{Customer: customer, Date: date, Dir: dir, Tried: tried}
}

// contextYears returns the distinct years of long-form files in dir whose
// month-day equals mmdd, sorted ascending.
func (r *Resolver) contextYears(dir, customer, mmdd string) ([]string, error) {
	tokens, err := r.scanDateTokens(dir, customer)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, tok := range tokens {
		if y, ok := dates.Year(tok); ok && tok[4:] == mmdd {
			set[y] = struct{}{}
		}
	}
	return sortutil.SortedKeys(set), nil
}

// scanDateTokens lists dir once and extracts the raw date token of every
// entry matching any applicable account template.
func (r *Resolver) scanDateTokens(dir, customer string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			known, _ := r.ListCustomers()
			return nil, &AmbiguousCustomerError{Customer: customer, Root: r.Root, Known: known}
		}
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	var tokens []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, tpl := range accountTemplates {
			if !tpl.applicable(customer) {
				continue
			}
			if m := tpl.pattern(customer, r.ProductTag).FindStringSubmatch(e.Name()); m != nil {
				tokens = append(tokens, m[1])
				break
			}
		}
	}
	return tokens, nil
}

// ListMonths returns the sorted YYYYMM tokens of case files in dir.
func ListMonths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing case files under %s: %w", dir, err)
	}
	set := make(map[string]struct{})
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := casesPattern.FindStringSubmatch(e.Name()); m != nil {
			set[m[1]] = struct{}{}
		}
	}
	return sortutil.SortedKeys(set), nil
}

// ResolveCasesFile resolves a month token (YYYYMM or YYYY-MM) to the single
// case-domain file path for that month.
func ResolveCasesFile(dir, month string) (string, error) {
	norm, err := dates.NormalizeMonth(month)
	if err != nil {
		return "", err
	}
	name := casesFilename(norm)
	path := filepath.Join(dir, name)
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return path, nil
	}
	return "", &FileNotFoundError{Date: month, Dir: dir, Tried: []string{name}}
}
