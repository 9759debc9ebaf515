// Package discover locates snapshot files on disk. Naming conventions grew
// organically across exports, so resolution works from a declarative template
// table: every template is a pattern (for scanning a directory) plus a
// filename builder (for probing candidates). New conventions are added by
// appending a template, not by branching logic.
package discover

import (
	"regexp"
	"strings"
)

// DefaultProductTag is the product tag segment observed in exported account
// filenames (e.g. "customer1-CMC-accounts-0731.csv").
const DefaultProductTag = "CMC"

// accountTemplate describes one account-snapshot naming convention. The
// customer and product-tag segments are each independently omissible; the
// segment order is fixed: {customer}-{tag}-accounts-{date}.csv.
type accountTemplate struct {
	withCustomer bool
	withTag      bool
}

// accountTemplates is ordered most-specific first so that resolution probes
// the richest names before the bare fallback.
var accountTemplates = []accountTemplate{
	{withCustomer: true, withTag: true},
	{withCustomer: true, withTag: false},
	{withCustomer: false, withTag: true},
	{withCustomer: false, withTag: false},
}

// filename builds the concrete candidate name for a date token.
func (t accountTemplate) filename(customer, tag, date string) string {
	var b strings.Builder
	if t.withCustomer {
		b.WriteString(customer)
		b.WriteString("-")
	}
	if t.withTag {
		b.WriteString(tag)
		b.WriteString("-")
	}
	b.WriteString("accounts-")
	b.WriteString(date)
	b.WriteString(".csv")
	return b.String()
}

// pattern compiles the template into a match pattern whose first group is the
// date token (4 or 8 digits).
func (t accountTemplate) pattern(customer, tag string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	if t.withCustomer {
		b.WriteString(regexp.QuoteMeta(customer))
		b.WriteString("-")
	}
	if t.withTag {
		b.WriteString(regexp.QuoteMeta(tag))
		b.WriteString("-")
	}
	b.WriteString(`accounts-(\d{4}|\d{8})\.csv$`)
	return regexp.MustCompile(b.String())
}

// applicable reports whether the template can be used for the given customer
// value; customer-prefixed templates need a non-empty customer.
func (t accountTemplate) applicable(customer string) bool {
	return !t.withCustomer || customer != ""
}

// casesPattern matches the single case-domain convention, cases-YYYYMM.csv.
var casesPattern = regexp.MustCompile(`^cases-(\d{6})\.csv$`)

func casesFilename(month string) string {
	return "cases-" + month + ".csv"
}
