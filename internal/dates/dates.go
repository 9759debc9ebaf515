// Package dates normalizes the date tokens embedded in snapshot filenames.
//
// Two encodings appear on disk: a short month-day form ("0513") and a long
// year-month-day form ("20250513"). The canonical internal form is the short
// one; the long form is derived from context years discovered on disk, or
// from the current processing year when no context exists. Case files use a
// separate month token ("202507", also accepted as "2025-07").
//
// Validation is syntactic only: month 1-12, day 1-31. Exact day counts per
// month are irrelevant for filename matching and are not checked.
package dates

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// now is replaceable in tests so that current-year derivation is stable.
var now = time.Now

// MalformedDateError reports a token that is not a valid date expression.
type MalformedDateError struct {
	Token  string
	Reason string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed date token %q: %s", e.Token, e.Reason)
}

// Normalize converts a date token to the canonical short form MMDD.
// A long YYYYMMDD token drops its leading year. Idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(token string) (string, error) {
	if err := validate(token); err != nil {
		return "", err
	}
	if len(token) == 8 {
		return token[4:], nil
	}
	return token, nil
}

// Year extracts the year digits from a long token. ok is false for a short
// token.
func Year(token string) (year string, ok bool) {
	if len(token) == 8 && allDigits(token) {
		return token[:4], true
	}
	return "", false
}

// Expand produces every plausible on-disk token for the logical date, the
// input's own form first, then the derived other form.
//
// A short token derives one long candidate per distinct context year, or one
// from the current processing year when no context is given. A long token
// derives its short truncation.
func Expand(token string, contextYears []string) ([]string, error) {
	if err := validate(token); err != nil {
		return nil, err
	}
	if len(token) == 8 {
		return []string{token, token[4:]}, nil
	}
	out := []string{token}
	years := contextYears
	if len(years) == 0 {
		years = []string{fmt.Sprintf("%04d", now().Year())}
	}
	years = dedupSorted(years)
	for _, y := range years {
		out = append(out, y+token)
	}
	return out, nil
}

// NormalizeMonth canonicalizes a case-file month token to YYYYMM.
// Accepted inputs: "202507" and "2025-07".
func NormalizeMonth(token string) (string, error) {
	t := strings.ReplaceAll(token, "-", "")
	if len(t) != 6 || !allDigits(t) {
		return "", &MalformedDateError{Token: token, Reason: "expected YYYYMM or YYYY-MM"}
	}
	if m := atoi2(t[4:6]); m < 1 || m > 12 {
		return "", &MalformedDateError{Token: token, Reason: fmt.Sprintf("month %02d out of range 1-12", m)}
	}
	return t, nil
}

func validate(token string) error {
	if len(token) != 4 && len(token) != 8 {
		return &MalformedDateError{Token: token, Reason: "expected 4 digits (MMDD) or 8 digits (YYYYMMDD)"}
	}
	if !allDigits(token) {
		return &MalformedDateError{Token: token, Reason: "non-digit characters"}
	}
	md := token
	if len(token) == 8 {
		md = token[4:]
	}
	if m := atoi2(md[:2]); m < 1 || m > 12 {
		return &MalformedDateError{Token: token, Reason: fmt.Sprintf("month %02d out of range 1-12", m)}
	}
	if d := atoi2(md[2:]); d < 1 || d > 31 {
		return &MalformedDateError{Token: token, Reason: fmt.Sprintf("day %02d out of range 1-31", d)}
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

func dedupSorted(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
