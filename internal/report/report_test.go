package report

import (
	"strings"
	"testing"

	"snapshot-analyzer/internal/delta"
	"snapshot-analyzer/internal/engine"
	"snapshot-analyzer/internal/stats"
)

func TestAccountAnalysis(t *testing.T) {
	a := &engine.AccountAnalysis{
		Customer:      "acme",
		Date:          "0513",
		SourceFile:    "/data/acme/acme-CMC-accounts-0513.csv",
		TotalAccounts: 3,
		Payers:        1,
		Linked:        2,
		PayerLoads: []engine.PayerLoad{
			{PayerID: "111", Name: "Acme Corp", Linked: 2, Bucket: stats.BucketLight},
		},
		StatusDistribution: stats.Count("status", []string{"Active", "Active", "Suspended"}),
	}
	out := AccountAnalysis(a)

	for _, want := range []string{
		"# Account Snapshot - acme (0513)",
		"| 111 | Acme Corp | 2 | light |",
		"## Status",
		"| Active | 2 | 66.7% |",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiffEmpty(t *testing.T) {
	d := &engine.SnapshotDiff{From: "0512", To: "0513", Result: delta.Result{}}
	out := Diff(d)
	if !strings.Contains(out, "No differences.") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestDiffWithChanges(t *testing.T) {
	d := &engine.SnapshotDiff{
		Customer: "acme",
		From:     "0512",
		To:       "0513",
		Result: delta.Result{
			Added:   []string{"333"},
			Removed: []string{"222"},
			Changed: []delta.Change{{
				Key:    "111",
				Fields: []delta.FieldChange{{Field: "Status", Before: "Active", After: "Suspended"}},
			}},
		},
		Patch: "--- a/111\n+++ b/111\n@@ -1 +1 @@\n-Status: Active\n+Status: Suspended\n",
	}
	out := Diff(d)

	for _, want := range []string{
		"- Added: 1",
		"+ 333",
		"- 222",
		"~ 111",
		`"Active" -> "Suspended"`,
		"```diff",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCaseAnalysisTable(t *testing.T) {
	a := &engine.CaseAnalysis{
		Month:                "202507",
		Months:               []string{"202507"},
		TotalCases:           4,
		GeneralGuidance:      1,
		GeneralGuidanceShare: 0.25,
		PayerCaseloads: []engine.PayerCaseload{
			{PayerID: "111", Customer: "Acme Corp", Total: 3, Technical: 3, TechnicalShare: 1, Profile: stats.ProfileTechnicalOriented},
		},
		Types: stats.Count("type", []string{"Issue", "Issue", "Question", "Question"}),
	}
	out := CaseAnalysis(a)

	for _, want := range []string{
		"# Case Analysis 202507",
		"| Customer | Account ID | Total | Technical | Non-technical | Tech % | Profile |",
		"| Acme Corp | 111 | 3 | 3 | 0 | 100.0% | technical-oriented |",
		"General Guidance: 1 (25.0%)",
		"## Types",
		"| Issue | 2 | 50.0% |",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCustomerComparison(t *testing.T) {
	c := &engine.CustomerComparison{
		Date: "0513",
		Standings: []engine.CustomerStanding{
			{Customer: "acme", Payers: 1, Linked: 3, Total: 4},
			{Customer: "globex", Payers: 1, Linked: 0, Total: 1},
		},
		TotalPayers:   2,
		TotalLinked:   3,
		TotalAccounts: 5,
		Warnings:      []string{"initech: no snapshot file for customer initech date 0513"},
	}
	out := CustomerComparison(c)

	for _, want := range []string{
		"# Customer Comparison (0513)",
		"| Rank | Customer | Payers | Linked | Total |",
		"| 1 | acme | 1 | 3 | 4 |",
		"| 2 | globex | 1 | 0 | 1 |",
		"- Accounts: 5",
		"## Warnings",
		"initech",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCustomerComparisonEmpty(t *testing.T) {
	c := &engine.CustomerComparison{Date: "0601", Warnings: []string{"acme: no snapshot"}}
	out := CustomerComparison(c)
	if !strings.Contains(out, "No customer had a snapshot") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestInsights(t *testing.T) {
	ins := &engine.Insights{
		RunID:    "run-1",
		Customer: "acme",
		Date:     "0513",
		Analysis: &engine.AccountAnalysis{Customer: "acme", Date: "0513"},
		Maturity: stats.Maturity{Overall: 72.5, NamingRegularity: 80},
		Trend:    &engine.TrendSummary{PreviousDate: "0512", Added: 2},
	}
	out := Insights(ins)

	for _, want := range []string{
		"## Maturity: 72.5",
		"## Trend since 0512",
		"Run `run-1`",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHistory(t *testing.T) {
	h := &engine.History{Customer: "acme", AccountID: "999"}
	if out := History(h); !strings.Contains(out, "Never seen") {
		t.Fatalf("output:\n%s", out)
	}

	h = &engine.History{Customer: "acme", AccountID: "222", FirstSeen: "0512", LastSeen: "0513", Appearances: 2}
	out := History(h)
	if !strings.Contains(out, "First seen: 0512") || !strings.Contains(out, "Appearances: 2") {
		t.Fatalf("output:\n%s", out)
	}
}
