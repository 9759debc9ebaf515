// Package report renders analysis results as Markdown for terminal output
// or export. Rendering is presentation only; every number comes from the
// engine result as-is.
package report

import (
	"fmt"
	"strings"

	"snapshot-analyzer/internal/engine"
	"snapshot-analyzer/internal/stats"
)

// AccountAnalysis renders the single-date account analytics.
func AccountAnalysis(a *engine.AccountAnalysis) string {
	var b strings.Builder
	title := "Account Snapshot"
	if a.Customer != "" {
		title += " - " + a.Customer
	}
	fmt.Fprintf(&b, "# %s (%s)\n\n", title, a.Date)
	fmt.Fprintf(&b, "Source: `%s`\n\n", a.SourceFile)
	fmt.Fprintf(&b, "- Accounts: %d (payers %d, linked %d)\n", a.TotalAccounts, a.Payers, a.Linked)
	fmt.Fprintf(&b, "- Payer-load concentration: %.3f\n\n", a.PayerConcentration)

	if len(a.PayerLoads) > 0 {
		b.WriteString("| Payer | Customer | Linked | Load |\n")
		b.WriteString("|---|---|---:|---|\n")
		for _, pl := range a.PayerLoads {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", pl.PayerID, pl.Name, pl.Linked, pl.Bucket)
		}
		b.WriteString("\n")
	}

	distribution(&b, "Status", a.StatusDistribution)
	distribution(&b, "Load buckets", a.LoadBuckets)
	distribution(&b, "Tags", a.TagDistribution)
	warnings(&b, a.Warnings)
	return b.String()
}

// Diff renders a snapshot comparison, summary first, patch last.
func Diff(d *engine.SnapshotDiff) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Snapshot Diff %s -> %s", d.From, d.To)
	if d.Customer != "" {
		fmt.Fprintf(&b, " - %s", d.Customer)
	}
	b.WriteString("\n\n")

	if d.Result.Empty() {
		b.WriteString("No differences.\n")
		warnings(&b, d.Result.Warnings)
		return b.String()
	}

	fmt.Fprintf(&b, "- Added: %d\n- Removed: %d\n- Changed: %d\n\n",
		len(d.Result.Added), len(d.Result.Removed), len(d.Result.Changed))
	for _, key := range d.Result.Added {
		fmt.Fprintf(&b, "+ %s\n", key)
	}
	for _, key := range d.Result.Removed {
		fmt.Fprintf(&b, "- %s\n", key)
	}
	for _, ch := range d.Result.Changed {
		fmt.Fprintf(&b, "~ %s\n", ch.Key)
		for _, f := range ch.Fields {
			fmt.Fprintf(&b, "    %s: %q -> %q\n", f.Field, f.Before, f.After)
		}
	}
	if d.Patch != "" {
		b.WriteString("\n```diff\n")
		b.WriteString(d.Patch)
		b.WriteString("```\n")
	}
	warnings(&b, d.Result.Warnings)
	return b.String()
}

// CaseAnalysis renders the case-domain analytics including the per-payer
// workload table.
func CaseAnalysis(a *engine.CaseAnalysis) string {
	var b strings.Builder
	if a.Month != "" {
		fmt.Fprintf(&b, "# Case Analysis %s\n\n", a.Month)
	} else {
		fmt.Fprintf(&b, "# Case Analysis (%s)\n\n", strings.Join(a.Months, ", "))
	}
	fmt.Fprintf(&b, "- Cases: %d\n", a.TotalCases)
	fmt.Fprintf(&b, "- General Guidance: %d (%.1f%%)\n\n", a.GeneralGuidance, 100*a.GeneralGuidanceShare)

	if len(a.PayerCaseloads) > 0 {
		b.WriteString("| Customer | Account ID | Total | Technical | Non-technical | Tech % | Profile |\n")
		b.WriteString("|---|---|---:|---:|---:|---:|---|\n")
		for _, pl := range a.PayerCaseloads {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %.1f%% | %s |\n",
				pl.Customer, pl.PayerID, pl.Total, pl.Technical, pl.NonTechnical,
				100*pl.TechnicalShare, pl.Profile)
		}
		b.WriteString("\n")
	}

	distribution(&b, "Categories", a.Categories)
	distribution(&b, "Services", a.Services)
	distribution(&b, "Types", a.Types)
	distribution(&b, "Severities", a.Severities)
	distribution(&b, "Statuses", a.Statuses)
	warnings(&b, a.Warnings)
	return b.String()
}

// CustomerComparison renders the cross-customer ranking table.
func CustomerComparison(c *engine.CustomerComparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Customer Comparison (%s)\n\n", c.Date)

	if len(c.Standings) > 0 {
		b.WriteString("| Rank | Customer | Payers | Linked | Total |\n")
		b.WriteString("|---:|---|---:|---:|---:|\n")
		for i, s := range c.Standings {
			fmt.Fprintf(&b, "| %d | %s | %d | %d | %d |\n", i+1, s.Customer, s.Payers, s.Linked, s.Total)
		}
		fmt.Fprintf(&b, "\n- Customers: %d\n- Payers: %d\n- Linked: %d\n- Accounts: %d\n",
			len(c.Standings), c.TotalPayers, c.TotalLinked, c.TotalAccounts)
	} else {
		b.WriteString("No customer had a snapshot at this date.\n")
	}
	warnings(&b, c.Warnings)
	return b.String()
}

// Insights renders the comprehensive report.
func Insights(ins *engine.Insights) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Comprehensive Insights - %s (%s)\n\n", displayCustomer(ins.Customer), ins.Date)
	fmt.Fprintf(&b, "Run `%s`\n\n", ins.RunID)

	fmt.Fprintf(&b, "## Maturity: %.1f\n\n", ins.Maturity.Overall)
	b.WriteString("| Dimension | Score |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Naming regularity | %.1f |\n", ins.Maturity.NamingRegularity)
	fmt.Fprintf(&b, "| Tier diversity | %.1f |\n", ins.Maturity.TierDiversity)
	fmt.Fprintf(&b, "| Load balance | %.1f |\n", ins.Maturity.LoadBalance)
	fmt.Fprintf(&b, "| Tag coverage | %.1f |\n\n", ins.Maturity.TagCoverage)

	distribution(&b, "Segments", ins.Segments)

	if ins.Trend != nil {
		fmt.Fprintf(&b, "## Trend since %s\n\n", ins.Trend.PreviousDate)
		fmt.Fprintf(&b, "- Added: %d\n- Removed: %d\n- Changed: %d\n\n",
			ins.Trend.Added, ins.Trend.Removed, ins.Trend.Changed)
	}

	b.WriteString("## Snapshot\n\n")
	b.WriteString(AccountAnalysis(ins.Analysis))
	return b.String()
}

// History renders an account's appearance timeline.
func History(h *engine.History) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Account %s - %s\n\n", h.AccountID, displayCustomer(h.Customer))
	if h.Appearances == 0 {
		b.WriteString("Never seen in any snapshot.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "- First seen: %s\n- Last seen: %s\n- Appearances: %d\n",
		h.FirstSeen, h.LastSeen, h.Appearances)
	if h.Last != nil {
		fmt.Fprintf(&b, "- Latest record: %s (%s, %s)\n", h.Last.Name, h.Last.SupportLevel, h.Last.Status)
	}
	return b.String()
}

func distribution(b *strings.Builder, title string, d stats.DistributionResult) {
	if len(d.Groups) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s (concentration %.3f)\n\n", title, d.Concentration)
	b.WriteString("| Key | Count | Share |\n|---|---:|---:|\n")
	for _, g := range d.Groups {
		fmt.Fprintf(b, "| %s | %d | %.1f%% |\n", g.Key, g.Count, 100*g.Share)
	}
	b.WriteString("\n")
}

func warnings(b *strings.Builder, ws []string) {
	if len(ws) == 0 {
		return
	}
	b.WriteString("## Warnings\n\n")
	for _, w := range ws {
		fmt.Fprintf(b, "- %s\n", w)
	}
}

func displayCustomer(customer string) string {
	if customer == "" {
		return "(root)"
	}
	return customer
}
