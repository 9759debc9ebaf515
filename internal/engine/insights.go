package engine

import (
	"github.com/google/uuid"

	"snapshot-analyzer/internal/dates"
	"snapshot-analyzer/internal/delta"
	"snapshot-analyzer/internal/snapshot"
	"snapshot-analyzer/internal/stats"
)

// TrendSummary condenses the diff against the previous available snapshot.
type TrendSummary struct {
	PreviousDate string `json:"previousDate"`
	Added        int    `json:"added"`
	Removed      int    `json:"removed"`
	Changed      int    `json:"changed"`
}

// Insights is the comprehensive report for one customer snapshot. RunID
// uniquely identifies the generation run so exported reports can be
// correlated.
type Insights struct {
	RunID    string                   `json:"runId"`
	Customer string                   `json:"customer"`
	Date     string                   `json:"date"`
	Analysis *AccountAnalysis         `json:"analysis"`
	Maturity stats.Maturity           `json:"maturity"`
	Segments stats.DistributionResult `json:"segments"`
	Trend    *TrendSummary            `json:"trend,omitempty"`
}

// ComprehensiveInsights combines single-date analytics, maturity scoring,
// segmentation and a trend summary against the immediately preceding
// available date. A snapshot with no predecessor reports no trend.
func (e *Engine) ComprehensiveInsights(customer, date string) (*Insights, error) {
	analysis, err := e.AnalyzeSnapshot(customer, date)
	if err != nil {
		return nil, err
	}
	snap, _, err := e.loadAccounts(customer, date)
	if err != nil {
		return nil, err
	}
	accounts := enterpriseOnly(snap.Accounts())

	ins := &Insights{
		RunID:    uuid.NewString(),
		Customer: customer,
		Date:     date,
		Analysis: analysis,
		Maturity: stats.MaturityScore(accounts),
		Segments: stats.InferSegments(accounts, e.segments),
	}

	prev, err := e.previousDate(customer, date)
	if err != nil {
		return nil, err
	}
	if prev != "" {
		earlier, _, err := e.loadAccounts(customer, prev)
		if err != nil {
			return nil, err
		}
		res := delta.Diff(earlier, snap, snapshot.ColAccountID, snapshot.AccountTrackedFields)
		ins.Trend = &TrendSummary{
			PreviousDate: prev,
			Added:        len(res.Added),
			Removed:      len(res.Removed),
			Changed:      len(res.Changed),
		}
	}
	return ins, nil
}

// previousDate returns the latest available date strictly before date, or ""
// when date is the earliest snapshot.
func (e *Engine) previousDate(customer, date string) (string, error) {
	norm, err := dates.Normalize(date)
	if err != nil {
		return "", err
	}
	available, err := e.resolver.ListDates(customer)
	if err != nil {
		return "", err
	}
	prev := ""
	for _, d := range available {
		if d < norm {
			prev = d
		}
	}
	return prev, nil
}
