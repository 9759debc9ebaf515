package engine

import (
	"fmt"
	"sort"
	"strings"

	"snapshot-analyzer/internal/config"
	"snapshot-analyzer/internal/discover"
	"snapshot-analyzer/internal/snapshot"
	"snapshot-analyzer/internal/stats"
)

// generalGuidanceItem is the catch-all case item whose share indicates how
// much of the caseload is advisory rather than break-fix.
const generalGuidanceItem = "General Guidance"

// PayerCaseload is one payer's support-case workload with its
// technical-support profile.
type PayerCaseload struct {
	PayerID        string  `json:"payerId"`
	Customer       string  `json:"customer"`
	Total          int     `json:"total"`
	Technical      int     `json:"technical"`
	NonTechnical   int     `json:"nonTechnical"`
	TechnicalShare float64 `json:"technicalShare"`
	Profile        string  `json:"profile"`
}

// CaseAnalysis is the analytics result over one month of cases, or over all
// months when no month is given.
type CaseAnalysis struct {
	Month                string                   `json:"month,omitempty"`
	Months               []string                 `json:"months"`
	TotalCases           int                      `json:"totalCases"`
	Categories           stats.DistributionResult `json:"categories"`
	Services             stats.DistributionResult `json:"services"`
	Types                stats.DistributionResult `json:"types"`
	Severities           stats.DistributionResult `json:"severities"`
	Statuses             stats.DistributionResult `json:"statuses"`
	PayerCaseloads       []PayerCaseload          `json:"payerCaseloads"`
	GeneralGuidance      int                      `json:"generalGuidance"`
	GeneralGuidanceShare float64                  `json:"generalGuidanceShare"`
	Warnings             []string                 `json:"warnings,omitempty"`
}

// ListCaseMonths returns the months with a case file on disk.
func (e *Engine) ListCaseMonths() ([]string, error) {
	if err := e.needCases(); err != nil {
		return nil, err
	}
	return discover.ListMonths(e.cfg.CasesDir)
}

// AnalyzeCases computes case analytics for one month, or for every available
// month merged when month is empty.
func (e *Engine) AnalyzeCases(month string) (*CaseAnalysis, error) {
	if err := e.needCases(); err != nil {
		return nil, err
	}

	analysis := &CaseAnalysis{Month: month}
	var cases []snapshot.CaseRecord

	load := func(m string) error {
		path, err := discover.ResolveCasesFile(e.cfg.CasesDir, m)
		if err != nil {
			return err
		}
		snap, err := snapshot.Load(path, snapshot.CaseColumns, snapshot.ColCaseID)
		if err != nil {
			return err
		}
		analysis.Warnings = append(analysis.Warnings, snap.Warnings...)
		cases = append(cases, snap.Cases()...)
		return nil
	}

	if month == "" {
		months, err := discover.ListMonths(e.cfg.CasesDir)
		if err != nil {
			return nil, err
		}
		if len(months) == 0 {
			return nil, fmt.Errorf("no case files found under %s", e.cfg.CasesDir)
		}
		analysis.Months = months
		for _, m := range months {
			if err := load(m); err != nil {
				return nil, err
			}
		}
	} else {
		if err := load(month); err != nil {
			return nil, err
		}
		analysis.Months = []string{month}
	}

	analysis.TotalCases = len(cases)
	categories := make([]string, 0, len(cases))
	services := make([]string, 0, len(cases))
	types := make([]string, 0, len(cases))
	severities := make([]string, 0, len(cases))
	statuses := make([]string, 0, len(cases))
	type tally struct{ total, technical int }
	perPayer := make(map[string]*tally)
	for _, c := range cases {
		categories = append(categories, orUnknown(c.Category))
		services = append(services, orUnknown(c.Resolver))
		types = append(types, orUnknown(c.Type))
		severities = append(severities, orUnknown(c.Severity))
		statuses = append(statuses, orUnknown(c.Status))
		if strings.EqualFold(c.Item, generalGuidanceItem) {
			analysis.GeneralGuidance++
		}

		payerID := orUnknown(c.PayerID)
		t := perPayer[payerID]
		if t == nil {
			t = &tally{}
			perPayer[payerID] = t
		}
		t.total++
		if c.IsTechnicalSupport() {
			t.technical++
		}
	}

	analysis.Categories = stats.Count("category", categories)
	analysis.Services = stats.Count("service", services)
	analysis.Types = stats.Count("type", types)
	analysis.Severities = stats.Count("severity", severities)
	analysis.Statuses = stats.Count("status", statuses)
	if analysis.TotalCases > 0 {
		analysis.GeneralGuidanceShare = float64(analysis.GeneralGuidance) / float64(analysis.TotalCases)
	}

	for payerID, t := range perPayer {
		share := 0.0
		if t.total > 0 {
			share = float64(t.technical) / float64(t.total)
		}
		analysis.PayerCaseloads = append(analysis.PayerCaseloads, PayerCaseload{
			PayerID:        payerID,
			Customer:       e.mapping.DisplayName(payerID),
			Total:          t.total,
			Technical:      t.technical,
			NonTechnical:   t.total - t.technical,
			TechnicalShare: share,
			Profile:        stats.SupportProfile(t.technical, t.total),
		})
	}
	sort.Slice(analysis.PayerCaseloads, func(i, j int) bool {
		if analysis.PayerCaseloads[i].Total != analysis.PayerCaseloads[j].Total {
			return analysis.PayerCaseloads[i].Total > analysis.PayerCaseloads[j].Total
		}
		return analysis.PayerCaseloads[i].PayerID < analysis.PayerCaseloads[j].PayerID
	})
	return analysis, nil
}

func (e *Engine) needCases() error {
	if e.cfg.CasesDir == "" {
		return fmt.Errorf("case analytics need casesDir (or %s) configured", config.EnvCasesDir)
	}
	return nil
}
