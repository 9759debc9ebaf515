package stats

import (
	"regexp"
	"strings"

	"snapshot-analyzer/internal/snapshot"
)

// Maturity sub-score weights. They sum to 1 so the overall score stays in
// the same 0-100 range as the sub-scores.
const (
	weightNamingRegularity = 0.25
	weightTierDiversity    = 0.20
	weightLoadBalance      = 0.30
	weightTagCoverage      = 0.25
)

// Maturity is the organizational-maturity scorecard of one account
// portfolio. All scores are 0-100.
type Maturity struct {
	NamingRegularity float64 `json:"namingRegularity"`
	TierDiversity    float64 `json:"tierDiversity"`
	LoadBalance      float64 `json:"loadBalance"`
	TagCoverage      float64 `json:"tagCoverage"`
	Overall          float64 `json:"overall"`
}

// regularName matches names built from alphanumeric segments joined by a
// single dash or underscore, the convention mature portfolios converge on.
var regularName = regexp.MustCompile(`^[A-Za-z0-9]+([-_][A-Za-z0-9]+)*$`)

// knownTiers is the support-tier vocabulary tier diversity is scored
// against.
var knownTiers = []string{"ENTERPRISE", "BUSINESS", "DEVELOPER", "BASIC"}

// MaturityScore computes the scorecard from the account records of one
// snapshot. The result depends only on the records, never on call order or
// time.
func MaturityScore(accounts []snapshot.AccountRecord) Maturity {
	m := Maturity{
		NamingRegularity: namingRegularity(accounts),
		TierDiversity:    tierDiversity(accounts),
		LoadBalance:      loadBalance(accounts),
		TagCoverage:      tagCoverage(accounts),
	}
	m.Overall = weightNamingRegularity*m.NamingRegularity +
		weightTierDiversity*m.TierDiversity +
		weightLoadBalance*m.LoadBalance +
		weightTagCoverage*m.TagCoverage
	return m
}

func namingRegularity(accounts []snapshot.AccountRecord) float64 {
	if len(accounts) == 0 {
		return 0
	}
	regular := 0
	for _, a := range accounts {
		if regularName.MatchString(a.Name) {
			regular++
		}
	}
	return 100 * float64(regular) / float64(len(accounts))
}

func tierDiversity(accounts []snapshot.AccountRecord) float64 {
	seen := make(map[string]struct{})
	for _, a := range accounts {
		tier := strings.ToUpper(strings.TrimSpace(a.SupportLevel))
		for _, known := range knownTiers {
			if tier == known {
				seen[known] = struct{}{}
			}
		}
	}
	return 100 * float64(len(seen)) / float64(len(knownTiers))
}

// loadBalance scores how evenly linked accounts are spread across payers:
// an even spread scores 100, a single overloaded payer drags it toward 0.
func loadBalance(accounts []snapshot.AccountRecord) float64 {
	linkedPerPayer := make(map[string]int)
	for _, a := range accounts {
		if a.IsPayer() {
			if _, ok := linkedPerPayer[a.ID]; !ok {
				linkedPerPayer[a.ID] = 0
			}
		}
	}
	for _, a := range accounts {
		if a.IsLinked() && a.PayerID != "" {
			linkedPerPayer[a.PayerID]++
		}
	}
	if len(linkedPerPayer) == 0 {
		return 0
	}
	counts := make([]int, 0, len(linkedPerPayer))
	for _, n := range linkedPerPayer {
		counts = append(counts, n)
	}
	return 100 * (1 - ConcentrationIndex(counts))
}

func tagCoverage(accounts []snapshot.AccountRecord) float64 {
	if len(accounts) == 0 {
		return 0
	}
	tagged := 0
	for _, a := range accounts {
		if strings.TrimSpace(a.Tags) != "" {
			tagged++
		}
	}
	return 100 * float64(tagged) / float64(len(accounts))
}
