package stats

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"snapshot-analyzer/internal/snapshot"
)

// Unclassified is the segment of records no rule matched.
const Unclassified = "unclassified"

// SegmentRule maps keyword substrings to one segment name. Keywords are
// matched case-insensitively against an account's tags and name.
type SegmentRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// SegmentTable is an ordered rule list; the first matching rule wins.
type SegmentTable struct {
	Segments []SegmentRule `yaml:"segments"`
}

// DefaultSegmentTable returns the built-in workload segmentation used when
// no table file is configured.
func DefaultSegmentTable() SegmentTable {
	return SegmentTable{Segments: []SegmentRule{
		{Name: "production", Keywords: []string{"prod", "production", "live"}},
		{Name: "pre-production", Keywords: []string{"staging", "stage", "uat", "qa", "preprod"}},
		{Name: "development", Keywords: []string{"dev", "sandbox", "test", "poc"}},
		{Name: "data-analytics", Keywords: []string{"data", "analytics", "etl", "warehouse", "ml"}},
		{Name: "security", Keywords: []string{"security", "audit", "logging", "log-archive"}},
		{Name: "shared-services", Keywords: []string{"shared", "network", "tooling", "platform", "infra"}},
	}}
}

// LoadSegmentTable reads a YAML rule table from path.
func LoadSegmentTable(path string) (SegmentTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SegmentTable{}, fmt.Errorf("reading segment table: %w", err)
	}
	var table SegmentTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return SegmentTable{}, fmt.Errorf("parsing segment table %s: %w", path, err)
	}
	if len(table.Segments) == 0 {
		return SegmentTable{}, fmt.Errorf("segment table %s defines no segments", path)
	}
	return table, nil
}

// Classify returns the segment of one account: the first rule whose keyword
// occurs as a substring of the account's tags or name, else Unclassified.
func (t SegmentTable) Classify(a snapshot.AccountRecord) string {
	haystack := strings.ToLower(a.Tags + " " + a.Name)
	for _, rule := range t.Segments {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
				return rule.Name
			}
		}
	}
	return Unclassified
}

// InferSegments classifies every account and returns the segment
// distribution. Every record lands in exactly one segment.
func InferSegments(accounts []snapshot.AccountRecord, table SegmentTable) DistributionResult {
	keys := make([]string, 0, len(accounts))
	for _, a := range accounts {
		keys = append(keys, table.Classify(a))
	}
	return Count("segment", keys)
}
