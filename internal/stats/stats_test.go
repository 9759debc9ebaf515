package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapshot-analyzer/internal/snapshot"
)

func TestConcentrationIndex(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		want  float64
	}{
		{"even spread", []int{10, 10, 10, 10}, 0},
		{"single dominant", []int{100, 0, 0, 0}, 0.75},
		{"one bucket", []int{5}, 0},
		{"empty", nil, 0},
		{"all zero", []int{0, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConcentrationIndex(tt.sizes), 1e-9)
		})
	}
}

func TestConcentrationIndexOrderInsensitive(t *testing.T) {
	a := ConcentrationIndex([]int{1, 2, 3, 4})
	b := ConcentrationIndex([]int{4, 1, 3, 2})
	assert.Equal(t, a, b)
}

func TestCountGroupsSumToTotal(t *testing.T) {
	keys := []string{"Active", "Active", "Suspended", "Active", "Closed"}
	res := Count("status", keys)

	assert.Equal(t, "status", res.Dimension)
	assert.Equal(t, 5, res.Total)
	require.Len(t, res.Groups, 3)
	assert.Equal(t, Group{Key: "Active", Count: 3, Share: 0.6}, res.Groups[0])

	sum := 0
	for _, g := range res.Groups {
		assert.Greater(t, g.Count, 0, "zero-count groups must not appear")
		sum += g.Count
	}
	assert.Equal(t, res.Total, sum)
}

func TestCountTieBreakByKey(t *testing.T) {
	res := Count("tier", []string{"BASIC", "ENTERPRISE"})
	assert.Equal(t, "BASIC", res.Groups[0].Key)
	assert.Equal(t, "ENTERPRISE", res.Groups[1].Key)
}

func TestCountEmpty(t *testing.T) {
	res := Count("status", nil)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Groups)
	assert.Zero(t, res.Concentration)
}

func acct(id, name, tier, typ, payerID, tags string) snapshot.AccountRecord {
	return snapshot.AccountRecord{ID: id, Name: name, SupportLevel: tier, Type: typ, PayerID: payerID, Tags: tags}
}

func TestMaturityScoreDeterministicAndBounded(t *testing.T) {
	accounts := []snapshot.AccountRecord{
		acct("1", "prod-api", "ENTERPRISE", "PAYER_ACCOUNT", "", "core"),
		acct("2", "prod-worker", "BUSINESS", "LINKED_ACCOUNT", "1", "core"),
		acct("3", "bad name!!", "BASIC", "LINKED_ACCOUNT", "1", ""),
	}
	m1 := MaturityScore(accounts)
	m2 := MaturityScore(accounts)
	assert.Equal(t, m1, m2)

	for _, score := range []float64{m1.NamingRegularity, m1.TierDiversity, m1.LoadBalance, m1.TagCoverage, m1.Overall} {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
	assert.InDelta(t, 100*2.0/3, m1.NamingRegularity, 1e-9)
	assert.InDelta(t, 75, m1.TierDiversity, 1e-9)
	assert.InDelta(t, 100*2.0/3, m1.TagCoverage, 1e-9)
}

func TestMaturityScoreEmptyPortfolio(t *testing.T) {
	m := MaturityScore(nil)
	assert.Zero(t, m.Overall)
}

func TestSegmentClassification(t *testing.T) {
	table := DefaultSegmentTable()
	assert.Equal(t, "production", table.Classify(acct("1", "prod-api", "", "", "", "")))
	assert.Equal(t, "development", table.Classify(acct("2", "team-a", "", "", "", "sandbox,misc")))
	assert.Equal(t, Unclassified, table.Classify(acct("3", "misc", "", "", "", "")))
}

func TestInferSegmentsCoversEveryRecord(t *testing.T) {
	accounts := []snapshot.AccountRecord{
		acct("1", "prod-api", "", "", "", ""),
		acct("2", "dev-box", "", "", "", ""),
		acct("3", "misc", "", "", "", ""),
	}
	res := InferSegments(accounts, DefaultSegmentTable())
	assert.Equal(t, 3, res.Total)
	sum := 0
	for _, g := range res.Groups {
		sum += g.Count
	}
	assert.Equal(t, 3, sum)
}

func TestLoadSegmentTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.yaml")
	content := "segments:\n  - name: fintech\n    keywords: [payments, ledger]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadSegmentTable(path)
	require.NoError(t, err)
	assert.Equal(t, "fintech", table.Classify(acct("1", "ledger-core", "", "", "", "")))

	_, err = LoadSegmentTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadBucket(t *testing.T) {
	assert.Equal(t, BucketNone, LoadBucket(0))
	assert.Equal(t, BucketLight, LoadBucket(2))
	assert.Equal(t, BucketMedium, LoadBucket(5))
	assert.Equal(t, BucketHeavy, LoadBucket(10))
	assert.Equal(t, BucketVeryHeavy, LoadBucket(11))
}

func TestSupportProfile(t *testing.T) {
	assert.Equal(t, ProfileTechnicalOriented, SupportProfile(8, 10))
	assert.Equal(t, ProfileTechnicalPrimary, SupportProfile(5, 10))
	assert.Equal(t, ProfileMixed, SupportProfile(2, 10))
	assert.Equal(t, ProfileNonTechnical, SupportProfile(1, 10))
	assert.Equal(t, ProfileNonTechnical, SupportProfile(0, 0))
}
