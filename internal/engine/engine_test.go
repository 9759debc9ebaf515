package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapshot-analyzer/internal/config"
	"snapshot-analyzer/internal/stats"
)

const accountHeader = "Account ID,Account Name,Support Level,Status,Account Type,Payer ID,Tags\n"
const caseHeader = "Case ID,Category (C),Account PayerId,Type (T),Item (I),Resolver,Subject,Status,Severity\n"

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// fixture builds an accounts tree with two dates for customer "acme":
// 0512 has two accounts, 0513 adds one, renames one and drops none.
func fixture(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "acme")
	require.NoError(t, os.Mkdir(dir, 0o755))

	write(t, dir, "acme-CMC-accounts-0512.csv", accountHeader+
		"111,payer-main,ENTERPRISE,Active,PAYER_ACCOUNT,,platform\n"+
		"222,prod-api,ENTERPRISE,Active,LINKED_ACCOUNT,111,prod\n")
	write(t, dir, "acme-CMC-accounts-0513.csv", accountHeader+
		"111,payer-main,ENTERPRISE,Active,PAYER_ACCOUNT,,platform\n"+
		"222,prod-api-v2,ENTERPRISE,Active,LINKED_ACCOUNT,111,prod\n"+
		"333,dev-sandbox,ENTERPRISE,Active,LINKED_ACCOUNT,111,dev\n"+
		"444,basic-box,BASIC,Active,LINKED_ACCOUNT,111,\n"+
		"555,lost-child,ENTERPRISE,Active,LINKED_ACCOUNT,999,\n")

	cfg := config.Default()
	cfg.AccountsDir = root
	return cfg
}

func newEngine(t *testing.T, cfg config.Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func TestListCustomersAndDates(t *testing.T) {
	e := newEngine(t, fixture(t))

	customers, err := e.ListCustomers()
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, customers)

	dates, err := e.ListAvailableDates("acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"0512", "0513"}, dates)
}

func TestAnalyzeSnapshotFiltersToEnterprise(t *testing.T) {
	e := newEngine(t, fixture(t))

	analysis, err := e.AnalyzeSnapshot("acme", "0513")
	require.NoError(t, err)

	// 444 is BASIC and must not count.
	assert.Equal(t, 4, analysis.TotalAccounts)
	assert.Equal(t, 1, analysis.Payers)
	assert.Equal(t, 3, analysis.Linked)

	require.NotEmpty(t, analysis.PayerLoads)
	top := analysis.PayerLoads[0]
	assert.Equal(t, "111", top.PayerID)
	assert.Equal(t, 2, top.Linked)
	assert.Equal(t, stats.BucketLight, top.Bucket)

	sum := 0
	for _, g := range analysis.StatusDistribution.Groups {
		sum += g.Count
	}
	assert.Equal(t, analysis.TotalAccounts, sum)
}

func TestAnalyzeSnapshotFlagsOrphans(t *testing.T) {
	e := newEngine(t, fixture(t))

	analysis, err := e.AnalyzeSnapshot("acme", "0513")
	require.NoError(t, err)

	found := false
	for _, w := range analysis.Warnings {
		if strings.Contains(w, "555") && strings.Contains(w, "999") {
			found = true
		}
	}
	assert.True(t, found, "expected orphan warning naming 555 and 999, got %v", analysis.Warnings)
}

func TestDiffSnapshots(t *testing.T) {
	e := newEngine(t, fixture(t))

	diff, err := e.DiffSnapshots("acme", "0512", "0513")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"333", "444", "555"}, diff.Result.Added)
	assert.Empty(t, diff.Result.Removed)
	require.Len(t, diff.Result.Changed, 1)
	assert.Equal(t, "222", diff.Result.Changed[0].Key)
	assert.Contains(t, diff.Patch, "+Account Name: prod-api-v2")
}

func TestGroupedAnalysis(t *testing.T) {
	e := newEngine(t, fixture(t))

	res, err := e.GroupedAnalysis("acme", "0513", DimTier)
	require.NoError(t, err)
	// Grouping sees every row, including the BASIC one.
	assert.Equal(t, 5, res.Total)
	tiers := map[string]int{}
	for _, g := range res.Groups {
		tiers[g.Key] = g.Count
	}
	assert.Equal(t, 4, tiers["ENTERPRISE"])
	assert.Equal(t, 1, tiers["BASIC"])

	res, err = e.GroupedAnalysis("acme", "0513", DimSegment)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)

	_, err = e.GroupedAnalysis("acme", "0513", "flavor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flavor")
}

func TestComprehensiveInsights(t *testing.T) {
	e := newEngine(t, fixture(t))

	ins, err := e.ComprehensiveInsights("acme", "0513")
	require.NoError(t, err)
	assert.NotEmpty(t, ins.RunID)
	assert.NotNil(t, ins.Analysis)
	assert.GreaterOrEqual(t, ins.Maturity.Overall, 0.0)

	require.NotNil(t, ins.Trend)
	assert.Equal(t, "0512", ins.Trend.PreviousDate)
	assert.Equal(t, 3, ins.Trend.Added)
	assert.Equal(t, 1, ins.Trend.Changed)

	again, err := e.ComprehensiveInsights("acme", "0513")
	require.NoError(t, err)
	assert.NotEqual(t, ins.RunID, again.RunID, "run IDs must be unique per run")
}

func TestComprehensiveInsightsEarliestDateHasNoTrend(t *testing.T) {
	e := newEngine(t, fixture(t))

	ins, err := e.ComprehensiveInsights("acme", "0512")
	require.NoError(t, err)
	assert.Nil(t, ins.Trend)
}

func TestTrackAccountHistory(t *testing.T) {
	e := newEngine(t, fixture(t))

	hist, err := e.TrackAccountHistory("acme", "333")
	require.NoError(t, err)
	assert.Equal(t, "0513", hist.FirstSeen)
	assert.Equal(t, "0513", hist.LastSeen)
	assert.Equal(t, 1, hist.Appearances)
	require.NotNil(t, hist.Last)
	assert.Equal(t, "dev-sandbox", hist.Last.Name)

	hist, err = e.TrackAccountHistory("acme", "222")
	require.NoError(t, err)
	assert.Equal(t, "0512", hist.FirstSeen)
	assert.Equal(t, "0513", hist.LastSeen)
	assert.Equal(t, 2, hist.Appearances)

	hist, err = e.TrackAccountHistory("acme", "nope")
	require.NoError(t, err)
	assert.Zero(t, hist.Appearances)
	assert.Empty(t, hist.FirstSeen)
}

func TestCompareCustomersRanksByTotal(t *testing.T) {
	cfg := fixture(t)
	// A second customer with a single snapshot at 0513 and a smaller footprint.
	dir := filepath.Join(cfg.AccountsDir, "globex")
	require.NoError(t, os.Mkdir(dir, 0o755))
	write(t, dir, "globex-CMC-accounts-0513.csv", accountHeader+
		"777,payer-solo,ENTERPRISE,Active,PAYER_ACCOUNT,,\n")
	e := newEngine(t, cfg)

	cmp, err := e.CompareCustomers("0513")
	require.NoError(t, err)
	require.Len(t, cmp.Standings, 2)
	assert.Equal(t, "acme", cmp.Standings[0].Customer)
	assert.Equal(t, 4, cmp.Standings[0].Total)
	assert.Equal(t, "globex", cmp.Standings[1].Customer)
	assert.Equal(t, 1, cmp.Standings[1].Total)
	assert.Equal(t, 2, cmp.TotalPayers)
	assert.Equal(t, 3, cmp.TotalLinked)
	assert.Equal(t, 5, cmp.TotalAccounts)
	assert.Empty(t, cmp.Warnings)
}

func TestCompareCustomersCarriesPerCustomerFailures(t *testing.T) {
	cfg := fixture(t)
	e := newEngine(t, cfg)

	// acme has no 0601 snapshot, so the comparison has no standings but
	// still succeeds with a warning naming the customer.
	cmp, err := e.CompareCustomers("0601")
	require.NoError(t, err)
	assert.Empty(t, cmp.Standings)
	require.Len(t, cmp.Warnings, 1)
	assert.Contains(t, cmp.Warnings[0], "acme")
}

func TestAccountOpsNeedAccountsDir(t *testing.T) {
	e := newEngine(t, config.Default())
	_, err := e.ListCustomers()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accountsDir")
}

func casesFixture(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	write(t, dir, "cases-202506.csv", caseHeader+
		"C-1,Technical support,111,Issue,General Guidance,EC2,slow api,Resolved,Low\n"+
		"C-2,Technical support,111,Issue,Instance Trouble,EC2,crash,Resolved,High\n")
	write(t, dir, "cases-202507.csv", caseHeader+
		"C-3,Technical support,111,Question,General Guidance,S3,how to,Resolved,Low\n"+
		"C-4,Account billing,222,Question,Invoice,Billing,bill,Open,Normal\n")

	mappingPath := filepath.Join(t.TempDir(), "customers.csv")
	require.NoError(t, os.WriteFile(mappingPath,
		[]byte("Payer ID,Customer Name\n111,Acme Corp\n"), 0o644))

	cfg := config.Default()
	cfg.CasesDir = dir
	cfg.MappingFile = mappingPath
	return cfg
}

func TestAnalyzeCasesSingleMonth(t *testing.T) {
	e := newEngine(t, casesFixture(t))

	analysis, err := e.AnalyzeCases("202506")
	require.NoError(t, err)
	assert.Equal(t, 2, analysis.TotalCases)
	assert.Equal(t, 1, analysis.GeneralGuidance)
	assert.InDelta(t, 0.5, analysis.GeneralGuidanceShare, 1e-9)

	require.Len(t, analysis.PayerCaseloads, 1)
	pl := analysis.PayerCaseloads[0]
	assert.Equal(t, "111", pl.PayerID)
	assert.Equal(t, "Acme Corp", pl.Customer)
	assert.Equal(t, stats.ProfileTechnicalOriented, pl.Profile)
}

func TestAnalyzeCasesAllMonths(t *testing.T) {
	e := newEngine(t, casesFixture(t))

	analysis, err := e.AnalyzeCases("")
	require.NoError(t, err)
	assert.Equal(t, []string{"202506", "202507"}, analysis.Months)
	assert.Equal(t, 4, analysis.TotalCases)

	require.Len(t, analysis.PayerCaseloads, 2)
	assert.Equal(t, "111", analysis.PayerCaseloads[0].PayerID)
	assert.Equal(t, 3, analysis.PayerCaseloads[0].Total)
	// 222 is unmapped; the display name falls back to the raw ID.
	assert.Equal(t, "222", analysis.PayerCaseloads[1].Customer)
	assert.Equal(t, stats.ProfileNonTechnical, analysis.PayerCaseloads[1].Profile)
}

func TestListCaseMonths(t *testing.T) {
	e := newEngine(t, casesFixture(t))
	months, err := e.ListCaseMonths()
	require.NoError(t, err)
	assert.Equal(t, []string{"202506", "202507"}, months)
}
