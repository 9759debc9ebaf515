// Package engine is the query surface of the analyzer. It binds file
// discovery, snapshot loading, diffing and statistics into the operations a
// caller (CLI or embedding program) invokes.
//
// An Engine loads its enrichment tables once at construction; every query
// method is otherwise stateless and re-reads the filesystem, so results
// always reflect the files present at call time and concurrent calls do not
// interfere.
package engine

import (
	"fmt"
	"sort"

	"snapshot-analyzer/internal/config"
	"snapshot-analyzer/internal/delta"
	"snapshot-analyzer/internal/discover"
	"snapshot-analyzer/internal/mapping"
	"snapshot-analyzer/internal/snapshot"
	"snapshot-analyzer/internal/stats"
)

// Engine executes analytics queries over the configured data directories.
type Engine struct {
	cfg      config.Config
	resolver *discover.Resolver
	mapping  mapping.Table
	segments stats.SegmentTable
}

// New builds an Engine from a validated configuration, loading the optional
// customer mapping and segment tables.
func New(cfg config.Config) (*Engine, error) {
	table, err := mapping.Load(cfg.MappingFile)
	if err != nil {
		return nil, err
	}
	segments := stats.DefaultSegmentTable()
	if cfg.SegmentFile != "" {
		segments, err = stats.LoadSegmentTable(cfg.SegmentFile)
		if err != nil {
			return nil, err
		}
	}
	resolver := discover.New(cfg.AccountsDir)
	if cfg.ProductTag != "" {
		resolver.ProductTag = cfg.ProductTag
	}
	return &Engine{
		cfg:      cfg,
		resolver: resolver,
		mapping:  table,
		segments: segments,
	}, nil
}

// ListCustomers returns the customer directories under the accounts root.
func (e *Engine) ListCustomers() ([]string, error) {
	if err := e.needAccounts(); err != nil {
		return nil, err
	}
	return e.resolver.ListCustomers()
}

// ListAvailableDates returns the canonical dates with a snapshot on disk for
// the customer.
func (e *Engine) ListAvailableDates(customer string) ([]string, error) {
	if err := e.needAccounts(); err != nil {
		return nil, err
	}
	return e.resolver.ListDates(customer)
}

// PayerLoad is one payer's linked-account workload.
type PayerLoad struct {
	PayerID string `json:"payerId"`
	Name    string `json:"name"`
	Linked  int    `json:"linked"`
	Bucket  string `json:"bucket"`
}

// AccountAnalysis is the full analytics result for one customer snapshot.
// Only Enterprise-tier rows participate; the loader keeps everything, the
// analytics filter.
type AccountAnalysis struct {
	Customer           string                   `json:"customer"`
	Date               string                   `json:"date"`
	SourceFile         string                   `json:"sourceFile"`
	TotalAccounts      int                      `json:"totalAccounts"`
	Payers             int                      `json:"payers"`
	Linked             int                      `json:"linked"`
	PayerLoads         []PayerLoad              `json:"payerLoads"`
	LoadBuckets        stats.DistributionResult `json:"loadBuckets"`
	StatusDistribution stats.DistributionResult `json:"statusDistribution"`
	TagDistribution    stats.DistributionResult `json:"tagDistribution"`
	PayerConcentration float64                  `json:"payerConcentration"`
	Warnings           []string                 `json:"warnings,omitempty"`
}

// AnalyzeSnapshot loads the snapshot for customer+date and computes the
// single-date analytics.
func (e *Engine) AnalyzeSnapshot(customer, date string) (*AccountAnalysis, error) {
	snap, path, err := e.loadAccounts(customer, date)
	if err != nil {
		return nil, err
	}
	accounts := enterpriseOnly(snap.Accounts())

	analysis := &AccountAnalysis{
		Customer:   customer,
		Date:       date,
		SourceFile: path,
		Warnings:   append([]string(nil), snap.Warnings...),
	}
	analysis.TotalAccounts = len(accounts)

	linkedPerPayer := make(map[string]int)
	statuses := make([]string, 0, len(accounts))
	tags := make([]string, 0, len(accounts))
	for _, a := range accounts {
		switch {
		case a.IsPayer():
			analysis.Payers++
			if _, ok := linkedPerPayer[a.ID]; !ok {
				linkedPerPayer[a.ID] = 0
			}
		case a.IsLinked():
			analysis.Linked++
			if a.PayerID != "" {
				linkedPerPayer[a.PayerID]++
			}
		}
		statuses = append(statuses, orUnknown(a.Status))
		tags = append(tags, tagKey(a.Tags))
	}

	buckets := make([]string, 0, len(linkedPerPayer))
	counts := make([]int, 0, len(linkedPerPayer))
	for payerID, linked := range linkedPerPayer {
		analysis.PayerLoads = append(analysis.PayerLoads, PayerLoad{
			PayerID: payerID,
			Name:    e.mapping.DisplayName(payerID),
			Linked:  linked,
			Bucket:  stats.LoadBucket(linked),
		})
		buckets = append(buckets, stats.LoadBucket(linked))
		counts = append(counts, linked)
	}
	sort.Slice(analysis.PayerLoads, func(i, j int) bool {
		if analysis.PayerLoads[i].Linked != analysis.PayerLoads[j].Linked {
			return analysis.PayerLoads[i].Linked > analysis.PayerLoads[j].Linked
		}
		return analysis.PayerLoads[i].PayerID < analysis.PayerLoads[j].PayerID
	})

	analysis.LoadBuckets = stats.Count("load", buckets)
	analysis.StatusDistribution = stats.Count("status", statuses)
	analysis.TagDistribution = stats.Count("tags", tags)
	analysis.PayerConcentration = stats.ConcentrationIndex(counts)

	for _, orphan := range snapshot.OrphanLinked(accounts) {
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("linked account %s references unknown payer %q", orphan.ID, orphan.PayerID))
	}
	return analysis, nil
}

// SnapshotDiff is the comparison of two dated snapshots of one customer.
type SnapshotDiff struct {
	Customer string       `json:"customer"`
	From     string       `json:"from"`
	To       string       `json:"to"`
	Result   delta.Result `json:"result"`
	Patch    string       `json:"patch,omitempty"`
}

// DiffSnapshots compares the snapshots at two dates, earlier first.
func (e *Engine) DiffSnapshots(customer, from, to string) (*SnapshotDiff, error) {
	earlier, _, err := e.loadAccounts(customer, from)
	if err != nil {
		return nil, err
	}
	later, _, err := e.loadAccounts(customer, to)
	if err != nil {
		return nil, err
	}
	res := delta.Diff(earlier, later, snapshot.ColAccountID, snapshot.AccountTrackedFields)
	patch, err := delta.RenderPatch(res, earlier, later, snapshot.AccountTrackedFields)
	if err != nil {
		return nil, err
	}
	return &SnapshotDiff{Customer: customer, From: from, To: to, Result: res, Patch: patch}, nil
}

// Grouping dimensions accepted by GroupedAnalysis.
const (
	DimTier    = "tier"
	DimStatus  = "status"
	DimPayer   = "payer"
	DimSegment = "segment"
)

// GroupedAnalysis counts the snapshot's accounts along one dimension. Unlike
// AnalyzeSnapshot it sees every row, so the tier dimension is meaningful.
func (e *Engine) GroupedAnalysis(customer, date, dimension string) (*stats.DistributionResult, error) {
	var keyFn func(snapshot.AccountRecord) string
	switch dimension {
	case DimTier:
		keyFn = func(a snapshot.AccountRecord) string { return orUnknown(a.SupportLevel) }
	case DimStatus:
		keyFn = func(a snapshot.AccountRecord) string { return orUnknown(a.Status) }
	case DimPayer:
		keyFn = func(a snapshot.AccountRecord) string {
			if a.IsPayer() {
				return orUnknown(a.ID)
			}
			return orUnknown(a.PayerID)
		}
	case DimSegment:
		keyFn = e.segments.Classify
	default:
		return nil, fmt.Errorf("unknown grouping dimension %q (want %s, %s, %s or %s)",
			dimension, DimTier, DimStatus, DimPayer, DimSegment)
	}

	snap, _, err := e.loadAccounts(customer, date)
	if err != nil {
		return nil, err
	}
	accounts := snap.Accounts()
	keys := make([]string, 0, len(accounts))
	for _, a := range accounts {
		keys = append(keys, keyFn(a))
	}
	res := stats.Count(dimension, keys)
	return &res, nil
}

func (e *Engine) needAccounts() error {
	if e.cfg.AccountsDir == "" {
		return fmt.Errorf("account analytics need accountsDir (or %s) configured", config.EnvAccountsDir)
	}
	return nil
}

// loadAccounts resolves and loads one account snapshot.
func (e *Engine) loadAccounts(customer, date string) (*snapshot.Snapshot, string, error) {
	if err := e.needAccounts(); err != nil {
		return nil, "", err
	}
	path, err := e.resolver.ResolveAccountsFile(customer, date)
	if err != nil {
		return nil, "", err
	}
	snap, err := snapshot.Load(path, snapshot.AccountColumns, snapshot.ColAccountID)
	if err != nil {
		return nil, "", err
	}
	return snap, path, nil
}

func enterpriseOnly(accounts []snapshot.AccountRecord) []snapshot.AccountRecord {
	out := make([]snapshot.AccountRecord, 0, len(accounts))
	for _, a := range accounts {
		if a.IsEnterprise() {
			out = append(out, a)
		}
	}
	return out
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// tagKey canonicalizes the tags cell for distribution purposes.
func tagKey(tags string) string {
	if tags == "" {
		return "untagged"
	}
	return tags
}
