// Package main provides the snapshot-analyzer CLI: analytics over dated CSV
// account snapshots and monthly support-case files.
//
// Modes (mutually exclusive):
//   - Customers : snapshot-analyzer -customers
//   - Dates     : snapshot-analyzer -dates [-customer NAME]
//   - Analyze   : snapshot-analyzer -analyze DATE [-customer NAME]
//   - Diff      : snapshot-analyzer -diff -from DATE -to DATE [-customer NAME]
//   - Group     : snapshot-analyzer -group DIM -date DATE [-customer NAME]
//   - Insights  : snapshot-analyzer -insights DATE [-customer NAME]
//   - Compare   : snapshot-analyzer -compare DATE
//   - Months    : snapshot-analyzer -months
//   - Cases     : snapshot-analyzer -cases [MONTH]
//   - History   : snapshot-analyzer -history ACCOUNT [-customer NAME]
//
// Output is Markdown on stdout by default, JSON with -json. Dates are
// accepted as MMDD or YYYYMMDD, months as YYYYMM or YYYY-MM.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"snapshot-analyzer/internal/config"
	"snapshot-analyzer/internal/engine"
	"snapshot-analyzer/internal/report"
)

func main() {
	flag.Usage = func() {
		prog := filepath.Base(os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s -customers\n", prog)
		fmt.Fprintf(os.Stderr, "  %s -dates [-customer NAME]\n", prog)
		fmt.Fprintf(os.Stderr, "  %s -analyze DATE [-customer NAME]\n", prog)
		fmt.Fprintf(os.Stderr, "  %s -diff -from DATE -to DATE [-customer NAME]\n", prog)
		fmt.Fprintf(os.Stderr, "  %s -group tier|status|payer|segment -date DATE [-customer NAME]\n", prog)
		fmt.Fprintf(os.Stderr, "  %s -insights DATE [-customer NAME]\n", prog)
		fmt.Fprintf(os.Stderr, "  %s -compare DATE\n", prog)
		fmt.Fprintf(os.Stderr, "  %s -months | -cases [MONTH] | -history ACCOUNT\n", prog)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	// Configuration
	configFlag := flag.String("config", "", "path to YAML config file")
	dataDirFlag := flag.String("data-dir", "", "accounts data root (overrides config/env)")
	casesDirFlag := flag.String("cases-dir", "", "cases data directory (overrides config/env)")
	mappingFlag := flag.String("mapping", "", "payer-to-customer mapping CSV (overrides config/env)")
	segmentsFlag := flag.String("segments", "", "segment rule table YAML")
	tagFlag := flag.String("tag", "", "product tag in snapshot filenames (default CMC)")

	// Modes
	customersFlag := flag.Bool("customers", false, "list customers")
	datesFlag := flag.Bool("dates", false, "list available snapshot dates")
	analyzeFlag := flag.String("analyze", "", "analyze the snapshot at DATE")
	diffFlag := flag.Bool("diff", false, "diff two snapshots (-from, -to)")
	fromFlag := flag.String("from", "", "earlier date for -diff")
	toFlag := flag.String("to", "", "later date for -diff")
	groupFlag := flag.String("group", "", "group accounts by dimension (tier, status, payer, segment)")
	dateFlag := flag.String("date", "", "snapshot date for -group")
	insightsFlag := flag.String("insights", "", "comprehensive insights for DATE")
	compareFlag := flag.String("compare", "", "rank all customers by account footprint at DATE")
	monthsFlag := flag.Bool("months", false, "list available case months")
	casesFlag := flag.Bool("cases", false, "analyze cases (positional MONTH, or all months)")
	historyFlag := flag.String("history", "", "track ACCOUNT across all snapshot dates")

	customerFlag := flag.String("customer", "", "customer subdirectory (empty = data root)")
	jsonFlag := flag.Bool("json", false, "emit JSON instead of Markdown")
	flag.Parse()

	modes := 0
	for _, on := range []bool{
		*customersFlag, *datesFlag, *analyzeFlag != "", *diffFlag,
		*groupFlag != "", *insightsFlag != "", *compareFlag != "",
		*monthsFlag, *casesFlag, *historyFlag != "",
	} {
		if on {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "ERROR: exactly one mode flag is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := buildConfig(*configFlag, *dataDirFlag, *casesDirFlag, *mappingFlag, *segmentsFlag, *tagFlag)
	if err != nil {
		fail(err)
	}
	eng, err := engine.New(cfg)
	if err != nil {
		fail(err)
	}

	switch {
	case *customersFlag:
		customers, err := eng.ListCustomers()
		if err != nil {
			fail(err)
		}
		emitList(customers, *jsonFlag)

	case *datesFlag:
		dates, err := eng.ListAvailableDates(*customerFlag)
		if err != nil {
			fail(err)
		}
		emitList(dates, *jsonFlag)

	case *analyzeFlag != "":
		analysis, err := eng.AnalyzeSnapshot(*customerFlag, *analyzeFlag)
		if err != nil {
			fail(err)
		}
		emit(analysis, report.AccountAnalysis(analysis), *jsonFlag)

	case *diffFlag:
		if *fromFlag == "" || *toFlag == "" {
			fmt.Fprintln(os.Stderr, "ERROR: -diff requires -from and -to")
			os.Exit(2)
		}
		diff, err := eng.DiffSnapshots(*customerFlag, *fromFlag, *toFlag)
		if err != nil {
			fail(err)
		}
		emit(diff, report.Diff(diff), *jsonFlag)

	case *groupFlag != "":
		if *dateFlag == "" {
			fmt.Fprintln(os.Stderr, "ERROR: -group requires -date")
			os.Exit(2)
		}
		res, err := eng.GroupedAnalysis(*customerFlag, *dateFlag, *groupFlag)
		if err != nil {
			fail(err)
		}
		data, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(data))

	case *insightsFlag != "":
		ins, err := eng.ComprehensiveInsights(*customerFlag, *insightsFlag)
		if err != nil {
			fail(err)
		}
		emit(ins, report.Insights(ins), *jsonFlag)

	case *compareFlag != "":
		cmp, err := eng.CompareCustomers(*compareFlag)
		if err != nil {
			fail(err)
		}
		emit(cmp, report.CustomerComparison(cmp), *jsonFlag)

	case *monthsFlag:
		months, err := eng.ListCaseMonths()
		if err != nil {
			fail(err)
		}
		emitList(months, *jsonFlag)

	case *casesFlag:
		month := ""
		if flag.NArg() > 0 {
			month = flag.Arg(0)
		}
		analysis, err := eng.AnalyzeCases(month)
		if err != nil {
			fail(err)
		}
		emit(analysis, report.CaseAnalysis(analysis), *jsonFlag)

	case *historyFlag != "":
		hist, err := eng.TrackAccountHistory(*customerFlag, *historyFlag)
		if err != nil {
			fail(err)
		}
		emit(hist, report.History(hist), *jsonFlag)
	}
}

// buildConfig layers defaults, config file, environment and flags.
func buildConfig(configPath, dataDir, casesDir, mappingFile, segmentFile, tag string) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFile(cfg, configPath)
		if err != nil {
			return cfg, err
		}
	}
	cfg = config.FromEnv(cfg)
	if dataDir != "" {
		cfg.AccountsDir = dataDir
	}
	if casesDir != "" {
		cfg.CasesDir = casesDir
	}
	if mappingFile != "" {
		cfg.MappingFile = mappingFile
	}
	if segmentFile != "" {
		cfg.SegmentFile = segmentFile
	}
	if tag != "" {
		cfg.ProductTag = tag
	}
	return cfg, cfg.Validate()
}

func emit(v any, markdown string, asJSON bool) {
	if asJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fail(err)
		}
		fmt.Println(string(data))
		return
	}
	fmt.Print(markdown)
}

func emitList(items []string, asJSON bool) {
	if asJSON {
		data, _ := json.MarshalIndent(items, "", "  ")
		fmt.Println(string(data))
		return
	}
	for _, it := range items {
		fmt.Println(it)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "ERROR:", err)
	os.Exit(1)
}
