package engine

import (
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"

	"snapshot-analyzer/internal/discover"
	"snapshot-analyzer/internal/snapshot"
)

// History traces one account across every available snapshot date of a
// customer.
type History struct {
	Customer    string   `json:"customer"`
	AccountID   string   `json:"accountId"`
	FirstSeen   string   `json:"firstSeen"`
	LastSeen    string   `json:"lastSeen"`
	Appearances int      `json:"appearances"`
	Dates       []string `json:"dates"`
	// Last is the account's most recent record, for display.
	Last *snapshot.AccountRecord `json:"last,omitempty"`
}

// TrackAccountHistory scans every available date of the customer, oldest
// first, and reports where the account appears. The scan touches one file
// per date, so a progress bar is shown on stderr.
func (e *Engine) TrackAccountHistory(customer, accountID string) (*History, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID must not be empty")
	}
	available, err := e.ListAvailableDates(customer)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("no snapshots found for customer %q", customer)
	}

	hist := &History{Customer: customer, AccountID: accountID}
	bar := progressbar.Default(int64(len(available)), "scanning snapshots")
	for _, date := range available {
		snap, _, err := e.loadAccounts(customer, date)
		if err != nil {
			// A date listed moments ago can be ambiguous on resolve when
			// multiple years share it; skip rather than abort the scan.
			var ade *discover.AmbiguousDateError
			if errors.As(err, &ade) {
				_ = bar.Add(1)
				continue
			}
			return nil, err
		}
		for _, a := range snap.Accounts() {
			if a.ID != accountID {
				continue
			}
			if hist.FirstSeen == "" {
				hist.FirstSeen = date
			}
			hist.LastSeen = date
			hist.Appearances++
			hist.Dates = append(hist.Dates, date)
			record := a
			hist.Last = &record
			break
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return hist, nil
}
