package engine

import (
	"fmt"
	"sort"
)

// CustomerStanding is one customer's account footprint at a date.
type CustomerStanding struct {
	Customer string `json:"customer"`
	Payers   int    `json:"payers"`
	Linked   int    `json:"linked"`
	Total    int    `json:"total"`
}

// CustomerComparison ranks every customer by account footprint at one date.
// Customers whose snapshot could not be loaded appear in Warnings instead of
// the ranking; one failing customer never aborts the comparison.
type CustomerComparison struct {
	Date          string             `json:"date"`
	Standings     []CustomerStanding `json:"standings"`
	TotalPayers   int                `json:"totalPayers"`
	TotalLinked   int                `json:"totalLinked"`
	TotalAccounts int                `json:"totalAccounts"`
	Warnings      []string           `json:"warnings,omitempty"`
}

// CompareCustomers analyzes every customer's snapshot at the given date and
// ranks them by total Enterprise accounts, descending.
func (e *Engine) CompareCustomers(date string) (*CustomerComparison, error) {
	customers, err := e.ListCustomers()
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("no customer directories under %s", e.cfg.AccountsDir)
	}

	cmp := &CustomerComparison{Date: date}
	for _, customer := range customers {
		analysis, err := e.AnalyzeSnapshot(customer, date)
		if err != nil {
			cmp.Warnings = append(cmp.Warnings, fmt.Sprintf("%s: %v", customer, err))
			continue
		}
		cmp.Standings = append(cmp.Standings, CustomerStanding{
			Customer: customer,
			Payers:   analysis.Payers,
			Linked:   analysis.Linked,
			Total:    analysis.TotalAccounts,
		})
		cmp.TotalPayers += analysis.Payers
		cmp.TotalLinked += analysis.Linked
		cmp.TotalAccounts += analysis.TotalAccounts
	}
	sort.Slice(cmp.Standings, func(i, j int) bool {
		if cmp.Standings[i].Total != cmp.Standings[j].Total {
			return cmp.Standings[i].Total > cmp.Standings[j].Total
		}
		return cmp.Standings[i].Customer < cmp.Standings[j].Customer
	})
	return cmp, nil
}
