package snapshot

// Column names of the account-snapshot domain.
const (
	ColAccountID    = "Account ID"
	ColAccountName  = "Account Name"
	ColSupportLevel = "Support Level"
	ColStatus       = "Status"
	ColAccountType  = "Account Type"
	ColPayerID      = "Payer ID"
	ColTags         = "Tags"
)

// AccountColumns are the columns an account snapshot must provide.
var AccountColumns = []string{
	ColAccountID,
	ColAccountName,
	ColSupportLevel,
	ColStatus,
	ColAccountType,
	ColPayerID,
	ColTags,
}

// AccountTrackedFields are the attributes compared entity-by-entity when
// diffing two account snapshots.
var AccountTrackedFields = []string{
	ColAccountName,
	ColSupportLevel,
	ColStatus,
	ColAccountType,
	ColPayerID,
	ColTags,
}

// Column names of the case-snapshot domain.
const (
	ColCaseID       = "Case ID"
	ColCaseCategory = "Category (C)"
	ColCasePayerID  = "Account PayerId"
	ColCaseType     = "Type (T)"
	ColCaseItem     = "Item (I)"
	ColCaseResolver = "Resolver"
	ColCaseSubject  = "Subject"
	ColCaseStatus   = "Status"
	ColCaseSeverity = "Severity"
)

// CaseColumns are the columns a monthly case file must provide.
var CaseColumns = []string{
	ColCaseID,
	ColCaseCategory,
	ColCasePayerID,
	ColCaseType,
	ColCaseItem,
	ColCaseResolver,
	ColCaseSubject,
	ColCaseStatus,
	ColCaseSeverity,
}

// AccountRecord is the typed view of one account row.
type AccountRecord struct {
	ID           string
	Name         string
	SupportLevel string
	Status       string
	Type         string
	PayerID      string
	Tags         string
}

// IsEnterprise reports whether the record sits at the Enterprise support tier.
func (a AccountRecord) IsEnterprise() bool {
	return equalFold(a.SupportLevel, "ENTERPRISE")
}

// IsPayer reports whether the record is a payer (top-level billing) account.
// A payer either carries the explicit type or has no payer reference at all.
func (a AccountRecord) IsPayer() bool {
	if a.Type != "" {
		return a.Type == "PAYER_ACCOUNT"
	}
	return a.PayerID == ""
}

// IsLinked reports whether the record is a linked account under a payer.
func (a AccountRecord) IsLinked() bool {
	if a.Type != "" {
		return a.Type == "LINKED_ACCOUNT"
	}
	return a.PayerID != ""
}

// Accounts converts the snapshot rows into typed account records, preserving
// file order.
func (s *Snapshot) Accounts() []AccountRecord {
	out := make([]AccountRecord, 0, len(s.Rows))
	for _, row := range s.Rows {
		out = append(out, AccountRecord{
			ID:           row.Get(ColAccountID),
			Name:         row.Get(ColAccountName),
			SupportLevel: row.Get(ColSupportLevel),
			Status:       row.Get(ColStatus),
			Type:         row.Get(ColAccountType),
			PayerID:      row.Get(ColPayerID),
			Tags:         row.Get(ColTags),
		})
	}
	return out
}

// CaseRecord is the typed view of one support-case row.
type CaseRecord struct {
	ID       string
	Category string
	PayerID  string
	Type     string
	Item     string
	Resolver string
	Subject  string
	Status   string
	Severity string
}

// IsTechnicalSupport reports whether the case category is Technical support.
func (c CaseRecord) IsTechnicalSupport() bool {
	return equalFold(c.Category, "technical support")
}

// Cases converts the snapshot rows into typed case records, preserving file
// order.
func (s *Snapshot) Cases() []CaseRecord {
	out := make([]CaseRecord, 0, len(s.Rows))
	for _, row := range s.Rows {
		out = append(out, CaseRecord{
			ID:       row.Get(ColCaseID),
			Category: row.Get(ColCaseCategory),
			PayerID:  row.Get(ColCasePayerID),
			Type:     row.Get(ColCaseType),
			Item:     row.Get(ColCaseItem),
			Resolver: row.Get(ColCaseResolver),
			Subject:  row.Get(ColCaseSubject),
			Status:   row.Get(ColCaseStatus),
			Severity: row.Get(ColCaseSeverity),
		})
	}
	return out
}

// OrphanLinked returns the linked accounts whose payer reference resolves to
// no payer record in the same set. Orphans are reported, never fatal.
func OrphanLinked(accounts []AccountRecord) []AccountRecord {
	payers := make(map[string]struct{})
	for _, a := range accounts {
		if a.IsPayer() && a.ID != "" {
			payers[a.ID] = struct{}{}
		}
	}
	var orphans []AccountRecord
	for _, a := range accounts {
		if !a.IsLinked() {
			continue
		}
		if _, ok := payers[a.PayerID]; !ok {
			orphans = append(orphans, a)
		}
	}
	return orphans
}

// equalFold is a tiny ASCII case-insensitive compare; the categorical values
// in these exports are plain ASCII.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
