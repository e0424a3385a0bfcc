package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/shopspring/decimal"
)

// Entry is a validated, typed row ready for the ledger.
type Entry struct {
	NodeID        string
	AccountItemID string
	TargetMonth   time.Time
	Category      domain.EntryCategory
	Amount        decimal.Decimal
	Description   *string
}

// AccountResolver maps an account code to its id.
type AccountResolver func(code string) (string, bool)

// Convert turns a validated EntryFile into typed entries, resolving account
// codes through resolve. Call ValidateEntryFile first.
func Convert(f *EntryFile, resolve AccountResolver) ([]Entry, error) {
	out := make([]Entry, 0, len(f.Entries))
	for i, e := range f.Entries {
		accountID := e.AccountItemID
		if accountID == "" {
			id, ok := resolve(e.AccountCode)
			if !ok {
				return nil, fmt.Errorf("entries[%d]: account code %q: %w", i, e.AccountCode, domain.ErrNotFound)
			}
			accountID = id
		}

		month, err := parseMonth(e.Month)
		if err != nil {
			return nil, fmt.Errorf("entries[%d].month: %w", i, err)
		}
		amount, err := decimal.NewFromString(e.Amount)
		if err != nil {
			return nil, fmt.Errorf("entries[%d].amount: %w", i, err)
		}

		out = append(out, Entry{
			NodeID:        e.NodeID,
			AccountItemID: accountID,
			TargetMonth:   month,
			Category:      domain.EntryCategory(e.Category),
			Amount:        amount,
			Description:   e.Description,
		})
	}
	return out, nil
}
