package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/shopspring/decimal"
)

const monthLayout = "2006-01"

// ValidateEntryFile checks the file before conversion and returns every
// problem found.
func ValidateEntryFile(f *EntryFile) []error {
	if len(f.Entries) == 0 {
		return []error{fmt.Errorf("entries: at least one entry is required")}
	}

	var errs []error
	seen := make(map[string]int, len(f.Entries))
	for i, e := range f.Entries {
		prefix := fmt.Sprintf("entries[%d]", i)
		errs = append(errs, validateEntry(prefix, &e)...)

		key := strings.Join([]string{e.NodeID, e.AccountItemID, e.AccountCode, e.Month, e.Category}, "|")
		if first, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicates the cell of entries[%d]", prefix, first))
		} else {
			seen[key] = i
		}
	}
	return errs
}

func validateEntry(prefix string, e *EntryImport) []error {
	var errs []error

	if e.NodeID == "" {
		errs = append(errs, fmt.Errorf("%s.node_id is required", prefix))
	}
	switch {
	case e.AccountItemID == "" && e.AccountCode == "":
		errs = append(errs, fmt.Errorf("%s: one of account_item_id or account_code is required", prefix))
	case e.AccountItemID != "" && e.AccountCode != "":
		errs = append(errs, fmt.Errorf("%s: account_item_id and account_code are mutually exclusive", prefix))
	}
	if _, err := parseMonth(e.Month); err != nil {
		errs = append(errs, fmt.Errorf("%s.month: %w", prefix, err))
	}
	if _, err := domain.ParseEntryCategory(e.Category); err != nil {
		errs = append(errs, fmt.Errorf("%s.category: invalid value %q (expected Plan or Result)", prefix, e.Category))
	}
	if e.Amount == "" {
		errs = append(errs, fmt.Errorf("%s.amount is required", prefix))
	} else if _, err := decimal.NewFromString(e.Amount); err != nil {
		errs = append(errs, fmt.Errorf("%s.amount: invalid decimal %q", prefix, e.Amount))
	}

	return errs
}

// parseMonth accepts YYYY-MM or a full YYYY-MM-DD date and returns the first
// day of that month.
func parseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("is required")
	}
	for _, layout := range []string{monthLayout, domain.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.FirstOfMonth(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
}
