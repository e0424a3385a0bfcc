package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/shopspring/decimal"
)

// FormatScenarioList renders scenarios newest first, as the store returns them.
func FormatScenarioList(list []*domain.Scenario) string {
	if len(list) == 0 {
		return Dim("No scenarios yet. Create one with 'ghostledger scenario add'.") + "\n"
	}
	headers := []string{"ID", "NAME", "PERIOD", "STATUS", "UPDATED"}
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			TruncID(s.ID),
			s.Name,
			FormatPeriod(s),
			ScenarioBadge(s),
			HumanTimestamp(s.UpdatedAt),
		})
	}
	return RenderTable(headers, rows)
}

// FormatScenario renders one scenario in a box.
func FormatScenario(s *domain.Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", Bold(s.Name), ScenarioBadge(s))
	fmt.Fprintf(&b, "  %s  %s\n", Dim("ID     "), s.ID)
	fmt.Fprintf(&b, "  %s  %s\n", Dim("PERIOD "), FormatPeriod(s))
	fmt.Fprintf(&b, "  %s  %s\n", Dim("DESC   "), OrDash(s.Description))
	fmt.Fprintf(&b, "  %s  %s\n", Dim("UPDATED"), HumanTimestamp(s.UpdatedAt))
	return RenderBox("Scenario", b.String())
}

// FormatEntries renders a node's entries with a per-category total.
// accountCodes maps account item ids to display codes.
func FormatEntries(entries []*domain.PlEntry, accountCodes map[string]string) string {
	if len(entries) == 0 {
		return Dim("No entries.") + "\n"
	}
	headers := []string{"MONTH", "ACCOUNT", "CATEGORY", "AMOUNT", "DESCRIPTION", "ID"}
	rows := make([][]string, 0, len(entries))
	totals := map[domain.EntryCategory]decimal.Decimal{}
	for _, e := range entries {
		code, ok := accountCodes[e.AccountItemID]
		if !ok {
			code = shortID(e.AccountItemID)
		}
		rows = append(rows, []string{
			FormatMonth(e.TargetMonth),
			code,
			CategoryPill(e.Category),
			AmountStyled(e.Amount),
			OrDash(e.Description),
			TruncID(e.ID),
		})
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows, 3))
	b.WriteString("\n")
	for _, c := range []domain.EntryCategory{domain.CategoryPlan, domain.CategoryResult} {
		if total, ok := totals[c]; ok {
			fmt.Fprintf(&b, "  %s %s  %s\n", Dim("TOTAL"), CategoryPill(c), AmountStyled(total))
		}
	}
	return b.String()
}

// FormatHistory renders an entry's audit trail oldest first.
func FormatHistory(history []*domain.PlEntryHistory) string {
	if len(history) == 0 {
		return Dim("No history recorded.") + "\n"
	}
	headers := []string{"WHEN", "CHANGE", "PREVIOUS", "NEW", "BY", "SOURCE"}
	rows := make([][]string, 0, len(history))
	for _, h := range history {
		previous := Dim("--")
		if h.PreviousAmount != nil {
			previous = AmountStyled(*h.PreviousAmount)
		}
		rows = append(rows, []string{
			h.ChangedAt.Format("2006-01-02 15:04"),
			string(h.ChangeType),
			previous,
			AmountStyled(h.NewAmount),
			h.ChangedBy,
			Dim(h.OperationSource),
		})
	}
	return RenderTable(headers, rows, 2, 3)
}

func FormatAccountItems(items []*domain.AccountItem) string {
	if len(items) == 0 {
		return Dim("No account items.") + "\n"
	}
	headers := []string{"CODE", "NAME", "TYPE", "ORDER", "ID"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.Code,
			it.Name,
			string(it.AccountType),
			fmt.Sprintf("%d", it.DisplayOrder),
			TruncID(it.ID),
		})
	}
	return RenderTable(headers, rows, 3)
}

func FormatServices(services []*domain.Service) string {
	if len(services) == 0 {
		return Dim("No services.") + "\n"
	}
	headers := []string{"SLUG", "NAME", "ORDER", "ID"}
	rows := make([][]string, 0, len(services))
	for _, s := range services {
		rows = append(rows, []string{
			s.Slug,
			s.Name,
			fmt.Sprintf("%d", s.DisplayOrder),
			TruncID(s.ID),
		})
	}
	return RenderTable(headers, rows, 2)
}

// FormatRollover summarizes a finished rollover.
func FormatRollover(target *domain.Scenario, nodes, entries int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", Bold(target.Name), ScenarioBadge(target))
	fmt.Fprintf(&b, "  %s  %s\n", Dim("ID     "), target.ID)
	fmt.Fprintf(&b, "  %s  %s\n", Dim("PERIOD "), FormatPeriod(target))
	fmt.Fprintf(&b, "  %s  %d\n", Dim("NODES  "), nodes)
	fmt.Fprintf(&b, "  %s  %d\n", Dim("ENTRIES"), entries)
	return RenderBox("Rollover complete", b.String())
}
