package domain

import "fmt"

type NodeType string

const (
	NodeInitiative       NodeType = "Initiative"
	NodeProject          NodeType = "Project"
	NodeSubProject       NodeType = "SubProject"
	NodeJob              NodeType = "Job"
	NodeAdjustmentBuffer NodeType = "AdjustmentBuffer"
)

// AllNodeTypes lists every node type in hierarchy order.
var AllNodeTypes = []NodeType{
	NodeInitiative,
	NodeProject,
	NodeSubProject,
	NodeJob,
	NodeAdjustmentBuffer,
}

// ParseNodeType accepts the canonical node type names.
func ParseNodeType(s string) (NodeType, error) {
	for _, t := range AllNodeTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown node type %q", ErrValidation, s)
}

type EntryCategory string

const (
	CategoryPlan   EntryCategory = "Plan"
	CategoryResult EntryCategory = "Result"
)

func ParseEntryCategory(s string) (EntryCategory, error) {
	switch EntryCategory(s) {
	case CategoryPlan, CategoryResult:
		return EntryCategory(s), nil
	}
	return "", fmt.Errorf("%w: unknown entry category %q", ErrValidation, s)
}

type ChangeType string

const (
	ChangeCreate ChangeType = "Create"
	ChangeUpdate ChangeType = "Update"
	ChangeDelete ChangeType = "Delete"
)

type AccountType string

const (
	AccountRevenue             AccountType = "Revenue"
	AccountCostOfGoodsSold     AccountType = "CostOfGoodsSold"
	AccountSellingGeneralAdmin AccountType = "SellingGeneralAdmin"
)

func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountRevenue, AccountCostOfGoodsSold, AccountSellingGeneralAdmin:
		return AccountType(s), nil
	}
	return "", fmt.Errorf("%w: unknown account type %q", ErrValidation, s)
}

// Operation sources recorded on entry history rows.
const (
	SourceAPI    = "API"
	SourceBulk   = "Bulk"
	SourceImport = "Import"
)
