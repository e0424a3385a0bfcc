package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cell addresses at most one PlEntry.
type Cell struct {
	NodeID        string
	AccountItemID string
	TargetMonth   time.Time
	Category      EntryCategory
}

func (c Cell) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", c.NodeID, c.AccountItemID, c.TargetMonth.Format(DateLayout), c.Category)
}

type PlEntry struct {
	ID            string
	NodeID        string
	AccountItemID string
	TargetMonth   time.Time // always the first day of a month, UTC
	Category      EntryCategory
	Amount        decimal.Decimal
	Description   *string

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
}

// FirstOfMonth truncates t to the first day of its month in UTC.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NewPlEntry creates the first entry for cell.
func NewPlEntry(cell Cell, amount decimal.Decimal, description *string, actor string) (*PlEntry, error) {
	if cell.NodeID == "" || cell.AccountItemID == "" {
		return nil, fmt.Errorf("%w: entry requires node and account item", ErrValidation)
	}
	if _, err := ParseEntryCategory(string(cell.Category)); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &PlEntry{
		ID:            uuid.New().String(),
		NodeID:        cell.NodeID,
		AccountItemID: cell.AccountItemID,
		TargetMonth:   FirstOfMonth(cell.TargetMonth),
		Category:      cell.Category,
		Amount:        amount,
		Description:   description,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     actor,
		UpdatedBy:     actor,
	}, nil
}

// Unchanged reports whether writing amount and description would leave e as
// it is. Amounts compare by exact decimal value.
func (e *PlEntry) Unchanged(amount decimal.Decimal, description *string) bool {
	return e.Amount.Equal(amount) && StrPtrEqual(e.Description, description)
}

// CloneOnto copies e onto nodeID with a new id; audit stamps are reset.
func (e *PlEntry) CloneOnto(nodeID, actor string, now time.Time) *PlEntry {
	return &PlEntry{
		ID:            uuid.New().String(),
		NodeID:        nodeID,
		AccountItemID: e.AccountItemID,
		TargetMonth:   e.TargetMonth,
		Category:      e.Category,
		Amount:        e.Amount,
		Description:   CloneStrPtr(e.Description),
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     actor,
		UpdatedBy:     actor,
	}
}
