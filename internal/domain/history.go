package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlEntryHistory is one append-only audit row per cell write.
type PlEntryHistory struct {
	ID              string
	EntryID         string
	ChangeType      ChangeType
	PreviousAmount  *decimal.Decimal // nil for Create
	NewAmount       decimal.Decimal
	ChangedAt       time.Time
	ChangedBy       string
	OperationSource string
}

func NewPlEntryHistory(entryID string, change ChangeType, previous *decimal.Decimal, amount decimal.Decimal, actor, source string) *PlEntryHistory {
	return &PlEntryHistory{
		ID:              uuid.New().String(),
		EntryID:         entryID,
		ChangeType:      change,
		PreviousAmount:  previous,
		NewAmount:       amount,
		ChangedAt:       time.Now().UTC(),
		ChangedBy:       actor,
		OperationSource: source,
	}
}
