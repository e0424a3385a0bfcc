package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/ghostledger/internal/db"
	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLitePlEntryHistoryRepo is append-only: there is no update or delete.
type SQLitePlEntryHistoryRepo struct {
	db db.DBTX
}

func NewSQLitePlEntryHistoryRepo(conn db.DBTX) *SQLitePlEntryHistoryRepo {
	return &SQLitePlEntryHistoryRepo{db: conn}
}

func (r *SQLitePlEntryHistoryRepo) Append(ctx context.Context, h *domain.PlEntryHistory) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pl_entry_histories
			(id, entry_id, change_type, previous_amount, new_amount, changed_at, changed_by, operation_source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID,
		h.EntryID,
		string(h.ChangeType),
		nullableDecimalToString(h.PreviousAmount),
		h.NewAmount.String(),
		formatTimestamp(h.ChangedAt),
		h.ChangedBy,
		h.OperationSource,
	)
	if err != nil {
		return wrapErr("appending entry history", err)
	}
	return nil
}

func (r *SQLitePlEntryHistoryRepo) ListByEntry(ctx context.Context, entryID string) ([]*domain.PlEntryHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entry_id, change_type, previous_amount, new_amount, changed_at, changed_by, operation_source
		FROM pl_entry_histories WHERE entry_id = ?
		ORDER BY changed_at, rowid`, entryID)
	if err != nil {
		return nil, wrapErr("listing entry history", err)
	}
	defer rows.Close()

	var out []*domain.PlEntryHistory
	for rows.Next() {
		var h domain.PlEntryHistory
		var change, newAmount, changedAt string
		var previous, source sql.NullString
		if err := rows.Scan(&h.ID, &h.EntryID, &change, &previous, &newAmount, &changedAt, &h.ChangedBy, &source); err != nil {
			return nil, scanErr("entry history", err)
		}
		h.ChangeType = domain.ChangeType(change)
		if h.PreviousAmount, err = parseNullableDecimal(previous); err != nil {
			return nil, fmt.Errorf("history %s previous_amount: %w: %w", h.ID, domain.ErrStorage, err)
		}
		if h.NewAmount, err = decimal.NewFromString(newAmount); err != nil {
			return nil, fmt.Errorf("history %s new_amount: %w: %w", h.ID, domain.ErrStorage, err)
		}
		if h.ChangedAt, err = time.Parse(timestampLayout, changedAt); err != nil {
			return nil, fmt.Errorf("history %s changed_at: %w: %w", h.ID, domain.ErrStorage, err)
		}
		h.OperationSource = source.String
		out = append(out, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("listing entry history", err)
	}
	return out, nil
}
