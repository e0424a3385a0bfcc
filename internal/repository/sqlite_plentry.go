package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ghostledger/internal/db"
	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/shopspring/decimal"
)

const plEntryColumns = `id, node_id, account_item_id, target_month, entry_category, amount,
		description, created_at, updated_at, created_by, updated_by`

const plEntryColumnCount = 11

// SQLitePlEntryRepo implements PlEntryRepo using a SQLite database.
type SQLitePlEntryRepo struct {
	db db.DBTX
}

func NewSQLitePlEntryRepo(conn db.DBTX) *SQLitePlEntryRepo {
	return &SQLitePlEntryRepo{db: conn}
}

func plEntryArgs(e *domain.PlEntry) []any {
	return []any{
		e.ID,
		e.NodeID,
		e.AccountItemID,
		e.TargetMonth.Format(dateLayout),
		string(e.Category),
		e.Amount.String(),
		e.Description,
		formatTimestamp(e.CreatedAt),
		formatTimestamp(e.UpdatedAt),
		e.CreatedBy,
		e.UpdatedBy,
	}
}

func (r *SQLitePlEntryRepo) Create(ctx context.Context, e *domain.PlEntry) error {
	query := `INSERT INTO pl_entries (` + plEntryColumns + `) VALUES (` + placeholders(plEntryColumnCount) + `)`
	if _, err := r.db.ExecContext(ctx, query, plEntryArgs(e)...); err != nil {
		return wrapErr("inserting entry", err)
	}
	return nil
}

func (r *SQLitePlEntryRepo) CreateMany(ctx context.Context, entries []*domain.PlEntry) error {
	row := "(" + placeholders(plEntryColumnCount) + ")"
	for _, c := range chunks(len(entries), maxBatchRows) {
		batch := entries[c[0]:c[1]]
		values := make([]string, len(batch))
		args := make([]any, 0, len(batch)*plEntryColumnCount)
		for i, e := range batch {
			values[i] = row
			args = append(args, plEntryArgs(e)...)
		}
		query := `INSERT INTO pl_entries (` + plEntryColumns + `) VALUES ` + strings.Join(values, ", ")
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return wrapErr(fmt.Sprintf("inserting %d entries", len(batch)), err)
		}
	}
	return nil
}

func (r *SQLitePlEntryRepo) GetByID(ctx context.Context, id string) (*domain.PlEntry, error) {
	query := `SELECT ` + plEntryColumns + ` FROM pl_entries WHERE id = ?`
	return scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLitePlEntryRepo) FindByCell(ctx context.Context, cell domain.Cell) (*domain.PlEntry, error) {
	query := `SELECT ` + plEntryColumns + ` FROM pl_entries
		WHERE node_id = ? AND account_item_id = ? AND target_month = ? AND entry_category = ?`
	return scanEntry(r.db.QueryRowContext(ctx, query,
		cell.NodeID, cell.AccountItemID,
		domain.FirstOfMonth(cell.TargetMonth).Format(dateLayout),
		string(cell.Category)))
}

func (r *SQLitePlEntryRepo) ListByNode(ctx context.Context, nodeID string, category *domain.EntryCategory) ([]*domain.PlEntry, error) {
	query := `SELECT ` + plEntryColumns + ` FROM pl_entries WHERE node_id = ?`
	args := []any{nodeID}
	if category != nil {
		query += ` AND entry_category = ?`
		args = append(args, string(*category))
	}
	query += ` ORDER BY target_month, account_item_id, entry_category`
	return r.queryEntries(ctx, "listing entries by node", query, args...)
}

func (r *SQLitePlEntryRepo) ListByNodeIDs(ctx context.Context, nodeIDs []string) ([]*domain.PlEntry, error) {
	var out []*domain.PlEntry
	for _, c := range chunks(len(nodeIDs), maxBatchRows) {
		batch := nodeIDs[c[0]:c[1]]
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		query := `SELECT ` + plEntryColumns + ` FROM pl_entries
			WHERE node_id IN (` + placeholders(len(batch)) + `)
			ORDER BY node_id, target_month, account_item_id, entry_category`
		entries, err := r.queryEntries(ctx, "listing entries by nodes", query, args...)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

func (r *SQLitePlEntryRepo) ListByScenario(ctx context.Context, scenarioID string) ([]*domain.PlEntry, error) {
	query := `SELECT e.id, e.node_id, e.account_item_id, e.target_month, e.entry_category, e.amount,
			e.description, e.created_at, e.updated_at, e.created_by, e.updated_by
		FROM pl_entries e
		JOIN plan_nodes n ON n.id = e.node_id
		WHERE n.scenario_id = ? AND n.deleted_at IS NULL
		ORDER BY n.display_order, n.created_at, e.target_month, e.account_item_id, e.entry_category`
	return r.queryEntries(ctx, "listing entries by scenario", query, scenarioID)
}

func (r *SQLitePlEntryRepo) CountByNode(ctx context.Context, nodeID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pl_entries WHERE node_id = ?`, nodeID).Scan(&n); err != nil {
		return 0, wrapErr("counting entries", err)
	}
	return n, nil
}

func (r *SQLitePlEntryRepo) Update(ctx context.Context, e *domain.PlEntry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pl_entries SET amount = ?, description = ?, updated_at = ?, updated_by = ?
		WHERE id = ?`,
		e.Amount.String(), e.Description, formatTimestamp(e.UpdatedAt), e.UpdatedBy, e.ID)
	if err != nil {
		return wrapErr("updating entry", err)
	}
	return requireOneRow(res, "entry")
}

func (r *SQLitePlEntryRepo) queryEntries(ctx context.Context, op, query string, args ...any) ([]*domain.PlEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var out []*domain.PlEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return out, nil
}

func scanEntry(row rowScanner) (*domain.PlEntry, error) {
	var e domain.PlEntry
	var monthStr, category, amountStr, createdStr, updatedStr string
	var description sql.NullString

	err := row.Scan(
		&e.ID, &e.NodeID, &e.AccountItemID, &monthStr, &category, &amountStr,
		&description, &createdStr, &updatedStr, &e.CreatedBy, &e.UpdatedBy,
	)
	if err != nil {
		return nil, scanErr("entry", err)
	}

	if e.TargetMonth, err = time.Parse(dateLayout, monthStr); err != nil {
		return nil, fmt.Errorf("entry %s target_month: %w: %w", e.ID, domain.ErrStorage, err)
	}
	if e.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("entry %s amount: %w: %w", e.ID, domain.ErrStorage, err)
	}
	if e.CreatedAt, e.UpdatedAt, err = parseTimestamps(createdStr, updatedStr); err != nil {
		return nil, fmt.Errorf("entry %s: %w: %w", e.ID, domain.ErrStorage, err)
	}
	e.Category = domain.EntryCategory(category)
	e.Description = nullableString(description)
	return &e, nil
}
