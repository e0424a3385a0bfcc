package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/ghostledger/internal/db"
	"github.com/alexanderramin/ghostledger/internal/domain"
)

const scenarioColumns = `id, name, description, start_date, end_date, is_locked, is_current,
		created_at, updated_at, created_by, updated_by, deleted_at, deleted_by`

// SQLiteScenarioRepo implements ScenarioRepo using a SQLite database.
type SQLiteScenarioRepo struct {
	db db.DBTX
}

func NewSQLiteScenarioRepo(conn db.DBTX) *SQLiteScenarioRepo {
	return &SQLiteScenarioRepo{db: conn}
}

func (r *SQLiteScenarioRepo) Create(ctx context.Context, s *domain.Scenario) error {
	query := `INSERT INTO scenarios (` + scenarioColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Description,
		s.StartDate.Format(dateLayout),
		s.EndDate.Format(dateLayout),
		boolToInt(s.IsLocked),
		boolToInt(s.IsCurrent),
		formatTimestamp(s.CreatedAt),
		formatTimestamp(s.UpdatedAt),
		s.CreatedBy,
		s.UpdatedBy,
		nullableTimeToString(s.DeletedAt, timestampLayout),
		s.DeletedBy,
	)
	if err != nil {
		return wrapErr("inserting scenario", err)
	}
	return nil
}

func (r *SQLiteScenarioRepo) GetByID(ctx context.Context, id string) (*domain.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE id = ? AND deleted_at IS NULL`
	return scanScenario(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteScenarioRepo) GetCurrent(ctx context.Context) (*domain.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE is_current = 1 AND deleted_at IS NULL`
	s, err := scanScenario(r.db.QueryRowContext(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("current %w", err)
	}
	return s, nil
}

func (r *SQLiteScenarioRepo) ListAll(ctx context.Context) ([]*domain.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE deleted_at IS NULL
		ORDER BY start_date DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("listing scenarios", err)
	}
	defer rows.Close()

	var out []*domain.Scenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterating scenarios", err)
	}
	return out, nil
}

func (r *SQLiteScenarioRepo) SetCurrent(ctx context.Context, id, actor string, now time.Time) error {
	ts := formatTimestamp(now)
	if _, err := r.db.ExecContext(ctx,
		`UPDATE scenarios SET is_current = 0, updated_at = ?, updated_by = ? WHERE is_current = 1`,
		ts, actor); err != nil {
		return wrapErr("demoting current scenario", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE scenarios SET is_current = 1, updated_at = ?, updated_by = ?
		WHERE id = ? AND deleted_at IS NULL`,
		ts, actor, id)
	if err != nil {
		return wrapErr("promoting scenario", err)
	}
	return requireOneRow(res, "scenario")
}

func (r *SQLiteScenarioRepo) Lock(ctx context.Context, id, actor string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scenarios SET is_locked = 1, updated_at = ?, updated_by = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTimestamp(now), actor, id)
	if err != nil {
		return wrapErr("locking scenario", err)
	}
	return requireOneRow(res, "scenario")
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (*domain.Scenario, error) {
	var s domain.Scenario
	var description, deletedAt, deletedBy sql.NullString
	var startStr, endStr, createdStr, updatedStr string
	var locked, current int

	err := row.Scan(
		&s.ID, &s.Name, &description, &startStr, &endStr, &locked, &current,
		&createdStr, &updatedStr, &s.CreatedBy, &s.UpdatedBy, &deletedAt, &deletedBy,
	)
	if err != nil {
		return nil, scanErr("scenario", err)
	}

	if s.StartDate, err = time.Parse(dateLayout, startStr); err != nil {
		return nil, fmt.Errorf("parsing scenario start_date: %w: %w", domain.ErrStorage, err)
	}
	if s.EndDate, err = time.Parse(dateLayout, endStr); err != nil {
		return nil, fmt.Errorf("parsing scenario end_date: %w: %w", domain.ErrStorage, err)
	}
	if s.CreatedAt, s.UpdatedAt, err = parseTimestamps(createdStr, updatedStr); err != nil {
		return nil, fmt.Errorf("scenario %s: %w: %w", s.ID, domain.ErrStorage, err)
	}
	s.Description = nullableString(description)
	s.IsLocked = intToBool(locked)
	s.IsCurrent = intToBool(current)
	s.DeletedAt = parseNullableTime(deletedAt, timestampLayout)
	s.DeletedBy = nullableString(deletedBy)
	return &s, nil
}

func requireOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("reading rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
