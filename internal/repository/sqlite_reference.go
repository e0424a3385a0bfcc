package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/ghostledger/internal/db"
	"github.com/alexanderramin/ghostledger/internal/domain"
)

const accountItemColumns = `id, name, code, description, account_type, display_order,
		created_at, updated_at, deleted_at`

type SQLiteAccountItemRepo struct {
	db db.DBTX
}

func NewSQLiteAccountItemRepo(conn db.DBTX) *SQLiteAccountItemRepo {
	return &SQLiteAccountItemRepo{db: conn}
}

func (r *SQLiteAccountItemRepo) Create(ctx context.Context, a *domain.AccountItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_items (`+accountItemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Code, a.Description, string(a.AccountType), a.DisplayOrder,
		formatTimestamp(a.CreatedAt), formatTimestamp(a.UpdatedAt),
		nullableTimeToString(a.DeletedAt, timestampLayout),
	)
	if err != nil {
		return wrapErr("inserting account item", err)
	}
	return nil
}

func (r *SQLiteAccountItemRepo) GetByID(ctx context.Context, id string) (*domain.AccountItem, error) {
	query := `SELECT ` + accountItemColumns + ` FROM account_items WHERE id = ? AND deleted_at IS NULL`
	return scanAccountItem(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteAccountItemRepo) ListAll(ctx context.Context) ([]*domain.AccountItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountItemColumns+` FROM account_items
		WHERE deleted_at IS NULL ORDER BY display_order, code`)
	if err != nil {
		return nil, wrapErr("listing account items", err)
	}
	defer rows.Close()

	var out []*domain.AccountItem
	for rows.Next() {
		a, err := scanAccountItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("listing account items", err)
	}
	return out, nil
}

func scanAccountItem(row rowScanner) (*domain.AccountItem, error) {
	var a domain.AccountItem
	var accountType, createdStr, updatedStr string
	var description, deletedAt sql.NullString
	err := row.Scan(&a.ID, &a.Name, &a.Code, &description, &accountType, &a.DisplayOrder,
		&createdStr, &updatedStr, &deletedAt)
	if err != nil {
		return nil, scanErr("account item", err)
	}
	if a.CreatedAt, a.UpdatedAt, err = parseTimestamps(createdStr, updatedStr); err != nil {
		return nil, fmt.Errorf("account item %s: %w: %w", a.ID, domain.ErrStorage, err)
	}
	a.AccountType = domain.AccountType(accountType)
	a.Description = nullableString(description)
	a.DeletedAt = parseNullableTime(deletedAt, timestampLayout)
	return &a, nil
}

const serviceColumns = `id, name, slug, display_order, created_at, updated_at, deleted_at`

type SQLiteServiceRepo struct {
	db db.DBTX
}

func NewSQLiteServiceRepo(conn db.DBTX) *SQLiteServiceRepo {
	return &SQLiteServiceRepo{db: conn}
}

func (r *SQLiteServiceRepo) Create(ctx context.Context, s *domain.Service) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO services (`+serviceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Slug, s.DisplayOrder,
		formatTimestamp(s.CreatedAt), formatTimestamp(s.UpdatedAt),
		nullableTimeToString(s.DeletedAt, timestampLayout),
	)
	if err != nil {
		return wrapErr("inserting service", err)
	}
	return nil
}

func (r *SQLiteServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ? AND deleted_at IS NULL`
	return scanService(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteServiceRepo) GetBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE slug = ? AND deleted_at IS NULL`
	return scanService(r.db.QueryRowContext(ctx, query, slug))
}

func (r *SQLiteServiceRepo) ListAll(ctx context.Context) ([]*domain.Service, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+serviceColumns+` FROM services
		WHERE deleted_at IS NULL ORDER BY display_order, slug`)
	if err != nil {
		return nil, wrapErr("listing services", err)
	}
	defer rows.Close()

	var out []*domain.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("listing services", err)
	}
	return out, nil
}

func scanService(row rowScanner) (*domain.Service, error) {
	var s domain.Service
	var createdStr, updatedStr string
	var deletedAt sql.NullString
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.DisplayOrder, &createdStr, &updatedStr, &deletedAt)
	if err != nil {
		return nil, scanErr("service", err)
	}
	if s.CreatedAt, s.UpdatedAt, err = parseTimestamps(createdStr, updatedStr); err != nil {
		return nil, fmt.Errorf("service %s: %w: %w", s.ID, domain.ErrStorage, err)
	}
	s.DeletedAt = parseNullableTime(deletedAt, timestampLayout)
	return &s, nil
}
