package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ghostledger/internal/db"
	"github.com/alexanderramin/ghostledger/internal/domain"
)

// planNodeColumns is the canonical SELECT column list for plan_nodes.
const planNodeColumns = `id, scenario_id, parent_id, lineage_id, title, description, node_type,
		display_order, service_id, created_at, updated_at, created_by, updated_by,
		deleted_at, deleted_by`

const planNodeColumnCount = 15

// SQLitePlanNodeRepo implements PlanNodeRepo using a SQLite database.
type SQLitePlanNodeRepo struct {
	db db.DBTX
}

// NewSQLitePlanNodeRepo creates a new SQLitePlanNodeRepo.
func NewSQLitePlanNodeRepo(conn db.DBTX) *SQLitePlanNodeRepo {
	return &SQLitePlanNodeRepo{db: conn}
}

func planNodeArgs(n *domain.PlanNode) []any {
	return []any{
		n.ID,
		n.ScenarioID,
		n.ParentID, // *string: nil becomes SQL NULL
		n.LineageID,
		n.Title,
		n.Description,
		string(n.NodeType),
		n.DisplayOrder,
		n.ServiceID,
		formatTimestamp(n.CreatedAt),
		formatTimestamp(n.UpdatedAt),
		n.CreatedBy,
		n.UpdatedBy,
		nullableTimeToString(n.DeletedAt, timestampLayout),
		n.DeletedBy,
	}
}

func (r *SQLitePlanNodeRepo) Create(ctx context.Context, n *domain.PlanNode) error {
	query := `INSERT INTO plan_nodes (` + planNodeColumns + `) VALUES (` + placeholders(planNodeColumnCount) + `)`
	if _, err := r.db.ExecContext(ctx, query, planNodeArgs(n)...); err != nil {
		return wrapErr("inserting plan node", err)
	}
	return nil
}

// CreateMany inserts nodes with multi-row INSERTs. Parents may follow their
// children in the slice; the parent_id foreign key is checked at commit.
func (r *SQLitePlanNodeRepo) CreateMany(ctx context.Context, nodes []*domain.PlanNode) error {
	row := "(" + placeholders(planNodeColumnCount) + ")"
	for _, c := range chunks(len(nodes), maxBatchRows) {
		batch := nodes[c[0]:c[1]]
		values := make([]string, len(batch))
		args := make([]any, 0, len(batch)*planNodeColumnCount)
		for i, n := range batch {
			values[i] = row
			args = append(args, planNodeArgs(n)...)
		}
		query := `INSERT INTO plan_nodes (` + planNodeColumns + `) VALUES ` + strings.Join(values, ", ")
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return wrapErr(fmt.Sprintf("inserting %d plan nodes", len(batch)), err)
		}
	}
	return nil
}

func (r *SQLitePlanNodeRepo) GetByID(ctx context.Context, id string) (*domain.PlanNode, error) {
	query := `SELECT ` + planNodeColumns + ` FROM plan_nodes WHERE id = ? AND deleted_at IS NULL`
	return scanNode(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLitePlanNodeRepo) ListByScenario(ctx context.Context, scenarioID string) ([]*domain.PlanNode, error) {
	query := `SELECT ` + planNodeColumns + ` FROM plan_nodes
		WHERE scenario_id = ? AND deleted_at IS NULL
		ORDER BY display_order, created_at, id`
	return r.queryNodes(ctx, "listing plan nodes by scenario", query, scenarioID)
}

func (r *SQLitePlanNodeRepo) ListRecent(ctx context.Context, limit int) ([]*domain.PlanNode, error) {
	query := `SELECT ` + planNodeColumns + ` FROM plan_nodes
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id
		LIMIT ?`
	return r.queryNodes(ctx, "listing recent plan nodes", query, limit)
}

func (r *SQLitePlanNodeRepo) CountChildren(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM plan_nodes WHERE parent_id = ? AND deleted_at IS NULL`, id).Scan(&n)
	if err != nil {
		return 0, wrapErr("counting child plan nodes", err)
	}
	return n, nil
}

func (r *SQLitePlanNodeRepo) Update(ctx context.Context, n *domain.PlanNode) error {
	query := `UPDATE plan_nodes SET title = ?, description = ?, display_order = ?,
		updated_at = ?, updated_by = ?
		WHERE id = ? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query,
		n.Title,
		n.Description,
		n.DisplayOrder,
		formatTimestamp(n.UpdatedAt),
		n.UpdatedBy,
		n.ID,
	)
	if err != nil {
		return wrapErr("updating plan node", err)
	}
	return requireOneRow(res, "plan node")
}

func (r *SQLitePlanNodeRepo) SoftDelete(ctx context.Context, id, actor string, now time.Time) error {
	ts := formatTimestamp(now)
	res, err := r.db.ExecContext(ctx,
		`UPDATE plan_nodes SET deleted_at = ?, deleted_by = ?, updated_at = ?, updated_by = ?
		WHERE id = ? AND deleted_at IS NULL`,
		ts, actor, ts, actor, id)
	if err != nil {
		return wrapErr("deleting plan node", err)
	}
	return requireOneRow(res, "plan node")
}

func (r *SQLitePlanNodeRepo) queryNodes(ctx context.Context, op, query string, args ...any) ([]*domain.PlanNode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var nodes []*domain.PlanNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return nodes, nil
}

func scanNode(row rowScanner) (*domain.PlanNode, error) {
	var n domain.PlanNode
	var nodeType, createdStr, updatedStr string
	var parentID, description, serviceID, deletedAt, deletedBy sql.NullString

	err := row.Scan(
		&n.ID, &n.ScenarioID, &parentID, &n.LineageID, &n.Title, &description, &nodeType,
		&n.DisplayOrder, &serviceID, &createdStr, &updatedStr, &n.CreatedBy, &n.UpdatedBy,
		&deletedAt, &deletedBy,
	)
	if err != nil {
		return nil, scanErr("plan node", err)
	}

	if n.CreatedAt, n.UpdatedAt, err = parseTimestamps(createdStr, updatedStr); err != nil {
		return nil, fmt.Errorf("plan node %s: %w: %w", n.ID, domain.ErrStorage, err)
	}
	n.NodeType = domain.NodeType(nodeType)
	n.ParentID = nullableString(parentID)
	n.Description = nullableString(description)
	n.ServiceID = nullableString(serviceID)
	n.DeletedAt = parseNullableTime(deletedAt, timestampLayout)
	n.DeletedBy = nullableString(deletedBy)
	return &n, nil
}
