package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/ghostledger/internal/db"
	"github.com/alexanderramin/ghostledger/internal/domain"
)

// Read operations exclude soft-deleted rows unless stated otherwise.

type ScenarioRepo interface {
	Create(ctx context.Context, s *domain.Scenario) error
	GetByID(ctx context.Context, id string) (*domain.Scenario, error)
	GetCurrent(ctx context.Context) (*domain.Scenario, error)
	ListAll(ctx context.Context) ([]*domain.Scenario, error)
	// SetCurrent demotes every scenario and promotes id. Callers run it
	// inside a transaction so the all-demoted state is never visible.
	SetCurrent(ctx context.Context, id, actor string, now time.Time) error
	Lock(ctx context.Context, id, actor string, now time.Time) error
}

type PlanNodeRepo interface {
	Create(ctx context.Context, n *domain.PlanNode) error
	CreateMany(ctx context.Context, nodes []*domain.PlanNode) error
	GetByID(ctx context.Context, id string) (*domain.PlanNode, error)
	ListByScenario(ctx context.Context, scenarioID string) ([]*domain.PlanNode, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.PlanNode, error)
	CountChildren(ctx context.Context, id string) (int, error)
	Update(ctx context.Context, n *domain.PlanNode) error
	SoftDelete(ctx context.Context, id, actor string, now time.Time) error
}

type PlEntryRepo interface {
	Create(ctx context.Context, e *domain.PlEntry) error
	CreateMany(ctx context.Context, entries []*domain.PlEntry) error
	GetByID(ctx context.Context, id string) (*domain.PlEntry, error)
	FindByCell(ctx context.Context, cell domain.Cell) (*domain.PlEntry, error)
	// ListByNode returns entries ordered by target month then account item.
	// A nil category matches both categories.
	ListByNode(ctx context.Context, nodeID string, category *domain.EntryCategory) ([]*domain.PlEntry, error)
	ListByNodeIDs(ctx context.Context, nodeIDs []string) ([]*domain.PlEntry, error)
	ListByScenario(ctx context.Context, scenarioID string) ([]*domain.PlEntry, error)
	CountByNode(ctx context.Context, nodeID string) (int, error)
	Update(ctx context.Context, e *domain.PlEntry) error
}

type PlEntryHistoryRepo interface {
	Append(ctx context.Context, h *domain.PlEntryHistory) error
	ListByEntry(ctx context.Context, entryID string) ([]*domain.PlEntryHistory, error)
}

type AccountItemRepo interface {
	Create(ctx context.Context, a *domain.AccountItem) error
	GetByID(ctx context.Context, id string) (*domain.AccountItem, error)
	ListAll(ctx context.Context) ([]*domain.AccountItem, error)
}

type ServiceRepo interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Service, error)
	ListAll(ctx context.Context) ([]*domain.Service, error)
}

// Repos bundles every store bound to one connection or transaction.
type Repos struct {
	Scenarios    ScenarioRepo
	Nodes        PlanNodeRepo
	Entries      PlEntryRepo
	History      PlEntryHistoryRepo
	AccountItems AccountItemRepo
	Services     ServiceRepo
}

// ReposFactory builds a Repos bundle over conn. Services call it with the
// *sql.Tx handed to db.UnitOfWork.WithinTx.
type ReposFactory func(conn db.DBTX) Repos

// NewSQLiteRepos builds the SQLite-backed bundle over conn.
func NewSQLiteRepos(conn db.DBTX) Repos {
	return Repos{
		Scenarios:    NewSQLiteScenarioRepo(conn),
		Nodes:        NewSQLitePlanNodeRepo(conn),
		Entries:      NewSQLitePlEntryRepo(conn),
		History:      NewSQLitePlEntryHistoryRepo(conn),
		AccountItems: NewSQLiteAccountItemRepo(conn),
		Services:     NewSQLiteServiceRepo(conn),
	}
}
