package service

import (
	"context"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/importer"
	"github.com/shopspring/decimal"
)

type CreateScenarioInput struct {
	Name        string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
}

type ScenarioService interface {
	Create(ctx context.Context, in CreateScenarioInput, actor string) (*domain.Scenario, error)
	// Activate makes id the only current scenario in one transaction.
	Activate(ctx context.Context, id, actor string) error
	// EnsureWritable fails with domain.ErrReadOnlyScenario unless id is the
	// current, unlocked scenario.
	EnsureWritable(ctx context.Context, id string) error
	Lock(ctx context.Context, id, actor string) error
	GetByID(ctx context.Context, id string) (*domain.Scenario, error)
	Current(ctx context.Context) (*domain.Scenario, error)
	ListAll(ctx context.Context) ([]*domain.Scenario, error)
}

type CreateNodeInput struct {
	ScenarioID   string
	ParentID     *string
	Title        string
	Description  *string
	NodeType     domain.NodeType
	DisplayOrder int
	ServiceID    *string
	// LineageID is empty for a new conceptual node.
	LineageID string
}

type NodeService interface {
	Create(ctx context.Context, in CreateNodeInput, actor string) (*domain.PlanNode, error)
	Update(ctx context.Context, id string, patch domain.PlanNodePatch, actor string) (*domain.PlanNode, error)
	Delete(ctx context.Context, id, actor string) error
	GetByID(ctx context.Context, id string) (*domain.PlanNode, error)
	ListByScenario(ctx context.Context, scenarioID string) ([]*domain.PlanNode, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.PlanNode, error)
}

type SaveEntryInput struct {
	NodeID        string
	AccountItemID string
	TargetMonth   time.Time
	Category      domain.EntryCategory
	Amount        decimal.Decimal
	Description   *string
}

func (in SaveEntryInput) cell() domain.Cell {
	return domain.Cell{
		NodeID:        in.NodeID,
		AccountItemID: in.AccountItemID,
		TargetMonth:   domain.FirstOfMonth(in.TargetMonth),
		Category:      in.Category,
	}
}

type EntryService interface {
	// SaveEntry upserts one cell and appends a history row when it changed.
	SaveEntry(ctx context.Context, in SaveEntryInput, actor string) (*domain.PlEntry, error)
	// SaveBulk applies every input in one transaction; any failure aborts all.
	SaveBulk(ctx context.Context, inputs []SaveEntryInput, actor, source string) ([]*domain.PlEntry, error)
	ListByNode(ctx context.Context, nodeID string, category *domain.EntryCategory) ([]*domain.PlEntry, error)
	ListByScenario(ctx context.Context, scenarioID string) ([]*domain.PlEntry, error)
	History(ctx context.Context, entryID string) ([]*domain.PlEntryHistory, error)
}

type RolloverInput struct {
	SourceScenarioID string
	Name             string
	StartDate        time.Time
	EndDate          time.Time
}

type RolloverResult struct {
	Scenario   *domain.Scenario
	NodeCount  int
	EntryCount int
}

type RolloverService interface {
	Rollover(ctx context.Context, in RolloverInput, actor string) (*RolloverResult, error)
}

type CreateAccountItemInput struct {
	Name         string
	Code         string
	Description  *string
	AccountType  domain.AccountType
	DisplayOrder int
}

type AccountItemService interface {
	Create(ctx context.Context, in CreateAccountItemInput) (*domain.AccountItem, error)
	ListAll(ctx context.Context) ([]*domain.AccountItem, error)
}

// CatalogService manages the Service reference data nodes are bound to.
type CatalogService interface {
	Create(ctx context.Context, name, slug string, displayOrder int) (*domain.Service, error)
	ListAll(ctx context.Context) ([]*domain.Service, error)
}

type ImportResult struct {
	Entries []*domain.PlEntry
}

// ImportService loads a YAML entry file and saves it through the ledger in
// one transaction.
type ImportService interface {
	ImportEntries(ctx context.Context, filePath, actor string) (*ImportResult, error)
	ImportEntryFile(ctx context.Context, file *importer.EntryFile, actor string) (*ImportResult, error)
}
