package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ledger bundles the services over one database with a current scenario
// holding Initiative > Project > Job.
type ledger struct {
	db        *sql.DB
	store     Store
	scenarios ScenarioService
	nodes     NodeService
	entries   EntryService
	rollover  RolloverService
	accounts  AccountItemService
	catalog   CatalogService

	scenario   *domain.Scenario
	service    *domain.Service
	account    *domain.AccountItem
	initiative *domain.PlanNode
	project    *domain.PlanNode
	job        *domain.PlanNode
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	database := testutil.NewTestDB(t)
	store := NewStore(database)
	return &ledger{
		db:        database,
		store:     store,
		scenarios: NewScenarioService(store),
		nodes:     NewNodeService(store),
		entries:   NewEntryService(store, ""),
		rollover:  NewRolloverService(store),
		accounts:  NewAccountItemService(store),
		catalog:   NewCatalogService(store),
	}
}

func setupLedger(t *testing.T) *ledger {
	t.Helper()
	l := newLedger(t)
	ctx := context.Background()

	var err error
	l.scenario, err = l.scenarios.Create(ctx, CreateScenarioInput{
		Name:      "FY2025",
		StartDate: testutil.Date(2025, 1, 1),
		EndDate:   testutil.Date(2025, 12, 31),
	}, testutil.TestActor)
	require.NoError(t, err)
	require.NoError(t, l.scenarios.Activate(ctx, l.scenario.ID, testutil.TestActor))

	l.service, err = l.catalog.Create(ctx, "Consulting", "consulting", 1)
	require.NoError(t, err)
	l.account, err = l.accounts.Create(ctx, CreateAccountItemInput{
		Name: "Sales", Code: "4000", AccountType: domain.AccountRevenue,
	})
	require.NoError(t, err)

	l.initiative = l.mustNode(t, "Growth", domain.NodeInitiative, nil, nil)
	l.project = l.mustNode(t, "Expansion", domain.NodeProject, &l.initiative.ID, nil)
	l.job = l.mustNode(t, "Delivery", domain.NodeJob, &l.project.ID, &l.service.ID)
	return l
}

func (l *ledger) mustNode(t *testing.T, title string, nodeType domain.NodeType, parentID, serviceID *string) *domain.PlanNode {
	t.Helper()
	n, err := l.nodes.Create(context.Background(), CreateNodeInput{
		ScenarioID: l.scenario.ID,
		ParentID:   parentID,
		Title:      title,
		NodeType:   nodeType,
		ServiceID:  serviceID,
	}, testutil.TestActor)
	require.NoError(t, err)
	return n
}

func (l *ledger) entryInput(month int, category domain.EntryCategory, amount string) SaveEntryInput {
	return SaveEntryInput{
		NodeID:        l.job.ID,
		AccountItemID: l.account.ID,
		TargetMonth:   testutil.Date(2025, time.Month(month), 1),
		Category:      category,
		Amount:        decimal.RequireFromString(amount),
	}
}
