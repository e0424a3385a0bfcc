package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// treeFixture is a current scenario holding Initiative > Project > Job.
type treeFixture struct {
	scenario   *domain.Scenario
	service    *domain.Service
	account    *domain.AccountItem
	initiative *domain.PlanNode
	project    *domain.PlanNode
	job        *domain.PlanNode
}

func seedTree(t *testing.T, database *sql.DB) *treeFixture {
	t.Helper()
	ctx := context.Background()
	repos := NewSQLiteRepos(database)

	f := &treeFixture{
		scenario: testutil.NewTestScenario("FY2025", testutil.WithCurrent()),
		service:  testutil.NewTestService("Consulting"),
		account:  testutil.NewTestAccountItem("4000", domain.AccountRevenue),
	}
	f.initiative = testutil.NewTestNode(f.scenario.ID, "Growth", domain.NodeInitiative)
	f.project = testutil.NewTestNode(f.scenario.ID, "Expansion", domain.NodeProject,
		testutil.WithParentID(f.initiative.ID))
	f.job = testutil.NewTestNode(f.scenario.ID, "Delivery", domain.NodeJob,
		testutil.WithParentID(f.project.ID), testutil.WithServiceID(f.service.ID))

	require.NoError(t, repos.Scenarios.Create(ctx, f.scenario))
	require.NoError(t, repos.Services.Create(ctx, f.service))
	require.NoError(t, repos.AccountItems.Create(ctx, f.account))
	require.NoError(t, repos.Nodes.Create(ctx, f.initiative))
	require.NoError(t, repos.Nodes.Create(ctx, f.project))
	require.NoError(t, repos.Nodes.Create(ctx, f.job))
	return f
}

func TestScenarioRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteScenarioRepo(database)
	ctx := context.Background()

	desc := "baseline"
	s := testutil.NewTestScenario("FY2025")
	s.Description = &desc
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "FY2025", got.Name)
	assert.Equal(t, "baseline", *got.Description)
	assert.Equal(t, testutil.Date(2025, 1, 1), got.StartDate)
	assert.Equal(t, testutil.Date(2025, 12, 31), got.EndDate)
	assert.False(t, got.IsCurrent)
	assert.WithinDuration(t, s.CreatedAt, got.CreatedAt, time.Microsecond)
}

func TestScenarioRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteScenarioRepo(testutil.NewTestDB(t))
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScenarioRepo_ListAll_StartDateDesc(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteScenarioRepo(database)
	ctx := context.Background()

	for _, y := range []int{2024, 2026, 2025} {
		s := testutil.NewTestScenario("FY", testutil.WithDates(testutil.Date(y, 1, 1), testutil.Date(y, 12, 31)))
		require.NoError(t, repo.Create(ctx, s))
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 2026, all[0].StartDate.Year())
	assert.Equal(t, 2025, all[1].StartDate.Year())
	assert.Equal(t, 2024, all[2].StartDate.Year())
}

func TestScenarioRepo_SetCurrent(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteScenarioRepo(database)
	ctx := context.Background()

	a := testutil.NewTestScenario("A", testutil.WithCurrent())
	b := testutil.NewTestScenario("B")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	require.NoError(t, repo.SetCurrent(ctx, b.ID, "u2", time.Now()))

	cur, err := repo.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, cur.ID)
	assert.Equal(t, "u2", cur.UpdatedBy)

	gotA, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, gotA.IsCurrent)
}

func TestScenarioRepo_SetCurrent_Missing(t *testing.T) {
	repo := NewSQLiteScenarioRepo(testutil.NewTestDB(t))
	err := repo.SetCurrent(context.Background(), "missing", "u", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScenarioRepo_GetCurrent_None(t *testing.T) {
	repo := NewSQLiteScenarioRepo(testutil.NewTestDB(t))
	_, err := repo.GetCurrent(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScenarioRepo_Lock(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteScenarioRepo(database)
	ctx := context.Background()

	s := testutil.NewTestScenario("A", testutil.WithCurrent())
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Lock(ctx, s.ID, "auditor", time.Now()))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.IsLocked)
	assert.True(t, got.IsCurrent)
	assert.False(t, got.Writable())
	assert.ErrorIs(t, repo.Lock(ctx, "missing", "auditor", time.Now()), domain.ErrNotFound)
}
