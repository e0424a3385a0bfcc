package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryService_SaveEntry_Create(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()

	in := l.entryInput(3, domain.CategoryPlan, "1200.50")
	in.Description = strPtr("retainer")
	e, err := l.entries.SaveEntry(ctx, in, testutil.TestActor)
	require.NoError(t, err)
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("1200.5")))
	assert.Equal(t, testutil.Date(2025, 3, 1), e.TargetMonth)

	history, err := l.entries.History(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ChangeCreate, history[0].ChangeType)
	assert.Nil(t, history[0].PreviousAmount)
	assert.True(t, history[0].NewAmount.Equal(e.Amount))
	assert.Equal(t, testutil.TestActor, history[0].ChangedBy)
	assert.Equal(t, domain.SourceAPI, history[0].OperationSource)
}

func TestEntryService_SaveEntry_IdenticalRewriteIsNoop(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()

	first, err := l.entries.SaveEntry(ctx, l.entryInput(3, domain.CategoryPlan, "100"), testutil.TestActor)
	require.NoError(t, err)

	again, err := l.entries.SaveEntry(ctx, l.entryInput(3, domain.CategoryPlan, "100.00"), "someone-else")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, testutil.TestActor, again.UpdatedBy)

	history, err := l.entries.History(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestEntryService_SaveEntry_UpdateRecordsPrevious(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()

	first, err := l.entries.SaveEntry(ctx, l.entryInput(3, domain.CategoryPlan, "100"), testutil.TestActor)
	require.NoError(t, err)

	// Any day in the month addresses the same cell.
	in := l.entryInput(3, domain.CategoryPlan, "150")
	in.TargetMonth = testutil.Date(2025, 3, 17)
	updated, err := l.entries.SaveEntry(ctx, in, "editor")
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "editor", updated.UpdatedBy)

	history, err := l.entries.History(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.ChangeUpdate, history[1].ChangeType)
	require.NotNil(t, history[1].PreviousAmount)
	assert.True(t, history[1].PreviousAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, history[1].NewAmount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "editor", history[1].ChangedBy)

	// A description change alone is a change.
	in.Description = strPtr("revised")
	_, err = l.entries.SaveEntry(ctx, in, "editor")
	require.NoError(t, err)
	history, err = l.entries.History(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	list, err := l.entries.ListByNode(ctx, l.job.ID, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "revised", *list[0].Description)
}

func TestEntryService_SaveEntry_CategoriesAreSeparateCells(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()

	_, err := l.entries.SaveEntry(ctx, l.entryInput(3, domain.CategoryPlan, "100"), testutil.TestActor)
	require.NoError(t, err)
	_, err = l.entries.SaveEntry(ctx, l.entryInput(3, domain.CategoryResult, "90"), testutil.TestActor)
	require.NoError(t, err)
	_, err = l.entries.SaveEntry(ctx, l.entryInput(4, domain.CategoryPlan, "110"), testutil.TestActor)
	require.NoError(t, err)

	all, err := l.entries.ListByNode(ctx, l.job.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	result := domain.CategoryResult
	results, err := l.entries.ListByNode(ctx, l.job.ID, &result)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Amount.Equal(decimal.NewFromInt(90)))

	byScenario, err := l.entries.ListByScenario(ctx, l.scenario.ID)
	require.NoError(t, err)
	assert.Len(t, byScenario, 3)
}

func TestEntryService_SaveEntry_Rejections(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()

	container := l.entryInput(1, domain.CategoryPlan, "1")
	container.NodeID = l.project.ID
	_, err := l.entries.SaveEntry(ctx, container, testutil.TestActor)
	assert.ErrorIs(t, err, domain.ErrContainerNode)

	missingNode := l.entryInput(1, domain.CategoryPlan, "1")
	missingNode.NodeID = "missing"
	_, err = l.entries.SaveEntry(ctx, missingNode, testutil.TestActor)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missingAccount := l.entryInput(1, domain.CategoryPlan, "1")
	missingAccount.AccountItemID = "missing"
	_, err = l.entries.SaveEntry(ctx, missingAccount, testutil.TestActor)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	badCategory := l.entryInput(1, "Forecast", "1")
	_, err = l.entries.SaveEntry(ctx, badCategory, testutil.TestActor)
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := l.entries.ListByNode(ctx, l.job.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEntryService_SaveEntry_ReadOnlyScenario(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()

	e, err := l.entries.SaveEntry(ctx, l.entryInput(1, domain.CategoryPlan, "5"), testutil.TestActor)
	require.NoError(t, err)
	require.NoError(t, l.scenarios.Lock(ctx, l.scenario.ID, testutil.TestActor))

	_, err = l.entries.SaveEntry(ctx, l.entryInput(1, domain.CategoryPlan, "6"), testutil.TestActor)
	assert.ErrorIs(t, err, domain.ErrReadOnlyScenario)

	history, err := l.entries.History(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestEntryService_SaveBulk(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()

	saved, err := l.entries.SaveBulk(ctx, []SaveEntryInput{
		l.entryInput(1, domain.CategoryPlan, "10"),
		l.entryInput(2, domain.CategoryPlan, "20"),
		l.entryInput(1, domain.CategoryPlan, "15"),
	}, testutil.TestActor, "")
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.Equal(t, saved[0].ID, saved[2].ID, "later inputs see earlier writes")

	history, err := l.entries.History(ctx, saved[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.SourceBulk, history[0].OperationSource)
	assert.Equal(t, domain.ChangeUpdate, history[1].ChangeType)
}

func TestEntryService_SaveBulk_AllOrNothing(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()

	bad := l.entryInput(2, domain.CategoryPlan, "20")
	bad.NodeID = l.project.ID
	_, err := l.entries.SaveBulk(ctx, []SaveEntryInput{
		l.entryInput(1, domain.CategoryPlan, "10"),
		bad,
	}, testutil.TestActor, domain.SourceImport)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrContainerNode)
	assert.Contains(t, err.Error(), "entry 2")

	list, err := l.entries.ListByNode(ctx, l.job.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEntryService_SaveBulk_StorageFailureRollsBack(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()

	store := l.store
	store.UoW = &testutil.FailOnNthExecUoW{DB: l.db, FailOn: 3, Err: domain.ErrStorage}
	entries := NewEntryService(store, "")

	// Each new cell is an entry insert plus a history insert.
	_, err := entries.SaveBulk(ctx, []SaveEntryInput{
		l.entryInput(1, domain.CategoryPlan, "10"),
		l.entryInput(2, domain.CategoryPlan, "20"),
	}, testutil.TestActor, "")
	assert.ErrorIs(t, err, domain.ErrStorage)

	list, err := l.entries.ListByNode(ctx, l.job.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEntryService_History_NotFound(t *testing.T) {
	l := setupLedger(t)
	_, err := l.entries.History(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntryService_ConfiguredSource(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()

	entries := NewEntryService(l.store, "Batch")
	e, err := entries.SaveEntry(ctx, l.entryInput(1, domain.CategoryPlan, "1"), testutil.TestActor)
	require.NoError(t, err)

	history, err := l.entries.History(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Batch", history[0].OperationSource)
}
