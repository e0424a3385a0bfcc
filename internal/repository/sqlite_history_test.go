package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepo_AppendAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	f := seedTree(t, database)
	ctx := context.Background()

	e := testutil.NewTestEntry(f.job.ID, f.account.ID, testutil.Date(2025, 1, 1), domain.CategoryPlan, "100")
	require.NoError(t, NewSQLitePlEntryRepo(database).Create(ctx, e))

	repo := NewSQLitePlEntryHistoryRepo(database)
	create := domain.NewPlEntryHistory(e.ID, domain.ChangeCreate, nil, decimal.NewFromInt(100), "u1", domain.SourceAPI)
	prev := decimal.NewFromInt(100)
	update := domain.NewPlEntryHistory(e.ID, domain.ChangeUpdate, &prev, decimal.RequireFromString("150.25"), "u2", domain.SourceBulk)
	update.ChangedAt = create.ChangedAt.Add(time.Second)
	require.NoError(t, repo.Append(ctx, create))
	require.NoError(t, repo.Append(ctx, update))

	rows, err := repo.ListByEntry(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.ChangeCreate, rows[0].ChangeType)
	assert.Nil(t, rows[0].PreviousAmount)
	assert.Equal(t, domain.SourceAPI, rows[0].OperationSource)

	assert.Equal(t, domain.ChangeUpdate, rows[1].ChangeType)
	require.NotNil(t, rows[1].PreviousAmount)
	assert.True(t, rows[1].PreviousAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "150.25", rows[1].NewAmount.String())
	assert.Equal(t, "u2", rows[1].ChangedBy)
}

func TestHistoryRepo_UnknownEntryRejected(t *testing.T) {
	repo := NewSQLitePlEntryHistoryRepo(testutil.NewTestDB(t))
	h := domain.NewPlEntryHistory("missing", domain.ChangeCreate, nil, decimal.Zero, "u", domain.SourceAPI)
	assert.ErrorIs(t, repo.Append(context.Background(), h), domain.ErrStorage)
}
