package db_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/ghostledger/internal/db"
	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	// Create a simple test table outside the migration set.
	_, err = database.Exec(`CREATE TABLE IF NOT EXISTS uow_test (id TEXT PRIMARY KEY, val TEXT)`)
	require.NoError(t, err)

	return db.NewSQLiteUnitOfWork(database)
}

// readVal is a helper that reads val for a given id using the underlying DB.
func readVal(uow *db.SQLiteUnitOfWork, id string) (string, bool) {
	// We need a raw *sql.DB to read outside transactions.
	// Re-use WithinTx with a read-only operation for simplicity.
	var val string
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		row := tx.QueryRowContext(ctx, `SELECT val FROM uow_test WHERE id = ?`, id)
		if err := row.Scan(&val); err != nil {
			return nil // not found
		}
		found = true
		return nil
	})
	return val, found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k1", "v1")
		return err
	})
	require.NoError(t, err)

	val, found := readVal(uow, "k1")
	assert.True(t, found, "row should exist after commit")
	assert.Equal(t, "v1", val)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k2", "v2")
		if err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := readVal(uow, "k2")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestDB(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO uow_test (id, val) VALUES (?, ?)`, "k3", "v3")
			panic("boom")
		})
	})

	_, found := readVal(uow, "k3")
	assert.False(t, found, "row should not exist after panic rollback")
}

func TestWithinTx_DeferredParentForeignKey(t *testing.T) {
	uow := openTestDB(t)

	// Children may be inserted before their parents as long as the parent
	// exists by commit time.
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scenarios (id, name, start_date, end_date, created_at, updated_at, created_by, updated_by)
			VALUES ('s', 'S', '2025-01-01', '2025-12-31', 'x', 'x', 'u', 'u')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO plan_nodes (id, scenario_id, parent_id, lineage_id, title, node_type, created_at, updated_at, created_by, updated_by)
			VALUES ('child', 's', 'root', 'l2', 'Child', 'Project', 'x', 'x', 'u', 'u')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO plan_nodes (id, scenario_id, lineage_id, title, node_type, created_at, updated_at, created_by, updated_by)
			VALUES ('root', 's', 'l1', 'Root', 'Initiative', 'x', 'x', 'u', 'u')`)
		return err
	})
	require.NoError(t, err)
}

func TestWithinTx_DanglingParentFailsAtCommit(t *testing.T) {
	uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scenarios (id, name, start_date, end_date, created_at, updated_at, created_by, updated_by)
			VALUES ('s', 'S', '2025-01-01', '2025-12-31', 'x', 'x', 'u', 'u')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO plan_nodes (id, scenario_id, parent_id, lineage_id, title, node_type, created_at, updated_at, created_by, updated_by)
			VALUES ('child', 's', 'missing', 'l2', 'Child', 'Project', 'x', 'x', 'u', 'u')`)
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

// Concurrent read-then-write transactions on a file database must queue
// rather than fail with SQLITE_BUSY, and none of the increments may be lost.
func TestWithinTx_ConcurrentReadModifyWriteSerializes(t *testing.T) {
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	_, err = database.Exec(`CREATE TABLE counter (id INTEGER PRIMARY KEY, n INTEGER NOT NULL)`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO counter (id, n) VALUES (1, 0)`)
	require.NoError(t, err)
	uow := db.NewSQLiteUnitOfWork(database)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
				var n int
				if err := tx.QueryRowContext(ctx, `SELECT n FROM counter WHERE id = 1`).Scan(&n); err != nil {
					return err
				}
				_, err := tx.ExecContext(ctx, `UPDATE counter SET n = ? WHERE id = 1`, n+1)
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var n int
	require.NoError(t, database.QueryRow(`SELECT n FROM counter WHERE id = 1`).Scan(&n))
	assert.Equal(t, workers, n)
}
