package service

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/ghostledger/internal/db"
	"github.com/alexanderramin/ghostledger/internal/repository"
)

// Store is what every service needs from persistence: pool-level
// repositories for reads, and a unit of work plus a factory for the
// transaction-scoped repositories every mutation runs on.
type Store struct {
	Reads   repository.Repos
	UoW     db.UnitOfWork
	TxRepos repository.ReposFactory
}

// NewStore wires a SQLite-backed Store over database.
func NewStore(database *sql.DB) Store {
	return Store{
		Reads:   repository.NewSQLiteRepos(database),
		UoW:     db.NewSQLiteUnitOfWork(database),
		TxRepos: repository.NewSQLiteRepos,
	}
}

// withinTx runs fn against transaction-scoped repositories.
func (s Store) withinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) error {
	return s.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, s.TxRepos(tx))
	})
}
