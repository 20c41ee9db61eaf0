// Package pgsql implements the ledger store on PostgreSQL using pgx.
package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store opens PostgreSQL transactions and serves exchange rates straight from the pool.
type Store struct {
	BaseRepository
}

// NewStore creates a Store backed by pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.Store              = (*Store)(nil)
	_ portsrepo.RateProvider       = (*Store)(nil)
	_ portsrepo.ExchangeRateWriter = (*Store)(nil)
	_ portsrepo.LedgerTx           = (*pgxTx)(nil)
)

// pgxTx implements every repository port on one open transaction.
type pgxTx struct {
	tx pgx.Tx
}

// WithinTx runs fn inside a database transaction, committing when it returns nil.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.Rollback(ctx, tx) // no-op after a successful commit

	if err := fn(ctx, &pgxTx{tx: tx}); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}
