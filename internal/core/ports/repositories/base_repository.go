package repositories

import "context"

// LedgerTx is the view of the store available inside one atomic transaction.
type LedgerTx interface {
	AccountRepositoryFacade
	JournalRepositoryFacade
	CheckpointRepository
	InvestmentRepository
}

// TxFunc is the unit of work executed inside a transaction. ctx is the transaction context.
type TxFunc func(ctx context.Context, tx LedgerTx) error

// Store opens transaction boundaries. WithinTx commits when fn returns nil and rolls back
// otherwise; a mutation of the same accounts from another caller is serialized by the store.
type Store interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
