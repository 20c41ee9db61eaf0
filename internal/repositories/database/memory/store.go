// Package memory provides an in-process implementation of the ledger store. A transaction
// works on a private copy of the state which replaces the shared state on commit.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type state struct {
	accounts     map[string]domain.Account
	groups       map[string]domain.AccountGroup
	entries      map[string]domain.JournalEntry
	lineEntry    map[string]string
	checkpoints  map[string]domain.Checkpoint
	investments  map[string]domain.InvestmentProperties
	displayOrder int64
}

func newState() *state {
	return &state{
		accounts:    make(map[string]domain.Account),
		groups:      make(map[string]domain.AccountGroup),
		entries:     make(map[string]domain.JournalEntry),
		lineEntry:   make(map[string]string),
		checkpoints: make(map[string]domain.Checkpoint),
		investments: make(map[string]domain.InvestmentProperties),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.displayOrder = s.displayOrder
	for k, v := range s.accounts {
		v.GroupID = cloneString(v.GroupID)
		c.accounts[k] = v
	}
	for k, v := range s.groups {
		c.groups[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = cloneEntry(v)
	}
	for k, v := range s.lineEntry {
		c.lineEntry[k] = v
	}
	for k, v := range s.checkpoints {
		c.checkpoints[k] = v
	}
	for k, v := range s.investments {
		v.Lots = append(domain.Lots(nil), v.Lots...)
		c.investments[k] = v
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneEntry(e domain.JournalEntry) domain.JournalEntry {
	if e.PostingDate != nil {
		d := *e.PostingDate
		e.PostingDate = &d
	}
	lines := make([]domain.JournalLine, len(e.Lines))
	for i, l := range e.Lines {
		if l.ExchangeRate != nil {
			r := *l.ExchangeRate
			l.ExchangeRate = &r
		}
		lines[i] = l
	}
	e.Lines = lines
	return e
}

// Store is a transactional in-memory ledger store. Transactions are fully serialized.
type Store struct {
	mu    sync.Mutex
	state *state
	rates []domain.ExchangeRate
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

var (
	_ portsrepo.Store              = (*Store)(nil)
	_ portsrepo.RateProvider       = (*Store)(nil)
	_ portsrepo.ExchangeRateWriter = (*Store)(nil)
	_ portsrepo.LedgerTx           = (*tx)(nil)
)

// WithinTx runs fn against a snapshot of the store and publishes the snapshot when fn
// succeeds. Calling WithinTx from inside fn deadlocks.
func (s *Store) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	t := &tx{st: s.state.clone()}
	if err := fn(ctx, t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = t.st
	return nil
}

// SaveExchangeRate records a rate, replacing one with the same pair and effective date.
func (s *Store) SaveExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rates {
		if r.FromCurrencyCode == rate.FromCurrencyCode && r.ToCurrencyCode == rate.ToCurrencyCode && r.DateEffective.Equal(rate.DateEffective) {
			s.rates[i] = rate
			return nil
		}
	}
	s.rates = append(s.rates, rate)
	return nil
}

// GetRate returns the most recent rate effective on or before on.
func (s *Store) GetRate(_ context.Context, from, to string, on domain.Date) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *domain.ExchangeRate
	for i := range s.rates {
		r := &s.rates[i]
		if r.FromCurrencyCode != from || r.ToCurrencyCode != to || r.DateEffective.After(on) {
			continue
		}
		if best == nil || r.DateEffective.After(best.DateEffective) {
			best = r
		}
	}
	if best == nil {
		return decimal.Zero, false, nil
	}
	return best.Rate, true, nil
}

type tx struct {
	st *state
}

// LockAccounts is a no-op: the store lock already serializes every transaction.
func (t *tx) LockAccounts(_ context.Context, _ []string) error { return nil }

func sortEntriesDesc(entries []domain.JournalEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.After(entries[j].EntryDate)
		}
		return entries[i].DisplayOrder > entries[j].DisplayOrder
	})
}
