package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/SscSPs/household_ledger/internal/apperrors"
	"github.com/SscSPs/household_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

func (t *tx) NextDisplayOrder(_ context.Context) (int64, error) {
	t.st.displayOrder++
	return t.st.displayOrder, nil
}

func (t *tx) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	if _, exists := t.st.entries[entry.EntryID]; exists {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	for _, l := range entry.Lines {
		if _, ok := t.st.accounts[l.AccountID]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, l.AccountID)
		}
	}
	entry = cloneEntry(entry)
	sort.SliceStable(entry.Lines, func(i, j int) bool { return entry.Lines[i].LineNo < entry.Lines[j].LineNo })
	for _, l := range entry.Lines {
		t.st.lineEntry[l.LineID] = entry.EntryID
	}
	if entry.DisplayOrder > t.st.displayOrder {
		t.st.displayOrder = entry.DisplayOrder
	}
	t.st.entries[entry.EntryID] = entry
	return nil
}

func (t *tx) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	e, ok := t.st.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	e = cloneEntry(e)
	return &e, nil
}

func (t *tx) FindLineByID(_ context.Context, lineID string) (*domain.JournalLine, error) {
	entryID, ok := t.st.lineEntry[lineID]
	if !ok {
		return nil, fmt.Errorf("%w: journal line %s", apperrors.ErrNotFound, lineID)
	}
	for _, l := range t.st.entries[entryID].Lines {
		if l.LineID == lineID {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("%w: journal line %s", apperrors.ErrNotFound, lineID)
}

func (t *tx) FindEntriesByDateAndDescription(_ context.Context, date domain.Date, description string) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	for _, e := range t.st.entries {
		if e.EntryDate.Equal(date) && e.Description == description {
			out = append(out, cloneEntry(e))
		}
	}
	sortEntriesDesc(out)
	return out, nil
}

func (t *tx) FindEntriesByTypeAndAccount(_ context.Context, entryType domain.EntryType, accountID string) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	for _, e := range t.st.entries {
		if e.EntryType != entryType {
			continue
		}
		if _, ok := e.LineFor(accountID); ok {
			out = append(out, cloneEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder > out[j].DisplayOrder })
	return out, nil
}

func (t *tx) ListEntriesByAccount(_ context.Context, accountID string, limit int, cursor *portsrepo.EntryCursor) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	for _, e := range t.st.entries {
		if _, ok := e.LineFor(accountID); !ok {
			continue
		}
		if cursor != nil {
			if e.EntryDate.After(cursor.EntryDate) {
				continue
			}
			if e.EntryDate.Equal(cursor.EntryDate) && e.DisplayOrder >= cursor.DisplayOrder {
				continue
			}
		}
		out = append(out, cloneEntry(e))
	}
	sortEntriesDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t *tx) UpdateEntry(_ context.Context, entry domain.JournalEntry) error {
	existing, ok := t.st.entries[entry.EntryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	existing.EntryDate = entry.EntryDate
	existing.PostingDate = entry.PostingDate
	existing.Description = entry.Description
	existing.DisplayOrder = entry.DisplayOrder
	existing.LastUpdatedAt = entry.LastUpdatedAt
	t.st.entries[entry.EntryID] = cloneEntry(existing)
	return nil
}

func (t *tx) UpdateLine(_ context.Context, line domain.JournalLine) error {
	entryID, ok := t.st.lineEntry[line.LineID]
	if !ok {
		return fmt.Errorf("%w: journal line %s", apperrors.ErrNotFound, line.LineID)
	}
	if _, ok := t.st.accounts[line.AccountID]; !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
	}
	entry := t.st.entries[entryID]
	for i, l := range entry.Lines {
		if l.LineID == line.LineID {
			l.AccountID = line.AccountID
			l.Amount = line.Amount
			l.CurrencyCode = line.CurrencyCode
			l.ExchangeRate = line.ExchangeRate
			entry.Lines[i] = l
		}
	}
	t.st.entries[entryID] = cloneEntry(entry)
	return nil
}

func (t *tx) DeleteEntry(_ context.Context, entryID string) error {
	e, ok := t.st.entries[entryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	for _, l := range e.Lines {
		delete(t.st.lineEntry, l.LineID)
	}
	delete(t.st.entries, entryID)
	return nil
}

func matches(f portsrepo.LineFilter, e domain.JournalEntry) bool {
	d := e.EntryDate
	if f.After != nil && !d.After(*f.After) {
		return false
	}
	if f.From != nil && d.Before(*f.From) {
		return false
	}
	if f.Until != nil && d.After(*f.Until) {
		return false
	}
	if slices.Contains(f.ExcludeEntryIDs, e.EntryID) {
		return false
	}
	return !slices.Contains(f.ExcludeEntryTypes, e.EntryType)
}

func (t *tx) SumLines(_ context.Context, filter portsrepo.LineFilter) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range t.st.entries {
		if !matches(filter, e) {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID == filter.AccountID {
				sum = sum.Add(l.Amount)
			}
		}
	}
	return domain.Round2(sum), nil
}

func (t *tx) SumLinesByCurrency(_ context.Context, filter portsrepo.LineFilter) (domain.CurrencyBalances, error) {
	out := make(domain.CurrencyBalances)
	for _, e := range t.st.entries {
		if !matches(filter, e) {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID == filter.AccountID {
				out.Add(l.CurrencyCode, l.Amount)
			}
		}
	}
	return out, nil
}
