package mapping

import (
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry. Lines are mapped separately.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:      d.EntryID,
		EntryDate:    d.EntryDate.Time(),
		PostingDate:  toModelDatePtr(d.PostingDate),
		Description:  d.Description,
		EntryType:    string(d.EntryType),
		DisplayOrder: d.DisplayOrder,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:      m.EntryID,
		EntryDate:    domain.DateOf(m.EntryDate),
		PostingDate:  toDomainDatePtr(m.PostingDate),
		Description:  m.Description,
		EntryType:    domain.EntryType(m.EntryType),
		DisplayOrder: m.DisplayOrder,
		Lines:        ToDomainJournalLineSlice(lines),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	m := models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		LineNo:       d.LineNo,
		AccountID:    d.AccountID,
		Amount:       d.Amount,
		CurrencyCode: d.CurrencyCode,
	}
	if d.ExchangeRate != nil {
		m.ExchangeRate = decimal.NewNullDecimal(*d.ExchangeRate)
	}
	return m
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	d := domain.JournalLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		LineNo:       m.LineNo,
		AccountID:    m.AccountID,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
	}
	if m.ExchangeRate.Valid {
		rate := m.ExchangeRate.Decimal
		d.ExchangeRate = &rate
	}
	return d
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to a slice of domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
