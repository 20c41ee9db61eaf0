package mapping

import (
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		Name:         d.Name,
		AccountType:  string(d.AccountType),
		Subtype:      string(d.Subtype),
		CurrencyCode: d.CurrencyCode,
		IsArchived:   d.IsArchived,
		GroupID:      d.GroupID,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		Name:         m.Name,
		AccountType:  domain.AccountType(m.AccountType),
		Subtype:      domain.AccountSubtype(m.Subtype),
		CurrencyCode: m.CurrencyCode,
		IsArchived:   m.IsArchived,
		GroupID:      m.GroupID,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAccountGroup converts a domain AccountGroup to a model AccountGroup
func ToModelAccountGroup(d domain.AccountGroup) models.AccountGroup {
	return models.AccountGroup{
		GroupID:      d.GroupID,
		Name:         d.Name,
		AccountType:  string(d.AccountType),
		DisplayOrder: d.DisplayOrder,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountGroup converts a model AccountGroup to a domain AccountGroup
func ToDomainAccountGroup(m models.AccountGroup) domain.AccountGroup {
	return domain.AccountGroup{
		GroupID:      m.GroupID,
		Name:         m.Name,
		AccountType:  domain.AccountType(m.AccountType),
		DisplayOrder: m.DisplayOrder,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
