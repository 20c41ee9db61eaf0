package mapping

import (
	"github.com/SscSPs/household_ledger/internal/core/domain"
	"github.com/SscSPs/household_ledger/internal/models"
)

// ToModelCheckpoint converts a domain Checkpoint to a model Checkpoint
func ToModelCheckpoint(d domain.Checkpoint) models.Checkpoint {
	m := models.Checkpoint{
		CheckpointID:   d.CheckpointID,
		AccountID:      d.AccountID,
		CheckpointDate: d.CheckpointDate.Time(),
		Balance:        d.Balance,
		Description:    d.Description,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	if d.EntryID != "" {
		entryID := d.EntryID
		m.EntryID = &entryID
	}
	return m
}

// ToDomainCheckpoint converts a model Checkpoint to a domain Checkpoint
func ToDomainCheckpoint(m models.Checkpoint) domain.Checkpoint {
	d := domain.Checkpoint{
		CheckpointID:   m.CheckpointID,
		AccountID:      m.AccountID,
		CheckpointDate: domain.DateOf(m.CheckpointDate),
		Balance:        m.Balance,
		Description:    m.Description,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	if m.EntryID != nil {
		d.EntryID = *m.EntryID
	}
	return d
}
