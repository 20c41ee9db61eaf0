package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Checkpoint represents a row of the checkpoints table.
type Checkpoint struct {
	CheckpointID   string          `db:"checkpoint_id"`
	AccountID      string          `db:"account_id"`
	CheckpointDate time.Time       `db:"checkpoint_date"`
	Balance        decimal.Decimal `db:"balance"`
	Description    string          `db:"description"`
	EntryID        *string         `db:"entry_id"` // Nullable for rows written before entries were linked
	AuditFields
}
